package crm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/travel-crm/internal/domain"
)

func TestBuildTravelStats(t *testing.T) {
	customers := []domain.Customer{
		{ID: "1", Status: domain.CustomerStatusActive, Destination: "Dubai", TravelFrom: "2024-04-01", TravelTo: "2024-04-10", Budget: "2,500 USD", Service: "visa"},
		{ID: "2", Status: domain.CustomerStatusActive, Destination: "Paris", TravelFrom: "2024-02-01", TravelTo: "2024-02-10", Budget: "1000.5"},
		{ID: "3", Status: domain.CustomerStatusProspect, Destination: "Dubai", TravelFrom: "2024-03-20", Budget: "ask later", Service: "fullPackage"},
		{ID: "4", Status: domain.CustomerStatusActive, IsTravelling: true},
	}
	logs := []domain.DailyLog{
		{ID: "l1", Subject: "Visa documents", CreatedAt: testNow.Add(-2 * time.Hour)},
		{ID: "l2", Subject: "Lunch", CreatedAt: testNow},
		{ID: "l3", Subject: "Hotel booking", CreatedAt: testNow.Add(-time.Hour)},
	}

	stats := BuildTravelStats(customers, logs, testNow)

	assert.Equal(t, 3, stats.TotalTravelCustomers)
	assert.Equal(t, 3, stats.ActiveBookings)
	assert.Equal(t, 1, stats.CompletedTrips)
	assert.Equal(t, 2, stats.PendingVisas)
	assert.Equal(t, 2, stats.UpcomingDepartures)
	assert.Equal(t, 1, stats.CurrentlyTravelling)
	assert.InDelta(t, 3500.5, stats.TotalRevenue, 0.001)
	assert.Equal(t, []DestinationCount{{"Dubai", 2}, {"Paris", 1}}, stats.TopDestinations)

	require.Len(t, stats.UpcomingTrips, 2)
	assert.Equal(t, "3", stats.UpcomingTrips[0].ID)
	assert.Equal(t, "1", stats.UpcomingTrips[1].ID)

	require.Len(t, stats.RecentTravelActivity, 2)
	assert.Equal(t, "l3", stats.RecentTravelActivity[0].ID)
	assert.Equal(t, "l1", stats.RecentTravelActivity[1].ID)
}

func TestParseBudget(t *testing.T) {
	tests := map[string]float64{
		"":            0,
		"1500":        1500,
		"1,20,000":    120000,
		"2500.75 EUR": 2500.75,
		"approx 300":  0,
		"-":           0,
	}
	for in, want := range tests {
		assert.InDelta(t, want, parseBudget(in), 0.0001, "parseBudget(%q)", in)
	}
}

func TestTravelling(t *testing.T) {
	customers := []domain.Customer{{ID: "1"}, {ID: "2", IsTravelling: true}}
	got := Travelling(customers)
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
	assert.NotNil(t, Travelling(nil))
}
