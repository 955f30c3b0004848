package crm

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/travel-crm/internal/domain"
)

const travelListLimit = 5

// DestinationCount is one row of the destination ranking.
type DestinationCount struct {
	Destination string `json:"destination"`
	Count       int    `json:"count"`
}

// TravelStats is the travel-desk view of a scoped data set.
type TravelStats struct {
	TotalTravelCustomers int                `json:"totalTravelCustomers"`
	ActiveBookings       int                `json:"activeBookings"`
	CompletedTrips       int                `json:"completedTrips"`
	PendingVisas         int                `json:"pendingVisas"`
	UpcomingDepartures   int                `json:"upcomingDepartures"`
	CurrentlyTravelling  int                `json:"currentlyTravelling"`
	TotalRevenue         float64            `json:"totalRevenue"`
	TopDestinations      []DestinationCount `json:"topDestinations"`
	UpcomingTrips        []domain.Customer  `json:"upcomingTrips"`
	RecentTravelActivity []domain.DailyLog  `json:"recentTravelActivity"`
}

// BuildTravelStats summarises bookings, departures and travel-related activity.
// Budgets are free text; the leading number of each is summed and anything
// unparseable counts as zero.
func BuildTravelStats(customers []domain.Customer, logs []domain.DailyLog, now time.Time) TravelStats {
	today := now.Format(domain.DateLayout)
	stats := TravelStats{}
	var destinations Tally

	for i := range customers {
		c := &customers[i]
		if c.Destination != "" || c.TravelFrom != "" || c.TravelTo != "" || c.Service != "" {
			stats.TotalTravelCustomers++
		}
		if c.Status == domain.CustomerStatusActive {
			stats.ActiveBookings++
			if c.TravelTo != "" && c.TravelTo < today {
				stats.CompletedTrips++
			}
		}
		if c.Service == "visa" || c.Service == "fullPackage" {
			stats.PendingVisas++
		}
		if c.TravelFrom != "" && c.TravelFrom > today {
			stats.UpcomingDepartures++
		}
		if c.IsTravelling {
			stats.CurrentlyTravelling++
		}
		if c.Destination != "" {
			destinations.Add(c.Destination)
		}
		stats.TotalRevenue += parseBudget(c.Budget)
	}

	stats.TopDestinations = topDestinations(destinations, travelListLimit)
	stats.UpcomingTrips = upcomingTrips(customers, today, travelListLimit)
	stats.RecentTravelActivity = recentTravelActivity(logs, travelListLimit)
	return stats
}

// Travelling returns the customers currently on a trip.
func Travelling(customers []domain.Customer) []domain.Customer {
	return keep(customers, func(c *domain.Customer) bool { return c.IsTravelling })
}

func topDestinations(t Tally, limit int) []DestinationCount {
	out := make([]DestinationCount, 0, t.Len())
	for _, label := range t.Labels() {
		out = append(out, DestinationCount{Destination: label, Count: t.Count(label)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func upcomingTrips(customers []domain.Customer, today string, limit int) []domain.Customer {
	out := keep(customers, func(c *domain.Customer) bool {
		return c.TravelFrom != "" && c.TravelFrom > today
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].TravelFrom < out[j].TravelFrom })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func recentTravelActivity(logs []domain.DailyLog, limit int) []domain.DailyLog {
	out := keep(logs, func(l *domain.DailyLog) bool {
		subject := strings.ToLower(l.Subject)
		return strings.Contains(subject, "travel") ||
			strings.Contains(subject, "visa") ||
			strings.Contains(subject, "booking")
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// parseBudget reads the leading decimal number of a budget such as
// "2500.50 USD" or "1,20,000". Grouping commas are skipped.
func parseBudget(raw string) float64 {
	raw = strings.TrimSpace(raw)
	var b strings.Builder
	seenDot := false
scan:
	for i, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ',' && b.Len() > 0:
		case r == '.' && !seenDot:
			seenDot = true
			b.WriteRune(r)
		case (r == '-' || r == '+') && i == 0:
			b.WriteRune(r)
		default:
			break scan
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(b.String(), "."), 64)
	if err != nil {
		return 0
	}
	return v
}
