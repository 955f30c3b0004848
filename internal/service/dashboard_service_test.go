package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/travel-crm/internal/crm"
	"github.com/spec-kit/travel-crm/internal/domain"
	"github.com/spec-kit/travel-crm/internal/observability"
	"github.com/spec-kit/travel-crm/internal/testutil"
	apperrors "github.com/spec-kit/travel-crm/pkg/util/errorutil"
)

type memCache struct {
	entries     map[string][]byte
	invalidated int
}

func newMemCache() *memCache { return &memCache{entries: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, dest any, parts ...string) (bool, error) {
	raw, ok := c.entries[strings.Join(parts, "|")]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memCache) Set(_ context.Context, value any, parts ...string) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[strings.Join(parts, "|")] = raw
	return nil
}

func (c *memCache) Invalidate(context.Context) error {
	c.entries = map[string][]byte{}
	c.invalidated++
	return nil
}

func newDashboardService(f *fixture, cache DashboardCache, metrics *observability.Metrics, logger *zap.Logger) *DashboardService {
	repos := f.store.Store()
	return NewDashboardService(DashboardDependencies{
		CustomerRepo: repos.Customers,
		LogRepo:      repos.Logs,
		UserRepo:     repos.Users,
		Cache:        cache,
		Metrics:      metrics,
		Logger:       logger,
		Clock:        fixedClock,
	})
}

func seedDashboardData(t *testing.T, f *fixture) {
	t.Helper()
	testutil.SeedCustomer(t, f.store, domain.Customer{Name: "A1", Status: domain.CustomerStatusActive, AssignedEmployeeID: f.alice.ID, Destination: "Lisbon"})
	testutil.SeedCustomer(t, f.store, domain.Customer{Name: "A2", Status: domain.CustomerStatusProspect, AssignedEmployeeID: f.alice.ID})
	testutil.SeedCustomer(t, f.store, domain.Customer{Name: "B1", Status: domain.CustomerStatusActive, AssignedEmployeeID: f.bob.ID})
	testutil.SeedLog(t, f.store, domain.DailyLog{EmployeeID: f.alice.ID, EmployeeName: "Alice", Type: domain.ActivityCall, Outcome: domain.OutcomePositive, Subject: "booking call", Date: "2024-03-15"})
	testutil.SeedLog(t, f.store, domain.DailyLog{EmployeeID: f.alice.ID, EmployeeName: "Alice", Type: domain.ActivityEmail, Outcome: domain.OutcomeNeutral, Subject: "quote", Date: "2024-03-14"})
	testutil.SeedLog(t, f.store, domain.DailyLog{EmployeeID: f.bob.ID, EmployeeName: "Bob", Type: domain.ActivityMeeting, Outcome: domain.OutcomeNegative, Subject: "visa meeting", Date: "2024-03-01",
		FollowUpRequired: true, FollowUpDate: strPtr("2024-03-10")})
}

func TestDashboardForEmployee(t *testing.T) {
	f := newFixture(t)
	seedDashboardData(t, f)
	svc := newDashboardService(f, nil, nil, nil)

	d, err := svc.Dashboard(context.Background(), f.alice.Actor(), crm.RawFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, d.TotalCustomers)
	assert.Equal(t, 1, d.ActiveCustomers)
	assert.Equal(t, 2, d.TotalLogs)
	assert.Equal(t, 1, d.TodayLogs)
	assert.Equal(t, 50, d.ConversionRate)
	assert.Equal(t, 0, d.OverdueFollowUps)
	assert.Equal(t, 1, d.TotalEmployees)
	require.Len(t, d.EmployeeStats, 1)
	assert.Equal(t, f.alice.ID, d.EmployeeStats[0].EmployeeID)
}

func TestDashboardForAdmin(t *testing.T) {
	f := newFixture(t)
	seedDashboardData(t, f)
	svc := newDashboardService(f, nil, nil, nil)

	d, err := svc.Dashboard(context.Background(), f.admin.Actor(), crm.RawFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, d.TotalCustomers)
	assert.Equal(t, 3, d.TotalLogs)
	assert.Equal(t, 3, d.TotalEmployees, "counts accounts, not only authors")
	assert.Equal(t, 1, d.PendingFollowUps)
	assert.Equal(t, 1, d.OverdueFollowUps)
	assert.Equal(t, 33, d.ConversionRate)

	filtered, err := svc.Dashboard(context.Background(), f.admin.Actor(), crm.RawFilter{ActivityType: "meeting", CustomerStatus: "active"})
	require.NoError(t, err)
	assert.Equal(t, 2, filtered.TotalCustomers)
	assert.Equal(t, 1, filtered.TotalLogs)
	assert.Equal(t, 0, filtered.ConversionRate)
}

func TestDashboardRejectsInvalidFilter(t *testing.T) {
	f := newFixture(t)
	svc := newDashboardService(f, nil, nil, nil)

	_, err := svc.Dashboard(context.Background(), f.admin.Actor(), crm.RawFilter{Outcome: "amazing"})
	requireCode(t, err, apperrors.CodeValidationFailed)

	_, err = svc.Dashboard(context.Background(), nil, crm.RawFilter{})
	requireCode(t, err, apperrors.CodeUnauthorized)
}

func TestDashboardDegradesWhenStoreFails(t *testing.T) {
	f := newFixture(t)
	seedDashboardData(t, f)
	core, logs := observer.New(zap.WarnLevel)
	svc := newDashboardService(f, nil, nil, zap.New(core))

	f.store.Fail = true
	d, err := svc.Dashboard(context.Background(), f.admin.Actor(), crm.RawFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, d.TotalCustomers)
	assert.Equal(t, 0, d.TotalLogs)
	assert.NotNil(t, d.EmployeeStats)
	assert.Equal(t, 3, logs.Len(), "one warning per collection")
}

func TestDashboardUsesCache(t *testing.T) {
	f := newFixture(t)
	seedDashboardData(t, f)
	cache := newMemCache()
	metrics := observability.NewMetrics()
	svc := newDashboardService(f, cache, metrics, nil)
	ctx := context.Background()

	first, err := svc.Dashboard(ctx, f.admin.Actor(), crm.RawFilter{})
	require.NoError(t, err)

	f.store.Fail = true
	second, err := svc.Dashboard(ctx, f.admin.Actor(), crm.RawFilter{})
	require.NoError(t, err)
	assert.Equal(t, first.TotalLogs, second.TotalLogs)
	assert.Equal(t, first.OutcomeStats.Labels(), second.OutcomeStats.Labels())

	other, err := svc.Dashboard(ctx, f.alice.Actor(), crm.RawFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, other.TotalLogs, "entries are per actor")
	assert.Len(t, cache.entries, 1)

	snap := metrics.Snapshot()
	assert.Equal(t, int64(1), snap.CacheHits)
	assert.Equal(t, int64(2), snap.CacheMisses)
}

func TestDegradedDashboardIsNotCached(t *testing.T) {
	f := newFixture(t)
	seedDashboardData(t, f)
	cache := newMemCache()
	svc := newDashboardService(f, cache, nil, nil)
	ctx := context.Background()

	f.store.Fail = true
	during, err := svc.Dashboard(ctx, f.admin.Actor(), crm.RawFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, during.TotalLogs)
	travelDuring, err := svc.Travel(ctx, f.alice.Actor())
	require.NoError(t, err)
	assert.Equal(t, 0, travelDuring.TotalTravelCustomers)
	assert.Empty(t, cache.entries)

	f.store.Fail = false
	after, err := svc.Dashboard(ctx, f.admin.Actor(), crm.RawFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, after.TotalLogs)
	travelAfter, err := svc.Travel(ctx, f.alice.Actor())
	require.NoError(t, err)
	assert.Equal(t, 1, travelAfter.TotalTravelCustomers)
	assert.Len(t, cache.entries, 2)
}

func TestTravelStats(t *testing.T) {
	f := newFixture(t)
	seedDashboardData(t, f)
	svc := newDashboardService(f, nil, nil, nil)

	stats, err := svc.Travel(context.Background(), f.alice.Actor())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalTravelCustomers)
	require.Len(t, stats.TopDestinations, 1)
	assert.Equal(t, "Lisbon", stats.TopDestinations[0].Destination)
	require.Len(t, stats.RecentTravelActivity, 1)
	assert.Equal(t, "booking call", stats.RecentTravelActivity[0].Subject)
}

func TestSearchIsScoped(t *testing.T) {
	f := newFixture(t)
	seedDashboardData(t, f)
	svc := newDashboardService(f, nil, nil, nil)

	results, err := svc.Search(context.Background(), f.alice.Actor(), "b1", 0)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = svc.Search(context.Background(), f.admin.Actor(), "b1", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, crm.ResultCustomer, results[0].Type)
	assert.Equal(t, "B1", results[0].Customer.Name)
}
