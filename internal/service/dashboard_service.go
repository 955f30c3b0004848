package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/spec-kit/travel-crm/internal/crm"
	"github.com/spec-kit/travel-crm/internal/domain"
	"github.com/spec-kit/travel-crm/internal/observability"
	"github.com/spec-kit/travel-crm/internal/repository"
)

// DashboardCache stores computed views keyed by a list of parts.
type DashboardCache interface {
	Get(ctx context.Context, dest any, parts ...string) (bool, error)
	Set(ctx context.Context, value any, parts ...string) error
	Invalidate(ctx context.Context) error
}

// DashboardService computes the statistics views. A store that fails while
// loading a collection degrades the view to an empty collection instead of
// failing the request.
type DashboardService struct {
	customers repository.CustomerRepository
	logs      repository.LogRepository
	users     repository.UserRepository
	cache     DashboardCache
	metrics   *observability.Metrics
	logger    *zap.Logger
	now       Clock
}

// DashboardDependencies groups the collaborators of DashboardService. Cache
// and Metrics are optional.
type DashboardDependencies struct {
	CustomerRepo repository.CustomerRepository
	LogRepo      repository.LogRepository
	UserRepo     repository.UserRepository
	Cache        DashboardCache
	Metrics      *observability.Metrics
	Logger       *zap.Logger
	Clock        Clock
}

// NewDashboardService builds the service.
func NewDashboardService(deps DashboardDependencies) *DashboardService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		customers: deps.CustomerRepo,
		logs:      deps.LogRepo,
		users:     deps.UserRepo,
		cache:     deps.Cache,
		metrics:   deps.Metrics,
		logger:    logger,
		now:       deps.Clock.orNow(),
	}
}

// Dashboard summarises the actor's customers and logs after filtering.
func (s *DashboardService) Dashboard(ctx context.Context, actor *domain.Actor, raw crm.RawFilter) (*crm.Dashboard, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	now := s.now()
	filter, err := crm.ParseFilter(raw, now)
	if err != nil {
		return nil, err
	}

	ctx, span := observability.Tracer().Start(ctx, "dashboard.build", trace.WithAttributes(
		attribute.String("actor.role", string(actor.Role)),
		attribute.Bool("filter.empty", filter.IsZero()),
	))
	defer span.End()

	key := append([]string{"dashboard", string(actor.Role), actor.ID, now.Format(domain.DateLayout)}, rawFilterParts(raw)...)
	var cached crm.Dashboard
	if s.cacheGet(ctx, &cached, key) {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return &cached, nil
	}

	data, degraded := s.load(ctx, actor)
	var users []domain.User
	if actor.IsAdmin() {
		var usersOK bool
		users, usersOK = s.loadUsers(ctx)
		degraded = degraded || !usersOK
	}
	dashboard := crm.BuildDashboard(
		crm.FilterCustomers(data.Customers, filter),
		crm.FilterLogs(data.Logs, filter),
		users,
		now,
	)
	span.SetAttributes(
		attribute.Int("dashboard.customers", dashboard.TotalCustomers),
		attribute.Int("dashboard.logs", dashboard.TotalLogs),
		attribute.Bool("dashboard.degraded", degraded),
	)
	if !degraded {
		s.cacheSet(ctx, dashboard, key)
	}
	return &dashboard, nil
}

// Travel returns the travel-desk statistics of the actor's data.
func (s *DashboardService) Travel(ctx context.Context, actor *domain.Actor) (*crm.TravelStats, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	ctx, span := observability.Tracer().Start(ctx, "dashboard.travel")
	defer span.End()

	now := s.now()
	key := []string{"travel", string(actor.Role), actor.ID, now.Format(domain.DateLayout)}
	var cached crm.TravelStats
	if s.cacheGet(ctx, &cached, key) {
		return &cached, nil
	}

	data, degraded := s.load(ctx, actor)
	stats := crm.BuildTravelStats(data.Customers, data.Logs, now)
	span.SetAttributes(attribute.Bool("dashboard.degraded", degraded))
	if !degraded {
		s.cacheSet(ctx, stats, key)
	}
	return &stats, nil
}

// Search looks for term across the actor's customers and logs.
func (s *DashboardService) Search(ctx context.Context, actor *domain.Actor, term string, limit int) ([]crm.SearchResult, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	ctx, span := observability.Tracer().Start(ctx, "search")
	defer span.End()

	data, degraded := s.load(ctx, actor)
	results := crm.Search(data.Customers, data.Logs, term, limit)
	span.SetAttributes(
		attribute.Int("search.results", len(results)),
		attribute.Bool("dashboard.degraded", degraded),
	)
	return results, nil
}

// load fetches and scopes both collections. Employee queries are narrowed in
// the store as well; Scope remains the rule that decides. degraded is true when
// either collection could not be read and was replaced by an empty one.
func (s *DashboardService) load(ctx context.Context, actor *domain.Actor) (data crm.Scoped, degraded bool) {
	customerQuery := repository.CustomerQuery{}
	logQuery := repository.LogQuery{}
	if !actor.IsAdmin() {
		customerQuery.AssignedEmployeeID = &actor.ID
		logQuery.EmployeeID = &actor.ID
	}

	customers, err := s.customers.List(ctx, customerQuery)
	if err != nil {
		s.logger.Warn("dashboard: loading customers failed, continuing without them",
			zap.String("actor_id", actor.ID), zap.Error(err))
		customers = nil
		degraded = true
	}
	logs, err := s.logs.List(ctx, logQuery)
	if err != nil {
		s.logger.Warn("dashboard: loading logs failed, continuing without them",
			zap.String("actor_id", actor.ID), zap.Error(err))
		logs = nil
		degraded = true
	}
	return crm.Scope(actor, customers, logs), degraded
}

func (s *DashboardService) loadUsers(ctx context.Context) ([]domain.User, bool) {
	users, err := s.users.List(ctx)
	if err != nil {
		s.logger.Warn("dashboard: loading users failed, continuing without them", zap.Error(err))
		return nil, false
	}
	return users, true
}

func (s *DashboardService) cacheGet(ctx context.Context, dest any, key []string) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, dest, key...)
	if err != nil {
		s.logger.Warn("dashboard cache read failed", zap.Error(err))
		hit = false
	}
	s.metrics.RecordCache(hit)
	return hit
}

func (s *DashboardService) cacheSet(ctx context.Context, value any, key []string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, value, key...); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
}

func rawFilterParts(raw crm.RawFilter) []string {
	return []string{
		raw.SearchTerm,
		raw.CustomerStatus,
		raw.DateFrom,
		raw.DateTo,
		raw.ActivityType,
		raw.Outcome,
		raw.FollowUpRequired,
		raw.EmployeeID,
		raw.FollowUp,
	}
}
