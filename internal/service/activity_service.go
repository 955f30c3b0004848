package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/travel-crm/internal/events"
)

// CacheInvalidator drops computed views after data changes.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// ActivityService reacts to data changes: it writes an audit line per event
// and drops cached dashboards.
type ActivityService struct {
	dispatcher events.Dispatcher
	cache      CacheInvalidator
	logger     *zap.Logger
}

// NewActivityService creates the service. cache may be nil.
func NewActivityService(dispatcher events.Dispatcher, cache CacheInvalidator, logger *zap.Logger) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{
		dispatcher: dispatcher,
		cache:      cache,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to every data change event.
func (a *ActivityService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	events.SubscribeAll(a.dispatcher, events.DataChangeEvents, a.handleDataChanged)
}

func (a *ActivityService) handleDataChanged(ctx context.Context, event events.Event) error {
	a.logger.Info("audit",
		zap.String("event_type", string(event.Type)),
		zap.String("entity_id", event.EntityID),
		zap.String("actor_id", event.Actor.ID),
		zap.String("actor_role", string(event.Actor.Role)),
		zap.Time("at", event.Timestamp),
		zap.Any("payload", event.Payload))

	if a.cache == nil {
		return nil
	}
	// A failed invalidation leaves stale dashboards until their TTL runs out.
	if err := a.cache.Invalidate(ctx); err != nil {
		a.logger.Warn("dashboard cache invalidation failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
	return nil
}
