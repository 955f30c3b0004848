// Package service holds the use cases behind the HTTP handlers. Every read
// path loads raw collections from the store and runs them through the crm
// scoping and filtering pipeline for the calling actor.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/travel-crm/internal/domain"
	"github.com/spec-kit/travel-crm/internal/events"
	apperrors "github.com/spec-kit/travel-crm/pkg/util/errorutil"
)

// Clock returns the current time. Services default to time.Now.
type Clock func() time.Time

func (c Clock) orNow() Clock {
	if c == nil {
		return time.Now
	}
	return c
}

func requireAdmin(actor *domain.Actor) error {
	if !actor.IsAdmin() {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

func requireActor(actor *domain.Actor) error {
	if actor == nil || !actor.Role.Valid() {
		return apperrors.NewUnauthorized("authentication required")
	}
	return nil
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil && logger != nil {
		logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.String("entity_id", event.EntityID),
			zap.Error(err))
	}
}

func isDate(v string) bool {
	_, err := time.Parse(domain.DateLayout, v)
	return err == nil
}
