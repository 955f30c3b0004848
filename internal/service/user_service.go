package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/travel-crm/internal/auth"
	"github.com/spec-kit/travel-crm/internal/config"
	"github.com/spec-kit/travel-crm/internal/domain"
	"github.com/spec-kit/travel-crm/internal/events"
	"github.com/spec-kit/travel-crm/internal/repository"
	apperrors "github.com/spec-kit/travel-crm/pkg/util/errorutil"
)

// UserService manages employee and administrator accounts.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// UserDependencies encapsulates repositories required for account management.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewUserService builds the service.
func NewUserService(cfg config.Config, deps UserDependencies) *UserService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// UserUpdate carries the account fields an administrator may change. Nil
// fields are left as they are.
type UserUpdate struct {
	Name       *string
	Email      *string
	Role       *domain.Role
	Department *string
	IsActive   *bool
	Password   *string
}

// List returns every account.
func (s *UserService) List(ctx context.Context, actor *domain.Actor) ([]domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// Get returns one account.
func (s *UserService) Get(ctx context.Context, actor *domain.Actor, id string) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.find(ctx, id)
}

// Update applies the non-nil fields of in.
func (s *UserService) Update(ctx context.Context, actor *domain.Actor, id string, in UserUpdate) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		if err := emailFree(ctx, s.users, *in.Email, user.ID); err != nil {
			return nil, err
		}
		user.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": "must be admin or employee"})
		}
		if user.ID == actor.ID && *in.Role != domain.RoleAdmin {
			return nil, apperrors.NewForbidden("cannot remove your own admin role")
		}
		user.Role = *in.Role
	}
	if in.Department != nil {
		user.Department = *in.Department
	}
	if in.IsActive != nil {
		if user.ID == actor.ID && !*in.IsActive {
			return nil, apperrors.NewForbidden("cannot deactivate your own account")
		}
		user.IsActive = *in.IsActive
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password, s.bcryptCost)
		if err != nil {
			if errors.Is(err, auth.ErrWeakPassword) {
				return nil, weakPasswordError()
			}
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	publishEvent(ctx, s.dispatcher, s.logger, events.New(events.EventUserChanged, user.ID, actor, nil))
	return user, nil
}

// Delete removes an account. Customers assigned to it keep the dangling id.
func (s *UserService) Delete(ctx context.Context, actor *domain.Actor, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if id == actor.ID {
		return apperrors.NewForbidden("cannot delete your own account")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return err
	}
	publishEvent(ctx, s.dispatcher, s.logger, events.New(events.EventUserChanged, id, actor, nil))
	return nil
}

func (s *UserService) find(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return nil, err
	}
	return user, nil
}
