// Package repository defines the record stores the services depend on and
// their Postgres implementations. The mongostore subpackage implements the
// same interfaces on MongoDB.
package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/travel-crm/internal/domain"
	apperrors "github.com/spec-kit/travel-crm/pkg/util/errorutil"
)

// ErrNotFound is returned when a record with the requested key does not exist.
var ErrNotFound = apperrors.ErrNotFound

// CustomerQuery narrows a customer listing. Nil fields place no constraint.
type CustomerQuery struct {
	AssignedEmployeeID *string
}

// LogQuery narrows an activity log listing. Nil fields place no constraint.
type LogQuery struct {
	CustomerID *string
	EmployeeID *string
}

// CustomerRepository persists customers.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	Update(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context, query CustomerQuery) ([]domain.Customer, error)
}

// LogRepository persists activity logs.
type LogRepository interface {
	Create(ctx context.Context, log *domain.DailyLog) error
	Update(ctx context.Context, log *domain.DailyLog) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.DailyLog, error)
	List(ctx context.Context, query LogQuery) ([]domain.DailyLog, error)
}

// UserRepository defines persistence access for employee and admin accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	TouchLastLogin(ctx context.Context, id string) error
}

// Store bundles the repositories of one backend.
type Store struct {
	Customers CustomerRepository
	Logs      LogRepository
	Users     UserRepository
}

// NewPostgresStore wires the Postgres repositories over one pool.
func NewPostgresStore(pool *pgxpool.Pool) Store {
	return Store{
		Customers: NewCustomerRepository(pool),
		Logs:      NewLogRepository(pool),
		Users:     NewUserRepository(pool),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}
