package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/travel-crm/internal/config"
	"github.com/spec-kit/travel-crm/internal/domain"
	"github.com/spec-kit/travel-crm/internal/events"
	"github.com/spec-kit/travel-crm/internal/testutil"
	apperrors "github.com/spec-kit/travel-crm/pkg/util/errorutil"
)

var fixedNow = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type fixture struct {
	store     *testutil.MemStore
	admin     *domain.User
	alice     *domain.User
	bob       *domain.User
	recorder  *recorder
	customers *CustomerService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewMemStore()
	f := &fixture{
		store:    store,
		admin:    testutil.SeedUser(t, store, "Ada Admin", "ada@example.com", domain.RoleAdmin),
		alice:    testutil.SeedUser(t, store, "Alice", "alice@example.com", domain.RoleEmployee),
		bob:      testutil.SeedUser(t, store, "Bob", "bob@example.com", domain.RoleEmployee),
		recorder: &recorder{},
	}
	dispatcher := events.NewInMemoryDispatcher()
	events.SubscribeAll(dispatcher, events.DataChangeEvents, f.recorder.handle)

	repos := store.Store()
	f.customers = NewCustomerService(CustomerDependencies{
		CustomerRepo: repos.Customers,
		LogRepo:      repos.Logs,
		UserRepo:     repos.Users,
		Dispatcher:   dispatcher,
		Clock:        fixedClock,
	})
	return f
}

func testConfig() config.Config {
	return config.Config{Auth: config.AuthConfig{JWTSecret: testutil.JWTSecret, AccessTokenTTLMinutes: 60, BcryptCost: 4}}
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, apperrors.ToDomainError(err).Code, "error: %v", err)
}
