package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/travel-crm/internal/auth"
	"github.com/spec-kit/travel-crm/internal/domain"
)

// TestPassword is the password of every user created by SeedUser.
const TestPassword = "secret123"

// JWTSecret signs tokens in tests.
const JWTSecret = "test-secret"

// SeedUser stores an active user with TestPassword and returns it.
func SeedUser(t *testing.T, store *MemStore, name, email string, role domain.Role) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(TestPassword, 4)
	require.NoError(t, err)
	u := &domain.User{Name: name, Email: email, Role: role, PasswordHash: hash, IsActive: true}
	require.NoError(t, store.Store().Users.Create(context.Background(), u))
	return u
}

// SeedCustomer stores c after normalising it and returns the stored copy.
func SeedCustomer(t *testing.T, store *MemStore, c domain.Customer) domain.Customer {
	t.Helper()
	c.Normalize()
	require.NoError(t, store.Store().Customers.Create(context.Background(), &c))
	return c
}

// SeedLog stores l after normalising it and returns the stored copy.
func SeedLog(t *testing.T, store *MemStore, l domain.DailyLog) domain.DailyLog {
	t.Helper()
	l.Normalize()
	require.NoError(t, store.Store().Logs.Create(context.Background(), &l))
	return l
}

// TokenFor signs a bearer token for u with the test secret.
func TokenFor(t *testing.T, tokens *auth.TokenManager, u *domain.User) string {
	t.Helper()
	raw, _, err := tokens.GenerateToken(u)
	require.NoError(t, err)
	return raw
}
