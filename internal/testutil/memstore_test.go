package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/travel-crm/internal/domain"
	"github.com/spec-kit/travel-crm/internal/repository"
)

func TestCustomerListIsNewestFirst(t *testing.T) {
	store := NewMemStore()
	a := SeedCustomer(t, store, domain.Customer{Name: "first"})
	b := SeedCustomer(t, store, domain.Customer{Name: "second"})

	got, err := store.Store().Customers.List(context.Background(), repository.CustomerQuery{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []string{b.ID, a.ID}, []string{got[0].ID, got[1].ID})
}

func TestListOrderIsDeterministicOnTies(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	repo := store.Store().Customers
	same := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

	ids := []string{"c-3", "c-1", "c-2"}
	for _, id := range ids {
		c := domain.Customer{ID: id, Name: id}
		require.NoError(t, repo.Create(ctx, &c))
		c.CreatedAt = same
		require.NoError(t, repo.Update(ctx, &c))
	}

	for i := 0; i < 20; i++ {
		got, err := repo.List(ctx, repository.CustomerQuery{})
		require.NoError(t, err)
		order := make([]string, len(got))
		for j := range got {
			order[j] = got[j].ID
		}
		require.Equal(t, []string{"c-1", "c-2", "c-3"}, order)
	}
}

func TestNewerFirst(t *testing.T) {
	early := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Minute)

	assert.True(t, newerFirst(late, early, "b", "a"))
	assert.False(t, newerFirst(early, late, "a", "b"))
	assert.True(t, newerFirst(early, early, "a", "b"))
	assert.False(t, newerFirst(early, early, "b", "a"))
	assert.False(t, newerFirst(early, early, "a", "a"))
}
