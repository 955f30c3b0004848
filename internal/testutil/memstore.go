// Package testutil provides in-memory stores and HTTP helpers shared by the
// service and handler tests.
package testutil

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/travel-crm/internal/domain"
	"github.com/spec-kit/travel-crm/internal/repository"
)

// ErrUnavailable simulates a store outage.
var ErrUnavailable = errors.New("store unavailable")

// MemStore implements every repository interface in memory. Set Fail to make
// all calls return ErrUnavailable.
type MemStore struct {
	mu        sync.RWMutex
	customers map[string]domain.Customer
	logs      map[string]domain.DailyLog
	users     map[string]domain.User
	seq       int64
	Fail      bool
}

// NewMemStore returns an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		customers: map[string]domain.Customer{},
		logs:      map[string]domain.DailyLog{},
		users:     map[string]domain.User{},
	}
}

// Store exposes the in-memory repositories through repository.Store.
func (m *MemStore) Store() repository.Store {
	return repository.Store{
		Customers: customerRepo{m},
		Logs:      logRepo{m},
		Users:     userRepo{m},
	}
}

// stamp returns strictly increasing timestamps so newest-first ordering is
// deterministic.
func (m *MemStore) stamp() time.Time {
	m.seq++
	return time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(m.seq) * time.Second)
}

func (m *MemStore) check() error {
	if m.Fail {
		return ErrUnavailable
	}
	return nil
}

type customerRepo struct{ m *MemStore }

func (r customerRepo) Create(_ context.Context, c *domain.Customer) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.check(); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = r.m.stamp()
	c.UpdatedAt = c.CreatedAt
	r.m.customers[c.ID] = *c
	return nil
}

func (r customerRepo) Update(_ context.Context, c *domain.Customer) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.check(); err != nil {
		return err
	}
	if _, ok := r.m.customers[c.ID]; !ok {
		return repository.ErrNotFound
	}
	c.UpdatedAt = r.m.stamp()
	r.m.customers[c.ID] = *c
	return nil
}

func (r customerRepo) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.check(); err != nil {
		return err
	}
	if _, ok := r.m.customers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.m.customers, id)
	return nil
}

func (r customerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	if err := r.m.check(); err != nil {
		return nil, err
	}
	c, ok := r.m.customers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r customerRepo) List(_ context.Context, q repository.CustomerQuery) ([]domain.Customer, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	if err := r.m.check(); err != nil {
		return nil, err
	}
	out := []domain.Customer{}
	for _, c := range r.m.customers {
		if q.AssignedEmployeeID != nil && c.AssignedEmployeeID != *q.AssignedEmployeeID {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out, nil
}

type logRepo struct{ m *MemStore }

func (r logRepo) Create(_ context.Context, l *domain.DailyLog) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.check(); err != nil {
		return err
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.CreatedAt = r.m.stamp()
	r.m.logs[l.ID] = *l
	return nil
}

func (r logRepo) Update(_ context.Context, l *domain.DailyLog) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.check(); err != nil {
		return err
	}
	if _, ok := r.m.logs[l.ID]; !ok {
		return repository.ErrNotFound
	}
	r.m.logs[l.ID] = *l
	return nil
}

func (r logRepo) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.check(); err != nil {
		return err
	}
	if _, ok := r.m.logs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.m.logs, id)
	return nil
}

func (r logRepo) GetByID(_ context.Context, id string) (*domain.DailyLog, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	if err := r.m.check(); err != nil {
		return nil, err
	}
	l, ok := r.m.logs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &l, nil
}

func (r logRepo) List(_ context.Context, q repository.LogQuery) ([]domain.DailyLog, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	if err := r.m.check(); err != nil {
		return nil, err
	}
	out := []domain.DailyLog{}
	for _, l := range r.m.logs {
		if q.CustomerID != nil && l.CustomerID != *q.CustomerID {
			continue
		}
		if q.EmployeeID != nil && l.EmployeeID != *q.EmployeeID {
			continue
		}
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool { return newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out, nil
}

type userRepo struct{ m *MemStore }

func (r userRepo) Create(_ context.Context, u *domain.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.check(); err != nil {
		return err
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range r.m.users {
		if existing.Email == u.Email {
			return errors.New("duplicate key value violates unique constraint users_email_lower_idx")
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = r.m.stamp()
	u.UpdatedAt = u.CreatedAt
	r.m.users[u.ID] = *u
	return nil
}

func (r userRepo) Update(_ context.Context, u *domain.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.check(); err != nil {
		return err
	}
	if _, ok := r.m.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.UpdatedAt = r.m.stamp()
	r.m.users[u.ID] = *u
	return nil
}

func (r userRepo) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.check(); err != nil {
		return err
	}
	if _, ok := r.m.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.m.users, id)
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	if err := r.m.check(); err != nil {
		return nil, err
	}
	u, ok := r.m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	if err := r.m.check(); err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r userRepo) List(_ context.Context) ([]domain.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	if err := r.m.check(); err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(r.m.users))
	for _, u := range r.m.users {
		out = append(out, u)
	}
	sort.SliceStable(out, func(i, j int) bool { return newerFirst(out[j].CreatedAt, out[i].CreatedAt, out[j].ID, out[i].ID) })
	return out, nil
}

func (r userRepo) TouchLastLogin(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.check(); err != nil {
		return err
	}
	u, ok := r.m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	ts := r.m.stamp()
	u.LastLogin = &ts
	r.m.users[id] = u
	return nil
}

// newerFirst orders by creation time descending. Map iteration is random, so
// equal timestamps fall back to the id.
func newerFirst(a, b time.Time, aID, bID string) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return aID < bID
}
