package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/travel-crm/internal/domain"
	"github.com/spec-kit/travel-crm/internal/events"
	"github.com/spec-kit/travel-crm/internal/testutil"
	apperrors "github.com/spec-kit/travel-crm/pkg/util/errorutil"
)

type revokerStub struct {
	ids []string
}

func (r *revokerStub) Revoke(_ context.Context, id string, _ time.Time) error {
	r.ids = append(r.ids, id)
	return nil
}

func newAuthService(f *fixture, revoker TokenRevoker) *AuthService {
	dispatcher := events.NewInMemoryDispatcher()
	events.SubscribeAll(dispatcher, events.DataChangeEvents, f.recorder.handle)
	return NewAuthService(testConfig(), AuthDependencies{
		UserRepo:   f.store.Store().Users,
		Revoker:    revoker,
		Dispatcher: dispatcher,
	})
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(f, nil)
	ctx := context.Background()

	res, err := svc.Login(ctx, "  ALICE@example.com ", testutil.TestPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, f.alice.ID, res.User.ID)

	claims, err := svc.TokenManager().ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployee, claims.Role)
	assert.Equal(t, res.ExpiresAt.Unix(), claims.ExpiresAt.Unix())

	stored, err := f.store.Store().Users.GetByID(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLogin)
}

func TestLoginFailures(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(f, nil)
	ctx := context.Background()

	_, err := svc.Login(ctx, "alice@example.com", "wrong-password")
	requireCode(t, err, apperrors.CodeUnauthorized)

	_, err = svc.Login(ctx, "ghost@example.com", testutil.TestPassword)
	requireCode(t, err, apperrors.CodeUnauthorized)
	assert.Equal(t, "invalid credentials", apperrors.ToDomainError(err).Message)

	f.bob.IsActive = false
	require.NoError(t, f.store.Store().Users.Update(ctx, f.bob))
	_, err = svc.Login(ctx, "bob@example.com", testutil.TestPassword)
	requireCode(t, err, apperrors.CodeUnauthorized)
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(f, nil)
	ctx := context.Background()

	u, err := svc.Register(ctx, f.admin.Actor(), RegisterInput{Name: "Carol", Email: "Carol@Example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployee, u.Role)
	assert.Equal(t, "carol@example.com", u.Email)
	assert.True(t, u.IsActive)
	assert.Equal(t, []events.EventType{events.EventUserChanged}, f.recorder.types())

	_, err = svc.Login(ctx, "carol@example.com", "hunter22")
	require.NoError(t, err)

	_, err = svc.Register(ctx, f.admin.Actor(), RegisterInput{Name: "Dup", Email: "carol@example.com", Password: "hunter22"})
	requireCode(t, err, apperrors.CodeConflict)

	_, err = svc.Register(ctx, f.admin.Actor(), RegisterInput{Name: "Bad", Email: "bad@example.com", Password: "hunter22", Role: "owner"})
	requireCode(t, err, apperrors.CodeValidationFailed)

	_, err = svc.Register(ctx, f.admin.Actor(), RegisterInput{Name: "Weak", Email: "weak@example.com", Password: "123"})
	requireCode(t, err, apperrors.CodeValidationFailed)

	_, err = svc.Register(ctx, f.alice.Actor(), RegisterInput{Name: "Eve", Email: "eve@example.com", Password: "hunter22"})
	requireCode(t, err, apperrors.CodeForbidden)
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newFixture(t)
	revoker := &revokerStub{}
	svc := newAuthService(f, revoker)

	require.NoError(t, svc.Logout(context.Background(), domain.Token{ID: "jti-1", ExpiresAt: time.Now().Add(time.Hour)}))
	assert.Equal(t, []string{"jti-1"}, revoker.ids)

	require.NoError(t, newAuthService(f, nil).Logout(context.Background(), domain.Token{ID: "jti-2"}))
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(f, nil)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, f.alice.ID, "nope", "new-secret")
	requireCode(t, err, apperrors.CodeUnauthorized)

	require.NoError(t, svc.ChangePassword(ctx, f.alice.ID, testutil.TestPassword, "new-secret"))
	_, err = svc.Login(ctx, "alice@example.com", "new-secret")
	require.NoError(t, err)
}
