package http

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/travel-crm/internal/api/http/handlers"
	"github.com/spec-kit/travel-crm/internal/auth"
	"github.com/spec-kit/travel-crm/internal/config"
	"github.com/spec-kit/travel-crm/internal/domain"
	"github.com/spec-kit/travel-crm/internal/events"
	"github.com/spec-kit/travel-crm/internal/export"
	"github.com/spec-kit/travel-crm/internal/observability"
	"github.com/spec-kit/travel-crm/internal/service"
	"github.com/spec-kit/travel-crm/internal/testutil"
	apperrors "github.com/spec-kit/travel-crm/pkg/util/errorutil"
)

type revocationSet struct {
	mu  sync.Mutex
	ids map[string]bool
}

func (r *revocationSet) Revoke(_ context.Context, id string, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids[id] = true
	return nil
}

func (r *revocationSet) IsRevoked(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ids[id], nil
}

type testEnv struct {
	app    *fiber.App
	store  *testutil.MemStore
	tokens *auth.TokenManager
	admin  *domain.User
	alice  *domain.User
	bob    *domain.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := config.Config{
		App:  config.AppConfig{Name: "travel-crm-test", Version: "test", RequestTimeoutSeconds: 5},
		Auth: config.AuthConfig{JWTSecret: testutil.JWTSecret, AccessTokenTTLMinutes: 60, BcryptCost: 4},
		HTTP: config.HTTPConfig{CORSOrigins: "*", LoginRateLimit: 3, LoginRateWindowSec: 60},
	}
	store := testutil.NewMemStore()
	repos := store.Store()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	revocations := &revocationSet{ids: map[string]bool{}}

	authService := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo: repos.Users, Revoker: revocations, Dispatcher: dispatcher, Logger: logger,
	})
	userService := service.NewUserService(cfg, service.UserDependencies{UserRepo: repos.Users, Dispatcher: dispatcher, Logger: logger})
	customerService := service.NewCustomerService(service.CustomerDependencies{
		CustomerRepo: repos.Customers, LogRepo: repos.Logs, UserRepo: repos.Users, Dispatcher: dispatcher, Logger: logger,
	})
	dashboardService := service.NewDashboardService(service.DashboardDependencies{
		CustomerRepo: repos.Customers, LogRepo: repos.Logs, UserRepo: repos.Users, Metrics: metrics, Logger: logger,
	})

	app := fiber.New()
	RegisterMiddlewares(app, cfg, logger, metrics)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService, authService),
		Customers:      handlers.NewCustomersHandler(customerService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService, metrics),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), repos.Users, revocations, logger),
		LoginLimiter:   LoginLimiter(cfg.HTTP),
	})

	return &testEnv{
		app:    app,
		store:  store,
		tokens: authService.TokenManager(),
		admin:  testutil.SeedUser(t, store, "Ada Admin", "ada@example.com", domain.RoleAdmin),
		alice:  testutil.SeedUser(t, store, "Alice", "alice@example.com", domain.RoleEmployee),
		bob:    testutil.SeedUser(t, store, "Bob", "bob@example.com", domain.RoleEmployee),
	}
}

func (e *testEnv) token(t *testing.T, u *domain.User) string {
	return testutil.TokenFor(t, e.tokens, u)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/health", "/api/health", "/health/ready"} {
		resp := testutil.Do(t, env.app, fiber.MethodGet, path, "", nil)
		assert.Equal(t, fiber.StatusOK, resp.Status, path)
	}

	var body struct {
		Status string  `json:"status"`
		Uptime float64 `json:"uptime"`
	}
	testutil.Do(t, env.app, fiber.MethodGet, "/health", "", nil).Decode(t, &body)
	assert.Equal(t, "ok", body.Status)
}

func TestLoginAndMe(t *testing.T) {
	env := newTestEnv(t)

	resp := testutil.Do(t, env.app, fiber.MethodPost, "/api/auth/login", "", fiber.Map{"email": "alice@example.com", "password": testutil.TestPassword})
	require.Equal(t, fiber.StatusOK, resp.Status, string(resp.Body))
	var login struct {
		Data struct {
			Token string      `json:"token"`
			User  domain.User `json:"user"`
		} `json:"data"`
	}
	resp.Decode(t, &login)
	require.NotEmpty(t, login.Data.Token)
	assert.Equal(t, env.alice.ID, login.Data.User.ID)
	assert.NotContains(t, string(resp.Body), "passwordHash")

	me := testutil.Do(t, env.app, fiber.MethodGet, "/api/auth/me", login.Data.Token, nil)
	require.Equal(t, fiber.StatusOK, me.Status)
	assert.Contains(t, string(me.Body), env.alice.ID)

	bad := testutil.Do(t, env.app, fiber.MethodPost, "/api/auth/login", "", fiber.Map{"email": "alice@example.com", "password": "nope"})
	assert.Equal(t, fiber.StatusUnauthorized, bad.Status)
	assert.Equal(t, apperrors.CodeUnauthorized, bad.ErrorCode(t))

	invalid := testutil.Do(t, env.app, fiber.MethodPost, "/api/auth/login", "", fiber.Map{"email": "not-an-email"})
	assert.Equal(t, fiber.StatusBadRequest, invalid.Status)
	assert.Equal(t, apperrors.CodeValidationFailed, invalid.ErrorCode(t))
}

func TestLoginIsRateLimited(t *testing.T) {
	env := newTestEnv(t)
	creds := fiber.Map{"email": "alice@example.com", "password": "wrong"}

	for i := 0; i < 3; i++ {
		resp := testutil.Do(t, env.app, fiber.MethodPost, "/api/auth/login", "", creds)
		require.Equal(t, fiber.StatusUnauthorized, resp.Status)
	}
	resp := testutil.Do(t, env.app, fiber.MethodPost, "/api/auth/login", "", creds)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.Status)
	assert.Equal(t, apperrors.CodeTooManyRequests, resp.ErrorCode(t))
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, env.alice)

	resp := testutil.Do(t, env.app, fiber.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, fiber.StatusNoContent, resp.Status)

	resp = testutil.Do(t, env.app, fiber.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.Status)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	resp := testutil.Do(t, env.app, fiber.MethodGet, "/api/customers", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.Status)
	assert.Equal(t, apperrors.CodeUnauthorized, resp.ErrorCode(t))
}

func TestAdminOnlyRoutes(t *testing.T) {
	env := newTestEnv(t)
	employee := env.token(t, env.alice)
	c := testutil.SeedCustomer(t, env.store, domain.Customer{Name: "A1", AssignedEmployeeID: env.alice.ID})

	cases := []struct {
		method string
		path   string
		body   any
	}{
		{fiber.MethodPost, "/api/auth/register", fiber.Map{"name": "Eve", "email": "eve@example.com", "password": "hunter22"}},
		{fiber.MethodGet, "/api/users", nil},
		{fiber.MethodPut, "/api/customers/" + c.ID + "/assign", fiber.Map{"employeeId": env.bob.ID}},
		{fiber.MethodGet, "/api/metrics/summary", nil},
	}
	for _, tc := range cases {
		resp := testutil.Do(t, env.app, tc.method, tc.path, employee, tc.body)
		assert.Equal(t, fiber.StatusForbidden, resp.Status, "%s %s", tc.method, tc.path)
	}

	resp := testutil.Do(t, env.app, fiber.MethodPost, "/api/auth/register", env.token(t, env.admin),
		fiber.Map{"name": "Eve", "email": "eve@example.com", "password": "hunter22"})
	assert.Equal(t, fiber.StatusCreated, resp.Status, string(resp.Body))
}

func TestEmployeeCannotReadAnotherEmployeesCustomer(t *testing.T) {
	env := newTestEnv(t)
	theirs := testutil.SeedCustomer(t, env.store, domain.Customer{Name: "Bob's client", AssignedEmployeeID: env.bob.ID})

	resp := testutil.Do(t, env.app, fiber.MethodGet, "/api/customers/"+theirs.ID, env.token(t, env.alice), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.Status)
	assert.Equal(t, apperrors.CodeNotFound, resp.ErrorCode(t))

	resp = testutil.Do(t, env.app, fiber.MethodGet, "/api/customers/"+theirs.ID, env.token(t, env.bob), nil)
	assert.Equal(t, fiber.StatusOK, resp.Status)

	resp = testutil.Do(t, env.app, fiber.MethodGet, "/api/customers/"+theirs.ID, env.token(t, env.admin), nil)
	assert.Equal(t, fiber.StatusOK, resp.Status)
}

func TestCustomerLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, env.alice)

	created := testutil.Do(t, env.app, fiber.MethodPost, "/api/customers", token, fiber.Map{
		"name": "Maria Silva", "email": "maria@example.com", "phone": "555-0101", "status": "active",
	})
	require.Equal(t, fiber.StatusCreated, created.Status, string(created.Body))
	var body struct {
		Data domain.Customer `json:"data"`
	}
	created.Decode(t, &body)
	assert.Equal(t, env.alice.ID, body.Data.AssignedEmployeeID)

	dup := testutil.Do(t, env.app, fiber.MethodPost, "/api/customers", token, fiber.Map{"name": "Maria Again", "email": "MARIA@example.com"})
	assert.Equal(t, fiber.StatusConflict, dup.Status)
	assert.Equal(t, apperrors.CodeConflict, dup.ErrorCode(t))

	missing := testutil.Do(t, env.app, fiber.MethodPost, "/api/customers", token, fiber.Map{"email": "x@example.com"})
	assert.Equal(t, fiber.StatusBadRequest, missing.Status)
	assert.Contains(t, string(missing.Body), `"name"`)

	logResp := testutil.Do(t, env.app, fiber.MethodPost, "/api/customers/"+body.Data.ID+"/logs", token, fiber.Map{
		"type": "call", "outcome": "positive", "subject": "Intro call",
	})
	require.Equal(t, fiber.StatusCreated, logResp.Status, string(logResp.Body))

	logs := testutil.Do(t, env.app, fiber.MethodGet, "/api/customers/logs/all?type=call&outcome=all", token, nil)
	require.Equal(t, fiber.StatusOK, logs.Status)
	var logBody struct {
		Data []domain.DailyLog `json:"data"`
	}
	logs.Decode(t, &logBody)
	require.Len(t, logBody.Data, 1)
	assert.Equal(t, "Alice", logBody.Data[0].EmployeeName)

	dash := testutil.Do(t, env.app, fiber.MethodGet, "/api/dashboard", token, nil)
	require.Equal(t, fiber.StatusOK, dash.Status)
	var dashBody struct {
		Data struct {
			TotalCustomers int            `json:"totalCustomers"`
			TotalLogs      int            `json:"totalLogs"`
			ConversionRate int            `json:"conversionRate"`
			OutcomeStats   map[string]int `json:"outcomeStats"`
		} `json:"data"`
	}
	dash.Decode(t, &dashBody)
	assert.Equal(t, 1, dashBody.Data.TotalCustomers)
	assert.Equal(t, 1, dashBody.Data.TotalLogs)
	assert.Equal(t, 100, dashBody.Data.ConversionRate)
	assert.Equal(t, map[string]int{"positive": 1}, dashBody.Data.OutcomeStats)

	travelling := testutil.Do(t, env.app, fiber.MethodPut, "/api/customers/"+body.Data.ID+"/travelling", token, nil)
	require.Equal(t, fiber.StatusOK, travelling.Status, string(travelling.Body))
	assert.Contains(t, string(travelling.Body), `"isTravelling":true`)

	del := testutil.Do(t, env.app, fiber.MethodDelete, "/api/customers/"+body.Data.ID, token, nil)
	assert.Equal(t, fiber.StatusNoContent, del.Status)
}

func TestInvalidFilterIsRejected(t *testing.T) {
	env := newTestEnv(t)

	resp := testutil.Do(t, env.app, fiber.MethodGet, "/api/dashboard?dateFrom=yesterday", env.token(t, env.admin), nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)
	assert.Contains(t, string(resp.Body), "dateFrom")
}

func TestSearchAndExport(t *testing.T) {
	env := newTestEnv(t)
	testutil.SeedCustomer(t, env.store, domain.Customer{Name: "Lisbon Tours", AssignedEmployeeID: env.alice.ID})
	token := env.token(t, env.alice)

	search := testutil.Do(t, env.app, fiber.MethodGet, "/api/search?q=lisbon", token, nil)
	require.Equal(t, fiber.StatusOK, search.Status)
	assert.Contains(t, string(search.Body), "Lisbon Tours")

	resp := testutil.Do(t, env.app, fiber.MethodGet, "/api/customers/export", token, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.NotEmpty(t, resp.Body)
}

func TestExportContentType(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(fiber.MethodGet, "/api/customers/export", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+env.token(t, env.admin))
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, export.ContentType, resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "customers_")
}
