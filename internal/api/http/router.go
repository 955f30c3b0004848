package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/travel-crm/internal/api/http/handlers"
	"github.com/spec-kit/travel-crm/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Customers      *handlers.CustomersHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.AuthMiddleware
	LoginLimiter   fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Get("/health", cfg.Health.Live)

	login := []fiber.Handler{cfg.Auth.Login}
	if cfg.LoginLimiter != nil {
		login = append([]fiber.Handler{cfg.LoginLimiter}, login...)
	}
	api.Post("/auth/login", login...)

	protected := api.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	admin := auth.RequireAdmin()

	protected.Post("/auth/logout", cfg.Auth.Logout)
	protected.Get("/auth/me", cfg.Auth.Me)
	protected.Put("/auth/password", cfg.Auth.ChangePassword)
	protected.Post("/auth/register", admin, cfg.Auth.Register)

	customers := protected.Group("/customers")
	customers.Get("/", cfg.Customers.List)
	customers.Post("/", cfg.Customers.Create)
	customers.Get("/travelling", cfg.Customers.Travelling)
	customers.Get("/export", cfg.Customers.Export)
	customers.Get("/logs/all", cfg.Customers.ListLogs)
	customers.Put("/logs/:logId", cfg.Customers.UpdateLog)
	customers.Delete("/logs/:logId", cfg.Customers.DeleteLog)
	customers.Get("/:id", cfg.Customers.Get)
	customers.Put("/:id", cfg.Customers.Update)
	customers.Delete("/:id", cfg.Customers.Delete)
	customers.Put("/:id/travelling", cfg.Customers.MarkTravelling)
	customers.Put("/:id/assign", admin, cfg.Customers.Assign)
	customers.Post("/:id/logs", cfg.Customers.AddLog)

	protected.Get("/dashboard", cfg.Dashboard.Dashboard)
	protected.Get("/dashboard/travel", cfg.Dashboard.Travel)
	protected.Get("/search", cfg.Dashboard.Search)
	protected.Get("/metrics/summary", admin, cfg.Dashboard.Metrics)

	users := protected.Group("/users", admin)
	users.Get("/", cfg.Users.List)
	users.Post("/", cfg.Users.Create)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)
}
