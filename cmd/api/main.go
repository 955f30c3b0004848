package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/travel-crm/internal/api/http"
	"github.com/spec-kit/travel-crm/internal/api/http/handlers"
	"github.com/spec-kit/travel-crm/internal/auth"
	"github.com/spec-kit/travel-crm/internal/bootstrap"
	"github.com/spec-kit/travel-crm/internal/cache"
	"github.com/spec-kit/travel-crm/internal/config"
	"github.com/spec-kit/travel-crm/internal/events"
	"github.com/spec-kit/travel-crm/internal/observability"
	"github.com/spec-kit/travel-crm/internal/persistence"
	"github.com/spec-kit/travel-crm/internal/service"
	"github.com/spec-kit/travel-crm/internal/worker"
	apperrors "github.com/spec-kit/travel-crm/pkg/util/errorutil"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Telemetry, cfg.App.Version, logger)
	if err != nil {
		logger.Fatal("failed to init tracing", zap.Error(err))
	}

	backend, err := bootstrap.OpenStore(ctx, *cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	repos := backend.Store

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	revocations := cache.NewRevocationList(redis.ClientHandle())
	metrics := observability.NewMetrics()

	dispatcher := events.NewInMemoryDispatcher()
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   repos.Users,
		Revoker:    revocations,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	userService := service.NewUserService(*cfg, service.UserDependencies{
		UserRepo:   repos.Users,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	customerService := service.NewCustomerService(service.CustomerDependencies{
		CustomerRepo: repos.Customers,
		LogRepo:      repos.Logs,
		UserRepo:     repos.Users,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	dashboardDeps := service.DashboardDependencies{
		CustomerRepo: repos.Customers,
		LogRepo:      repos.Logs,
		UserRepo:     repos.Users,
		Metrics:      metrics,
		Logger:       logger,
	}
	var invalidator service.CacheInvalidator
	if dashboardCache := cache.NewDashboardCache(redis.ClientHandle(), cfg.Cache.DashboardTTL()); dashboardCache != nil {
		dashboardDeps.Cache = dashboardCache
		invalidator = dashboardCache
	}
	dashboardService := service.NewDashboardService(dashboardDeps)

	activityService := service.NewActivityService(dispatcher, invalidator, logger)
	worker.StartActivityWorker(activityService)

	healthDeps := []handlers.Dependency{{Name: backend.Name, Pinger: handlers.PingFunc(backend.Ping)}}
	if redis != nil {
		healthDeps = append(healthDeps, handlers.Dependency{Name: "redis", Pinger: redis})
	}

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: cfg.HTTP.BodyLimitBytes,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{
				"code":    domainErr.Code,
				"message": domainErr.Message,
			}})
		},
	})
	httptransport.RegisterMiddlewares(app, *cfg, logger, metrics)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, healthDeps...),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService, authService),
		Customers:      handlers.NewCustomersHandler(customerService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService, metrics),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), repos.Users, revocations, logger),
		LoginLimiter:   httptransport.LoginLimiter(cfg.HTTP),
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()), zap.String("store", backend.Name))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("flush traces", zap.Error(err))
	}
	redis.Close()
	backend.Close(shutdownCtx)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
