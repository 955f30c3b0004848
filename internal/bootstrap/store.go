// Package bootstrap opens the record store selected by configuration. It is
// shared by the API server and crmctl.
package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/travel-crm/internal/config"
	"github.com/spec-kit/travel-crm/internal/persistence"
	"github.com/spec-kit/travel-crm/internal/repository"
	"github.com/spec-kit/travel-crm/internal/repository/mongostore"
)

// Backend is an opened store together with its health probe and closer.
type Backend struct {
	Name  string
	Store repository.Store
	Ping  func(ctx context.Context) error
	Close func(ctx context.Context)

	// Postgres is set only for the postgres driver.
	Postgres *persistence.Postgres
}

// OpenStore connects to the backend named by cfg.Store.Driver. Postgres
// migrations run first when enabled.
func OpenStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Backend, error) {
	switch strings.ToLower(cfg.Store.Driver) {
	case "", "postgres":
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Postgres.RunMigrations {
			if _, err := persistence.RunMigrations(ctx, pg.Pool, cfg.Postgres.MigrationsDir, logger); err != nil {
				pg.Close()
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		return &Backend{
			Name:     "postgres",
			Store:    repository.NewPostgresStore(pg.Pool),
			Ping:     pg.Ping,
			Close:    func(context.Context) { pg.Close() },
			Postgres: pg,
		}, nil
	case "mongo", "mongodb":
		m, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, m.DB); err != nil {
			m.Close(ctx)
			return nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		return &Backend{
			Name:  "mongo",
			Store: mongostore.New(m.DB),
			Ping:  m.Ping,
			Close: m.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
