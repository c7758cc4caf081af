package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/ordermgmt/config"
	"github.com/shashiranjanraj/ordermgmt/internal/server"
	"github.com/shashiranjanraj/ordermgmt/pkg/cache"
	"github.com/shashiranjanraj/ordermgmt/pkg/database"
	"github.com/shashiranjanraj/ordermgmt/pkg/event"
	"github.com/shashiranjanraj/ordermgmt/pkg/logger"
	"github.com/shashiranjanraj/ordermgmt/pkg/migration"
	"github.com/shashiranjanraj/ordermgmt/pkg/workerpool"
)

// Serve boots every backing service, applies pending migrations and serves
// until ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	if err := Boot(); err != nil {
		return err
	}
	defer Shutdown()

	if err := cache.Connect(ctx); err != nil {
		logger.Warn("redis unavailable, caching disabled", "error", err)
	}

	if err := migration.New(database.DB).Quiet().Run(); err != nil && !errors.Is(err, migration.ErrNoMigrations) {
		return fmt.Errorf("migrate: %w", err)
	}

	if n := config.EventWorkers(); n > 0 {
		events := workerpool.New("events", n)
		event.UsePool(events)
		defer func() {
			event.UsePool(nil)
			logger.Info("draining event listeners", "pending", events.Pending())
			events.Shutdown()
		}()
	}

	for _, fn := range a.bootFns {
		fn()
	}

	handler, err := a.Handler(database.DB)
	if err != nil {
		return err
	}

	return server.Run(ctx, handler, server.Options{
		Addr:     ":" + config.AppPort(),
		GRPCPort: config.GRPCPort(),
		Health: func(ctx context.Context) error {
			return database.Ping(ctx, database.DB)
		},
	})
}

// Boot loads config, initialises logging and connects the database.
func Boot() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := logger.Init(); err != nil {
		logger.Warn("log sink unavailable", "error", err)
	}
	return database.Connect()
}

// Shutdown releases what Boot and Serve acquired.
func Shutdown() {
	if err := cache.Close(); err != nil {
		logger.Warn("cache close", "error", err)
	}
	if err := database.Close(); err != nil {
		logger.Warn("database close", "error", err)
	}
	logger.Shutdown()
}
