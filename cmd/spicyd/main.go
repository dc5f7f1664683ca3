// Package main is the entry point for the spicyid record API server.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spicyid/spicyid/internal/cache"
	"github.com/spicyid/spicyid/internal/config"
	"github.com/spicyid/spicyid/internal/database"
	"github.com/spicyid/spicyid/internal/handlers"
	"github.com/spicyid/spicyid/internal/repository"
	"github.com/spicyid/spicyid/internal/server"
	"github.com/spicyid/spicyid/internal/services"
	"github.com/spicyid/spicyid/pkg/logger"
	"github.com/spicyid/spicyid/pkg/spicyid"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(os.Stdout, cfg.App.LogLevel).With("env", cfg.App.Env)

	fieldCfg, err := cfg.Spicy.FieldConfig()
	if err != nil {
		return err
	}
	field, err := spicyid.New(fieldCfg)
	if err != nil {
		return err
	}
	log.Info("id field configured",
		"prefix", field.Prefix(),
		"encoding", string(field.Encoding()),
		"bits", field.Bits(),
		"pad", field.Pad(),
		"randomize", field.Randomize(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closers, err := buildRepository(ctx, cfg, log)
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if cerr := closers[i].Close(); cerr != nil {
				log.Warn("failed to close resource", "error", cerr.Error())
			}
		}
	}()
	if err != nil {
		return err
	}

	srv := server.New(cfg, log)
	srv.SetRecordRepository(repo)
	srv.SetRecordHandler(handlers.NewRecordHandler(services.NewRecordService(repo, field)))
	srv.SetIDHandler(handlers.NewIDHandler(services.NewIDService(field)))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// buildRepository assembles the record store: Postgres when enabled, the
// in-memory store otherwise, fronted by Redis when that is enabled.
func buildRepository(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.RecordRepository, []io.Closer, error) {
	var (
		repo    repository.RecordRepository
		closers []io.Closer
	)

	if cfg.Database.Enabled {
		pool, err := database.NewPool(ctx, &cfg.Database)
		if err != nil {
			return nil, closers, err
		}
		closers = append(closers, closerFunc(func() error { pool.Close(); return nil }))

		migrator, err := database.NewMigrator(pool)
		if err != nil {
			return nil, closers, err
		}
		applied, err := migrator.Up(ctx)
		if err != nil {
			return nil, closers, fmt.Errorf("failed to apply migrations: %w", err)
		}
		log.Info("database ready", "host", cfg.Database.Host, "migrations_applied", applied)

		repo = repository.NewPostgresRecordRepository(pool)
	} else {
		log.Warn("database disabled, records are kept in memory")
		repo = repository.NewMemoryRecordRepository()
	}

	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(ctx, &cfg.Redis)
		if err != nil {
			return nil, closers, err
		}
		closers = append(closers, redisCache)

		recordCache := cache.NewRecordCache(redisCache, cfg.Cache.KeyPrefix, cfg.Cache.TTL)
		repo = repository.NewCachedRecordRepository(repo, recordCache)
		log.Info("record cache enabled", "host", cfg.Redis.Host, "ttl", cfg.Cache.TTL.String())
	}

	return repo, closers, nil
}
