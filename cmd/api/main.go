package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/baharkarakas/point-ledger/internal/api"
	"github.com/baharkarakas/point-ledger/internal/config"
	"github.com/baharkarakas/point-ledger/internal/db"
	"github.com/baharkarakas/point-ledger/internal/lock"
	"github.com/baharkarakas/point-ledger/internal/logger"
	"github.com/baharkarakas/point-ledger/internal/metrics"
	"github.com/baharkarakas/point-ledger/internal/repository"
	"github.com/baharkarakas/point-ledger/internal/repository/memory"
	"github.com/baharkarakas/point-ledger/internal/repository/postgres"
	"github.com/baharkarakas/point-ledger/internal/repository/sqlite"
	"github.com/baharkarakas/point-ledger/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		log.Error("store", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}
	defer func() {
		if repos.Close != nil {
			_ = repos.Close()
		}
	}()

	opts := []services.Option{services.WithLogger(log)}
	if cfg.StrictReads {
		opts = append(opts, services.WithStrictReads())
	}
	pointSvc := services.NewPointService(repos, lock.NewRegistry(), opts...)

	metrics.Init()
	r := api.NewRouter(cfg, pointSvc)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "store", cfg.StoreDriver, "strict_reads", cfg.StrictReads)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
}

func openRepositories(ctx context.Context, cfg config.Config) (repository.Repositories, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return memory.NewRepositories(memory.WithLatency(cfg.StoreLatencyMax)), nil

	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return repository.Repositories{}, err
		}
		return store.Repositories(), nil

	case config.DriverPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			return repository.Repositories{}, err
		}
		if cfg.Migrate {
			if err := db.RunMigrations(ctx, pool); err != nil {
				pool.Close()
				return repository.Repositories{}, fmt.Errorf("migrations: %w", err)
			}
		}
		repos := postgres.NewRepositories(pool)
		repos.Close = func() error { pool.Close(); return nil }
		return repos, nil
	}
	return repository.Repositories{}, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
