package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/Simplici0/sillones/internal/cache"
	"github.com/Simplici0/sillones/internal/config"
	"github.com/Simplici0/sillones/internal/db"
	"github.com/Simplici0/sillones/internal/logger"
	"github.com/Simplici0/sillones/internal/metrics"
	"github.com/Simplici0/sillones/internal/migrations"
	"github.com/Simplici0/sillones/internal/reports"
	"github.com/Simplici0/sillones/internal/seed"
	"github.com/Simplici0/sillones/internal/store"
)

const serviceName = "sillones"

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel, cfg.Env, serviceName)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if cfg.IsDev() || cfg.AutoMigrate {
		if err := migrations.Up(database); err != nil {
			return err
		}
		version, err := migrations.Version(database)
		if err != nil {
			return err
		}
		zlog.Info("database migrated", zap.Int64("version", version))
	}

	if cfg.SeedDemoData {
		stats, err := seed.Run(ctx, database, time.Now())
		if err != nil {
			return err
		}
		zlog.Info("demo data seeded", zap.Int("inserts", stats.Inserts))
	}

	var reportCache reports.Cache = cache.Noop{}
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedis(ctx, cfg.RedisURL, serviceName+":")
		if err != nil {
			zlog.Warn("redis unavailable, report cache disabled", zap.Error(err))
		} else {
			defer rc.Close()
			reportCache = rc
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	st := store.New(database)
	srv := &server{
		store:   st,
		reports: reports.NewService(st, reportCache, cfg.ReportCacheTTL, zlog, reports.WithBuildHook(m.ReportBuilt)),
		metrics: m,
		log:     zlog,
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zlog.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
