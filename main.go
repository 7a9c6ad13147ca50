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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/msomdec/edunews/internal/config"
	"github.com/msomdec/edunews/internal/domain"
	"github.com/msomdec/edunews/internal/handler"
	"github.com/msomdec/edunews/internal/metrics"
	"github.com/msomdec/edunews/internal/producer"
	"github.com/msomdec/edunews/internal/repository/sqlite"
	"github.com/msomdec/edunews/internal/scheduler"
	"github.com/msomdec/edunews/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level, _ := cfg.SlogLevel()
	logOpts := &slog.HandlerOptions{Level: level}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	tokens := service.NewTokenService(cfg.JWTSecret, service.WithTTLs(cfg.AccessTokenTTL, cfg.RefreshTokenTTL))
	authService := service.NewAuthService(db.Users(), service.NewPasswordHasher(cfg.BcryptCost), tokens)
	articleService := service.NewArticleService(db.Articles())
	statsService := service.NewStatsService(db.Users(), db.Articles(), db.IngestionLogs())
	ingestService := service.NewIngestionService(newProducer(cfg), db.Articles(), db.IngestionLogs(), m,
		logger.With("component", "ingestion"))

	if cfg.AdminEmail != "" {
		admin, err := authService.EnsureAdmin(context.Background(), cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
		slog.Info("admin account ready", "user_id", admin.ID)
	}

	limiter := service.NewTokenBucket(cfg.AuthRatePerSecond, float64(cfg.AuthBurst))
	defer limiter.Close()

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Deps{
		Auth:        authService,
		Articles:    articleService,
		Ingestion:   ingestService,
		Stats:       statsService,
		DB:          db,
		Metrics:     m,
		Gatherer:    reg,
		AuthLimiter: limiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.SecurityHeaders(mux),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	sched := scheduler.New(logger.With("component", "scheduler"))
	err = sched.Every("ingest", cfg.IngestInterval, func(ctx context.Context) error {
		_, err := ingestService.Run(ctx)
		return err
	})
	if err != nil {
		return err
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		sched.Start()
		slog.Info("ingestion scheduled", "producer", cfg.IngestProducer,
			"interval", cfg.IngestInterval, "next", sched.Next())

		<-ctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		select {
		case <-sched.Stop().Done():
		case <-shutdownCtx.Done():
			slog.Warn("scheduled job still running at shutdown")
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}

func newProducer(cfg config.Config) domain.Producer {
	if cfg.IngestProducer == config.ProducerRSS {
		return producer.NewFeedProducer(cfg.IngestFeeds, &http.Client{Timeout: 30 * time.Second})
	}
	return producer.NewSampleProducer(cfg.IngestSampleCount)
}
