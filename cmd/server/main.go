// Package main runs the HuntBoard API server: a job-application tracker with
// appointment reminders, a domain event journal and periodic statistics.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/huntboard/huntboard/internal/app"
	"github.com/huntboard/huntboard/internal/app/httpapi"
	"github.com/huntboard/huntboard/internal/app/storage/memory"
	"github.com/huntboard/huntboard/internal/config"
	"github.com/huntboard/huntboard/internal/middleware"
	"github.com/huntboard/huntboard/internal/platform/migrations"
	"github.com/huntboard/huntboard/pkg/logger"

	pgstore "github.com/huntboard/huntboard/internal/app/storage/postgres"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		FilePrefix: cfg.Logging.FilePrefix,
	}).WithField("component", "server")

	stores, closeStores, err := openStores(cfg, log)
	if err != nil {
		return err
	}
	defer closeStores()

	application, err := app.New(stores, app.Options{
		JWTSecret:          []byte(cfg.Auth.JWTSecret),
		TokenLifetime:      cfg.Auth.TokenLifetime,
		AlertThreshold:     cfg.Alerts.EmailThreshold,
		AlertInterval:      cfg.Alerts.ScanInterval,
		EmailEndpoint:      cfg.Alerts.EmailEndpoint,
		EmailAPIKey:        cfg.Alerts.EmailAPIKey,
		StatisticsSchedule: cfg.Statistics.Schedule,
	}, log)
	if err != nil {
		return fmt.Errorf("build application: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler, err := httpapi.NewHandler(httpapi.Deps{
		Applications:  application.Applications,
		Catalog:       application.Catalog,
		Users:         application.Users,
		Statistics:    application.Statistics,
		Events:        stores.Events,
		Hub:           application.Hub,
		JWTSecret:     []byte(cfg.Auth.JWTSecret),
		AuditFilePath: os.Getenv("AUDIT_LOG_PATH"),
		Log:           log,
		RateLimit:     rateLimit(ctx, cfg, log),
	})
	if err != nil {
		return fmt.Errorf("build handler: %w", err)
	}

	handler = middleware.NewCORSMiddleware(cfg.CORS.AllowedOrigins).Handler(handler)

	if err := application.Start(ctx); err != nil {
		return fmt.Errorf("start application: %w", err)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", server.Addr).Info("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http server shutdown")
	}
	if err := application.Stop(shutdownCtx); err != nil {
		log.WithError(err).Warn("application shutdown")
	}
	log.Info("server stopped")
	return nil
}

// openStores selects the persistence backend. An empty DSN runs everything
// in memory, which suits local development and tests.
func openStores(cfg *config.Config, log *logger.Logger) (app.Stores, func(), error) {
	if cfg.Database.DSN == "" {
		log.Warn("DB_DSN not set; using in-memory store")
		mem := memory.New()
		stores := app.Stores{
			States:       mem,
			Applications: mem,
			Events:       mem,
			Statistics:   mem,
			Users:        mem,
		}
		return stores, func() {}, nil
	}

	db, err := sqlx.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return app.Stores{}, nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return app.Stores{}, nil, fmt.Errorf("ping database: %w", err)
	}
	if err := migrations.Apply(ctx, db.DB); err != nil {
		db.Close()
		return app.Stores{}, nil, fmt.Errorf("apply migrations: %w", err)
	}

	store := pgstore.New(db)
	stores := app.Stores{
		States:       store,
		Applications: store,
		Events:       store,
		Statistics:   store,
		Users:        store,
	}
	return stores, func() { db.Close() }, nil
}

// rateLimit selects the Redis fixed-window limiter when a Redis address is
// configured, falling back to the in-process limiter. The middleware runs
// inside the router after authentication so limits key on the user id.
func rateLimit(ctx context.Context, cfg *config.Config, log *logger.Logger) func(http.Handler) http.Handler {
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return middleware.NewRedisRateLimiter(client, 120, time.Minute, log).Handler
	}

	limiter := middleware.NewRateLimiter(20, 40, log)
	limiter.StartCleanup(ctx, time.Minute)
	return limiter.Handler
}
