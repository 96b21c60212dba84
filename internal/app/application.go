package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/huntboard/huntboard/internal/app/httpapi"
	"github.com/huntboard/huntboard/internal/app/services/alerts"
	applicationssvc "github.com/huntboard/huntboard/internal/app/services/applications"
	"github.com/huntboard/huntboard/internal/app/services/catalog"
	statisticssvc "github.com/huntboard/huntboard/internal/app/services/statistics"
	userssvc "github.com/huntboard/huntboard/internal/app/services/users"
	"github.com/huntboard/huntboard/internal/app/storage"
	"github.com/huntboard/huntboard/internal/app/storage/memory"
	"github.com/huntboard/huntboard/internal/app/system"
	"github.com/huntboard/huntboard/pkg/logger"
)

// Stores encapsulates persistence dependencies. Nil stores default to the
// in-memory implementation.
type Stores struct {
	States       storage.StateCatalogStore
	Applications storage.ApplicationStore
	Events       storage.EventStore
	Statistics   storage.StatisticsStore
	Users        storage.UserStore
}

// Options tunes the optional background machinery. Zero values select the
// defaults documented on each field.
type Options struct {
	// JWTSecret signs and verifies bearer tokens. Required.
	JWTSecret []byte
	// TokenLifetime bounds issued tokens; defaults to 24h.
	TokenLifetime time.Duration

	// AlertThreshold is how far ahead of an appointment reminders fire;
	// defaults to 30m. AlertInterval is the scan cadence; defaults to 1m.
	AlertThreshold time.Duration
	AlertInterval  time.Duration

	// EmailEndpoint, when set, delivers reminder emails through an HTTP
	// webhook. Empty means reminders are logged only.
	EmailEndpoint string
	EmailAPIKey   string

	// StatisticsSchedule is a cron expression for the aggregation job;
	// defaults to "@every 1h".
	StatisticsSchedule string
}

// Application ties domain services together and manages their lifecycle.
type Application struct {
	manager *system.Manager
	log     *logger.Logger

	Catalog      *catalog.Service
	Applications *applicationssvc.Service
	Users        *userssvc.Service
	Alerts       *alerts.Service
	Statistics   *statisticssvc.Service
	Hub          *httpapi.Hub
}

// New builds a fully initialised application with the provided stores.
func New(stores Stores, opts Options, log *logger.Logger) (*Application, error) {
	if log == nil {
		log = logger.NewDefault("app")
	}
	if len(opts.JWTSecret) == 0 {
		return nil, fmt.Errorf("jwt secret is required")
	}

	mem := memory.New()
	if stores.States == nil {
		stores.States = mem
	}
	if stores.Applications == nil {
		stores.Applications = mem
	}
	if stores.Events == nil {
		stores.Events = mem
	}
	if stores.Statistics == nil {
		stores.Statistics = mem
	}
	if stores.Users == nil {
		stores.Users = mem
	}

	manager := system.NewManager()

	catalogService := catalog.New(stores.States, log)
	appService := applicationssvc.New(stores.Applications, stores.States, stores.Events, log)
	userService := userssvc.New(stores.Users, stores.Events, opts.JWTSecret, opts.TokenLifetime, log)
	statsService := statisticssvc.New(stores.Events, stores.Users, stores.Statistics, stores.Applications, log)

	hub := httpapi.NewHub(log)

	var email alerts.EmailSender
	if endpoint := strings.TrimSpace(opts.EmailEndpoint); endpoint != "" {
		sender, err := alerts.NewWebhookEmailSender(&http.Client{Timeout: 10 * time.Second}, endpoint, opts.EmailAPIKey, log)
		if err != nil {
			return nil, fmt.Errorf("configure email sender: %w", err)
		}
		email = sender
	} else {
		log.Warn("email endpoint not set; reminder emails are logged only")
		email = alerts.NewLogEmailSender(log)
	}

	alertService := alerts.New(stores.Applications, stores.Users, stores.Events,
		email, hub, opts.AlertThreshold, opts.AlertInterval, log)

	schedule := opts.StatisticsSchedule
	if schedule == "" {
		schedule = "@every 1h"
	}
	statsRunner, err := statisticssvc.NewRunner(statsService, schedule, log)
	if err != nil {
		return nil, fmt.Errorf("configure statistics runner: %w", err)
	}

	for _, svc := range []system.Service{alertService, statsRunner} {
		if err := manager.Register(svc); err != nil {
			return nil, fmt.Errorf("register %s: %w", svc.Name(), err)
		}
	}

	return &Application{
		manager:      manager,
		log:          log,
		Catalog:      catalogService,
		Applications: appService,
		Users:        userService,
		Alerts:       alertService,
		Statistics:   statsService,
		Hub:          hub,
	}, nil
}

// Attach registers an additional lifecycle-managed service. Call before Start.
func (a *Application) Attach(service system.Service) error {
	return a.manager.Register(service)
}

// Start seeds the state catalog and begins all registered services.
func (a *Application) Start(ctx context.Context) error {
	if err := a.Catalog.Seed(ctx); err != nil {
		return fmt.Errorf("seed state catalog: %w", err)
	}
	return a.manager.Start(ctx)
}

// Stop stops all services.
func (a *Application) Stop(ctx context.Context) error {
	return a.manager.Stop(ctx)
}
