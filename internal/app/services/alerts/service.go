// Package alerts runs the appointment alert scanner. On each tick it walks
// open applications, finds appointments whose start falls inside the email
// threshold window, and dispatches email and browser notifications exactly
// once per appointment per channel.
package alerts

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/huntboard/huntboard/internal/app/domain/application"
	"github.com/huntboard/huntboard/internal/app/domain/event"
	"github.com/huntboard/huntboard/internal/app/domain/user"
	"github.com/huntboard/huntboard/internal/app/metrics"
	"github.com/huntboard/huntboard/internal/app/storage"
	"github.com/huntboard/huntboard/pkg/logger"
)

// EmailSender delivers appointment reminder emails.
type EmailSender interface {
	SendAppointmentReminder(ctx context.Context, to user.User, app *application.Application, appt application.Appointment) error
}

// BrowserNotifier pushes appointment reminders to connected browsers.
type BrowserNotifier interface {
	NotifyAppointment(userID string, app *application.Application, appt application.Appointment) error
}

// Service scans for due appointment alerts on a fixed interval.
type Service struct {
	applications storage.ApplicationStore
	users        storage.UserStore
	events       storage.EventStore
	email        EmailSender
	browser      BrowserNotifier

	threshold time.Duration
	interval  time.Duration
	log       *logger.Logger
	nowFn     func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New constructs the alert scanner. threshold is how far ahead of an
// appointment the email alert fires; interval is the scan cadence.
func New(applications storage.ApplicationStore, users storage.UserStore, events storage.EventStore,
	email EmailSender, browser BrowserNotifier, threshold, interval time.Duration, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("alerts")
	}
	if threshold <= 0 {
		threshold = 30 * time.Minute
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Service{
		applications: applications,
		users:        users,
		events:       events,
		email:        email,
		browser:      browser,
		threshold:    threshold,
		interval:     interval,
		log:          log,
		nowFn:        func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the scanner clock. Intended for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.nowFn = now
}

// Name implements system.Service.
func (s *Service) Name() string { return "alert-scanner" }

// Start launches the scan loop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return fmt.Errorf("alert scanner already started")
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.loop(runCtx)
	s.log.WithField("interval", s.interval.String()).
		WithField("threshold", s.threshold.String()).
		Info("alert scanner started")
	return nil
}

// Stop halts the scan loop and waits for the in-flight scan to finish.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Scan(ctx); err != nil && ctx.Err() == nil {
				s.log.WithError(err).Warn("alert scan failed")
			}
		}
	}
}

// Scan performs a single pass over all active users' open applications. It is
// exported so the HTTP API can trigger an on-demand pass.
func (s *Service) Scan(ctx context.Context) error {
	users, err := s.users.ListActiveUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	now := s.nowFn()
	for _, u := range users {
		apps, err := s.applications.ListOpenApplications(ctx, u.ID)
		if err != nil {
			return fmt.Errorf("list applications for %s: %w", u.ID, err)
		}
		for _, app := range apps {
			if err := s.scanApplication(ctx, u, app, now); err != nil {
				s.log.WithError(err).WithField("application_id", app.ID).Warn("alert dispatch failed")
			}
		}
	}
	return nil
}

func (s *Service) sendEmail(ctx context.Context, u user.User, app *application.Application, appt application.Appointment) error {
	if s.email != nil {
		if err := s.email.SendAppointmentReminder(ctx, u, app, appt); err != nil {
			metrics.RecordAlertSent("email", false)
			return err
		}
	}
	metrics.RecordAlertSent("email", true)
	return nil
}

func (s *Service) scanApplication(ctx context.Context, u user.User, app *application.Application, now time.Time) error {
	due := app.ScheduleEmailAlerts(now, s.threshold)
	if len(due) == 0 {
		return nil
	}

	sink := event.NewSink()
	for _, appt := range due {
		// The window scan reports eligibility by time only; the sent flags
		// decide whether each channel still owes a notification.
		if !appt.EmailNotificationSent {
			if err := s.sendEmail(ctx, u, app, appt); err != nil {
				s.log.WithError(err).WithField("appointment_id", appt.ID).Warn("email alert failed")
			} else if app.MarkEmailNotificationSent(appt.ID) {
				sink.Append(event.New(event.AlertEmailSent, "system", now, application.EntityName, app.ID, map[string]string{
					event.PropAppointmentID: appt.ID,
				}))
			}
		}

		if s.browser == nil || appt.BrowserNotificationSent {
			continue
		}
		if err := s.browser.NotifyAppointment(u.ID, app, appt); err != nil {
			metrics.RecordAlertSent("browser", false)
			s.log.WithError(err).WithField("appointment_id", appt.ID).Warn("browser alert failed")
			continue
		}
		if app.MarkBrowserNotificationSent(appt.ID) {
			metrics.RecordAlertSent("browser", true)
			sink.Append(event.New(event.AlertBrowserSent, "system", now, application.EntityName, app.ID, map[string]string{
				event.PropAppointmentID: appt.ID,
			}))
		}
	}

	if sink.Len() == 0 {
		return nil
	}
	if _, err := s.applications.UpdateApplication(ctx, app); err != nil {
		return fmt.Errorf("persist notification flags: %w", err)
	}
	if err := s.events.AppendEvents(ctx, sink.Drain()); err != nil {
		s.log.WithError(err).WithField("application_id", app.ID).Warn("alert events not recorded")
	}
	return nil
}
