// Package statistics replays the event log to maintain per-user aggregates:
// rejection counts grouped by state and the average lifetime of applications
// that reached a terminal outcome.
package statistics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huntboard/huntboard/internal/app/domain/event"
	"github.com/huntboard/huntboard/internal/app/domain/statistics"
	"github.com/huntboard/huntboard/internal/app/metrics"
	"github.com/huntboard/huntboard/internal/app/storage"
	"github.com/huntboard/huntboard/pkg/logger"
)

// Service aggregates domain events into per-user statistics.
type Service struct {
	events       storage.EventStore
	users        storage.UserStore
	stats        storage.StatisticsStore
	applications storage.ApplicationStore
	log          *logger.Logger
}

// New constructs a statistics service.
func New(events storage.EventStore, users storage.UserStore, stats storage.StatisticsStore,
	applications storage.ApplicationStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("statistics")
	}
	return &Service{
		events:       events,
		users:        users,
		stats:        stats,
		applications: applications,
		log:          log,
	}
}

// Get returns the stored statistics for a user. A user with no aggregated
// events yet gets an empty record rather than an error.
func (s *Service) Get(ctx context.Context, userID string) (statistics.Statistics, error) {
	st, err := s.stats.GetStatistics(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return statistics.NewForUser(userID), nil
	}
	return st, err
}

// UpdateStatistics replays rejection events since the last run and persists
// the touched per-user records. The watermark advances to nowUTC even when
// the window holds no events, so an empty window is never rescanned. When
// nowUTC is behind the watermark nothing changes: a skewed clock must not
// rewind the window and double-count.
func (s *Service) UpdateStatistics(ctx context.Context, nowUTC time.Time) ([]statistics.Statistics, error) {
	started := time.Now()
	touched, err := s.update(ctx, nowUTC.UTC())
	metrics.RecordStatisticsRun(time.Since(started), err == nil)
	return touched, err
}

func (s *Service) update(ctx context.Context, nowUTC time.Time) ([]statistics.Statistics, error) {
	state, err := s.stats.GetSystemState(ctx)
	if err != nil {
		return nil, fmt.Errorf("load system state: %w", err)
	}

	watermark := state.LastStatisticsRunUTC
	if !watermark.IsZero() && nowUTC.Before(watermark) {
		s.log.WithField("watermark", watermark.Format(time.RFC3339)).
			WithField("now", nowUTC.Format(time.RFC3339)).
			Warn("statistics run skipped: clock behind watermark")
		return nil, nil
	}

	state.LastStatisticsRunUTC = nowUTC
	if err := s.stats.SaveSystemState(ctx, state); err != nil {
		return nil, fmt.Errorf("advance watermark: %w", err)
	}

	names := []string{event.ApplicationCreated, event.ApplicationRejected, event.ApplicationAccepted}
	entries, err := s.events.ListEventsBetween(ctx, names, watermark, nowUTC)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	users, err := s.users.ListActiveUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	var touched []statistics.Statistics
	for _, u := range users {
		rejections := map[string]int64{}
		for _, e := range entries {
			if e.Name != event.ApplicationRejected || e.CreatedBy != u.ID {
				continue
			}
			stateID := e.KeyProps[event.PropRejectedStateID]
			if stateID == "" {
				stateID = "unknown"
			}
			rejections[stateID]++
		}
		if len(rejections) == 0 {
			continue
		}

		st, err := s.stats.GetStatistics(ctx, u.ID)
		if errors.Is(err, storage.ErrNotFound) {
			st = statistics.NewForUser(u.ID)
		} else if err != nil {
			return nil, fmt.Errorf("load statistics for %s: %w", u.ID, err)
		}

		for stateID, count := range rejections {
			st.AddRejections(stateID, count)
		}
		st.AverageApplicationLifetimeSecond = s.averageLifetime(ctx, u.ID)

		saved, err := s.stats.UpsertStatistics(ctx, st)
		if err != nil {
			return nil, fmt.Errorf("save statistics for %s: %w", u.ID, err)
		}
		touched = append(touched, saved)
	}

	s.log.WithField("events", len(entries)).
		WithField("users_touched", len(touched)).
		Info("statistics updated")
	return touched, nil
}

// averageLifetime computes the mean seconds from creation to terminal outcome
// across the user's rejected and accepted applications. Errors degrade to the
// zero value; lifetime is a derived convenience, not worth failing the run.
func (s *Service) averageLifetime(ctx context.Context, userID string) float64 {
	apps, err := s.applications.ListApplications(ctx, userID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("lifetime calculation skipped")
		return 0
	}

	var total float64
	var n int
	for _, app := range apps {
		var terminal time.Time
		switch {
		case app.IsRejected():
			terminal = app.Rejection.RejectedUTC
		case app.IsAccepted():
			terminal = app.Acceptance.AcceptedUTC
		default:
			continue
		}
		total += terminal.Sub(app.CreatedUTC).Seconds()
		n++
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}
