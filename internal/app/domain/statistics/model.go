// Package statistics defines the per-user aggregate counters derived from
// the system event log, and the process-wide watermark that bounds each
// aggregation window.
package statistics

import "time"

// Statistics holds derived counters for one user. Counts are additive across
// aggregation runs; they are never recomputed from scratch.
type Statistics struct {
	UserID                           string           `json:"user_id"`
	ApplicationRejectionStateCounts  map[string]int64 `json:"application_rejection_state_counts"`
	AverageApplicationLifetimeSecond float64          `json:"average_application_lifetime_seconds"`
	UpdatedUTC                       time.Time        `json:"updated_utc"`
}

// NewForUser returns an empty record for a user's first aggregation run.
func NewForUser(userID string) Statistics {
	return Statistics{
		UserID:                          userID,
		ApplicationRejectionStateCounts: make(map[string]int64),
	}
}

// AddRejections adds count rejections for the given state id.
func (s *Statistics) AddRejections(stateID string, count int64) {
	if s.ApplicationRejectionStateCounts == nil {
		s.ApplicationRejectionStateCounts = make(map[string]int64)
	}
	s.ApplicationRejectionStateCounts[stateID] += count
}

// SystemState is the singleton, process-wide record controlling the
// statistics aggregation window. Only the aggregator mutates it.
type SystemState struct {
	LastStatisticsRunUTC time.Time
}
