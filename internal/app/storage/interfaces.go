// Package storage defines the persistence interfaces for the application's
// entities. Implementations live in the memory and postgres subpackages.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/huntboard/huntboard/internal/app/domain/application"
	"github.com/huntboard/huntboard/internal/app/domain/appstate"
	"github.com/huntboard/huntboard/internal/app/domain/event"
	"github.com/huntboard/huntboard/internal/app/domain/statistics"
	"github.com/huntboard/huntboard/internal/app/domain/user"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a uniqueness constraint would be violated.
var ErrConflict = errors.New("conflict")

// ErrStaleAggregate is returned by UpdateApplication when the stored revision
// no longer matches the aggregate being written.
var ErrStaleAggregate = errors.New("stale aggregate revision")

// StateCatalogStore persists the global state catalog.
type StateCatalogStore interface {
	CreateState(ctx context.Context, st appstate.ApplicationState) (appstate.ApplicationState, error)
	UpdateState(ctx context.Context, st appstate.ApplicationState) (appstate.ApplicationState, error)
	GetState(ctx context.Context, id string) (appstate.ApplicationState, error)
	// ListStates returns the full catalog ordered by SeqNo, including
	// deactivated entries.
	ListStates(ctx context.Context) ([]appstate.ApplicationState, error)
}

// ApplicationStore persists application aggregates as whole documents.
type ApplicationStore interface {
	CreateApplication(ctx context.Context, app *application.Application) (*application.Application, error)
	// UpdateApplication enforces optimistic concurrency: it fails with
	// ErrStaleAggregate unless the stored revision matches app.Revision,
	// and increments the revision on success.
	UpdateApplication(ctx context.Context, app *application.Application) (*application.Application, error)
	GetApplication(ctx context.Context, id string) (*application.Application, error)
	ListApplications(ctx context.Context, userID string) ([]*application.Application, error)
	// ListOpenApplications returns the user's non-terminal, non-archived,
	// non-deactivated applications.
	ListOpenApplications(ctx context.Context, userID string) ([]*application.Application, error)
}

// EventStore persists the append-only system event log.
type EventStore interface {
	AppendEvents(ctx context.Context, entries []event.Entry) error
	// ListEventsBetween returns entries with the given names created in
	// (from, to], ordered by creation time.
	ListEventsBetween(ctx context.Context, names []string, from, to time.Time) ([]event.Entry, error)
	ListRecentEvents(ctx context.Context, limit int) ([]event.Entry, error)
}

// StatisticsStore persists per-user statistics and the aggregation watermark.
type StatisticsStore interface {
	GetStatistics(ctx context.Context, userID string) (statistics.Statistics, error)
	UpsertStatistics(ctx context.Context, stats statistics.Statistics) (statistics.Statistics, error)
	GetSystemState(ctx context.Context) (statistics.SystemState, error)
	SaveSystemState(ctx context.Context, st statistics.SystemState) error
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	UpdateUser(ctx context.Context, u user.User) (user.User, error)
	GetUser(ctx context.Context, id string) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	ListActiveUsers(ctx context.Context) ([]user.User, error)
}
