// Package memory provides a thread-safe in-memory implementation of the
// storage interfaces. It backs tests and local development and deliberately
// keeps the implementation simple.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/huntboard/huntboard/internal/app/domain/application"
	"github.com/huntboard/huntboard/internal/app/domain/appstate"
	"github.com/huntboard/huntboard/internal/app/domain/event"
	"github.com/huntboard/huntboard/internal/app/domain/statistics"
	"github.com/huntboard/huntboard/internal/app/domain/user"
	"github.com/huntboard/huntboard/internal/app/storage"
)

// Store is an in-memory implementation of every storage interface. It is safe
// for concurrent use; aggregates are cloned on the way in and out so callers
// never share memory with the store.
type Store struct {
	mu           sync.RWMutex
	states       map[string]appstate.ApplicationState
	applications map[string]*application.Application
	events       []event.Entry
	stats        map[string]statistics.Statistics
	systemState  statistics.SystemState
	users        map[string]user.User
	usersByEmail map[string]string
}

var _ storage.StateCatalogStore = (*Store)(nil)
var _ storage.ApplicationStore = (*Store)(nil)
var _ storage.EventStore = (*Store)(nil)
var _ storage.StatisticsStore = (*Store)(nil)
var _ storage.UserStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		states:       make(map[string]appstate.ApplicationState),
		applications: make(map[string]*application.Application),
		stats:        make(map[string]statistics.Statistics),
		users:        make(map[string]user.User),
		usersByEmail: make(map[string]string),
	}
}

// StateCatalogStore implementation ---------------------------------------------

func (m *Store) CreateState(_ context.Context, st appstate.ApplicationState) (appstate.ApplicationState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if st.ID == "" {
		st.ID = uuid.NewString()
	} else if _, exists := m.states[st.ID]; exists {
		return appstate.ApplicationState{}, fmt.Errorf("state %s: %w", st.ID, storage.ErrConflict)
	}

	now := time.Now().UTC()
	st.CreatedUTC = now
	st.UpdatedUTC = now

	m.states[st.ID] = st
	return st, nil
}

func (m *Store) UpdateState(_ context.Context, st appstate.ApplicationState) (appstate.ApplicationState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	original, ok := m.states[st.ID]
	if !ok {
		return appstate.ApplicationState{}, fmt.Errorf("state %s: %w", st.ID, storage.ErrNotFound)
	}

	st.CreatedUTC = original.CreatedUTC
	st.UpdatedUTC = time.Now().UTC()

	m.states[st.ID] = st
	return st, nil
}

func (m *Store) GetState(_ context.Context, id string) (appstate.ApplicationState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	st, ok := m.states[id]
	if !ok {
		return appstate.ApplicationState{}, fmt.Errorf("state %s: %w", id, storage.ErrNotFound)
	}
	return st, nil
}

func (m *Store) ListStates(_ context.Context) ([]appstate.ApplicationState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]appstate.ApplicationState, 0, len(m.states))
	for _, st := range m.states {
		out = append(out, st)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SeqNo < out[j].SeqNo })
	return out, nil
}

// ApplicationStore implementation ----------------------------------------------

func (m *Store) CreateApplication(_ context.Context, app *application.Application) (*application.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := app.Clone()
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	} else if _, exists := m.applications[cp.ID]; exists {
		return nil, fmt.Errorf("application %s: %w", cp.ID, storage.ErrConflict)
	}

	now := time.Now().UTC()
	cp.CreatedUTC = now
	cp.UpdatedUTC = now
	cp.Revision = 1

	m.applications[cp.ID] = cp
	return cp.Clone(), nil
}

func (m *Store) UpdateApplication(_ context.Context, app *application.Application) (*application.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	original, ok := m.applications[app.ID]
	if !ok {
		return nil, fmt.Errorf("application %s: %w", app.ID, storage.ErrNotFound)
	}
	if original.Revision != app.Revision {
		return nil, fmt.Errorf("application %s: %w", app.ID, storage.ErrStaleAggregate)
	}

	cp := app.Clone()
	cp.CreatedUTC = original.CreatedUTC
	cp.Revision = original.Revision + 1

	m.applications[cp.ID] = cp
	return cp.Clone(), nil
}

func (m *Store) GetApplication(_ context.Context, id string) (*application.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	app, ok := m.applications[id]
	if !ok {
		return nil, fmt.Errorf("application %s: %w", id, storage.ErrNotFound)
	}
	return app.Clone(), nil
}

func (m *Store) ListApplications(_ context.Context, userID string) ([]*application.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*application.Application, 0)
	for _, app := range m.applications {
		if userID == "" || app.UserID == userID {
			out = append(out, app.Clone())
		}
	}
	sortApplications(out)
	return out, nil
}

func (m *Store) ListOpenApplications(_ context.Context, userID string) ([]*application.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*application.Application, 0)
	for _, app := range m.applications {
		if app.UserID == userID && app.IsOpen() {
			out = append(out, app.Clone())
		}
	}
	sortApplications(out)
	return out, nil
}

func sortApplications(apps []*application.Application) {
	sort.SliceStable(apps, func(i, j int) bool {
		if apps[i].CreatedUTC.Equal(apps[j].CreatedUTC) {
			return apps[i].ID < apps[j].ID
		}
		return apps[i].CreatedUTC.Before(apps[j].CreatedUTC)
	})
}

// EventStore implementation ----------------------------------------------------

func (m *Store) AppendEvents(_ context.Context, entries []event.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range entries {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		m.events = append(m.events, e)
	}
	return nil
}

func (m *Store) ListEventsBetween(_ context.Context, names []string, from, to time.Time) ([]event.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var out []event.Entry
	for _, e := range m.events {
		if len(wanted) > 0 && !wanted[e.Name] {
			continue
		}
		if !e.CreatedUTC.After(from) || e.CreatedUTC.After(to) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedUTC.Before(out[j].CreatedUTC) })
	return out, nil
}

func (m *Store) ListRecentEvents(_ context.Context, limit int) ([]event.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 || limit > len(m.events) {
		limit = len(m.events)
	}
	out := make([]event.Entry, limit)
	copy(out, m.events[len(m.events)-limit:])
	return out, nil
}

// StatisticsStore implementation -----------------------------------------------

func (m *Store) GetStatistics(_ context.Context, userID string) (statistics.Statistics, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	st, ok := m.stats[userID]
	if !ok {
		return statistics.Statistics{}, fmt.Errorf("statistics for %s: %w", userID, storage.ErrNotFound)
	}
	return cloneStatistics(st), nil
}

func (m *Store) UpsertStatistics(_ context.Context, stats statistics.Statistics) (statistics.Statistics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats.UpdatedUTC = time.Now().UTC()
	m.stats[stats.UserID] = cloneStatistics(stats)
	return stats, nil
}

func (m *Store) GetSystemState(_ context.Context) (statistics.SystemState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.systemState, nil
}

func (m *Store) SaveSystemState(_ context.Context, st statistics.SystemState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.systemState = st
	return nil
}

// UserStore implementation -----------------------------------------------------

func (m *Store) CreateUser(_ context.Context, u user.User) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(u.Email))
	if _, exists := m.usersByEmail[email]; exists {
		return user.User{}, fmt.Errorf("user %s: %w", email, storage.ErrConflict)
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	} else if _, exists := m.users[u.ID]; exists {
		return user.User{}, fmt.Errorf("user %s: %w", u.ID, storage.ErrConflict)
	}

	now := time.Now().UTC()
	u.Email = email
	u.CreatedUTC = now
	u.UpdatedUTC = now

	m.users[u.ID] = u
	m.usersByEmail[email] = u.ID
	return u, nil
}

func (m *Store) UpdateUser(_ context.Context, u user.User) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	original, ok := m.users[u.ID]
	if !ok {
		return user.User{}, fmt.Errorf("user %s: %w", u.ID, storage.ErrNotFound)
	}

	u.Email = original.Email
	u.CreatedUTC = original.CreatedUTC
	u.UpdatedUTC = time.Now().UTC()

	m.users[u.ID] = u
	return u, nil
}

func (m *Store) GetUser(_ context.Context, id string) (user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return user.User{}, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	return u, nil
}

func (m *Store) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.usersByEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return user.User{}, fmt.Errorf("user %s: %w", email, storage.ErrNotFound)
	}
	return m.users[id], nil
}

func (m *Store) ListActiveUsers(_ context.Context) ([]user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]user.User, 0, len(m.users))
	for _, u := range m.users {
		if u.Active() {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func cloneStatistics(st statistics.Statistics) statistics.Statistics {
	counts := make(map[string]int64, len(st.ApplicationRejectionStateCounts))
	for k, v := range st.ApplicationRejectionStateCounts {
		counts[k] = v
	}
	st.ApplicationRejectionStateCounts = counts
	return st
}
