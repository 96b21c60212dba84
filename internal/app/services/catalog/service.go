// Package catalog manages the shared application-state catalog that new
// applications snapshot at creation time.
package catalog

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/huntboard/huntboard/internal/app/domain/appstate"
	"github.com/huntboard/huntboard/internal/app/storage"
	"github.com/huntboard/huntboard/pkg/logger"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Service manages the application-state catalog.
type Service struct {
	store storage.StateCatalogStore
	log   *logger.Logger
}

// New constructs a catalog service.
func New(store storage.StateCatalogStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("catalog")
	}
	return &Service{store: store, log: log}
}

// Seed inserts the default catalog when the store is empty. It is safe to
// call on every startup.
func (s *Service) Seed(ctx context.Context) error {
	existing, err := s.store.ListStates(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, st := range appstate.DefaultCatalog() {
		if _, err := s.store.CreateState(ctx, st); err != nil {
			return fmt.Errorf("seed state %q: %w", st.Name, err)
		}
	}
	s.log.Info("default state catalog seeded")
	return nil
}

// Create adds a new state to the catalog.
func (s *Service) Create(ctx context.Context, name, hexColor string, seqNo int) (appstate.ApplicationState, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return appstate.ApplicationState{}, fmt.Errorf("name is required")
	}
	if !hexColorPattern.MatchString(hexColor) {
		return appstate.ApplicationState{}, fmt.Errorf("hex_color must be a #rrggbb value")
	}
	if seqNo <= 0 {
		return appstate.ApplicationState{}, fmt.Errorf("seq_no must be positive")
	}

	existing, err := s.store.ListStates(ctx)
	if err != nil {
		return appstate.ApplicationState{}, err
	}
	for _, other := range existing {
		if strings.EqualFold(other.Name, name) {
			return appstate.ApplicationState{}, fmt.Errorf("state with name %q already exists", name)
		}
	}

	st, err := s.store.CreateState(ctx, appstate.ApplicationState{Name: name, HexColor: hexColor, SeqNo: seqNo})
	if err != nil {
		return appstate.ApplicationState{}, err
	}
	s.log.WithField("state_id", st.ID).Infof("catalog state %q created", st.Name)
	return st, nil
}

// Update modifies a state's mutable fields. Applications that snapshotted the
// old values keep them.
func (s *Service) Update(ctx context.Context, id string, name, hexColor *string, seqNo *int) (appstate.ApplicationState, error) {
	st, err := s.store.GetState(ctx, id)
	if err != nil {
		return appstate.ApplicationState{}, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return appstate.ApplicationState{}, fmt.Errorf("name cannot be empty")
		}
		existing, err := s.store.ListStates(ctx)
		if err != nil {
			return appstate.ApplicationState{}, err
		}
		for _, other := range existing {
			if other.ID != st.ID && strings.EqualFold(other.Name, trimmed) {
				return appstate.ApplicationState{}, fmt.Errorf("state with name %q already exists", trimmed)
			}
		}
		st.Name = trimmed
	}
	if hexColor != nil {
		if !hexColorPattern.MatchString(*hexColor) {
			return appstate.ApplicationState{}, fmt.Errorf("hex_color must be a #rrggbb value")
		}
		st.HexColor = *hexColor
	}
	if seqNo != nil {
		if *seqNo <= 0 {
			return appstate.ApplicationState{}, fmt.Errorf("seq_no must be positive")
		}
		st.SeqNo = *seqNo
	}

	st, err = s.store.UpdateState(ctx, st)
	if err != nil {
		return appstate.ApplicationState{}, err
	}
	s.log.WithField("state_id", st.ID).Info("catalog state updated")
	return st, nil
}

// Deactivate removes a state from future application snapshots. The catalog
// may shrink below two active states; the two-active-states floor is checked
// when an application is created, not here.
func (s *Service) Deactivate(ctx context.Context, id string, now time.Time) (appstate.ApplicationState, error) {
	st, err := s.store.GetState(ctx, id)
	if err != nil {
		return appstate.ApplicationState{}, err
	}
	if !st.Active() {
		return st, nil
	}

	st.DeactivatedUTC = now.UTC()
	st, err = s.store.UpdateState(ctx, st)
	if err != nil {
		return appstate.ApplicationState{}, err
	}
	s.log.WithField("state_id", st.ID).Infof("catalog state %q deactivated", st.Name)
	return st, nil
}

// Reactivate returns a deactivated state to the catalog.
func (s *Service) Reactivate(ctx context.Context, id string) (appstate.ApplicationState, error) {
	st, err := s.store.GetState(ctx, id)
	if err != nil {
		return appstate.ApplicationState{}, err
	}
	if st.Active() {
		return st, nil
	}

	st.DeactivatedUTC = time.Time{}
	st, err = s.store.UpdateState(ctx, st)
	if err != nil {
		return appstate.ApplicationState{}, err
	}
	s.log.WithField("state_id", st.ID).Infof("catalog state %q reactivated", st.Name)
	return st, nil
}

// Get retrieves a state by identifier.
func (s *Service) Get(ctx context.Context, id string) (appstate.ApplicationState, error) {
	return s.store.GetState(ctx, id)
}

// List returns all catalog states ordered by sequence number.
func (s *Service) List(ctx context.Context) ([]appstate.ApplicationState, error) {
	return s.store.ListStates(ctx)
}

// ListActive returns only the states new applications may snapshot.
func (s *Service) ListActive(ctx context.Context) ([]appstate.ApplicationState, error) {
	all, err := s.store.ListStates(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]appstate.ApplicationState, 0, len(all))
	for _, st := range all {
		if st.Active() {
			active = append(active, st)
		}
	}
	return active, nil
}
