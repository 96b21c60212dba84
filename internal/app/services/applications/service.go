// Package applications orchestrates the application aggregate: creation from
// the active catalog, field updates, lifecycle transitions, and the journal
// of domain events each transition produces.
package applications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/huntboard/huntboard/internal/app/domain/application"
	"github.com/huntboard/huntboard/internal/app/domain/event"
	"github.com/huntboard/huntboard/internal/app/metrics"
	"github.com/huntboard/huntboard/internal/app/storage"
	"github.com/huntboard/huntboard/pkg/logger"
)

// ViolationError carries the domain violations that blocked a lifecycle
// transition so transports can render them individually.
type ViolationError struct {
	Op         string
	Violations []application.Violation
}

func (e *ViolationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return fmt.Sprintf("%s blocked: %s", e.Op, strings.Join(parts, "; "))
}

// Service manages job applications.
type Service struct {
	store   storage.ApplicationStore
	catalog storage.StateCatalogStore
	events  storage.EventStore
	log     *logger.Logger
	nowFn   func() time.Time
}

// New constructs an applications service.
func New(store storage.ApplicationStore, catalog storage.StateCatalogStore, events storage.EventStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("applications")
	}
	return &Service{
		store:   store,
		catalog: catalog,
		events:  events,
		log:     log,
		nowFn:   func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the service clock. Intended for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.nowFn = now
}

// CreateInput carries the caller-editable fields of a new application.
type CreateInput struct {
	CompanyName     string
	Role            string
	Location        string
	CompensationMin int
	CompensationMax int
	Notes           string
}

// Create initializes a new application for the user from the active catalog
// and records the creation event.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*application.Application, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user_id is required")
	}

	states, err := s.catalog.ListStates(ctx)
	if err != nil {
		return nil, err
	}

	app, err := application.Initialize(userID, states)
	if err != nil {
		return nil, err
	}
	app.CompanyName = strings.TrimSpace(in.CompanyName)
	app.Role = strings.TrimSpace(in.Role)
	app.Location = strings.TrimSpace(in.Location)
	app.CompensationMin = in.CompensationMin
	app.CompensationMax = in.CompensationMax
	app.Notes = in.Notes

	created, err := s.store.CreateApplication(ctx, app)
	if err != nil {
		return nil, err
	}

	entry := event.New(event.ApplicationCreated, userID, s.nowFn(), application.EntityName, created.ID, map[string]string{
		event.PropNewState: created.CurrentStateName(),
	})
	if err := s.events.AppendEvents(ctx, []event.Entry{entry}); err != nil {
		s.log.WithError(err).WithField("application_id", created.ID).Warn("creation event not recorded")
	}
	metrics.ApplicationsCreated.Inc()
	s.log.WithField("application_id", created.ID).WithField("user_id", userID).Info("application created")
	return created, nil
}

// UpdateInput carries optional field updates; nil leaves a field unchanged.
type UpdateInput struct {
	CompanyName     *string
	Role            *string
	Location        *string
	CompensationMin *int
	CompensationMax *int
	Notes           *string
}

// Update overwrites the mutable descriptive fields of an application.
// Deactivated applications cannot be edited.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*application.Application, error) {
	app, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.IsDeactivated() {
		return nil, &ViolationError{Op: "update", Violations: []application.Violation{
			{Kind: application.KindInvalidState, Field: "deactivated_utc", Message: "application is deactivated"},
		}}
	}

	if in.CompanyName != nil {
		app.CompanyName = strings.TrimSpace(*in.CompanyName)
	}
	if in.Role != nil {
		app.Role = strings.TrimSpace(*in.Role)
	}
	if in.Location != nil {
		app.Location = strings.TrimSpace(*in.Location)
	}
	if in.CompensationMin != nil {
		app.CompensationMin = *in.CompensationMin
	}
	if in.CompensationMax != nil {
		app.CompensationMax = *in.CompensationMax
	}
	if in.Notes != nil {
		app.Notes = *in.Notes
	}

	return s.store.UpdateApplication(ctx, app)
}

// Get retrieves an application by identifier.
func (s *Service) Get(ctx context.Context, id string) (*application.Application, error) {
	return s.store.GetApplication(ctx, id)
}

// List returns applications, scoped to a user when userID is non-empty.
func (s *Service) List(ctx context.Context, userID string) ([]*application.Application, error) {
	return s.store.ListApplications(ctx, userID)
}

// ChangeState moves the application to another state from its snapshot.
func (s *Service) ChangeState(ctx context.Context, id, newStateID, actor string) (*application.Application, error) {
	return s.transition(ctx, id, "change state", func(app *application.Application) ([]event.Entry, []application.Violation) {
		return app.ChangeState(newStateID, actor, s.nowFn())
	})
}

// Reject records the rejection outcome.
func (s *Service) Reject(ctx context.Context, id string, r application.Rejection, actor string) (*application.Application, error) {
	app, err := s.transition(ctx, id, "reject", func(app *application.Application) ([]event.Entry, []application.Violation) {
		return app.Reject(r, actor, s.nowFn())
	})
	if err == nil {
		metrics.ApplicationsRejected.Inc()
	}
	return app, err
}

// Accept records the acceptance outcome. When the acceptance asks for it, the
// user's other open applications are archived in the same call; each archived
// sibling is persisted and its archive event recorded.
func (s *Service) Accept(ctx context.Context, id string, acc application.Acceptance, actor string) (*application.Application, error) {
	app, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}

	var siblings []*application.Application
	if acc.ArchiveOpenApplications {
		open, err := s.store.ListOpenApplications(ctx, app.UserID)
		if err != nil {
			return nil, err
		}
		for _, other := range open {
			if other.ID != app.ID {
				siblings = append(siblings, other)
			}
		}
	}

	entries, violations := app.Accept(acc, siblings, actor, s.nowFn())
	if len(violations) > 0 {
		return nil, &ViolationError{Op: "accept", Violations: violations}
	}

	// Split the winner's events from the cascade's so the acceptance is
	// journaled as soon as it is persisted; a sibling failure must not lose it.
	var winnerEvents, cascadeEvents []event.Entry
	for _, e := range entries {
		if e.EntityID == app.ID {
			winnerEvents = append(winnerEvents, e)
		} else {
			cascadeEvents = append(cascadeEvents, e)
		}
	}

	updated, err := s.store.UpdateApplication(ctx, app)
	if err != nil {
		return nil, err
	}
	s.appendEvents(ctx, updated.ID, winnerEvents)

	for _, sibling := range siblings {
		if !sibling.IsArchived() {
			continue
		}
		if _, err := s.store.UpdateApplication(ctx, sibling); err != nil {
			return nil, fmt.Errorf("archive sibling %s: %w", sibling.ID, err)
		}
	}
	s.appendEvents(ctx, updated.ID, cascadeEvents)
	metrics.ApplicationsAccepted.Inc()
	s.log.WithField("application_id", updated.ID).
		WithField("archived_siblings", len(siblings)).
		Info("application accepted")
	return updated, nil
}

// Archive shelves an open application.
func (s *Service) Archive(ctx context.Context, id, actor string) (*application.Application, error) {
	return s.transition(ctx, id, "archive", func(app *application.Application) ([]event.Entry, []application.Violation) {
		return app.Archive(actor, s.nowFn())
	})
}

// Unarchive restores an archived application.
func (s *Service) Unarchive(ctx context.Context, id, actor string) (*application.Application, error) {
	return s.transition(ctx, id, "unarchive", func(app *application.Application) ([]event.Entry, []application.Violation) {
		return app.Unarchive(actor, s.nowFn())
	})
}

// Deactivate soft-deletes an application.
func (s *Service) Deactivate(ctx context.Context, id, actor string) (*application.Application, error) {
	return s.transition(ctx, id, "deactivate", func(app *application.Application) ([]event.Entry, []application.Violation) {
		return app.Deactivate(actor, s.nowFn())
	})
}

// Reactivate restores a soft-deleted application.
func (s *Service) Reactivate(ctx context.Context, id, actor string) (*application.Application, error) {
	return s.transition(ctx, id, "reactivate", func(app *application.Application) ([]event.Entry, []application.Violation) {
		return app.Reactivate(actor, s.nowFn())
	})
}

// AddContact appends a contact to the application, assigning the next
// sequence number.
func (s *Service) AddContact(ctx context.Context, id string, c application.Contact) (*application.Application, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, fmt.Errorf("contact name is required")
	}

	app, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.IsDeactivated() {
		return nil, &ViolationError{Op: "add contact", Violations: []application.Violation{
			{Kind: application.KindInvalidState, Field: "deactivated_utc", Message: "application is deactivated"},
		}}
	}

	c.ID = uuid.NewString()
	maxSeq := 0
	for _, other := range app.Contacts {
		if other.SeqNo > maxSeq {
			maxSeq = other.SeqNo
		}
	}
	c.SeqNo = maxSeq + 1
	app.Contacts = append(app.Contacts, c)

	return s.store.UpdateApplication(ctx, app)
}

// RemoveContact deletes a contact by identifier.
func (s *Service) RemoveContact(ctx context.Context, id, contactID string) (*application.Application, error) {
	app, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.IsDeactivated() {
		return nil, &ViolationError{Op: "remove contact", Violations: []application.Violation{
			{Kind: application.KindInvalidState, Field: "deactivated_utc", Message: "application is deactivated"},
		}}
	}

	kept := app.Contacts[:0]
	found := false
	for _, c := range app.Contacts {
		if c.ID == contactID {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return nil, fmt.Errorf("contact %s: %w", contactID, storage.ErrNotFound)
	}
	app.Contacts = kept

	return s.store.UpdateApplication(ctx, app)
}

// AddAppointment schedules an interview on an open application.
func (s *Service) AddAppointment(ctx context.Context, id string, appt application.Appointment, actor string) (*application.Application, error) {
	appt.ID = uuid.NewString()
	app, err := s.transition(ctx, id, "add appointment", func(app *application.Application) ([]event.Entry, []application.Violation) {
		return app.AddAppointment(appt, actor, s.nowFn())
	})
	if err == nil {
		metrics.AppointmentsScheduled.Inc()
	}
	return app, err
}

// transition loads the aggregate, applies one lifecycle operation, persists
// the result, and journals the events the operation produced.
func (s *Service) transition(ctx context.Context, id, op string, apply func(*application.Application) ([]event.Entry, []application.Violation)) (*application.Application, error) {
	app, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}

	entries, violations := apply(app)
	if len(violations) > 0 {
		return nil, &ViolationError{Op: op, Violations: violations}
	}

	updated, err := s.store.UpdateApplication(ctx, app)
	if err != nil {
		return nil, err
	}
	s.appendEvents(ctx, updated.ID, entries)
	return updated, nil
}

func (s *Service) appendEvents(ctx context.Context, applicationID string, entries []event.Entry) {
	if len(entries) == 0 {
		return
	}
	if err := s.events.AppendEvents(ctx, entries); err != nil {
		s.log.WithError(err).WithField("application_id", applicationID).Warn("domain events not recorded")
	}
}
