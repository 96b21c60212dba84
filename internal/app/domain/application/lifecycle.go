package application

import (
	"fmt"
	"sort"
	"time"

	"github.com/huntboard/huntboard/internal/app/domain/appstate"
	"github.com/huntboard/huntboard/internal/app/domain/event"
)

// EntityName identifies the aggregate in event log entries.
const EntityName = "application"

// Initialize constructs a new aggregate for the given owner, snapshotting the
// active entries of the state catalog by value. The snapshot is ordered by
// SeqNo and the lowest-SeqNo state is marked current.
//
// The catalog must contain at least two active entries; anything less is a
// corrupt catalog and fails with ErrInvalidArgument.
func Initialize(userID string, catalog []appstate.ApplicationState) (*Application, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidArgument)
	}
	if len(catalog) == 0 {
		return nil, fmt.Errorf("%w: state catalog is empty", ErrInvalidArgument)
	}

	states := make([]State, 0, len(catalog))
	for _, cs := range catalog {
		if !cs.Active() {
			continue
		}
		states = append(states, State{
			ID:       cs.ID,
			Name:     cs.Name,
			HexColor: cs.HexColor,
			SeqNo:    cs.SeqNo,
		})
	}
	if len(states) < 2 {
		return nil, fmt.Errorf("%w: catalog has %d active states, need at least 2", ErrInvalidArgument, len(states))
	}

	sort.SliceStable(states, func(i, j int) bool { return states[i].SeqNo < states[j].SeqNo })
	states[0].IsCurrent = true

	return &Application{
		UserID: userID,
		States: states,
	}, nil
}

// CanChangeState validates a state transition without mutating anything.
func (a *Application) CanChangeState(newStateID string) []Violation {
	var out []Violation
	out = append(out, a.openViolations()...)
	if len(out) > 0 {
		return out
	}
	if a.stateByID(newStateID) == nil {
		out = append(out, violation(KindUnknownState, "state_id",
			fmt.Sprintf("state %q is not part of this application", newStateID)))
	}
	return out
}

// ChangeState moves the current-state flag to newStateID and returns the
// produced event. The previous state name is recorded for audit.
func (a *Application) ChangeState(newStateID, actor string, now time.Time) ([]event.Entry, []Violation) {
	if v := a.CanChangeState(newStateID); len(v) > 0 {
		return nil, v
	}

	previous := a.CurrentStateName()
	for i := range a.States {
		a.States[i].IsCurrent = a.States[i].ID == newStateID
	}
	a.UpdatedUTC = now.UTC()

	e := event.New(event.ApplicationStateMoved, actor, now, EntityName, a.ID, map[string]string{
		event.PropPreviousState: previous,
		event.PropNewState:      a.CurrentStateName(),
	})
	return []event.Entry{e}, nil
}

// CanReject validates a rejection without mutating anything.
func (a *Application) CanReject() []Violation {
	return a.terminalViolations("reject")
}

// Reject records the terminal rejection outcome. The state active at the time
// of rejection is carried in the event for the statistics aggregator.
func (a *Application) Reject(r Rejection, actor string, now time.Time) ([]event.Entry, []Violation) {
	if v := a.CanReject(); len(v) > 0 {
		return nil, v
	}

	if r.RejectedUTC.IsZero() {
		r.RejectedUTC = now.UTC()
	}
	current := a.CurrentState()
	a.Rejection = &r
	a.UpdatedUTC = now.UTC()

	e := event.New(event.ApplicationRejected, actor, now, EntityName, a.ID, map[string]string{
		event.PropRejectedStateID: current.ID,
		event.PropRejectedState:   current.Name,
	})
	return []event.Entry{e}, nil
}

// CanAccept validates an acceptance without mutating anything.
func (a *Application) CanAccept() []Violation {
	return a.terminalViolations("accept")
}

// Accept records the terminal acceptance outcome. When the acceptance asks
// for it, every supplied sibling that is still open is archived as a side
// effect; terminal, archived and deactivated siblings are left untouched.
// The caller is responsible for fetching the user's other applications — the
// aggregate performs no I/O.
func (a *Application) Accept(acc Acceptance, siblings []*Application, actor string, now time.Time) ([]event.Entry, []Violation) {
	if v := a.CanAccept(); len(v) > 0 {
		return nil, v
	}

	if acc.AcceptedUTC.IsZero() {
		acc.AcceptedUTC = now.UTC()
	}
	a.Acceptance = &acc
	a.UpdatedUTC = now.UTC()

	events := []event.Entry{
		event.New(event.ApplicationAccepted, actor, now, EntityName, a.ID, map[string]string{
			event.PropNewState: a.CurrentStateName(),
		}),
	}

	if acc.ArchiveOpenApplications {
		for _, sib := range siblings {
			if sib == nil || sib.ID == a.ID || sib.UserID != a.UserID || !sib.IsOpen() {
				continue
			}
			archived, violations := sib.Archive(actor, now)
			if len(violations) > 0 {
				// IsOpen screened the preconditions already.
				continue
			}
			events = append(events, archived...)
		}
	}

	return events, nil
}

// CanArchive validates archiving without mutating anything.
func (a *Application) CanArchive() []Violation {
	var out []Violation
	if a.IsArchived() {
		out = append(out, violation(KindInvalidState, "archived_utc", "application is already archived"))
	}
	if a.IsDeactivated() {
		out = append(out, violation(KindInvalidState, "deactivated_utc", "application is deactivated"))
	}
	return out
}

// Archive stamps ArchivedUTC and records the state name at archive time.
func (a *Application) Archive(actor string, now time.Time) ([]event.Entry, []Violation) {
	if v := a.CanArchive(); len(v) > 0 {
		return nil, v
	}

	a.ArchivedUTC = now.UTC()
	a.UpdatedUTC = now.UTC()

	e := event.New(event.ApplicationArchived, actor, now, EntityName, a.ID, map[string]string{
		event.PropStateAtArchive: a.CurrentStateName(),
	})
	return []event.Entry{e}, nil
}

// Unarchive clears ArchivedUTC for an archived application.
func (a *Application) Unarchive(actor string, now time.Time) ([]event.Entry, []Violation) {
	var out []Violation
	if !a.IsArchived() {
		out = append(out, violation(KindInvalidState, "archived_utc", "application is not archived"))
	}
	if a.IsDeactivated() {
		out = append(out, violation(KindInvalidState, "deactivated_utc", "application is deactivated"))
	}
	if len(out) > 0 {
		return nil, out
	}

	a.ArchivedUTC = time.Time{}
	a.UpdatedUTC = now.UTC()

	return []event.Entry{event.New(event.ApplicationUnarchived, actor, now, EntityName, a.ID, nil)}, nil
}

// Deactivate soft-deletes the application. Deactivation is the terminal
// "removal"; aggregates are never hard-deleted.
func (a *Application) Deactivate(actor string, now time.Time) ([]event.Entry, []Violation) {
	if a.IsDeactivated() {
		return nil, []Violation{violation(KindInvalidState, "deactivated_utc", "application is already deactivated")}
	}

	a.DeactivatedUTC = now.UTC()
	a.UpdatedUTC = now.UTC()

	return []event.Entry{event.New(event.ApplicationDeactivated, actor, now, EntityName, a.ID, nil)}, nil
}

// Reactivate clears DeactivatedUTC for a deactivated application.
func (a *Application) Reactivate(actor string, now time.Time) ([]event.Entry, []Violation) {
	if !a.IsDeactivated() {
		return nil, []Violation{violation(KindInvalidState, "deactivated_utc", "application is not deactivated")}
	}

	a.DeactivatedUTC = time.Time{}
	a.UpdatedUTC = now.UTC()

	return []event.Entry{event.New(event.ApplicationReactivated, actor, now, EntityName, a.ID, nil)}, nil
}

// openViolations collects the preconditions shared by operations that require
// an open application.
func (a *Application) openViolations() []Violation {
	var out []Violation
	if a.IsTerminal() {
		out = append(out, violation(KindAlreadyTerminal, "", "application has a terminal outcome"))
	}
	if a.IsArchived() {
		out = append(out, violation(KindInvalidState, "archived_utc", "application is archived"))
	}
	if a.IsDeactivated() {
		out = append(out, violation(KindInvalidState, "deactivated_utc", "application is deactivated"))
	}
	return out
}

// terminalViolations collects the preconditions for Reject and Accept, which
// demand rejection and acceptance be mutually exclusive.
func (a *Application) terminalViolations(op string) []Violation {
	var out []Violation
	if a.IsRejected() {
		out = append(out, violation(KindAlreadyTerminal, "rejection", "application is already rejected"))
	}
	if a.IsAccepted() {
		out = append(out, violation(KindAlreadyTerminal, "acceptance", "application is already accepted"))
	}
	if a.IsArchived() {
		out = append(out, violation(KindInvalidState, "archived_utc", fmt.Sprintf("cannot %s an archived application", op)))
	}
	if a.IsDeactivated() {
		out = append(out, violation(KindInvalidState, "deactivated_utc", fmt.Sprintf("cannot %s a deactivated application", op)))
	}
	return out
}

func (a *Application) stateByID(id string) *State {
	for i := range a.States {
		if a.States[i].ID == id {
			return &a.States[i]
		}
	}
	return nil
}
