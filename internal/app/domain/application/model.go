// Package application holds the job-application aggregate: its snapshot of
// the state catalog, contacts, appointments, terminal outcomes, and the
// lifecycle operations that mutate it.
package application

import "time"

// Appointment duration and description bounds, applied when scheduling.
const (
	MinAppointmentDuration = 15 * time.Minute
	MaxAppointmentDuration = 8 * time.Hour
	MaxDescriptionLength   = 500
)

// State is a per-application copy of a catalog entry. States are copied by
// value at creation time so later catalog edits never alter history.
type State struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	HexColor  string `json:"hex_color"`
	SeqNo     int    `json:"seq_no"`
	IsCurrent bool   `json:"is_current"`
}

// Contact is a person attached to an application, ordered by SeqNo.
type Contact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Notes string `json:"notes,omitempty"`
	SeqNo int    `json:"seq_no"`
}

// Appointment is an interview or meeting owned by one application. The two
// notification flags are write-once: once an alert has gone out it is never
// re-sent.
type Appointment struct {
	ID                      string    `json:"id"`
	StartDateTimeUTC        time.Time `json:"start_utc"`
	EndDateTimeUTC          time.Time `json:"end_utc"`
	Description             string    `json:"description"`
	ApplicationStateID      string    `json:"application_state_id,omitempty"`
	BrowserNotificationSent bool      `json:"browser_notification_sent"`
	EmailNotificationSent   bool      `json:"email_notification_sent"`
}

// Rejection records the terminal rejection outcome.
type Rejection struct {
	Method       string    `json:"method,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	ResponseText string    `json:"response_text,omitempty"`
	RejectedUTC  time.Time `json:"rejected_utc"`
}

// Acceptance records the terminal acceptance outcome. When
// ArchiveOpenApplications is set, accepting archives the user's other open
// applications as a side effect.
type Acceptance struct {
	Method                  string    `json:"method,omitempty"`
	ResponseText            string    `json:"response_text,omitempty"`
	AcceptedUTC             time.Time `json:"accepted_utc"`
	ArchiveOpenApplications bool      `json:"archive_open_applications"`
}

// Application is the aggregate root for one tracked job application.
type Application struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id"`
	CompanyName     string `json:"company_name"`
	Role            string `json:"role"`
	Location        string `json:"location,omitempty"`
	CompensationMin int    `json:"compensation_min,omitempty"`
	CompensationMax int    `json:"compensation_max,omitempty"`
	Notes           string `json:"notes,omitempty"`

	Contacts     []Contact     `json:"contacts"`
	Appointments []Appointment `json:"appointments"`
	States       []State       `json:"states"`

	Rejection  *Rejection  `json:"rejection,omitempty"`
	Acceptance *Acceptance `json:"acceptance,omitempty"`

	CreatedUTC     time.Time `json:"created_utc"`
	UpdatedUTC     time.Time `json:"updated_utc"`
	ArchivedUTC    time.Time `json:"archived_utc,omitempty"`
	DeactivatedUTC time.Time `json:"deactivated_utc,omitempty"`

	// Revision supports optimistic concurrency at the persistence layer.
	Revision int64 `json:"revision"`
}

// CurrentState returns the state flagged current, or a zero State when the
// aggregate is in a terminal outcome with no current flag.
func (a *Application) CurrentState() State {
	for _, s := range a.States {
		if s.IsCurrent {
			return s
		}
	}
	return State{}
}

// CurrentStateName returns the current state's name, empty when none is set.
func (a *Application) CurrentStateName() string {
	return a.CurrentState().Name
}

// IsRejected reports whether a rejection has been recorded.
func (a *Application) IsRejected() bool {
	return a.Rejection != nil && !a.Rejection.RejectedUTC.IsZero()
}

// IsAccepted reports whether an acceptance has been recorded.
func (a *Application) IsAccepted() bool {
	return a.Acceptance != nil && !a.Acceptance.AcceptedUTC.IsZero()
}

// IsTerminal reports whether the application reached a terminal outcome.
func (a *Application) IsTerminal() bool {
	return a.IsRejected() || a.IsAccepted()
}

// IsArchived reports whether the application is archived.
func (a *Application) IsArchived() bool {
	return !a.ArchivedUTC.IsZero()
}

// IsDeactivated reports whether the application has been soft-deleted.
func (a *Application) IsDeactivated() bool {
	return !a.DeactivatedUTC.IsZero()
}

// IsOpen reports whether the application can still move through states.
func (a *Application) IsOpen() bool {
	return !a.IsTerminal() && !a.IsArchived() && !a.IsDeactivated()
}

// FindAppointment returns a pointer into the Appointments slice, or nil.
func (a *Application) FindAppointment(id string) *Appointment {
	for i := range a.Appointments {
		if a.Appointments[i].ID == id {
			return &a.Appointments[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the aggregate. Stores hand out clones so
// callers never share slices with cached documents.
func (a *Application) Clone() *Application {
	cp := *a
	cp.Contacts = append([]Contact(nil), a.Contacts...)
	cp.Appointments = append([]Appointment(nil), a.Appointments...)
	cp.States = append([]State(nil), a.States...)
	if a.Rejection != nil {
		r := *a.Rejection
		cp.Rejection = &r
	}
	if a.Acceptance != nil {
		acc := *a.Acceptance
		cp.Acceptance = &acc
	}
	return &cp
}
