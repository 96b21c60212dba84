// Package event defines the append-only domain event log entries and the
// per-unit-of-work sink that collects them before persistence.
package event

import "time"

// Event names recorded in the system event log.
const (
	ApplicationCreated     = "application.created"
	ApplicationUpdated     = "application.updated"
	ApplicationStateMoved  = "application.state_changed"
	ApplicationRejected    = "application.rejected"
	ApplicationAccepted    = "application.accepted"
	ApplicationArchived    = "application.archived"
	ApplicationUnarchived  = "application.unarchived"
	ApplicationDeactivated = "application.deactivated"
	ApplicationReactivated = "application.reactivated"
	AppointmentScheduled   = "appointment.scheduled"
	AlertEmailSent         = "alert.email_sent"
	AlertBrowserSent       = "alert.browser_sent"
	UserRegistered         = "user.registered"
	UserLoggedIn           = "user.logged_in"
)

// Well-known KeyProps keys.
const (
	PropPreviousState   = "previous_state"
	PropNewState        = "new_state"
	PropRejectedStateID = "rejected_state_id"
	PropRejectedState   = "rejected_state"
	PropStateAtArchive  = "state_at_archive"
	PropAppointmentID   = "appointment_id"
	PropSourceHost      = "source_host"
	PropSourceIP        = "source_ip"
)

// Entry is an immutable record of a domain fact. Entries are appended to the
// event log and never mutated or deleted by application code.
type Entry struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	CreatedBy  string            `json:"created_by"`
	CreatedUTC time.Time         `json:"created_utc"`
	EntityName string            `json:"entity_name,omitempty"`
	EntityID   string            `json:"entity_id,omitempty"`
	KeyProps   map[string]string `json:"key_props,omitempty"`
}

// New builds an entry stamped with the supplied time. KeyProps is copied so
// callers cannot mutate the entry afterwards.
func New(name, createdBy string, at time.Time, entityName, entityID string, props map[string]string) Entry {
	var copied map[string]string
	if len(props) > 0 {
		copied = make(map[string]string, len(props))
		for k, v := range props {
			copied[k] = v
		}
	}
	return Entry{
		Name:       name,
		CreatedBy:  createdBy,
		CreatedUTC: at.UTC(),
		EntityName: entityName,
		EntityID:   entityID,
		KeyProps:   copied,
	}
}

// Sink buffers events produced during one logical unit of work. It is an
// ordered, append-only, in-memory collection confined to a single goroutine;
// the orchestrating caller drains it after successful persistence and clears
// it on failure.
type Sink struct {
	entries []Entry
}

// NewSink returns an empty sink.
func NewSink() *Sink {
	return &Sink{}
}

// Append adds entries to the buffer in order.
func (s *Sink) Append(entries ...Entry) {
	s.entries = append(s.entries, entries...)
}

// Len reports the number of buffered entries.
func (s *Sink) Len() int {
	return len(s.entries)
}

// Drain returns the buffered entries and empties the sink.
func (s *Sink) Drain() []Entry {
	out := s.entries
	s.entries = nil
	return out
}

// Clear discards buffered entries without returning them.
func (s *Sink) Clear() {
	s.entries = nil
}
