package application

import (
	"fmt"
	"time"

	"github.com/huntboard/huntboard/internal/app/domain/event"
)

// IsOverlapping reports whether the candidate interval collides with this
// appointment. Boundaries are inclusive: a candidate ending exactly when the
// appointment starts (or starting exactly when it ends) counts as overlap.
// A candidate fully containing the appointment also counts.
func (ap Appointment) IsOverlapping(candidateStart, candidateEnd time.Time) bool {
	within := func(t time.Time) bool {
		return !t.Before(ap.StartDateTimeUTC) && !t.After(ap.EndDateTimeUTC)
	}
	if within(candidateStart) || within(candidateEnd) {
		return true
	}
	// Candidate swallows the appointment entirely.
	return candidateStart.Before(ap.StartDateTimeUTC) && candidateEnd.After(ap.EndDateTimeUTC)
}

// ScheduleEmailAlerts returns the appointments that fall inside the alert
// window: start strictly after now, and the whole-minute distance from now to
// start, truncated toward zero, no greater than the threshold. An appointment
// starting exactly threshold minutes out is included; one starting at or
// before now is not. Sent-flag filtering is the caller's concern.
//
// The scan is a pure function of the aggregate, so callers may re-run it.
func (a *Application) ScheduleEmailAlerts(now time.Time, threshold time.Duration) []Appointment {
	thresholdMinutes := int64(threshold / time.Minute)
	var out []Appointment
	for _, ap := range a.Appointments {
		if !ap.StartDateTimeUTC.After(now) {
			continue
		}
		// Truncation, not rounding: 30m59s out is still "30 minutes".
		minutes := int64(ap.StartDateTimeUTC.Sub(now) / time.Minute)
		if minutes <= thresholdMinutes {
			out = append(out, ap)
		}
	}
	return out
}

// ValidateAppointment checks duration bounds, description length and
// double-booking against the application's existing appointments. The
// returned violations use field names matching the API payload.
func (a *Application) ValidateAppointment(candidate Appointment) []Violation {
	var out []Violation

	duration := candidate.EndDateTimeUTC.Sub(candidate.StartDateTimeUTC)
	if duration < MinAppointmentDuration {
		out = append(out, violation(KindInvalidState, "end_utc",
			fmt.Sprintf("appointment must last at least %s", MinAppointmentDuration)))
	}
	if duration > MaxAppointmentDuration {
		out = append(out, violation(KindInvalidState, "end_utc",
			fmt.Sprintf("appointment must not exceed %s", MaxAppointmentDuration)))
	}
	if len(candidate.Description) > MaxDescriptionLength {
		out = append(out, violation(KindInvalidState, "description",
			fmt.Sprintf("description exceeds %d characters", MaxDescriptionLength)))
	}

	for _, existing := range a.Appointments {
		if existing.ID == candidate.ID {
			continue
		}
		if existing.IsOverlapping(candidate.StartDateTimeUTC, candidate.EndDateTimeUTC) {
			out = append(out, violation(KindInvalidState, "start_utc",
				fmt.Sprintf("appointment overlaps with %q", existing.Description)))
			break
		}
	}

	return out
}

// AddAppointment validates and appends an appointment, tagging it with the
// application's current state.
func (a *Application) AddAppointment(candidate Appointment, actor string, now time.Time) ([]event.Entry, []Violation) {
	if a.IsDeactivated() {
		return nil, []Violation{violation(KindInvalidState, "deactivated_utc", "application is deactivated")}
	}
	if v := a.ValidateAppointment(candidate); len(v) > 0 {
		return nil, v
	}

	if candidate.ApplicationStateID == "" {
		candidate.ApplicationStateID = a.CurrentState().ID
	}
	a.Appointments = append(a.Appointments, candidate)
	a.UpdatedUTC = now.UTC()

	e := event.New(event.AppointmentScheduled, actor, now, EntityName, a.ID, map[string]string{
		event.PropAppointmentID: candidate.ID,
	})
	return []event.Entry{e}, nil
}

// MarkEmailNotificationSent sets the write-once email flag.
func (a *Application) MarkEmailNotificationSent(appointmentID string) bool {
	ap := a.FindAppointment(appointmentID)
	if ap == nil || ap.EmailNotificationSent {
		return false
	}
	ap.EmailNotificationSent = true
	return true
}

// MarkBrowserNotificationSent sets the write-once browser flag.
func (a *Application) MarkBrowserNotificationSent(appointmentID string) bool {
	ap := a.FindAppointment(appointmentID)
	if ap == nil || ap.BrowserNotificationSent {
		return false
	}
	ap.BrowserNotificationSent = true
	return true
}
