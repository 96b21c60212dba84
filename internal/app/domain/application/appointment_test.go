package application

import (
	"testing"
	"time"
)

func TestScheduleEmailAlertsWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	threshold := 30 * time.Minute

	cases := []struct {
		name     string
		start    time.Time
		included bool
	}{
		{"exactly at threshold", now.Add(30 * time.Minute), true},
		{"one minute past threshold", now.Add(31 * time.Minute), false},
		{"already started", now.Add(-time.Minute), false},
		{"starting right now", now, false},
		{"one minute out", now.Add(time.Minute), true},
		{"threshold plus 59 seconds truncates in", now.Add(30*time.Minute + 59*time.Second), true},
		{"threshold plus 60 seconds is out", now.Add(31 * time.Minute), false},
		{"thirty seconds out truncates to zero", now.Add(30 * time.Second), true},
	}

	for _, tc := range cases {
		app := &Application{Appointments: []Appointment{{
			ID:               "appt-1",
			StartDateTimeUTC: tc.start,
			EndDateTimeUTC:   tc.start.Add(time.Hour),
		}}}
		got := app.ScheduleEmailAlerts(now, threshold)
		if tc.included && len(got) != 1 {
			t.Fatalf("%s: expected inclusion", tc.name)
		}
		if !tc.included && len(got) != 0 {
			t.Fatalf("%s: expected exclusion", tc.name)
		}
	}
}

func TestIsOverlapping(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	existing := Appointment{
		StartDateTimeUTC: base,
		EndDateTimeUTC:   base.Add(4 * time.Hour),
	}

	cases := []struct {
		name    string
		start   time.Time
		end     time.Time
		overlap bool
	}{
		{"boundary touch on start", base.Add(-4 * time.Hour), base, true},
		{"fully after", base.Add(6 * time.Hour), base.Add(8 * time.Hour), false},
		{"fully before", base.Add(-3 * time.Hour), base.Add(-time.Hour), false},
		{"fully inside", base.Add(time.Hour), base.Add(2 * time.Hour), true},
		{"fully containing", base.Add(-time.Hour), base.Add(5 * time.Hour), true},
		{"boundary touch on end", base.Add(4 * time.Hour), base.Add(6 * time.Hour), true},
	}

	for _, tc := range cases {
		if got := existing.IsOverlapping(tc.start, tc.end); got != tc.overlap {
			t.Fatalf("%s: IsOverlapping = %v, want %v", tc.name, got, tc.overlap)
		}
	}
}

func TestAddAppointmentValidation(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	app := newTestApplication(t)
	start := now.Add(24 * time.Hour)

	if _, v := app.AddAppointment(Appointment{
		ID:               "appt-1",
		StartDateTimeUTC: start,
		EndDateTimeUTC:   start.Add(time.Hour),
		Description:      "on-site interview",
	}, "user-1", now); len(v) > 0 {
		t.Fatalf("add appointment: %v", v)
	}
	if app.Appointments[0].ApplicationStateID != "s-applied" {
		t.Fatalf("current state not stamped: %#v", app.Appointments[0])
	}

	// Too short.
	if _, v := app.AddAppointment(Appointment{
		ID:               "appt-2",
		StartDateTimeUTC: start.Add(48 * time.Hour),
		EndDateTimeUTC:   start.Add(48*time.Hour + 5*time.Minute),
	}, "user-1", now); len(v) == 0 {
		t.Fatal("expected duration violation")
	}

	// Too long.
	if _, v := app.AddAppointment(Appointment{
		ID:               "appt-3",
		StartDateTimeUTC: start.Add(72 * time.Hour),
		EndDateTimeUTC:   start.Add(72*time.Hour + 9*time.Hour),
	}, "user-1", now); len(v) == 0 {
		t.Fatal("expected duration violation")
	}

	// Double booking.
	if _, v := app.AddAppointment(Appointment{
		ID:               "appt-4",
		StartDateTimeUTC: start.Add(30 * time.Minute),
		EndDateTimeUTC:   start.Add(90 * time.Minute),
	}, "user-1", now); len(v) == 0 {
		t.Fatal("expected overlap violation")
	}
}

func TestNotificationFlagsWriteOnce(t *testing.T) {
	app := &Application{Appointments: []Appointment{{ID: "appt-1"}}}

	if !app.MarkEmailNotificationSent("appt-1") {
		t.Fatal("first mark should succeed")
	}
	if app.MarkEmailNotificationSent("appt-1") {
		t.Fatal("second mark should report no change")
	}
	if !app.MarkBrowserNotificationSent("appt-1") {
		t.Fatal("browser flag first mark should succeed")
	}
	if app.MarkBrowserNotificationSent("appt-1") {
		t.Fatal("browser flag is write-once")
	}
	if app.MarkEmailNotificationSent("missing") {
		t.Fatal("unknown appointment should report no change")
	}
}
