package event

import (
	"testing"
	"time"
)

func TestNewCopiesProps(t *testing.T) {
	props := map[string]string{"k": "v"}
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e := New(ApplicationRejected, "user-1", at, "application", "app-1", props)

	props["k"] = "mutated"
	if e.KeyProps["k"] != "v" {
		t.Fatal("entry shares the caller's map")
	}
	if !e.CreatedUTC.Equal(at) {
		t.Fatalf("timestamp mismatch: %v", e.CreatedUTC)
	}
}

func TestSinkDrainAndClear(t *testing.T) {
	s := NewSink()
	now := time.Now().UTC()
	s.Append(New(ApplicationCreated, "u", now, "application", "1", nil))
	s.Append(New(ApplicationArchived, "u", now, "application", "1", nil))

	if s.Len() != 2 {
		t.Fatalf("expected 2 buffered entries, got %d", s.Len())
	}

	drained := s.Drain()
	if len(drained) != 2 || drained[0].Name != ApplicationCreated || drained[1].Name != ApplicationArchived {
		t.Fatalf("drain order wrong: %#v", drained)
	}
	if s.Len() != 0 {
		t.Fatal("drain did not empty the sink")
	}

	s.Append(New(ApplicationUpdated, "u", now, "application", "1", nil))
	s.Clear()
	if s.Len() != 0 {
		t.Fatal("clear did not empty the sink")
	}
}
