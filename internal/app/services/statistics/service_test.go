package statistics

import (
	"context"
	"testing"
	"time"

	"github.com/huntboard/huntboard/internal/app/domain/event"
	"github.com/huntboard/huntboard/internal/app/domain/user"
	"github.com/huntboard/huntboard/internal/app/storage/memory"
)

func seedUser(t *testing.T, store *memory.Store, email string) user.User {
	t.Helper()
	u, err := store.CreateUser(context.Background(), user.User{Email: email, DisplayName: "U", PasswordHash: []byte("x")})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func rejectionEvent(userID, stateID string, at time.Time) event.Entry {
	return event.New(event.ApplicationRejected, userID, at, "application", "app-1", map[string]string{
		event.PropRejectedStateID: stateID,
	})
}

func TestUpdateStatistics_GroupsRejectionsByState(t *testing.T) {
	store := memory.New()
	svc := New(store, store, store, store, nil)
	ctx := context.Background()

	u := seedUser(t, store, "jo@example.com")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	entries := []event.Entry{
		rejectionEvent(u.ID, "s-applied", base.Add(time.Minute)),
		rejectionEvent(u.ID, "s-applied", base.Add(2*time.Minute)),
		rejectionEvent(u.ID, "s-phone", base.Add(3*time.Minute)),
	}
	if err := store.AppendEvents(ctx, entries); err != nil {
		t.Fatalf("append events: %v", err)
	}

	touched, err := svc.UpdateStatistics(ctx, base.Add(10*time.Minute))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(touched) != 1 {
		t.Fatalf("touched = %d, want 1", len(touched))
	}
	counts := touched[0].ApplicationRejectionStateCounts
	if counts["s-applied"] != 2 || counts["s-phone"] != 1 {
		t.Fatalf("counts = %v", counts)
	}
}

func TestUpdateStatistics_DoesNotDoubleCount(t *testing.T) {
	store := memory.New()
	svc := New(store, store, store, store, nil)
	ctx := context.Background()

	u := seedUser(t, store, "jo@example.com")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := store.AppendEvents(ctx, []event.Entry{rejectionEvent(u.ID, "s-applied", base.Add(time.Minute))}); err != nil {
		t.Fatalf("append events: %v", err)
	}

	if _, err := svc.UpdateStatistics(ctx, base.Add(5*time.Minute)); err != nil {
		t.Fatalf("first run: %v", err)
	}
	// Second run over an empty window must not re-add the same event.
	touched, err := svc.UpdateStatistics(ctx, base.Add(10*time.Minute))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(touched) != 0 {
		t.Fatalf("second run touched %d users, want 0", len(touched))
	}

	st, err := svc.Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if st.ApplicationRejectionStateCounts["s-applied"] != 1 {
		t.Fatalf("count = %d, want 1", st.ApplicationRejectionStateCounts["s-applied"])
	}
}

func TestUpdateStatistics_ClockSkewGuard(t *testing.T) {
	store := memory.New()
	svc := New(store, store, store, store, nil)
	ctx := context.Background()

	u := seedUser(t, store, "jo@example.com")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if _, err := svc.UpdateStatistics(ctx, base); err != nil {
		t.Fatalf("first run: %v", err)
	}

	if err := store.AppendEvents(ctx, []event.Entry{rejectionEvent(u.ID, "s-applied", base.Add(-time.Hour))}); err != nil {
		t.Fatalf("append events: %v", err)
	}

	// A clock behind the watermark must not rewind the window.
	touched, err := svc.UpdateStatistics(ctx, base.Add(-30*time.Minute))
	if err != nil {
		t.Fatalf("skewed run: %v", err)
	}
	if touched != nil {
		t.Fatalf("skewed run touched users: %v", touched)
	}

	state, err := store.GetSystemState(ctx)
	if err != nil {
		t.Fatalf("system state: %v", err)
	}
	if !state.LastStatisticsRunUTC.Equal(base) {
		t.Fatalf("watermark moved to %v, want %v", state.LastStatisticsRunUTC, base)
	}
}

func TestUpdateStatistics_AdvancesWatermarkOnEmptyWindow(t *testing.T) {
	store := memory.New()
	svc := New(store, store, store, store, nil)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if _, err := svc.UpdateStatistics(ctx, base); err != nil {
		t.Fatalf("run: %v", err)
	}

	state, err := store.GetSystemState(ctx)
	if err != nil {
		t.Fatalf("system state: %v", err)
	}
	if !state.LastStatisticsRunUTC.Equal(base) {
		t.Fatalf("watermark = %v, want %v", state.LastStatisticsRunUTC, base)
	}
}

func TestUpdateStatistics_IgnoresOtherUsersEvents(t *testing.T) {
	store := memory.New()
	svc := New(store, store, store, store, nil)
	ctx := context.Background()

	alice := seedUser(t, store, "alice@example.com")
	bob := seedUser(t, store, "bob@example.com")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := store.AppendEvents(ctx, []event.Entry{rejectionEvent(alice.ID, "s-applied", base.Add(time.Minute))}); err != nil {
		t.Fatalf("append events: %v", err)
	}
	if _, err := svc.UpdateStatistics(ctx, base.Add(5*time.Minute)); err != nil {
		t.Fatalf("run: %v", err)
	}

	bobStats, err := svc.Get(ctx, bob.ID)
	if err != nil {
		t.Fatalf("get bob: %v", err)
	}
	if len(bobStats.ApplicationRejectionStateCounts) != 0 {
		t.Fatalf("bob's counts = %v, want empty", bobStats.ApplicationRejectionStateCounts)
	}
}

func TestNewRunner_RejectsBadSchedule(t *testing.T) {
	store := memory.New()
	svc := New(store, store, store, store, nil)

	if _, err := NewRunner(svc, "not a schedule", nil); err == nil {
		t.Fatalf("expected schedule parse error")
	}
	if _, err := NewRunner(svc, "@every 1h", nil); err != nil {
		t.Fatalf("valid schedule rejected: %v", err)
	}
}
