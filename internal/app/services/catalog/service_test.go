package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/huntboard/huntboard/internal/app/domain/application"
	"github.com/huntboard/huntboard/internal/app/storage/memory"
)

func TestService_SeedIsIdempotent(t *testing.T) {
	store := memory.New()
	svc := New(store, nil)
	ctx := context.Background()

	if err := svc.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	first, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(first) == 0 {
		t.Fatalf("seed created no states")
	}

	if err := svc.Seed(ctx); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	second, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(second) != len(first) {
		t.Fatalf("second seed changed catalog size: %d -> %d", len(first), len(second))
	}
}

func TestService_CreateValidation(t *testing.T) {
	store := memory.New()
	svc := New(store, nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "", "#ffffff", 1); err == nil {
		t.Fatalf("expected missing name error")
	}
	if _, err := svc.Create(ctx, "Applied", "blue", 1); err == nil {
		t.Fatalf("expected bad color error")
	}
	if _, err := svc.Create(ctx, "Applied", "#ffffff", 0); err == nil {
		t.Fatalf("expected bad seq_no error")
	}

	if _, err := svc.Create(ctx, "Applied", "#ffffff", 1); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, "applied", "#000000", 2); err == nil {
		t.Fatalf("expected duplicate name error")
	}
}

func TestService_DeactivateBelowTwoActive(t *testing.T) {
	store := memory.New()
	svc := New(store, nil)
	ctx := context.Background()

	if err := svc.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	states, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	// The catalog itself may shrink below two active states; the floor is
	// checked when an application snapshots the catalog.
	now := time.Now().UTC()
	for i := 0; i < len(states)-1; i++ {
		if _, err := svc.Deactivate(ctx, states[i].ID, now); err != nil {
			t.Fatalf("deactivate %d: %v", i, err)
		}
	}

	active, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("active states = %d, want 1", len(active))
	}

	if _, err := application.Initialize("u-1", active); err == nil {
		t.Fatal("expected application creation to fail with one active state")
	}
}

func TestService_UpdateDoesNotTouchSnapshots(t *testing.T) {
	store := memory.New()
	svc := New(store, nil)
	ctx := context.Background()

	st, err := svc.Create(ctx, "Applied", "#ffffff", 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newName := "Submitted"
	updated, err := svc.Update(ctx, st.ID, &newName, nil, nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Submitted" {
		t.Fatalf("name = %q, want Submitted", updated.Name)
	}
	if updated.HexColor != st.HexColor || updated.SeqNo != st.SeqNo {
		t.Fatalf("untouched fields changed: %#v", updated)
	}
}

func TestService_ReactivateRestoresState(t *testing.T) {
	store := memory.New()
	svc := New(store, nil)
	ctx := context.Background()

	if err := svc.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	all, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	target := all[len(all)-1]
	if _, err := svc.Deactivate(ctx, target.ID, time.Now().UTC()); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	st, err := svc.Reactivate(ctx, target.ID)
	if err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if !st.Active() {
		t.Fatal("state still inactive after reactivate")
	}

	// Reactivating an already-active state is a no-op.
	again, err := svc.Reactivate(ctx, target.ID)
	if err != nil {
		t.Fatalf("reactivate again: %v", err)
	}
	if !again.Active() {
		t.Fatal("state flipped inactive on repeat reactivate")
	}
}
