package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/huntboard/huntboard/internal/app/domain/application"
	"github.com/huntboard/huntboard/internal/app/domain/appstate"
	"github.com/huntboard/huntboard/internal/app/domain/event"
	"github.com/huntboard/huntboard/internal/app/domain/user"
	"github.com/huntboard/huntboard/internal/app/storage"
	"github.com/huntboard/huntboard/internal/platform/migrations"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping postgres integration test")
	}

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Apply(context.Background(), db.DB); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func TestStoreIntegration(t *testing.T) {
	db := openTestDB(t)
	store := New(db)
	ctx := context.Background()

	u, err := store.CreateUser(ctx, user.User{Email: "it@example.com", DisplayName: "IT", PasswordHash: []byte("hash")})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	st, err := store.CreateState(ctx, appstate.ApplicationState{Name: "Applied", HexColor: "#1E90FF", SeqNo: 1})
	if err != nil {
		t.Fatalf("create state: %v", err)
	}
	if _, err := store.CreateState(ctx, appstate.ApplicationState{Name: "Interview", HexColor: "#DAA520", SeqNo: 2}); err != nil {
		t.Fatalf("create state: %v", err)
	}

	catalog, err := store.ListStates(ctx)
	if err != nil {
		t.Fatalf("list states: %v", err)
	}

	app, err := application.Initialize(u.ID, catalog)
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	app.CompanyName = "Initech"
	app.Role = "Engineer"

	created, err := store.CreateApplication(ctx, app)
	if err != nil {
		t.Fatalf("create application: %v", err)
	}
	if created.Revision != 1 {
		t.Fatalf("revision = %d, want 1", created.Revision)
	}
	if created.CurrentState().ID != st.ID {
		t.Fatalf("current state not preserved")
	}

	created.Notes = "call back"
	updated, err := store.UpdateApplication(ctx, created)
	if err != nil {
		t.Fatalf("update application: %v", err)
	}
	if updated.Revision != 2 {
		t.Fatalf("revision = %d, want 2", updated.Revision)
	}

	// Stale revision must be rejected.
	if _, err := store.UpdateApplication(ctx, created); !errors.Is(err, storage.ErrStaleAggregate) {
		t.Fatalf("stale update err = %v, want ErrStaleAggregate", err)
	}

	open, err := store.ListOpenApplications(ctx, u.ID)
	if err != nil {
		t.Fatalf("list open: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("open applications = %d, want 1", len(open))
	}
}

func TestEventWindowIntegration(t *testing.T) {
	db := openTestDB(t)
	store := New(db)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	entries := []event.Entry{
		{Name: event.ApplicationRejected, CreatedBy: "u1", CreatedUTC: base, EntityName: "application", EntityID: "a1"},
		{Name: event.ApplicationRejected, CreatedBy: "u1", CreatedUTC: base.Add(time.Minute), EntityName: "application", EntityID: "a2"},
		{Name: event.ApplicationCreated, CreatedBy: "u1", CreatedUTC: base.Add(time.Minute), EntityName: "application", EntityID: "a3"},
	}
	if err := store.AppendEvents(ctx, entries); err != nil {
		t.Fatalf("append events: %v", err)
	}

	// Window is (from, to]: the entry at base is excluded, the one at +1m included.
	got, err := store.ListEventsBetween(ctx, []string{event.ApplicationRejected}, base, base.Add(time.Minute))
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("events in window = %d, want 1", len(got))
	}
	if got[0].EntityID != "a2" {
		t.Fatalf("entity = %s, want a2", got[0].EntityID)
	}
}
