package application

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/huntboard/huntboard/internal/app/domain/appstate"
	"github.com/huntboard/huntboard/internal/app/domain/event"
)

func testCatalog() []appstate.ApplicationState {
	return []appstate.ApplicationState{
		{ID: "s-applied", Name: "Applied", HexColor: "#1f77b4", SeqNo: 1},
		{ID: "s-phone", Name: "Phone Screen", HexColor: "#ff7f0e", SeqNo: 2},
		{ID: "s-offer", Name: "Offer", HexColor: "#d62728", SeqNo: 3},
	}
}

func newTestApplication(t *testing.T) *Application {
	t.Helper()
	app, err := Initialize("user-1", testCatalog())
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	app.ID = "app-1"
	return app
}

func hasKind(violations []Violation, kind ViolationKind) bool {
	for _, v := range violations {
		if v.Kind == kind {
			return true
		}
	}
	return false
}

func TestInitializeRequiresTwoActiveStates(t *testing.T) {
	cases := map[string][]appstate.ApplicationState{
		"empty catalog": nil,
		"single state":  {{ID: "a", Name: "Applied", SeqNo: 1}},
		"one active one deactivated": {
			{ID: "a", Name: "Applied", SeqNo: 1},
			{ID: "b", Name: "Offer", SeqNo: 2, DeactivatedUTC: time.Now().UTC()},
		},
	}
	for name, catalog := range cases {
		if _, err := Initialize("user-1", catalog); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("%s: expected ErrInvalidArgument, got %v", name, err)
		}
	}
}

func TestInitializeSnapshotsCatalog(t *testing.T) {
	catalog := testCatalog()
	// Deactivated entries are excluded from the snapshot.
	catalog = append(catalog, appstate.ApplicationState{
		ID: "s-gone", Name: "Retired", SeqNo: 0, DeactivatedUTC: time.Now().UTC(),
	})

	app, err := Initialize("user-1", catalog)
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if len(app.States) != 3 {
		t.Fatalf("expected 3 snapshot states, got %d", len(app.States))
	}

	currents := 0
	for _, s := range app.States {
		if s.IsCurrent {
			currents++
		}
	}
	if currents != 1 {
		t.Fatalf("expected exactly one current state, got %d", currents)
	}
	if !app.States[0].IsCurrent || app.States[0].Name != "Applied" {
		t.Fatalf("lowest SeqNo state should be current: %#v", app.States[0])
	}

	// Renaming the catalog afterwards must not touch the snapshot.
	catalog[0].Name = "Renamed"
	if app.States[0].Name != "Applied" {
		t.Fatal("snapshot shares memory with the catalog")
	}
}

func TestChangeState(t *testing.T) {
	app := newTestApplication(t)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	events, violations := app.ChangeState("s-phone", "user-1", now)
	if len(violations) > 0 {
		t.Fatalf("unexpected violations: %v", violations)
	}
	if app.CurrentStateName() != "Phone Screen" {
		t.Fatalf("current state not moved: %s", app.CurrentStateName())
	}
	if len(events) != 1 || events[0].Name != event.ApplicationStateMoved {
		t.Fatalf("unexpected events: %#v", events)
	}
	if events[0].KeyProps[event.PropPreviousState] != "Applied" {
		t.Fatalf("previous state not recorded: %#v", events[0].KeyProps)
	}

	if _, violations = app.ChangeState("nope", "user-1", now); !hasKind(violations, KindUnknownState) {
		t.Fatalf("expected unknown state violation, got %v", violations)
	}
}

func TestRejectAcceptMutuallyExclusive(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	app := newTestApplication(t)
	if _, violations := app.Reject(Rejection{Method: "email"}, "user-1", now); len(violations) > 0 {
		t.Fatalf("reject: %v", violations)
	}
	if _, violations := app.Accept(Acceptance{}, nil, "user-1", now); !hasKind(violations, KindAlreadyTerminal) {
		t.Fatalf("accept after reject should fail, got %v", violations)
	}
	if _, violations := app.Reject(Rejection{}, "user-1", now); !hasKind(violations, KindAlreadyTerminal) {
		t.Fatalf("double reject should fail, got %v", violations)
	}

	app = newTestApplication(t)
	if _, violations := app.Accept(Acceptance{Method: "phone"}, nil, "user-1", now); len(violations) > 0 {
		t.Fatalf("accept: %v", violations)
	}
	if _, violations := app.Reject(Rejection{}, "user-1", now); !hasKind(violations, KindAlreadyTerminal) {
		t.Fatalf("reject after accept should fail, got %v", violations)
	}
	if app.Rejection != nil {
		t.Fatal("failed reject still mutated the aggregate")
	}
}

func TestRejectRecordsCurrentState(t *testing.T) {
	app := newTestApplication(t)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	if _, v := app.ChangeState("s-offer", "user-1", now); len(v) > 0 {
		t.Fatalf("change state: %v", v)
	}

	events, violations := app.Reject(Rejection{Reason: "position filled"}, "user-1", now)
	if len(violations) > 0 {
		t.Fatalf("reject: %v", violations)
	}
	if events[0].KeyProps[event.PropRejectedStateID] != "s-offer" {
		t.Fatalf("rejected state id missing: %#v", events[0].KeyProps)
	}
	if events[0].KeyProps[event.PropRejectedState] != "Offer" {
		t.Fatalf("rejected state name missing: %#v", events[0].KeyProps)
	}
	if app.Rejection.RejectedUTC.IsZero() {
		t.Fatal("rejection timestamp not stamped")
	}
}

func TestAcceptCascadeArchivesOpenSiblings(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	app := newTestApplication(t)

	open := newTestApplication(t)
	open.ID = "app-open"

	rejected := newTestApplication(t)
	rejected.ID = "app-rejected"
	if _, v := rejected.Reject(Rejection{}, "user-1", now.Add(-time.Hour)); len(v) > 0 {
		t.Fatalf("setup reject: %v", v)
	}

	archived := newTestApplication(t)
	archived.ID = "app-archived"
	archivedAt := now.Add(-2 * time.Hour)
	if _, v := archived.Archive("user-1", archivedAt); len(v) > 0 {
		t.Fatalf("setup archive: %v", v)
	}

	otherUser := newTestApplication(t)
	otherUser.ID = "app-other"
	otherUser.UserID = "user-2"

	siblings := []*Application{open, rejected, archived, otherUser}
	events, violations := app.Accept(Acceptance{ArchiveOpenApplications: true}, siblings, "user-1", now)
	if len(violations) > 0 {
		t.Fatalf("accept: %v", violations)
	}

	if !open.IsArchived() {
		t.Fatal("open sibling was not archived")
	}
	if rejected.IsArchived() {
		t.Fatal("rejected sibling should be untouched")
	}
	if !archived.ArchivedUTC.Equal(archivedAt.UTC()) {
		t.Fatal("already-archived sibling timestamp changed")
	}
	if otherUser.IsArchived() {
		t.Fatal("another user's application was archived")
	}

	// One accepted event plus one archive event for the single open sibling.
	if len(events) != 2 || events[0].Name != event.ApplicationAccepted || events[1].Name != event.ApplicationArchived {
		t.Fatalf("unexpected events: %#v", events)
	}
	if events[1].EntityID != "app-open" {
		t.Fatalf("archive event for wrong entity: %s", events[1].EntityID)
	}
}

func TestAcceptWithoutCascadeLeavesSiblings(t *testing.T) {
	now := time.Now().UTC()
	app := newTestApplication(t)
	open := newTestApplication(t)
	open.ID = "app-open"

	if _, v := app.Accept(Acceptance{}, []*Application{open}, "user-1", now); len(v) > 0 {
		t.Fatalf("accept: %v", v)
	}
	if open.IsArchived() {
		t.Fatal("sibling archived without the cascade flag")
	}
}

func TestArchiveUnarchive(t *testing.T) {
	now := time.Now().UTC()
	app := newTestApplication(t)

	if _, v := app.Unarchive("user-1", now); len(v) == 0 {
		t.Fatal("unarchive of non-archived application should fail")
	}
	if _, v := app.Archive("user-1", now); len(v) > 0 {
		t.Fatalf("archive: %v", v)
	}
	if _, v := app.Archive("user-1", now); len(v) == 0 {
		t.Fatal("double archive should fail")
	}
	if _, v := app.ChangeState("s-phone", "user-1", now); !hasKind(v, KindInvalidState) {
		t.Fatalf("state change on archived application should fail, got %v", v)
	}
	if _, v := app.Unarchive("user-1", now); len(v) > 0 {
		t.Fatalf("unarchive: %v", v)
	}
	if app.IsArchived() {
		t.Fatal("unarchive did not clear the timestamp")
	}
}

func TestDeactivateReactivate(t *testing.T) {
	now := time.Now().UTC()
	app := newTestApplication(t)

	if _, v := app.Deactivate("user-1", now); len(v) > 0 {
		t.Fatalf("deactivate: %v", v)
	}
	if _, v := app.Deactivate("user-1", now); len(v) == 0 {
		t.Fatal("double deactivate should fail")
	}
	if _, v := app.Archive("user-1", now); len(v) == 0 {
		t.Fatal("archive of deactivated application should fail")
	}
	if _, v := app.Reject(Rejection{}, "user-1", now); len(v) == 0 {
		t.Fatal("reject of deactivated application should fail")
	}
	if _, v := app.Reactivate("user-1", now); len(v) > 0 {
		t.Fatalf("reactivate: %v", v)
	}
	if app.IsDeactivated() {
		t.Fatal("reactivate did not clear the timestamp")
	}
}

func TestAggregateJSONRoundTrip(t *testing.T) {
	app := newTestApplication(t)
	now := time.Now().UTC()
	if _, v := app.ChangeState("s-phone", "user-1", now); len(v) > 0 {
		t.Fatalf("change state: %v", v)
	}

	raw, err := json.Marshal(app)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var restored Application
	if err := json.Unmarshal(raw, &restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(restored.States) != len(app.States) {
		t.Fatalf("state count changed: %d != %d", len(restored.States), len(app.States))
	}
	currents := 0
	for i, s := range restored.States {
		if s.Name != app.States[i].Name || s.SeqNo != app.States[i].SeqNo {
			t.Fatalf("state order not preserved at %d: %#v", i, s)
		}
		if s.IsCurrent {
			currents++
		}
	}
	if currents != 1 || restored.CurrentStateName() != "Phone Screen" {
		t.Fatalf("current flag not preserved: %d currents, %q", currents, restored.CurrentStateName())
	}
}
