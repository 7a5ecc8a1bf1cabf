package session

import (
	"testing"
	"time"

	"github.com/claude/irontrack/internal/models"
)

func openTestDraftDB(t *testing.T) *DraftDB {
	t.Helper()
	db, err := OpenDraftDB(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDraftDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestDraftRoundTrip verifies that a saved draft comes back with the same
// day id and logs.
func TestDraftRoundTrip(t *testing.T) {
	db := openTestDraftDB(t)

	logs := map[string][]models.SetLog{
		"e1": {{SetNumber: 1, Weight: 80, Reps: 10, Completed: true}},
	}
	if err := db.SaveDraft(logs, "day1"); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}

	draft, err := db.LoadDraft()
	if err != nil {
		t.Fatalf("LoadDraft: %v", err)
	}
	if draft == nil {
		t.Fatal("draft is nil")
	}
	if draft.DayID != "day1" {
		t.Errorf("dayID = %q, want day1", draft.DayID)
	}
	rows := draft.Logs["e1"]
	if len(rows) != 1 || rows[0].Weight != 80 || !rows[0].Completed {
		t.Errorf("logs round trip mismatch: %+v", rows)
	}
}

// TestDraftSingleSlot verifies that saving overwrites the previous draft:
// there is only ever one recoverable session.
func TestDraftSingleSlot(t *testing.T) {
	db := openTestDraftDB(t)

	if err := db.SaveDraft(map[string][]models.SetLog{"a": {}}, "day1"); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if err := db.SaveDraft(map[string][]models.SetLog{"b": {}}, "day2"); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}

	draft, err := db.LoadDraft()
	if err != nil {
		t.Fatalf("LoadDraft: %v", err)
	}
	if draft.DayID != "day2" {
		t.Errorf("dayID = %q, want day2", draft.DayID)
	}
}

// TestDraftExpiry verifies that a draft older than the TTL is treated as
// absent and deleted on load.
func TestDraftExpiry(t *testing.T) {
	db := openTestDraftDB(t)

	now := time.Now()
	db.now = func() time.Time { return now }
	if err := db.SaveDraft(map[string][]models.SetLog{"e1": {}}, "day1"); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}

	db.now = func() time.Time { return now.Add(DraftTTL + time.Minute) }
	draft, err := db.LoadDraft()
	if err != nil {
		t.Fatalf("LoadDraft: %v", err)
	}
	if draft != nil {
		t.Fatal("stale draft should be nil")
	}

	// The stale row is gone even at the original time.
	db.now = func() time.Time { return now }
	if draft, _ := db.LoadDraft(); draft != nil {
		t.Fatal("stale draft should have been deleted")
	}
}

// TestDraftJustUnderTTL verifies a draft right at the edge of the window
// still loads.
func TestDraftJustUnderTTL(t *testing.T) {
	db := openTestDraftDB(t)

	now := time.Now()
	db.now = func() time.Time { return now }
	if err := db.SaveDraft(map[string][]models.SetLog{"e1": {}}, "day1"); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}

	db.now = func() time.Time { return now.Add(DraftTTL - time.Minute) }
	draft, err := db.LoadDraft()
	if err != nil {
		t.Fatalf("LoadDraft: %v", err)
	}
	if draft == nil {
		t.Fatal("draft under TTL should load")
	}
}

// TestClearDraftRemovesMarker verifies ClearDraft removes both the draft
// and the session start marker.
func TestClearDraftRemovesMarker(t *testing.T) {
	db := openTestDraftDB(t)

	if err := db.SaveDraft(map[string][]models.SetLog{"e1": {}}, "day1"); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if err := db.SaveStartTime(time.Now()); err != nil {
		t.Fatalf("SaveStartTime: %v", err)
	}

	if err := db.ClearDraft(); err != nil {
		t.Fatalf("ClearDraft: %v", err)
	}

	if draft, _ := db.LoadDraft(); draft != nil {
		t.Error("draft survived clear")
	}
	if _, ok, _ := db.LoadStartTime(); ok {
		t.Error("start marker survived clear")
	}
}

// TestStartTimeRoundTrip verifies the persisted session start keeps
// millisecond precision.
func TestStartTimeRoundTrip(t *testing.T) {
	db := openTestDraftDB(t)

	want := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
	if err := db.SaveStartTime(want); err != nil {
		t.Fatalf("SaveStartTime: %v", err)
	}

	got, ok, err := db.LoadStartTime()
	if err != nil {
		t.Fatalf("LoadStartTime: %v", err)
	}
	if !ok {
		t.Fatal("start marker missing")
	}
	if got.UnixMilli() != want.UnixMilli() {
		t.Errorf("start = %v, want %v", got, want)
	}
}

// TestLoadStartTimeAbsent verifies the missing-marker case reports ok=false
// without an error.
func TestLoadStartTimeAbsent(t *testing.T) {
	db := openTestDraftDB(t)

	_, ok, err := db.LoadStartTime()
	if err != nil {
		t.Fatalf("LoadStartTime: %v", err)
	}
	if ok {
		t.Error("expected ok=false for missing marker")
	}
}
