package session

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/claude/irontrack/internal/models"
)

// DraftTTL bounds how long an interrupted session remains recoverable.
const DraftTTL = 24 * time.Hour

// Draft is the persisted snapshot of an in-progress session's set logs.
type Draft struct {
	DayID     string                     `json:"dayId"`
	Logs      map[string][]models.SetLog `json:"logs"`
	Timestamp int64                      `json:"timestamp"` // unix ms
}

// DraftStore persists the single global in-progress-session slot. Only one
// draft exists process-wide; saving overwrites whatever was there.
type DraftStore interface {
	SaveDraft(logs map[string][]models.SetLog, dayID string) error
	// LoadDraft returns nil when no draft exists or the stored one has
	// outlived DraftTTL (stale drafts are deleted, not surfaced).
	LoadDraft() (*Draft, error)
	// ClearDraft removes the draft and the session start marker.
	ClearDraft() error
	SaveStartTime(t time.Time) error
	LoadStartTime() (time.Time, bool, error)
}

// DraftDB is the SQLite-backed DraftStore. It lives in its own database
// file, independent of the main backing-store choice, so crash recovery
// works even when the remote store is unreachable.
type DraftDB struct {
	db  *sql.DB
	now func() time.Time
}

// OpenDraftDB opens (or creates) the draft database at dir/session.db.
func OpenDraftDB(dir string) (*DraftDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating draft dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "session.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening draft db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS session_draft (
		slot     INTEGER PRIMARY KEY CHECK (slot = 1),
		day_id   TEXT NOT NULL,
		logs     TEXT NOT NULL,
		saved_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS session_marker (
		slot       INTEGER PRIMARY KEY CHECK (slot = 1),
		start_time INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating draft tables: %w", err)
	}

	return &DraftDB{db: db, now: time.Now}, nil
}

// Close closes the draft database.
func (d *DraftDB) Close() error {
	return d.db.Close()
}

// SaveDraft overwrites the draft slot with the given logs and a fresh
// timestamp.
func (d *DraftDB) SaveDraft(logs map[string][]models.SetLog, dayID string) error {
	data, err := json.Marshal(logs)
	if err != nil {
		return fmt.Errorf("encoding draft logs: %w", err)
	}
	_, err = d.db.Exec(
		`INSERT OR REPLACE INTO session_draft (slot, day_id, logs, saved_at) VALUES (1, ?, ?, ?)`,
		dayID, string(data), d.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}
	return nil
}

// LoadDraft returns the stored draft, or nil if absent or stale. Stale
// rows are deleted on the way out.
func (d *DraftDB) LoadDraft() (*Draft, error) {
	var (
		dayID   string
		data    string
		savedAt int64
	)
	err := d.db.QueryRow(`SELECT day_id, logs, saved_at FROM session_draft WHERE slot = 1`).
		Scan(&dayID, &data, &savedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading draft: %w", err)
	}

	if d.now().UnixMilli()-savedAt > DraftTTL.Milliseconds() {
		if _, err := d.db.Exec(`DELETE FROM session_draft WHERE slot = 1`); err != nil {
			return nil, fmt.Errorf("deleting stale draft: %w", err)
		}
		return nil, nil
	}

	draft := &Draft{DayID: dayID, Timestamp: savedAt}
	if err := json.Unmarshal([]byte(data), &draft.Logs); err != nil {
		return nil, fmt.Errorf("decoding draft logs: %w", err)
	}
	return draft, nil
}

// ClearDraft removes the draft and the start-time marker.
func (d *DraftDB) ClearDraft() error {
	if _, err := d.db.Exec(`DELETE FROM session_draft WHERE slot = 1`); err != nil {
		return fmt.Errorf("clearing draft: %w", err)
	}
	if _, err := d.db.Exec(`DELETE FROM session_marker WHERE slot = 1`); err != nil {
		return fmt.Errorf("clearing start marker: %w", err)
	}
	return nil
}

// SaveStartTime persists the session start so duration survives restarts.
func (d *DraftDB) SaveStartTime(t time.Time) error {
	_, err := d.db.Exec(
		`INSERT OR REPLACE INTO session_marker (slot, start_time) VALUES (1, ?)`, t.UnixMilli())
	if err != nil {
		return fmt.Errorf("saving start marker: %w", err)
	}
	return nil
}

// LoadStartTime returns the persisted session start, if any.
func (d *DraftDB) LoadStartTime() (time.Time, bool, error) {
	var ms int64
	err := d.db.QueryRow(`SELECT start_time FROM session_marker WHERE slot = 1`).Scan(&ms)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("loading start marker: %w", err)
	}
	return time.UnixMilli(ms), true, nil
}
