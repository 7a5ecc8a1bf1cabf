package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/claude/irontrack/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS app_state (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS routines (
	id       TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	data     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS exercises (
	id       TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	data     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS body_stats (
	id   TEXT PRIMARY KEY,
	date INTEGER NOT NULL,
	data TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS workout_logs (
	id   TEXT PRIMARY KEY,
	date INTEGER NOT NULL,
	data TEXT NOT NULL
);
`

const activeRoutineKey = "active_routine_id"

// SQLiteStore is the local backing store. Rows hold whole JSON documents
// keyed by id; SaveRoutines/SaveExercises/SaveBodyStats replace the full
// set in one transaction, matching the Store contract.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the store database at dir/irontrack.db.
func OpenSQLite(dir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "irontrack.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating store tables: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the store database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetActiveRoutineID returns the active routine pointer, or "" if unset.
func (s *SQLiteStore) GetActiveRoutineID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM app_state WHERE key = ?`, activeRoutineKey).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying active routine: %w", err)
	}
	return id, nil
}

// SetActiveRoutineID records which routine is active.
func (s *SQLiteStore) SetActiveRoutineID(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO app_state (key, value) VALUES (?, ?)`, activeRoutineKey, id)
	if err != nil {
		return fmt.Errorf("saving active routine: %w", err)
	}
	return nil
}

// GetRoutines returns all routines in saved order.
func (s *SQLiteStore) GetRoutines(ctx context.Context) ([]models.Routine, error) {
	var out []models.Routine
	err := s.queryDocs(ctx, `SELECT data FROM routines ORDER BY position`, func(data []byte) error {
		var r models.Routine
		if err := json.Unmarshal(data, &r); err != nil {
			return err
		}
		out = append(out, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("querying routines: %w", err)
	}
	return out, nil
}

// SaveRoutines replaces the full routine set.
func (s *SQLiteStore) SaveRoutines(ctx context.Context, routines []models.Routine) error {
	return s.replaceAll(ctx, "routines", len(routines), func(i int) (string, any) {
		return routines[i].ID, routines[i]
	})
}

// GetExercises returns the exercise catalog in saved order.
func (s *SQLiteStore) GetExercises(ctx context.Context) ([]models.ExerciseBase, error) {
	var out []models.ExerciseBase
	err := s.queryDocs(ctx, `SELECT data FROM exercises ORDER BY position`, func(data []byte) error {
		var e models.ExerciseBase
		if err := json.Unmarshal(data, &e); err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	return out, nil
}

// SaveExercises replaces the full exercise catalog.
func (s *SQLiteStore) SaveExercises(ctx context.Context, exercises []models.ExerciseBase) error {
	return s.replaceAll(ctx, "exercises", len(exercises), func(i int) (string, any) {
		return exercises[i].ID, exercises[i]
	})
}

// GetBodyStats returns all body measurements ordered by date.
func (s *SQLiteStore) GetBodyStats(ctx context.Context) ([]models.BodyStat, error) {
	var out []models.BodyStat
	err := s.queryDocs(ctx, `SELECT data FROM body_stats ORDER BY date`, func(data []byte) error {
		var b models.BodyStat
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		out = append(out, b)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("querying body stats: %w", err)
	}
	return out, nil
}

// SaveBodyStats replaces the full body-stat set.
func (s *SQLiteStore) SaveBodyStats(ctx context.Context, stats []models.BodyStat) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM body_stats`); err != nil {
		return fmt.Errorf("clearing body stats: %w", err)
	}
	for _, b := range stats {
		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("encoding body stat %s: %w", b.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO body_stats (id, date, data) VALUES (?, ?, ?)`, b.ID, b.Date, string(data)); err != nil {
			return fmt.Errorf("inserting body stat %s: %w", b.ID, err)
		}
	}
	return tx.Commit()
}

// GetWorkoutLogs returns the full historical record set, newest first.
func (s *SQLiteStore) GetWorkoutLogs(ctx context.Context) ([]models.WorkoutSessionLog, error) {
	var out []models.WorkoutSessionLog
	err := s.queryDocs(ctx, `SELECT data FROM workout_logs ORDER BY date DESC`, func(data []byte) error {
		var l models.WorkoutSessionLog
		if err := json.Unmarshal(data, &l); err != nil {
			return err
		}
		out = append(out, l)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("querying workout logs: %w", err)
	}
	return out, nil
}

// SaveWorkoutLog upserts one historical record by id.
func (s *SQLiteStore) SaveWorkoutLog(ctx context.Context, log models.WorkoutSessionLog) error {
	data, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("encoding workout log %s: %w", log.ID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO workout_logs (id, date, data) VALUES (?, ?, ?)`,
		log.ID, log.Date, string(data))
	if err != nil {
		return fmt.Errorf("saving workout log %s: %w", log.ID, err)
	}
	return nil
}

// DeleteWorkoutLog removes one historical record.
func (s *SQLiteStore) DeleteWorkoutLog(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM workout_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting workout log %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) queryDocs(ctx context.Context, query string, scan func([]byte) error) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return err
		}
		if err := scan(data); err != nil {
			return err
		}
	}
	return rows.Err()
}

// replaceAll rewrites a positional document table inside one transaction.
func (s *SQLiteStore) replaceAll(ctx context.Context, table string, n int, row func(i int) (id string, doc any)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
		return fmt.Errorf("clearing %s: %w", table, err)
	}
	for i := 0; i < n; i++ {
		id, doc := row(i)
		data, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("encoding %s row %s: %w", table, id, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO `+table+` (id, position, data) VALUES (?, ?, ?)`, id, i, string(data)); err != nil {
			return fmt.Errorf("inserting %s row %s: %w", table, id, err)
		}
	}
	return tx.Commit()
}
