package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/claude/irontrack/internal/models"
)

// PostgresStore is the remote backing store, backed by a pgxpool.Pool.
// Documents live in jsonb columns with the same shape the SQLite store
// uses, so the two backends stay interchangeable.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

// OpenPostgres creates a PostgresStore with a connection pool.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &PostgresStore{Pool: pool}, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.Pool.Close()
	return nil
}

// RunMigrations applies all pending migrations from the given directory.
func RunMigrations(dsn, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// GetActiveRoutineID returns the active routine pointer, or "" if unset.
func (s *PostgresStore) GetActiveRoutineID(ctx context.Context) (string, error) {
	var id string
	err := s.Pool.QueryRow(ctx,
		`SELECT value FROM app_state WHERE key = $1`, activeRoutineKey).Scan(&id)
	if err == pgx.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying active routine: %w", err)
	}
	return id, nil
}

// SetActiveRoutineID records which routine is active.
func (s *PostgresStore) SetActiveRoutineID(ctx context.Context, id string) error {
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO app_state (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		activeRoutineKey, id)
	if err != nil {
		return fmt.Errorf("saving active routine: %w", err)
	}
	return nil
}

// GetRoutines returns all routines in saved order.
func (s *PostgresStore) GetRoutines(ctx context.Context) ([]models.Routine, error) {
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
func (s *PostgresStore) SaveRoutines(ctx context.Context, routines []models.Routine) error {
	return s.replaceAll(ctx, "routines", len(routines), func(i int) (string, any) {
		return routines[i].ID, routines[i]
	})
}

// GetExercises returns the exercise catalog in saved order.
func (s *PostgresStore) GetExercises(ctx context.Context) ([]models.ExerciseBase, error) {
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
func (s *PostgresStore) SaveExercises(ctx context.Context, exercises []models.ExerciseBase) error {
	return s.replaceAll(ctx, "exercises", len(exercises), func(i int) (string, any) {
		return exercises[i].ID, exercises[i]
	})
}

// GetBodyStats returns all body measurements ordered by date.
func (s *PostgresStore) GetBodyStats(ctx context.Context) ([]models.BodyStat, error) {
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
func (s *PostgresStore) SaveBodyStats(ctx context.Context, stats []models.BodyStat) error {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM body_stats`); err != nil {
		return fmt.Errorf("clearing body stats: %w", err)
	}
	for _, b := range stats {
		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("encoding body stat %s: %w", b.ID, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO body_stats (id, date, data) VALUES ($1, $2, $3)`, b.ID, b.Date, data); err != nil {
			return fmt.Errorf("inserting body stat %s: %w", b.ID, err)
		}
	}
	return tx.Commit(ctx)
}

// GetWorkoutLogs returns the full historical record set, newest first.
func (s *PostgresStore) GetWorkoutLogs(ctx context.Context) ([]models.WorkoutSessionLog, error) {
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
func (s *PostgresStore) SaveWorkoutLog(ctx context.Context, log models.WorkoutSessionLog) error {
	data, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("encoding workout log %s: %w", log.ID, err)
	}
	_, err = s.Pool.Exec(ctx,
		`INSERT INTO workout_logs (id, date, data) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET date = EXCLUDED.date, data = EXCLUDED.data`,
		log.ID, log.Date, data)
	if err != nil {
		return fmt.Errorf("saving workout log %s: %w", log.ID, err)
	}
	return nil
}

// DeleteWorkoutLog removes one historical record.
func (s *PostgresStore) DeleteWorkoutLog(ctx context.Context, id string) error {
	_, err := s.Pool.Exec(ctx, `DELETE FROM workout_logs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting workout log %s: %w", id, err)
	}
	return nil
}

func (s *PostgresStore) queryDocs(ctx context.Context, query string, scan func([]byte) error) error {
	rows, err := s.Pool.Query(ctx, query)
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
func (s *PostgresStore) replaceAll(ctx context.Context, table string, n int, row func(i int) (id string, doc any)) error {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM `+table); err != nil {
		return fmt.Errorf("clearing %s: %w", table, err)
	}
	for i := 0; i < n; i++ {
		id, doc := row(i)
		data, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("encoding %s row %s: %w", table, id, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO `+table+` (id, position, data) VALUES ($1, $2, $3)`, id, i, data); err != nil {
			return fmt.Errorf("inserting %s row %s: %w", table, id, err)
		}
	}
	return tx.Commit(ctx)
}
