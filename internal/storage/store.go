package storage

import (
	"context"

	"github.com/claude/irontrack/internal/models"
)

// Store is the backing-store contract the session core consumes. Local
// (SQLite) and remote (PostgreSQL) implementations are interchangeable;
// the in-memory session state is always the authority while a session is
// live, so every write here is durability, not truth.
type Store interface {
	// Active routine pointer, externally-owned configuration state.
	// GetActiveRoutineID returns "" when no routine has been activated.
	GetActiveRoutineID(ctx context.Context) (string, error)
	SetActiveRoutineID(ctx context.Context, id string) error

	// Routines are saved as a full set: SaveRoutines replaces everything.
	GetRoutines(ctx context.Context) ([]models.Routine, error)
	SaveRoutines(ctx context.Context, routines []models.Routine) error

	GetExercises(ctx context.Context) ([]models.ExerciseBase, error)
	SaveExercises(ctx context.Context, exercises []models.ExerciseBase) error

	GetBodyStats(ctx context.Context) ([]models.BodyStat, error)
	SaveBodyStats(ctx context.Context, stats []models.BodyStat) error

	// Workout history. SaveWorkoutLog upserts by id.
	GetWorkoutLogs(ctx context.Context) ([]models.WorkoutSessionLog, error)
	SaveWorkoutLog(ctx context.Context, log models.WorkoutSessionLog) error
	DeleteWorkoutLog(ctx context.Context, id string) error

	Close() error
}
