package storage

import (
	"context"
	"testing"

	"github.com/claude/irontrack/internal/models"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(t.TempDir())
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestActiveRoutinePointer verifies the pointer round trip and the empty
// default when nothing was ever set.
func TestActiveRoutinePointer(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.GetActiveRoutineID(ctx)
	if err != nil {
		t.Fatalf("GetActiveRoutineID: %v", err)
	}
	if id != "" {
		t.Errorf("unset pointer = %q, want empty", id)
	}

	if err := s.SetActiveRoutineID(ctx, "r1"); err != nil {
		t.Fatalf("SetActiveRoutineID: %v", err)
	}
	if err := s.SetActiveRoutineID(ctx, "r2"); err != nil {
		t.Fatalf("SetActiveRoutineID overwrite: %v", err)
	}

	id, err = s.GetActiveRoutineID(ctx)
	if err != nil {
		t.Fatalf("GetActiveRoutineID: %v", err)
	}
	if id != "r2" {
		t.Errorf("pointer = %q, want r2", id)
	}
}

// TestRoutinesReplaceSet verifies SaveRoutines is a full replacement that
// preserves order, including nested days and exercises.
func TestRoutinesReplaceSet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := []models.Routine{
		{ID: "r1", Name: "Torso", Days: []models.RoutineDay{
			{ID: "d1", Name: "Empuje", Exercises: []models.ScheduledExercise{
				{ID: "e1", ExerciseBaseID: "b1", VariantID: "v1", TargetSets: 3, RestTimeSeconds: 90, Type: models.Normal},
			}},
		}},
		{ID: "r2", Name: "Pierna"},
	}
	if err := s.SaveRoutines(ctx, first); err != nil {
		t.Fatalf("SaveRoutines: %v", err)
	}

	got, err := s.GetRoutines(ctx)
	if err != nil {
		t.Fatalf("GetRoutines: %v", err)
	}
	if len(got) != 2 || got[0].ID != "r1" || got[1].ID != "r2" {
		t.Fatalf("routines = %+v", got)
	}
	if got[0].Days[0].Exercises[0].RestTimeSeconds != 90 {
		t.Errorf("nested exercise lost: %+v", got[0].Days[0].Exercises)
	}

	// Replacement drops what is no longer present.
	if err := s.SaveRoutines(ctx, first[1:]); err != nil {
		t.Fatalf("SaveRoutines replace: %v", err)
	}
	got, _ = s.GetRoutines(ctx)
	if len(got) != 1 || got[0].ID != "r2" {
		t.Errorf("after replace: %+v", got)
	}
}

// TestExercisesRoundTrip verifies catalog persistence keeps order and
// variants.
func TestExercisesRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	in := []models.ExerciseBase{
		{ID: "b1", MuscleGroup: models.Pecho, Name: "Press banca",
			Variants: []models.Variant{{ID: "v1", Name: "Banco"}, {ID: "v2", Name: "Mancuernas"}}},
		{ID: "b2", MuscleGroup: models.Espalda, Name: "Jalón",
			Variants: []models.Variant{{ID: "v3", Name: "Máquina placas"}}},
	}
	if err := s.SaveExercises(ctx, in); err != nil {
		t.Fatalf("SaveExercises: %v", err)
	}

	got, err := s.GetExercises(ctx)
	if err != nil {
		t.Fatalf("GetExercises: %v", err)
	}
	if len(got) != 2 || got[0].ID != "b1" {
		t.Fatalf("exercises = %+v", got)
	}
	if len(got[0].Variants) != 2 || got[0].Variants[1].Name != "Mancuernas" {
		t.Errorf("variants = %+v", got[0].Variants)
	}
}

// TestBodyStatsOrderedByDate verifies stats come back sorted by date no
// matter the insert order.
func TestBodyStatsOrderedByDate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	in := []models.BodyStat{
		{ID: "s2", Date: 200, Weight: 81},
		{ID: "s1", Date: 100, Weight: 80},
	}
	if err := s.SaveBodyStats(ctx, in); err != nil {
		t.Fatalf("SaveBodyStats: %v", err)
	}

	got, err := s.GetBodyStats(ctx)
	if err != nil {
		t.Fatalf("GetBodyStats: %v", err)
	}
	if len(got) != 2 || got[0].ID != "s1" || got[1].ID != "s2" {
		t.Errorf("stats order = %+v", got)
	}
}

// TestWorkoutLogUpsert verifies SaveWorkoutLog inserts new records and
// overwrites existing ids in place.
func TestWorkoutLogUpsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	log := models.WorkoutSessionLog{ID: "w1", Date: 100, RoutineName: "Torso"}
	if err := s.SaveWorkoutLog(ctx, log); err != nil {
		t.Fatalf("SaveWorkoutLog: %v", err)
	}

	log.RoutineName = "Torso v2"
	if err := s.SaveWorkoutLog(ctx, log); err != nil {
		t.Fatalf("SaveWorkoutLog upsert: %v", err)
	}

	got, err := s.GetWorkoutLogs(ctx)
	if err != nil {
		t.Fatalf("GetWorkoutLogs: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("logs = %d, want 1", len(got))
	}
	if got[0].RoutineName != "Torso v2" {
		t.Errorf("name = %q, want Torso v2", got[0].RoutineName)
	}
}

// TestWorkoutLogsNewestFirst verifies the history query returns records
// by date descending.
func TestWorkoutLogsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, l := range []models.WorkoutSessionLog{
		{ID: "w1", Date: 100},
		{ID: "w3", Date: 300},
		{ID: "w2", Date: 200},
	} {
		if err := s.SaveWorkoutLog(ctx, l); err != nil {
			t.Fatalf("SaveWorkoutLog: %v", err)
		}
	}

	got, _ := s.GetWorkoutLogs(ctx)
	if got[0].ID != "w3" || got[1].ID != "w2" || got[2].ID != "w1" {
		t.Errorf("order = %s,%s,%s", got[0].ID, got[1].ID, got[2].ID)
	}
}

// TestDeleteWorkoutLog verifies deletion by id leaves other records.
func TestDeleteWorkoutLog(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	s.SaveWorkoutLog(ctx, models.WorkoutSessionLog{ID: "w1", Date: 100})
	s.SaveWorkoutLog(ctx, models.WorkoutSessionLog{ID: "w2", Date: 200})

	if err := s.DeleteWorkoutLog(ctx, "w1"); err != nil {
		t.Fatalf("DeleteWorkoutLog: %v", err)
	}

	got, _ := s.GetWorkoutLogs(ctx)
	if len(got) != 1 || got[0].ID != "w2" {
		t.Errorf("logs = %+v", got)
	}
}

// TestSeedExercises verifies the default catalog lands on an empty store
// and a populated store is never overwritten.
func TestSeedExercises(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := SeedExercises(ctx, s); err != nil {
		t.Fatalf("SeedExercises: %v", err)
	}
	got, err := s.GetExercises(ctx)
	if err != nil {
		t.Fatalf("GetExercises: %v", err)
	}
	if len(got) != len(DefaultExercises()) {
		t.Fatalf("seeded = %d, want %d", len(got), len(DefaultExercises()))
	}

	// A user-edited catalog must survive the next seed pass.
	custom := []models.ExerciseBase{{ID: "mine", Name: "Custom"}}
	if err := s.SaveExercises(ctx, custom); err != nil {
		t.Fatalf("SaveExercises: %v", err)
	}
	if err := SeedExercises(ctx, s); err != nil {
		t.Fatalf("SeedExercises second pass: %v", err)
	}
	got, _ = s.GetExercises(ctx)
	if len(got) != 1 || got[0].ID != "mine" {
		t.Errorf("catalog overwritten by seed: %+v", got)
	}
}
