package session

import (
	"testing"

	"github.com/claude/irontrack/internal/models"
)

func sessionWith(date int64, variantID string, weight float64) models.WorkoutSessionLog {
	return models.WorkoutSessionLog{
		ID:   variantID + "-sess",
		Date: date,
		Exercises: []models.CompletedExerciseLog{
			{VariantID: variantID, Sets: []models.SetLog{{SetNumber: 1, Weight: weight}}},
		},
	}
}

// TestExerciseHistoryNewestFirst verifies entries come back ordered by
// session date descending regardless of input order.
func TestExerciseHistoryNewestFirst(t *testing.T) {
	logs := []models.WorkoutSessionLog{
		sessionWith(100, "v1", 50),
		sessionWith(300, "v1", 60),
		sessionWith(200, "v1", 55),
	}

	got := ExerciseHistory(logs, "v1", 10)
	if len(got) != 3 {
		t.Fatalf("entries = %d, want 3", len(got))
	}
	if got[0].Date != 300 || got[1].Date != 200 || got[2].Date != 100 {
		t.Errorf("dates = %d,%d,%d, want 300,200,100", got[0].Date, got[1].Date, got[2].Date)
	}
}

// TestExerciseHistoryLimit verifies the limit cuts off older sessions and
// that zero falls back to the default of three.
func TestExerciseHistoryLimit(t *testing.T) {
	var logs []models.WorkoutSessionLog
	for i := int64(1); i <= 6; i++ {
		logs = append(logs, sessionWith(i*100, "v1", float64(i)))
	}

	if got := ExerciseHistory(logs, "v1", 2); len(got) != 2 {
		t.Errorf("limit 2: entries = %d", len(got))
	}
	if got := ExerciseHistory(logs, "v1", 0); len(got) != DefaultHistoryLimit {
		t.Errorf("limit 0: entries = %d, want %d", len(got), DefaultHistoryLimit)
	}
}

// TestExerciseHistoryExactVariant verifies matching is by exact variant
// id: other variants of the same base never count.
func TestExerciseHistoryExactVariant(t *testing.T) {
	logs := []models.WorkoutSessionLog{
		sessionWith(100, "v_pec_ban_ban", 80),
		sessionWith(200, "v_pec_ban_manc", 30),
	}

	got := ExerciseHistory(logs, "v_pec_ban_ban", 10)
	if len(got) != 1 {
		t.Fatalf("entries = %d, want 1", len(got))
	}
	if got[0].Sets[0].Weight != 80 {
		t.Errorf("weight = %v, want 80", got[0].Sets[0].Weight)
	}
}

// TestExerciseHistoryOnePerSession verifies a session contributes at most
// one entry even when the variant appears in multiple slots.
func TestExerciseHistoryOnePerSession(t *testing.T) {
	sess := models.WorkoutSessionLog{
		ID:   "s1",
		Date: 100,
		Exercises: []models.CompletedExerciseLog{
			{VariantID: "v1", Sets: []models.SetLog{{Weight: 40}}},
			{VariantID: "v1", Sets: []models.SetLog{{Weight: 45}}},
		},
	}

	got := ExerciseHistory([]models.WorkoutSessionLog{sess}, "v1", 10)
	if len(got) != 1 {
		t.Fatalf("entries = %d, want 1", len(got))
	}
	if got[0].Sets[0].Weight != 40 {
		t.Errorf("weight = %v, want first match 40", got[0].Sets[0].Weight)
	}
}

// TestExerciseHistoryEmpty verifies the no-history case returns an empty
// slice, not nil panic paths.
func TestExerciseHistoryEmpty(t *testing.T) {
	if got := ExerciseHistory(nil, "v1", 3); len(got) != 0 {
		t.Errorf("entries = %d, want 0", len(got))
	}
}
