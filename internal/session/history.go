package session

import (
	"sort"

	"github.com/claude/irontrack/internal/models"
)

// DefaultHistoryLimit is how many past performances the in-session
// history panel shows.
const DefaultHistoryLimit = 3

// HistoryEntry is one past performance of a specific exercise variant.
type HistoryEntry struct {
	Date        int64           `json:"date"`
	RoutineName string          `json:"routineName"`
	DayName     string          `json:"dayName"`
	Sets        []models.SetLog `json:"sets"`
}

// ExerciseHistory extracts the most recent performances of one variant
// from the full session history, newest first. Matching is by exact
// variant id: the flat bench and the incline bench of the same base are
// different lifts with different numbers. A session contributes at most
// one entry even if the variant appears twice. limit <= 0 falls back to
// DefaultHistoryLimit.
func ExerciseHistory(logs []models.WorkoutSessionLog, variantID string, limit int) []HistoryEntry {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	sorted := make([]models.WorkoutSessionLog, len(logs))
	copy(sorted, logs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})

	entries := make([]HistoryEntry, 0, limit)
	for _, sess := range sorted {
		for _, ex := range sess.Exercises {
			if ex.VariantID != variantID {
				continue
			}
			entries = append(entries, HistoryEntry{
				Date:        sess.Date,
				RoutineName: sess.RoutineName,
				DayName:     sess.DayName,
				Sets:        ex.Sets,
			})
			break
		}
		if len(entries) >= limit {
			break
		}
	}
	return entries
}
