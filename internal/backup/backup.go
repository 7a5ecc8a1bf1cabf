// Package backup implements full-data export and restore. A backup is a
// single versioned JSON document; restore applies it either destructively
// (overwrite) or additively (merge).
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/claude/irontrack/internal/models"
	"github.com/claude/irontrack/internal/storage"
)

// Version is the current backup document version.
const Version = 1

// Mode selects how Restore treats existing data.
type Mode string

const (
	// Overwrite replaces each section present in the backup wholesale.
	Overwrite Mode = "overwrite"
	// Merge adds backup entries that aren't already present, keyed by id.
	// Existing entries always win, which makes merging the same backup
	// twice a no-op.
	Merge Mode = "merge"
)

// Snapshot is the backup document. Sections are optional: a partial
// document restores only what it carries.
type Snapshot struct {
	Version   int                        `json:"version"`
	Timestamp int64                      `json:"timestamp"`
	Routines  []models.Routine           `json:"routines,omitempty"`
	Exercises []models.ExerciseBase      `json:"exercises,omitempty"`
	Stats     []models.BodyStat          `json:"stats,omitempty"`
	Logs      []models.WorkoutSessionLog `json:"logs,omitempty"`
}

// Create reads everything from the store into a Snapshot.
func Create(ctx context.Context, s storage.Store, now time.Time) (Snapshot, error) {
	snap := Snapshot{Version: Version, Timestamp: now.UnixMilli()}

	var err error
	if snap.Routines, err = s.GetRoutines(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("reading routines: %w", err)
	}
	if snap.Exercises, err = s.GetExercises(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("reading exercises: %w", err)
	}
	if snap.Stats, err = s.GetBodyStats(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("reading body stats: %w", err)
	}
	if snap.Logs, err = s.GetWorkoutLogs(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("reading workout logs: %w", err)
	}
	return snap, nil
}

// Parse decodes a backup document and checks its version.
func Parse(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decoding backup: %w", err)
	}
	if snap.Version > Version {
		return Snapshot{}, fmt.Errorf("unsupported backup version %d", snap.Version)
	}
	return snap, nil
}

// Restore applies a snapshot to the store. Sections absent from the
// snapshot are left untouched in either mode.
func Restore(ctx context.Context, s storage.Store, snap Snapshot, mode Mode) error {
	switch mode {
	case Overwrite:
		return restoreOverwrite(ctx, s, snap)
	case Merge:
		return restoreMerge(ctx, s, snap)
	default:
		return fmt.Errorf("unknown restore mode %q", mode)
	}
}

func restoreOverwrite(ctx context.Context, s storage.Store, snap Snapshot) error {
	if snap.Routines != nil {
		if err := s.SaveRoutines(ctx, snap.Routines); err != nil {
			return fmt.Errorf("restoring routines: %w", err)
		}
	}
	if snap.Exercises != nil {
		if err := s.SaveExercises(ctx, snap.Exercises); err != nil {
			return fmt.Errorf("restoring exercises: %w", err)
		}
	}
	if snap.Stats != nil {
		if err := s.SaveBodyStats(ctx, snap.Stats); err != nil {
			return fmt.Errorf("restoring body stats: %w", err)
		}
	}
	if snap.Logs != nil {
		// Full replacement: logs in the store but absent from the
		// snapshot are removed, not kept.
		keep := make(map[string]bool, len(snap.Logs))
		for _, log := range snap.Logs {
			keep[log.ID] = true
		}
		current, err := s.GetWorkoutLogs(ctx)
		if err != nil {
			return fmt.Errorf("reading workout logs: %w", err)
		}
		for _, log := range current {
			if keep[log.ID] {
				continue
			}
			if err := s.DeleteWorkoutLog(ctx, log.ID); err != nil {
				return fmt.Errorf("removing workout log %s: %w", log.ID, err)
			}
		}
		for _, log := range snap.Logs {
			if err := s.SaveWorkoutLog(ctx, log); err != nil {
				return fmt.Errorf("restoring workout log %s: %w", log.ID, err)
			}
		}
	}
	return nil
}

func restoreMerge(ctx context.Context, s storage.Store, snap Snapshot) error {
	if snap.Routines != nil {
		current, err := s.GetRoutines(ctx)
		if err != nil {
			return fmt.Errorf("reading routines: %w", err)
		}
		seen := make(map[string]bool, len(current))
		for _, r := range current {
			seen[r.ID] = true
		}
		for _, r := range snap.Routines {
			if !seen[r.ID] {
				current = append(current, r)
				seen[r.ID] = true
			}
		}
		if err := s.SaveRoutines(ctx, current); err != nil {
			return fmt.Errorf("merging routines: %w", err)
		}
	}

	if snap.Exercises != nil {
		current, err := s.GetExercises(ctx)
		if err != nil {
			return fmt.Errorf("reading exercises: %w", err)
		}
		if err := s.SaveExercises(ctx, mergeExercises(current, snap.Exercises)); err != nil {
			return fmt.Errorf("merging exercises: %w", err)
		}
	}

	if snap.Stats != nil {
		current, err := s.GetBodyStats(ctx)
		if err != nil {
			return fmt.Errorf("reading body stats: %w", err)
		}
		merged := dedupStats(append(current, snap.Stats...))
		sort.SliceStable(merged, func(i, j int) bool { return merged[i].Date < merged[j].Date })
		if err := s.SaveBodyStats(ctx, merged); err != nil {
			return fmt.Errorf("merging body stats: %w", err)
		}
	}

	if snap.Logs != nil {
		current, err := s.GetWorkoutLogs(ctx)
		if err != nil {
			return fmt.Errorf("reading workout logs: %w", err)
		}
		seen := make(map[string]bool, len(current))
		for _, l := range current {
			seen[l.ID] = true
		}
		for _, l := range snap.Logs {
			if seen[l.ID] {
				continue
			}
			if err := s.SaveWorkoutLog(ctx, l); err != nil {
				return fmt.Errorf("merging workout log %s: %w", l.ID, err)
			}
			seen[l.ID] = true
		}
	}
	return nil
}

// mergeExercises unions the catalogs: unknown bases are appended, known
// bases keep their current definition but absorb any variants they are
// missing.
func mergeExercises(current, incoming []models.ExerciseBase) []models.ExerciseBase {
	merged := make([]models.ExerciseBase, len(current))
	copy(merged, current)

	index := make(map[string]int, len(merged))
	for i, ex := range merged {
		index[ex.ID] = i
	}

	for _, ex := range incoming {
		i, ok := index[ex.ID]
		if !ok {
			index[ex.ID] = len(merged)
			merged = append(merged, ex)
			continue
		}
		existing := &merged[i]
		known := make(map[string]bool, len(existing.Variants))
		for _, v := range existing.Variants {
			known[v.ID] = true
		}
		for _, v := range ex.Variants {
			if !known[v.ID] {
				existing.Variants = append(existing.Variants, v)
			}
		}
	}
	return merged
}

func dedupStats(stats []models.BodyStat) []models.BodyStat {
	seen := make(map[string]bool, len(stats))
	out := stats[:0]
	for _, st := range stats {
		if seen[st.ID] {
			continue
		}
		seen[st.ID] = true
		out = append(out, st)
	}
	return out
}
