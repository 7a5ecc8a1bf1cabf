package models

import (
	"fmt"
	"math"
	"time"
)

// MuscleGroup classifies a catalog exercise.
type MuscleGroup string

const (
	Biceps      MuscleGroup = "Biceps"
	Triceps     MuscleGroup = "Triceps"
	Abdominales MuscleGroup = "Abdominales"
	Piernas     MuscleGroup = "Piernas"
	Hombro      MuscleGroup = "Hombro"
	Pecho       MuscleGroup = "Pecho"
	Espalda     MuscleGroup = "Espalda"
	Cardio      MuscleGroup = "Cardio"
)

// MuscleGroups lists all groups in display order.
var MuscleGroups = []MuscleGroup{Biceps, Triceps, Abdominales, Piernas, Hombro, Pecho, Espalda, Cardio}

// ExerciseType describes how an exercise is performed within a day.
type ExerciseType string

const (
	Normal     ExerciseType = "Normal"
	Superserie ExerciseType = "Superserie"
	Biserie    ExerciseType = "Biserie"
	BIIO       ExerciseType = "Series BIIO"
)

// Variant is a named variation of a catalog exercise (grip, bench angle, machine).
type Variant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ExerciseBase is immutable catalog reference data. Scheduled exercises and
// historical logs point into it by id.
type ExerciseBase struct {
	ID          string      `json:"id"`
	MuscleGroup MuscleGroup `json:"muscleGroup"`
	Name        string      `json:"name"`
	Variants    []Variant   `json:"variants"`
}

// FindVariant returns the variant with the given id, or nil.
func (e *ExerciseBase) FindVariant(id string) *Variant {
	for i := range e.Variants {
		if e.Variants[i].ID == id {
			return &e.Variants[i]
		}
	}
	return nil
}

// ScheduledExercise is one placement of a catalog exercise within a routine
// day. ID is unique per placement, not per catalog entry: the same catalog
// exercise may appear twice in a day with independent set logs.
type ScheduledExercise struct {
	ID              string       `json:"id"`
	ExerciseBaseID  string       `json:"exerciseBaseId"`
	VariantID       string       `json:"variantId"`
	TargetSets      int          `json:"targetSets"`
	TargetReps      string       `json:"targetReps"` // may encode a range, e.g. "8-12"
	RestTimeSeconds int          `json:"restTimeSeconds"`
	Type            ExerciseType `json:"type"`
	LinkedToNext    bool         `json:"linkedToNext,omitempty"`
	Notes           string       `json:"notes,omitempty"`
}

// RoutineDay is an ordered sequence of scheduled exercises. Order determines
// display and default progression.
type RoutineDay struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Exercises []ScheduledExercise `json:"exercises"`
}

// Clone returns an independently mutable deep copy of the day. A live
// session mutates its clone without touching the stored routine.
func (d RoutineDay) Clone() RoutineDay {
	out := d
	out.Exercises = make([]ScheduledExercise, len(d.Exercises))
	copy(out.Exercises, d.Exercises)
	return out
}

// Routine is a named collection of training days. At most one routine is
// active at a time, tracked by an external pointer in the store.
type Routine struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Days      []RoutineDay `json:"days"`
	CreatedAt int64        `json:"createdAt"` // unix ms
	LastUsed  int64        `json:"lastUsed,omitempty"`
}

// FindDay returns the day with the given id, or an error.
func (r *Routine) FindDay(id string) (RoutineDay, error) {
	for _, d := range r.Days {
		if d.ID == id {
			return d, nil
		}
	}
	return RoutineDay{}, fmt.Errorf("day %s not found in routine %s", id, r.ID)
}

// SetLog is one set row of a live or completed session. Reps2/Reps3 exist
// only for BIIO exercises (three timed sub-efforts per set). ActualRestTime
// is nil until a rest timer reports back for the set.
type SetLog struct {
	SetNumber      int     `json:"setNumber"`
	Weight         float64 `json:"weight"`
	Reps           int     `json:"reps"`
	Reps2          int     `json:"reps2,omitempty"`
	Reps3          int     `json:"reps3,omitempty"`
	Completed      bool    `json:"completed"`
	ActualRestTime *int    `json:"actualRestTime,omitempty"` // seconds
}

// CompletedExerciseLog is a denormalized snapshot of what was actually done,
// independent of the routine's mutable identifiers. Catalog names are copied
// at completion time so history stays readable after renames or deletions.
type CompletedExerciseLog struct {
	ExerciseBaseID string   `json:"exerciseBaseId"`
	VariantID      string   `json:"variantId"`
	ExerciseName   string   `json:"exerciseName"`
	VariantName    string   `json:"variantName"`
	Sets           []SetLog `json:"sets"`
}

// WorkoutSessionLog is the immutable historical record of one session.
// Created once at finalize, never mutated except full deletion.
type WorkoutSessionLog struct {
	ID          string                 `json:"id"`
	RoutineID   string                 `json:"routineId"`
	RoutineName string                 `json:"routineName"`
	DayID       string                 `json:"dayId"`
	DayName     string                 `json:"dayName"`
	Date        int64                  `json:"date"`   // unix ms
	WeekID      string                 `json:"weekId"` // e.g. "W47-25"
	StartTime   int64                  `json:"startTime,omitempty"`
	EndTime     int64                  `json:"endTime,omitempty"`
	Duration    int64                  `json:"duration,omitempty"` // ms
	Exercises   []CompletedExerciseLog `json:"exercises"`
}

// BodyStat is one dated body measurement entry.
type BodyStat struct {
	ID      string  `json:"id"`
	Date    int64   `json:"date"` // unix ms
	Weight  float64 `json:"weight"`
	BodyFat float64 `json:"bodyFat,omitempty"`
	Waist   float64 `json:"waist,omitempty"`
	Chest   float64 `json:"chest,omitempty"`
	Arm     float64 `json:"arm,omitempty"`
}

// WeekID derives the week label for a date, e.g. "W47-25". Week numbering
// counts elapsed days since Jan 1 offset by Jan 1's weekday, divided into
// seven-day blocks.
func WeekID(t time.Time) string {
	startOfYear := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	pastDays := t.Sub(startOfYear).Hours() / 24
	weekNum := int(math.Ceil((pastDays + float64(startOfYear.Weekday()) + 1) / 7))
	return fmt.Sprintf("W%d-%02d", weekNum, t.Year()%100)
}
