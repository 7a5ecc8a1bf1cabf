package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/claude/irontrack/internal/models"
	"github.com/claude/irontrack/internal/storage"
)

// Phase is the lifecycle state of the machine.
type Phase string

const (
	PhaseSelectingDay Phase = "selecting_day"
	PhaseActive       Phase = "active"
	PhaseFinalized    Phase = "finalized"
	PhaseDiscarded    Phase = "discarded"
)

// Defaults applied to exercises added live from the catalog.
const (
	DefaultTargetSets = 3
	DefaultTargetReps = "10-12"
	DefaultRestTime   = 60

	// SubTimerSeconds is the BIIO intra-set countdown.
	SubTimerSeconds = 5

	placeholderName = "Desconocido"
)

var (
	ErrNoActiveSession = errors.New("no active session")
	ErrSessionActive   = errors.New("a session is already active")
)

// SetField names a mutable SetLog field.
type SetField string

const (
	FieldWeight SetField = "weight"
	FieldReps   SetField = "reps"
	FieldReps2  SetField = "reps2"
	FieldReps3  SetField = "reps3"
)

// Direction is an adjacent-swap reorder direction.
type Direction string

const (
	MoveUp   Direction = "up"
	MoveDown Direction = "down"
)

// Config wires a Machine's collaborators. Store and Drafts are required;
// everything else has sensible defaults.
type Config struct {
	Store  storage.Store
	Drafts DraftStore
	Logger *slog.Logger

	// RestAlert plays the main rest-done tone, SubAlert the shorter BIIO
	// cue. Nil disables audio.
	RestAlert func()
	SubAlert  func()

	Now           func() time.Time
	NewID         func() string
	AutoSaveDelay time.Duration
}

// Machine owns the single live workout session: the mutable clone of the
// selected day, the per-exercise set logs, rest-timer orchestration and
// draft autosaving. All methods are safe for concurrent use; the in-memory
// state is the authority, persistence is best-effort durability.
type Machine struct {
	store  storage.Store
	drafts DraftStore
	log    *slog.Logger

	restAlert func()
	subAlert  func()
	now       func() time.Time
	newID     func() string
	saveDelay time.Duration

	mu          sync.Mutex
	phase       Phase
	routineID   string
	routineName string
	day         models.RoutineDay
	logs        map[string][]models.SetLog
	startTime   time.Time
	catalog     []models.ExerciseBase

	timer       *RestTimer
	subTimer    *RestTimer
	savePending *time.Timer
}

// NewMachine creates a Machine in the SelectingDay phase.
func NewMachine(cfg Config) *Machine {
	m := &Machine{
		store:     cfg.Store,
		drafts:    cfg.Drafts,
		log:       cfg.Logger,
		restAlert: cfg.RestAlert,
		subAlert:  cfg.SubAlert,
		now:       cfg.Now,
		newID:     cfg.NewID,
		saveDelay: cfg.AutoSaveDelay,
		phase:     PhaseSelectingDay,
	}
	if m.log == nil {
		m.log = slog.Default()
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.newID == nil {
		m.newID = uuid.NewString
	}
	if m.saveDelay == 0 {
		m.saveDelay = time.Second
	}
	return m
}

// PendingDraft reports whether a recoverable draft exists for the given
// day. The caller uses it to ask the user before resuming.
func (m *Machine) PendingDraft(dayID string) (bool, error) {
	draft, err := m.drafts.LoadDraft()
	if err != nil {
		return false, err
	}
	return draft != nil && draft.DayID == dayID, nil
}

// Start transitions SelectingDay → Active for one day of a routine. The
// day is deep-cloned so live edits never touch the stored routine. When
// resume is true and a matching draft exists, its logs are adopted and the
// persisted start marker (falling back to the draft's own timestamp)
// restores the original start time; otherwise fresh zeroed rows are seeded
// per exercise and a new start marker is written.
func (m *Machine) Start(ctx context.Context, routine models.Routine, dayID string, resume bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase == PhaseActive {
		return ErrSessionActive
	}

	day, err := routine.FindDay(dayID)
	if err != nil {
		return err
	}
	clone := day.Clone()

	catalog, err := m.store.GetExercises(ctx)
	if err != nil {
		// Finalize degrades to placeholder names without a catalog.
		m.log.Error("loading exercise catalog", "error", err)
		catalog = nil
	}

	logs := make(map[string][]models.SetLog)
	start := m.now()

	var draft *Draft
	if resume {
		draft, err = m.drafts.LoadDraft()
		if err != nil {
			m.log.Error("loading session draft", "error", err)
			draft = nil
		}
		if draft != nil && draft.DayID != dayID {
			draft = nil
		}
	}

	if draft != nil {
		logs = draft.Logs
		if logs == nil {
			logs = make(map[string][]models.SetLog)
		}
		if stored, ok, err := m.drafts.LoadStartTime(); err == nil && ok {
			start = stored
		} else {
			if err != nil {
				m.log.Error("loading start marker", "error", err)
			}
			start = time.UnixMilli(draft.Timestamp)
		}
	} else {
		for _, ex := range clone.Exercises {
			logs[ex.ID] = freshSetLogs(ex.TargetSets)
		}
		if err := m.drafts.SaveStartTime(start); err != nil {
			m.log.Error("saving start marker", "error", err)
		}
	}

	m.phase = PhaseActive
	m.routineID = routine.ID
	m.routineName = routine.Name
	m.day = clone
	m.logs = logs
	m.startTime = start
	m.catalog = catalog
	m.timer = nil
	m.subTimer = nil
	return nil
}

func freshSetLogs(n int) []models.SetLog {
	rows := make([]models.SetLog, n)
	for i := range rows {
		rows[i] = models.SetLog{SetNumber: i + 1}
	}
	return rows
}

// State is a point-in-time copy of the machine for display.
type State struct {
	Phase       Phase                      `json:"phase"`
	RoutineID   string                     `json:"routineId,omitempty"`
	RoutineName string                     `json:"routineName,omitempty"`
	Day         *models.RoutineDay         `json:"day,omitempty"`
	Logs        map[string][]models.SetLog `json:"logs,omitempty"`
	StartTime   int64                      `json:"startTime,omitempty"`
	WeekID      string                     `json:"weekId,omitempty"`
}

// Snapshot returns an independent copy of the current state.
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := State{Phase: m.phase}
	if m.phase != PhaseActive {
		return st
	}

	day := m.day.Clone()
	st.RoutineID = m.routineID
	st.RoutineName = m.routineName
	st.Day = &day
	st.Logs = copyLogs(m.logs)
	st.StartTime = m.startTime.UnixMilli()
	st.WeekID = models.WeekID(m.now())
	return st
}

func copyLogs(logs map[string][]models.SetLog) map[string][]models.SetLog {
	out := make(map[string][]models.SetLog, len(logs))
	for id, rows := range logs {
		cp := make([]models.SetLog, len(rows))
		copy(cp, rows)
		out[id] = cp
	}
	return out
}

// UpdateSet overwrites one numeric field of a set row. There is no
// validation beyond the field name: callers coerce malformed input to
// zero before getting here. An out-of-range set index is a no-op.
func (m *Machine) UpdateSet(exID string, setIndex int, field SetField, value float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows, err := m.setRows(exID)
	if err != nil {
		return err
	}
	if setIndex < 0 || setIndex >= len(rows) {
		return nil
	}

	switch field {
	case FieldWeight:
		rows[setIndex].Weight = value
	case FieldReps:
		rows[setIndex].Reps = int(value)
	case FieldReps2:
		rows[setIndex].Reps2 = int(value)
	case FieldReps3:
		rows[setIndex].Reps3 = int(value)
	default:
		return fmt.Errorf("unknown set field %q", field)
	}

	m.scheduleSave()
	return nil
}

// ToggleSet flips a set's completed flag. Completing a set on a non-linked
// exercise returns a rest timer configured with the exercise's rest time;
// the caller decides whether to Run it (tests tick it by hand). Completing
// a linked (superset/biserie) set records zero rest immediately and returns
// no timer. Unchecking clears the recorded rest.
func (m *Machine) ToggleSet(exID string, setIndex int) (*RestTimer, error) {
	m.mu.Lock()

	rows, err := m.setRows(exID)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	if setIndex < 0 || setIndex >= len(rows) {
		m.mu.Unlock()
		return nil, fmt.Errorf("set %d out of range for exercise %s", setIndex, exID)
	}

	ex := m.findExercise(exID)
	completing := !rows[setIndex].Completed
	rows[setIndex].Completed = completing

	var restTime int
	startTimer := false
	if completing {
		if ex != nil && ex.LinkedToNext {
			zero := 0
			rows[setIndex].ActualRestTime = &zero
		} else {
			startTimer = true
			if ex != nil {
				restTime = ex.RestTimeSeconds
			}
		}
	} else {
		rows[setIndex].ActualRestTime = nil
	}

	m.scheduleSave()
	m.mu.Unlock()

	if !startTimer {
		return nil, nil
	}

	record := func(elapsed int) { m.recordRest(exID, setIndex, elapsed) }
	t := NewRestTimer(restTime, m.restAlert, record, record)

	m.mu.Lock()
	m.timer = t
	m.mu.Unlock()
	return t, nil
}

// recordRest stores the actual elapsed rest reported by a timer on the
// set that opened it.
func (m *Machine) recordRest(exID string, setIndex int, elapsed int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows, ok := m.logs[exID]
	if !ok || setIndex < 0 || setIndex >= len(rows) {
		return
	}
	rest := elapsed
	rows[setIndex].ActualRestTime = &rest
	m.scheduleSave()
}

// Timer returns the most recently opened rest timer, or nil.
func (m *Machine) Timer() *RestTimer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timer
}

// StartSubTimer opens the short BIIO intra-set countdown. It is
// independent of the rest timer and records nothing on the logs.
func (m *Machine) StartSubTimer() (*RestTimer, error) {
	m.mu.Lock()
	if m.phase != PhaseActive {
		m.mu.Unlock()
		return nil, ErrNoActiveSession
	}
	m.mu.Unlock()

	t := NewRestTimer(SubTimerSeconds, m.subAlert, nil, nil)
	m.mu.Lock()
	m.subTimer = t
	m.mu.Unlock()
	return t, nil
}

// AddSet appends a set row, inheriting the previous row's weight as a
// convenience default.
func (m *Machine) AddSet(exID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows, err := m.setRows(exID)
	if err != nil {
		return err
	}
	row := models.SetLog{SetNumber: len(rows) + 1}
	if len(rows) > 0 {
		row.Weight = rows[len(rows)-1].Weight
	}
	m.logs[exID] = append(rows, row)
	m.scheduleSave()
	return nil
}

// RemoveSet deletes the last set row. An exercise always keeps at least
// one row, so removing from a single-row exercise is a no-op. Remaining
// rows keep their set numbers.
func (m *Machine) RemoveSet(exID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows, err := m.setRows(exID)
	if err != nil {
		return err
	}
	if len(rows) <= 1 {
		return nil
	}
	m.logs[exID] = rows[:len(rows)-1]
	m.scheduleSave()
	return nil
}

// AddExercise appends a catalog exercise to the live day with default
// targets and a fresh zeroed log.
func (m *Machine) AddExercise(baseID, variantID string) (models.ScheduledExercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != PhaseActive {
		return models.ScheduledExercise{}, ErrNoActiveSession
	}

	base := m.findBase(baseID)
	if base == nil {
		return models.ScheduledExercise{}, fmt.Errorf("exercise %s not in catalog", baseID)
	}
	if base.FindVariant(variantID) == nil && len(base.Variants) > 0 {
		variantID = base.Variants[0].ID
	}

	ex := models.ScheduledExercise{
		ID:              m.newID(),
		ExerciseBaseID:  baseID,
		VariantID:       variantID,
		TargetSets:      DefaultTargetSets,
		TargetReps:      DefaultTargetReps,
		RestTimeSeconds: DefaultRestTime,
		Type:            models.Normal,
	}
	m.day.Exercises = append(m.day.Exercises, ex)
	m.logs[ex.ID] = freshSetLogs(DefaultTargetSets)
	m.scheduleSave()
	return ex, nil
}

// RemoveExercise deletes an exercise and its log entry, leaving no
// orphaned logs.
func (m *Machine) RemoveExercise(exID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.exerciseIndex(exID)
	if idx < 0 {
		return fmt.Errorf("exercise %s not in session", exID)
	}
	m.day.Exercises = append(m.day.Exercises[:idx], m.day.Exercises[idx+1:]...)
	delete(m.logs, exID)
	m.scheduleSave()
	return nil
}

// MoveExercise swaps an exercise with its neighbor. Moving past either
// end is a no-op.
func (m *Machine) MoveExercise(exID string, dir Direction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.exerciseIndex(exID)
	if idx < 0 {
		return fmt.Errorf("exercise %s not in session", exID)
	}
	exs := m.day.Exercises
	switch dir {
	case MoveUp:
		if idx > 0 {
			exs[idx], exs[idx-1] = exs[idx-1], exs[idx]
		}
	case MoveDown:
		if idx < len(exs)-1 {
			exs[idx], exs[idx+1] = exs[idx+1], exs[idx]
		}
	default:
		return fmt.Errorf("unknown direction %q", dir)
	}
	return nil
}

// ExerciseEdit carries an in-place exercise edit. Zero-valued fields are
// applied as-is; this mirrors a form submit, not a patch.
type ExerciseEdit struct {
	ExerciseBaseID  string              `json:"exerciseBaseId"`
	VariantID       string              `json:"variantId"`
	TargetSets      int                 `json:"targetSets"`
	TargetReps      string              `json:"targetReps"`
	RestTimeSeconds int                 `json:"restTimeSeconds"`
	Type            models.ExerciseType `json:"type"`
	LinkedToNext    *bool               `json:"linkedToNext,omitempty"`
}

// EditExercise rewrites an exercise's identity and targets in place.
// Existing set rows survive the edit untouched: changing what the slot
// points at must not destroy data the user already entered. If the
// referenced base changes and the old variant id is not valid on the new
// base, the variant resets to the new base's first variant. A smaller
// target set count never truncates existing rows; the target is advisory.
func (m *Machine) EditExercise(exID string, edit ExerciseEdit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ex := m.findExercise(exID)
	if ex == nil {
		return fmt.Errorf("exercise %s not in session", exID)
	}

	variantID := edit.VariantID
	if base := m.findBase(edit.ExerciseBaseID); base != nil && base.FindVariant(variantID) == nil {
		if len(base.Variants) > 0 {
			variantID = base.Variants[0].ID
		} else {
			variantID = ""
		}
	}

	ex.ExerciseBaseID = edit.ExerciseBaseID
	ex.VariantID = variantID
	ex.TargetSets = edit.TargetSets
	ex.TargetReps = edit.TargetReps
	ex.RestTimeSeconds = edit.RestTimeSeconds
	ex.Type = edit.Type

	// Chaining only means something for superset-family types.
	if edit.LinkedToNext != nil {
		ex.LinkedToNext = *edit.LinkedToNext
	}
	if ex.Type != models.Superserie && ex.Type != models.Biserie {
		ex.LinkedToNext = false
	}
	return nil
}

// SetRestTime is the quick-edit path for an exercise's configured rest.
func (m *Machine) SetRestTime(exID string, seconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ex := m.findExercise(exID)
	if ex == nil {
		return fmt.Errorf("exercise %s not in session", exID)
	}
	ex.RestTimeSeconds = seconds
	return nil
}

// History returns the most recent prior performances of a variant.
func (m *Machine) History(ctx context.Context, variantID string, limit int) ([]HistoryEntry, error) {
	logs, err := m.store.GetWorkoutLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading workout history: %w", err)
	}
	return ExerciseHistory(logs, variantID, limit), nil
}

// CopyHistory applies a past performance's weight/reps onto the current
// rows positionally. Rows beyond the shorter list stay untouched, and
// copied rows are always left incomplete: history pre-fills targets, it
// never completes work.
func (m *Machine) CopyHistory(exID string, sets []models.SetLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows, err := m.setRows(exID)
	if err != nil {
		return err
	}
	for i := range rows {
		if i >= len(sets) {
			break
		}
		rows[i].Weight = sets[i].Weight
		rows[i].Reps = sets[i].Reps
		rows[i].Reps2 = sets[i].Reps2
		rows[i].Reps3 = sets[i].Reps3
		rows[i].Completed = false
	}
	m.scheduleSave()
	return nil
}

// FinishOptions selects what to persist when a session ends.
type FinishOptions struct {
	// SaveAsRoutine additionally forks the live-edited day into a brand
	// new single-day routine.
	SaveAsRoutine bool
	// RoutineName names the fork; empty defaults to "<day> (Modificado)".
	RoutineName string
}

// Finish transitions Active → Finalized: it snapshots the live session
// into an immutable WorkoutSessionLog, denormalizing catalog names at this
// moment (missing lookups degrade to a placeholder rather than failing),
// persists it, optionally forks the edited day as a new routine, and
// clears the draft. Persistence failures are logged, never fatal: the
// record is still returned and the session still ends.
func (m *Machine) Finish(ctx context.Context, opts FinishOptions) (models.WorkoutSessionLog, error) {
	m.mu.Lock()

	if m.phase != PhaseActive {
		m.mu.Unlock()
		return models.WorkoutSessionLog{}, ErrNoActiveSession
	}

	end := m.now()
	record := models.WorkoutSessionLog{
		ID:          m.newID(),
		RoutineID:   m.routineID,
		RoutineName: m.routineName,
		DayID:       m.day.ID,
		DayName:     m.day.Name,
		Date:        end.UnixMilli(),
		WeekID:      models.WeekID(end),
		StartTime:   m.startTime.UnixMilli(),
		EndTime:     end.UnixMilli(),
		Duration:    end.Sub(m.startTime).Milliseconds(),
		Exercises:   make([]models.CompletedExerciseLog, 0, len(m.day.Exercises)),
	}

	for _, ex := range m.day.Exercises {
		entry := models.CompletedExerciseLog{
			ExerciseBaseID: ex.ExerciseBaseID,
			VariantID:      ex.VariantID,
			ExerciseName:   placeholderName,
			VariantName:    placeholderName,
			Sets:           m.logs[ex.ID],
		}
		if entry.Sets == nil {
			entry.Sets = []models.SetLog{}
		}
		if base := m.findBase(ex.ExerciseBaseID); base != nil {
			entry.ExerciseName = base.Name
			if v := base.FindVariant(ex.VariantID); v != nil {
				entry.VariantName = v.Name
			}
		}
		record.Exercises = append(record.Exercises, entry)
	}

	var fork *models.Routine
	if opts.SaveAsRoutine {
		name := opts.RoutineName
		if name == "" {
			name = m.day.Name + " (Modificado)"
		}
		day := m.day.Clone()
		day.Name = "Día Único"
		fork = &models.Routine{
			ID:        m.newID(),
			Name:      name,
			Days:      []models.RoutineDay{day},
			CreatedAt: end.UnixMilli(),
		}
	}

	m.stopAutoSaveLocked()
	m.phase = PhaseFinalized
	m.logs = nil
	m.day = models.RoutineDay{}
	m.timer = nil
	m.subTimer = nil
	m.mu.Unlock()

	if err := m.store.SaveWorkoutLog(ctx, record); err != nil {
		m.log.Error("saving workout log", "id", record.ID, "error", err)
	}
	if fork != nil {
		if err := m.saveFork(ctx, *fork); err != nil {
			m.log.Error("forking routine", "name", fork.Name, "error", err)
		}
	}
	if err := m.drafts.ClearDraft(); err != nil {
		m.log.Error("clearing draft", "error", err)
	}

	return record, nil
}

func (m *Machine) saveFork(ctx context.Context, fork models.Routine) error {
	routines, err := m.store.GetRoutines(ctx)
	if err != nil {
		return err
	}
	return m.store.SaveRoutines(ctx, append(routines, fork))
}

// Discard transitions Active → Discarded: exit without saving anything.
// The draft is still cleared so a stale copy cannot resurrect later.
func (m *Machine) Discard(ctx context.Context) error {
	m.mu.Lock()
	if m.phase != PhaseActive {
		m.mu.Unlock()
		return ErrNoActiveSession
	}
	m.stopAutoSaveLocked()
	m.phase = PhaseDiscarded
	m.logs = nil
	m.day = models.RoutineDay{}
	m.timer = nil
	m.subTimer = nil
	m.mu.Unlock()

	if err := m.drafts.ClearDraft(); err != nil {
		m.log.Error("clearing draft", "error", err)
		return err
	}
	return nil
}

// Flush writes any pending draft immediately. Called on shutdown so an
// interrupted session stays recoverable.
func (m *Machine) Flush() {
	m.mu.Lock()
	if m.savePending != nil {
		m.savePending.Stop()
		m.savePending = nil
	}
	m.mu.Unlock()
	m.flushDraft()
}

// scheduleSave arms the debounced draft write. Each mutation pushes the
// deadline out, so a burst of edits coalesces into one write. Caller must
// hold mu.
func (m *Machine) scheduleSave() {
	if m.phase != PhaseActive {
		return
	}
	if m.savePending != nil {
		m.savePending.Stop()
	}
	m.savePending = time.AfterFunc(m.saveDelay, m.flushDraft)
}

// flushDraft persists the current logs to the draft slot. Failures are
// logged; the in-memory session remains authoritative either way.
func (m *Machine) flushDraft() {
	m.mu.Lock()
	if m.phase != PhaseActive {
		m.mu.Unlock()
		return
	}
	logs := copyLogs(m.logs)
	dayID := m.day.ID
	m.savePending = nil
	m.mu.Unlock()

	if err := m.drafts.SaveDraft(logs, dayID); err != nil {
		m.log.Error("saving session draft", "day", dayID, "error", err)
	}
}

// stopAutoSaveLocked cancels any pending draft write so a trailing save
// cannot resurrect a cleared draft. Caller must hold mu.
func (m *Machine) stopAutoSaveLocked() {
	if m.savePending != nil {
		m.savePending.Stop()
		m.savePending = nil
	}
}

func (m *Machine) setRows(exID string) ([]models.SetLog, error) {
	if m.phase != PhaseActive {
		return nil, ErrNoActiveSession
	}
	rows, ok := m.logs[exID]
	if !ok {
		return nil, fmt.Errorf("exercise %s not in session", exID)
	}
	return rows, nil
}

func (m *Machine) exerciseIndex(exID string) int {
	for i := range m.day.Exercises {
		if m.day.Exercises[i].ID == exID {
			return i
		}
	}
	return -1
}

func (m *Machine) findExercise(exID string) *models.ScheduledExercise {
	if i := m.exerciseIndex(exID); i >= 0 {
		return &m.day.Exercises[i]
	}
	return nil
}

func (m *Machine) findBase(baseID string) *models.ExerciseBase {
	for i := range m.catalog {
		if m.catalog[i].ID == baseID {
			return &m.catalog[i]
		}
	}
	return nil
}
