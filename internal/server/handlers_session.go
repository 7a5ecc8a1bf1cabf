package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/claude/irontrack/internal/models"
	"github.com/claude/irontrack/internal/session"
)

func (s *Server) handleSessionState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.machine.Snapshot())
}

func (s *Server) handleSessionDraft(w http.ResponseWriter, r *http.Request) {
	dayID := r.URL.Query().Get("day")
	if dayID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "day parameter required"})
		return
	}
	pending, err := s.machine.PendingDraft(dayID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"pending": pending})
}

func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RoutineID string `json:"routineId"`
		DayID     string `json:"dayId"`
		Resume    bool   `json:"resume"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	routineID := body.RoutineID
	if routineID == "" {
		id, err := s.store.GetActiveRoutineID(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		routineID = id
	}
	if routineID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no routine selected"})
		return
	}

	routines, err := s.store.GetRoutines(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	var routine *models.Routine
	for i := range routines {
		if routines[i].ID == routineID {
			routine = &routines[i]
			break
		}
	}
	if routine == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "routine not found"})
		return
	}

	if err := s.machine.Start(r.Context(), *routine, body.DayID, body.Resume); err != nil {
		writeMachineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.machine.Snapshot())
}

func (s *Server) handleSessionFinish(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SaveAsRoutine bool   `json:"saveAsRoutine"`
		RoutineName   string `json:"routineName"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
			return
		}
	}
	record, err := s.machine.Finish(r.Context(), session.FinishOptions{
		SaveAsRoutine: body.SaveAsRoutine,
		RoutineName:   body.RoutineName,
	})
	if err != nil {
		writeMachineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleSessionDiscard(w http.ResponseWriter, r *http.Request) {
	if err := s.machine.Discard(r.Context()); err != nil {
		writeMachineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "discarded"})
}

func (s *Server) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	var body struct {
		BaseID    string `json:"exerciseBaseId"`
		VariantID string `json:"variantId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	ex, err := s.machine.AddExercise(body.BaseID, body.VariantID)
	if err != nil {
		writeMachineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func (s *Server) handleRemoveExercise(w http.ResponseWriter, r *http.Request) {
	if err := s.machine.RemoveExercise(chi.URLParam(r, "id")); err != nil {
		writeMachineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.machine.Snapshot())
}

func (s *Server) handleMoveExercise(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Direction session.Direction `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.machine.MoveExercise(chi.URLParam(r, "id"), body.Direction); err != nil {
		writeMachineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.machine.Snapshot())
}

func (s *Server) handleEditExercise(w http.ResponseWriter, r *http.Request) {
	var edit session.ExerciseEdit
	if err := json.NewDecoder(r.Body).Decode(&edit); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.machine.EditExercise(chi.URLParam(r, "id"), edit); err != nil {
		writeMachineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.machine.Snapshot())
}

func (s *Server) handleSetRestTime(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Seconds int `json:"seconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.machine.SetRestTime(chi.URLParam(r, "id"), body.Seconds); err != nil {
		writeMachineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"seconds": body.Seconds})
}

func (s *Server) handleCopyHistory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Sets []models.SetLog `json:"sets"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.machine.CopyHistory(chi.URLParam(r, "id"), body.Sets); err != nil {
		writeMachineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.machine.Snapshot())
}

func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	if err := s.machine.AddSet(chi.URLParam(r, "id")); err != nil {
		writeMachineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.machine.Snapshot())
}

func (s *Server) handleRemoveSet(w http.ResponseWriter, r *http.Request) {
	if err := s.machine.RemoveSet(chi.URLParam(r, "id")); err != nil {
		writeMachineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.machine.Snapshot())
}

func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	setIndex, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid set index"})
		return
	}

	var body struct {
		Field session.SetField `json:"field"`
		Value json.RawMessage  `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	// Free-form numeric input: anything that doesn't parse counts as zero,
	// so clearing a field in the UI never produces an error.
	value := coerceNumber(body.Value)

	if err := s.machine.UpdateSet(chi.URLParam(r, "id"), setIndex, body.Field, value); err != nil {
		writeMachineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.machine.Snapshot())
}

func (s *Server) handleToggleSet(w http.ResponseWriter, r *http.Request) {
	setIndex, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid set index"})
		return
	}

	timer, err := s.machine.ToggleSet(chi.URLParam(r, "id"), setIndex)
	if err != nil {
		writeMachineError(w, err)
		return
	}
	if timer != nil && !timer.Finished() {
		// The countdown outlives this request.
		timer.Run(context.Background())
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"timer": timer != nil,
		"state": s.machine.Snapshot(),
	})
}

func (s *Server) handleStartSubTimer(w http.ResponseWriter, r *http.Request) {
	timer, err := s.machine.StartSubTimer()
	if err != nil {
		writeMachineError(w, err)
		return
	}
	timer.Run(context.Background())
	writeJSON(w, http.StatusOK, map[string]int{"seconds": session.SubTimerSeconds})
}

func (s *Server) handleExerciseHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	entries, err := s.machine.History(r.Context(), chi.URLParam(r, "variantId"), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleTimerState(w http.ResponseWriter, r *http.Request) {
	t := s.machine.Timer()
	if t == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no rest timer"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"remaining": t.Remaining(),
		"elapsed":   t.Elapsed(),
		"paused":    t.Paused(),
		"finished":  t.Finished(),
		"urgency":   t.Urgency(session.DefaultUrgencyThresholds),
	})
}

func (s *Server) handleTimerPause(w http.ResponseWriter, r *http.Request) {
	s.withTimer(w, func(t *session.RestTimer) { t.Pause() })
}

func (s *Server) handleTimerResume(w http.ResponseWriter, r *http.Request) {
	s.withTimer(w, func(t *session.RestTimer) { t.Resume() })
}

func (s *Server) handleTimerSkip(w http.ResponseWriter, r *http.Request) {
	s.withTimer(w, func(t *session.RestTimer) { t.Skip() })
}

func (s *Server) handleTimerClose(w http.ResponseWriter, r *http.Request) {
	s.withTimer(w, func(t *session.RestTimer) { t.Close() })
}

func (s *Server) handleTimerAdd(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Seconds int `json:"seconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	// Only the increments the UI offers.
	switch body.Seconds {
	case 10, 30, 60:
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "seconds must be 10, 30 or 60"})
		return
	}
	s.withTimer(w, func(t *session.RestTimer) { t.Add(body.Seconds) })
}

func (s *Server) withTimer(w http.ResponseWriter, fn func(*session.RestTimer)) {
	t := s.machine.Timer()
	if t == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no rest timer"})
		return
	}
	fn(t)
	writeJSON(w, http.StatusOK, map[string]any{
		"remaining": t.Remaining(),
		"elapsed":   t.Elapsed(),
		"paused":    t.Paused(),
		"finished":  t.Finished(),
	})
}

// coerceNumber turns a raw JSON value into a float64, treating anything
// non-numeric (strings, null, garbage) as zero.
func coerceNumber(raw json.RawMessage) float64 {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if f, err := strconv.ParseFloat(str, 64); err == nil {
			return f
		}
	}
	return 0
}

func writeMachineError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, session.ErrNoActiveSession) || errors.Is(err, session.ErrSessionActive) {
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
