package mcp

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/irontrack/internal/models"
	"github.com/claude/irontrack/internal/session"
)

// --- Tool definitions ---

var toolGetWorkoutLogs = mcp.NewTool("get_workout_logs",
	mcp.WithDescription("Retrieve completed workout sessions, newest first. Each session includes denormalized exercise names and the full per-set data (weight, reps, rest times)."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	mcp.WithNumber("limit", mcp.Description("Maximum sessions to return. Defaults to 50.")),
)

var toolGetExerciseHistory = mcp.NewTool("get_exercise_history",
	mcp.WithDescription("Past performances of one exercise variant, newest first. Use this to analyze progression for a specific lift."),
	mcp.WithString("variant_id", mcp.Required(), mcp.Description("Exercise variant id (e.g. v_pec_ban_ban)")),
	mcp.WithNumber("limit", mcp.Description("Maximum entries to return. Defaults to 10.")),
)

var toolListRoutines = mcp.NewTool("list_routines",
	mcp.WithDescription("List all training routines with their days and scheduled exercises."),
)

var toolGetBodyStats = mcp.NewTool("get_body_stats",
	mcp.WithDescription("Body measurements over time (weight, body fat, muscle mass), oldest first."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 90 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

// defaultTimeRange returns start/end defaulting to the given number of
// past days.
func defaultTimeRange(startStr, endStr string, defaultDays int) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -defaultDays)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// --- Tool handlers ---

func (h *handlers) getWorkoutLogs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""), 30)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}
	limit := req.GetInt("limit", 50)

	logs, err := h.store.GetWorkoutLogs(ctx)
	if err != nil {
		h.log.Error("get_workout_logs failed", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	filtered := filterByDate(logs, start, end)
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return jsonResult(filtered)
}

func (h *handlers) getExerciseHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	variantID, err := req.RequireString("variant_id")
	if err != nil {
		return mcp.NewToolResultError("variant_id parameter is required"), nil
	}
	limit := req.GetInt("limit", 10)

	logs, err := h.store.GetWorkoutLogs(ctx)
	if err != nil {
		h.log.Error("get_exercise_history failed", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(session.ExerciseHistory(logs, variantID, limit))
}

func (h *handlers) listRoutines(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	routines, err := h.store.GetRoutines(ctx)
	if err != nil {
		h.log.Error("list_routines failed", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(routines)
}

func (h *handlers) getBodyStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""), 90)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	stats, err := h.store.GetBodyStats(ctx)
	if err != nil {
		h.log.Error("get_body_stats failed", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	out := stats[:0:0]
	for _, st := range stats {
		if inRange(st.Date, start, end) {
			out = append(out, st)
		}
	}
	return jsonResult(out)
}

func filterByDate(logs []models.WorkoutSessionLog, start, end time.Time) []models.WorkoutSessionLog {
	out := make([]models.WorkoutSessionLog, 0, len(logs))
	for _, l := range logs {
		if inRange(l.Date, start, end) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

func inRange(unixMilli int64, start, end time.Time) bool {
	t := time.UnixMilli(unixMilli)
	return !t.Before(start) && !t.After(end)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}
