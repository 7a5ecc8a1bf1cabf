// Package mcp exposes the training data to AI assistants over the Model
// Context Protocol. All tools are read-only: assistants analyze history,
// they never mutate a live session.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/irontrack/internal/storage"
)

// New creates an MCP server with all tools and resources registered.
func New(store storage.Store, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("IronTrack", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("IronTrack workout tracking server. Query workout session history, per-exercise progression, routines, and body stats. All data is read-only."),
	)

	h := &handlers{store: store, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetWorkoutLogs, Handler: h.getWorkoutLogs},
		server.ServerTool{Tool: toolGetExerciseHistory, Handler: h.getExerciseHistory},
		server.ServerTool{Tool: toolListRoutines, Handler: h.listRoutines},
		server.ServerTool{Tool: toolGetBodyStats, Handler: h.getBodyStats},
	)

	s.AddResources(
		server.ServerResource{Resource: resRecentSessions, Handler: h.recentSessions},
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	store storage.Store
	log   *slog.Logger
}

// --- Resource definitions ---

var resRecentSessions = mcp.NewResource(
	"irontrack://recent_sessions",
	"Recent Sessions",
	mcp.WithResourceDescription("Workout sessions from the last 30 days, newest first"),
	mcp.WithMIMEType("application/json"),
)

var resExerciseCatalog = mcp.NewResource(
	"irontrack://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("All exercise bases with their variants, grouped by muscle group"),
	mcp.WithMIMEType("application/json"),
)
