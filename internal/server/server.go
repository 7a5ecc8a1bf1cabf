package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/claude/irontrack/internal/session"
	"github.com/claude/irontrack/internal/storage"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store   storage.Store
	machine *session.Machine
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured. An empty apiKey
// disables auth, for use behind tsnet where the network is the boundary.
func New(store storage.Store, machine *session.Machine, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		store:   store,
		machine: machine,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Mount attaches an extra handler subtree, e.g. the MCP endpoint.
func (s *Server) Mount(pattern string, h http.Handler) {
	s.router.Mount(pattern, h)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		if s.apiKey != "" {
			r.Use(APIKeyAuth(s.apiKey))
		}

		r.Get("/routines", s.handleGetRoutines)
		r.Put("/routines", s.handlePutRoutines)
		r.Get("/routines/active", s.handleGetActiveRoutine)
		r.Put("/routines/active", s.handlePutActiveRoutine)

		r.Get("/exercises", s.handleGetExercises)
		r.Put("/exercises", s.handlePutExercises)

		r.Get("/logs", s.handleGetLogs)
		r.Delete("/logs/{id}", s.handleDeleteLog)

		r.Get("/stats", s.handleGetStats)
		r.Put("/stats", s.handlePutStats)

		r.Get("/backup", s.handleBackup)
		r.Post("/restore", s.handleRestore)

		r.Route("/session", func(r chi.Router) {
			r.Get("/", s.handleSessionState)
			r.Get("/draft", s.handleSessionDraft)
			r.Post("/start", s.handleSessionStart)
			r.Post("/finish", s.handleSessionFinish)
			r.Post("/discard", s.handleSessionDiscard)

			r.Post("/exercises", s.handleAddExercise)
			r.Delete("/exercises/{id}", s.handleRemoveExercise)
			r.Post("/exercises/{id}/move", s.handleMoveExercise)
			r.Put("/exercises/{id}", s.handleEditExercise)
			r.Put("/exercises/{id}/rest", s.handleSetRestTime)
			r.Post("/exercises/{id}/copy-history", s.handleCopyHistory)

			r.Post("/exercises/{id}/sets", s.handleAddSet)
			r.Delete("/exercises/{id}/sets", s.handleRemoveSet)
			r.Put("/exercises/{id}/sets/{n}", s.handleUpdateSet)
			r.Post("/exercises/{id}/sets/{n}/toggle", s.handleToggleSet)
			r.Post("/exercises/{id}/sets/{n}/subtimer", s.handleStartSubTimer)

			r.Get("/history/{variantId}", s.handleExerciseHistory)

			r.Get("/timer", s.handleTimerState)
			r.Post("/timer/pause", s.handleTimerPause)
			r.Post("/timer/resume", s.handleTimerResume)
			r.Post("/timer/skip", s.handleTimerSkip)
			r.Post("/timer/close", s.handleTimerClose)
			r.Post("/timer/add", s.handleTimerAdd)
		})
	})
}
