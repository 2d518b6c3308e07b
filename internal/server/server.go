// Package server exposes the training core over HTTP.
package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/liftlog/internal/core"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	app    *core.App
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(app *core.App, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		app:    app,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Read-only endpoints (no auth — tsnet handles access)
	s.router.Get("/api/v1/session", s.handleActiveSession)
	s.router.Get("/api/v1/session/timer", s.handleTimerState)
	s.router.Get("/api/v1/logs", s.handleListLogs)
	s.router.Get("/api/v1/logs/{id}", s.handleGetLog)
	s.router.Get("/api/v1/records", s.handleListRecords)
	s.router.Get("/api/v1/records/{exerciseID}", s.handleGetRecord)
	s.router.Get("/api/v1/recommendations", s.handleRecommendations)
	s.router.Get("/api/v1/schedule", s.handleScheduleForDate)
	s.router.Get("/api/v1/schedule/recurring", s.handleRecurringForDay)
	s.router.Get("/api/v1/catalog/workouts", s.handleCatalogWorkouts)
	s.router.Get("/api/v1/catalog/exercises", s.handleCatalogExercises)
	s.router.Get("/api/v1/profile", s.handleGetProfile)
	s.router.Get("/api/v1/settings", s.handleGetSettings)
	s.router.Get("/api/v1/stats/volume", s.handleVolumeStats)

	// Mutating endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))

		r.Post("/api/v1/session/start", s.handleStartSession)
		r.Post("/api/v1/session/cancel", s.handleCancelSession)
		r.Post("/api/v1/session/complete", s.handleCompleteSession)
		r.Post("/api/v1/session/sets", s.handleLogSet)
		r.Patch("/api/v1/session/sets", s.handleUpdateSet)
		r.Post("/api/v1/session/rest", s.handleStartRest)
		r.Post("/api/v1/session/rest/skip", s.handleSkipRest)
		r.Post("/api/v1/session/timer/pause", s.handlePauseTimer)
		r.Post("/api/v1/session/timer/reset", s.handleResetTimer)
		r.Post("/api/v1/session/note", s.handleWorkoutNote)
		r.Post("/api/v1/session/exercises/note", s.handleExerciseNote)
		r.Post("/api/v1/session/exercises/reorder", s.handleReorderExercises)
		r.Post("/api/v1/session/exercises/complete", s.handleMarkExerciseCompleted)
		r.Post("/api/v1/session/rating", s.handleRateWorkout)
		r.Post("/api/v1/session/media", s.handleAddMedia)

		r.Patch("/api/v1/logs/{id}", s.handlePatchLog)
		r.Patch("/api/v1/logs/{id}/exercises/{exIdx}", s.handlePatchLogExercise)
		r.Patch("/api/v1/logs/{id}/exercises/{exIdx}/sets/{setIdx}", s.handlePatchLogSet)
		r.Post("/api/v1/logs/{id}/exercises/{exIdx}/sets", s.handleAddLogSet)
		r.Delete("/api/v1/logs/{id}/exercises/{exIdx}/sets/{setIdx}", s.handleRemoveLogSet)
		r.Post("/api/v1/logs/{id}/copy-to-custom", s.handleCopyToCustom)

		r.Post("/api/v1/schedule", s.handleAddScheduled)
		r.Delete("/api/v1/schedule/{id}", s.handleRemoveScheduled)

		r.Put("/api/v1/profile", s.handlePutProfile)
		r.Put("/api/v1/settings", s.handlePutSettings)
	})
}
