package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Records.Records())
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	exerciseID := chi.URLParam(r, "exerciseID")
	rec, ok := s.app.Records.Record(exerciseID)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no record for exercise"})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	count := 5
	if c := r.URL.Query().Get("count"); c != "" {
		n, err := strconv.Atoi(c)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid count"})
			return
		}
		count = n
	}
	mood := models.ParseMood(r.URL.Query().Get("mood"))

	writeJSON(w, http.StatusOK, s.app.RecommendWorkouts(count, mood))
}

func (s *Server) handleScheduleForDate(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		writeJSON(w, http.StatusOK, s.app.Schedule.All())
		return
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date, want YYYY-MM-DD"})
		return
	}
	writeJSON(w, http.StatusOK, s.app.Schedule.ForDate(date))
}

func (s *Server) handleRecurringForDay(w http.ResponseWriter, r *http.Request) {
	day, err := strconv.Atoi(r.URL.Query().Get("day"))
	if err != nil || day < 0 || day > 6 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "day must be 0 (Sunday) through 6"})
		return
	}
	writeJSON(w, http.StatusOK, s.app.Schedule.RecurringForDay(day, time.Now()))
}

func (s *Server) handleAddScheduled(w http.ResponseWriter, r *http.Request) {
	var sw models.ScheduledWorkout
	if err := json.NewDecoder(r.Body).Decode(&sw); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	added, ok := s.app.Schedule.Add(sw)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown workout or malformed schedule entry"})
		return
	}
	writeJSON(w, http.StatusOK, added)
}

func (s *Server) handleRemoveScheduled(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid schedule ID"})
		return
	}

	if !s.app.Schedule.Remove(id) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "schedule entry not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleCatalogWorkouts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Catalog.Workouts())
}

func (s *Server) handleCatalogExercises(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Catalog.Exercises())
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Profile())
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var p models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	s.app.SetProfile(p)
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Session.Settings())
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var ts models.TimerSettings
	if err := json.NewDecoder(r.Body).Decode(&ts); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if ts.DefaultRestSec <= 0 || ts.DefaultSetCount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "default_rest_sec and default_set_count must be positive"})
		return
	}
	s.app.Session.SetSettings(ts)
	writeJSON(w, http.StatusOK, ts)
}

func (s *Server) handleVolumeStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.VolumeStats())
}
