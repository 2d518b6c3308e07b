package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/claude/liftlog/internal/archive"
	"github.com/claude/liftlog/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, s.app.RecentSessions(limit))
}

func (s *Server) handleGetLog(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid log ID"})
		return
	}

	log, ok := s.app.Archive.Log(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "log not found"})
		return
	}
	writeJSON(w, http.StatusOK, log)
}

func (s *Server) handlePatchLog(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid log ID"})
		return
	}

	var upd archive.LogUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if !s.app.Archive.UpdateLog(id, upd) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "log not found"})
		return
	}
	log, _ := s.app.Archive.Log(id)
	writeJSON(w, http.StatusOK, log)
}

func (s *Server) handlePatchLogExercise(w http.ResponseWriter, r *http.Request) {
	id, exIdx, ok := parseLogExercisePath(w, r)
	if !ok {
		return
	}

	var upd archive.ExerciseUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if !s.app.Archive.UpdateLogExercise(id, exIdx, upd) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "log or exercise not found"})
		return
	}
	log, _ := s.app.Archive.Log(id)
	writeJSON(w, http.StatusOK, log)
}

func (s *Server) handlePatchLogSet(w http.ResponseWriter, r *http.Request) {
	id, exIdx, ok := parseLogExercisePath(w, r)
	if !ok {
		return
	}
	setIdx, err := strconv.Atoi(chi.URLParam(r, "setIdx"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid set index"})
		return
	}

	var upd archive.SetUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if !s.app.Archive.UpdateLogSet(id, exIdx, setIdx, upd) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "log, exercise or set not found"})
		return
	}
	log, _ := s.app.Archive.Log(id)
	writeJSON(w, http.StatusOK, log)
}

func (s *Server) handleAddLogSet(w http.ResponseWriter, r *http.Request) {
	id, exIdx, ok := parseLogExercisePath(w, r)
	if !ok {
		return
	}

	var set models.WorkoutSet
	if err := json.NewDecoder(r.Body).Decode(&set); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if !s.app.Archive.AddLogSet(id, exIdx, set) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "log or exercise not found"})
		return
	}
	log, _ := s.app.Archive.Log(id)
	writeJSON(w, http.StatusOK, log)
}

func (s *Server) handleRemoveLogSet(w http.ResponseWriter, r *http.Request) {
	id, exIdx, ok := parseLogExercisePath(w, r)
	if !ok {
		return
	}
	setIdx, err := strconv.Atoi(chi.URLParam(r, "setIdx"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid set index"})
		return
	}

	if !s.app.Archive.RemoveLogSet(id, exIdx, setIdx) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "log, exercise or set not found"})
		return
	}
	log, _ := s.app.Archive.Log(id)
	writeJSON(w, http.StatusOK, log)
}

func (s *Server) handleCopyToCustom(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid log ID"})
		return
	}

	customID, ok := s.app.CopyLogToCustom(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "log not found"})
		return
	}
	workout, _ := s.app.Catalog.Workout(customID)
	writeJSON(w, http.StatusOK, workout)
}

func parseLogExercisePath(w http.ResponseWriter, r *http.Request) (uuid.UUID, int, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid log ID"})
		return uuid.Nil, 0, false
	}
	exIdx, err := strconv.Atoi(chi.URLParam(r, "exIdx"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise index"})
		return uuid.Nil, 0, false
	}
	return id, exIdx, true
}
