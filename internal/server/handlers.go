package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/claude/liftlog/internal/models"
)

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WorkoutID string `json:"workout_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.WorkoutID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "workout_id required"})
		return
	}

	if !s.app.Session.Start(req.WorkoutID) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "session already active or unknown workout"})
		return
	}
	active, _ := s.app.Session.Active()
	writeJSON(w, http.StatusOK, active)
}

func (s *Server) handleCancelSession(w http.ResponseWriter, r *http.Request) {
	// Cancelling with no active session is a no-op, not an error.
	s.app.Session.Cancel()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	completed, ok := s.app.Session.Complete()
	if !ok {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no active session"})
		return
	}
	writeJSON(w, http.StatusOK, completed)
}

func (s *Server) handleActiveSession(w http.ResponseWriter, r *http.Request) {
	active, ok := s.app.Session.Active()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active session"})
		return
	}
	writeJSON(w, http.StatusOK, active)
}

func (s *Server) handleLogSet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExerciseIndex int               `json:"exercise_index"`
		Set           models.WorkoutSet `json:"set"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if !s.app.Session.LogSet(req.ExerciseIndex, req.Set) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no active session or exercise index out of range"})
		return
	}
	active, _ := s.app.Session.Active()
	writeJSON(w, http.StatusOK, active)
}

func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExerciseIndex int      `json:"exercise_index"`
		SetIndex      int      `json:"set_index"`
		Weight        *float64 `json:"weight,omitempty"`
		Reps          *int     `json:"reps,omitempty"`
		Completed     *bool    `json:"completed,omitempty"`
		Note          *string  `json:"note,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	ok := true
	if req.Weight != nil {
		ok = s.app.Session.UpdateSetWeight(req.ExerciseIndex, req.SetIndex, *req.Weight) && ok
	}
	if req.Reps != nil {
		ok = s.app.Session.UpdateSetReps(req.ExerciseIndex, req.SetIndex, *req.Reps) && ok
	}
	if req.Completed != nil {
		ok = s.app.Session.UpdateSetCompleted(req.ExerciseIndex, req.SetIndex, *req.Completed) && ok
	}
	if req.Note != nil {
		ok = s.app.Session.UpdateSetNote(req.ExerciseIndex, req.SetIndex, *req.Note) && ok
	}
	if !ok {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no active session or index out of range"})
		return
	}
	active, _ := s.app.Session.Active()
	writeJSON(w, http.StatusOK, active)
}

func (s *Server) handleStartRest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Seconds int `json:"seconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	s.app.Session.StartRest(time.Duration(req.Seconds) * time.Second)
	s.writeTimerState(w)
}

func (s *Server) handleSkipRest(w http.ResponseWriter, r *http.Request) {
	s.app.Timer.Skip()
	s.writeTimerState(w)
}

func (s *Server) handlePauseTimer(w http.ResponseWriter, r *http.Request) {
	s.app.Timer.Pause()
	s.writeTimerState(w)
}

func (s *Server) handleResetTimer(w http.ResponseWriter, r *http.Request) {
	s.app.Timer.Reset()
	s.writeTimerState(w)
}

func (s *Server) handleTimerState(w http.ResponseWriter, r *http.Request) {
	s.writeTimerState(w)
}

func (s *Server) writeTimerState(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]any{
		"running":            s.app.Timer.Running(),
		"resting":            s.app.Timer.Resting(),
		"elapsed_sec":        int(s.app.Timer.Elapsed().Seconds()),
		"rest_remaining_sec": int(s.app.Timer.RestRemaining().Seconds()),
	})
}

func (s *Server) handleWorkoutNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Note string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if !s.app.Session.UpdateWorkoutNote(req.Note) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no active session"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleExerciseNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExerciseIndex int    `json:"exercise_index"`
		Note          string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if !s.app.Session.UpdateExerciseNote(req.ExerciseIndex, req.Note) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no active session or exercise index out of range"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleReorderExercises(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if !s.app.Session.ReorderExercises(req.From, req.To) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no active session or index out of range"})
		return
	}
	active, _ := s.app.Session.Active()
	writeJSON(w, http.StatusOK, active)
}

func (s *Server) handleMarkExerciseCompleted(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExerciseIndex int  `json:"exercise_index"`
		Completed     bool `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if !s.app.Session.MarkExerciseCompleted(req.ExerciseIndex, req.Completed) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no active session or exercise index out of range"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleRateWorkout(w http.ResponseWriter, r *http.Request) {
	var rating models.WorkoutRating
	if err := json.NewDecoder(r.Body).Decode(&rating); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if !s.app.Session.RateWorkout(rating) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no active session or rating out of range"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleAddMedia(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Ref string `json:"ref"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Ref == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "ref required"})
		return
	}

	if !s.app.Session.AddWorkoutMedia(req.Ref) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no active session"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
