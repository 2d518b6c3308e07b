package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/archive"
	"github.com/claude/liftlog/internal/catalog"
	"github.com/claude/liftlog/internal/core"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/recommend"
	"github.com/claude/liftlog/internal/records"
	"github.com/claude/liftlog/internal/schedule"
	"github.com/claude/liftlog/internal/session"
	"github.com/claude/liftlog/internal/timer"
)

const testKey = "test-key"

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cat := catalog.New()
	cat.AddExercise(models.Exercise{ID: "bench", Name: "Bench Press", Difficulty: "intermediate"})
	cat.AddExercise(models.Exercise{ID: "row", Name: "Barbell Row", Difficulty: "beginner"})
	cat.AddWorkout(models.Workout{
		ID: "push-day", Name: "Push Day", Category: "strength",
		Difficulty: "beginner", DurationMin: 45,
		Exercises: []models.ExercisePrescription{
			{ExerciseID: "bench", Sets: 3, Reps: 8, RestSec: 120},
			{ExerciseID: "row", Sets: 3, Reps: 10, RestSec: 90},
		},
	})
	cat.AddWorkout(models.Workout{
		ID: "quick-core", Name: "Quick Core", Category: "mobility",
		Difficulty: "beginner", DurationMin: 20,
	})

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	arch := archive.New(nil)
	rec := records.New(arch, nil, log, nil)
	rt := timer.New(nil)
	sess := session.New(cat, arch, rec, nil, rt, log, models.DefaultTimerSettings(), nil, nil)
	recEngine := recommend.New(cat, arch, nil, true, rand.New(rand.NewSource(1)))
	sched := schedule.New(cat, arch, nil, nil, nil)

	app := core.New(cat, arch, rec, sess, recEngine, sched, rt,
		models.UserProfile{FitnessLevel: "beginner"}, nil)
	return New(app, testKey, log)
}

func doJSON(t *testing.T, srv *Server, method, path string, body any, withKey bool) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if withKey {
		req.Header.Set("X-API-Key", testKey)
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

// TestSessionLifecycle drives a session through start, set logging, and
// completion over HTTP and checks the archive-facing endpoints afterwards.
func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/session/start",
		map[string]string{"workout_id": "push-day"}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("start: got status %d, want 200: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, srv, http.MethodGet, "/api/v1/session", nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("active session: got status %d, want 200", w.Code)
	}

	w = doJSON(t, srv, http.MethodPost, "/api/v1/session/sets", map[string]any{
		"exercise_index": 0,
		"set":            models.WorkoutSet{Weight: 80, Reps: 8, Completed: true},
	}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("log set: got status %d, want 200: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, srv, http.MethodPost, "/api/v1/session/complete", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("complete: got status %d, want 200", w.Code)
	}
	var completed models.WorkoutLog
	if err := json.Unmarshal(w.Body.Bytes(), &completed); err != nil {
		t.Fatalf("decoding completed session: %v", err)
	}
	if completed.EndTime == nil {
		t.Error("completed session has no end time")
	}

	w = doJSON(t, srv, http.MethodGet, "/api/v1/session", nil, false)
	if w.Code != http.StatusNotFound {
		t.Errorf("active session after complete: got status %d, want 404", w.Code)
	}

	w = doJSON(t, srv, http.MethodGet, "/api/v1/logs", nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("list logs: got status %d, want 200", w.Code)
	}
	var logs []models.WorkoutLog
	if err := json.Unmarshal(w.Body.Bytes(), &logs); err != nil {
		t.Fatalf("decoding logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("got %d archived logs, want 1", len(logs))
	}

	w = doJSON(t, srv, http.MethodGet, "/api/v1/logs/"+completed.ID.String(), nil, false)
	if w.Code != http.StatusOK {
		t.Errorf("get log by id: got status %d, want 200", w.Code)
	}
}

// TestStartSessionConflicts checks the start endpoint rejects an unknown
// workout and a second concurrent session.
func TestStartSessionConflicts(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/session/start",
		map[string]string{"workout_id": "no-such"}, true)
	if w.Code != http.StatusConflict {
		t.Errorf("unknown workout: got status %d, want 409", w.Code)
	}

	doJSON(t, srv, http.MethodPost, "/api/v1/session/start",
		map[string]string{"workout_id": "push-day"}, true)
	w = doJSON(t, srv, http.MethodPost, "/api/v1/session/start",
		map[string]string{"workout_id": "quick-core"}, true)
	if w.Code != http.StatusConflict {
		t.Errorf("second start: got status %d, want 409", w.Code)
	}
}

// TestAPIKeyAuth checks mutating routes reject missing and wrong keys while
// read-only routes stay open.
func TestAPIKeyAuth(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/session/start",
		map[string]string{"workout_id": "push-day"}, false)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("missing key: got status %d, want 401", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/session/cancel", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("wrong key: got status %d, want 403", rec.Code)
	}

	w = doJSON(t, srv, http.MethodGet, "/api/v1/catalog/workouts", nil, false)
	if w.Code != http.StatusOK {
		t.Errorf("read-only route with no key: got status %d, want 200", w.Code)
	}
}

// TestRecommendationsEndpoint checks count and mood parameters are honored.
func TestRecommendationsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/recommendations?count=1", nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200: %s", w.Code, w.Body.String())
	}
	var recs []models.Workout
	if err := json.Unmarshal(w.Body.Bytes(), &recs); err != nil {
		t.Fatalf("decoding recommendations: %v", err)
	}
	if len(recs) > 1 {
		t.Errorf("got %d recommendations, want at most 1", len(recs))
	}

	w = doJSON(t, srv, http.MethodGet, "/api/v1/recommendations?count=bad", nil, false)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad count: got status %d, want 400", w.Code)
	}
}

// TestScheduleEndpoints adds a one-time entry, queries it by date, and
// removes it.
func TestScheduleEndpoints(t *testing.T) {
	srv := newTestServer(t)
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/schedule", map[string]any{
		"workout_id": "push-day",
		"type":       "one-time",
		"date":       date.Format(time.RFC3339),
	}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("add: got status %d, want 200: %s", w.Code, w.Body.String())
	}
	var added models.ScheduledWorkout
	if err := json.Unmarshal(w.Body.Bytes(), &added); err != nil {
		t.Fatalf("decoding added entry: %v", err)
	}

	w = doJSON(t, srv, http.MethodGet, "/api/v1/schedule?date=2026-03-14", nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("query: got status %d, want 200", w.Code)
	}
	var got []models.ScheduledWorkout
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding schedule: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d entries on scheduled date, want 1", len(got))
	}

	w = doJSON(t, srv, http.MethodDelete, "/api/v1/schedule/"+added.ID.String(), nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("remove: got status %d, want 200", w.Code)
	}

	w = doJSON(t, srv, http.MethodGet, "/api/v1/schedule?date=2026-03-14", nil, false)
	json.Unmarshal(w.Body.Bytes(), &got)
	if len(got) != 0 {
		t.Errorf("got %d entries after removal, want 0", len(got))
	}
}

// TestProfileRoundTrip stores a profile and reads it back.
func TestProfileRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	p := models.UserProfile{FitnessLevel: "advanced", FitnessGoal: "strength", WeightKg: 82.5}
	w := doJSON(t, srv, http.MethodPut, "/api/v1/profile", p, true)
	if w.Code != http.StatusOK {
		t.Fatalf("put profile: got status %d, want 200", w.Code)
	}

	w = doJSON(t, srv, http.MethodGet, "/api/v1/profile", nil, false)
	var got models.UserProfile
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding profile: %v", err)
	}
	if got != p {
		t.Errorf("got profile %+v, want %+v", got, p)
	}
}

// TestPatchArchivedLog edits the note of a completed session through the
// post-hoc endpoint.
func TestPatchArchivedLog(t *testing.T) {
	srv := newTestServer(t)

	doJSON(t, srv, http.MethodPost, "/api/v1/session/start",
		map[string]string{"workout_id": "push-day"}, true)
	w := doJSON(t, srv, http.MethodPost, "/api/v1/session/complete", nil, true)
	var completed models.WorkoutLog
	if err := json.Unmarshal(w.Body.Bytes(), &completed); err != nil {
		t.Fatalf("decoding completed session: %v", err)
	}

	w = doJSON(t, srv, http.MethodPatch, "/api/v1/logs/"+completed.ID.String(),
		map[string]string{"note": "felt strong"}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("patch: got status %d, want 200: %s", w.Code, w.Body.String())
	}
	var patched models.WorkoutLog
	if err := json.Unmarshal(w.Body.Bytes(), &patched); err != nil {
		t.Fatalf("decoding patched log: %v", err)
	}
	if patched.Note != "felt strong" {
		t.Errorf("got note %q, want %q", patched.Note, "felt strong")
	}
}

// TestTimerEndpoints starts rest over HTTP and reads the timer state back.
func TestTimerEndpoints(t *testing.T) {
	srv := newTestServer(t)

	doJSON(t, srv, http.MethodPost, "/api/v1/session/start",
		map[string]string{"workout_id": "push-day"}, true)
	w := doJSON(t, srv, http.MethodPost, "/api/v1/session/rest",
		map[string]int{"seconds": 60}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("start rest: got status %d, want 200", w.Code)
	}

	w = doJSON(t, srv, http.MethodGet, "/api/v1/session/timer", nil, false)
	var state struct {
		Running          bool `json:"running"`
		Resting          bool `json:"resting"`
		RestRemainingSec int  `json:"rest_remaining_sec"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &state); err != nil {
		t.Fatalf("decoding timer state: %v", err)
	}
	if !state.Running || !state.Resting {
		t.Errorf("got running=%v resting=%v, want both true", state.Running, state.Resting)
	}
	if state.RestRemainingSec <= 0 || state.RestRemainingSec > 60 {
		t.Errorf("got rest remaining %ds, want within (0, 60]", state.RestRemainingSec)
	}
}
