package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

// newTestServer creates an httptest server that routes requests to handler functions
// keyed by path. Verifies the HTTP client sends correct paths and query params.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestRecentSessionsClient verifies the HTTP client sends the limit param and
// parses the JSON array response.
func TestRecentSessionsClient(t *testing.T) {
	id := uuid.New()
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/logs": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("limit"); got != "3" {
				t.Errorf("limit=%q, want 3", got)
			}
			writeTestJSON(t, w, []models.WorkoutLog{
				{ID: id, WorkoutID: "push-day", StartTime: time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	logs, err := client.RecentSessions(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(logs) != 1 || logs[0].ID != id {
		t.Errorf("got %d logs, want the one stubbed session", len(logs))
	}
}

// TestRecommendWorkoutsClient verifies count and mood are forwarded as query
// params.
func TestRecommendWorkoutsClient(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/recommendations": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("count"); got != "2" {
				t.Errorf("count=%q, want 2", got)
			}
			if got := r.URL.Query().Get("mood"); got != "shorter" {
				t.Errorf("mood=%q, want shorter", got)
			}
			writeTestJSON(t, w, []models.Workout{{ID: "quick-core", Name: "Quick Core"}})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	workouts, err := client.RecommendWorkouts(context.Background(), 2, models.MoodShorter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(workouts) != 1 || workouts[0].ID != "quick-core" {
		t.Errorf("got %v, want the stubbed workout", workouts)
	}
}

// TestScheduleForDateClient verifies the date is sent as YYYY-MM-DD.
func TestScheduleForDateClient(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/schedule": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("date"); got != "2026-03-14" {
				t.Errorf("date=%q, want 2026-03-14", got)
			}
			writeTestJSON(t, w, []models.ScheduledWorkout{})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	date := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	if _, err := client.ScheduleForDate(context.Background(), date); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestActiveSessionClientNoSession verifies a 404 maps to a nil session, not
// an error.
func TestActiveSessionClientNoSession(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/session": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	active, err := client.ActiveSession(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if active != nil {
		t.Errorf("got session %v, want nil", active)
	}
}

// TestClientErrorStatus verifies non-200 responses surface as errors.
func TestClientErrorStatus(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/records": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	if _, err := client.PersonalRecords(context.Background()); err == nil {
		t.Error("expected error for 500 response")
	}
}
