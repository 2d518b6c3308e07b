package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// stubSource is a canned DataSource for tool handler tests.
type stubSource struct {
	sessions []models.WorkoutLog
	records  []models.PersonalRecord
	workouts []models.Workout
	schedule []models.ScheduledWorkout
	active   *models.WorkoutLog

	lastLimit int
	lastMood  models.Mood
	lastDate  time.Time
}

func (s *stubSource) RecentSessions(_ context.Context, n int) ([]models.WorkoutLog, error) {
	s.lastLimit = n
	return s.sessions, nil
}

func (s *stubSource) PersonalRecords(_ context.Context) ([]models.PersonalRecord, error) {
	return s.records, nil
}

func (s *stubSource) RecommendWorkouts(_ context.Context, count int, mood models.Mood) ([]models.Workout, error) {
	s.lastLimit = count
	s.lastMood = mood
	return s.workouts, nil
}

func (s *stubSource) ScheduleForDate(_ context.Context, date time.Time) ([]models.ScheduledWorkout, error) {
	s.lastDate = date
	return s.schedule, nil
}

func (s *stubSource) ActiveSession(_ context.Context) (*models.WorkoutLog, error) {
	return s.active, nil
}

func newTestHandlers(src *stubSource) *handlers {
	return &handlers{
		ds:  src,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func callReq(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", result.Content[0])
	}
	return text.Text
}

// TestGetRecentSessionsTool verifies the limit argument is forwarded and the
// sessions come back as JSON.
func TestGetRecentSessionsTool(t *testing.T) {
	src := &stubSource{sessions: []models.WorkoutLog{
		{ID: uuid.New(), WorkoutID: "push-day"},
	}}
	h := newTestHandlers(src)

	result, err := h.getRecentSessions(context.Background(), callReq(map[string]any{"limit": 3}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool returned error: %s", resultText(t, result))
	}
	if src.lastLimit != 3 {
		t.Errorf("limit forwarded as %d, want 3", src.lastLimit)
	}

	var got []models.WorkoutLog
	if err := json.Unmarshal([]byte(resultText(t, result)), &got); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if len(got) != 1 || got[0].WorkoutID != "push-day" {
		t.Errorf("got %v, want the stubbed session", got)
	}
}

// TestRecommendWorkoutsTool verifies count and mood arguments reach the data
// source.
func TestRecommendWorkoutsTool(t *testing.T) {
	src := &stubSource{workouts: []models.Workout{{ID: "quick-core"}}}
	h := newTestHandlers(src)

	result, err := h.recommendWorkouts(context.Background(),
		callReq(map[string]any{"count": 2, "mood": "light"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool returned error: %s", resultText(t, result))
	}
	if src.lastLimit != 2 {
		t.Errorf("count forwarded as %d, want 2", src.lastLimit)
	}
	if src.lastMood != models.MoodLight {
		t.Errorf("mood forwarded as %q, want light", src.lastMood)
	}
}

// TestGetScheduleToolParsesDate verifies the date argument is parsed and an
// invalid date is rejected without reaching the data source.
func TestGetScheduleToolParsesDate(t *testing.T) {
	src := &stubSource{}
	h := newTestHandlers(src)

	result, err := h.getSchedule(context.Background(), callReq(map[string]any{"date": "2026-03-14"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool returned error: %s", resultText(t, result))
	}
	if src.lastDate.Format("2006-01-02") != "2026-03-14" {
		t.Errorf("date forwarded as %v, want 2026-03-14", src.lastDate)
	}

	result, err = h.getSchedule(context.Background(), callReq(map[string]any{"date": "14/03/2026"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error for malformed date")
	}
}

// TestGetActiveSessionToolNone verifies the no-session case returns a plain
// text message rather than an error.
func TestGetActiveSessionToolNone(t *testing.T) {
	h := newTestHandlers(&stubSource{})

	result, err := h.getActiveSession(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("no active session should not be a tool error")
	}
	if got := resultText(t, result); got != "no active session" {
		t.Errorf("got %q, want %q", got, "no active session")
	}
}
