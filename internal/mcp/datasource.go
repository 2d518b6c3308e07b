package mcp

import (
	"context"
	"time"

	"github.com/claude/liftlog/internal/core"
	"github.com/claude/liftlog/internal/models"
)

// DataSource abstracts the training data for MCP tools. LocalSource (in
// process) and HTTPClient (remote via REST API) both satisfy this interface.
type DataSource interface {
	RecentSessions(ctx context.Context, n int) ([]models.WorkoutLog, error)
	PersonalRecords(ctx context.Context) ([]models.PersonalRecord, error)
	RecommendWorkouts(ctx context.Context, count int, mood models.Mood) ([]models.Workout, error)
	ScheduleForDate(ctx context.Context, date time.Time) ([]models.ScheduledWorkout, error)
	// ActiveSession returns nil when no session is active.
	ActiveSession(ctx context.Context) (*models.WorkoutLog, error)
}

// LocalSource adapts the in-process core facade to DataSource.
type LocalSource struct {
	App *core.App
}

// Compile-time check: LocalSource satisfies DataSource.
var _ DataSource = LocalSource{}

func (s LocalSource) RecentSessions(_ context.Context, n int) ([]models.WorkoutLog, error) {
	return s.App.RecentSessions(n), nil
}

func (s LocalSource) PersonalRecords(_ context.Context) ([]models.PersonalRecord, error) {
	return s.App.PersonalRecords(), nil
}

func (s LocalSource) RecommendWorkouts(_ context.Context, count int, mood models.Mood) ([]models.Workout, error) {
	return s.App.RecommendWorkouts(count, mood), nil
}

func (s LocalSource) ScheduleForDate(_ context.Context, date time.Time) ([]models.ScheduledWorkout, error) {
	return s.App.ScheduleForDate(date), nil
}

func (s LocalSource) ActiveSession(_ context.Context) (*models.WorkoutLog, error) {
	active, ok := s.App.ActiveSession()
	if !ok {
		return nil, nil
	}
	return &active, nil
}
