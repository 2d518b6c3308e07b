package storage

import (
	"context"
	"fmt"

	"github.com/claude/liftlog/internal/models"
)

// State is everything the mirror restores at boot.
type State struct {
	Logs           []models.WorkoutLog
	Records        []models.PersonalRecord
	Scheduled      []models.ScheduledWorkout
	CustomWorkouts []models.Workout
	Settings       *models.TimerSettings
	Profile        *models.UserProfile
}

// LoadState reads the full mirror. Called once at boot, before traffic;
// afterwards the in-memory state is authoritative.
func (db *DB) LoadState(ctx context.Context) (*State, error) {
	var s State
	var err error

	if s.Logs, err = db.LoadWorkoutLogs(ctx); err != nil {
		return nil, fmt.Errorf("loading workout logs: %w", err)
	}
	if s.Records, err = db.LoadPersonalRecords(ctx); err != nil {
		return nil, fmt.Errorf("loading personal records: %w", err)
	}
	if s.Scheduled, err = db.LoadScheduledWorkouts(ctx); err != nil {
		return nil, fmt.Errorf("loading scheduled workouts: %w", err)
	}
	if s.CustomWorkouts, err = db.LoadCustomWorkouts(ctx); err != nil {
		return nil, fmt.Errorf("loading custom workouts: %w", err)
	}
	if s.Settings, err = db.LoadTimerSettings(ctx); err != nil {
		return nil, fmt.Errorf("loading timer settings: %w", err)
	}
	if s.Profile, err = db.LoadUserProfile(ctx); err != nil {
		return nil, fmt.Errorf("loading user profile: %w", err)
	}
	return &s, nil
}
