// Package core wires the domain components into one application facade. The
// HTTP and MCP surfaces talk to this type instead of reaching into individual
// packages.
package core

import (
	"sync"
	"time"

	"github.com/claude/liftlog/internal/archive"
	"github.com/claude/liftlog/internal/catalog"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/recommend"
	"github.com/claude/liftlog/internal/records"
	"github.com/claude/liftlog/internal/schedule"
	"github.com/claude/liftlog/internal/session"
	"github.com/claude/liftlog/internal/timer"
	"github.com/google/uuid"
)

// App bundles the core components plus the user profile.
type App struct {
	Catalog   *catalog.Catalog
	Archive   *archive.Archive
	Records   *records.Engine
	Session   *session.Manager
	Recommend *recommend.Engine
	Schedule  *schedule.Manager
	Timer     *timer.RestTimer

	mu             sync.RWMutex
	profile        models.UserProfile
	persistProfile func(models.UserProfile)
}

// New creates the facade. persistProfile may be nil.
func New(cat *catalog.Catalog, arch *archive.Archive, rec *records.Engine,
	sess *session.Manager, recEngine *recommend.Engine, sched *schedule.Manager,
	rt *timer.RestTimer, profile models.UserProfile,
	persistProfile func(models.UserProfile)) *App {
	return &App{
		Catalog:        cat,
		Archive:        arch,
		Records:        rec,
		Session:        sess,
		Recommend:      recEngine,
		Schedule:       sched,
		Timer:          rt,
		profile:        profile,
		persistProfile: persistProfile,
	}
}

// Profile returns the current user profile.
func (a *App) Profile() models.UserProfile {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.profile
}

// SetProfile replaces the user profile and mirrors it to storage.
func (a *App) SetProfile(p models.UserProfile) {
	a.mu.Lock()
	a.profile = p
	persist := a.persistProfile
	a.mu.Unlock()
	if persist != nil {
		persist(p)
	}
}

// RecentSessions returns up to n archived sessions, most recent first.
func (a *App) RecentSessions(n int) []models.WorkoutLog {
	logs := a.Archive.Logs()
	if n > 0 && len(logs) > n {
		logs = logs[:n]
	}
	return logs
}

// PersonalRecords returns all stored personal records.
func (a *App) PersonalRecords() []models.PersonalRecord {
	return a.Records.Records()
}

// RecommendWorkouts answers a recommendation query against the stored profile.
func (a *App) RecommendWorkouts(count int, mood models.Mood) []models.Workout {
	return a.Recommend.Recommend(a.Profile(), count, mood)
}

// ScheduleForDate returns the scheduled workouts occupying a calendar date.
func (a *App) ScheduleForDate(date time.Time) []models.ScheduledWorkout {
	return a.Schedule.ForDate(date)
}

// ActiveSession returns a copy of the active session, if any.
func (a *App) ActiveSession() (models.WorkoutLog, bool) {
	return a.Session.Active()
}

// ExerciseVolume aggregates lifetime training volume for one exercise.
type ExerciseVolume struct {
	ExerciseID   string  `json:"exercise_id"`
	ExerciseName string  `json:"exercise_name"`
	Sessions     int     `json:"sessions"`
	Sets         int     `json:"sets"`
	Reps         int     `json:"reps"`
	Tonnage      float64 `json:"tonnage"`
}

// VolumeStats computes per-exercise set/rep/tonnage totals from the archive.
// Read-only reporting support; never mutates state.
func (a *App) VolumeStats() []ExerciseVolume {
	byExercise := make(map[string]*ExerciseVolume)
	var order []string

	for _, l := range a.Archive.Logs() {
		seen := make(map[string]bool)
		for _, ex := range l.Exercises {
			if len(ex.Sets) == 0 {
				continue
			}
			v, ok := byExercise[ex.ExerciseID]
			if !ok {
				v = &ExerciseVolume{ExerciseID: ex.ExerciseID}
				if def, found := a.Catalog.Exercise(ex.ExerciseID); found {
					v.ExerciseName = def.Name
				}
				byExercise[ex.ExerciseID] = v
				order = append(order, ex.ExerciseID)
			}
			if !seen[ex.ExerciseID] {
				v.Sessions++
				seen[ex.ExerciseID] = true
			}
			for _, s := range ex.Sets {
				v.Sets++
				if s.Reps > 0 {
					v.Reps += s.Reps
				}
				if s.Weight > 0 && s.Reps > 0 {
					v.Tonnage += s.Weight * float64(s.Reps)
				}
			}
		}
	}

	out := make([]ExerciseVolume, 0, len(order))
	for _, id := range order {
		out = append(out, *byExercise[id])
	}
	return out
}

// CopyLogToCustom converts a completed session into a custom template.
func (a *App) CopyLogToCustom(logID uuid.UUID) (string, bool) {
	return a.Schedule.CopyToCustom(logID)
}
