// Package session owns the workout-session lifecycle: at most one session is
// active at a time, and every mutation against it flows through the Manager.
//
// Error policy: operations addressing stale state (no active session, bad
// index, unknown catalog id) are silent no-ops reported by a false return,
// never errors. The calls originate from UI state that may be transiently
// stale, and a stale tap must not crash a workout.
package session

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/claude/liftlog/internal/archive"
	"github.com/claude/liftlog/internal/catalog"
	"github.com/claude/liftlog/internal/gamify"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/records"
	"github.com/claude/liftlog/internal/timer"
	"github.com/google/uuid"
)

// Manager is the session state machine. All methods are safe for concurrent
// use; the active session is owned exclusively by the Manager and only copies
// escape.
type Manager struct {
	mu     sync.Mutex
	active *models.WorkoutLog

	catalog *catalog.Catalog
	archive *archive.Archive
	records *records.Engine
	gamify  gamify.Collaborator
	timer   *timer.RestTimer
	log     *slog.Logger
	now     func() time.Time

	settings        models.TimerSettings
	persistSettings func(models.TimerSettings)
}

// New creates a Manager. now may be nil (time.Now); persistSettings may be nil.
func New(cat *catalog.Catalog, arch *archive.Archive, rec *records.Engine,
	collab gamify.Collaborator, rt *timer.RestTimer, log *slog.Logger,
	settings models.TimerSettings, persistSettings func(models.TimerSettings),
	now func() time.Time) *Manager {
	if collab == nil {
		collab = gamify.Noop{}
	}
	if now == nil {
		now = time.Now
	}
	return &Manager{
		catalog:         cat,
		archive:         arch,
		records:         rec,
		gamify:          collab,
		timer:           rt,
		log:             log,
		now:             now,
		settings:        settings,
		persistSettings: persistSettings,
	}
}

// Start begins a session from a workout template. No-op if a session is
// already active or the template is unknown. Prescriptions referencing
// unknown exercises are dropped.
func (m *Manager) Start(workoutID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active != nil {
		return false
	}
	w, ok := m.catalog.Workout(workoutID)
	if !ok {
		return false
	}

	now := m.now()
	log := &models.WorkoutLog{
		ID:        uuid.New(),
		WorkoutID: w.ID,
		CreatedAt: now,
		StartTime: now,
	}
	for _, p := range w.Exercises {
		if _, ok := m.catalog.Exercise(p.ExerciseID); !ok {
			continue
		}
		log.Exercises = append(log.Exercises, models.ExerciseLog{ExerciseID: p.ExerciseID})
	}
	m.active = log
	return true
}

// Active returns a copy of the active session, if any.
func (m *Manager) Active() (models.WorkoutLog, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return models.WorkoutLog{}, false
	}
	return cloneLog(*m.active), true
}

// Cancel discards the active session without archiving it.
func (m *Manager) Cancel() {
	m.mu.Lock()
	m.active = nil
	m.mu.Unlock()
}

// Complete stamps the end time, computes the whole-minute duration, moves the
// session into the archive, and fires the gamification hooks best-effort.
// Returns the completed session; false with no active session.
func (m *Manager) Complete() (models.WorkoutLog, bool) {
	m.mu.Lock()
	if m.active == nil {
		m.mu.Unlock()
		return models.WorkoutLog{}, false
	}
	log := m.active
	m.active = nil

	end := m.now()
	log.EndTime = &end
	log.DurationMin = int(math.Round(end.Sub(log.StartTime).Minutes()))
	log.Completed = true
	done := cloneLog(*log)
	m.mu.Unlock()

	m.archive.Append(done)
	m.fireCompletionHooks()

	return done, true
}

// fireCompletionHooks runs the streak and achievement/challenge side effects.
// Failures are logged and never surface to the caller of Complete.
func (m *Manager) fireCompletionHooks() {
	if err := m.gamify.UpdateStreak(); err != nil {
		m.log.Warn("gamify streak update failed", "error", err)
	}
	if err := m.gamify.CheckAchievements(); err != nil {
		m.log.Warn("gamify achievement check failed", "error", err)
	}
	if err := m.gamify.UpdateChallengeProgress("weekly-sessions", m.sessionsThisWeek()); err != nil {
		m.log.Warn("gamify challenge update failed", "error", err)
	}
	if err := m.gamify.CompleteDailyQuest("complete-workout"); err != nil {
		m.log.Warn("gamify quest completion failed", "error", err)
	}
}

// sessionsThisWeek counts archived sessions since the start of the current
// ISO week (Monday).
func (m *Manager) sessionsThisWeek() int {
	now := m.now()
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the ending week
	}
	monday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -(weekday - 1))

	count := 0
	for _, l := range m.archive.Logs() {
		if !l.StartTime.Before(monday) {
			count++
		}
	}
	return count
}

// LogSet appends a set to an exercise in the active session. A set with
// positive weight and reps is immediately evaluated for a personal record.
// With auto-start-rest enabled, the rest countdown starts at the configured
// default.
func (m *Manager) LogSet(exerciseIndex int, set models.WorkoutSet) bool {
	m.mu.Lock()
	if m.active == nil || exerciseIndex < 0 || exerciseIndex >= len(m.active.Exercises) {
		m.mu.Unlock()
		return false
	}
	exLog := &m.active.Exercises[exerciseIndex]
	exLog.Sets = append(exLog.Sets, set)
	exerciseID := exLog.ExerciseID
	autoRest := m.settings.AutoStartRest
	restSec := m.settings.DefaultRestSec
	m.mu.Unlock()

	if set.Weight > 0 && set.Reps > 0 {
		if ex, ok := m.catalog.Exercise(exerciseID); ok {
			if rec, isPR := m.records.Evaluate(ex, set.Weight, set.Reps, m.now()); isPR {
				m.log.Info("new personal record",
					"exercise", rec.ExerciseName,
					"weight", rec.Weight,
					"reps", rec.Reps,
					"estimated_1rm", rec.EstimatedOneRM,
				)
			}
		}
	}

	if autoRest && m.timer != nil {
		m.timer.StartRest(time.Duration(restSec) * time.Second)
	}
	return true
}

// StartRest starts the rest countdown, applying the configured default when
// no duration is given.
func (m *Manager) StartRest(d time.Duration) {
	if m.timer == nil {
		return
	}
	if d <= 0 {
		m.mu.Lock()
		d = time.Duration(m.settings.DefaultRestSec) * time.Second
		m.mu.Unlock()
	}
	m.timer.StartRest(d)
}

// UpdateSetWeight mutates one existing set's weight in place.
func (m *Manager) UpdateSetWeight(exerciseIndex, setIndex int, weight float64) bool {
	return m.mutateSet(exerciseIndex, setIndex, func(s *models.WorkoutSet) {
		s.Weight = weight
	})
}

// UpdateSetReps mutates one existing set's rep count in place.
func (m *Manager) UpdateSetReps(exerciseIndex, setIndex, reps int) bool {
	return m.mutateSet(exerciseIndex, setIndex, func(s *models.WorkoutSet) {
		s.Reps = reps
	})
}

// UpdateSetCompleted toggles one existing set's completed flag.
func (m *Manager) UpdateSetCompleted(exerciseIndex, setIndex int, completed bool) bool {
	return m.mutateSet(exerciseIndex, setIndex, func(s *models.WorkoutSet) {
		s.Completed = completed
	})
}

// UpdateSetNote replaces one existing set's note.
func (m *Manager) UpdateSetNote(exerciseIndex, setIndex int, note string) bool {
	return m.mutateSet(exerciseIndex, setIndex, func(s *models.WorkoutSet) {
		s.Note = note
	})
}

// UpdateExerciseNote replaces an exercise's free-text note.
func (m *Manager) UpdateExerciseNote(exerciseIndex int, note string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil || exerciseIndex < 0 || exerciseIndex >= len(m.active.Exercises) {
		return false
	}
	m.active.Exercises[exerciseIndex].Note = note
	return true
}

// UpdateWorkoutNote replaces the session's overall note.
func (m *Manager) UpdateWorkoutNote(note string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return false
	}
	m.active.Note = note
	return true
}

// ReorderExercises moves one exercise to a new position, preserving the
// relative order of all others. Reordering an index onto itself is an
// identity operation.
func (m *Manager) ReorderExercises(from, to int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return false
	}
	n := len(m.active.Exercises)
	if from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	if from == to {
		return true
	}
	exs := m.active.Exercises
	moved := exs[from]
	exs = append(exs[:from], exs[from+1:]...)
	exs = append(exs[:to], append([]models.ExerciseLog{moved}, exs[to:]...)...)
	m.active.Exercises = exs
	return true
}

// MarkExerciseCompleted sets the manual exercise completion flag, which is
// independent of per-set completion.
func (m *Manager) MarkExerciseCompleted(exerciseIndex int, completed bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil || exerciseIndex < 0 || exerciseIndex >= len(m.active.Exercises) {
		return false
	}
	m.active.Exercises[exerciseIndex].Completed = completed
	return true
}

// RateWorkout attaches a 1-5 rating to the active session. Out-of-range
// scores are rejected.
func (m *Manager) RateWorkout(r models.WorkoutRating) bool {
	if r.Overall < 1 || r.Overall > 5 {
		return false
	}
	for _, sub := range []int{r.Difficulty, r.Energy, r.Enjoyment} {
		if sub < 0 || sub > 5 {
			return false
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return false
	}
	m.active.Rating = &r
	return true
}

// AddWorkoutMedia attaches a media reference to the active session.
func (m *Manager) AddWorkoutMedia(ref string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil || ref == "" {
		return false
	}
	m.active.Media = append(m.active.Media, ref)
	return true
}

// IsExerciseCompleted returns the manual completion flag for an exercise.
func (m *Manager) IsExerciseCompleted(exerciseIndex int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil || exerciseIndex < 0 || exerciseIndex >= len(m.active.Exercises) {
		return false
	}
	return m.active.Exercises[exerciseIndex].Completed
}

// AreAllSetsCompleted reports whether an exercise has at least one set and
// every set carries a defined (possibly zero, never negative) weight and rep
// count. An exercise with no logged sets is never considered complete.
func (m *Manager) AreAllSetsCompleted(exerciseIndex int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil || exerciseIndex < 0 || exerciseIndex >= len(m.active.Exercises) {
		return false
	}
	sets := m.active.Exercises[exerciseIndex].Sets
	if len(sets) == 0 {
		return false
	}
	for _, s := range sets {
		if s.Weight < 0 || math.IsNaN(s.Weight) || s.Reps < 0 {
			return false
		}
	}
	return true
}

// Settings returns the current timer settings.
func (m *Manager) Settings() models.TimerSettings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

// SetSettings replaces the timer settings and mirrors them to storage.
func (m *Manager) SetSettings(s models.TimerSettings) {
	m.mu.Lock()
	m.settings = s
	persist := m.persistSettings
	m.mu.Unlock()
	if persist != nil {
		persist(s)
	}
}

func (m *Manager) mutateSet(exerciseIndex, setIndex int, fn func(*models.WorkoutSet)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil || exerciseIndex < 0 || exerciseIndex >= len(m.active.Exercises) {
		return false
	}
	sets := m.active.Exercises[exerciseIndex].Sets
	if setIndex < 0 || setIndex >= len(sets) {
		return false
	}
	fn(&sets[setIndex])
	return true
}

func cloneLog(l models.WorkoutLog) models.WorkoutLog {
	out := l
	out.Exercises = make([]models.ExerciseLog, len(l.Exercises))
	for i, ex := range l.Exercises {
		c := ex
		c.Sets = append([]models.WorkoutSet(nil), ex.Sets...)
		out.Exercises[i] = c
	}
	if l.Rating != nil {
		r := *l.Rating
		out.Rating = &r
	}
	out.Media = append([]string(nil), l.Media...)
	if l.EndTime != nil {
		t := *l.EndTime
		out.EndTime = &t
	}
	return out
}
