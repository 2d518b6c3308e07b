// Package schedule stores future workout placements and answers calendar
// queries. It also converts a completed session back into a reusable custom
// workout template.
package schedule

import (
	"sync"
	"time"

	"github.com/claude/liftlog/internal/archive"
	"github.com/claude/liftlog/internal/catalog"
	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

// Manager holds scheduled workouts. Entries have no dependency on the session
// lifecycle; the external caller creates and removes them directly.
type Manager struct {
	mu      sync.RWMutex
	entries []models.ScheduledWorkout

	catalog *catalog.Catalog
	archive *archive.Archive

	// persist/persistRemove, when set, mirror changes to durable storage.
	persist        func(models.ScheduledWorkout)
	persistRemove  func(uuid.UUID)
	persistWorkout func(models.Workout)
}

// New creates a Manager. The persist callbacks may be nil.
func New(cat *catalog.Catalog, arch *archive.Archive,
	persist func(models.ScheduledWorkout), persistRemove func(uuid.UUID),
	persistWorkout func(models.Workout)) *Manager {
	return &Manager{
		catalog:        cat,
		archive:        arch,
		persist:        persist,
		persistRemove:  persistRemove,
		persistWorkout: persistWorkout,
	}
}

// Restore replaces the entry list with previously persisted entries. Called
// once at boot; persist callbacks are not fired.
func (m *Manager) Restore(entries []models.ScheduledWorkout) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append([]models.ScheduledWorkout(nil), entries...)
}

// Add stores a scheduled workout, assigning an id when absent. Returns the
// stored entry, or false when the entry is malformed: a one-time entry needs
// a date, a recurring one a weekday in 0-6, and both a known workout.
func (m *Manager) Add(sw models.ScheduledWorkout) (models.ScheduledWorkout, bool) {
	if _, ok := m.catalog.Workout(sw.WorkoutID); !ok {
		return models.ScheduledWorkout{}, false
	}
	switch sw.Type {
	case models.ScheduleOneTime:
		if sw.Date == nil {
			return models.ScheduledWorkout{}, false
		}
	case models.ScheduleRecurring:
		if sw.DayOfWeek == nil || *sw.DayOfWeek < 0 || *sw.DayOfWeek > 6 {
			return models.ScheduledWorkout{}, false
		}
	default:
		return models.ScheduledWorkout{}, false
	}

	if sw.ID == uuid.Nil {
		sw.ID = uuid.New()
	}

	m.mu.Lock()
	m.entries = append(m.entries, sw)
	m.mu.Unlock()

	if m.persist != nil {
		m.persist(sw)
	}
	return sw, true
}

// Remove deletes a scheduled workout by id.
func (m *Manager) Remove(id uuid.UUID) bool {
	m.mu.Lock()
	found := false
	for i, e := range m.entries {
		if e.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			found = true
			break
		}
	}
	m.mu.Unlock()

	if found && m.persistRemove != nil {
		m.persistRemove(id)
	}
	return found
}

// All returns every scheduled workout.
func (m *Manager) All() []models.ScheduledWorkout {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.ScheduledWorkout(nil), m.entries...)
}

// ForDate returns entries occupying the given calendar date: one-time entries
// on that exact date, and recurring entries whose weekday matches and whose
// recurrence has not ended before it.
func (m *Manager) ForDate(date time.Time) []models.ScheduledWorkout {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.ScheduledWorkout
	for _, e := range m.entries {
		switch e.Type {
		case models.ScheduleOneTime:
			if e.Date != nil && sameDay(*e.Date, date) {
				out = append(out, e)
			}
		case models.ScheduleRecurring:
			if e.DayOfWeek != nil && *e.DayOfWeek == int(date.Weekday()) && !ended(e, date) {
				out = append(out, e)
			}
		}
	}
	return out
}

// RecurringForDay returns still-valid recurring entries for a weekday,
// ignoring specific dates. Validity is judged against the current day: an
// entry whose recurrence end date has passed no longer appears.
func (m *Manager) RecurringForDay(dayOfWeek int, today time.Time) []models.ScheduledWorkout {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.ScheduledWorkout
	for _, e := range m.entries {
		if e.Type != models.ScheduleRecurring || e.DayOfWeek == nil || *e.DayOfWeek != dayOfWeek {
			continue
		}
		if ended(e, today) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// CopyToCustom builds a custom workout template from a completed session:
// same prescriptions as the originating template, the session's actual
// duration, and the name suffixed with " (Custom)". Returns the new template
// id, or false when the session or its originating template cannot be found.
func (m *Manager) CopyToCustom(workoutLogID uuid.UUID) (string, bool) {
	log, ok := m.archive.Log(workoutLogID)
	if !ok {
		return "", false
	}
	origin, ok := m.catalog.Workout(log.WorkoutID)
	if !ok {
		return "", false
	}

	custom := models.Workout{
		ID:          uuid.NewString(),
		Name:        origin.Name + " (Custom)",
		Category:    origin.Category,
		Difficulty:  origin.Difficulty,
		Intensity:   origin.Intensity,
		DurationMin: log.DurationMin,
		Exercises:   append([]models.ExercisePrescription(nil), origin.Exercises...),
		IsCustom:    true,
	}
	if !m.catalog.AddWorkout(custom) {
		return "", false
	}
	if m.persistWorkout != nil {
		m.persistWorkout(custom)
	}
	return custom.ID, true
}

// sameDay compares calendar dates, ignoring time of day. Both times are
// compared in the query date's location.
func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// ended reports whether a recurring entry's recurrence end date falls before
// the given date (matching on the end date itself still counts).
func ended(e models.ScheduledWorkout, date time.Time) bool {
	if e.EndDate == nil {
		return false
	}
	end := *e.EndDate
	if sameDay(end, date) {
		return false
	}
	return date.After(end)
}
