// Package archive is the in-memory store of completed workout sessions.
// The in-memory state is authoritative; every change is handed to an optional
// persist callback which mirrors it to durable storage fire-and-forget.
package archive

import (
	"sort"
	"sync"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

// Archive holds completed sessions, most recent first.
type Archive struct {
	mu   sync.RWMutex
	logs []models.WorkoutLog

	// persist, when set, receives a copy of every appended or edited log.
	persist func(models.WorkoutLog)
}

// New creates an empty archive. The persist callback may be nil.
func New(persist func(models.WorkoutLog)) *Archive {
	return &Archive{persist: persist}
}

// Restore replaces the archive contents with previously persisted logs.
// Called once at boot, before any traffic; the persist callback is not fired.
func (a *Archive) Restore(logs []models.WorkoutLog) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.logs = append([]models.WorkoutLog(nil), logs...)
	sort.SliceStable(a.logs, func(i, j int) bool {
		return a.logs[i].StartTime.After(a.logs[j].StartTime)
	})
}

// Append stores a completed session.
func (a *Archive) Append(log models.WorkoutLog) {
	a.mu.Lock()
	a.logs = append([]models.WorkoutLog{log}, a.logs...)
	a.mu.Unlock()
	a.notify(log)
}

// Logs returns all archived sessions, most recent first.
func (a *Archive) Logs() []models.WorkoutLog {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]models.WorkoutLog, len(a.logs))
	for i, l := range a.logs {
		out[i] = cloneLog(l)
	}
	return out
}

// Log returns the archived session with the given id.
func (a *Archive) Log(id uuid.UUID) (models.WorkoutLog, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, l := range a.logs {
		if l.ID == id {
			return cloneLog(l), true
		}
	}
	return models.WorkoutLog{}, false
}

// Len returns the number of archived sessions.
func (a *Archive) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.logs)
}

// SessionsWithExercise counts completed sessions containing at least one
// logged set for the given exercise. Feeds the personal-record warm-up gate.
func (a *Archive) SessionsWithExercise(exerciseID string) int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	count := 0
	for _, l := range a.logs {
		for _, ex := range l.Exercises {
			if ex.ExerciseID == exerciseID && len(ex.Sets) > 0 {
				count++
				break
			}
		}
	}
	return count
}

// RecentRated returns up to n most recent sessions carrying a rating.
func (a *Archive) RecentRated(n int) []models.WorkoutLog {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]models.WorkoutLog, 0, n)
	for _, l := range a.logs {
		if l.Rating == nil {
			continue
		}
		out = append(out, cloneLog(l))
		if len(out) == n {
			break
		}
	}
	return out
}

// LogUpdate carries the optional top-level fields of a post-hoc session edit.
type LogUpdate struct {
	Note   *string               `json:"note,omitempty"`
	Rating *models.WorkoutRating `json:"rating,omitempty"`
	Media  []string              `json:"media,omitempty"`
}

// ExerciseUpdate carries the optional fields of a post-hoc exercise edit.
type ExerciseUpdate struct {
	Note      *string `json:"note,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// SetUpdate carries the optional fields of a post-hoc set edit.
type SetUpdate struct {
	Weight    *float64 `json:"weight,omitempty"`
	Reps      *int     `json:"reps,omitempty"`
	Completed *bool    `json:"completed,omitempty"`
	Note      *string  `json:"note,omitempty"`
}

// UpdateLog applies a post-hoc edit to a completed session. Returns false if
// the id is unknown; edits never reopen the session as active.
func (a *Archive) UpdateLog(id uuid.UUID, upd LogUpdate) bool {
	return a.mutate(id, func(l *models.WorkoutLog) bool {
		if upd.Note != nil {
			l.Note = *upd.Note
		}
		if upd.Rating != nil {
			r := *upd.Rating
			l.Rating = &r
		}
		if upd.Media != nil {
			l.Media = append([]string(nil), upd.Media...)
		}
		return true
	})
}

// UpdateLogExercise applies a post-hoc edit to one exercise of a completed
// session. Returns false for an unknown id or out-of-range index.
func (a *Archive) UpdateLogExercise(id uuid.UUID, exIdx int, upd ExerciseUpdate) bool {
	return a.mutate(id, func(l *models.WorkoutLog) bool {
		if exIdx < 0 || exIdx >= len(l.Exercises) {
			return false
		}
		ex := &l.Exercises[exIdx]
		if upd.Note != nil {
			ex.Note = *upd.Note
		}
		if upd.Completed != nil {
			ex.Completed = *upd.Completed
		}
		return true
	})
}

// UpdateLogSet applies a post-hoc edit to one set of a completed session.
func (a *Archive) UpdateLogSet(id uuid.UUID, exIdx, setIdx int, upd SetUpdate) bool {
	return a.mutate(id, func(l *models.WorkoutLog) bool {
		if exIdx < 0 || exIdx >= len(l.Exercises) {
			return false
		}
		sets := l.Exercises[exIdx].Sets
		if setIdx < 0 || setIdx >= len(sets) {
			return false
		}
		s := &sets[setIdx]
		if upd.Weight != nil && *upd.Weight >= 0 {
			s.Weight = *upd.Weight
		}
		if upd.Reps != nil && *upd.Reps >= 0 {
			s.Reps = *upd.Reps
		}
		if upd.Completed != nil {
			s.Completed = *upd.Completed
		}
		if upd.Note != nil {
			s.Note = *upd.Note
		}
		return true
	})
}

// AddLogSet appends a set to one exercise of a completed session.
func (a *Archive) AddLogSet(id uuid.UUID, exIdx int, set models.WorkoutSet) bool {
	return a.mutate(id, func(l *models.WorkoutLog) bool {
		if exIdx < 0 || exIdx >= len(l.Exercises) {
			return false
		}
		if set.Weight < 0 || set.Reps < 0 {
			return false
		}
		l.Exercises[exIdx].Sets = append(l.Exercises[exIdx].Sets, set)
		return true
	})
}

// RemoveLogSet removes a set from one exercise of a completed session.
func (a *Archive) RemoveLogSet(id uuid.UUID, exIdx, setIdx int) bool {
	return a.mutate(id, func(l *models.WorkoutLog) bool {
		if exIdx < 0 || exIdx >= len(l.Exercises) {
			return false
		}
		sets := l.Exercises[exIdx].Sets
		if setIdx < 0 || setIdx >= len(sets) {
			return false
		}
		l.Exercises[exIdx].Sets = append(sets[:setIdx], sets[setIdx+1:]...)
		return true
	})
}

// mutate locates a log by id, applies fn in place, and fires the persist
// callback when fn reports a change.
func (a *Archive) mutate(id uuid.UUID, fn func(*models.WorkoutLog) bool) bool {
	a.mu.Lock()
	var changed *models.WorkoutLog
	for i := range a.logs {
		if a.logs[i].ID == id {
			if fn(&a.logs[i]) {
				changed = &a.logs[i]
			}
			break
		}
	}
	var snapshot models.WorkoutLog
	if changed != nil {
		snapshot = cloneLog(*changed)
	}
	a.mu.Unlock()

	if changed == nil {
		return false
	}
	a.notify(snapshot)
	return true
}

func (a *Archive) notify(log models.WorkoutLog) {
	if a.persist != nil {
		a.persist(log)
	}
}

// cloneLog deep-copies a log so callers can't mutate archive state through
// returned slices.
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
