// Package records maintains one personal record per exercise, evaluated on
// every logged set using the Epley one-rep-max estimate.
package records

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/claude/liftlog/internal/gamify"
	"github.com/claude/liftlog/internal/models"
)

const (
	// warmupSessions is the number of prior completed sessions containing an
	// exercise required before any record is evaluated. A user's first
	// handful of attempts has no real baseline to beat.
	warmupSessions = 4

	majorLiftPoints    = 50
	standardLiftPoints = 20
)

// majorLifts lists the compound movements that earn the higher point award.
// Matching is a case-insensitive substring check against the exercise name,
// a deliberate policy: "Barbell Bench Press" and "Bench Press (Paused)" both
// qualify as bench press records.
var majorLifts = []string{
	"bench press",
	"squat",
	"deadlift",
	"overhead press",
	"barbell row",
}

// History answers how many completed sessions contain a given exercise.
// Satisfied by *archive.Archive.
type History interface {
	SessionsWithExercise(exerciseID string) int
}

// Engine detects and stores personal records.
type Engine struct {
	mu      sync.RWMutex
	records map[string]models.PersonalRecord

	history History
	gamify  gamify.Collaborator
	log     *slog.Logger

	// persist, when set, receives every created or replaced record.
	persist func(models.PersonalRecord)
}

// New creates a record engine. The persist callback may be nil.
func New(history History, collab gamify.Collaborator, log *slog.Logger, persist func(models.PersonalRecord)) *Engine {
	if collab == nil {
		collab = gamify.Noop{}
	}
	return &Engine{
		records: make(map[string]models.PersonalRecord),
		history: history,
		gamify:  collab,
		log:     log,
		persist: persist,
	}
}

// Restore replaces the record set with previously persisted records. Called
// once at boot; the persist callback is not fired.
func (e *Engine) Restore(records []models.PersonalRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.records = make(map[string]models.PersonalRecord, len(records))
	for _, r := range records {
		e.records[r.ExerciseID] = r
	}
}

// Evaluate checks a candidate set against the stored record for an exercise.
// Returns the new record and true when the candidate strictly beats the
// existing estimate (or none exists) after the warm-up gate. Zero or negative
// weight/reps never trigger evaluation; ties never replace.
func (e *Engine) Evaluate(ex models.Exercise, weight float64, reps int, at time.Time) (models.PersonalRecord, bool) {
	if weight <= 0 || reps <= 0 {
		return models.PersonalRecord{}, false
	}
	if e.history.SessionsWithExercise(ex.ID) < warmupSessions {
		return models.PersonalRecord{}, false
	}

	estimate := models.EstimateOneRM(weight, reps)

	e.mu.Lock()
	prev, had := e.records[ex.ID]
	if had && estimate <= prev.EstimatedOneRM {
		e.mu.Unlock()
		return models.PersonalRecord{}, false
	}

	rec := models.PersonalRecord{
		ExerciseID:     ex.ID,
		ExerciseName:   ex.Name,
		Weight:         weight,
		Reps:           reps,
		EstimatedOneRM: estimate,
		AchievedAt:     at,
	}
	if had {
		rec.PreviousWeight = prev.Weight
		rec.Improvement = weight - prev.Weight
	} else {
		rec.Improvement = weight
	}
	e.records[ex.ID] = rec
	e.mu.Unlock()

	if e.persist != nil {
		e.persist(rec)
	}
	e.award(ex.Name)

	return rec, true
}

// award grants points for a new record, best-effort.
func (e *Engine) award(exerciseName string) {
	points := standardLiftPoints
	if IsMajorLift(exerciseName) {
		points = majorLiftPoints
	}
	if err := e.gamify.AddPoints(points); err != nil {
		e.log.Warn("gamify add points failed", "exercise", exerciseName, "error", err)
	}
	if err := e.gamify.UpdateAchievementProgress("personal-records", 1); err != nil {
		e.log.Warn("gamify achievement progress failed", "error", err)
	}
}

// IsMajorLift reports whether an exercise name matches one of the configured
// compound lifts (case-insensitive substring).
func IsMajorLift(name string) bool {
	lower := strings.ToLower(name)
	for _, lift := range majorLifts {
		if strings.Contains(lower, lift) {
			return true
		}
	}
	return false
}

// Record returns the stored record for an exercise.
func (e *Engine) Record(exerciseID string) (models.PersonalRecord, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	r, ok := e.records[exerciseID]
	return r, ok
}

// Records returns all stored records in unspecified order.
func (e *Engine) Records() []models.PersonalRecord {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.PersonalRecord, 0, len(e.records))
	for _, r := range e.records {
		out = append(out, r)
	}
	return out
}
