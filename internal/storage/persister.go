package storage

import (
	"context"
	"log/slog"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

// writeTimeout bounds each background mirror write.
const writeTimeout = 10 * time.Second

// Persister adapts the mirror to the core's fire-and-forget persist
// callbacks. Every save runs in its own goroutine; a failure is logged and
// never rolls back or blocks the in-memory mutation that triggered it.
type Persister struct {
	db  *DB
	log *slog.Logger
}

// NewPersister creates a Persister over an open mirror.
func NewPersister(db *DB, log *slog.Logger) *Persister {
	return &Persister{db: db, log: log}
}

// SaveLog mirrors a completed (or post-hoc edited) session.
func (p *Persister) SaveLog(l models.WorkoutLog) {
	p.async("workout log", func(ctx context.Context) error {
		return p.db.UpsertWorkoutLog(ctx, l)
	})
}

// SaveRecord mirrors a personal record.
func (p *Persister) SaveRecord(r models.PersonalRecord) {
	p.async("personal record", func(ctx context.Context) error {
		return p.db.UpsertPersonalRecord(ctx, r)
	})
}

// SaveScheduled mirrors a scheduled workout.
func (p *Persister) SaveScheduled(sw models.ScheduledWorkout) {
	p.async("scheduled workout", func(ctx context.Context) error {
		return p.db.UpsertScheduledWorkout(ctx, sw)
	})
}

// RemoveScheduled removes a scheduled workout from the mirror.
func (p *Persister) RemoveScheduled(id uuid.UUID) {
	p.async("scheduled workout removal", func(ctx context.Context) error {
		return p.db.DeleteScheduledWorkout(ctx, id)
	})
}

// SaveCustomWorkout mirrors a user-authored workout template.
func (p *Persister) SaveCustomWorkout(w models.Workout) {
	p.async("custom workout", func(ctx context.Context) error {
		return p.db.UpsertCustomWorkout(ctx, w)
	})
}

// SaveSettings mirrors the timer settings.
func (p *Persister) SaveSettings(s models.TimerSettings) {
	p.async("timer settings", func(ctx context.Context) error {
		return p.db.SaveTimerSettings(ctx, s)
	})
}

// SaveProfile mirrors the user profile.
func (p *Persister) SaveProfile(prof models.UserProfile) {
	p.async("user profile", func(ctx context.Context) error {
		return p.db.SaveUserProfile(ctx, prof)
	})
}

func (p *Persister) async(what string, fn func(context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			p.log.Warn("mirror write failed", "entity", what, "error", err)
		}
	}()
}
