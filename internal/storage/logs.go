package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/claude/liftlog/internal/models"
)

// UpsertWorkoutLog writes a completed session to the mirror. The nested
// exercise logs and optional rating are stored as JSONB so the round-trip is
// lossless; post-hoc edits overwrite the whole row.
func (db *DB) UpsertWorkoutLog(ctx context.Context, log models.WorkoutLog) error {
	exercises, err := json.Marshal(log.Exercises)
	if err != nil {
		return fmt.Errorf("encoding exercises: %w", err)
	}
	var rating []byte
	if log.Rating != nil {
		rating, err = json.Marshal(log.Rating)
		if err != nil {
			return fmt.Errorf("encoding rating: %w", err)
		}
	}

	_, err = db.Pool.Exec(ctx,
		`INSERT INTO workout_logs (id, workout_id, created_at, start_time, end_time,
		 duration_min, exercises, note, completed, rating, media)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		 ON CONFLICT (id) DO UPDATE SET
		   end_time = excluded.end_time,
		   duration_min = excluded.duration_min,
		   exercises = excluded.exercises,
		   note = excluded.note,
		   completed = excluded.completed,
		   rating = excluded.rating,
		   media = excluded.media`,
		log.ID, nullString(log.WorkoutID), log.CreatedAt, log.StartTime, log.EndTime,
		log.DurationMin, exercises, log.Note, log.Completed, rating, log.Media)
	if err != nil {
		return fmt.Errorf("upserting workout log: %w", err)
	}
	return nil
}

// LoadWorkoutLogs restores all completed sessions, most recent first.
func (db *DB) LoadWorkoutLogs(ctx context.Context) ([]models.WorkoutLog, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, workout_id, created_at, start_time, end_time,
		 duration_min, exercises, note, completed, rating, media
		 FROM workout_logs
		 WHERE completed
		 ORDER BY start_time DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying workout logs: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutLog
	for rows.Next() {
		var l models.WorkoutLog
		var workoutID *string
		var exercises, rating []byte
		if err := rows.Scan(&l.ID, &workoutID, &l.CreatedAt, &l.StartTime, &l.EndTime,
			&l.DurationMin, &exercises, &l.Note, &l.Completed, &rating, &l.Media); err != nil {
			return nil, fmt.Errorf("scanning workout log: %w", err)
		}
		if workoutID != nil {
			l.WorkoutID = *workoutID
		}
		if len(exercises) > 0 {
			if err := json.Unmarshal(exercises, &l.Exercises); err != nil {
				return nil, fmt.Errorf("decoding exercises for %s: %w", l.ID, err)
			}
		}
		if len(rating) > 0 {
			l.Rating = &models.WorkoutRating{}
			if err := json.Unmarshal(rating, l.Rating); err != nil {
				return nil, fmt.Errorf("decoding rating for %s: %w", l.ID, err)
			}
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

// nullString maps "" to NULL so fully custom sessions keep a null template
// reference in the mirror.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
