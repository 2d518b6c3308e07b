package storage

import (
	"context"
	"fmt"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

// UpsertScheduledWorkout writes a scheduled workout to the mirror.
func (db *DB) UpsertScheduledWorkout(ctx context.Context, sw models.ScheduledWorkout) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO scheduled_workouts (id, workout_id, schedule_type, date,
		 day_of_week, end_date, time_of_day, duration_min, completed)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 ON CONFLICT (id) DO UPDATE SET
		   workout_id = excluded.workout_id,
		   schedule_type = excluded.schedule_type,
		   date = excluded.date,
		   day_of_week = excluded.day_of_week,
		   end_date = excluded.end_date,
		   time_of_day = excluded.time_of_day,
		   duration_min = excluded.duration_min,
		   completed = excluded.completed`,
		sw.ID, sw.WorkoutID, string(sw.Type), sw.Date,
		sw.DayOfWeek, sw.EndDate, sw.TimeOfDay, sw.DurationMin, sw.Completed)
	if err != nil {
		return fmt.Errorf("upserting scheduled workout: %w", err)
	}
	return nil
}

// DeleteScheduledWorkout removes a scheduled workout from the mirror.
func (db *DB) DeleteScheduledWorkout(ctx context.Context, id uuid.UUID) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM scheduled_workouts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting scheduled workout: %w", err)
	}
	return nil
}

// LoadScheduledWorkouts restores all scheduled workouts.
func (db *DB) LoadScheduledWorkouts(ctx context.Context) ([]models.ScheduledWorkout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, workout_id, schedule_type, date, day_of_week, end_date,
		 time_of_day, duration_min, completed
		 FROM scheduled_workouts`)
	if err != nil {
		return nil, fmt.Errorf("querying scheduled workouts: %w", err)
	}
	defer rows.Close()

	var result []models.ScheduledWorkout
	for rows.Next() {
		var sw models.ScheduledWorkout
		var schedType string
		if err := rows.Scan(&sw.ID, &sw.WorkoutID, &schedType, &sw.Date, &sw.DayOfWeek,
			&sw.EndDate, &sw.TimeOfDay, &sw.DurationMin, &sw.Completed); err != nil {
			return nil, fmt.Errorf("scanning scheduled workout: %w", err)
		}
		sw.Type = models.ScheduleType(schedType)
		result = append(result, sw)
	}
	return result, rows.Err()
}
