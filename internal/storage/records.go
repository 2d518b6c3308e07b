package storage

import (
	"context"
	"fmt"

	"github.com/claude/liftlog/internal/models"
)

// UpsertPersonalRecord writes a personal record, replacing any prior record
// for the exercise. Superseded records are not retained.
func (db *DB) UpsertPersonalRecord(ctx context.Context, rec models.PersonalRecord) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO personal_records (exercise_id, exercise_name, weight, reps,
		 estimated_1rm, achieved_at, previous_weight, improvement)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 ON CONFLICT (exercise_id) DO UPDATE SET
		   exercise_name = excluded.exercise_name,
		   weight = excluded.weight,
		   reps = excluded.reps,
		   estimated_1rm = excluded.estimated_1rm,
		   achieved_at = excluded.achieved_at,
		   previous_weight = excluded.previous_weight,
		   improvement = excluded.improvement`,
		rec.ExerciseID, rec.ExerciseName, rec.Weight, rec.Reps,
		rec.EstimatedOneRM, rec.AchievedAt, rec.PreviousWeight, rec.Improvement)
	if err != nil {
		return fmt.Errorf("upserting personal record: %w", err)
	}
	return nil
}

// LoadPersonalRecords restores all personal records.
func (db *DB) LoadPersonalRecords(ctx context.Context) ([]models.PersonalRecord, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT exercise_id, exercise_name, weight, reps, estimated_1rm,
		 achieved_at, previous_weight, improvement
		 FROM personal_records`)
	if err != nil {
		return nil, fmt.Errorf("querying personal records: %w", err)
	}
	defer rows.Close()

	var result []models.PersonalRecord
	for rows.Next() {
		var r models.PersonalRecord
		if err := rows.Scan(&r.ExerciseID, &r.ExerciseName, &r.Weight, &r.Reps,
			&r.EstimatedOneRM, &r.AchievedAt, &r.PreviousWeight, &r.Improvement); err != nil {
			return nil, fmt.Errorf("scanning personal record: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
