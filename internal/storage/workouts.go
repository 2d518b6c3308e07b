package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/claude/liftlog/internal/models"
)

// UpsertCustomWorkout writes a user-authored workout template to the mirror.
// Catalog content is file-authored and never stored; only custom templates
// produced by copy-to-custom live here.
func (db *DB) UpsertCustomWorkout(ctx context.Context, w models.Workout) error {
	def, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encoding custom workout: %w", err)
	}
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO custom_workouts (id, definition) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET definition = excluded.definition`,
		w.ID, def)
	if err != nil {
		return fmt.Errorf("upserting custom workout: %w", err)
	}
	return nil
}

// LoadCustomWorkouts restores all user-authored workout templates.
func (db *DB) LoadCustomWorkouts(ctx context.Context) ([]models.Workout, error) {
	rows, err := db.Pool.Query(ctx, `SELECT definition FROM custom_workouts`)
	if err != nil {
		return nil, fmt.Errorf("querying custom workouts: %w", err)
	}
	defer rows.Close()

	var result []models.Workout
	for rows.Next() {
		var def []byte
		if err := rows.Scan(&def); err != nil {
			return nil, fmt.Errorf("scanning custom workout: %w", err)
		}
		var w models.Workout
		if err := json.Unmarshal(def, &w); err != nil {
			return nil, fmt.Errorf("decoding custom workout: %w", err)
		}
		result = append(result, w)
	}
	return result, rows.Err()
}
