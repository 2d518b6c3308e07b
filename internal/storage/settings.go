package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/claude/liftlog/internal/models"
	"github.com/jackc/pgx/v5"
)

// Single-row keys in the app_state table.
const (
	stateKeyTimerSettings = "timer_settings"
	stateKeyUserProfile   = "user_profile"
)

// SaveTimerSettings writes the timer settings.
func (db *DB) SaveTimerSettings(ctx context.Context, s models.TimerSettings) error {
	return db.saveState(ctx, stateKeyTimerSettings, s)
}

// LoadTimerSettings restores the timer settings. Returns nil when none are
// stored yet.
func (db *DB) LoadTimerSettings(ctx context.Context) (*models.TimerSettings, error) {
	var s models.TimerSettings
	ok, err := db.loadState(ctx, stateKeyTimerSettings, &s)
	if err != nil || !ok {
		return nil, err
	}
	return &s, nil
}

// SaveUserProfile writes the user profile.
func (db *DB) SaveUserProfile(ctx context.Context, p models.UserProfile) error {
	return db.saveState(ctx, stateKeyUserProfile, p)
}

// LoadUserProfile restores the user profile. Returns nil when none is stored.
func (db *DB) LoadUserProfile(ctx context.Context) (*models.UserProfile, error) {
	var p models.UserProfile
	ok, err := db.loadState(ctx, stateKeyUserProfile, &p)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

func (db *DB) saveState(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO app_state (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, data)
	if err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

func (db *DB) loadState(ctx context.Context, key string, v any) (bool, error) {
	var data []byte
	err := db.Pool.QueryRow(ctx,
		`SELECT value FROM app_state WHERE key = $1`, key).Scan(&data)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decoding %s: %w", key, err)
	}
	return true, nil
}
