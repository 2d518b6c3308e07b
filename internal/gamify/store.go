package gamify

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a local SQLite-backed Collaborator tracking points, the workout
// streak, achievements, challenges, and daily quests.
type Store struct {
	db *sql.DB
}

// Compile-time check: *Store satisfies Collaborator.
var _ Collaborator = (*Store)(nil)

// Open opens (or creates) the gamification database at dir/gamify.db.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating gamify dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "gamify.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening gamify db: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS points (
			id    INTEGER PRIMARY KEY CHECK (id = 1),
			total INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS streak (
			id       INTEGER PRIMARY KEY CHECK (id = 1),
			count    INTEGER NOT NULL DEFAULT 0,
			last_day TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS achievements (
			id          TEXT PRIMARY KEY,
			progress    INTEGER NOT NULL DEFAULT 0,
			unlocked_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS challenges (
			id    TEXT PRIMARY KEY,
			value INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS daily_quests (
			id  TEXT NOT NULL,
			day TEXT NOT NULL,
			PRIMARY KEY (id, day)
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating gamify schema: %w", err)
		}
	}

	return &Store{db: db}, nil
}

// Close closes the gamification database.
func (s *Store) Close() error {
	return s.db.Close()
}

// UpdateStreak advances the consecutive-training-day counter. Completing more
// than one session on the same day counts once; a gap resets to 1.
func (s *Store) UpdateStreak() error {
	today := time.Now().Format("2006-01-02")
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	var count int
	var lastDay string
	err := s.db.QueryRow(`SELECT count, last_day FROM streak WHERE id = 1`).Scan(&count, &lastDay)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("reading streak: %w", err)
	}

	switch lastDay {
	case today:
		return nil
	case yesterday:
		count++
	default:
		count = 1
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO streak (id, count, last_day) VALUES (1, ?, ?)`,
		count, today,
	)
	if err != nil {
		return fmt.Errorf("updating streak: %w", err)
	}
	return nil
}

// CheckAchievements is a hook point for achievement scans after completion.
// The reference store has no rule engine; server-side rules live with the
// external collaborator in a full deployment.
func (s *Store) CheckAchievements() error {
	return nil
}

// UpdateChallengeProgress stores the new progress value for a challenge.
func (s *Store) UpdateChallengeProgress(id string, value int) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO challenges (id, value) VALUES (?, ?)`,
		id, value,
	)
	if err != nil {
		return fmt.Errorf("updating challenge %s: %w", id, err)
	}
	return nil
}

// CompleteDailyQuest marks a quest done for today. Idempotent per day.
func (s *Store) CompleteDailyQuest(id string) error {
	today := time.Now().Format("2006-01-02")
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO daily_quests (id, day) VALUES (?, ?)`,
		id, today,
	)
	if err != nil {
		return fmt.Errorf("completing quest %s: %w", id, err)
	}
	return nil
}

// AddPoints adds to the running point total.
func (s *Store) AddPoints(n int) error {
	_, err := s.db.Exec(
		`INSERT INTO points (id, total) VALUES (1, ?)
		 ON CONFLICT (id) DO UPDATE SET total = total + excluded.total`,
		n,
	)
	if err != nil {
		return fmt.Errorf("adding points: %w", err)
	}
	return nil
}

// Points returns the current point total.
func (s *Store) Points() (int, error) {
	var total int
	err := s.db.QueryRow(`SELECT total FROM points WHERE id = 1`).Scan(&total)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading points: %w", err)
	}
	return total, nil
}

// Streak returns the current consecutive-day streak count.
func (s *Store) Streak() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT count FROM streak WHERE id = 1`).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading streak: %w", err)
	}
	return count, nil
}

// UnlockAchievement records an achievement as unlocked, keeping the first
// unlock time on repeat calls.
func (s *Store) UnlockAchievement(id string) error {
	_, err := s.db.Exec(
		`INSERT INTO achievements (id, unlocked_at) VALUES (?, CURRENT_TIMESTAMP)
		 ON CONFLICT (id) DO UPDATE SET
		   unlocked_at = COALESCE(achievements.unlocked_at, excluded.unlocked_at)`,
		id,
	)
	if err != nil {
		return fmt.Errorf("unlocking achievement %s: %w", id, err)
	}
	return nil
}

// UpdateAchievementProgress adds delta to an achievement's progress counter.
func (s *Store) UpdateAchievementProgress(id string, delta int) error {
	_, err := s.db.Exec(
		`INSERT INTO achievements (id, progress) VALUES (?, ?)
		 ON CONFLICT (id) DO UPDATE SET progress = achievements.progress + excluded.progress`,
		id, delta,
	)
	if err != nil {
		return fmt.Errorf("updating achievement %s: %w", id, err)
	}
	return nil
}
