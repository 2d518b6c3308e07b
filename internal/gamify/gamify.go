// Package gamify defines the gamification collaborator contract and a local
// SQLite-backed reference implementation. The core treats every call as
// best-effort: failures are logged by the caller and never block or retry.
package gamify

// Collaborator is the side-effect surface invoked from session completion and
// personal-record detection.
type Collaborator interface {
	UpdateStreak() error
	CheckAchievements() error
	UpdateChallengeProgress(id string, value int) error
	CompleteDailyQuest(id string) error
	AddPoints(n int) error
	UnlockAchievement(id string) error
	UpdateAchievementProgress(id string, delta int) error
}

// Noop satisfies Collaborator without doing anything. Used in tests and when
// gamification is not configured.
type Noop struct{}

func (Noop) UpdateStreak() error                         { return nil }
func (Noop) CheckAchievements() error                    { return nil }
func (Noop) UpdateChallengeProgress(string, int) error   { return nil }
func (Noop) CompleteDailyQuest(string) error             { return nil }
func (Noop) AddPoints(int) error                         { return nil }
func (Noop) UnlockAchievement(string) error              { return nil }
func (Noop) UpdateAchievementProgress(string, int) error { return nil }
