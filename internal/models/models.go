// Package models defines the domain entities shared across LiftLog:
// catalog templates, workout sessions, personal records, and scheduling.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Exercise is an immutable catalog entry describing a single movement.
type Exercise struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	MuscleGroups []string `json:"muscle_groups" yaml:"muscle_groups"`
	Equipment    []string `json:"equipment" yaml:"equipment"`
	Difficulty   string   `json:"difficulty" yaml:"difficulty"`
}

// ExercisePrescription is one entry in a workout template: which exercise
// to perform and the prescribed sets/reps/rest.
type ExercisePrescription struct {
	ExerciseID string `json:"exercise_id" yaml:"exercise_id"`
	Sets       int    `json:"sets" yaml:"sets"`
	Reps       int    `json:"reps" yaml:"reps"`
	RestSec    int    `json:"rest_sec" yaml:"rest_sec"`
}

// Workout is a template: an ordered list of exercise prescriptions plus
// categorization used by the recommendation engine. Custom workouts are
// user-authored copies of completed sessions.
type Workout struct {
	ID          string                 `json:"id" yaml:"id"`
	Name        string                 `json:"name" yaml:"name"`
	Category    string                 `json:"category" yaml:"category"`
	Difficulty  string                 `json:"difficulty" yaml:"difficulty"`
	Intensity   string                 `json:"intensity" yaml:"intensity"`
	DurationMin int                    `json:"duration_min" yaml:"duration_min"`
	Exercises   []ExercisePrescription `json:"exercises" yaml:"exercises"`
	IsCustom    bool                   `json:"is_custom" yaml:"is_custom,omitempty"`
}

// WorkoutSet is one performance of an exercise within a session.
// Weight is unit-agnostic and non-negative.
type WorkoutSet struct {
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
	Completed bool    `json:"completed"`
	Note      string  `json:"note,omitempty"`
}

// ExerciseLog is the per-exercise record inside a session: the ordered sets
// logged so far plus a manual completion flag independent of the sets.
type ExerciseLog struct {
	ExerciseID string       `json:"exercise_id"`
	Sets       []WorkoutSet `json:"sets"`
	Note       string       `json:"note,omitempty"`
	Completed  bool         `json:"completed"`
}

// WorkoutRating is the 1-5 overall score plus structured sub-scores a user
// can attach to a completed session.
type WorkoutRating struct {
	Overall    int `json:"overall"`
	Difficulty int `json:"difficulty,omitempty"`
	Energy     int `json:"energy,omitempty"`
	Enjoyment  int `json:"enjoyment,omitempty"`
}

// WorkoutLog is one session, active or archived. EndTime is nil while the
// session is active; DurationMin is computed at completion.
type WorkoutLog struct {
	ID          uuid.UUID      `json:"id"`
	WorkoutID   string         `json:"workout_id,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	StartTime   time.Time      `json:"start_time"`
	EndTime     *time.Time     `json:"end_time,omitempty"`
	DurationMin int            `json:"duration_min"`
	Exercises   []ExerciseLog  `json:"exercises"`
	Note        string         `json:"note,omitempty"`
	Completed   bool           `json:"completed"`
	Rating      *WorkoutRating `json:"rating,omitempty"`
	Media       []string       `json:"media,omitempty"`
}

// PersonalRecord is the best known performance for one exercise. At most one
// record exists per exercise; superseded records are replaced, not retained.
type PersonalRecord struct {
	ExerciseID     string    `json:"exercise_id"`
	ExerciseName   string    `json:"exercise_name"`
	Weight         float64   `json:"weight"`
	Reps           int       `json:"reps"`
	EstimatedOneRM float64   `json:"estimated_1rm"`
	AchievedAt     time.Time `json:"achieved_at"`
	PreviousWeight float64   `json:"previous_weight"`
	Improvement    float64   `json:"improvement"`
}

// EstimateOneRM computes the Epley single-repetition-maximum estimate:
// weight * (1 + reps/30).
func EstimateOneRM(weight float64, reps int) float64 {
	return weight * (1 + float64(reps)/30)
}

// ScheduleType distinguishes one-time from weekly recurring placements.
type ScheduleType string

const (
	ScheduleOneTime   ScheduleType = "one-time"
	ScheduleRecurring ScheduleType = "recurring"
)

// ScheduledWorkout is a future placement of a workout template: either a
// specific calendar date or a weekly recurrence with an optional end date.
type ScheduledWorkout struct {
	ID          uuid.UUID    `json:"id"`
	WorkoutID   string       `json:"workout_id"`
	Type        ScheduleType `json:"type"`
	Date        *time.Time   `json:"date,omitempty"`
	DayOfWeek   *int         `json:"day_of_week,omitempty"`
	EndDate     *time.Time   `json:"end_date,omitempty"`
	TimeOfDay   string       `json:"time_of_day,omitempty"`
	DurationMin int          `json:"duration_min"`
	Completed   bool         `json:"completed"`
}

// TimerSettings configures the rest timer and the session manager's
// start-rest-after-set convenience.
type TimerSettings struct {
	DefaultRestSec  int  `json:"default_rest_sec"`
	DefaultSetCount int  `json:"default_set_count"`
	Sound           bool `json:"sound"`
	Vibration       bool `json:"vibration"`
	AutoStartRest   bool `json:"auto_start_rest"`
}

// DefaultTimerSettings are applied when no stored settings exist.
func DefaultTimerSettings() TimerSettings {
	return TimerSettings{
		DefaultRestSec:  90,
		DefaultSetCount: 3,
		Sound:           true,
		Vibration:       true,
	}
}

// UserProfile holds the attributes the recommendation eligibility filter
// operates on. Supplied and updated by the owning client.
type UserProfile struct {
	FitnessLevel  string  `json:"fitness_level"`
	FitnessGoal   string  `json:"fitness_goal"`
	ActivityLevel string  `json:"activity_level"`
	WeightKg      float64 `json:"weight_kg,omitempty"`
}

// Mood is an optional caller-supplied hint narrowing recommendations
// independent of rating history.
type Mood string

const (
	MoodNone      Mood = ""
	MoodShorter   Mood = "shorter"
	MoodLight     Mood = "light"
	MoodRest      Mood = "rest"
	MoodEnergetic Mood = "energetic"
)

// ParseMood normalizes a mood token. Unknown tokens map to MoodNone so a
// stale client value degrades to the general recommendation path.
func ParseMood(s string) Mood {
	switch Mood(s) {
	case MoodShorter, MoodLight, MoodRest, MoodEnergetic:
		return Mood(s)
	default:
		return MoodNone
	}
}
