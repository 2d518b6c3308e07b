// Package recommend selects candidate workouts from the catalog, personalized
// by user attributes, rating history, and an optional mood hint.
package recommend

import (
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/claude/liftlog/internal/catalog"
	"github.com/claude/liftlog/internal/models"
)

// favoriteCategories is how many top-rated categories feed the ranked path.
const favoriteCategories = 3

// recentWindow is how many recent rated sessions the ranked path considers.
const recentWindow = 5

// pinnedPrefix is how many top picks keep their ranked position; the tail is
// shuffled so repeated calls vary without hiding the best picks.
const pinnedPrefix = 2

// Category token sets for mood narrowing. Matching is a case-insensitive
// substring check, a deliberate policy so "Low-Intensity Cardio" and
// "low-intensity" both qualify.
var (
	lightTokens     = []string{"low-intensity", "mobility", "recovery", "stretch", "yoga"}
	restTokens      = []string{"mobility", "recovery", "stretch"}
	energeticTokens = []string{"high-intensity", "hiit", "strength"}
)

// shorterMaxDuration is the cutoff, in minutes, for the "shorter" mood.
const shorterMaxDuration = 30

// EligibilityFunc is the black-box baseline filter over workout and profile.
// The rule-set belongs to an external collaborator; the engine only applies it.
type EligibilityFunc func(models.Workout, models.UserProfile) bool

// History supplies recent rated sessions. Satisfied by *archive.Archive.
type History interface {
	RecentRated(n int) []models.WorkoutLog
}

// Engine ranks and samples workout recommendations.
type Engine struct {
	catalog  *catalog.Catalog
	history  History
	eligible EligibilityFunc
	enabled  bool

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates an engine. eligible may be nil (DefaultEligibility); rng may be
// nil, in which case an unseeded-from-time source is used. Tests inject a
// fixed source.
func New(cat *catalog.Catalog, history History, eligible EligibilityFunc, enabled bool, rng *rand.Rand) *Engine {
	if eligible == nil {
		eligible = DefaultEligibility
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Engine{
		catalog:  cat,
		history:  history,
		eligible: eligible,
		enabled:  enabled,
		rng:      rng,
	}
}

// levelRank orders fitness/difficulty tiers; unknown values rank highest so
// they are never filtered out by accident.
func levelRank(s string) int {
	switch strings.ToLower(s) {
	case "beginner":
		return 0
	case "intermediate":
		return 1
	case "advanced":
		return 2
	default:
		return 3
	}
}

// DefaultEligibility is the stand-in baseline filter: a workout qualifies
// when its difficulty is at most one tier above the user's fitness level.
// Deployments override this with the collaborator's full rule-set.
func DefaultEligibility(w models.Workout, p models.UserProfile) bool {
	if w.Difficulty == "" || p.FitnessLevel == "" {
		return true
	}
	return levelRank(w.Difficulty) <= levelRank(p.FitnessLevel)+1
}

// Recommend returns up to count workouts for the profile. A mood hint narrows
// the candidates instead of the history-ranked path; without one, rated
// history drives favorite-category ranking, falling back to a random sample
// when disabled or unrated.
func (e *Engine) Recommend(profile models.UserProfile, count int, mood models.Mood) []models.Workout {
	if count <= 0 {
		return nil
	}

	base := e.baseline(profile)
	if len(base) == 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var result []models.Workout
	switch {
	case mood != models.MoodNone:
		result = e.moodNarrow(base, mood, count)
	default:
		recent := e.history.RecentRated(recentWindow)
		if !e.enabled || len(recent) == 0 {
			result = e.sample(base, count, nil)
		} else {
			result = e.ranked(base, recent, count)
		}
	}

	// Backfill from the rest of the baseline set when narrowing or ranking
	// came up short.
	if len(result) < count {
		result = append(result, e.sample(base, count-len(result), idSet(result))...)
	}

	// Keep the top picks in the visible first slots, vary the tail.
	if len(result) > pinnedPrefix {
		tail := result[pinnedPrefix:]
		e.rng.Shuffle(len(tail), func(i, j int) {
			tail[i], tail[j] = tail[j], tail[i]
		})
	}
	return result
}

// baseline applies the eligibility filter to the whole catalog.
func (e *Engine) baseline(profile models.UserProfile) []models.Workout {
	var out []models.Workout
	for _, w := range e.catalog.Workouts() {
		if e.eligible(w, profile) {
			out = append(out, w)
		}
	}
	return out
}

// ranked implements the history-weighted path: mean rating per recent
// workout, rolled up into category sums, top categories preferred, recent
// workouts excluded to avoid immediate repetition.
func (e *Engine) ranked(base []models.Workout, recent []models.WorkoutLog, count int) []models.Workout {
	type ratingAgg struct {
		sum   int
		count int
	}
	byWorkout := make(map[string]*ratingAgg)
	recentIDs := make(map[string]bool)
	for _, l := range recent {
		if l.WorkoutID == "" {
			continue
		}
		recentIDs[l.WorkoutID] = true
		agg, ok := byWorkout[l.WorkoutID]
		if !ok {
			agg = &ratingAgg{}
			byWorkout[l.WorkoutID] = agg
		}
		agg.sum += l.Rating.Overall
		agg.count++
	}

	catScore := make(map[string]float64)
	for id, agg := range byWorkout {
		w, ok := e.catalog.Workout(id)
		if !ok || w.Category == "" {
			continue
		}
		catScore[w.Category] += float64(agg.sum) / float64(agg.count)
	}

	cats := make([]string, 0, len(catScore))
	for c := range catScore {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		if catScore[cats[i]] != catScore[cats[j]] {
			return catScore[cats[i]] > catScore[cats[j]]
		}
		return cats[i] < cats[j] // deterministic tie-break
	})
	if len(cats) > favoriteCategories {
		cats = cats[:favoriteCategories]
	}
	favorite := make(map[string]bool, len(cats))
	for _, c := range cats {
		favorite[c] = true
	}

	var candidates, favored []models.Workout
	for _, w := range base {
		if recentIDs[w.ID] {
			continue
		}
		candidates = append(candidates, w)
		if favorite[w.Category] {
			favored = append(favored, w)
		}
	}

	result := favored
	if len(result) > count {
		result = result[:count]
	}
	if len(result) < count {
		result = append(result, e.sample(candidates, count-len(result), idSet(result))...)
	}
	return result
}

// moodNarrow applies the category/duration rules for a mood hint over the
// baseline-filtered set.
func (e *Engine) moodNarrow(base []models.Workout, mood models.Mood, count int) []models.Workout {
	var narrowed []models.Workout
	switch mood {
	case models.MoodShorter:
		for _, w := range base {
			if w.DurationMin > 0 && w.DurationMin <= shorterMaxDuration {
				narrowed = append(narrowed, w)
			}
		}
		sort.SliceStable(narrowed, func(i, j int) bool {
			return narrowed[i].DurationMin < narrowed[j].DurationMin
		})
	case models.MoodLight:
		for _, w := range base {
			if matchesAny(w.Category, lightTokens) {
				narrowed = append(narrowed, w)
			}
		}
	case models.MoodRest:
		for _, w := range base {
			if matchesAny(w.Category, restTokens) || matchesAny(w.Name, restTokens) {
				narrowed = append(narrowed, w)
			}
		}
	case models.MoodEnergetic:
		for _, w := range base {
			if matchesAny(w.Category, energeticTokens) {
				narrowed = append(narrowed, w)
			}
		}
		sort.SliceStable(narrowed, func(i, j int) bool {
			return narrowed[i].DurationMin > narrowed[j].DurationMin
		})
	}

	if len(narrowed) > count {
		narrowed = narrowed[:count]
	}
	return narrowed
}

// sample returns up to n random workouts from pool, skipping excluded ids.
func (e *Engine) sample(pool []models.Workout, n int, exclude map[string]bool) []models.Workout {
	var out []models.Workout
	for _, i := range e.rng.Perm(len(pool)) {
		if exclude[pool[i].ID] {
			continue
		}
		out = append(out, pool[i])
		if len(out) == n {
			break
		}
	}
	return out
}

// matchesAny reports whether s contains any token, case-insensitively.
func matchesAny(s string, tokens []string) bool {
	lower := strings.ToLower(s)
	for _, tok := range tokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

func idSet(ws []models.Workout) map[string]bool {
	set := make(map[string]bool, len(ws))
	for _, w := range ws {
		set[w.ID] = true
	}
	return set
}
