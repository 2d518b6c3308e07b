// Package catalog holds the read-only exercise and workout reference data.
// Content is authored externally and loaded from YAML files; the only runtime
// mutation is registering custom workout templates copied from completed
// sessions.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/claude/liftlog/internal/models"
	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk shape of one catalog YAML file. A file may
// contain exercises, workouts, or both.
type catalogFile struct {
	Exercises []models.Exercise `yaml:"exercises"`
	Workouts  []models.Workout  `yaml:"workouts"`
}

// Catalog indexes exercises and workout templates by id.
type Catalog struct {
	mu        sync.RWMutex
	exercises map[string]models.Exercise
	workouts  map[string]models.Workout
	order     []string // workout ids in load/registration order
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		exercises: make(map[string]models.Exercise),
		workouts:  make(map[string]models.Workout),
	}
}

// Load reads all *.yaml files in dir into a new catalog.
func Load(dir string) (*Catalog, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("listing catalog files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no catalog files found in %s", dir)
	}

	c := New()
	for _, file := range files {
		if err := c.loadFile(file); err != nil {
			return nil, fmt.Errorf("loading %s: %w", file, err)
		}
	}
	return c, nil
}

func (c *Catalog) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ex := range cf.Exercises {
		if ex.ID == "" {
			return fmt.Errorf("exercise %q has no id", ex.Name)
		}
		c.exercises[ex.ID] = ex
	}
	for _, w := range cf.Workouts {
		if w.ID == "" {
			return fmt.Errorf("workout %q has no id", w.Name)
		}
		if _, exists := c.workouts[w.ID]; !exists {
			c.order = append(c.order, w.ID)
		}
		c.workouts[w.ID] = w
	}
	return nil
}

// Exercise returns the exercise with the given id.
func (c *Catalog) Exercise(id string) (models.Exercise, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ex, ok := c.exercises[id]
	return ex, ok
}

// Workout returns the workout template with the given id.
func (c *Catalog) Workout(id string) (models.Workout, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	w, ok := c.workouts[id]
	return w, ok
}

// Exercises returns all exercises in unspecified order.
func (c *Catalog) Exercises() []models.Exercise {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Exercise, 0, len(c.exercises))
	for _, ex := range c.exercises {
		out = append(out, ex)
	}
	return out
}

// Workouts returns all workout templates in load/registration order.
func (c *Catalog) Workouts() []models.Workout {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Workout, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.workouts[id])
	}
	return out
}

// AddWorkout registers a workout template at runtime. Used for custom
// templates copied from completed sessions and for restoring persisted
// custom templates at boot. Returns false if the id is already taken.
func (c *Catalog) AddWorkout(w models.Workout) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if w.ID == "" {
		return false
	}
	if _, exists := c.workouts[w.ID]; exists {
		return false
	}
	c.workouts[w.ID] = w
	c.order = append(c.order, w.ID)
	return true
}

// AddExercise registers an exercise at runtime. Only used by tests and
// restore paths; catalog content is otherwise file-authored.
func (c *Catalog) AddExercise(ex models.Exercise) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ex.ID == "" {
		return false
	}
	c.exercises[ex.ID] = ex
	return true
}
