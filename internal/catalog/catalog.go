// Package catalog provides the read-only exercise catalog that programs are built from.
package catalog

import (
	"fmt"
	"log/slog"

	"github.com/myrjola/fitcycle/internal/errors"
)

var (
	ErrEmptyID     = errors.NewSentinel("empty exercise id")
	ErrDuplicateID = errors.NewSentinel("duplicate exercise id")
	ErrInvalid     = errors.NewSentinel("invalid exercise")
)

// Catalog is an immutable in-memory index of exercises. It is safe for concurrent use.
type Catalog struct {
	exercises []Exercise
	byID      map[string]int
}

// New indexes exercises. The order of exercises is kept and returned by All.
func New(exercises []Exercise) (*Catalog, error) {
	c := &Catalog{
		exercises: make([]Exercise, 0, len(exercises)),
		byID:      make(map[string]int, len(exercises)),
	}
	for i, e := range exercises {
		if e.ID == "" {
			return nil, errors.Wrap(ErrEmptyID, "index exercise",
				slog.Int("position", i), slog.String("name", e.Name))
		}
		if _, ok := c.byID[e.ID]; ok {
			return nil, errors.Wrap(ErrDuplicateID, "index exercise", slog.String("id", e.ID))
		}
		if err := validate(e); err != nil {
			return nil, fmt.Errorf("validate %s: %w", e.ID, err)
		}
		c.byID[e.ID] = len(c.exercises)
		c.exercises = append(c.exercises, e.Clone())
	}
	return c, nil
}

func validate(e Exercise) error {
	if e.DifficultyLevel < 1 || e.DifficultyLevel > 5 {
		return errors.Wrap(ErrInvalid, "difficulty out of range",
			slog.Int("difficulty_level", e.DifficultyLevel))
	}
	if !e.Category.Valid() {
		return errors.Wrap(ErrInvalid, "unknown category", slog.String("category", string(e.Category)))
	}
	return nil
}

// Len returns the number of exercises.
func (c *Catalog) Len() int {
	return len(c.exercises)
}

// ByID returns the exercise with the given id.
func (c *Catalog) ByID(id string) (Exercise, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Exercise{}, false
	}
	return c.exercises[i].Clone(), true
}

// ByMuscle returns exercises that train muscle as a primary or secondary muscle.
func (c *Catalog) ByMuscle(muscle string) []Exercise {
	return c.filter(func(e Exercise) bool { return e.HasMuscle(muscle) })
}

// ByEquipment returns exercises whose every required item is available. See EquipmentSatisfied.
func (c *Catalog) ByEquipment(available []string) []Exercise {
	return c.filter(func(e Exercise) bool { return EquipmentSatisfied(e.EquipmentRequired, available) })
}

// ByMaxDifficulty returns exercises with difficulty at most level.
func (c *Catalog) ByMaxDifficulty(level int) []Exercise {
	return c.filter(func(e Exercise) bool { return e.DifficultyLevel <= level })
}

// All returns every exercise in catalog order.
func (c *Catalog) All() []Exercise {
	return c.filter(func(Exercise) bool { return true })
}

func (c *Catalog) filter(keep func(Exercise) bool) []Exercise {
	var out []Exercise
	for _, e := range c.exercises {
		if keep(e) {
			out = append(out, e.Clone())
		}
	}
	return out
}
