package program

import (
	"math/rand/v2"

	"github.com/myrjola/fitcycle/internal/catalog"
)

// ExclusionSet holds exercise ids that must not be selected again, typically the ids used earlier in the
// same calendar week.
type ExclusionSet map[string]struct{}

// Clone returns an independent copy. Cloning a nil set returns an empty set.
func (s ExclusionSet) Clone() ExclusionSet {
	out := make(ExclusionSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

func (s ExclusionSet) Add(id string) {
	s[id] = struct{}{}
}

func (s ExclusionSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// SelectionRequest describes the exercises wanted for one workout day.
type SelectionRequest struct {
	Muscles           []string
	Count             int
	Equipment         []string
	DifficultyCeiling int
}

// Selector draws exercises from a catalog. It is not safe for concurrent use because *rand.Rand is not.
type Selector struct {
	catalog *catalog.Catalog
	rng     *rand.Rand
}

func NewSelector(c *catalog.Catalog, rng *rand.Rand) *Selector {
	return &Selector{catalog: c, rng: rng}
}

// Select returns at most req.Count exercises together with a copy of excluded extended with their ids.
// excluded itself is left untouched.
//
// Muscles are served in order, each with an equal share of the count. A muscle draws from exercises that train
// it as a primary muscle and falls back to secondary matches when there are none. Slots left over are filled
// from any eligible exercise. Fewer than req.Count exercises are returned when the eligible pool runs dry.
func (s *Selector) Select(req SelectionRequest, excluded ExclusionSet) ([]catalog.Exercise, ExclusionSet) {
	used := excluded.Clone()
	if req.Count <= 0 {
		return nil, used
	}

	var eligible []catalog.Exercise
	for _, e := range s.catalog.ByMaxDifficulty(req.DifficultyCeiling) {
		if catalog.EquipmentSatisfied(e.EquipmentRequired, req.Equipment) {
			eligible = append(eligible, e)
		}
	}

	selected := make([]catalog.Exercise, 0, req.Count)
	if len(req.Muscles) > 0 {
		perMuscle := (req.Count + len(req.Muscles) - 1) / len(req.Muscles)
		for _, muscle := range req.Muscles {
			if len(selected) >= req.Count {
				break
			}
			var pool, primary []catalog.Exercise
			for _, e := range eligible {
				if used.Contains(e.ID) || !e.HasMuscle(muscle) {
					continue
				}
				pool = append(pool, e)
				if e.HasPrimaryMuscle(muscle) {
					primary = append(primary, e)
				}
			}
			if len(primary) > 0 {
				pool = primary
			}
			want := min(perMuscle, req.Count-len(selected))
			selected = s.draw(selected, pool, want, used)
		}
	}

	if missing := req.Count - len(selected); missing > 0 {
		var rest []catalog.Exercise
		for _, e := range eligible {
			if !used.Contains(e.ID) {
				rest = append(rest, e)
			}
		}
		selected = s.draw(selected, rest, missing, used)
	}
	return selected, used
}

// draw moves up to n uniformly random exercises from pool to selected and records them in used. pool is
// reordered in the process.
func (s *Selector) draw(selected, pool []catalog.Exercise, n int, used ExclusionSet) []catalog.Exercise {
	for range n {
		if len(pool) == 0 {
			break
		}
		i := s.rng.IntN(len(pool))
		picked := pool[i]
		pool[i] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]
		selected = append(selected, picked)
		used.Add(picked.ID)
	}
	return selected
}
