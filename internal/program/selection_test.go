package program_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/fitcycle/internal/catalog"
	"github.com/myrjola/fitcycle/internal/program"
)

func TestSelector_Select_invariants(t *testing.T) {
	t.Parallel()
	c := seedCatalog(t)
	requests := []program.SelectionRequest{
		{Muscles: []string{"chest", "shoulders", "triceps"}, Count: 5, Equipment: []string{"dumbbells"}, DifficultyCeiling: 2},
		{Muscles: []string{"back", "biceps"}, Count: 4, Equipment: nil, DifficultyCeiling: 1},
		{Muscles: []string{"quads", "hamstrings", "glutes", "calves"}, Count: 6, Equipment: []string{"barbell", "kettlebell"}, DifficultyCeiling: 5},
		{Muscles: nil, Count: 3, Equipment: []string{"resistance band"}, DifficultyCeiling: 3},
	}
	for seed := range uint64(20) {
		sel := program.NewSelector(c, newRNG(seed))
		for _, req := range requests {
			got, updated := sel.Select(req, program.ExclusionSet{})
			if len(got) > req.Count {
				t.Fatalf("seed %d: selected %d exercises, want at most %d", seed, len(got), req.Count)
			}
			seen := map[string]bool{}
			for _, e := range got {
				if seen[e.ID] {
					t.Errorf("seed %d: %s selected twice", seed, e.ID)
				}
				seen[e.ID] = true
				if e.DifficultyLevel > req.DifficultyCeiling {
					t.Errorf("seed %d: %s difficulty %d above ceiling %d", seed, e.ID, e.DifficultyLevel, req.DifficultyCeiling)
				}
				if !catalog.EquipmentSatisfied(e.EquipmentRequired, req.Equipment) {
					t.Errorf("seed %d: %s needs %v, have %v", seed, e.ID, e.EquipmentRequired, req.Equipment)
				}
				if !updated.Contains(e.ID) {
					t.Errorf("seed %d: %s missing from returned exclusion set", seed, e.ID)
				}
			}
		}
	}
}

func TestSelector_Select_doesNotMutateExclusion(t *testing.T) {
	t.Parallel()
	c := seedCatalog(t)
	excluded := program.ExclusionSet{"push-up": {}}
	sel := program.NewSelector(c, newRNG(1))

	got, updated := sel.Select(program.SelectionRequest{
		Muscles: []string{"chest"}, Count: 3, Equipment: []string{"dumbbells", "bench"}, DifficultyCeiling: 5,
	}, excluded)

	if diff := cmp.Diff(program.ExclusionSet{"push-up": {}}, excluded); diff != "" {
		t.Errorf("caller's exclusion set changed (-want +got):\n%s", diff)
	}
	if !updated.Contains("push-up") {
		t.Error("returned set lost the original exclusions")
	}
	for _, e := range got {
		if e.ID == "push-up" {
			t.Error("excluded exercise was selected")
		}
	}
}

func TestSelector_Select_prefersPrimaryMuscle(t *testing.T) {
	t.Parallel()
	c, err := catalog.New([]catalog.Exercise{
		{ID: "primary", Category: catalog.CategoryStrength, DifficultyLevel: 1, PrimaryMuscles: []string{"chest"}},
		{ID: "secondary-1", Category: catalog.CategoryStrength, DifficultyLevel: 1, SecondaryMuscles: []string{"chest"}},
		{ID: "secondary-2", Category: catalog.CategoryStrength, DifficultyLevel: 1, SecondaryMuscles: []string{"Chest"}},
		{ID: "other", Category: catalog.CategoryStrength, DifficultyLevel: 1, PrimaryMuscles: []string{"back"}},
	})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	for seed := range uint64(10) {
		sel := program.NewSelector(c, newRNG(seed))
		req := program.SelectionRequest{Muscles: []string{"chest", "back"}, Count: 2, DifficultyCeiling: 1}
		got, _ := sel.Select(req, nil)
		if diff := cmp.Diff([]string{"primary", "other"}, exerciseIDs(got)); diff != "" {
			t.Errorf("seed %d mismatch (-want +got):\n%s", seed, diff)
		}
	}
}

func TestSelector_Select_fallbacks(t *testing.T) {
	t.Parallel()
	c, err := catalog.New([]catalog.Exercise{
		{ID: "a", Category: catalog.CategoryStrength, DifficultyLevel: 1, SecondaryMuscles: []string{"calves"}},
		{ID: "b", Category: catalog.CategoryStrength, DifficultyLevel: 1, PrimaryMuscles: []string{"core"}},
		{ID: "c", Category: catalog.CategoryStrength, DifficultyLevel: 1, PrimaryMuscles: []string{"back"}},
		{ID: "heavy", Category: catalog.CategoryStrength, DifficultyLevel: 5, PrimaryMuscles: []string{"calves"}},
		{ID: "geared", Category: catalog.CategoryStrength, DifficultyLevel: 1, PrimaryMuscles: []string{"calves"},
			EquipmentRequired: []string{"sled"}},
	})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	sel := program.NewSelector(c, newRNG(3))

	// Only a secondary match for calves, the rest is filled from any eligible exercise.
	got, _ := sel.Select(program.SelectionRequest{Muscles: []string{"calves"}, Count: 3, DifficultyCeiling: 2}, nil)
	ids := exerciseIDs(got)
	if len(ids) != 3 || ids[0] != "a" {
		t.Errorf("got %v, want a first followed by two fill exercises", ids)
	}

	// The pool runs dry before the count is reached.
	got, _ = sel.Select(program.SelectionRequest{Muscles: []string{"calves"}, Count: 10, DifficultyCeiling: 2}, nil)
	if len(got) != 3 {
		t.Errorf("selected %d exercises from a pool of 3", len(got))
	}

	got, _ = sel.Select(program.SelectionRequest{Muscles: []string{"calves"}, Count: 0, DifficultyCeiling: 5}, nil)
	if len(got) != 0 {
		t.Errorf("Count 0 selected %v", exerciseIDs(got))
	}
}

func TestSelector_Select_reproducible(t *testing.T) {
	t.Parallel()
	c := seedCatalog(t)
	req := program.SelectionRequest{
		Muscles: []string{"quads", "glutes"}, Count: 4, Equipment: []string{"dumbbells"}, DifficultyCeiling: 3,
	}
	first, _ := program.NewSelector(c, newRNG(42)).Select(req, nil)
	second, _ := program.NewSelector(c, newRNG(42)).Select(req, nil)
	if diff := cmp.Diff(exerciseIDs(first), exerciseIDs(second)); diff != "" {
		t.Errorf("same seed gave different selections (-first +second):\n%s", diff)
	}
}

func exerciseIDs(exercises []catalog.Exercise) []string {
	out := make([]string, 0, len(exercises))
	for _, e := range exercises {
		out = append(out, e.ID)
	}
	return out
}
