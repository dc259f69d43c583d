package catalog_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/fitcycle/internal/catalog"
	"github.com/myrjola/fitcycle/internal/errors"
)

func testExercises() []catalog.Exercise {
	return []catalog.Exercise{
		{
			ID: "push-up", Name: "Push-Up", Category: catalog.CategoryStrength, DifficultyLevel: 2,
			PrimaryMuscles: []string{"chest"}, SecondaryMuscles: []string{"Triceps"},
			EquipmentRequired: []string{"bodyweight"},
		},
		{
			ID: "dumbbell-row", Name: "Dumbbell Row", Category: catalog.CategoryStrength, DifficultyLevel: 3,
			PrimaryMuscles: []string{"back"}, SecondaryMuscles: []string{"biceps"},
			EquipmentRequired: []string{"dumbbell"},
		},
		{
			ID: "barbell-bench-press", Name: "Barbell Bench Press", Category: catalog.CategoryStrength,
			DifficultyLevel: 4, PrimaryMuscles: []string{"chest"}, EquipmentRequired: []string{"barbell", "bench"},
		},
		{
			ID: "plank", Name: "Plank", Category: catalog.CategoryStrength, DifficultyLevel: 1,
			PrimaryMuscles: []string{"core"},
		},
	}
}

func ids(exercises []catalog.Exercise) []string {
	out := make([]string, 0, len(exercises))
	for _, e := range exercises {
		out = append(out, e.ID)
	}
	return out
}

func TestNew(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		exercises []catalog.Exercise
		wantErr   error
	}{
		{name: "valid", exercises: testExercises()},
		{name: "empty", exercises: nil},
		{
			name:      "empty id",
			exercises: []catalog.Exercise{{Name: "Nameless", Category: catalog.CategoryCardio, DifficultyLevel: 1}},
			wantErr:   catalog.ErrEmptyID,
		},
		{
			name:      "duplicate id",
			exercises: append(testExercises(), testExercises()[0]),
			wantErr:   catalog.ErrDuplicateID,
		},
		{
			name:      "difficulty out of range",
			exercises: []catalog.Exercise{{ID: "x", Category: catalog.CategoryCardio, DifficultyLevel: 6}},
			wantErr:   catalog.ErrInvalid,
		},
		{
			name:      "unknown category",
			exercises: []catalog.Exercise{{ID: "x", Category: "yoga", DifficultyLevel: 2}},
			wantErr:   catalog.ErrInvalid,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, err := catalog.New(tt.exercises)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() unexpected error: %v", err)
			}
			if c.Len() != len(tt.exercises) {
				t.Errorf("Len() = %d, want %d", c.Len(), len(tt.exercises))
			}
		})
	}
}

func TestCatalog_queries(t *testing.T) {
	t.Parallel()
	c, err := catalog.New(testExercises())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		name string
		got  []catalog.Exercise
		want []string
	}{
		{name: "all keeps order", got: c.All(), want: []string{"push-up", "dumbbell-row", "barbell-bench-press", "plank"}},
		{name: "primary muscle", got: c.ByMuscle("chest"), want: []string{"push-up", "barbell-bench-press"}},
		{name: "secondary muscle ignores case", got: c.ByMuscle("triceps"), want: []string{"push-up"}},
		{name: "unknown muscle", got: c.ByMuscle("neck"), want: []string{}},
		{name: "max difficulty", got: c.ByMaxDifficulty(2), want: []string{"push-up", "plank"}},
		{
			name: "equipment substring both ways",
			got:  c.ByEquipment([]string{"Dumbbells"}),
			want: []string{"push-up", "dumbbell-row", "plank"},
		},
		{
			name: "every required item must be available",
			got:  c.ByEquipment([]string{"barbell"}),
			want: []string{"push-up", "plank"},
		},
		{
			name: "full gym",
			got:  c.ByEquipment([]string{"barbell", "flat bench", "dumbbells"}),
			want: []string{"push-up", "dumbbell-row", "barbell-bench-press", "plank"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tt.want, ids(tt.got)); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCatalog_ByID_returnsCopy(t *testing.T) {
	t.Parallel()
	c, err := catalog.New(testExercises())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e, ok := c.ByID("push-up")
	if !ok {
		t.Fatal("push-up not found")
	}
	e.PrimaryMuscles[0] = "legs"

	again, _ := c.ByID("push-up")
	if again.PrimaryMuscles[0] != "chest" {
		t.Errorf("catalog was mutated through a returned exercise: %v", again.PrimaryMuscles)
	}
	if _, ok = c.ByID("missing"); ok {
		t.Error("ByID(missing) reported found")
	}
}

func TestEquipmentSatisfied(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		required  []string
		available []string
		want      bool
	}{
		{name: "nothing required", required: nil, available: nil, want: true},
		{name: "bodyweight marker", required: []string{"Bodyweight"}, available: nil, want: true},
		{name: "none marker", required: []string{"none"}, available: nil, want: true},
		{name: "available contains required", required: []string{"band"}, available: []string{"resistance band"}, want: true},
		{name: "required contains available", required: []string{"pull-up bar"}, available: []string{"pull-up"}, want: false},
		{name: "shorter available item", required: []string{"medicine ball"}, available: []string{"ball"}, want: false},
		{name: "prefix of required", required: []string{"barbell"}, available: []string{"bar"}, want: false},
		{name: "missing", required: []string{"kettlebell"}, available: []string{"dumbbells"}, want: false},
		{name: "one of two missing", required: []string{"barbell", "bench"}, available: []string{"barbell"}, want: false},
		{name: "blank available ignored", required: []string{"barbell"}, available: []string{""}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := catalog.EquipmentSatisfied(tt.required, tt.available); got != tt.want {
				t.Errorf("EquipmentSatisfied(%v, %v) = %v, want %v", tt.required, tt.available, got, tt.want)
			}
		})
	}
}
