package catalog

import (
	"slices"
	"strings"
)

// Category classifies how an exercise trains the body.
type Category string

const (
	CategoryStrength   Category = "strength"
	CategoryCardio     Category = "cardio"
	CategoryMobility   Category = "mobility"
	CategoryPlyometric Category = "plyometric"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryStrength, CategoryCardio, CategoryMobility, CategoryPlyometric:
		return true
	}
	return false
}

// Range is an inclusive recommendation such as 3-4 sets.
type Range struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Exercise is a single catalog record, e.g. Goblet Squat. Description is markdown.
type Exercise struct {
	ID                string   `json:"id"                 yaml:"id"`
	Name              string   `json:"name"               yaml:"name"`
	Category          Category `json:"category"           yaml:"category"`
	PrimaryMuscles    []string `json:"primary_muscles"    yaml:"primary_muscles"`
	SecondaryMuscles  []string `json:"secondary_muscles"  yaml:"secondary_muscles"`
	DifficultyLevel   int      `json:"difficulty_level"   yaml:"difficulty_level"`
	EquipmentRequired []string `json:"equipment_required" yaml:"equipment_required"`
	Description       string   `json:"description"        yaml:"description"`
	SetupInstructions string   `json:"setup_instructions" yaml:"setup_instructions"`
	ExecutionSteps    []string `json:"execution_steps"    yaml:"execution_steps"`
	FormCues          []string `json:"form_cues"          yaml:"form_cues"`
	CommonMistakes    []string `json:"common_mistakes"    yaml:"common_mistakes"`
	Tips              []string `json:"tips"               yaml:"tips"`
	RecommendedSets   Range    `json:"recommended_sets"   yaml:"recommended_sets"`
	RecommendedReps   Range    `json:"recommended_reps"   yaml:"recommended_reps"`
	RestSeconds       Range    `json:"rest_seconds"       yaml:"rest_seconds"`
}

// Clone returns a copy of e that shares no slices with it.
func (e Exercise) Clone() Exercise {
	e.PrimaryMuscles = slices.Clone(e.PrimaryMuscles)
	e.SecondaryMuscles = slices.Clone(e.SecondaryMuscles)
	e.EquipmentRequired = slices.Clone(e.EquipmentRequired)
	e.ExecutionSteps = slices.Clone(e.ExecutionSteps)
	e.FormCues = slices.Clone(e.FormCues)
	e.CommonMistakes = slices.Clone(e.CommonMistakes)
	e.Tips = slices.Clone(e.Tips)
	return e
}

// HasPrimaryMuscle reports whether muscle is one of the primary muscles, ignoring case.
func (e Exercise) HasPrimaryMuscle(muscle string) bool {
	return containsFold(e.PrimaryMuscles, muscle)
}

// HasMuscle reports whether muscle is a primary or secondary muscle, ignoring case.
func (e Exercise) HasMuscle(muscle string) bool {
	return containsFold(e.PrimaryMuscles, muscle) || containsFold(e.SecondaryMuscles, muscle)
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}

// Bodyweight markers satisfy an equipment requirement without any gear.
const (
	EquipmentBodyweight = "bodyweight"
	EquipmentNone       = "none"
)

// EquipmentSatisfied reports whether every item in required is covered by available.
//
// An item is covered when it is a bodyweight marker or when an available item contains it, ignoring case.
// "dumbbell" is therefore covered by "Dumbbells" but "barbell" is not covered by "bar".
func EquipmentSatisfied(required, available []string) bool {
	for _, item := range required {
		if !itemAvailable(item, available) {
			return false
		}
	}
	return true
}

func itemAvailable(item string, available []string) bool {
	need := strings.ToLower(strings.TrimSpace(item))
	if need == "" || need == EquipmentBodyweight || need == EquipmentNone {
		return true
	}
	for _, a := range available {
		have := strings.ToLower(strings.TrimSpace(a))
		if have == "" {
			continue
		}
		if strings.Contains(have, need) {
			return true
		}
	}
	return false
}
