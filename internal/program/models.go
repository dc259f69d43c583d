package program

import (
	"slices"
	"time"

	"github.com/myrjola/fitcycle/internal/catalog"
	"github.com/myrjola/fitcycle/internal/ptr"
)

// ProgramDays is the length of every program.
const ProgramDays = 28

// FitnessLevel is the self-reported training experience of a user.
type FitnessLevel string

const (
	FitnessBeginner     FitnessLevel = "beginner"
	FitnessIntermediate FitnessLevel = "intermediate"
	FitnessAdvanced     FitnessLevel = "advanced"
)

// Goal is the primary training goal of a user.
type Goal string

const (
	GoalLoseWeight  Goal = "lose_weight"
	GoalBuildMuscle Goal = "build_muscle"
	GoalGetFitter   Goal = "get_fitter"
	GoalMaintain    Goal = "maintain"
)

// SplitType groups the muscles trained on a workout day.
type SplitType string

const (
	SplitPush  SplitType = "push"
	SplitPull  SplitType = "pull"
	SplitLegs  SplitType = "legs"
	SplitUpper SplitType = "upper"
	SplitLower SplitType = "lower"
)

// Program is a generated 28-day training calendar together with the progress made on it.
type Program struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// StartDate and EndDate are midnight UTC and the window is inclusive.
	StartDate         time.Time      `json:"startDate"`
	EndDate           time.Time      `json:"endDate"`
	DaysPerWeek       int            `json:"daysPerWeek"`
	WorkoutDays       []time.Weekday `json:"workoutDays"`
	Days              []ProgramDay   `json:"days"`
	TotalWorkouts     int            `json:"totalWorkouts"`
	TotalRestDays     int            `json:"totalRestDays"`
	CurrentDay        int            `json:"currentDay"`
	CompletedDays     int            `json:"completedDays"`
	CompletedWorkouts int            `json:"completedWorkouts"`
	StreakDays        int            `json:"streakDays"`
	GeneratedAt       time.Time      `json:"generatedAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
	IsActive          bool           `json:"isActive"`
}

// ProgramDay is one calendar day of a Program. Days[i] has DayNumber i+1.
type ProgramDay struct {
	DayNumber         int                  `json:"dayNumber"`
	WeekNumber        int                  `json:"weekNumber"`
	DayOfWeek         time.Weekday         `json:"dayOfWeek"`
	Date              time.Time            `json:"date"`
	IsRestDay         bool                 `json:"isRestDay"`
	IsCompleted       bool                 `json:"isCompleted"`
	SplitType         SplitType            `json:"splitType,omitempty"`
	Title             string               `json:"title"`
	Subtitle          string               `json:"subtitle"`
	FocusMuscles      []string             `json:"focusMuscles"`
	Exercises         []ProgramDayExercise `json:"exercises"`
	EstimatedDuration int                  `json:"estimatedDuration"`
	EstimatedCalories int                  `json:"estimatedCalories"`
	Phase             Phase                `json:"phase"`
	PhaseWeek         int                  `json:"phaseWeek"`
	CompletedAt       *time.Time           `json:"completedAt,omitempty"`
	ActualDuration    *int                 `json:"actualDuration,omitempty"`
}

// ProgramDayExercise is a single exercise instance within a day. Instances are never shared between days.
type ProgramDayExercise struct {
	ExerciseID      string           `json:"exerciseId"`
	Name            string           `json:"name"`
	Sets            int              `json:"sets"`
	Reps            string           `json:"reps"`
	RestSeconds     int              `json:"restSeconds"`
	Order           int              `json:"order"`
	ExerciseDetails catalog.Exercise `json:"exerciseDetails"`
	IsCompleted     bool             `json:"isCompleted"`
	IsSkipped       bool             `json:"isSkipped"`
	Notes           *string          `json:"notes,omitempty"`
}

// Clone returns a deep copy of p.
func (p Program) Clone() Program {
	p.WorkoutDays = slices.Clone(p.WorkoutDays)
	days := make([]ProgramDay, len(p.Days))
	for i, d := range p.Days {
		days[i] = d.Clone()
	}
	p.Days = days
	return p
}

// Clone returns a deep copy of d.
func (d ProgramDay) Clone() ProgramDay {
	d.FocusMuscles = slices.Clone(d.FocusMuscles)
	exercises := make([]ProgramDayExercise, len(d.Exercises))
	for i, e := range d.Exercises {
		e.ExerciseDetails = e.ExerciseDetails.Clone()
		e.Notes = ptr.Clone(e.Notes)
		exercises[i] = e
	}
	d.Exercises = exercises
	d.CompletedAt = ptr.Clone(d.CompletedAt)
	d.ActualDuration = ptr.Clone(d.ActualDuration)
	return d
}
