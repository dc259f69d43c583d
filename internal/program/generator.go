// Package program generates periodized 28-day training programs and tracks progress on them.
package program

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/fitcycle/internal/catalog"
	"github.com/myrjola/fitcycle/internal/errors"
)

// Warm-up exercises open every workout day when the catalog has them.
const (
	WarmupJumpingJacks = "jumping-jacks"
	WarmupArmCircles   = "arm-circles"
)

const (
	warmupSets        = 1
	warmupRestSeconds = 30
	warmupRepsCardio  = "30-60 sec"
	warmupReps        = "10-15"

	minutesPerSet        = 1.5
	durationSlackMinutes = 10
	caloriesPerMinute    = 7

	restDayTitle    = "Rest Day"
	restDaySubtitle = "Recovery & regeneration"
)

var ErrNilCatalog = errors.NewSentinel("nil exercise catalog")

// GenerateOptions are the user preferences a program is generated from.
type GenerateOptions struct {
	UserID          string
	UserName        string
	DaysPerWeek     int
	WorkoutDays     []time.Weekday
	FitnessLevel    FitnessLevel
	PrimaryGoal     Goal
	WorkoutDuration int
	Equipment       []string
	// StartDate defaults to today.
	StartDate time.Time
}

// Generator assembles programs. It is not safe for concurrent use.
type Generator struct {
	catalog  *catalog.Catalog
	selector *Selector
	logger   *slog.Logger
	now      func() time.Time
}

// NewGenerator returns a Generator drawing exercises from c with rng.
func NewGenerator(c *catalog.Catalog, rng *rand.Rand, logger *slog.Logger, opts ...Option) (*Generator, error) {
	if c == nil {
		return nil, ErrNilCatalog
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // workout variety, not security.
	}
	o := applyOptions(opts)
	return &Generator{
		catalog:  c,
		selector: NewSelector(c, rng),
		logger:   logger,
		now:      o.now,
	}, nil
}

// Generate builds a 28-day program. Out of range input degrades instead of failing: the weekly frequency is
// clamped and an empty set of workout days yields a program of rest days.
func (g *Generator) Generate(ctx context.Context, opts GenerateOptions) Program {
	now := g.now()
	start := opts.StartDate
	if start.IsZero() {
		start = now
	}
	start = midnightUTC(start)

	daysPerWeek := ClampDaysPerWeek(opts.DaysPerWeek)
	templates := ResolveSplit(daysPerWeek)

	var (
		days         = make([]ProgramDay, 0, ProgramDays)
		weekly       = ExclusionSet{}
		workoutIndex = 0
	)
	for dayNumber := 1; dayNumber <= ProgramDays; dayNumber++ {
		date := start.AddDate(0, 0, dayNumber-1)
		week := WeekNumberForDay(dayNumber)
		phase := PhaseForDay(dayNumber)
		if dayNumber%7 == 1 {
			weekly = ExclusionSet{}
		}
		day := ProgramDay{
			DayNumber:    dayNumber,
			WeekNumber:   week,
			DayOfWeek:    date.Weekday(),
			Date:         date,
			FocusMuscles: []string{},
			Exercises:    []ProgramDayExercise{},
			Phase:        phase.Phase,
			PhaseWeek:    PhaseWeek(phase.Phase, week),
		}

		if !slices.Contains(opts.WorkoutDays, day.DayOfWeek) {
			day.IsRestDay = true
			day.Title = restDayTitle
			day.Subtitle = restDaySubtitle
			days = append(days, day)
			continue
		}

		template := templates[workoutIndex%len(templates)]
		workoutIndex++
		day.SplitType = template.SplitType
		day.Title = template.Title
		day.Subtitle = fmt.Sprintf("%s Phase · %s", phase.Name, phase.Focus)
		day.FocusMuscles = template.FocusMuscles
		day.Exercises, weekly = g.dayExercises(template, phase.Phase, opts, weekly)
		day.EstimatedDuration = estimateDuration(len(day.Exercises), SetsFor(phase.Phase, opts.PrimaryGoal),
			RestSecondsFor(opts.PrimaryGoal), opts.WorkoutDuration)
		day.EstimatedCalories = int(math.Round(float64(day.EstimatedDuration * caloriesPerMinute)))
		days = append(days, day)
	}

	p := Program{
		ID:          uuid.NewString(),
		UserID:      opts.UserID,
		Name:        programName(opts.UserName),
		Description: programDescription(daysPerWeek, opts.PrimaryGoal, opts.FitnessLevel),
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, ProgramDays-1),
		DaysPerWeek: daysPerWeek,
		WorkoutDays: slices.Clone(opts.WorkoutDays),
		Days:        days,
		CurrentDay:  1,
		GeneratedAt: now,
		UpdatedAt:   now,
		IsActive:    true,
	}
	for _, d := range days {
		if d.IsRestDay {
			p.TotalRestDays++
		} else {
			p.TotalWorkouts++
		}
	}

	g.logger.LogAttrs(ctx, slog.LevelDebug, "generated program",
		slog.String("program_id", p.ID),
		slog.Int("days_per_week", daysPerWeek),
		slog.Int("total_workouts", p.TotalWorkouts),
		slog.Time("start_date", start))
	return p
}

// dayExercises returns the warm-ups followed by the main exercises of a workout day and the weekly exclusion
// set extended with the selected ids.
func (g *Generator) dayExercises(
	template SplitTemplate,
	phase Phase,
	opts GenerateOptions,
	weekly ExclusionSet,
) ([]ProgramDayExercise, ExclusionSet) {
	var (
		sets        = SetsFor(phase, opts.PrimaryGoal)
		reps        = RepsFor(opts.PrimaryGoal, phase)
		restSeconds = RestSecondsFor(opts.PrimaryGoal)
		exercises   []ProgramDayExercise
	)

	excluded := weekly.Clone()
	for _, id := range []string{WarmupJumpingJacks, WarmupArmCircles} {
		e, ok := g.catalog.ByID(id)
		if !ok {
			continue
		}
		r := warmupReps
		if e.Category == catalog.CategoryCardio {
			r = warmupRepsCardio
		}
		exercises = append(exercises, newDayExercise(e, warmupSets, r, warmupRestSeconds))
		excluded.Add(id)
	}

	main, updated := g.selector.Select(SelectionRequest{
		Muscles:           template.FocusMuscles,
		Count:             template.ExerciseCount,
		Equipment:         opts.Equipment,
		DifficultyCeiling: DifficultyFor(phase, opts.FitnessLevel),
	}, excluded)
	for _, e := range main {
		exercises = append(exercises, newDayExercise(e, sets, reps, restSeconds))
	}

	for i := range exercises {
		exercises[i].Order = i
	}
	return exercises, updated
}

func newDayExercise(e catalog.Exercise, sets int, reps string, restSeconds int) ProgramDayExercise {
	return ProgramDayExercise{
		ExerciseID:      e.ID,
		Name:            e.Name,
		Sets:            sets,
		Reps:            reps,
		RestSeconds:     restSeconds,
		ExerciseDetails: e,
	}
}

// estimateDuration assumes 1.5 minutes per set plus the prescribed rest once per exercise and caps the result
// at the requested session length plus ten minutes.
func estimateDuration(exercises, sets, restSeconds, workoutDuration int) int {
	n := float64(exercises)
	minutes := int(math.Round(n*float64(sets)*minutesPerSet + n*float64(restSeconds)/60)) //nolint:mnd // seconds.
	return min(minutes, workoutDuration+durationSlackMinutes)
}

func programName(userName string) string {
	if userName == "" {
		return "Your 28-Day Program"
	}
	return userName + "'s 28-Day Program"
}

func programDescription(daysPerWeek int, goal Goal, level FitnessLevel) string {
	goalText := map[Goal]string{
		GoalLoseWeight:  "lose weight",
		GoalBuildMuscle: "build muscle",
		GoalGetFitter:   "get fitter",
		GoalMaintain:    "maintain your fitness",
	}[goal]
	if goalText == "" {
		goalText = "train consistently"
	}
	if level == "" {
		level = FitnessIntermediate
	}
	return fmt.Sprintf("%d workouts per week to help you %s, tuned for the %s level.", daysPerWeek, goalText, level)
}
