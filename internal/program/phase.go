package program

import "slices"

// Phase is a two-week periodization block.
type Phase string

const (
	PhaseFoundation Phase = "FOUNDATION"
	PhaseBuild      Phase = "BUILD"
	PhaseIntensity  Phase = "INTENSITY"
	PhaseDeload     Phase = "DELOAD"
)

// PhaseInfo describes a phase. IntensityScore and VolumeScore range from 1 to 10.
type PhaseInfo struct {
	Phase          Phase  `json:"phase"`
	Name           string `json:"name"`
	WeekNumbers    []int  `json:"weekNumbers"`
	IntensityScore int    `json:"intensityScore"`
	VolumeScore    int    `json:"volumeScore"`
	Focus          string `json:"focus"`
}

// phases spans eight weeks while a program lasts four, so only FOUNDATION and BUILD are ever reached.
//
//nolint:gochecknoglobals // static lookup table.
var phases = [...]PhaseInfo{
	{Phase: PhaseFoundation, Name: "Foundation", WeekNumbers: []int{1, 2}, IntensityScore: 5, VolumeScore: 6,
		Focus: "Form & Technique"},
	{Phase: PhaseBuild, Name: "Build", WeekNumbers: []int{3, 4}, IntensityScore: 7, VolumeScore: 7,
		Focus: "Progressive Overload"},
	{Phase: PhaseIntensity, Name: "Intensity", WeekNumbers: []int{5, 6}, IntensityScore: 8, VolumeScore: 6,
		Focus: "Strength & Power"},
	{Phase: PhaseDeload, Name: "Deload", WeekNumbers: []int{7, 8}, IntensityScore: 4, VolumeScore: 4,
		Focus: "Recovery"},
}

func (p PhaseInfo) clone() PhaseInfo {
	p.WeekNumbers = slices.Clone(p.WeekNumbers)
	return p
}

// Phases returns the phase table in order.
func Phases() []PhaseInfo {
	out := make([]PhaseInfo, len(phases))
	for i, p := range phases {
		out[i] = p.clone()
	}
	return out
}

// WeekNumberForDay returns ceil(day/7).
func WeekNumberForDay(day int) int {
	return (day + 6) / 7 //nolint:mnd // days per week.
}

// PhaseForWeek returns the first phase containing week, defaulting to FOUNDATION.
func PhaseForWeek(week int) PhaseInfo {
	for _, p := range phases {
		if slices.Contains(p.WeekNumbers, week) {
			return p.clone()
		}
	}
	return phases[0].clone()
}

// PhaseForDay returns the phase of a program day.
func PhaseForDay(day int) PhaseInfo {
	return PhaseForWeek(WeekNumberForDay(day))
}

// PhaseWeek returns the 1-based position of week within the span of phase, or 1 when the phase does not contain it.
func PhaseWeek(phase Phase, week int) int {
	for _, p := range phases {
		if p.Phase != phase {
			continue
		}
		if i := slices.Index(p.WeekNumbers, week); i >= 0 {
			return i + 1
		}
	}
	return 1
}

func phaseModifier(phase Phase) int {
	switch phase {
	case PhaseBuild, PhaseIntensity:
		return 1
	case PhaseDeload:
		return -1
	case PhaseFoundation:
		return 0
	}
	return 0
}

// DifficultyFor returns the difficulty ceiling for main exercises. Unknown levels count as intermediate.
func DifficultyFor(phase Phase, level FitnessLevel) int {
	base := 3
	switch level {
	case FitnessBeginner:
		base = 2
	case FitnessAdvanced:
		base = 4
	case FitnessIntermediate:
	}
	return min(max(base+phaseModifier(phase), 1), 5) //nolint:mnd // difficulty scale.
}

// SetsFor returns the working sets per main exercise, never fewer than two.
func SetsFor(phase Phase, goal Goal) int {
	base := 3
	if goal == GoalBuildMuscle {
		base = 4
	}
	return max(base+phaseModifier(phase), 2) //nolint:mnd // minimum sets.
}

//nolint:gochecknoglobals // static lookup table.
var repsTable = map[Goal]map[Phase]string{
	GoalLoseWeight:  {PhaseFoundation: "12-15", PhaseBuild: "12-15", PhaseIntensity: "10-12", PhaseDeload: "15-20"},
	GoalBuildMuscle: {PhaseFoundation: "10-12", PhaseBuild: "8-10", PhaseIntensity: "6-8", PhaseDeload: "12-15"},
	GoalGetFitter:   {PhaseFoundation: "10-12", PhaseBuild: "10-12", PhaseIntensity: "8-10", PhaseDeload: "12-15"},
	GoalMaintain:    {PhaseFoundation: "10-12", PhaseBuild: "10-12", PhaseIntensity: "10-12", PhaseDeload: "12-15"},
}

// DefaultReps is used for goal and phase combinations missing from the table.
const DefaultReps = "10-12"

// RepsFor returns the rep range of main exercises.
func RepsFor(goal Goal, phase Phase) string {
	if reps, ok := repsTable[goal][phase]; ok {
		return reps
	}
	return DefaultReps
}

// RestSecondsFor returns the rest between sets of main exercises.
func RestSecondsFor(goal Goal) int {
	switch goal {
	case GoalLoseWeight:
		return 45 //nolint:mnd // seconds.
	case GoalBuildMuscle:
		return 90 //nolint:mnd // seconds.
	case GoalGetFitter, GoalMaintain:
		return 60 //nolint:mnd // seconds.
	}
	return 60 //nolint:mnd // seconds.
}
