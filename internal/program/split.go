package program

// SplitTemplate stamps a workout day before exercises are selected for it.
type SplitTemplate struct {
	SplitType     SplitType
	Title         string
	FocusMuscles  []string
	ExerciseCount int
}

const (
	MinDaysPerWeek = 3
	MaxDaysPerWeek = 6
)

// ClampDaysPerWeek limits n to the supported weekly frequencies.
func ClampDaysPerWeek(n int) int {
	return min(max(n, MinDaysPerWeek), MaxDaysPerWeek)
}

func pushTemplate() SplitTemplate {
	return SplitTemplate{SplitType: SplitPush, Title: "Push Day",
		FocusMuscles: []string{"chest", "shoulders", "triceps"}, ExerciseCount: 5}
}

func pullTemplate() SplitTemplate {
	return SplitTemplate{SplitType: SplitPull, Title: "Pull Day",
		FocusMuscles: []string{"back", "biceps", "core"}, ExerciseCount: 5}
}

func legsTemplate() SplitTemplate {
	return SplitTemplate{SplitType: SplitLegs, Title: "Leg Day",
		FocusMuscles: []string{"quads", "hamstrings", "glutes", "calves"}, ExerciseCount: 5}
}

func upperTemplate() SplitTemplate {
	return SplitTemplate{SplitType: SplitUpper, Title: "Upper Body",
		FocusMuscles: []string{"chest", "back", "shoulders", "biceps", "triceps"}, ExerciseCount: 6}
}

func lowerTemplate() SplitTemplate {
	return SplitTemplate{SplitType: SplitLower, Title: "Lower Body",
		FocusMuscles: []string{"quads", "hamstrings", "glutes", "calves", "core"}, ExerciseCount: 5}
}

// ResolveSplit returns the ordered day templates for a weekly frequency. The frequency is clamped to
// [MinDaysPerWeek, MaxDaysPerWeek]. Every call returns fresh values that the caller may modify.
func ResolveSplit(daysPerWeek int) []SplitTemplate {
	switch ClampDaysPerWeek(daysPerWeek) {
	case 4: //nolint:mnd // frequency.
		return []SplitTemplate{upperTemplate(), lowerTemplate(), upperTemplate(), lowerTemplate()}
	case 5: //nolint:mnd // frequency.
		return []SplitTemplate{pushTemplate(), pullTemplate(), legsTemplate(), upperTemplate(), lowerTemplate()}
	case 6: //nolint:mnd // frequency.
		return []SplitTemplate{
			pushTemplate(), pullTemplate(), legsTemplate(),
			pushTemplate(), pullTemplate(), legsTemplate(),
		}
	default:
		return []SplitTemplate{pushTemplate(), pullTemplate(), legsTemplate()}
	}
}
