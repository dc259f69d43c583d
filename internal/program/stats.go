package program

import (
	"math"
	"slices"

	"github.com/myrjola/fitcycle/internal/ptr"
)

// WeekStats aggregates one calendar week of a program.
type WeekStats struct {
	Week              int `json:"week"`
	CompletedDays     int `json:"completedDays"`
	TotalWorkouts     int `json:"totalWorkouts"`
	CompletedWorkouts int `json:"completedWorkouts"`
	Minutes           int `json:"minutes"`
	Calories          int `json:"calories"`
}

// Stats summarizes progress on a program.
type Stats struct {
	TotalMinutes         int          `json:"totalMinutes"`
	TotalCalories        int          `json:"totalCalories"`
	CompletedDays        int          `json:"completedDays"`
	CompletedWorkouts    int          `json:"completedWorkouts"`
	TotalWorkouts        int          `json:"totalWorkouts"`
	CurrentStreak        int          `json:"currentStreak"`
	LongestStreak        int          `json:"longestStreak"`
	CompletionPercentage int          `json:"completionPercentage"`
	Weeks                [4]WeekStats `json:"weeks"`
}

// PhaseProgress is the share of completed days within the weeks of the current phase.
type PhaseProgress struct {
	Phase         PhaseInfo `json:"phase"`
	CompletedDays int       `json:"completedDays"`
	TotalDays     int       `json:"totalDays"`
	Fraction      float64   `json:"fraction"`
}

// Stats aggregates the tracked program. Minutes prefer the recorded duration over the estimate. The zero value
// is returned without a program.
func (t *Tracker) Stats() Stats {
	var s Stats
	for i := range s.Weeks {
		s.Weeks[i].Week = i + 1
	}
	if t.program == nil {
		return s
	}
	p := t.program

	for _, d := range p.Days {
		w := &s.Weeks[min(max(d.WeekNumber, 1), len(s.Weeks))-1]
		if !d.IsRestDay {
			w.TotalWorkouts++
		}
		if !d.IsCompleted {
			continue
		}
		w.CompletedDays++
		if d.IsRestDay {
			continue
		}
		minutes := ptr.Deref(d.ActualDuration, d.EstimatedDuration)
		calories := minutes * caloriesPerMinute
		w.CompletedWorkouts++
		w.Minutes += minutes
		w.Calories += calories
		s.TotalMinutes += minutes
		s.TotalCalories += calories
	}

	s.CompletedDays = p.CompletedDays
	s.CompletedWorkouts = p.CompletedWorkouts
	s.TotalWorkouts = p.TotalWorkouts
	s.CurrentStreak = streakEndingAt(p.Days, t.TodayDayNumber())
	s.LongestStreak = max(p.StreakDays, s.CurrentStreak)
	s.CompletionPercentage = completionPercentage(p.CompletedDays)
	return s
}

func completionPercentage(completedDays int) int {
	return int(math.Round(float64(completedDays) / ProgramDays * 100)) //nolint:mnd // percent.
}

// PhaseProgress reports how far the user is within the phase of today. The zero value is returned without a
// program.
func (t *Tracker) PhaseProgress() PhaseProgress {
	if t.program == nil {
		return PhaseProgress{}
	}
	phase := PhaseForDay(t.TodayDayNumber())
	progress := PhaseProgress{Phase: phase}
	for _, d := range t.program.Days {
		if !slices.Contains(phase.WeekNumbers, d.WeekNumber) {
			continue
		}
		progress.TotalDays++
		if d.IsCompleted {
			progress.CompletedDays++
		}
	}
	if progress.TotalDays > 0 {
		progress.Fraction = float64(progress.CompletedDays) / float64(progress.TotalDays)
	}
	return progress
}
