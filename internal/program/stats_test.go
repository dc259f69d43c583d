package program_test

import (
	"math"
	"testing"
	"time"

	"github.com/myrjola/fitcycle/internal/program"
)

func TestTracker_Stats(t *testing.T) {
	t.Parallel()
	f := newTracker(t)
	ctx := t.Context()
	*f.now = monday.AddDate(0, 0, 2).Add(18 * time.Hour) // day 3

	if err := f.tracker.CompleteDay(ctx, 1, 40); err != nil {
		t.Fatalf("CompleteDay(1): %v", err)
	}
	if err := f.tracker.CompleteDay(ctx, 3, 0); err != nil {
		t.Fatalf("CompleteDay(3): %v", err)
	}
	if err := f.tracker.SkipDay(ctx, 8); err != nil {
		t.Fatalf("SkipDay(8): %v", err)
	}
	p := f.program(t)
	s := f.tracker.Stats()

	day3, day8 := p.Days[2], p.Days[7]
	wantMinutes := 40 + day3.EstimatedDuration + day8.EstimatedDuration
	if s.TotalMinutes != wantMinutes {
		t.Errorf("TotalMinutes = %d, want %d", s.TotalMinutes, wantMinutes)
	}
	wantCalories := 40*7 + day3.EstimatedCalories + day8.EstimatedCalories
	if s.TotalCalories != wantCalories {
		t.Errorf("TotalCalories = %d, want %d", s.TotalCalories, wantCalories)
	}
	if s.CompletedDays != 3 || s.CompletedWorkouts != 3 || s.TotalWorkouts != p.TotalWorkouts {
		t.Errorf("counts %d/%d of %d", s.CompletedDays, s.CompletedWorkouts, s.TotalWorkouts)
	}
	// The skip zeroed the stored streak but days 1 to 3 are still a run ending today.
	if s.CurrentStreak != 3 || s.LongestStreak != 3 {
		t.Errorf("streaks current=%d longest=%d, want 3 and 3", s.CurrentStreak, s.LongestStreak)
	}
	if s.CompletionPercentage != 11 {
		t.Errorf("CompletionPercentage = %d, want round(3/28*100) = 11", s.CompletionPercentage)
	}
	if s.Weeks[0].Week != 1 || s.Weeks[0].CompletedWorkouts != 2 || s.Weeks[1].CompletedWorkouts != 1 {
		t.Errorf("weekly breakdown %+v", s.Weeks)
	}
	if s.Weeks[0].TotalWorkouts != 4 || s.Weeks[3].Week != 4 {
		t.Errorf("weekly totals %+v", s.Weeks)
	}
}

func TestTracker_Stats_completionPercentage(t *testing.T) {
	t.Parallel()
	f := newTracker(t)
	ctx := t.Context()
	for n := 1; n <= program.ProgramDays; n++ {
		if err := f.tracker.CompleteDay(ctx, n, 0); err != nil {
			t.Fatalf("CompleteDay(%d): %v", n, err)
		}
		want := int(math.Round(float64(n) / 28 * 100))
		if got := f.tracker.Stats().CompletionPercentage; got != want {
			t.Errorf("after %d days CompletionPercentage = %d, want %d", n, got, want)
		}
	}
	if s := f.tracker.Stats(); s.LongestStreak != program.ProgramDays {
		t.Errorf("LongestStreak = %d after completing everything", s.LongestStreak)
	}
}

func TestTracker_PhaseProgress(t *testing.T) {
	t.Parallel()
	f := newTracker(t)
	ctx := t.Context()
	for _, n := range []int{1, 2, 3} {
		if err := f.tracker.CompleteDay(ctx, n, 0); err != nil {
			t.Fatalf("CompleteDay(%d): %v", n, err)
		}
	}

	got := f.tracker.PhaseProgress()
	if got.Phase.Phase != program.PhaseFoundation || got.TotalDays != 14 || got.CompletedDays != 3 {
		t.Errorf("PhaseProgress = %+v", got)
	}
	if want := 3.0 / 14; math.Abs(got.Fraction-want) > 1e-9 {
		t.Errorf("Fraction = %f, want %f", got.Fraction, want)
	}

	*f.now = monday.AddDate(0, 0, 20)
	got = f.tracker.PhaseProgress()
	if got.Phase.Phase != program.PhaseBuild || got.CompletedDays != 0 || got.TotalDays != 14 {
		t.Errorf("PhaseProgress in week 3 = %+v", got)
	}
}

func TestTracker_Stats_withoutProgram(t *testing.T) {
	t.Parallel()
	tracker := program.NewTracker(newMemStorage(), nil)
	s := tracker.Stats()
	if s.CompletedDays != 0 || s.Weeks[2].Week != 3 {
		t.Errorf("Stats() = %+v", s)
	}
	if pp := tracker.PhaseProgress(); pp.TotalDays != 0 {
		t.Errorf("PhaseProgress() = %+v", pp)
	}
}
