package program

import "testing"

func Test_estimateDuration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name            string
		exercises       int
		sets            int
		rest            int
		workoutDuration int
		want            int
	}{
		{name: "no exercises", exercises: 0, sets: 4, rest: 90, workoutDuration: 45, want: 0},
		{name: "uncapped", exercises: 4, sets: 3, rest: 60, workoutDuration: 60, want: 22},
		{name: "rounds half up", exercises: 1, sets: 3, rest: 60, workoutDuration: 30, want: 6},
		{name: "capped at duration plus ten", exercises: 7, sets: 4, rest: 90, workoutDuration: 30, want: 40},
		{name: "zero duration still capped", exercises: 7, sets: 4, rest: 90, workoutDuration: 0, want: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := estimateDuration(tt.exercises, tt.sets, tt.rest, tt.workoutDuration); got != tt.want {
				t.Errorf("estimateDuration() = %d, want %d", got, tt.want)
			}
		})
	}
}

func Test_streakEndingAt(t *testing.T) {
	t.Parallel()
	done := ProgramDay{IsCompleted: true}
	rest := ProgramDay{IsRestDay: true}
	open := ProgramDay{}
	tests := []struct {
		name string
		days []ProgramDay
		n    int
		want int
	}{
		{name: "empty", days: nil, n: 1, want: 0},
		{name: "open day breaks", days: []ProgramDay{done, open, done, rest, done}, n: 5, want: 3},
		{name: "ends on open day", days: []ProgramDay{done, done, open}, n: 3, want: 0},
		{name: "rest days count", days: []ProgramDay{rest, rest}, n: 2, want: 2},
		{name: "n beyond length", days: []ProgramDay{done, done}, n: 10, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := streakEndingAt(tt.days, tt.n); got != tt.want {
				t.Errorf("streakEndingAt(%d) = %d, want %d", tt.n, got, tt.want)
			}
		})
	}
}
