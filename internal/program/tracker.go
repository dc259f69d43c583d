package program

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/myrjola/fitcycle/internal/errors"
	"github.com/myrjola/fitcycle/internal/ptr"
)

var (
	ErrNoProgram        = errors.NewSentinel("no program")
	ErrDayNotFound      = errors.NewSentinel("day not found")
	ErrExerciseNotFound = errors.NewSentinel("exercise not found")
	ErrMalformedProgram = errors.NewSentinel("malformed program")
)

// Tracker owns at most one Program and is the only component that mutates it.
//
// Mutations update the in-memory program first and then write it to storage. A failed write is logged and
// leaves storage behind memory until the next successful write. Tracker is not safe for concurrent use.
type Tracker struct {
	storage Storage
	logger  *slog.Logger
	now     func() time.Time
	program *Program
}

func NewTracker(storage Storage, logger *slog.Logger, opts ...Option) *Tracker {
	o := applyOptions(opts)
	return &Tracker{
		storage: storage,
		logger:  logger,
		now:     o.now,
		program: nil,
	}
}

// Load replaces the tracked program with the stored one. A missing program leaves the tracker empty. So does a
// malformed one, which is logged and stays in storage until the user generates a new program or resets.
func (t *Tracker) Load(ctx context.Context) error {
	t.program = nil
	data, err := t.storage.Get(ctx, StorageKey)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get program: %w", err)
	}
	p, err := decodeProgram(data)
	if err != nil {
		t.logger.LogAttrs(ctx, slog.LevelError, "discarding stored program", errors.SlogError(err))
		return nil
	}
	t.program = &p
	return nil
}

func decodeProgram(data []byte) (Program, error) {
	var p Program
	if err := json.Unmarshal(data, &p); err != nil {
		return Program{}, errors.Join(ErrMalformedProgram, err)
	}
	if len(p.Days) != ProgramDays {
		return Program{}, errors.Wrap(ErrMalformedProgram, "decode program",
			slog.String("program_id", p.ID), slog.Int("days", len(p.Days)))
	}
	return p, nil
}

// Program returns a copy of the tracked program.
func (t *Tracker) Program() (Program, bool) {
	if t.program == nil {
		return Program{}, false
	}
	return t.program.Clone(), true
}

// HasProgram reports whether a program is tracked.
func (t *Tracker) HasProgram() bool {
	return t.program != nil
}

// SetProgram replaces the tracked program, typically with a freshly generated one, and persists it.
func (t *Tracker) SetProgram(ctx context.Context, p Program) {
	p = p.Clone()
	t.program = &p
	t.persist(ctx)
}

// Reset forgets the tracked program and deletes it from storage.
func (t *Tracker) Reset(ctx context.Context) {
	t.program = nil
	if err := t.storage.Delete(ctx, StorageKey); err != nil {
		t.logger.LogAttrs(ctx, slog.LevelError, "failed to delete program", errors.SlogError(err))
	}
}

func (t *Tracker) day(n int) (*ProgramDay, error) {
	if t.program == nil {
		return nil, ErrNoProgram
	}
	if n < 1 || n > len(t.program.Days) {
		return nil, errors.Wrap(ErrDayNotFound, "look up day", slog.Int("day", n))
	}
	return &t.program.Days[n-1], nil
}

func (t *Tracker) exercise(n int, exerciseID string) (*ProgramDayExercise, error) {
	d, err := t.day(n)
	if err != nil {
		return nil, err
	}
	for i := range d.Exercises {
		if d.Exercises[i].ExerciseID == exerciseID {
			return &d.Exercises[i], nil
		}
	}
	return nil, errors.Wrap(ErrExerciseNotFound, "look up exercise",
		slog.Int("day", n), slog.String("exercise_id", exerciseID))
}

// CompleteDay marks day n and its exercises completed. A positive actualDuration in minutes is recorded.
//
// The streak only grows here: it becomes the larger of the stored streak and the run of completed or rest days
// ending at n.
func (t *Tracker) CompleteDay(ctx context.Context, n int, actualDuration int) error {
	d, err := t.day(n)
	if err != nil {
		return err
	}
	d.IsCompleted = true
	d.CompletedAt = ptr.Ref(t.now())
	d.ActualDuration = nil
	if actualDuration > 0 {
		d.ActualDuration = ptr.Ref(actualDuration)
	}
	for i := range d.Exercises {
		d.Exercises[i].IsCompleted = true
		d.Exercises[i].IsSkipped = false
	}
	t.recount()
	t.program.StreakDays = max(t.program.StreakDays, streakEndingAt(t.program.Days, n))
	t.persist(ctx)
	return nil
}

// SkipDay counts day n as done with every exercise skipped. Skipping always resets the streak.
func (t *Tracker) SkipDay(ctx context.Context, n int) error {
	d, err := t.day(n)
	if err != nil {
		return err
	}
	d.IsCompleted = true
	d.CompletedAt = ptr.Ref(t.now())
	d.ActualDuration = nil
	for i := range d.Exercises {
		d.Exercises[i].IsCompleted = false
		d.Exercises[i].IsSkipped = true
	}
	t.recount()
	t.program.StreakDays = 0
	t.persist(ctx)
	return nil
}

// UncompleteDay reverts a completed or skipped day. The streak is left as is.
func (t *Tracker) UncompleteDay(ctx context.Context, n int) error {
	d, err := t.day(n)
	if err != nil {
		return err
	}
	d.IsCompleted = false
	d.CompletedAt = nil
	d.ActualDuration = nil
	for i := range d.Exercises {
		d.Exercises[i].IsCompleted = false
		d.Exercises[i].IsSkipped = false
	}
	t.recount()
	t.persist(ctx)
	return nil
}

// CompleteExercise marks a single exercise completed without touching the day.
func (t *Tracker) CompleteExercise(ctx context.Context, n int, exerciseID string) error {
	e, err := t.exercise(n, exerciseID)
	if err != nil {
		return err
	}
	e.IsCompleted = true
	e.IsSkipped = false
	t.persist(ctx)
	return nil
}

// SkipExercise marks a single exercise skipped without touching the day.
func (t *Tracker) SkipExercise(ctx context.Context, n int, exerciseID string) error {
	e, err := t.exercise(n, exerciseID)
	if err != nil {
		return err
	}
	e.IsCompleted = false
	e.IsSkipped = true
	t.persist(ctx)
	return nil
}

// SetExerciseNotes stores free-form notes on an exercise. Empty notes clear them.
func (t *Tracker) SetExerciseNotes(ctx context.Context, n int, exerciseID string, notes string) error {
	e, err := t.exercise(n, exerciseID)
	if err != nil {
		return err
	}
	e.Notes = nil
	if notes != "" {
		e.Notes = ptr.Ref(notes)
	}
	t.persist(ctx)
	return nil
}

func (t *Tracker) recount() {
	t.program.CompletedDays = 0
	t.program.CompletedWorkouts = 0
	for _, d := range t.program.Days {
		if !d.IsCompleted {
			continue
		}
		t.program.CompletedDays++
		if !d.IsRestDay {
			t.program.CompletedWorkouts++
		}
	}
}

// streakEndingAt counts the consecutive completed or rest days ending at day n.
func streakEndingAt(days []ProgramDay, n int) int {
	streak := 0
	for i := min(n, len(days)) - 1; i >= 0; i-- {
		if !days[i].IsCompleted && !days[i].IsRestDay {
			break
		}
		streak++
	}
	return streak
}

func (t *Tracker) persist(ctx context.Context) {
	t.program.CurrentDay = t.TodayDayNumber()
	t.program.UpdatedAt = t.now()
	data, err := json.Marshal(t.program)
	if err == nil {
		err = t.storage.Set(ctx, StorageKey, data)
	}
	if err != nil {
		t.logger.LogAttrs(ctx, slog.LevelError, "failed to persist program",
			slog.String("program_id", t.program.ID), errors.SlogError(err))
	}
}

// TodayDayNumber returns the program day of the current date clamped to [1, 28], or 0 without a program.
func (t *Tracker) TodayDayNumber() int {
	if t.program == nil {
		return 0
	}
	elapsed := t.now().Sub(t.program.StartDate)
	n := int(math.Floor(elapsed.Hours()/24)) + 1 //nolint:mnd // hours per day.
	return min(max(n, 1), ProgramDays)
}

// Today returns the program day of the current date.
func (t *Tracker) Today() (ProgramDay, bool) {
	d, err := t.Day(t.TodayDayNumber())
	if err != nil {
		return ProgramDay{}, false
	}
	return d, true
}

// Day returns a copy of day n.
func (t *Tracker) Day(n int) (ProgramDay, error) {
	d, err := t.day(n)
	if err != nil {
		return ProgramDay{}, err
	}
	return d.Clone(), nil
}
