package program

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/myrjola/fitcycle/internal/catalog"
	"github.com/myrjola/fitcycle/internal/contexthelpers"
	"github.com/myrjola/fitcycle/internal/errors"
)

// Service runs program operations for the user of the request context.
type Service struct {
	storage   Storage
	catalog   *catalog.Catalog
	logger    *slog.Logger
	opts      []Option
	generator *Generator

	// mu serializes load, mutate and persist cycles so that concurrent requests do not overwrite each
	// other's progress. It also guards the generator's random source.
	mu sync.Mutex
}

// NewService creates a new program service.
func NewService(
	storage Storage,
	c *catalog.Catalog,
	rng *rand.Rand,
	logger *slog.Logger,
	opts ...Option,
) (*Service, error) {
	gen, err := NewGenerator(c, rng, logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("new generator: %w", err)
	}
	return &Service{
		storage:   storage,
		catalog:   c,
		logger:    logger,
		opts:      opts,
		generator: gen,
		mu:        sync.Mutex{},
	}, nil
}

// withTracker runs fn on a tracker loaded with the program of the context user.
func (s *Service) withTracker(ctx context.Context, fn func(t *Tracker) error) error {
	if contexthelpers.AuthenticatedUserID(ctx) == "" {
		return ErrNoUser
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := NewTracker(s.storage, s.logger, s.opts...)
	if err := t.Load(ctx); err != nil {
		return fmt.Errorf("load tracker: %w", err)
	}
	return fn(t)
}

// Generate creates a program for the context user and replaces any existing one.
func (s *Service) Generate(ctx context.Context, opts GenerateOptions) (Program, error) {
	if opts.UserID == "" {
		opts.UserID = contexthelpers.AuthenticatedUserID(ctx)
	}
	var p Program
	err := s.withTracker(ctx, func(t *Tracker) error {
		t.SetProgram(ctx, s.generator.Generate(ctx, opts))
		p, _ = t.Program()
		s.logger.LogAttrs(ctx, slog.LevelInfo, "generated program",
			slog.String("program_id", p.ID),
			slog.Int("total_workouts", p.TotalWorkouts))
		return nil
	})
	if err != nil {
		return Program{}, err
	}
	return p, nil
}

// Program returns the program of the context user.
func (s *Service) Program(ctx context.Context) (Program, error) {
	var p Program
	err := s.withTracker(ctx, func(t *Tracker) error {
		var ok bool
		if p, ok = t.Program(); !ok {
			return ErrNoProgram
		}
		return nil
	})
	return p, err
}

// Reset deletes the program of the context user.
func (s *Service) Reset(ctx context.Context) error {
	return s.withTracker(ctx, func(t *Tracker) error {
		t.Reset(ctx)
		return nil
	})
}

// mutateDay applies a tracker mutation and returns the resulting day n.
func (s *Service) mutateDay(ctx context.Context, n int, mutate func(t *Tracker) error) (ProgramDay, error) {
	var day ProgramDay
	err := s.withTracker(ctx, func(t *Tracker) error {
		if err := mutate(t); err != nil {
			return err
		}
		var err error
		day, err = t.Day(n)
		return err
	})
	return day, err
}

func (s *Service) CompleteDay(ctx context.Context, n int, actualDuration int) (ProgramDay, error) {
	return s.mutateDay(ctx, n, func(t *Tracker) error { return t.CompleteDay(ctx, n, actualDuration) })
}

func (s *Service) SkipDay(ctx context.Context, n int) (ProgramDay, error) {
	return s.mutateDay(ctx, n, func(t *Tracker) error { return t.SkipDay(ctx, n) })
}

func (s *Service) UncompleteDay(ctx context.Context, n int) (ProgramDay, error) {
	return s.mutateDay(ctx, n, func(t *Tracker) error { return t.UncompleteDay(ctx, n) })
}

func (s *Service) CompleteExercise(ctx context.Context, n int, exerciseID string) (ProgramDay, error) {
	return s.mutateDay(ctx, n, func(t *Tracker) error { return t.CompleteExercise(ctx, n, exerciseID) })
}

func (s *Service) SkipExercise(ctx context.Context, n int, exerciseID string) (ProgramDay, error) {
	return s.mutateDay(ctx, n, func(t *Tracker) error { return t.SkipExercise(ctx, n, exerciseID) })
}

func (s *Service) SetExerciseNotes(ctx context.Context, n int, exerciseID, notes string) (ProgramDay, error) {
	return s.mutateDay(ctx, n, func(t *Tracker) error { return t.SetExerciseNotes(ctx, n, exerciseID, notes) })
}

// Day returns day n of the context user's program.
func (s *Service) Day(ctx context.Context, n int) (ProgramDay, error) {
	return s.mutateDay(ctx, n, func(*Tracker) error { return nil })
}

// Today returns the day of the context user's program that falls on the current date.
func (s *Service) Today(ctx context.Context) (ProgramDay, error) {
	var day ProgramDay
	err := s.withTracker(ctx, func(t *Tracker) error {
		var ok bool
		if day, ok = t.Today(); !ok {
			return ErrNoProgram
		}
		return nil
	})
	return day, err
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := s.withTracker(ctx, func(t *Tracker) error {
		if !t.HasProgram() {
			return ErrNoProgram
		}
		stats = t.Stats()
		return nil
	})
	return stats, err
}

func (s *Service) PhaseProgress(ctx context.Context) (PhaseProgress, error) {
	var progress PhaseProgress
	err := s.withTracker(ctx, func(t *Tracker) error {
		if !t.HasProgram() {
			return ErrNoProgram
		}
		progress = t.PhaseProgress()
		return nil
	})
	return progress, err
}

// Exercise looks up a catalog exercise.
func (s *Service) Exercise(id string) (catalog.Exercise, error) {
	e, ok := s.catalog.ByID(id)
	if !ok {
		return catalog.Exercise{}, errors.Wrap(ErrExerciseNotFound, "look up catalog exercise", slog.String("id", id))
	}
	return e, nil
}
