package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/myrjola/fitcycle/internal/errors"
	"github.com/myrjola/fitcycle/internal/sqlite"
)

// Repository persists exercises in the exercises table.
type Repository struct {
	db *sqlite.Database
}

func NewRepository(db *sqlite.Database) *Repository {
	return &Repository{db: db}
}

// exerciseDetails holds the columns that are stored as JSON in exercises.details.
type exerciseDetails struct {
	PrimaryMuscles    []string `json:"primary_muscles"`
	SecondaryMuscles  []string `json:"secondary_muscles"`
	EquipmentRequired []string `json:"equipment_required"`
	Description       string   `json:"description"`
	SetupInstructions string   `json:"setup_instructions"`
	ExecutionSteps    []string `json:"execution_steps"`
	FormCues          []string `json:"form_cues"`
	CommonMistakes    []string `json:"common_mistakes"`
	Tips              []string `json:"tips"`
	RecommendedSets   Range    `json:"recommended_sets"`
	RecommendedReps   Range    `json:"recommended_reps"`
	RestSeconds       Range    `json:"rest_seconds"`
}

func detailsOf(e Exercise) exerciseDetails {
	return exerciseDetails{
		PrimaryMuscles:    e.PrimaryMuscles,
		SecondaryMuscles:  e.SecondaryMuscles,
		EquipmentRequired: e.EquipmentRequired,
		Description:       e.Description,
		SetupInstructions: e.SetupInstructions,
		ExecutionSteps:    e.ExecutionSteps,
		FormCues:          e.FormCues,
		CommonMistakes:    e.CommonMistakes,
		Tips:              e.Tips,
		RecommendedSets:   e.RecommendedSets,
		RecommendedReps:   e.RecommendedReps,
		RestSeconds:       e.RestSeconds,
	}
}

func (d exerciseDetails) apply(e *Exercise) {
	e.PrimaryMuscles = d.PrimaryMuscles
	e.SecondaryMuscles = d.SecondaryMuscles
	e.EquipmentRequired = d.EquipmentRequired
	e.Description = d.Description
	e.SetupInstructions = d.SetupInstructions
	e.ExecutionSteps = d.ExecutionSteps
	e.FormCues = d.FormCues
	e.CommonMistakes = d.CommonMistakes
	e.Tips = d.Tips
	e.RecommendedSets = d.RecommendedSets
	e.RecommendedReps = d.RecommendedReps
	e.RestSeconds = d.RestSeconds
}

// List returns all stored exercises ordered by insertion.
func (r *Repository) List(ctx context.Context) (_ []Exercise, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, name, category, difficulty_level, details
		FROM exercises
		ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var exercises []Exercise
	for rows.Next() {
		var (
			e       Exercise
			details []byte
		)
		if err = rows.Scan(&e.ID, &e.Name, &e.Category, &e.DifficultyLevel, &details); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		var d exerciseDetails
		if err = json.Unmarshal(details, &d); err != nil {
			return nil, errors.Wrap(err, "unmarshal exercise details", slog.String("id", e.ID))
		}
		d.apply(&e)
		exercises = append(exercises, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return exercises, nil
}

// Upsert inserts e or replaces the stored exercise with the same id.
func (r *Repository) Upsert(ctx context.Context, e Exercise) error {
	return upsert(ctx, r.db.ReadWrite, e)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsert(ctx context.Context, db execer, e Exercise) error {
	details, err := json.Marshal(detailsOf(e))
	if err != nil {
		return fmt.Errorf("marshal exercise details: %w", err)
	}
	if _, err = db.ExecContext(ctx, `
		INSERT INTO exercises (id, name, category, difficulty_level, details)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name             = excluded.name,
		                               category         = excluded.category,
		                               difficulty_level = excluded.difficulty_level,
		                               details          = excluded.details,
		                               updated_at       = strftime('%Y-%m-%dT%H:%M:%fZ')`,
		e.ID, e.Name, string(e.Category), e.DifficultyLevel, string(details)); err != nil {
		return errors.Wrap(err, "upsert exercise", slog.String("id", e.ID))
	}
	return nil
}

// Seed upserts all exercises in one transaction.
func (r *Repository) Seed(ctx context.Context, exercises []Exercise) (err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
	}()
	for _, e := range exercises {
		if err = upsert(ctx, tx, e); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

// Load builds a catalog from the repository. An empty table is seeded with the embedded exercises first.
func Load(ctx context.Context, repo *Repository, logger *slog.Logger) (*Catalog, error) {
	exercises, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	if len(exercises) == 0 {
		if exercises, err = Seed(); err != nil {
			return nil, err
		}
		if err = repo.Seed(ctx, exercises); err != nil {
			return nil, fmt.Errorf("seed exercises: %w", err)
		}
		logger.LogAttrs(ctx, slog.LevelInfo, "seeded exercise catalog", slog.Int("count", len(exercises)))
	}
	c, err := New(exercises)
	if err != nil {
		return nil, fmt.Errorf("index exercises: %w", err)
	}
	return c, nil
}

// Import upserts the exercises of a YAML document, for example one given with FITCYCLE_CATALOG_PATH, and
// returns how many were written.
func Import(ctx context.Context, repo *Repository, exercises []Exercise) (int, error) {
	if _, err := New(exercises); err != nil {
		return 0, fmt.Errorf("validate import: %w", err)
	}
	if err := repo.Seed(ctx, exercises); err != nil {
		return 0, fmt.Errorf("import exercises: %w", err)
	}
	return len(exercises), nil
}
