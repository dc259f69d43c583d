package catalog_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/fitcycle/internal/catalog"
	"github.com/myrjola/fitcycle/internal/sqlite"
	"github.com/myrjola/fitcycle/internal/testhelpers"
)

func newRepository(t *testing.T) *catalog.Repository {
	t.Helper()
	db, err := sqlite.NewDatabase(t.Context(), ":memory:", testhelpers.NewLogger(testhelpers.NewWriter(t)))
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return catalog.NewRepository(db)
}

func TestRepository_roundTrip(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	repo := newRepository(t)

	exercises := testExercises()
	if err := repo.Seed(ctx, exercises); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if diff := cmp.Diff(exercises, got); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}

	updated := exercises[1]
	updated.Name = "One-Arm Dumbbell Row"
	updated.Tips = []string{"Pull to the hip"}
	if err = repo.Upsert(ctx, updated); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("List after upsert: %v", err)
	}
	if len(got) != len(exercises) {
		t.Fatalf("upsert changed row count to %d", len(got))
	}
	if diff := cmp.Diff(updated, got[1]); diff != "" {
		t.Errorf("upserted exercise mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_seedsEmptyTable(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	repo := newRepository(t)
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))

	c, err := catalog.Load(ctx, repo, logger)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	seed, err := catalog.Seed()
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if c.Len() != len(seed) {
		t.Errorf("Len() = %d, want %d", c.Len(), len(seed))
	}

	// A second load reads the stored rows instead of seeding again.
	if _, err = catalog.Import(ctx, repo, testExercises()[:1]); err != nil {
		t.Fatalf("Import: %v", err)
	}
	c, err = catalog.Load(ctx, repo, logger)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	pushUp, ok := c.ByID("push-up")
	if !ok {
		t.Fatal("push-up missing after import")
	}
	if pushUp.Name != "Push-Up" || len(pushUp.EquipmentRequired) != 1 {
		t.Errorf("imported push-up not loaded: %+v", pushUp)
	}
}
