package program_test

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/myrjola/fitcycle/internal/catalog"
	"github.com/myrjola/fitcycle/internal/errors"
	"github.com/myrjola/fitcycle/internal/program"
)

// monday is the start date used by most tests.
var monday = time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC) //nolint:gochecknoglobals // test fixture.

func seedCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	exercises, err := catalog.Seed()
	if err != nil {
		t.Fatalf("catalog.Seed: %v", err)
	}
	c, err := catalog.New(exercises)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return c
}

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 2)) //nolint:gosec // deterministic test randomness.
}

func fixedClock(t time.Time) program.Option {
	return program.WithClock(func() time.Time { return t })
}

// memStorage is an in-memory program.Storage. Set fails while failSet is true.
type memStorage struct {
	mu      sync.Mutex
	values  map[string][]byte
	failSet bool
	sets    int
}

var errStorageDown = errors.New("storage down")

func newMemStorage() *memStorage {
	return &memStorage{values: map[string][]byte{}}
}

func (m *memStorage) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, program.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *memStorage) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.failSet {
		return errStorageDown
	}
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *memStorage) setFailing(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSet = fail
}

func (m *memStorage) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.values[key]
	return ok
}
