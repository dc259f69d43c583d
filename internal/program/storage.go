package program

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/myrjola/fitcycle/internal/contexthelpers"
	"github.com/myrjola/fitcycle/internal/errors"
	"github.com/myrjola/fitcycle/internal/sqlite"
)

// StorageKey is the logical name the program is stored under for each user.
const StorageKey = "fitness_program"

var (
	ErrNotFound = errors.NewSentinel("not found")
	ErrNoUser   = errors.NewSentinel("no user in context")
)

// Storage is durable key value storage scoped to the user of the context.
type Storage interface {
	// Get returns ErrNotFound when key has no value.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete succeeds when key has no value.
	Delete(ctx context.Context, key string) error
}

// SQLiteStorage implements Storage on the user_storage table.
type SQLiteStorage struct {
	db *sqlite.Database
}

func NewSQLiteStorage(db *sqlite.Database) *SQLiteStorage {
	return &SQLiteStorage{db: db}
}

func userID(ctx context.Context) (string, error) {
	id := contexthelpers.AuthenticatedUserID(ctx)
	if id == "" {
		return "", ErrNoUser
	}
	return id, nil
}

func (s *SQLiteStorage) Get(ctx context.Context, key string) ([]byte, error) {
	id, err := userID(ctx)
	if err != nil {
		return nil, err
	}
	var value []byte
	err = s.db.ReadOnly.QueryRowContext(ctx,
		`SELECT value FROM user_storage WHERE user_id = ? AND key = ?`, id, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select user storage", slog.String("key", key))
	}
	return value, nil
}

func (s *SQLiteStorage) Set(ctx context.Context, key string, value []byte) error {
	id, err := userID(ctx)
	if err != nil {
		return err
	}
	if _, err = s.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO user_storage (user_id, key, value)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, key) DO UPDATE SET value = excluded.value`, id, key, string(value)); err != nil {
		return errors.Wrap(err, "upsert user storage", slog.String("key", key))
	}
	return nil
}

func (s *SQLiteStorage) Delete(ctx context.Context, key string) error {
	id, err := userID(ctx)
	if err != nil {
		return err
	}
	if _, err = s.db.ReadWrite.ExecContext(ctx,
		`DELETE FROM user_storage WHERE user_id = ? AND key = ?`, id, key); err != nil {
		return fmt.Errorf("delete user storage %s: %w", key, err)
	}
	return nil
}
