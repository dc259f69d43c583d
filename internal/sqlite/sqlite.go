// Package sqlite opens the fitcycle database and keeps its schema in sync with schema.sql.
package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	_ "embed"

	"github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaDefinition string

// LogDsnKey is the log attribute carrying the read-write DSN. End-to-end tests pick it up from the log.
const LogDsnKey = "sqlDsn"

type Database struct {
	ReadWrite *sql.DB
	ReadOnly  *sql.DB
	logger    *slog.Logger
}

// NewDatabase connects to the database at url, migrates it to schema.sql and starts the background optimizer.
//
// Two connection pools are opened: a single writer and several readers, see
// https://github.com/mattn/go-sqlite3/issues/1179#issuecomment-1638083995.
// Use ":memory:" for an ephemeral database.
func NewDatabase(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	db, err := connect(url, logger)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err = db.migrateTo(ctx, schemaDefinition); err != nil {
		return nil, errors.Join(fmt.Errorf("migrateTo: %w", err), db.Close())
	}

	go db.startDatabaseOptimizer(ctx, time.Hour)

	return db, nil
}

//nolint:gochecknoglobals // the driver can be registered only once per process.
var once sync.Once

const optimizedDriver = "sqlite3optimized"

func registerOptimizedDriver() {
	sql.Register(optimizedDriver,
		&sqlite3.SQLiteDriver{
			Extensions: nil,
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				if _, err := conn.Exec(
					// Temporary tables and indices in memory instead of files.
					"PRAGMA temp_store = memory;"+
						// Memory-mapped I/O reduces syscalls.
						"PRAGMA mmap_size = 30000000000;", nil); err != nil {
					return fmt.Errorf("exec optimization pragmas: %w", err)
				}
				return nil
			},
		})
}

// dataSourceNames builds the read-only and read-write DSNs for url.
//
// Options prefixed with underscore are documented at https://pkg.go.dev/github.com/mattn/go-sqlite3#SQLiteDriver.Open,
// the rest are SQLite URI parameters https://www.sqlite.org/uri.html.
func dataSourceNames(url string) (string, string) {
	extra := ""
	// In-memory databases need shared cache so that both pools see the same data. A random name keeps parallel
	// tests apart.
	if strings.Contains(url, ":memory:") {
		url = rand.Text()
		extra = "&mode=memory&cache=shared"
	}
	common := strings.Join([]string{
		"_loc=auto",
		"_defer_foreign_keys=1",
		"_journal_mode=wal",
		"_busy_timeout=5000",
		"_synchronous=normal",
		"_foreign_keys=on",
	}, "&")
	if extra == "" {
		return fmt.Sprintf("file:%s?mode=ro&_txlock=deferred&_query_only=true&%s", url, common),
			fmt.Sprintf("file:%s?mode=rwc&_txlock=immediate&%s", url, common)
	}
	return fmt.Sprintf("file:%s?_txlock=deferred&_query_only=true&%s%s", url, common, extra),
		fmt.Sprintf("file:%s?_txlock=immediate&%s%s", url, common, extra)
}

func connect(url string, logger *slog.Logger) (*Database, error) {
	readDSN, readWriteDSN := dataSourceNames(url)

	once.Do(registerOptimizedDriver)

	readWriteDB, err := sql.Open(optimizedDriver, readWriteDSN)
	if err != nil {
		return nil, fmt.Errorf("open read-write database: %w", err)
	}
	logger.LogAttrs(context.Background(), slog.LevelInfo, "opened database", slog.String(LogDsnKey, readWriteDSN))

	readWriteDB.SetMaxOpenConns(1)
	readWriteDB.SetMaxIdleConns(1)
	readWriteDB.SetConnMaxLifetime(time.Hour)
	readWriteDB.SetConnMaxIdleTime(time.Hour)

	// sql.DB is lazy so we ping to fail fast on a bad DSN.
	if err = readWriteDB.Ping(); err != nil {
		return nil, errors.Join(fmt.Errorf("ping read-write database: %w", err), readWriteDB.Close())
	}

	readDB, err := sql.Open(optimizedDriver, readDSN)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("open read database: %w", err), readWriteDB.Close())
	}

	maxReadConns := 10
	readDB.SetMaxOpenConns(maxReadConns)
	readDB.SetMaxIdleConns(maxReadConns)
	readDB.SetConnMaxLifetime(time.Hour)
	readDB.SetConnMaxIdleTime(time.Hour)

	return &Database{
		ReadWrite: readWriteDB,
		ReadOnly:  readDB,
		logger:    logger,
	}, nil
}

// Close closes both connection pools.
func (db *Database) Close() error {
	return errors.Join(db.ReadOnly.Close(), db.ReadWrite.Close())
}
