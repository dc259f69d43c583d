package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// migrateTo brings the live schema in line with schemaDefinition declaratively.
//
// The target schema is created in an attached in-memory database and diffed against the live one. Removed tables
// are dropped, added tables created and altered tables rebuilt with the generalized ALTER TABLE procedure from
// https://www.sqlite.org/lang_altertable.html#otheralter. Triggers and indexes are synchronized last.
//
// Inspired by https://david.rothlis.net/declarative-schema-migration-for-sqlite/
func (db *Database) migrateTo(ctx context.Context, schemaDefinition string) (err error) {
	start := time.Now()

	detach, err := db.attachTarget(ctx, schemaDefinition)
	if err != nil {
		return fmt.Errorf("attach target schema: %w", err)
	}
	defer detach()

	if _, err = db.ReadWrite.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
		return fmt.Errorf("disable foreign keys: %w", err)
	}
	defer func() {
		if _, fkErr := db.ReadWrite.ExecContext(ctx, "PRAGMA foreign_keys = ON"); fkErr != nil {
			err = errors.Join(err, fmt.Errorf("enable foreign keys: %w", fkErr))
		}
	}()

	tx, err := db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to roll back migration", slog.Any("error", rbErr))
		}
	}()

	m := migration{tx: tx, logger: db.logger}
	if err = m.tables(ctx); err != nil {
		return fmt.Errorf("migrate tables: %w", err)
	}
	for _, typ := range []string{"trigger", "index"} {
		if err = m.entities(ctx, typ); err != nil {
			return fmt.Errorf("migrate %ss: %w", typ, err)
		}
	}
	if _, err = tx.ExecContext(ctx, "PRAGMA foreign_key_check"); err != nil {
		return fmt.Errorf("foreign key check: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}

	db.logger.LogAttrs(ctx, slog.LevelInfo, "migrated database", slog.Duration("duration", time.Since(start)))
	return nil
}

// attachTarget attaches an in-memory database holding the target schema as "target". The returned function
// detaches it again.
func (db *Database) attachTarget(ctx context.Context, schemaDefinition string) (func(), error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", rand.Text())
	targetDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open target: %w", err)
	}
	// The shared cache keeps the in-memory database alive for as long as one connection remains, so the target
	// handle can be closed once the live connection has attached it.
	defer func() {
		if closeErr := targetDB.Close(); closeErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to close target schema", slog.Any("error", closeErr))
		}
	}()
	if _, err = targetDB.ExecContext(ctx, schemaDefinition); err != nil {
		return nil, fmt.Errorf("create target schema: %w", err)
	}
	if _, err = db.ReadWrite.ExecContext(ctx, "ATTACH DATABASE ? AS target", dsn); err != nil {
		return nil, fmt.Errorf("attach: %w", err)
	}
	return func() {
		if _, detachErr := db.ReadWrite.ExecContext(ctx, "DETACH DATABASE target"); detachErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to detach target schema", slog.Any("error", detachErr))
		}
	}, nil
}

type migration struct {
	tx     *sql.Tx
	logger *slog.Logger
}

type schemaDiff struct {
	name    string
	liveSQL string
	newSQL  string
}

const (
	// Selects live entities of a type that the target lacks.
	removedQuery = `SELECT live.name
FROM sqlite_schema AS live
         LEFT JOIN target.sqlite_schema AS t ON live.name = t.name AND live.type = t.type
WHERE live.type = ?
  AND t.type IS NULL
  AND live.name NOT LIKE 'sqlite_%'`
	// Selects target entities of a type that the live schema lacks.
	addedQuery = `SELECT t.sql
FROM target.sqlite_schema AS t
         LEFT JOIN sqlite_schema AS live ON live.name = t.name AND live.type = t.type
WHERE t.type = ?
  AND live.type IS NULL
  AND t.name NOT LIKE 'sqlite_%'`
	// Selects entities whose definition differs. Renaming a table quotes its name, so quotes are ignored.
	changedQuery = `SELECT live.name, live.sql, t.sql
FROM sqlite_schema AS live
         JOIN target.sqlite_schema AS t ON live.name = t.name AND live.type = t.type
WHERE live.type = ?
  AND live.name NOT LIKE 'sqlite_%'
  AND REPLACE(live.sql, '"', '') <> REPLACE(t.sql, '"', '')`
)

func (m migration) exec(ctx context.Context, msg string, query string) error {
	m.logger.LogAttrs(ctx, slog.LevelInfo, msg, slog.String("query", query))
	if _, err := m.tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return nil
}

func (m migration) tables(ctx context.Context) error {
	removed, err := queryStrings(ctx, m.tx, removedQuery, "table")
	if err != nil {
		return fmt.Errorf("query removed tables: %w", err)
	}
	for _, name := range removed {
		if err = m.exec(ctx, "drop table", fmt.Sprintf("DROP TABLE %s", name)); err != nil {
			return err
		}
	}

	added, err := queryStrings(ctx, m.tx, addedQuery, "table")
	if err != nil {
		return fmt.Errorf("query added tables: %w", err)
	}
	for _, createSQL := range added {
		if err = m.exec(ctx, "create table", createSQL); err != nil {
			return err
		}
	}

	changed, err := queryDiffs(ctx, m.tx, changedQuery, "table")
	if err != nil {
		return fmt.Errorf("query changed tables: %w", err)
	}
	for _, diff := range changed {
		if err = m.rebuildTable(ctx, diff); err != nil {
			return fmt.Errorf("rebuild table %s: %w", diff.name, err)
		}
	}
	return nil
}

// rebuildTable creates the new definition under a temporary name, copies the shared columns over and swaps the
// tables.
func (m migration) rebuildTable(ctx context.Context, diff schemaDiff) error {
	m.logger.LogAttrs(ctx, slog.LevelInfo, "rebuilding table",
		slog.String("table", diff.name),
		slog.String("live_sql", diff.liveSQL),
		slog.String("new_sql", diff.newSQL))

	tmp := diff.name + "_migration_temp"
	if err := m.exec(ctx, "create temporary table", strings.Replace(diff.newSQL, diff.name, tmp, 1)); err != nil {
		return err
	}
	// Quoting guards against column names that are keywords, such as key in user_storage.
	columns, err := queryStrings(ctx, m.tx, `SELECT '"' || t.name || '"'
FROM PRAGMA_TABLE_INFO(:table) AS live
         JOIN PRAGMA_TABLE_INFO(:table, 'target') AS t ON t.name = live.name`, sql.Named("table", diff.name))
	if err != nil {
		return fmt.Errorf("query shared columns: %w", err)
	}
	shared := strings.Join(columns, ", ")
	steps := [][2]string{
		{"copy rows", fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s", tmp, shared, shared, diff.name)},
		{"drop old table", fmt.Sprintf("DROP TABLE %s", diff.name)},
		{"rename table", fmt.Sprintf("ALTER TABLE %s RENAME TO %s", tmp, diff.name)},
	}
	for _, step := range steps {
		if err = m.exec(ctx, step[0], step[1]); err != nil {
			return err
		}
	}
	return nil
}

// entities synchronizes schema entities of typ, which is "trigger" or "index". Changed entities are recreated.
func (m migration) entities(ctx context.Context, typ string) error {
	removed, err := queryStrings(ctx, m.tx, removedQuery, typ)
	if err != nil {
		return fmt.Errorf("query removed: %w", err)
	}
	for _, name := range removed {
		if err = m.exec(ctx, "drop "+typ, fmt.Sprintf("DROP %s %s", strings.ToUpper(typ), name)); err != nil {
			return err
		}
	}

	changed, err := queryDiffs(ctx, m.tx, changedQuery, typ)
	if err != nil {
		return fmt.Errorf("query changed: %w", err)
	}
	for _, diff := range changed {
		if err = m.exec(ctx, "drop changed "+typ, fmt.Sprintf("DROP %s %s", strings.ToUpper(typ), diff.name)); err != nil {
			return err
		}
		if err = m.exec(ctx, "recreate "+typ, diff.newSQL); err != nil {
			return err
		}
	}

	// Rebuilt tables lose their indexes and triggers, so additions are computed after the drops above.
	added, err := queryStrings(ctx, m.tx, addedQuery, typ)
	if err != nil {
		return fmt.Errorf("query added: %w", err)
	}
	for _, createSQL := range added {
		if err = m.exec(ctx, "create "+typ, createSQL); err != nil {
			return err
		}
	}
	return nil
}

func queryStrings(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]string, error) {
	return queryRows(ctx, tx, query, args, func(rows *sql.Rows) (string, error) {
		var s string
		err := rows.Scan(&s)
		return s, err //nolint:wrapcheck // wrapped by queryRows.
	})
}

func queryDiffs(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]schemaDiff, error) {
	return queryRows(ctx, tx, query, args, func(rows *sql.Rows) (schemaDiff, error) {
		var d schemaDiff
		err := rows.Scan(&d.name, &d.liveSQL, &d.newSQL)
		return d, err //nolint:wrapcheck // wrapped by queryRows.
	})
}

func queryRows[T any](
	ctx context.Context,
	tx *sql.Tx,
	query string,
	args []any,
	scan func(*sql.Rows) (T, error),
) (_ []T, err error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer func() {
		err = errors.Join(err, rows.Close())
	}()
	var out []T
	for rows.Next() {
		v, scanErr := scan(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan: %w", scanErr)
		}
		out = append(out, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
