// Package sqlstore implements the domain repositories on database/sql.
// The same statements run on Postgres (lib/pq) and SQLite (go-sqlite3); the
// few places where the dialects differ go through Driver.
package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"eventhub/internal/domain"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Driver names the SQL dialect a *sql.DB speaks.
type Driver string

const (
	Postgres Driver = "postgres"
	SQLite   Driver = "sqlite3"
)

// ParseDriver maps a configuration value to a Driver.
func ParseDriver(s string) (Driver, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "postgres", "postgresql":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return "", fmt.Errorf("unknown database driver %q", s)
}

// Open connects to the database, verifies the connection and applies the schema.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	if driver == SQLite {
		dsn = sqliteDSN(dsn)
	}
	db, err := sql.Open(string(driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == SQLite {
		// One connection: an in-memory database lives and dies with its connection,
		// and SQLite serializes writers anyway.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if err := Migrate(ctx, db, driver); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates any missing tables. Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB, driver Driver) error {
	name := "schema/postgres.sql"
	if driver == SQLite {
		name = "schema/sqlite.sql"
	}
	schema, err := schemaFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, string(schema)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func sqliteDSN(dsn string) string {
	if dsn == "" {
		dsn = ":memory:"
	}
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=1"
}

// inClause renders "col = ANY($n)" on Postgres and "col IN ($n, $n+1, ...)" on SQLite.
// next is the number of the first placeholder; ids must not be empty.
func (d Driver) inClause(col string, ids []string, next int) (string, []any) {
	if d == Postgres {
		return col + " = ANY($" + strconv.Itoa(next) + ")", []any{pq.Array(ids)}
	}
	marks := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		marks[i] = "$" + strconv.Itoa(next+i)
		args[i] = id
	}
	return col + " IN (" + strings.Join(marks, ", ") + ")", args
}

// mapError translates constraint violations from either driver into domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s", domain.ErrConflict, pqErr.Message)
		case "23503":
			return fmt.Errorf("%w: %s", domain.ErrNotFound, pqErr.Message)
		}
		return err
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %s", domain.ErrConflict, liteErr.Error())
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: %s", domain.ErrNotFound, liteErr.Error())
		}
	}
	return err
}

// utc normalizes stored instants so both dialects compare and order them the same way.
func utc(t time.Time) time.Time { return t.UTC() }

func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
