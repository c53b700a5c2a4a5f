package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// Execer is satisfied by both *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Dialect hides the SQL differences between the supported backends.
// Queries are always written with '?' placeholders and passed through Rebind.
type Dialect interface {
	Name() string
	Rebind(query string) string
	// Paginate returns the LIMIT/OFFSET clause and its arguments in bind order.
	Paginate(limit, offset int) (string, []any)
	// InsertReturningID runs an unbound INSERT and returns the generated id column.
	InsertReturningID(ctx context.Context, db Execer, query string, args ...any) (int64, error)
	EnsureSchema(ctx context.Context, db *sql.DB) error
}

type sqliteDialect struct{}

// SQLite is the default dialect backed by mattn/go-sqlite3.
var SQLite Dialect = sqliteDialect{}

func (sqliteDialect) Name() string { return "sqlite3" }

func (sqliteDialect) Rebind(query string) string { return query }

func (sqliteDialect) Paginate(limit, offset int) (string, []any) {
	return " LIMIT ? OFFSET ?", []any{limit, offset}
}

func (sqliteDialect) InsertReturningID(ctx context.Context, db Execer, query string, args ...any) (int64, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (sqliteDialect) EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply sqlite schema: %w", err)
		}
	}
	return nil
}

type oracleDialect struct{}

// Oracle is the godror backed dialect selected by oracle:// database URLs.
var Oracle Dialect = oracleDialect{}

func (oracleDialect) Name() string { return "godror" }

// Rebind rewrites '?' placeholders into Oracle's positional :1, :2, ... form.
func (oracleDialect) Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (oracleDialect) Paginate(limit, offset int) (string, []any) {
	return " OFFSET ? ROWS FETCH NEXT ? ROWS ONLY", []any{offset, limit}
}

func (d oracleDialect) InsertReturningID(ctx context.Context, db Execer, query string, args ...any) (int64, error) {
	var newID int64
	query = d.Rebind(query + " RETURNING id INTO ?")
	args = append(args, sql.Out{Dest: &newID}) // Oracle specific way to get returned value
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return 0, err
	}
	return newID, nil
}

func (oracleDialect) EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, tbl := range oracleSchema {
		var count int
		if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_tables WHERE table_name = :1`, tbl.name).Scan(&count); err != nil {
			return fmt.Errorf("failed to check oracle table %s: %w", tbl.name, err)
		}
		if count > 0 {
			continue
		}
		for _, stmt := range tbl.ddl {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to create oracle table %s: %w", tbl.name, err)
			}
		}
	}
	return nil
}
