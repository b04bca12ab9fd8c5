// Copyright (c) 2025 sqlsh authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package engine wraps database/sql with the small contract the shell needs:
// open a connection from a URL, run one statement inside an implicit
// transaction, and introspect tables, indexes, and foreign keys. Recognized
// backend kinds get native introspection SQL; everything else falls back to
// generic information_schema queries.
package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	_ "github.com/go-sql-driver/mysql"   // mysql:// driver
	_ "github.com/jackc/pgx/v5/stdlib"   // postgres:// driver
	_ "github.com/mattn/go-sqlite3"      // sqlite:// driver

	"sqlsh/cli/internal/dsn"
	errs "sqlsh/cli/internal/errors"
)

// ErrNoResultSet reports that a statement executed successfully but produced
// no result set (INSERT, UPDATE, DDL, ...). It is an expected outcome, not a
// failure; the transaction is committed before this is returned.
var ErrNoResultSet = errors.New("statement produced no result set")

// Result is the materialized outcome of one query.
type Result struct {
	// Columns are the result column names, in order.
	Columns []string
	// Rows maps column name to value for each materialized row. Values may
	// be nil for SQL NULL.
	Rows []map[string]any
	// Total is the number of rows the query produced, including rows beyond
	// the row limit that were counted but not materialized.
	Total int
}

// Returned is the number of rows actually materialized.
func (r *Result) Returned() int { return len(r.Rows) }

// Engine is an open connection to one database.
type Engine struct {
	db         *sql.DB
	url        string
	kind       dsn.Kind
	namedParam bool // true when the driver uses $1-style placeholders
}

// Open resolves the URL, opens the database, and verifies the connection with
// a ping. Several drivers accept any URL at open time and only fail on first
// use, so the ping keeps connection errors at connect time.
func Open(ctx context.Context, rawURL string) (*Engine, error) {
	target, err := dsn.Resolve(rawURL)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(target.Driver, target.DSN)
	if err != nil {
		return nil, errs.Wrap(errs.ConnectFailed, "unable to connect to "+rawURL, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errs.Wrap(errs.ConnectFailed, "unable to connect to "+rawURL, err)
	}

	return &Engine{
		db:         db,
		url:        rawURL,
		kind:       target.Kind,
		namedParam: target.Driver == "pgx",
	}, nil
}

// URL returns the connection URL the engine was opened with.
func (e *Engine) URL() string { return e.url }

// Kind returns the backend kind.
func (e *Engine) Kind() dsn.Kind { return e.kind }

// Close releases the underlying connection pool.
func (e *Engine) Close() error { return e.db.Close() }

// Execute runs one SQL statement inside its own transaction and commits it.
// Rows are materialized up to limit (0 = unlimited) while the full result is
// still counted, so callers can report "N of M rows". Statements that yield
// no result set commit normally and return ErrNoResultSet.
func (e *Engine) Execute(ctx context.Context, sqlText string, limit int) (*Result, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ExecutionFailed, "unable to begin transaction", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, errs.Wrap(errs.ExecutionFailed, "statement failed", err)
	}

	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, errs.Wrap(errs.ExecutionFailed, "statement failed", err)
	}
	if len(cols) == 0 {
		// A write or DDL statement. Some drivers (sqlite3 among them) do not
		// run the statement until the rows are iterated, so drain before
		// committing.
		for rows.Next() {
		}
		drainErr := rows.Err()
		rows.Close()
		if drainErr != nil {
			return nil, errs.Wrap(errs.ExecutionFailed, "statement failed", drainErr)
		}
		if err := tx.Commit(); err != nil {
			return nil, errs.Wrap(errs.ExecutionFailed, "commit failed", err)
		}
		return nil, ErrNoResultSet
	}

	res := &Result{Columns: cols}
	values := make([]any, len(cols))
	pointers := make([]any, len(cols))
	for i := range values {
		pointers[i] = &values[i]
	}

	for rows.Next() {
		res.Total++
		if limit != 0 && res.Total > limit {
			continue // count it, don't materialize it
		}
		if err := rows.Scan(pointers...); err != nil {
			rows.Close()
			return nil, errs.Wrap(errs.ExecutionFailed, "row scan failed", err)
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			row[col] = normalizeValue(values[i])
		}
		res.Rows = append(res.Rows, row)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, errs.Wrap(errs.ExecutionFailed, "statement failed", err)
	}
	rows.Close()

	if err := tx.Commit(); err != nil {
		return nil, errs.Wrap(errs.ExecutionFailed, "commit failed", err)
	}
	return res, nil
}

// InsertRows bulk-inserts rows into a table inside one transaction, returning
// the number of rows written. Used by the import command.
func (e *Engine) InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	quoted := make([]string, len(columns))
	params := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = e.QuoteIdent(col)
		params[i] = e.placeholder(i + 1)
	}
	insert := fmt.Sprintf("insert into %s (%s) values (%s)",
		e.QuoteIdent(table), strings.Join(quoted, ", "), strings.Join(params, ", "))

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errs.Wrap(errs.ExecutionFailed, "unable to begin transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return 0, errs.Wrap(errs.ExecutionFailed, "unable to prepare insert", err)
	}
	defer stmt.Close()

	var written int64
	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return written, errs.Wrap(errs.ExecutionFailed, "insert failed", err)
		}
		written++
	}
	if err := tx.Commit(); err != nil {
		return written, errs.Wrap(errs.ExecutionFailed, "commit failed", err)
	}
	return written, nil
}

// QuoteIdent quotes an identifier in the backend's dialect.
func (e *Engine) QuoteIdent(name string) string {
	if e.kind == dsn.KindMySQL {
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// placeholder returns the 1-based parameter placeholder for the driver.
func (e *Engine) placeholder(n int) string {
	if e.namedParam {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// normalizeValue converts driver-specific scan results into display-friendly
// values. Byte slices become strings; everything else passes through.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// sortTableNames sorts table names case-insensitively, the order every
// table listing uses.
func sortTableNames(names []string) {
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
}
