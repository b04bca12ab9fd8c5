// Copyright (c) 2025 sqlsh authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package engine

import (
	"context"
	"fmt"
	"strings"

	"sqlsh/cli/internal/dsn"
	errs "sqlsh/cli/internal/errors"
)

// Index describes one index on a table.
type Index struct {
	Name    string
	Columns []string
	Unique  bool
}

// ForeignKey describes one foreign-key constraint on a table.
type ForeignKey struct {
	Name       string
	Columns    []string
	RefTable   string
	RefColumns []string
}

// nativeQueries builds backend-specific SQL whose tabular output is nicer
// than the generic introspection calls. Keyed by backend kind; kinds not in
// the table use the generic fallback.
type nativeQueries struct {
	schema      func(table string) string
	indexes     func(table string) string
	foreignKeys func(table string) string
}

var native = map[dsn.Kind]nativeQueries{
	dsn.KindSQLite: {
		schema: func(t string) string {
			return fmt.Sprintf("pragma table_info([%s])", t)
		},
		indexes: func(t string) string {
			return fmt.Sprintf(
				"select * from sqlite_master where type = 'index' and tbl_name = '%s'", t)
		},
		foreignKeys: func(t string) string {
			return fmt.Sprintf("pragma foreign_key_list([%s])", t)
		},
	},
	dsn.KindMySQL: {
		schema: func(t string) string {
			return "desc " + t
		},
		indexes: func(t string) string {
			return "show index from " + t
		},
		foreignKeys: func(t string) string {
			// "table", "column", and "references" are reserved words and
			// must be quoted in the aliases.
			return fmt.Sprintf(
				"select constraint_name as name, "+
					"constraint_schema as `database`, "+
					"table_name as `table`, "+
					"column_name as `column`, "+
					"referenced_table_name as references_table, "+
					"referenced_column_name as references_column "+
					"from information_schema.key_column_usage "+
					"where referenced_table_schema = (select database()) and "+
					"table_name = '%s'", t)
		},
	},
	dsn.KindPostgres: {
		schema: func(t string) string {
			return fmt.Sprintf(
				"select column_name, data_type, character_maximum_length, "+
					"is_nullable, column_default from information_schema.columns "+
					"where table_name = '%s'", t)
		},
		indexes: func(t string) string {
			return fmt.Sprintf("select * from pg_indexes where tablename = '%s'", t)
		},
		foreignKeys: func(t string) string {
			return fmt.Sprintf(
				"select c.conname as constraint_name, "+
					"c.conrelid::regclass as table_name, "+
					"a.attname as column_name, "+
					"c.confrelid::regclass as foreign_table_name, "+
					"af.attname as foreign_column_name "+
					"from pg_constraint as c "+
					"join pg_attribute as a on a.attnum = any(c.conkey) "+
					"and a.attrelid = c.conrelid "+
					"join pg_class as cl on cl.oid = c.conrelid "+
					"join pg_namespace as nsp on nsp.oid = cl.relnamespace "+
					"join pg_attribute as af on af.attnum = any(c.confkey) "+
					"and af.attrelid = c.confrelid "+
					"where c.contype = 'f' "+
					"and cl.relname = '%s' "+
					"and nsp.nspname = 'public'", t)
		},
	},
}

// NativeSchemaSQL returns backend-specific SQL describing a table's schema,
// or false when the backend kind has no native query.
func (e *Engine) NativeSchemaSQL(table string) (string, bool) {
	q, ok := native[e.kind]
	if !ok || q.schema == nil {
		return "", false
	}
	return q.schema(table), true
}

// NativeIndexSQL returns backend-specific SQL listing a table's indexes.
func (e *Engine) NativeIndexSQL(table string) (string, bool) {
	q, ok := native[e.kind]
	if !ok || q.indexes == nil {
		return "", false
	}
	return q.indexes(table), true
}

// NativeForeignKeySQL returns backend-specific SQL listing a table's
// foreign keys.
func (e *Engine) NativeForeignKeySQL(table string) (string, bool) {
	q, ok := native[e.kind]
	if !ok || q.foreignKeys == nil {
		return "", false
	}
	return q.foreignKeys(table), true
}

// tableListSQL returns the query that lists user tables for the backend.
func (e *Engine) tableListSQL() string {
	switch e.kind {
	case dsn.KindSQLite:
		return "select name from sqlite_master where type = 'table' and name not like 'sqlite_%'"
	case dsn.KindMySQL:
		return "select table_name from information_schema.tables where table_schema = database()"
	case dsn.KindPostgres:
		return "select tablename from pg_tables where schemaname = 'public'"
	default:
		return "select table_name from information_schema.tables " +
			"where table_schema not in ('information_schema', 'pg_catalog', " +
			"'performance_schema', 'mysql', 'sys')"
	}
}

// Tables returns the names of all user tables, sorted case-insensitively.
func (e *Engine) Tables(ctx context.Context) ([]string, error) {
	rows, err := e.db.QueryContext(ctx, e.tableListSQL())
	if err != nil {
		return nil, errs.Wrap(errs.ExecutionFailed, "unable to list tables", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errs.Wrap(errs.ExecutionFailed, "unable to list tables", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.ExecutionFailed, "unable to list tables", err)
	}
	sortTableNames(names)
	return names, nil
}

// ResolveTable looks up a table name case-insensitively and returns its
// canonical spelling. This gives a consistent "does not exist" message
// across backends, some of which silently return nothing for a bad name.
func (e *Engine) ResolveTable(ctx context.Context, name string) (string, error) {
	tables, err := e.Tables(ctx)
	if err != nil {
		return "", err
	}
	for _, t := range tables {
		if strings.EqualFold(t, name) {
			return t, nil
		}
	}
	return "", errs.Newf(errs.NotFound, "table %q does not exist", name)
}

// ListIndexes is the generic fallback for backends without native index SQL.
// It reports unique and primary-key constraints from information_schema;
// non-constraint indexes are not visible through the standard schema.
func (e *Engine) ListIndexes(ctx context.Context, table string) ([]Index, error) {
	query := fmt.Sprintf(
		"select tc.constraint_name, kcu.column_name, tc.constraint_type "+
			"from information_schema.table_constraints tc "+
			"join information_schema.key_column_usage kcu "+
			"on tc.constraint_name = kcu.constraint_name "+
			"where tc.table_name = %s "+
			"and tc.constraint_type in ('PRIMARY KEY', 'UNIQUE') "+
			"order by tc.constraint_name, kcu.ordinal_position",
		e.placeholder(1))

	rows, err := e.db.QueryContext(ctx, query, table)
	if err != nil {
		return nil, errs.Wrap(errs.ExecutionFailed, "unable to list indexes", err)
	}
	defer rows.Close()

	var (
		indexes []Index
		current *Index
	)
	for rows.Next() {
		var name, column, ctype string
		if err := rows.Scan(&name, &column, &ctype); err != nil {
			return nil, errs.Wrap(errs.ExecutionFailed, "unable to list indexes", err)
		}
		if current == nil || current.Name != name {
			indexes = append(indexes, Index{Name: name, Unique: true})
			current = &indexes[len(indexes)-1]
		}
		current.Columns = append(current.Columns, column)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.ExecutionFailed, "unable to list indexes", err)
	}
	return indexes, nil
}

// ListForeignKeys is the generic fallback for backends without native
// foreign-key SQL, built on the standard referential_constraints and
// key_column_usage views.
func (e *Engine) ListForeignKeys(ctx context.Context, table string) ([]ForeignKey, error) {
	query := fmt.Sprintf(
		"select rc.constraint_name, kcu.column_name, "+
			"ref.table_name, ref.column_name "+
			"from information_schema.referential_constraints rc "+
			"join information_schema.key_column_usage kcu "+
			"on rc.constraint_name = kcu.constraint_name "+
			"join information_schema.key_column_usage ref "+
			"on rc.unique_constraint_name = ref.constraint_name "+
			"and kcu.ordinal_position = ref.ordinal_position "+
			"where kcu.table_name = %s "+
			"order by rc.constraint_name, kcu.ordinal_position",
		e.placeholder(1))

	rows, err := e.db.QueryContext(ctx, query, table)
	if err != nil {
		return nil, errs.Wrap(errs.ExecutionFailed, "unable to list foreign keys", err)
	}
	defer rows.Close()

	var (
		fks     []ForeignKey
		current *ForeignKey
	)
	for rows.Next() {
		var name, column, refTable, refColumn string
		if err := rows.Scan(&name, &column, &refTable, &refColumn); err != nil {
			return nil, errs.Wrap(errs.ExecutionFailed, "unable to list foreign keys", err)
		}
		if current == nil || current.Name != name {
			fks = append(fks, ForeignKey{Name: name, RefTable: refTable})
			current = &fks[len(fks)-1]
		}
		current.Columns = append(current.Columns, column)
		current.RefColumns = append(current.RefColumns, refColumn)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.ExecutionFailed, "unable to list foreign keys", err)
	}
	return fks, nil
}

// DescribeColumns is the generic schema fallback: column descriptors from
// information_schema.columns, rendered like any other query result.
func (e *Engine) DescribeColumns(ctx context.Context, table string) (*Result, error) {
	query := fmt.Sprintf(
		"select column_name, data_type, is_nullable, column_default "+
			"from information_schema.columns where table_name = '%s' "+
			"order by ordinal_position", table)
	return e.Execute(ctx, query, 0)
}
