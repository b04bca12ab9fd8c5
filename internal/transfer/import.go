// Copyright (c) 2025 sqlsh authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package transfer

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"sqlsh/cli/internal/engine"
	errs "sqlsh/cli/internal/errors"
	"sqlsh/cli/internal/xdg"
)

// dataset is parsed file content awaiting insertion: column names in file
// order and one value slice per row, aligned with the columns.
type dataset struct {
	columns []string
	rows    [][]any
}

// Import loads the file at path into the named table. A missing table is
// created with column types inferred from the data; an existing table gets
// the rows appended unless newTableOnly is set, which makes an existing
// table an error. Column names are lower-cased so that case-folding backends
// do not create identifiers that need quoting. Returns rows written.
func Import(ctx context.Context, eng *engine.Engine, table, path string, newTableOnly bool, out io.Writer) (int64, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return 0, err
	}

	path = xdg.ExpandHome(path)
	f, err := os.Open(path)
	if err != nil {
		return 0, errs.Wrap(errs.TransferFailed, "unable to open "+path, err)
	}
	defer f.Close()

	var ds *dataset
	switch format {
	case FormatCSV:
		ds, err = readCSV(f)
	case FormatJSON:
		ds, err = readJSON(f)
	}
	if err != nil {
		return 0, err
	}
	if len(ds.columns) == 0 {
		return 0, errs.Newf(errs.TransferFailed, "%s contains no data", path)
	}

	for i, col := range ds.columns {
		ds.columns[i] = strings.ToLower(col)
	}
	types := inferColumnTypes(ds)
	coerceRows(ds, types)

	exists := false
	if canonical, err := eng.ResolveTable(ctx, table); err == nil {
		exists = true
		table = canonical
	} else if !errs.IsKind(err, errs.NotFound) {
		return 0, err
	}

	switch {
	case exists && newTableOnly:
		return 0, errs.Newf(errs.TransferFailed,
			"table %q already exists, and you specified -n", table)
	case !exists:
		fmt.Fprintf(out, "Creating table %s ...\n", table)
		if err := createTable(ctx, eng, table, ds.columns, types); err != nil {
			return 0, err
		}
	}

	fmt.Fprintf(out, "Importing %s into %s ...\n", path, table)
	return eng.InsertRows(ctx, table, ds.columns, ds.rows)
}

func createTable(ctx context.Context, eng *engine.Engine, table string, columns []string, types []ColumnType) error {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = eng.QuoteIdent(col) + " " + types[i].SQL()
	}
	ddl := fmt.Sprintf("create table %s (%s)",
		eng.QuoteIdent(table), strings.Join(defs, ", "))
	_, err := eng.Execute(ctx, ddl, 0)
	if err != nil && !errors.Is(err, engine.ErrNoResultSet) {
		return err
	}
	return nil
}

// readCSV parses a CSV file: first record is the header, every field comes
// back as a string (or nil for an empty field) for the inference pass.
func readCSV(r io.Reader) (*dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return &dataset{}, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.TransferFailed, "unable to parse CSV", err)
	}

	ds := &dataset{columns: header}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.Wrap(errs.TransferFailed, "unable to parse CSV", err)
		}
		row := make([]any, len(header))
		for i := range header {
			if i < len(record) && record[i] != "" {
				row[i] = record[i]
			}
		}
		ds.rows = append(ds.rows, row)
	}
	return ds, nil
}

// readJSON parses a JSON Lines file. Column order is not defined by the
// format, so columns are sorted by name; numbers are decoded as json.Number
// to keep integers distinguishable from floats.
func readJSON(r io.Reader) (*dataset, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		ds      dataset
		seen    = map[string]bool{}
		objects []map[string]any
	)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(line))
		dec.UseNumber()
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			return nil, errs.Wrap(errs.TransferFailed, "unable to parse JSON line", err)
		}
		for key := range obj {
			if !seen[key] {
				seen[key] = true
				ds.columns = append(ds.columns, key)
			}
		}
		objects = append(objects, obj)
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.Wrap(errs.TransferFailed, "unable to read JSON file", err)
	}

	sort.Strings(ds.columns)
	for _, obj := range objects {
		row := make([]any, len(ds.columns))
		for i, col := range ds.columns {
			row[i] = obj[col]
		}
		ds.rows = append(ds.rows, row)
	}
	return &ds, nil
}
