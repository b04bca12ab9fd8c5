// Copyright (c) 2025 sqlsh authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package transfer moves table data between a database and flat files. Two
// formats are supported, chosen by file extension: ".csv" and ".json" (JSON
// Lines, one object per row). An exported file can be imported back; import
// infers column types from the data when it has to create the table.
package transfer

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sqlsh/cli/internal/engine"
	errs "sqlsh/cli/internal/errors"
	"sqlsh/cli/internal/render"
	"sqlsh/cli/internal/xdg"
)

// Format is a supported transfer file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// DetectFormat maps a file extension to its transfer format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", errs.Newf(errs.TransferFailed,
			`file must end in ".csv" or ".json": %s`, path)
	}
}

// Export writes the full contents of a table to the file at path, creating or
// truncating it. Progress is reported on out.
func Export(ctx context.Context, eng *engine.Engine, table, path string, out io.Writer) error {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}
	table, err = eng.ResolveTable(ctx, table)
	if err != nil {
		return err
	}

	res, err := eng.Execute(ctx, "select * from "+eng.QuoteIdent(table), 0)
	if err != nil {
		return err
	}

	path = xdg.ExpandHome(path)
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.TransferFailed, "unable to create "+path, err)
	}

	switch format {
	case FormatCSV:
		fmt.Fprintf(out, "Exporting %s as CSV to %s ...\n", table, path)
		err = exportCSV(f, res)
	case FormatJSON:
		fmt.Fprintf(out, "Exporting %s as JSON (lines) to %s ...\n", table, path)
		err = exportJSON(f, res)
	}
	if err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errs.Wrap(errs.TransferFailed, "unable to write "+path, err)
	}
	return nil
}

func exportCSV(w io.Writer, res *engine.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(res.Columns); err != nil {
		return errs.Wrap(errs.TransferFailed, "export failed", err)
	}
	record := make([]string, len(res.Columns))
	for _, row := range res.Rows {
		for i, col := range res.Columns {
			record[i] = csvField(row[col])
		}
		if err := cw.Write(record); err != nil {
			return errs.Wrap(errs.TransferFailed, "export failed", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errs.Wrap(errs.TransferFailed, "export failed", err)
	}
	return nil
}

func exportJSON(w io.Writer, res *engine.Result) error {
	enc := json.NewEncoder(w)
	for _, row := range res.Rows {
		out := make(map[string]any, len(res.Columns))
		for _, col := range res.Columns {
			out[col] = jsonValue(row[col])
		}
		if err := enc.Encode(out); err != nil {
			return errs.Wrap(errs.TransferFailed, "export failed", err)
		}
	}
	return nil
}

// csvField serializes one value for a CSV cell. NULL becomes an empty field,
// timestamps are ISO-8601 with date-only values collapsed to yyyy-mm-dd.
func csvField(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case time.Time:
		return render.FormatTime(val)
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

// jsonValue maps a scan value to its JSON representation. Timestamps are
// serialized the same way as in CSV so the two formats round-trip alike.
func jsonValue(v any) any {
	if t, ok := v.(time.Time); ok {
		return render.FormatTime(t)
	}
	return v
}
