// Copyright (c) 2025 sqlsh authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package render turns query results into the bordered fixed-width tables the
// shell prints, with a one-line row-count summary under each grid.
package render

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"sqlsh/cli/internal/engine"
)

// nullLiteral is how SQL NULL appears in a rendered cell.
const nullLiteral = "NULL"

// DefaultEmptyMessage is printed when a query returns zero rows and the
// caller supplied no message of its own.
const DefaultEmptyMessage = "No data."

// Renderer writes result grids to a single destination.
type Renderer struct {
	out io.Writer
}

// New returns a renderer writing to out.
func New(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Render prints the result as a bordered grid followed by a summary line.
// With zero rows only the empty message is printed, no borders. limit is the
// session row limit in effect when the query ran (0 = unlimited); elapsed < 0
// suppresses the timing suffix.
func (r *Renderer) Render(res *engine.Result, limit int, elapsed time.Duration, emptyMessage string) {
	if res.Total == 0 {
		if emptyMessage == "" {
			emptyMessage = DefaultEmptyMessage
		}
		fmt.Fprintln(r.out, emptyMessage)
		return
	}

	table := tablewriter.NewWriter(r.out)
	table.SetHeader(res.Columns)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	for _, row := range res.Rows {
		cells := make([]string, len(res.Columns))
		for i, col := range res.Columns {
			cells[i] = formatCell(row[col])
		}
		table.Append(cells)
	}
	table.Render()

	fmt.Fprintln(r.out, Summary(res, limit, elapsed))
}

// Summary builds the row-count line printed under a grid. Unlimited sessions
// report "<returned> row(s)"; limited sessions report "<returned> of <total>
// row(s)", pluralized by the total so "1 of 2 rows" reads correctly.
func Summary(res *engine.Result, limit int, elapsed time.Duration) string {
	var s string
	if limit == 0 {
		s = fmt.Sprintf("%d %s", res.Returned(), plural(res.Returned()))
	} else {
		s = fmt.Sprintf("%d of %d %s", res.Returned(), res.Total, plural(res.Total))
	}
	if elapsed >= 0 {
		s += fmt.Sprintf(" (%.3fs)", elapsed.Seconds())
	}
	return s
}

func plural(n int) string {
	if n == 1 {
		return "row"
	}
	return "rows"
}

// formatCell renders one value for display. NULL gets a fixed literal and
// times are shown in ISO-8601, matching how exports serialize them.
func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return nullLiteral
	case time.Time:
		return FormatTime(val)
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

// FormatTime serializes a timestamp in ISO-8601, collapsing midnight values
// to a bare date.
func FormatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}
