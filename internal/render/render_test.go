// Copyright (c) 2025 sqlsh authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"sqlsh/cli/internal/engine"
)

func TestRenderZeroRows(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{name: "default message", message: "", want: "No data.\n"},
		{name: "custom message", message: "No indexes.", want: "No indexes.\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			New(&buf).Render(&engine.Result{Columns: []string{"a"}}, 0, -1, tt.message)
			// Only the message, no borders.
			if buf.String() != tt.want {
				t.Errorf("output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestRenderGrid(t *testing.T) {
	var buf bytes.Buffer
	res := &engine.Result{
		Columns: []string{"id", "name"},
		Rows: []map[string]any{
			{"id": int64(1), "name": "alice"},
			{"id": int64(2), "name": nil},
		},
		Total: 2,
	}
	New(&buf).Render(res, 0, -1, "")

	out := buf.String()
	for _, want := range []string{"id", "name", "alice", "NULL", "2 rows"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name     string
		returned int
		total    int
		limit    int
		want     string
	}{
		{name: "unlimited plural", returned: 2, total: 2, limit: 0, want: "2 rows"},
		{name: "unlimited singular", returned: 1, total: 1, limit: 0, want: "1 row"},
		{name: "limited", returned: 2, total: 5, limit: 2, want: "2 of 5 rows"},
		// When limited, pluralization follows the total, not the
		// returned count.
		{name: "limited one returned of many", returned: 1, total: 5, limit: 1, want: "1 of 5 rows"},
		{name: "limited singular total", returned: 1, total: 1, limit: 3, want: "1 of 1 row"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := &engine.Result{Total: tt.total}
			for i := 0; i < tt.returned; i++ {
				res.Rows = append(res.Rows, map[string]any{})
			}
			if got := Summary(res, tt.limit, -1); got != tt.want {
				t.Errorf("Summary = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSummaryElapsed(t *testing.T) {
	res := &engine.Result{Total: 1, Rows: []map[string]any{{}}}
	got := Summary(res, 0, 1500*time.Millisecond)
	if want := "1 row (1.500s)"; got != want {
		t.Errorf("Summary = %q, want %q", got, want)
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{
			name: "midnight collapses to date",
			in:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			want: "2024-03-15",
		},
		{
			name: "timestamp keeps time",
			in:   time.Date(2024, 3, 15, 13, 45, 9, 0, time.UTC),
			want: "2024-03-15 13:45:09",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTime(tt.in); got != tt.want {
				t.Errorf("FormatTime = %q, want %q", got, tt.want)
			}
		})
	}
}
