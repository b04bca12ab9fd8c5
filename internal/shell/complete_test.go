// Copyright (c) 2025 sqlsh authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package shell

import "testing"

func TestComplete(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantComplete bool
		wantQuote    rune
	}{
		{
			name: "empty string is never complete",
			text: "",
		},
		{
			name:         "plain statement with terminator",
			text:         "select 1;",
			wantComplete: true,
		},
		{
			name: "plain statement without terminator",
			text: "select 1",
		},
		{
			name: "terminator inside single quotes",
			text: "select 'a;b'",
		},
		{
			name:         "terminator after closed quote",
			text:         "select 'a;b';",
			wantComplete: true,
		},
		{
			name:      "unterminated single quote",
			text:      "select 'abc",
			wantQuote: '\'',
		},
		{
			name:      "unterminated double quote",
			text:      `select "abc`,
			wantQuote: '"',
		},
		{
			name:      "unterminated quote with trailing terminator",
			text:      "select 'abc;",
			wantQuote: '\'',
		},
		{
			name:         "single quote inside double quotes",
			text:         `select "it's";`,
			wantComplete: true,
		},
		{
			// The scanner is a bare toggle: a doubled quote reads as
			// close-then-reopen, which leaves the scan closed again, so the
			// statement still counts as complete.
			name:         "doubled quote escape reads as close then reopen",
			text:         "select 'it''s';",
			wantComplete: true,
		},
		{
			// Backslash escapes are not understood, so the odd quote count
			// reads as an unterminated string. Long-standing behavior, kept
			// on purpose.
			name:      "backslash escape reads as open quote",
			text:      `select 'it\'s';`,
			wantQuote: '\'',
		},
		{
			name: "whitespace after terminator",
			text: "select 1; ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			complete, quote := Complete(tt.text)
			if complete != tt.wantComplete {
				t.Errorf("Complete(%q) complete = %v, want %v", tt.text, complete, tt.wantComplete)
			}
			if quote != tt.wantQuote {
				t.Errorf("Complete(%q) quote = %q, want %q", tt.text, quote, tt.wantQuote)
			}
		})
	}
}

// Any string free of quote characters is complete exactly when it ends with
// the terminator.
func TestCompleteNoQuotes(t *testing.T) {
	for _, s := range []string{"", "select 1", "update t set x = 1", "delete from t where x > 2"} {
		if got, _ := Complete(s); got {
			t.Errorf("Complete(%q) = true, want false", s)
		}
		terminated := s + ";"
		if got, _ := Complete(terminated); !got {
			t.Errorf("Complete(%q) = false, want true", terminated)
		}
	}
}

func TestKeepLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		inQuote bool
		want    bool
	}{
		{name: "normal line", line: "select 1", want: true},
		{name: "empty line", line: "", want: false},
		{name: "whitespace only", line: "   \t", want: false},
		{name: "comment line", line: "-- a comment", want: false},
		{name: "indented comment", line: "   -- note", want: false},
		{name: "bare comment prefix", line: "--", want: false},
		{name: "empty line inside quote", line: "", inQuote: true, want: true},
		{name: "comment-looking line inside quote", line: "-- text", inQuote: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keepLine(tt.line, tt.inQuote); got != tt.want {
				t.Errorf("keepLine(%q, %v) = %v, want %v", tt.line, tt.inQuote, got, tt.want)
			}
		})
	}
}
