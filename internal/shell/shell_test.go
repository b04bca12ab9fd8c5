// Copyright (c) 2025 sqlsh authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package shell

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"sqlsh/cli/internal/engine"
	"sqlsh/cli/internal/history"
)

// fakeSource replays a fixed script of input lines, then reports EOF.
type fakeSource struct {
	lines      []string
	next       int
	remembered []string
}

func (f *fakeSource) ReadLine(string) (string, error) {
	if f.next >= len(f.lines) {
		return "", io.EOF
	}
	line := f.lines[f.next]
	f.next++
	return line, nil
}

func (f *fakeSource) Remember(line string) {
	f.remembered = append(f.remembered, line)
}

// interruptingSource interrupts after its scripted lines run out.
type interruptingSource struct {
	fakeSource
}

func (f *interruptingSource) ReadLine(prompt string) (string, error) {
	if f.next >= len(f.lines) {
		return "", ErrInterrupted
	}
	return f.fakeSource.ReadLine(prompt)
}

func newTestShell(t *testing.T, src LineSource) (*Shell, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	s := New(Options{
		Source:         src,
		Out:            &out,
		ErrOut:         &out,
		DefaultHistory: filepath.Join(t.TempDir(), "history"),
	})
	hist, err := history.Load(s.defaultHistory)
	if err != nil {
		t.Fatalf("history.Load: %v", err)
	}
	s.hist = hist
	return s, &out
}

func TestReadStatementJoinsAndTrims(t *testing.T) {
	src := &fakeSource{lines: []string{"from t;"}}
	s, _ := newTestShell(t, src)

	first := "select * "
	s.hist.Append(first)
	sql, ok := s.readStatement(first)
	if !ok {
		t.Fatal("readStatement aborted unexpectedly")
	}
	if want := "select * from t;"; sql != want {
		t.Errorf("statement = %q, want %q", sql, want)
	}

	// History holds exactly one consolidated entry.
	if s.hist.Len() != 1 {
		t.Fatalf("history has %d entries, want 1", s.hist.Len())
	}
	line, _ := s.hist.Get(1)
	if line != "select * from t;" {
		t.Errorf("history entry = %q, want consolidated statement", line)
	}
	if len(src.remembered) != 1 || src.remembered[0] != "select * from t;" {
		t.Errorf("recall buffer = %v, want the consolidated statement", src.remembered)
	}
}

func TestReadStatementSkipsBlanksAndComments(t *testing.T) {
	src := &fakeSource{lines: []string{"", "-- comment", "from t", "where x = 1;"}}
	s, _ := newTestShell(t, src)

	s.hist.Append("select *")
	sql, ok := s.readStatement("select *")
	if !ok {
		t.Fatal("readStatement aborted unexpectedly")
	}
	if want := "select * from t where x = 1;"; sql != want {
		t.Errorf("statement = %q, want %q", sql, want)
	}
	if strings.Contains(sql, "comment") {
		t.Errorf("comment line leaked into statement: %q", sql)
	}
}

func TestReadStatementPreservesQuotedContent(t *testing.T) {
	src := &fakeSource{lines: []string{"  padded  ", "end';"}}
	s, _ := newTestShell(t, src)

	first := "select 'start"
	s.hist.Append(first)
	sql, ok := s.readStatement(first)
	if !ok {
		t.Fatal("readStatement aborted unexpectedly")
	}
	if !strings.Contains(sql, "  padded  ") {
		t.Errorf("whitespace inside quote not preserved: %q", sql)
	}
}

func TestReadStatementAbortOnEOF(t *testing.T) {
	src := &fakeSource{}
	s, _ := newTestShell(t, src)

	s.hist.Append("select *")
	_, ok := s.readStatement("select *")
	if ok {
		t.Fatal("readStatement should abort on EOF")
	}
	if s.hist.Len() != 0 {
		t.Errorf("aborted statement left %d history entries, want 0", s.hist.Len())
	}
}

func TestReadStatementAbortOnInterrupt(t *testing.T) {
	src := &interruptingSource{fakeSource{lines: []string{"from t"}}}
	s, _ := newTestShell(t, src)

	s.hist.Append("select *")
	_, ok := s.readStatement("select *")
	if ok {
		t.Fatal("readStatement should abort on interrupt")
	}
	if s.hist.Len() != 0 {
		t.Errorf("aborted statement left %d history entries, want 0", s.hist.Len())
	}
}

func TestDispatchLimit(t *testing.T) {
	s, out := newTestShell(t, &fakeSource{})
	ctx := context.Background()

	s.dispatch(ctx, LimitCommand{N: 25})
	if s.Limit() != 25 {
		t.Fatalf("limit = %d, want 25", s.Limit())
	}

	s.dispatch(ctx, LimitCommand{Show: true})
	if !strings.Contains(out.String(), "Limit is currently 25.") {
		t.Errorf("limit display missing, got %q", out.String())
	}

	// A usage error leaves the limit unchanged.
	s.dispatch(ctx, UsageError{Message: ".limit takes a non-negative integer"})
	if s.Limit() != 25 {
		t.Errorf("usage error changed the limit to %d", s.Limit())
	}

	s.dispatch(ctx, LimitCommand{N: 0})
	if s.Limit() != 0 {
		t.Errorf("limit = %d, want 0 (unlimited)", s.Limit())
	}
}

func TestDispatchBadPatternReportsError(t *testing.T) {
	var out, errOut bytes.Buffer
	s := New(Options{
		Source:         &fakeSource{},
		Out:            &out,
		ErrOut:         &errOut,
		DefaultHistory: filepath.Join(t.TempDir(), "history"),
	})
	hist, err := history.Load(s.defaultHistory)
	if err != nil {
		t.Fatalf("history.Load: %v", err)
	}
	s.hist = hist

	s.dispatch(context.Background(), Classify(".tables [abc"))
	if !strings.Contains(errOut.String(), "Error:") {
		t.Errorf("bad pattern should be reported as an error, got %q", errOut.String())
	}
	if !strings.Contains(errOut.String(), "bad regular expression") {
		t.Errorf("error text should name the bad pattern, got %q", errOut.String())
	}
	if out.Len() != 0 {
		t.Errorf("bad pattern wrote to stdout: %q", out.String())
	}
}

func TestRunTerminatesOnEOF(t *testing.T) {
	s, _ := newTestShell(t, &fakeSource{})
	s.Run(context.Background()) // must return, not hang
}

func TestRunTerminatesOnQuit(t *testing.T) {
	src := &fakeSource{lines: []string{".quit", "select 1;"}}
	s, _ := newTestShell(t, src)
	s.Run(context.Background())
	if src.next != 1 {
		t.Errorf("loop read %d lines, want to stop right after .quit", src.next)
	}
}

func TestConnectReusesCachedEngine(t *testing.T) {
	opened := 0
	open := func(ctx context.Context, rawURL string) (*engine.Engine, error) {
		opened++
		return engine.Open(ctx, rawURL)
	}

	var out bytes.Buffer
	s := New(Options{
		Source:         &fakeSource{},
		Out:            &out,
		ErrOut:         &out,
		DefaultHistory: filepath.Join(t.TempDir(), "history"),
		OpenEngine:     open,
	})
	defer s.Close()

	ctx := context.Background()
	if err := s.Connect(ctx, "sqlite://"); err != nil {
		t.Fatalf("first Connect: %v", err)
	}
	if err := s.Connect(ctx, "sqlite://"); err != nil {
		t.Fatalf("second Connect: %v", err)
	}
	if opened != 1 {
		t.Errorf("connection opened %d times, want 1 (cached reuse)", opened)
	}
}

func TestTrimBlanksAndComments(t *testing.T) {
	tests := []struct {
		name      string
		lines     []string
		wantFirst int
		wantLen   int
	}{
		{
			name:      "no trimming needed",
			lines:     []string{"select 1;"},
			wantFirst: 1,
			wantLen:   1,
		},
		{
			name:      "leading blanks and comments",
			lines:     []string{"", "-- header", "select 1;"},
			wantFirst: 3,
			wantLen:   1,
		},
		{
			name:      "trailing blanks",
			lines:     []string{"select 1;", "", ""},
			wantFirst: 1,
			wantLen:   1,
		},
		{
			name:      "interior blank kept",
			lines:     []string{"select 1", "", "from t;"},
			wantFirst: 1,
			wantLen:   3,
		},
		{
			name:  "nothing but blanks and comments",
			lines: []string{"", "-- only", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, trimmed := trimBlanksAndComments(tt.lines)
			if first != tt.wantFirst {
				t.Errorf("first line = %d, want %d", first, tt.wantFirst)
			}
			if len(trimmed) != tt.wantLen {
				t.Errorf("kept %d lines, want %d", len(trimmed), tt.wantLen)
			}
		})
	}
}
