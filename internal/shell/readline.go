// Copyright (c) 2025 sqlsh authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package shell

import (
	"context"
	"errors"

	"github.com/chzyer/readline"
)

// ReadlineSource is the interactive LineSource, backed by chzyer/readline for
// line editing, recall, and tab completion. History persistence is handled by
// the shell's own store; readline only keeps the in-memory recall buffer, so
// auto-saving is disabled and Remember feeds consolidated statements back in.
type ReadlineSource struct {
	rl *readline.Instance
}

// NewReadlineSource builds the interactive line source. tables supplies the
// current connection's table names for completion after the table-taking
// commands; it may return nil.
func NewReadlineSource(tables func() []string) (*ReadlineSource, error) {
	rl, err := readline.NewEx(&readline.Config{
		AutoComplete:           newCompleter(tables),
		InterruptPrompt:        "^C",
		EOFPrompt:              "",
		HistorySearchFold:      true,
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		return nil, err
	}
	return &ReadlineSource{rl: rl}, nil
}

// newCompleter completes dot-command keywords, and table names after the
// commands that take a table argument.
func newCompleter(tables func() []string) *readline.PrefixCompleter {
	dynamicTables := readline.PcItemDynamic(func(string) []string {
		if tables == nil {
			return nil
		}
		return tables()
	})

	items := make([]readline.PrefixCompleterInterface, 0, len(helpTopics))
	for _, name := range CommandNames() {
		switch name {
		case ".schema", ".indexes", ".fk":
			items = append(items, readline.PcItem(name, dynamicTables))
		default:
			items = append(items, readline.PcItem(name))
		}
	}
	return readline.NewPrefixCompleter(items...)
}

// ReadLine reads one line at the given prompt. Interrupts map to
// ErrInterrupted; end of input is io.EOF.
func (r *ReadlineSource) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	line, err := r.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", ErrInterrupted
	}
	if err != nil {
		return "", err
	}
	return line, nil
}

// Remember adds a line to the in-memory recall buffer.
func (r *ReadlineSource) Remember(line string) {
	// SaveHistory only errors when a history file is configured; there is
	// none here.
	_ = r.rl.SaveHistory(line)
}

// Close releases the terminal.
func (r *ReadlineSource) Close() error {
	return r.rl.Close()
}

var _ LineSource = (*ReadlineSource)(nil)

// TableNames is the completion provider bound to a shell: the current
// engine's tables, or nothing when introspection fails mid-completion.
func (s *Shell) TableNames() []string {
	if s.eng == nil {
		return nil
	}
	tables, err := s.eng.Tables(context.Background())
	if err != nil {
		return nil
	}
	return tables
}
