// Copyright (c) 2025 sqlsh authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"sqlsh/cli/internal/config"
	"sqlsh/cli/internal/dsn"
	"sqlsh/cli/internal/engine"
	errs "sqlsh/cli/internal/errors"
	"sqlsh/cli/internal/history"
	"sqlsh/cli/internal/logging"
	"sqlsh/cli/internal/render"
)

// ErrInterrupted signals that the user interrupted the pending read.
var ErrInterrupted = errors.New("interrupted")

// LineSource supplies input lines to the shell. ReadLine blocks until a line
// is available and returns io.EOF on end of input or ErrInterrupted when the
// user interrupts the read. Remember adds a line to interactive recall
// without persisting it.
type LineSource interface {
	ReadLine(prompt string) (string, error)
	Remember(line string)
}

var promptStyle = pterm.NewStyle(pterm.FgCyan, pterm.Bold)

// Options configures a Shell.
type Options struct {
	// Config is the loaded configuration, or nil when there is none.
	Config *config.Config
	// Source supplies input lines.
	Source LineSource
	// Out and ErrOut are the output streams. Results and chatter go to Out,
	// errors to ErrOut.
	Out    io.Writer
	ErrOut io.Writer
	// DefaultHistory is the history file used for connections without a
	// per-connection override.
	DefaultHistory string
	// OpenEngine overrides how database connections are opened. Nil means
	// engine.Open.
	OpenEngine engine.OpenFunc
}

// Shell is one interactive session: the current connection, the row limit,
// the history store tied to the connection, and the input/output streams.
// It is single-threaded; every method must be called from the same goroutine.
type Shell struct {
	cfg      *config.Config
	cache    *engine.Cache
	eng      *engine.Engine
	hist     *history.Store
	src      LineSource
	out      io.Writer
	errOut   io.Writer
	renderer *render.Renderer
	limit    int

	defaultHistory string
}

// New constructs a shell. No connection is made until Connect.
func New(opts Options) *Shell {
	return &Shell{
		cfg:            opts.Config,
		cache:          engine.NewCache(opts.OpenEngine),
		src:            opts.Source,
		out:            opts.Out,
		errOut:         opts.ErrOut,
		renderer:       render.New(opts.Out),
		defaultHistory: opts.DefaultHistory,
	}
}

// Limit returns the current row limit (0 = unlimited).
func (s *Shell) Limit() int { return s.limit }

// Engine returns the active database engine, or nil before the first
// successful Connect.
func (s *Shell) Engine() *engine.Engine { return s.eng }

// History returns the active history store.
func (s *Shell) History() *history.Store { return s.hist }

// Close flushes the history and closes every cached connection.
func (s *Shell) Close() error {
	var first error
	if s.hist != nil {
		first = s.hist.Save()
	}
	if err := s.cache.Close(); err != nil && first == nil {
		first = err
	}
	return first
}

// resolveSpec turns a connection spec into a URL and history path. A spec
// matching a configured name by case-insensitive prefix uses that section;
// no match means the spec is a raw URL with the default history file.
func (s *Shell) resolveSpec(spec string) (url, histPath string, err error) {
	matches := s.cfg.Lookup(spec)
	switch len(matches) {
	case 0:
		return spec, s.defaultHistory, nil
	case 1:
		histPath = s.defaultHistory
		if matches[0].HistoryFile != "" {
			histPath = matches[0].HistoryFile
		}
		return matches[0].URL, histPath, nil
	default:
		return "", "", s.cfg.AmbiguousError(spec, matches)
	}
}

// Connect resolves the spec, opens (or reuses) the connection, and swaps the
// session onto it: connection, prompt, and history move together. On any
// failure the session is left exactly as it was.
func (s *Shell) Connect(ctx context.Context, spec string) error {
	url, histPath, err := s.resolveSpec(spec)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Connecting to %s ...\n", logging.Mask(url))
	eng, err := s.cache.Get(ctx, url)
	if err != nil {
		return err
	}
	// Some drivers accept a bad URL until the first real operation, so list
	// tables once to prove the connection works.
	if _, err := eng.Tables(ctx); err != nil {
		return errs.Wrap(errs.ConnectFailed, "unable to connect to "+logging.Mask(url), err)
	}

	if s.hist == nil || s.hist.Path() != histPath {
		if s.hist != nil {
			if err := s.hist.Save(); err != nil {
				logging.Errorf(s.errOut, "unable to save history: %v", err)
			}
		}
		hist, err := history.Load(histPath)
		if err != nil {
			logging.Errorf(s.errOut, "unable to read history from %s: %v", histPath, err)
		}
		s.hist = hist
		for _, rec := range hist.Last(0) {
			s.src.Remember(rec.Line)
		}
	}

	s.eng = eng
	return nil
}

// prompt builds the primary or continuation prompt for the current
// connection.
func (s *Shell) prompt(primary bool) string {
	kind := dsn.KindUnknown
	if s.eng != nil {
		kind = s.eng.Kind()
	}
	suffix := ">"
	if !primary {
		suffix = "?"
	}
	return promptStyle.Sprintf("(%s) %s ", kind, suffix)
}

// readLine reads one line and logs it to history; the accumulator collapses
// those raw entries later. Blank lines are not recorded.
func (s *Shell) readLine(prompt string) (string, error) {
	line, err := s.src.ReadLine(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) != "" {
		s.hist.Append(line)
	}
	return line, nil
}

// Run drives the command loop until quit or end of input. Connect must have
// succeeded first. Per-command errors are reported and the loop continues;
// only input-source failures end the session.
func (s *Shell) Run(ctx context.Context) {
	fmt.Fprintln(s.out, "\nType .help for help on sqlsh commands")

	for {
		line, err := s.readLine(s.prompt(true))
		switch {
		case errors.Is(err, io.EOF):
			fmt.Fprintln(s.out)
			return
		case errors.Is(err, ErrInterrupted):
			fmt.Fprintln(s.out)
			continue
		case err != nil:
			logging.Errorf(s.errOut, "input failed: %v", err)
			return
		}

		if quit := s.dispatch(ctx, Classify(line)); quit {
			return
		}
	}
}

// dispatch routes one classified input to its handler. The returned bool is
// true only for the quit command.
func (s *Shell) dispatch(ctx context.Context, in Input) bool {
	switch cmd := in.(type) {
	case EmptyInput:

	case QuitCommand:
		return true

	case HelpCommand:
		s.showHelp(cmd.Topic)

	case ConnectCommand:
		if err := s.Connect(ctx, cmd.Spec); err != nil {
			logging.PresentError(s.errOut, err)
		}

	case ExportCommand:
		if err := s.doExport(ctx, cmd.Table, cmd.Path); err != nil {
			logging.PresentError(s.errOut, err)
		}

	case ImportCommand:
		if err := s.doImport(ctx, cmd.Table, cmd.Path, cmd.NewTableOnly); err != nil {
			logging.PresentError(s.errOut, err)
		}

	case ForeignKeysCommand:
		s.showForeignKeys(ctx, cmd.Table)

	case IndexesCommand:
		s.showIndexes(ctx, cmd.Table)

	case SchemaCommand:
		s.showSchema(ctx, cmd.Table)

	case TablesCommand:
		s.showTables(ctx, cmd.Pattern)

	case HistoryCommand:
		s.showHistory(cmd.N, cmd.Pattern)

	case LimitCommand:
		if cmd.Show {
			fmt.Fprintf(s.out, "Limit is currently %d.\n", s.limit)
		} else {
			s.limit = cmd.N
		}

	case RunCommand:
		if err := s.runScript(ctx, cmd.Path); err != nil {
			logging.PresentError(s.errOut, err)
		}

	case URLCommand:
		fmt.Fprintln(s.out, logging.Mask(s.eng.URL()))

	case UnknownCommand:
		logging.Errorf(s.errOut, "%q is an unknown \".\" command.", cmd.Name)

	case UsageError:
		fmt.Fprintln(s.out, cmd.Message)

	case CommandError:
		logging.Errorf(s.errOut, "%s", cmd.Message)

	case SQLInput:
		sql, ok := s.readStatement(cmd.Text)
		if !ok {
			fmt.Fprintln(s.out)
			return false
		}
		s.runSQL(ctx, sql, s.limit, false, "")
	}
	return false
}

// runSQL is the single execution entry point for statements from the prompt,
// from scripts, and from introspection commands. It reports errors itself and
// returns whether the statement succeeded.
func (s *Shell) runSQL(ctx context.Context, sql string, limit int, echo bool, emptyMessage string) bool {
	if echo {
		fmt.Fprintf(s.out, "%s\n\n", sql)
	}

	start := time.Now()
	res, err := s.eng.Execute(ctx, sql, limit)
	switch {
	case errors.Is(err, engine.ErrNoResultSet):
		// A write or DDL statement; committed, nothing to display.
		return true
	case err != nil:
		logging.PresentError(s.errOut, err)
		return false
	}

	s.renderer.Render(res, limit, time.Since(start), emptyMessage)
	return true
}

func (s *Shell) showTables(ctx context.Context, pattern *regexp.Regexp) {
	tables, err := s.eng.Tables(ctx)
	if err != nil {
		logging.PresentError(s.errOut, err)
		return
	}
	for _, t := range tables {
		if pattern == nil || pattern.MatchString(t) {
			fmt.Fprintln(s.out, t)
		}
	}
}

func (s *Shell) showSchema(ctx context.Context, table string) {
	table, ok := s.resolveTable(ctx, table)
	if !ok {
		return
	}
	if sql, native := s.eng.NativeSchemaSQL(table); native {
		s.runSQL(ctx, sql, 0, true, "")
		return
	}
	res, err := s.eng.DescribeColumns(ctx, table)
	if err != nil {
		logging.PresentError(s.errOut, err)
		return
	}
	s.renderer.Render(res, 0, -1, "")
}

func (s *Shell) showIndexes(ctx context.Context, table string) {
	const emptyMessage = "No indexes."

	table, ok := s.resolveTable(ctx, table)
	if !ok {
		return
	}
	if sql, native := s.eng.NativeIndexSQL(table); native {
		s.runSQL(ctx, sql, 0, true, emptyMessage)
		return
	}

	indexes, err := s.eng.ListIndexes(ctx, table)
	if err != nil {
		logging.PresentError(s.errOut, err)
		return
	}
	res := &engine.Result{
		Columns: []string{"table", "name", "columns", "unique"},
		Total:   len(indexes),
	}
	for _, idx := range indexes {
		res.Rows = append(res.Rows, map[string]any{
			"table":   table,
			"name":    idx.Name,
			"columns": strings.Join(idx.Columns, ", "),
			"unique":  fmt.Sprintf("%t", idx.Unique),
		})
	}
	s.renderer.Render(res, 0, -1, emptyMessage)
}

func (s *Shell) showForeignKeys(ctx context.Context, table string) {
	const emptyMessage = "No foreign keys."

	table, ok := s.resolveTable(ctx, table)
	if !ok {
		return
	}
	if sql, native := s.eng.NativeForeignKeySQL(table); native {
		s.runSQL(ctx, sql, 0, true, emptyMessage)
		return
	}

	fks, err := s.eng.ListForeignKeys(ctx, table)
	if err != nil {
		logging.PresentError(s.errOut, err)
		return
	}
	res := &engine.Result{
		Columns: []string{"name", "columns", "references", "references_columns"},
		Total:   len(fks),
	}
	for _, fk := range fks {
		res.Rows = append(res.Rows, map[string]any{
			"name":               fk.Name,
			"columns":            strings.Join(fk.Columns, ", "),
			"references":         fk.RefTable,
			"references_columns": strings.Join(fk.RefColumns, ", "),
		})
	}
	s.renderer.Render(res, 0, -1, emptyMessage)
}

// resolveTable canonicalizes a table name, reporting the not-found case
// consistently across backends.
func (s *Shell) resolveTable(ctx context.Context, table string) (string, bool) {
	canonical, err := s.eng.ResolveTable(ctx, table)
	if err != nil {
		logging.PresentError(s.errOut, err)
		return "", false
	}
	return canonical, true
}

func (s *Shell) showHistory(n int, pattern *regexp.Regexp) {
	var records []history.Record
	if pattern != nil {
		records = s.hist.Search(pattern)
	} else {
		records = s.hist.Last(0)
		if len(records) > 0 {
			// The trailing record is this .history command itself.
			records = records[:len(records)-1]
		}
		if n > 0 && n < len(records) {
			records = records[len(records)-n:]
		}
	}
	for _, rec := range records {
		fmt.Fprintf(s.out, "%5d. %s\n", rec.Index, rec.Line)
	}
}
