// Copyright (c) 2025 sqlsh authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package shell

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Input is a classified line of user input. Exactly one variant matches any
// given line; dispatch is a type switch over this closed set.
type Input interface {
	input()
}

type (
	// EmptyInput is a blank line.
	EmptyInput struct{}

	// QuitCommand is .exit or .quit.
	QuitCommand struct{}

	// HelpCommand is .help or ?, with an optional single topic.
	HelpCommand struct{ Topic string }

	// ConnectCommand switches to another database.
	ConnectCommand struct{ Spec string }

	// ExportCommand writes a table to a CSV or JSON Lines file.
	ExportCommand struct{ Table, Path string }

	// ImportCommand loads a CSV or JSON Lines file into a table.
	ImportCommand struct {
		Table, Path  string
		NewTableOnly bool
	}

	// ForeignKeysCommand shows the foreign keys of a table.
	ForeignKeysCommand struct{ Table string }

	// IndexesCommand shows the indexes of a table.
	IndexesCommand struct{ Table string }

	// SchemaCommand shows the schema of a table.
	SchemaCommand struct{ Table string }

	// TablesCommand lists tables, optionally filtered case-insensitively.
	TablesCommand struct{ Pattern *regexp.Regexp }

	// HistoryCommand shows history: the last N entries (0 = all) or the
	// entries matching a case-sensitive pattern.
	HistoryCommand struct {
		N       int
		Pattern *regexp.Regexp
	}

	// LimitCommand shows or sets the session row limit.
	LimitCommand struct {
		N    int
		Show bool
	}

	// RunCommand executes a SQL script file.
	RunCommand struct{ Path string }

	// URLCommand shows the current connection URL.
	URLCommand struct{}

	// UnknownCommand is a dot-prefixed token that matches no command.
	UnknownCommand struct{ Name string }

	// UsageError is a recognized command with bad arguments; Message is the
	// one-line usage or error text to show.
	UsageError struct{ Message string }

	// CommandError is a recognized command whose argument failed to parse
	// (bad quoting, malformed regular expression). It is reported as an
	// error, not as usage text.
	CommandError struct{ Message string }

	// SQLInput is anything that is not a command: the first line of a SQL
	// statement.
	SQLInput struct{ Text string }
)

func (EmptyInput) input()         {}
func (QuitCommand) input()        {}
func (HelpCommand) input()        {}
func (ConnectCommand) input()     {}
func (ExportCommand) input()      {}
func (ImportCommand) input()      {}
func (ForeignKeysCommand) input() {}
func (IndexesCommand) input()     {}
func (SchemaCommand) input()      {}
func (TablesCommand) input()      {}
func (HistoryCommand) input()     {}
func (LimitCommand) input()       {}
func (RunCommand) input()         {}
func (URLCommand) input()         {}
func (UnknownCommand) input()     {}
func (UsageError) input()         {}
func (CommandError) input()       {}
func (SQLInput) input()           {}

// digits decides numeral-vs-pattern for .limit, .history, and .tables
// arguments.
var digits = regexp.MustCompile(`^\d+$`)

// Classify maps one raw input line to its Input variant. Tokenization is by
// whitespace; pattern-taking commands re-split the original line with shell
// quoting rules so a quoted pattern containing spaces survives as one token.
func Classify(line string) Input {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return EmptyInput{}
	}

	switch tokens[0] {
	case ".exit", ".quit":
		if len(tokens) > 1 {
			return UsageError{Message: ".exit and .quit take no arguments."}
		}
		return QuitCommand{}

	case ".help", "?":
		switch len(tokens) {
		case 1:
			return HelpCommand{}
		case 2:
			return HelpCommand{Topic: tokens[1]}
		default:
			return UsageError{Message: ".help and ? take at most one argument."}
		}

	case ".connect":
		if len(tokens) != 2 {
			return UsageError{Message: "Usage: .connect <db_spec>"}
		}
		return ConnectCommand{Spec: tokens[1]}

	case ".export":
		if len(tokens) != 3 {
			return UsageError{Message: "Usage: .export <table> <path>"}
		}
		return ExportCommand{Table: tokens[1], Path: tokens[2]}

	case ".import":
		switch {
		case len(tokens) == 3:
			return ImportCommand{Table: tokens[1], Path: tokens[2]}
		case len(tokens) == 4 && tokens[1] == "-n":
			return ImportCommand{Table: tokens[2], Path: tokens[3], NewTableOnly: true}
		default:
			return UsageError{Message: "Usage: .import [-n] <table> <path>"}
		}

	case ".fk":
		if len(tokens) != 2 {
			return UsageError{Message: "Usage: .fk <table_name>"}
		}
		return ForeignKeysCommand{Table: tokens[1]}

	case ".indexes":
		if len(tokens) != 2 {
			return UsageError{Message: "Usage: .indexes <table_name>"}
		}
		return IndexesCommand{Table: tokens[1]}

	case ".schema":
		if len(tokens) != 2 {
			return UsageError{Message: "Usage: .schema <table_name>"}
		}
		return SchemaCommand{Table: tokens[1]}

	case ".limit":
		switch {
		case len(tokens) == 1:
			return LimitCommand{Show: true}
		case len(tokens) == 2 && digits.MatchString(tokens[1]):
			n, err := strconv.Atoi(tokens[1])
			if err != nil {
				return UsageError{Message: ".limit takes a non-negative integer"}
			}
			return LimitCommand{N: n}
		case len(tokens) == 2:
			return UsageError{Message: ".limit takes a non-negative integer"}
		default:
			return UsageError{Message: "Usage: .limit <n>"}
		}

	case ".run":
		if len(tokens) != 2 {
			return UsageError{Message: "Usage: .run <path>"}
		}
		return RunCommand{Path: tokens[1]}

	case ".tables":
		if len(tokens) == 1 {
			return TablesCommand{}
		}
		// Case-blind table matching.
		pattern, err := patternArg(line, "(?i)")
		if err != nil {
			return CommandError{Message: err.Error()}
		}
		return TablesCommand{Pattern: pattern}

	case ".url":
		if len(tokens) > 1 {
			return UsageError{Message: ".url takes no arguments."}
		}
		return URLCommand{}

	case ".history":
		switch {
		case len(tokens) == 1:
			return HistoryCommand{}
		case len(tokens) == 2 && digits.MatchString(tokens[1]):
			n, err := strconv.Atoi(tokens[1])
			if err != nil {
				return UsageError{Message: "Usage: .history [<n> | <pattern>]"}
			}
			return HistoryCommand{N: n}
		default:
			pattern, err := patternArg(line, "")
			if err != nil {
				return CommandError{Message: err.Error()}
			}
			return HistoryCommand{Pattern: pattern}
		}
	}

	if strings.HasPrefix(tokens[0], ".") {
		return UnknownCommand{Name: tokens[0]}
	}
	return SQLInput{Text: line}
}

// patternArg extracts the single pattern argument of a command by re-splitting
// the original line with shell quoting rules, and compiles it with the given
// regexp flags prepended.
func patternArg(line, flags string) (*regexp.Regexp, error) {
	tokens, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("bad quoting: %v", err)
	}
	if len(tokens) != 2 {
		return nil, fmt.Errorf("too many parameters")
	}
	pattern, err := regexp.Compile(flags + tokens[1])
	if err != nil {
		return nil, fmt.Errorf("bad regular expression: %v", err)
	}
	return pattern, nil
}
