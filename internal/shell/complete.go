// Copyright (c) 2025 sqlsh authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package shell implements the interactive command loop: deciding whether a
// line is a complete SQL statement, a partial statement needing continuation,
// or a dot-command, and routing each to its handler while maintaining session
// state (current connection, row limit, input history).
package shell

import "strings"

const (
	// terminator ends a SQL statement.
	terminator = ';'
	// lineCommentPrefix starts a SQL line comment.
	lineCommentPrefix = "--"
)

// Complete reports whether text is a closed SQL statement: no unterminated
// quoted string and a trailing statement terminator. The returned rune is the
// open quote character, or 0 when no quote is open.
//
// The quote scan is a bare toggle over ' and " with no escape handling, so a
// doubled quote used as an in-string escape reads as close-then-reopen. That
// matches how the shell has always read input and stays as is.
func Complete(text string) (bool, rune) {
	var inQuote rune
	for _, c := range text {
		switch {
		case inQuote != 0:
			if c == inQuote {
				inQuote = 0
			}
		case c == '\'' || c == '"':
			inQuote = c
		}
	}
	complete := inQuote == 0 && strings.HasSuffix(text, string(terminator))
	return complete, inQuote
}

// keepLine reports whether a line belongs in an accumulating statement.
// Inside a quote every line is content. Outside, blank lines and line
// comments are dropped.
func keepLine(line string, inQuote bool) bool {
	if inQuote {
		return true
	}
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return false
	}
	return !strings.HasPrefix(trimmed, lineCommentPrefix)
}
