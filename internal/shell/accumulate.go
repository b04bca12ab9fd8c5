// Copyright (c) 2025 sqlsh authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package shell

import "strings"

// readStatement accumulates a complete SQL statement starting from first,
// reading continuation lines at the secondary prompt until Complete says the
// statement is closed. Lines join with a single space so internal line breaks
// collapse. Outside a quote a line is trimmed, and blank or comment lines are
// skipped; inside a quote every line is kept verbatim.
//
// Each raw line was appended to history as it was read; those entries are
// removed along the way and replaced by one consolidated entry holding the
// finished statement. End-of-input or an interrupt aborts the statement:
// nothing is dispatched and no consolidated entry is recorded.
func (s *Shell) readStatement(first string) (string, bool) {
	// The raw first line is already in history; it is re-added in
	// consolidated form at the end.
	s.hist.RemoveLast()

	var sql string
	if keepLine(first, false) {
		sql = strings.TrimSpace(first)
	}

	var inQuote rune
	for {
		if sql != "" {
			var complete bool
			complete, inQuote = Complete(sql)
			if complete {
				break
			}
		}

		line, err := s.readLine(s.prompt(false))
		if err != nil {
			// EOF or interrupt: discard the partial statement.
			return "", false
		}
		if strings.TrimSpace(line) != "" {
			s.hist.RemoveLast()
		}

		if !keepLine(line, inQuote != 0) {
			continue
		}
		if inQuote == 0 {
			line = strings.TrimSpace(line)
		}
		if sql == "" {
			sql = line
		} else {
			sql += " " + line
		}
	}

	s.hist.Append(sql)
	s.src.Remember(sql)
	return sql, true
}
