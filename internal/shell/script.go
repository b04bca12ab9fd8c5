// Copyright (c) 2025 sqlsh authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package shell

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	errs "sqlsh/cli/internal/errors"
	"sqlsh/cli/internal/xdg"
)

// runScript executes the SQL script at path: statements may span lines, must
// end with an unquoted terminator, and are echoed as they run. Execution
// stops at the first failing statement. A file that ends mid-statement or
// contains no SQL at all is an error.
func (s *Shell) runScript(ctx context.Context, path string) error {
	path = xdg.ExpandHome(path)

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return errs.Newf(errs.NotFound,
			"file %q does not exist or is not a regular file", path)
	}
	if strings.ToLower(filepath.Ext(path)) != ".sql" {
		return errs.Newf(errs.BadPattern, `file %q does not end with ".sql"`, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return errs.Wrap(errs.ExecutionFailed, "unable to read "+path, err)
	}
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	f.Close()
	if err := scanner.Err(); err != nil {
		return errs.Wrap(errs.ExecutionFailed, "unable to read "+path, err)
	}

	firstLine, lines := trimBlanksAndComments(lines)
	if firstLine == 0 {
		return errs.Newf(errs.ExecutionFailed, "%q contains no SQL statements", path)
	}

	var (
		sql           string
		inQuote       rune
		statementLine = firstLine
	)
	for i, line := range lines {
		if sql == "" {
			statementLine = firstLine + i
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

		var complete bool
		complete, inQuote = Complete(sql)
		if complete {
			if !s.runSQL(ctx, sql, 0, true, "") {
				return nil // already reported
			}
			sql = ""
		}
	}

	if sql != "" {
		return errs.Newf(errs.ExecutionFailed,
			"%q, line %d: file ended with an incomplete SQL statement",
			path, statementLine)
	}
	return nil
}

// trimBlanksAndComments drops leading and trailing blank and comment lines,
// returning the 1-based line number of the first SQL line. A file of nothing
// but blanks and comments yields (0, nil).
func trimBlanksAndComments(lines []string) (int, []string) {
	end := len(lines)
	for end > 0 && !keepLine(lines[end-1], false) {
		end--
	}
	for start := 0; start < end; start++ {
		if keepLine(lines[start], false) {
			return start + 1, lines[start:end]
		}
	}
	return 0, nil
}
