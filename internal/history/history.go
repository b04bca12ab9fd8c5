// Package history implements the persistent input history for the shell:
// an append-only log of input lines, loaded at startup and saved when the
// session ends or the connection (and with it the history file) changes.
// Records are indexed 1-based, matching how they are displayed.
package history

import (
	"bufio"
	"os"
	"regexp"
)

// maxEntries caps the persisted history so the file cannot grow unruly.
const maxEntries = 10000

// Record is one logged input line with its 1-based index.
type Record struct {
	Index int
	Line  string
}

// Store holds the in-memory history backed by a file on disk.
type Store struct {
	path  string
	lines []string
}

// Load reads the history file at path. A missing file yields an empty store;
// any other read error is returned alongside the (empty) store so the session
// can still start.
func Load(path string) (*Store, error) {
	s := &Store{path: path}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		s.lines = append(s.lines, scanner.Text())
	}
	return s, scanner.Err()
}

// Path returns the file the store persists to.
func (s *Store) Path() string { return s.path }

// Len returns the number of records in the store.
func (s *Store) Len() int { return len(s.lines) }

// Append adds a line to the end of the history.
func (s *Store) Append(line string) {
	s.lines = append(s.lines, line)
}

// RemoveLast drops the most recently appended record, if any. It is used to
// collapse the raw lines of a multi-line statement into a single entry.
func (s *Store) RemoveLast() {
	if len(s.lines) > 0 {
		s.lines = s.lines[:len(s.lines)-1]
	}
}

// Get returns the record at the given 1-based index.
func (s *Store) Get(index int) (string, bool) {
	if index < 1 || index > len(s.lines) {
		return "", false
	}
	return s.lines[index-1], true
}

// Last returns the most recent n records in order; n <= 0 returns all.
func (s *Store) Last(n int) []Record {
	start := 0
	if n > 0 && n < len(s.lines) {
		start = len(s.lines) - n
	}
	records := make([]Record, 0, len(s.lines)-start)
	for i := start; i < len(s.lines); i++ {
		records = append(records, Record{Index: i + 1, Line: s.lines[i]})
	}
	return records
}

// Search returns every record whose line matches the pattern. Matching is
// case-sensitive; callers wanting case-blind search compile with (?i).
func (s *Store) Search(pattern *regexp.Regexp) []Record {
	var records []Record
	for i, line := range s.lines {
		if pattern.MatchString(line) {
			records = append(records, Record{Index: i + 1, Line: line})
		}
	}
	return records
}

// Save writes the history back to its file, keeping at most maxEntries of
// the newest records.
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}
	lines := s.lines
	if len(lines) > maxEntries {
		lines = lines[len(lines)-maxEntries:]
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
