// Copyright (c) 2025 sqlsh authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dsn

import "fmt"

// Kind represents the category of database engine behind a URL.
type Kind string

const (
	KindSQLite   Kind = "sqlite"
	KindMySQL    Kind = "mysql"
	KindPostgres Kind = "postgres"
	KindUnknown  Kind = "unknown"
)

// Target is the result of resolving a connection URL: the backend kind plus
// the driver name and driver-specific data source string to hand to sql.Open.
type Target struct {
	Kind     Kind
	Driver   string
	DSN      string
	Original string
}

// ParseError represents an error that occurred during URL parsing.
type ParseError struct {
	URL    string
	Reason string
	Hint   string
}

func (e *ParseError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("invalid connection URL: %s\nHint: %s", e.Reason, e.Hint)
	}
	return fmt.Sprintf("invalid connection URL: %s", e.Reason)
}

// NewParseError creates a new ParseError.
func NewParseError(url, reason, hint string) *ParseError {
	return &ParseError{
		URL:    url,
		Reason: reason,
		Hint:   hint,
	}
}
