// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error
// kinds and human-friendly messages, so that the shell can decide whether an error
// is fatal (configuration problems at startup) or merely reported at the prompt.
package errors

import "fmt"

// Kind is a machine-readable error category.
type Kind string

const (
	// ConfigInvalid indicates an unreadable or malformed configuration file.
	ConfigInvalid Kind = "config_invalid"
	// AmbiguousConnection indicates a connection spec that matched more than
	// one configuration section.
	AmbiguousConnection Kind = "ambiguous_connection"
	// ConnectFailed indicates a database connection failure.
	ConnectFailed Kind = "connect_failed"
	// NotFound indicates a lookup failure (missing table, script file, etc.).
	NotFound Kind = "not_found"
	// BadPattern indicates a malformed regular expression or quoted argument.
	BadPattern Kind = "bad_pattern"
	// ExecutionFailed indicates a statement that failed at the database layer.
	ExecutionFailed Kind = "execution_failed"
	// TransferFailed indicates an import or export I/O failure.
	TransferFailed Kind = "transfer_failed"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *E) Unwrap() error { return e.Err }

// IsKind reports whether err is an *E of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := err.(*E)
	return ok && e.Kind == kind
}

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }
func Newf(kind Kind, format string, args ...any) *E {
	return &E{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
