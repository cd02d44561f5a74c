package domain

import "fmt"

// Kind discriminates the failure categories the boundary layer maps to
// HTTP statuses. Exactly one kind applies to any pipeline error.
type Kind string

const (
	// KindUnrecognizedFormat means an identifier matched no known pattern.
	// Client input error; never retried.
	KindUnrecognizedFormat Kind = "unrecognized_format"
	// KindNotFound means an archive query for a specific key returned no
	// rows. Not retried beyond the documented Kepler zero-padding fallback.
	KindNotFound Kind = "not_found"
	// KindUpstream means the archive or cutout service failed at the
	// transport or protocol level. Distinct from NotFound.
	KindUpstream Kind = "upstream"
	// KindModelUnavailable means one or more of a mission's artifact files
	// is missing or corrupt. Fatal for that mission until restored.
	KindModelUnavailable Kind = "model_unavailable"
)

// Error is the single tagged error type used across pipeline components.
// The Kind discriminant lets the API layer match exhaustively instead of
// inspecting error strings.
type Error struct {
	Kind    Kind
	Op      string // component operation, e.g. "target.parse"
	Message string
	Err     error // wrapped cause, may be nil
}

// NewError builds a tagged Error.
func NewError(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap exposes the cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the Kind from an error chain. Returns "" when the error
// carries no domain tag.
func KindOf(err error) Kind {
	var de *Error
	for ; err != nil; err = unwrapOnce(err) {
		if e, ok := err.(*Error); ok {
			de = e
			break
		}
	}
	if de == nil {
		return ""
	}
	return de.Kind
}

func unwrapOnce(err error) error {
	u, ok := err.(interface{ Unwrap() error })
	if !ok {
		return nil
	}
	return u.Unwrap()
}
