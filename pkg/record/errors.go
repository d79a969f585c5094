package record

import "errors"

var (
	// ErrRecordNotFound is returned when no row has the requested id.
	ErrRecordNotFound = errors.New("record not found")

	// ErrValidation is returned when data is missing required fields or
	// names no known column.
	ErrValidation = errors.New("validation failed")

	// ErrColumnMismatch is returned when a scanned row does not match the
	// column list reported by the driver.
	ErrColumnMismatch = errors.New("column mismatch")

	// ErrQueryExecution is returned when SQLite rejects a statement.
	ErrQueryExecution = errors.New("query execution failed")
)

// Error carries a readable message and matches one of the sentinel kinds
// above with errors.Is. The driver error, if any, stays in the chain.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newError(kind error, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}
