package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned when a request is missing or combines
	// fields in a way its kind does not allow.
	ErrInvalidRequest = errors.New("invalid transaction request")

	// ErrPayOnly is returned when money would move into or out of a
	// pay-only account.
	ErrPayOnly = errors.New("pay-only account")

	// ErrAlreadyReversed is returned when amending or voiding an entry that
	// has already been voided.
	ErrAlreadyReversed = errors.New("transaction already reversed")
)

// Op names the ledger operation that failed.
type Op string

const (
	OpExecute Op = "execute"
	OpAmend   Op = "amend"
	OpVoid    Op = "void"
)

// TransactionError wraps any failure met while executing, amending or
// voiding a transaction. When it is returned nothing has been changed.
type TransactionError struct {
	Op   Op
	Kind Kind
	ID   int64
	Err  error
}

func (e *TransactionError) Error() string {
	if e.Op == OpExecute {
		return fmt.Sprintf("unable to complete %s: %v", e.Kind.Label(), e.Err)
	}
	return fmt.Sprintf("unable to %s transaction %d: %v", e.Op, e.ID, e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}
