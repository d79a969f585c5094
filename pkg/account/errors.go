package account

import (
	"errors"
	"fmt"
)

// Op names the policy operation that failed.
type Op string

const (
	OpOpen     Op = "open"
	OpClose    Op = "close"
	OpDeposit  Op = "deposit"
	OpWithdraw Op = "withdraw"
	OpUpdate   Op = "update"
	OpReverse  Op = "reverse"
)

var opPhrases = map[Op]string{
	OpDeposit:  "deposit into",
	OpWithdraw: "withdraw from",
	OpReverse:  "reverse a repayment on",
}

var (
	// ErrHasBalance is returned when closing an account whose balance is not zero.
	ErrHasBalance = errors.New("account has a balance")

	// ErrInsufficientFunds is returned when a withdrawal would breach the
	// overdraft or credit limit.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrOverpayment is returned when a deposit would take a debt above zero.
	ErrOverpayment = errors.New("overpayment")

	// ErrUnsupported is returned for operations a type does not allow.
	ErrUnsupported = errors.New("operation not supported")

	// ErrInvalidAmount is returned for zero, negative or out-of-range amounts.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrTypeMismatch is returned when a request names a different type
	// than the policy it was sent to.
	ErrTypeMismatch = errors.New("account type mismatch")
)

// Error is returned by every policy operation. It records the account
// type and operation and keeps the underlying cause in the chain.
type Error struct {
	Type Type
	Op   Op
	Err  error
}

func (e *Error) Error() string {
	phrase, ok := opPhrases[e.Op]
	if !ok {
		phrase = string(e.Op)
	}
	noun := e.Type.String() + " account"
	if e.Type.IsPayOnly() {
		noun = e.Type.String()
	}
	return fmt.Sprintf("unable to %s %s: %v", phrase, noun, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// reasonError pairs a sentinel kind with a message specific to one failure.
type reasonError struct {
	kind error
	msg  string
}

func (e *reasonError) Error() string { return e.msg }

func (e *reasonError) Unwrap() error { return e.kind }

func reason(kind error, format string, args ...any) error {
	return &reasonError{kind: kind, msg: fmt.Sprintf(format, args...)}
}
