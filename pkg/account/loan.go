package account

import (
	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/financli/pkg/db"
)

// Loan is a debt that can only be repaid. Money never leaves a loan.
type Loan struct {
	base
}

// NewLoan returns the loan policy.
func NewLoan(exec db.Executor, opts Options) (*Loan, error) {
	b, err := newBase(exec, TypeLoan, opts)
	if err != nil {
		return nil, err
	}
	return &Loan{base: b}, nil
}

// Bind returns a loan policy running on exec.
func (l *Loan) Bind(exec db.Executor) Policy {
	return &Loan{base: l.bound(exec)}
}

// Deposit records a repayment. It cannot exceed what is due.
func (l *Loan) Deposit(id int64, amount decimal.Decimal) error {
	return l.deposit(id, amount, func(due decimal.Decimal) error {
		return reason(ErrOverpayment, "deposit would overpay the loan. Only %s is due", l.opts.Money(due))
	})
}

// Withdraw always fails.
func (l *Loan) Withdraw(id int64, amount decimal.Decimal) error {
	return l.fail(OpWithdraw, reason(ErrUnsupported, "cannot withdraw from a loan account"))
}

// ReverseRepayment adds a previously repaid amount back onto the debt.
// It is used when a logged repayment is voided or amended.
func (l *Loan) ReverseRepayment(id int64, amount decimal.Decimal) error {
	acct, amount, err := l.movement(OpReverse, id, amount)
	if err != nil {
		return err
	}
	return l.setBalance(OpReverse, id, acct.Balance.Sub(amount))
}
