package account

import (
	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/financli/pkg/db"
)

// Bank is an asset account. Limiter is the overdraft allowance and is
// added to the balance to give the funds available for withdrawal.
type Bank struct {
	base
}

// NewBank returns the bank policy.
func NewBank(exec db.Executor, opts Options) (*Bank, error) {
	b, err := newBase(exec, TypeBank, opts)
	if err != nil {
		return nil, err
	}
	return &Bank{base: b}, nil
}

// Bind returns a bank policy running on exec.
func (b *Bank) Bind(exec db.Executor) Policy {
	return &Bank{base: b.bound(exec)}
}

// Deposit adds amount to the balance. Banks have no upper bound.
func (b *Bank) Deposit(id int64, amount decimal.Decimal) error {
	return b.deposit(id, amount, nil)
}

// Withdraw subtracts amount unless it exceeds balance plus overdraft.
func (b *Bank) Withdraw(id int64, amount decimal.Decimal) error {
	acct, amount, err := b.movement(OpWithdraw, id, amount)
	if err != nil {
		return err
	}

	available := acct.Balance.Add(acct.Limiter)
	if available.LessThan(amount) {
		return b.fail(OpWithdraw, reason(ErrInsufficientFunds,
			"withdrawal would go below the overdraft limit. Only %s can be withdrawn", b.opts.Money(available)))
	}

	return b.setBalance(OpWithdraw, id, acct.Balance.Sub(amount))
}
