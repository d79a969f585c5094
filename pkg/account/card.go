package account

import (
	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/financli/pkg/db"
)

// Card is a revolving debt account: credit cards and store cards share the
// same rules. The balance is zero or negative and may not fall below the
// stored (negative) limiter.
type Card struct {
	base
}

// NewCreditCard returns the credit card policy.
func NewCreditCard(exec db.Executor, opts Options) (*Card, error) {
	return newCard(exec, TypeCreditCard, opts)
}

// NewStoreCard returns the store card policy.
func NewStoreCard(exec db.Executor, opts Options) (*Card, error) {
	return newCard(exec, TypeStoreCard, opts)
}

func newCard(exec db.Executor, t Type, opts Options) (*Card, error) {
	b, err := newBase(exec, t, opts)
	if err != nil {
		return nil, err
	}
	return &Card{base: b}, nil
}

// Bind returns a card policy of the same type running on exec.
func (c *Card) Bind(exec db.Executor) Policy {
	return &Card{base: c.bound(exec)}
}

// Deposit pays off part of the debt.
func (c *Card) Deposit(id int64, amount decimal.Decimal) error {
	return c.deposit(id, amount, func(owed decimal.Decimal) error {
		return reason(ErrOverpayment, "deposit would overpay the account. Only %s is owed", c.opts.Money(owed))
	})
}

// Withdraw spends on the card unless it would exceed the credit limit.
func (c *Card) Withdraw(id int64, amount decimal.Decimal) error {
	acct, amount, err := c.movement(OpWithdraw, id, amount)
	if err != nil {
		return err
	}

	next := acct.Balance.Sub(amount)
	if next.LessThan(acct.Limiter) {
		return c.fail(OpWithdraw, reason(ErrInsufficientFunds,
			"withdrawal would exceed the credit limit. Only %s of credit is available",
			c.opts.Money(acct.Balance.Sub(acct.Limiter))))
	}

	return c.setBalance(OpWithdraw, id, next)
}
