package account

import "github.com/shunichi-ikebuchi/financli/pkg/db"

// Payable is a pay-only commitment such as a bill or subscription. It has
// a monthly charge but no balance, so it supports open, close and update
// only.
type Payable struct {
	base
}

// NewBill returns the bill policy.
func NewBill(exec db.Executor, opts Options) (*Payable, error) {
	return newPayable(exec, TypeBill, opts)
}

// NewSubscription returns the subscription policy.
func NewSubscription(exec db.Executor, opts Options) (*Payable, error) {
	return newPayable(exec, TypeSubscription, opts)
}

func newPayable(exec db.Executor, t Type, opts Options) (*Payable, error) {
	b, err := newBase(exec, t, opts)
	if err != nil {
		return nil, err
	}
	return &Payable{base: b}, nil
}

// Bind returns a pay-only policy of the same type running on exec.
func (p *Payable) Bind(exec db.Executor) Policy {
	return &Payable{base: p.bound(exec)}
}
