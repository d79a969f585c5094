// Package registry maps each account type to its table, its transaction
// eligibility and its policy. It is built once per process and is
// read-only afterwards.
package registry

import (
	"fmt"

	"github.com/shunichi-ikebuchi/financli/pkg/account"
	"github.com/shunichi-ikebuchi/financli/pkg/db"
)

// Entry describes one account type.
type Entry struct {
	Type          account.Type
	Table         string
	IsSource      bool
	IsDestination bool
	PayOnly       bool
	Policy        account.Policy
}

// eligibility lists which types money may leave and enter through.
var eligibility = map[account.Type]struct{ source, destination bool }{
	account.TypeBank:         {true, true},
	account.TypeCreditCard:   {true, true},
	account.TypeStoreCard:    {true, true},
	account.TypeLoan:         {false, true},
	account.TypeBill:         {false, false},
	account.TypeSubscription: {false, false},
}

// Registry resolves account types to policies.
type Registry struct {
	entries map[account.Type]Entry
}

// New builds a policy for every account type on exec.
func New(exec db.Executor, opts account.Options) (*Registry, error) {
	r := &Registry{entries: make(map[account.Type]Entry, len(eligibility))}
	for _, t := range account.Types() {
		policy, err := account.New(exec, t, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s policy: %w", t, err)
		}
		flags := eligibility[t]
		r.entries[t] = Entry{
			Type:          t,
			Table:         t.Table(),
			IsSource:      flags.source,
			IsDestination: flags.destination,
			PayOnly:       t.IsPayOnly(),
			Policy:        policy,
		}
	}
	return r, nil
}

// Bind returns a registry whose policies run on exec, typically an open
// transaction.
func (r *Registry) Bind(exec db.Executor) *Registry {
	bound := &Registry{entries: make(map[account.Type]Entry, len(r.entries))}
	for t, e := range r.entries {
		e.Policy = e.Policy.Bind(exec)
		bound.entries[t] = e
	}
	return bound
}

// Lookup returns the entry for t.
func (r *Registry) Lookup(t account.Type) (Entry, error) {
	e, ok := r.entries[t]
	if !ok {
		return Entry{}, fmt.Errorf("no model found for account type %s", t)
	}
	return e, nil
}

// Policy returns the policy for t.
func (r *Registry) Policy(t account.Type) (account.Policy, error) {
	e, err := r.Lookup(t)
	if err != nil {
		return nil, err
	}
	return e.Policy, nil
}

// Source returns the balance policy for t if money may be taken from it.
func (r *Registry) Source(t account.Type) (account.BalancePolicy, error) {
	e, err := r.Lookup(t)
	if err != nil {
		return nil, err
	}
	if !e.IsSource {
		return nil, fmt.Errorf("unsupported source account type: %s", t)
	}
	return balancePolicy(e)
}

// Destination returns the balance policy for t if money may be paid into it.
func (r *Registry) Destination(t account.Type) (account.BalancePolicy, error) {
	e, err := r.Lookup(t)
	if err != nil {
		return nil, err
	}
	if !e.IsDestination {
		return nil, fmt.Errorf("unsupported destination account type: %s", t)
	}
	return balancePolicy(e)
}

func balancePolicy(e Entry) (account.BalancePolicy, error) {
	bp, ok := e.Policy.(account.BalancePolicy)
	if !ok {
		return nil, fmt.Errorf("%s accounts do not hold a balance", e.Type)
	}
	return bp, nil
}

// Types returns every registered type in display order.
func (r *Registry) Types() []account.Type {
	return r.filter(func(Entry) bool { return true })
}

// SourceTypes returns the types money may be taken from.
func (r *Registry) SourceTypes() []account.Type {
	return r.filter(func(e Entry) bool { return e.IsSource })
}

// DestinationTypes returns the types money may be paid into.
func (r *Registry) DestinationTypes() []account.Type {
	return r.filter(func(e Entry) bool { return e.IsDestination })
}

// PayOnlyTypes returns the types that only record a monthly charge.
func (r *Registry) PayOnlyTypes() []account.Type {
	return r.filter(func(e Entry) bool { return e.PayOnly })
}

func (r *Registry) filter(keep func(Entry) bool) []account.Type {
	var out []account.Type
	for _, t := range account.Types() {
		if e, ok := r.entries[t]; ok && keep(e) {
			out = append(out, t)
		}
	}
	return out
}
