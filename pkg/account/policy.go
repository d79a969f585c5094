package account

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/financli/pkg/db"
	"github.com/shunichi-ikebuchi/financli/pkg/record"
)

// Policy is implemented by every account type.
type Policy interface {
	Type() Type
	Open(req OpenRequest) (int64, error)
	Close(id int64) error
	Update(id int64, req UpdateRequest) error
	Get(id int64) (*Account, error)
	List() ([]*Account, error)
	// Rows returns the stored rows unconverted, in table column order.
	Rows() ([]record.Row, error)
	Columns() []string
	// Bind returns a policy of the same type whose statements run on exec.
	Bind(exec db.Executor) Policy
}

// BalancePolicy is implemented by types that hold a balance money can move
// through.
type BalancePolicy interface {
	Policy
	Deposit(id int64, amount decimal.Decimal) error
	Withdraw(id int64, amount decimal.Decimal) error
}

// New returns the policy for t, reading its table metadata through exec.
func New(exec db.Executor, t Type, opts Options) (Policy, error) {
	var (
		p   Policy
		err error
	)
	switch t {
	case TypeBank:
		p, err = NewBank(exec, opts)
	case TypeCreditCard, TypeStoreCard:
		p, err = newCard(exec, t, opts)
	case TypeLoan:
		p, err = NewLoan(exec, opts)
	case TypeBill, TypeSubscription:
		p, err = newPayable(exec, t, opts)
	default:
		return nil, fmt.Errorf("no policy for account type %s", t)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

var (
	_ BalancePolicy = (*Bank)(nil)
	_ BalancePolicy = (*Card)(nil)
	_ BalancePolicy = (*Loan)(nil)
	_ Policy        = (*Payable)(nil)
)

// base holds the behaviour shared by all policies.
type base struct {
	typ   Type
	store *record.Store
	opts  Options
}

func newBase(exec db.Executor, t Type, opts Options) (base, error) {
	store, err := record.New(exec, t.Table())
	if err != nil {
		return base{}, fmt.Errorf("failed to load %s table: %w", t.Table(), err)
	}
	return base{typ: t, store: store, opts: opts.withDefaults()}, nil
}

func (b base) bound(exec db.Executor) base {
	b.store = b.store.WithExecutor(exec)
	return b
}

func (b base) fail(op Op, err error) error {
	return &Error{Type: b.typ, Op: op, Err: err}
}

// Type returns the account type the policy governs.
func (b base) Type() Type {
	return b.typ
}

// Open validates req and stores a new account, returning its id.
func (b base) Open(req OpenRequest) (int64, error) {
	if req.Type != 0 && req.Type != b.typ {
		return 0, b.fail(OpOpen, fmt.Errorf("%w: request is for %s", ErrTypeMismatch, req.Type))
	}

	if err := checkAmounts(req.Balance, req.Limiter, req.MonthlyCharge); err != nil {
		return 0, b.fail(OpOpen, err)
	}

	data := record.Row{"provider": nil}
	if p := strings.TrimSpace(req.Provider); p != "" {
		data["provider"] = p
	}
	if b.typ.HasAlias() && req.Alias != nil {
		data["alias"] = *req.Alias
	}
	if b.typ.HasBalance() {
		data["balance"] = b.amount(req.Balance)
	}
	if b.typ.HasLimiter() {
		data["limiter"] = b.amount(req.Limiter)
	}
	if b.typ.HasMonthlyCharge() && req.MonthlyCharge != nil {
		data["monthly_charge"] = Round(*req.MonthlyCharge)
	}

	id, err := b.store.Create(data)
	if err != nil {
		return 0, b.fail(OpOpen, err)
	}

	slog.Debug("Opened account", "type", b.typ, "id", id)
	return id, nil
}

func checkAmounts(amounts ...*decimal.Decimal) error {
	for _, d := range amounts {
		if d == nil {
			continue
		}
		if err := checkRange(*d); err != nil {
			return err
		}
	}
	return nil
}

// amount converts an optional user amount to its stored form, or nil.
func (b base) amount(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return storedAmount(b.typ, *d)
}

// Close deletes the account. Balance-bearing accounts must be at zero.
func (b base) Close(id int64) error {
	acct, err := b.get(id)
	if err != nil {
		return b.fail(OpClose, err)
	}

	if b.typ.HasBalance() && !acct.Balance.IsZero() {
		return b.fail(OpClose, reason(ErrHasBalance,
			"account has a balance of %s; balance must be zero to close", b.opts.Money(acct.Balance)))
	}

	if err := b.store.Delete(id); err != nil {
		return b.fail(OpClose, err)
	}

	slog.Debug("Closed account", "type", b.typ, "id", id)
	return nil
}

// Update applies a sparse patch. Fields the type does not carry are
// ignored; amounts follow the same sign convention as Open.
func (b base) Update(id int64, req UpdateRequest) error {
	if err := checkAmounts(req.Balance, req.Limiter, req.MonthlyCharge); err != nil {
		return b.fail(OpUpdate, err)
	}

	data := record.Row{}
	if req.Provider != nil {
		if p := strings.TrimSpace(*req.Provider); p != "" {
			data["provider"] = p
		}
	}
	if b.typ.HasAlias() && req.Alias != nil {
		data["alias"] = *req.Alias
	}
	if b.typ.HasBalance() && req.Balance != nil {
		data["balance"] = b.amount(req.Balance)
	}
	if b.typ.HasLimiter() && req.Limiter != nil {
		data["limiter"] = b.amount(req.Limiter)
	}
	if b.typ.HasMonthlyCharge() && req.MonthlyCharge != nil {
		data["monthly_charge"] = Round(*req.MonthlyCharge)
	}

	if err := b.store.Update(id, data); err != nil {
		return b.fail(OpUpdate, err)
	}

	slog.Debug("Updated account", "type", b.typ, "id", id)
	return nil
}

// Get returns one account.
func (b base) Get(id int64) (*Account, error) {
	acct, err := b.get(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s account %d: %w", b.typ, id, err)
	}
	return acct, nil
}

func (b base) get(id int64) (*Account, error) {
	row, err := b.store.GetOne(id)
	if err != nil {
		return nil, err
	}
	return fromRow(b.typ, row)
}

// List returns every account of the type, empty when there are none.
func (b base) List() ([]*Account, error) {
	rows, err := b.store.GetMany()
	if err != nil {
		return nil, fmt.Errorf("failed to list %s accounts: %w", b.typ, err)
	}

	accounts := make([]*Account, 0, len(rows))
	for _, row := range rows {
		acct, err := fromRow(b.typ, row)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s account: %w", b.typ, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// Rows returns the stored rows as read from the table.
func (b base) Rows() ([]record.Row, error) {
	return b.store.GetMany()
}

// Columns returns the table's column names.
func (b base) Columns() []string {
	return b.store.Columns()
}

// movement loads the account for a deposit or withdrawal after checking
// the amount.
func (b base) movement(op Op, id int64, amount decimal.Decimal) (*Account, decimal.Decimal, error) {
	if err := ValidateAmount(amount); err != nil {
		return nil, amount, b.fail(op, err)
	}
	amount = Round(amount)
	acct, err := b.get(id)
	if err != nil {
		return nil, amount, b.fail(op, err)
	}
	return acct, amount, nil
}

func (b base) setBalance(op Op, id int64, balance decimal.Decimal) error {
	if err := checkRange(balance); err != nil {
		return b.fail(op, err)
	}
	if err := b.store.Update(id, record.Row{"balance": Round(balance)}); err != nil {
		return b.fail(op, fmt.Errorf("failed to update balance: %w", err))
	}
	slog.Debug("Updated balance", "type", b.typ, "id", id, "op", op, "balance", Round(balance).StringFixed(2))
	return nil
}

// deposit adds amount, refusing to take a debt above zero.
func (b base) deposit(id int64, amount decimal.Decimal, overpaid func(owed decimal.Decimal) error) error {
	acct, amount, err := b.movement(OpDeposit, id, amount)
	if err != nil {
		return err
	}

	next := acct.Balance.Add(amount)
	if b.typ.IsDebt() && next.IsPositive() {
		return b.fail(OpDeposit, overpaid(acct.Balance.Neg()))
	}
	return b.setBalance(OpDeposit, id, next)
}
