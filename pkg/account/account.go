package account

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/financli/pkg/record"
)

// DefaultCurrencySymbol is used when Options leaves the symbol empty.
const DefaultCurrencySymbol = "£"

// Options configures the policies. It is passed in at construction so the
// policies never read global settings.
type Options struct {
	CurrencySymbol string
}

func (o Options) withDefaults() Options {
	if o.CurrencySymbol == "" {
		o.CurrencySymbol = DefaultCurrencySymbol
	}
	return o
}

// Money formats an amount with the configured symbol and two decimals.
func (o Options) Money(d decimal.Decimal) string {
	return o.withDefaults().CurrencySymbol + d.StringFixed(2)
}

// Account is one stored account. Fields a type does not carry are zero.
type Account struct {
	ID            int64
	Type          Type
	Provider      string
	Alias         *string
	Balance       decimal.Decimal
	Limiter       decimal.Decimal
	MonthlyCharge decimal.Decimal
}

// OpenRequest describes a new account. Balance and Limiter are given as
// positive amounts for debt types; the policy stores them negated.
type OpenRequest struct {
	Type          Type
	Provider      string
	Alias         *string
	Balance       *decimal.Decimal
	Limiter       *decimal.Decimal
	MonthlyCharge *decimal.Decimal
}

// UpdateRequest is a sparse patch. Nil fields keep the stored value.
type UpdateRequest struct {
	Provider      *string
	Alias         *string
	Balance       *decimal.Decimal
	Limiter       *decimal.Decimal
	MonthlyCharge *decimal.Decimal
}

// MaxAmount bounds the magnitude of every amount the policies store.
var MaxAmount = decimal.New(1, 15)

// ValidateAmount checks a movement amount: positive at cent precision and
// no larger than MaxAmount.
func ValidateAmount(d decimal.Decimal) error {
	if !Round(d).IsPositive() {
		return fmt.Errorf("%w: must be greater than zero", ErrInvalidAmount)
	}
	return checkRange(d)
}

func checkRange(d decimal.Decimal) error {
	if d.Abs().GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: amounts are limited to %s", ErrInvalidAmount, MaxAmount)
	}
	return nil
}

// Round rounds an amount to cents.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ToDecimal converts a value read from storage to a rounded decimal.
// NULL converts to zero.
func ToDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case nil:
		return decimal.Zero, nil
	case float64:
		if math.IsInf(n, 0) || math.IsNaN(n) {
			return decimal.Zero, fmt.Errorf("invalid stored amount %v", n)
		}
		return Round(decimal.NewFromFloat(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case string:
		d, err := decimal.NewFromString(n)
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to parse amount %q: %w", n, err)
		}
		return Round(d), nil
	case decimal.Decimal:
		return Round(n), nil
	default:
		return decimal.Zero, fmt.Errorf("unsupported amount type %T", v)
	}
}

func fromRow(t Type, row record.Row) (*Account, error) {
	acct := &Account{Type: t}

	id, ok := row[record.PrimaryKey].(int64)
	if !ok {
		return nil, fmt.Errorf("unexpected id value %v", row[record.PrimaryKey])
	}
	acct.ID = id

	if provider, ok := row["provider"].(string); ok {
		acct.Provider = provider
	}
	if alias, ok := row["alias"].(string); ok {
		acct.Alias = &alias
	}

	var err error
	if acct.Balance, err = ToDecimal(row["balance"]); err != nil {
		return nil, err
	}
	if acct.Limiter, err = ToDecimal(row["limiter"]); err != nil {
		return nil, err
	}
	if acct.MonthlyCharge, err = ToDecimal(row["monthly_charge"]); err != nil {
		return nil, err
	}
	return acct, nil
}

// storedAmount converts a user-facing amount to the stored convention.
func storedAmount(t Type, d decimal.Decimal) decimal.Decimal {
	d = Round(d)
	if t.IsDebt() {
		return d.Abs().Neg()
	}
	return d
}
