// Package account implements the per-type account policies: how each kind
// of account is opened, closed, updated, and how money moves in and out of
// it under that kind's sign convention and limits.
package account

import (
	"fmt"
	"strings"

	"github.com/shunichi-ikebuchi/financli/pkg/db"
)

// Type identifies an account kind. The zero value is not a valid type.
type Type int

const (
	TypeBank Type = iota + 1
	TypeCreditCard
	TypeStoreCard
	TypeLoan
	TypeBill
	TypeSubscription
)

type typeInfo struct {
	name    string
	table   string
	debt    bool
	payOnly bool
	alias   bool
	limiter bool
	monthly bool
}

var types = map[Type]typeInfo{
	TypeBank:         {name: "bank", table: db.TableBanks, alias: true, limiter: true},
	TypeCreditCard:   {name: "credit card", table: db.TableCreditCards, debt: true, limiter: true},
	TypeStoreCard:    {name: "store card", table: db.TableStoreCards, debt: true, limiter: true},
	TypeLoan:         {name: "loan", table: db.TableLoans, debt: true, monthly: true},
	TypeBill:         {name: "bill", table: db.TableBills, payOnly: true, monthly: true},
	TypeSubscription: {name: "subscription", table: db.TableSubscriptions, payOnly: true, monthly: true},
}

// Types returns every account type in display order.
func Types() []Type {
	return []Type{TypeBank, TypeCreditCard, TypeStoreCard, TypeLoan, TypeBill, TypeSubscription}
}

func (t Type) String() string {
	if info, ok := types[t]; ok {
		return info.name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Table returns the storage table holding accounts of this type.
func (t Type) Table() string {
	return types[t].table
}

// Valid reports whether t is one of the declared types.
func (t Type) Valid() bool {
	_, ok := types[t]
	return ok
}

// IsDebt reports whether balances of this type are stored as amounts owed
// (zero or negative).
func (t Type) IsDebt() bool { return types[t].debt }

// IsPayOnly reports whether the type tracks a monthly charge instead of a
// balance.
func (t Type) IsPayOnly() bool { return types[t].payOnly }

// HasBalance reports whether the type carries a balance column.
func (t Type) HasBalance() bool { return t.Valid() && !types[t].payOnly }

// HasAlias reports whether the type carries an alias column.
func (t Type) HasAlias() bool { return types[t].alias }

// HasLimiter reports whether the type carries a limiter column.
func (t Type) HasLimiter() bool { return types[t].limiter }

// HasMonthlyCharge reports whether the type carries a monthly_charge column.
func (t Type) HasMonthlyCharge() bool { return types[t].monthly }

// MarshalText encodes the type by its display name.
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid account type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText accepts anything ParseType accepts.
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseType resolves a display name ("credit card"), a table name
// ("credit_cards") or a snake/kebab-case name ("credit_card") to a Type.
func ParseType(s string) (Type, error) {
	key := normalize(s)
	for _, t := range Types() {
		if key == t.String() || key == normalize(t.Table()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown account type: %q", s)
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
