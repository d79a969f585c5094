package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/financli/pkg/account"
)

// Kind is the kind of money movement a request asks for.
type Kind string

const (
	KindWithdraw Kind = "withdraw"
	KindDeposit  Kind = "deposit"
	KindPayOnly  Kind = "pay_only"
	KindTransfer Kind = "transfer"
)

// Kinds returns every request kind.
func Kinds() []Kind {
	return []Kind{KindWithdraw, KindDeposit, KindPayOnly, KindTransfer}
}

// ParseKind accepts a kind name in snake or kebab case.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !k.Valid() {
		return "", invalid("unknown transaction kind %q", s)
	}
	return k, nil
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindWithdraw, KindDeposit, KindPayOnly, KindTransfer:
		return true
	}
	return false
}

// Label is the human form used in messages.
func (k Kind) Label() string {
	switch k {
	case KindWithdraw:
		return "withdrawal"
	case KindPayOnly:
		return "payment"
	case "":
		return "transaction"
	}
	return string(k)
}

// hasSource reports whether money leaves a source account.
func (k Kind) hasSource() bool {
	return k == KindWithdraw || k == KindPayOnly || k == KindTransfer
}

// hasDestination reports whether money enters a destination account.
func (k Kind) hasDestination() bool {
	return k == KindDeposit || k == KindTransfer
}

// Request describes one money movement.
type Request struct {
	Kind            Kind
	SourceType      account.Type
	SourceID        int64
	DestinationType account.Type
	DestinationID   int64
	Amount          decimal.Decimal
	Description     string
	Vendor          string
	Item            string
	Category        string
	Notes           string
	// Timestamp defaults to the current time when zero.
	Timestamp time.Time
}

// WithKind returns r switched to kind k, dropping any account k does not
// take. A pay-only request keeps a bill or subscription destination.
func (r Request) WithKind(k Kind) Request {
	r.Kind = k
	if !k.hasSource() {
		r.SourceType, r.SourceID = 0, 0
	}
	switch {
	case k.hasDestination():
	case k == KindPayOnly && r.DestinationType.IsPayOnly():
	default:
		r.DestinationType, r.DestinationID = 0, 0
	}
	return r
}

// validate checks the request shape without touching storage.
func (r Request) validate() error {
	if !r.Kind.Valid() {
		return invalid("unknown transaction kind %q", r.Kind)
	}
	if err := account.ValidateAmount(r.Amount); err != nil {
		return err
	}

	if r.Kind.hasSource() {
		if !r.SourceType.Valid() || r.SourceID <= 0 {
			return invalid("a %s needs a source account", r.Kind.Label())
		}
		if r.SourceType.IsPayOnly() {
			return fmt.Errorf("%w: cannot withdraw from %s", ErrPayOnly, r.SourceType)
		}
	} else if r.SourceType != 0 || r.SourceID != 0 {
		return invalid("a %s takes no source account", r.Kind.Label())
	}

	switch {
	case r.Kind.hasDestination():
		if !r.DestinationType.Valid() || r.DestinationID <= 0 {
			return invalid("a %s needs a destination account", r.Kind.Label())
		}
		if r.DestinationType.IsPayOnly() {
			return fmt.Errorf("%w: cannot deposit into %s", ErrPayOnly, r.DestinationType)
		}
	case r.Kind == KindPayOnly:
		if r.DestinationType != 0 && (!r.DestinationType.IsPayOnly() || r.DestinationID <= 0) {
			return invalid("a payment can only be recorded against a bill or subscription")
		}
	default:
		if r.DestinationType != 0 || r.DestinationID != 0 {
			return invalid("a %s takes no destination account", r.Kind.Label())
		}
	}

	if r.Kind == KindTransfer && r.SourceType == r.DestinationType && r.SourceID == r.DestinationID {
		return invalid("source and destination are the same account")
	}
	return nil
}
