package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/financli/pkg/account"
	"github.com/shunichi-ikebuchi/financli/pkg/record"
)

// EntryKind classifies a logged movement.
type EntryKind string

const (
	EntryWithdrawal EntryKind = "withdrawal"
	EntryDeposit    EntryKind = "deposit"
	EntryTransfer   EntryKind = "transfer"
	EntryPayment    EntryKind = "payment"
	EntrySpend      EntryKind = "spend"
)

// Status is the state of a logged entry.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusReversed  Status = "reversed"
)

// TimestampLayout is how entry timestamps are stored.
const TimestampLayout = time.RFC3339

// Entry is one row of the transaction log.
type Entry struct {
	ID                  int64
	Reference           string
	Kind                EntryKind
	SourceType          account.Type
	SourceID            int64
	SourceProvider      string
	DestinationType     account.Type
	DestinationID       int64
	DestinationProvider string
	Amount              decimal.Decimal
	Description         string
	Timestamp           time.Time
	Vendor              string
	Item                string
	Category            string
	Notes               string
	BalanceAfter        decimal.NullDecimal
	Status              Status
}

func entryKind(req Request) EntryKind {
	switch req.Kind {
	case KindDeposit:
		return EntryDeposit
	case KindTransfer:
		return EntryTransfer
	case KindPayOnly:
		return EntryPayment
	}
	if req.Vendor != "" {
		return EntrySpend
	}
	return EntryWithdrawal
}

// RequestKind returns the request kind that produces entries of this kind.
func (k EntryKind) RequestKind() Kind {
	switch k {
	case EntryDeposit:
		return KindDeposit
	case EntryTransfer:
		return KindTransfer
	case EntryPayment:
		return KindPayOnly
	}
	return KindWithdraw
}

// Request rebuilds the request that produced the entry. Amend starts from
// it and overrides the changed fields.
func (e *Entry) Request() Request {
	return Request{
		Kind:            e.Kind.RequestKind(),
		SourceType:      e.SourceType,
		SourceID:        e.SourceID,
		DestinationType: e.DestinationType,
		DestinationID:   e.DestinationID,
		Amount:          e.Amount,
		Description:     e.Description,
		Vendor:          e.Vendor,
		Item:            e.Item,
		Category:        e.Category,
		Notes:           e.Notes,
		Timestamp:       e.Timestamp,
	}
}

// Involves reports whether the entry references the given account.
func (e *Entry) Involves(t account.Type, id int64) bool {
	return (e.SourceType == t && e.SourceID == id) || (e.DestinationType == t && e.DestinationID == id)
}

// Row returns the entry in storage form, id included.
func (e *Entry) Row() record.Row {
	row := e.row()
	row[record.PrimaryKey] = e.ID
	return row
}

func (e *Entry) row() record.Row {
	row := record.Row{
		"reference":            e.Reference,
		"type":                 string(e.Kind),
		"source_type":          typeValue(e.SourceType),
		"source_id":            idValue(e.SourceID),
		"source_provider":      text(e.SourceProvider),
		"destination_type":     typeValue(e.DestinationType),
		"destination_id":       idValue(e.DestinationID),
		"destination_provider": text(e.DestinationProvider),
		"amount":               account.Round(e.Amount),
		"description":          text(e.Description),
		"timestamp":            e.Timestamp.UTC().Format(TimestampLayout),
		"vendor":               text(e.Vendor),
		"item":                 text(e.Item),
		"category":             text(e.Category),
		"notes":                text(e.Notes),
		"balance_after":        nil,
		"status":               string(e.Status),
	}
	if e.BalanceAfter.Valid {
		row["balance_after"] = account.Round(e.BalanceAfter.Decimal)
	}
	return row
}

func typeValue(t account.Type) any {
	if t == 0 {
		return nil
	}
	return t.String()
}

func idValue(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

func text(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func entryFromRow(row record.Row) (*Entry, error) {
	e := &Entry{
		Reference:           str(row["reference"]),
		Kind:                EntryKind(str(row["type"])),
		SourceProvider:      str(row["source_provider"]),
		DestinationProvider: str(row["destination_provider"]),
		Description:         str(row["description"]),
		Vendor:              str(row["vendor"]),
		Item:                str(row["item"]),
		Category:            str(row["category"]),
		Notes:               str(row["notes"]),
		Status:              Status(str(row["status"])),
	}

	var ok bool
	if e.ID, ok = row[record.PrimaryKey].(int64); !ok {
		return nil, fmt.Errorf("unexpected id value %v", row[record.PrimaryKey])
	}
	e.SourceID, _ = row["source_id"].(int64)
	e.DestinationID, _ = row["destination_id"].(int64)

	var err error
	if e.SourceType, err = typeFromValue(row["source_type"]); err != nil {
		return nil, err
	}
	if e.DestinationType, err = typeFromValue(row["destination_type"]); err != nil {
		return nil, err
	}
	if e.Amount, err = account.ToDecimal(row["amount"]); err != nil {
		return nil, err
	}
	if row["balance_after"] != nil {
		balance, err := account.ToDecimal(row["balance_after"])
		if err != nil {
			return nil, err
		}
		e.BalanceAfter = decimal.NewNullDecimal(balance)
	}

	ts := str(row["timestamp"])
	if e.Timestamp, err = time.Parse(TimestampLayout, ts); err != nil {
		return nil, fmt.Errorf("failed to parse timestamp %q: %w", ts, err)
	}
	return e, nil
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func typeFromValue(v any) (account.Type, error) {
	s, ok := v.(string)
	if !ok || s == "" {
		return 0, nil
	}
	return account.ParseType(s)
}
