// Package ledger moves money between accounts and keeps the transaction
// log. Every movement, amendment and void runs in one database
// transaction together with its log write, so a failure at any step leaves
// balances and log untouched.
package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/financli/pkg/account"
	"github.com/shunichi-ikebuchi/financli/pkg/db"
	"github.com/shunichi-ikebuchi/financli/pkg/record"
	"github.com/shunichi-ikebuchi/financli/pkg/registry"
)

// Ledger executes money movements and records them.
type Ledger struct {
	conn     *db.Connection
	registry *registry.Registry
	entries  *record.Store
	now      func() time.Time
}

// New returns a ledger over conn using the policies in reg.
func New(conn *db.Connection, reg *registry.Registry) (*Ledger, error) {
	entries, err := record.New(conn, db.TableTransactions)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction log: %w", err)
	}
	return &Ledger{
		conn:     conn,
		registry: reg,
		entries:  entries,
		now:      time.Now,
	}, nil
}

// Execute applies req and logs it. It returns the logged entry.
func (l *Ledger) Execute(req Request) (*Entry, error) {
	if err := req.validate(); err != nil {
		return nil, &TransactionError{Op: OpExecute, Kind: req.Kind, Err: err}
	}

	var entry *Entry
	err := l.conn.Transaction(func(tx *sql.Tx) error {
		var err error
		entry, err = l.apply(l.registry.Bind(tx), req)
		if err != nil {
			return err
		}
		entry.ID, err = l.entries.WithExecutor(tx).Create(entry.row())
		return err
	})
	if err != nil {
		return nil, &TransactionError{Op: OpExecute, Kind: req.Kind, Err: err}
	}

	slog.Debug("Executed transaction",
		"reference", entry.Reference,
		"kind", entry.Kind,
		"amount", entry.Amount.StringFixed(2))
	return entry, nil
}

// apply resolves both sides before moving anything, then withdraws from
// the source and deposits into the destination.
func (l *Ledger) apply(reg *registry.Registry, req Request) (*Entry, error) {
	amount := account.Round(req.Amount)

	var source, destination account.BalancePolicy
	var err error
	if req.Kind.hasSource() {
		if source, err = reg.Source(req.SourceType); err != nil {
			return nil, err
		}
	}
	if req.Kind.hasDestination() {
		if destination, err = reg.Destination(req.DestinationType); err != nil {
			return nil, err
		}
	}

	ts := req.Timestamp
	if ts.IsZero() {
		ts = l.now()
	}
	entry := &Entry{
		Reference:   uuid.NewString(),
		Kind:        entryKind(req),
		Amount:      amount,
		Description: req.Description,
		Timestamp:   ts,
		Vendor:      req.Vendor,
		Item:        req.Item,
		Category:    req.Category,
		Notes:       req.Notes,
		Status:      StatusCompleted,
	}

	if source != nil {
		if err := source.Withdraw(req.SourceID, amount); err != nil {
			return nil, err
		}
		acct, err := source.Get(req.SourceID)
		if err != nil {
			return nil, err
		}
		entry.SourceType, entry.SourceID, entry.SourceProvider = req.SourceType, req.SourceID, acct.Provider
		entry.BalanceAfter = decimal.NewNullDecimal(acct.Balance)
	}

	if destination != nil {
		if err := destination.Deposit(req.DestinationID, amount); err != nil {
			return nil, err
		}
		acct, err := destination.Get(req.DestinationID)
		if err != nil {
			return nil, err
		}
		entry.DestinationType, entry.DestinationID, entry.DestinationProvider = req.DestinationType, req.DestinationID, acct.Provider
		if source == nil {
			entry.BalanceAfter = decimal.NewNullDecimal(acct.Balance)
		}
	}

	// A payment may name the bill it settles. The bill is recorded, never
	// changed.
	if req.Kind == KindPayOnly && req.DestinationType != 0 {
		payee, err := reg.Policy(req.DestinationType)
		if err != nil {
			return nil, err
		}
		acct, err := payee.Get(req.DestinationID)
		if err != nil {
			return nil, err
		}
		entry.DestinationType, entry.DestinationID, entry.DestinationProvider = req.DestinationType, req.DestinationID, acct.Provider
	}

	return entry, nil
}

// repaymentReverser is implemented by destinations that cannot be withdrawn
// from but can have a repayment undone.
type repaymentReverser interface {
	ReverseRepayment(id int64, amount decimal.Decimal) error
}

// reverse undoes the balance changes recorded by e, destination first.
func (l *Ledger) reverse(reg *registry.Registry, e *Entry) error {
	req := e.Request()

	if req.Kind.hasDestination() {
		destination, err := reg.Destination(e.DestinationType)
		if err != nil {
			return err
		}
		if r, ok := destination.(repaymentReverser); ok {
			err = r.ReverseRepayment(e.DestinationID, e.Amount)
		} else {
			err = destination.Withdraw(e.DestinationID, e.Amount)
		}
		if err != nil {
			return fmt.Errorf("failed to reverse deposit: %w", err)
		}
	}

	if req.Kind.hasSource() {
		source, err := reg.Source(e.SourceType)
		if err != nil {
			return err
		}
		if err := source.Deposit(e.SourceID, e.Amount); err != nil {
			return fmt.Errorf("failed to reverse withdrawal: %w", err)
		}
	}
	return nil
}

// Amend replaces entry id with req: the old movement is reversed, the new
// one applied and the row rewritten under the same reference.
func (l *Ledger) Amend(id int64, req Request) (*Entry, error) {
	fail := func(err error) error {
		return &TransactionError{Op: OpAmend, Kind: req.Kind, ID: id, Err: err}
	}
	if err := req.validate(); err != nil {
		return nil, fail(err)
	}

	var amended *Entry
	err := l.conn.Transaction(func(tx *sql.Tx) error {
		reg, entries := l.registry.Bind(tx), l.entries.WithExecutor(tx)

		current, err := l.load(entries, id)
		if err != nil {
			return err
		}
		if current.Status == StatusReversed {
			return ErrAlreadyReversed
		}
		if err := l.reverse(reg, current); err != nil {
			return err
		}

		amended, err = l.apply(reg, req)
		if err != nil {
			return err
		}
		amended.ID, amended.Reference = current.ID, current.Reference
		return entries.Replace(id, amended.row())
	})
	if err != nil {
		return nil, fail(err)
	}

	slog.Debug("Amended transaction", "id", id, "reference", amended.Reference)
	return amended, nil
}

// Void reverses entry id and marks it reversed. The row is kept.
func (l *Ledger) Void(id int64) error {
	err := l.conn.Transaction(func(tx *sql.Tx) error {
		reg, entries := l.registry.Bind(tx), l.entries.WithExecutor(tx)

		current, err := l.load(entries, id)
		if err != nil {
			return err
		}
		if current.Status == StatusReversed {
			return ErrAlreadyReversed
		}
		if err := l.reverse(reg, current); err != nil {
			return err
		}
		return entries.Update(id, record.Row{"status": string(StatusReversed)})
	})
	if err != nil {
		return &TransactionError{Op: OpVoid, ID: id, Err: err}
	}

	slog.Debug("Voided transaction", "id", id)
	return nil
}

// Log records e without moving any money. Missing reference, status and
// timestamp are filled in.
func (l *Ledger) Log(e *Entry) (int64, error) {
	if e.Reference == "" {
		e.Reference = uuid.NewString()
	}
	if e.Status == "" {
		e.Status = StatusCompleted
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = l.now()
	}

	id, err := l.entries.Create(e.row())
	if err != nil {
		return 0, fmt.Errorf("failed to log transaction: %w", err)
	}
	e.ID = id
	return id, nil
}

// Entry returns the logged entry with the given id.
func (l *Ledger) Entry(id int64) (*Entry, error) {
	e, err := l.load(l.entries, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction %d: %w", id, err)
	}
	return e, nil
}

// History returns every logged entry in the order they were written.
func (l *Ledger) History() ([]*Entry, error) {
	rows, err := l.entries.GetMany()
	if err != nil {
		return nil, fmt.Errorf("failed to read transaction log: %w", err)
	}

	entries := make([]*Entry, 0, len(rows))
	for _, row := range rows {
		e, err := entryFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("failed to read transaction: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// HistoryFor returns the entries that reference one account.
func (l *Ledger) HistoryFor(t account.Type, id int64) ([]*Entry, error) {
	all, err := l.History()
	if err != nil {
		return nil, err
	}
	var out []*Entry
	for _, e := range all {
		if e.Involves(t, id) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Columns returns the transaction log's column names.
func (l *Ledger) Columns() []string {
	return l.entries.Columns()
}

// Rows returns the stored transaction log rows.
func (l *Ledger) Rows() ([]record.Row, error) {
	return l.entries.GetMany()
}

func (l *Ledger) load(entries *record.Store, id int64) (*Entry, error) {
	row, err := entries.GetOne(id)
	if err != nil {
		if errors.Is(err, record.ErrRecordNotFound) {
			return nil, fmt.Errorf("transaction %d not found: %w", id, err)
		}
		return nil, err
	}
	return entryFromRow(row)
}
