// Package display renders accounts and transaction entries as aligned
// terminal tables.
package display

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/shunichi-ikebuchi/financli/pkg/account"
	"github.com/shunichi-ikebuchi/financli/pkg/ledger"
	"github.com/shunichi-ikebuchi/financli/pkg/record"
)

// currencyColumns are rendered with the currency symbol.
var currencyColumns = map[string]bool{
	"balance":        true,
	"limiter":        true,
	"amount":         true,
	"monthly_charge": true,
	"balance_after":  true,
}

// EntryColumns is the column set shown for transaction history.
var EntryColumns = []string{
	"id", "timestamp", "type", "source_type", "source_id", "destination_type",
	"destination_id", "amount", "vendor", "category", "balance_after", "status",
}

// Printer writes tables and status lines to one writer.
type Printer struct {
	w       io.Writer
	opts    account.Options
	header  *color.Color
	success *color.Color
	warning *color.Color
	failure *color.Color
}

// New creates a Printer. Colour is off when stdout is not a terminal or
// NO_COLOR is set.
func New(w io.Writer, opts account.Options) *Printer {
	return &Printer{
		w:       w,
		opts:    opts,
		header:  color.New(color.Bold),
		success: color.New(color.FgGreen),
		warning: color.New(color.FgYellow),
		failure: color.New(color.FgRed),
	}
}

// Money formats an amount with the configured currency symbol.
func (p *Printer) Money(d decimal.Decimal) string {
	return p.opts.Money(d)
}

// Table prints rows under a header of column names. Currency columns use
// the configured symbol; NULL prints as an empty cell.
func (p *Printer) Table(name string, columns []string, rows []record.Row) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintf(p.w, "No %s records found.\n", name)
		return err
	}

	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(columns, "\t"))
	rule := make([]string, len(columns))
	for i, col := range columns {
		rule[i] = strings.Repeat("-", len(col))
	}
	fmt.Fprintln(tw, strings.Join(rule, "\t"))
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = p.cell(col, row[col])
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to format table: %w", err)
	}

	scanner := bufio.NewScanner(&buf)
	for first := true; scanner.Scan(); first = false {
		line := strings.TrimRight(scanner.Text(), " ")
		var err error
		if first {
			_, err = p.header.Fprintln(p.w, line)
		} else {
			_, err = fmt.Fprintln(p.w, line)
		}
		if err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (p *Printer) cell(column string, v any) string {
	if v == nil {
		return ""
	}
	if currencyColumns[column] {
		if d, err := account.ToDecimal(v); err == nil {
			return p.opts.Money(d)
		}
	}
	return cast.ToString(v)
}

// Accounts prints the stored rows of one account type.
func (p *Printer) Accounts(t account.Type, columns []string, rows []record.Row) error {
	return p.Table(t.String()+" account", columns, rows)
}

// Entries prints transaction entries using EntryColumns.
func (p *Printer) Entries(entries []*ledger.Entry) error {
	rows := make([]record.Row, len(entries))
	for i, e := range entries {
		rows[i] = e.Row()
	}
	return p.Table("transaction", EntryColumns, rows)
}

// Entry prints one entry as a column of name: value lines.
func (p *Printer) Entry(e *ledger.Entry) error {
	row := e.Row()
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	for _, col := range append([]string{record.PrimaryKey, "reference"}, EntryColumns[1:]...) {
		fmt.Fprintf(tw, "%s:\t%s\n", col, p.cell(col, row[col]))
	}
	for _, col := range []string{"source_provider", "destination_provider", "description", "item", "notes"} {
		if row[col] != nil {
			fmt.Fprintf(tw, "%s:\t%s\n", col, p.cell(col, row[col]))
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to format entry: %w", err)
	}
	_, err := p.w.Write(buf.Bytes())
	return err
}

// Success prints a green status line.
func (p *Printer) Success(format string, args ...any) {
	p.success.Fprintf(p.w, format+"\n", args...)
}

// Warn prints a yellow status line.
func (p *Printer) Warn(format string, args ...any) {
	p.warning.Fprintf(p.w, format+"\n", args...)
}

// Fail prints a red status line.
func (p *Printer) Fail(format string, args ...any) {
	p.failure.Fprintf(p.w, format+"\n", args...)
}
