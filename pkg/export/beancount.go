package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/financli/pkg/ledger"
)

// Transaction is a Beancount transaction.
type Transaction struct {
	Date      string
	Narration string
	Payee     string
	Tags      []string
	Links     []string
	Postings  []Posting
}

// Posting is one leg of a Beancount transaction.
type Posting struct {
	Account  string
	Amount   decimal.Decimal
	Currency string
	Comment  string
}

var commodities = map[string]string{
	"£": "GBP",
	"$": "USD",
	"€": "EUR",
	"¥": "JPY",
	"₹": "INR",
}

// Commodity maps a currency symbol to a Beancount commodity. Three-letter
// codes pass through; anything else becomes XXX.
func Commodity(symbol string) string {
	symbol = strings.TrimSpace(symbol)
	if c, ok := commodities[symbol]; ok {
		return c
	}
	if len(symbol) == 3 && strings.ToUpper(symbol) == symbol && strings.Trim(symbol, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") == "" {
		return symbol
	}
	return "XXX"
}

// Converter converts ledger entries to Beancount transactions.
type Converter struct {
	mapper   *Mapper
	currency string
}

// NewConverter creates a new Converter.
func NewConverter(mapper *Mapper, currency string) *Converter {
	if mapper == nil {
		mapper = NewMapper(MappingConfig{})
	}
	if currency == "" {
		currency = "GBP"
	}
	return &Converter{
		mapper:   mapper,
		currency: currency,
	}
}

// ConvertEntry converts a completed entry into a balanced transaction.
func (c *Converter) ConvertEntry(e *ledger.Entry) Transaction {
	var postings []Posting
	amount := e.Amount

	if e.SourceType.Valid() {
		postings = append(postings, Posting{
			Account:  c.mapper.Account(e.SourceType, e.SourceID, e.SourceProvider),
			Amount:   amount.Neg(),
			Currency: c.currency,
		})
	}

	switch {
	case e.Kind == ledger.EntryDeposit:
		postings = append(postings,
			Posting{
				Account:  c.mapper.Account(e.DestinationType, e.DestinationID, e.DestinationProvider),
				Amount:   amount,
				Currency: c.currency,
			},
			Posting{
				Account:  c.mapper.Income(),
				Amount:   amount.Neg(),
				Currency: c.currency,
			})
	case e.DestinationType.Valid():
		postings = append(postings, Posting{
			Account:  c.mapper.Account(e.DestinationType, e.DestinationID, e.DestinationProvider),
			Amount:   amount,
			Currency: c.currency,
			Comment:  e.Item,
		})
	default:
		postings = append(postings, Posting{
			Account:  c.mapper.Category(e.Category),
			Amount:   amount,
			Currency: c.currency,
			Comment:  e.Item,
		})
	}

	return Transaction{
		Date:      e.Timestamp.Format(time.DateOnly),
		Narration: buildNarration(e),
		Payee:     e.Vendor,
		Tags:      []string{string(e.Kind)},
		Links:     buildLinks(e.Reference),
		Postings:  postings,
	}
}

// FormatTransaction formats a Beancount transaction as a string.
func (c *Converter) FormatTransaction(txn Transaction) string {
	var sb strings.Builder

	sb.WriteString(txn.Date)
	sb.WriteString(" *")
	if txn.Payee != "" {
		sb.WriteString(fmt.Sprintf(" %q", txn.Payee))
	}
	sb.WriteString(fmt.Sprintf(" %q", txn.Narration))
	for _, tag := range txn.Tags {
		sb.WriteString(" #" + tag)
	}
	for _, link := range txn.Links {
		sb.WriteString(" ^" + link)
	}
	sb.WriteString("\n")

	for _, posting := range txn.Postings {
		sb.WriteString("  ")
		sb.WriteString(posting.Account)

		// Right-align amounts
		spaces := max(1, 60-len(posting.Account))
		sb.WriteString(strings.Repeat(" ", spaces))
		sb.WriteString(fmt.Sprintf("%s %s", posting.Amount.StringFixed(2), posting.Currency))

		if posting.Comment != "" {
			sb.WriteString(fmt.Sprintf(" ; %s", posting.Comment))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// WriteBeancount writes the completed entries as a Beancount file.
// Reversed entries are left out.
func (c *Converter) WriteBeancount(w io.Writer, entries []*ledger.Entry, generated time.Time) error {
	header := fmt.Sprintf("; financli ledger export\n; Generated at %s\n\n", generated.Format(time.RFC3339))
	if _, err := io.WriteString(w, header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, e := range entries {
		if e.Status == ledger.StatusReversed {
			continue
		}
		if _, err := io.WriteString(w, c.FormatTransaction(c.ConvertEntry(e))+"\n"); err != nil {
			return fmt.Errorf("failed to write transaction %d: %w", e.ID, err)
		}
	}
	return nil
}

func buildNarration(e *ledger.Entry) string {
	if e.Description != "" {
		return e.Description
	}
	if e.Item != "" {
		return e.Item
	}
	return string(e.Kind)
}

func buildLinks(reference string) []string {
	if reference == "" {
		return nil
	}
	return []string{reference}
}
