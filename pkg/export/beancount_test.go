package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/financli/pkg/account"
	"github.com/shunichi-ikebuchi/financli/pkg/ledger"
)

var entryTime = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func TestCommodity(t *testing.T) {
	tests := map[string]string{
		"£":   "GBP",
		"$":   "USD",
		" € ": "EUR",
		"CHF": "CHF",
		"chf": "XXX",
		"R$":  "XXX",
	}
	for symbol, expected := range tests {
		if got := Commodity(symbol); got != expected {
			t.Errorf("Commodity(%q) = %q, expected %q", symbol, got, expected)
		}
	}
}

func TestSanitizeAccountName(t *testing.T) {
	tests := []struct {
		name     string
		id       int64
		expected string
	}{
		{"Barclays", 1, "Barclays"},
		{"first direct", 2, "FirstDirect"},
		{"M&S bank", 3, "MSBank"},
		{"-42 club", 4, "42Club"},
		{"***", 5, "Account5"},
		{"", 0, "Unknown"},
	}
	for _, tt := range tests {
		if got := sanitizeAccountName(tt.name, tt.id); got != tt.expected {
			t.Errorf("sanitizeAccountName(%q) = %q, expected %q", tt.name, got, tt.expected)
		}
	}
}

func TestConvertEntry(t *testing.T) {
	mapper := NewMapper(MappingConfig{
		Accounts:   []AccountMapping{{Type: account.TypeBank, ID: 1, Beancount: "Assets:Bank:Main"}},
		Categories: []CategoryMapping{{Category: "Groceries", Beancount: "Expenses:Food:Groceries"}},
	})
	c := NewConverter(mapper, "GBP")
	amount := decimal.RequireFromString("25.5")

	tests := []struct {
		name     string
		entry    ledger.Entry
		expected []string
	}{
		{
			name: "spend uses category mapping",
			entry: ledger.Entry{Kind: ledger.EntrySpend, SourceType: account.TypeBank, SourceID: 1,
				Vendor: "Tesco", Category: "groceries"},
			expected: []string{"Assets:Bank:Main -25.50", "Expenses:Food:Groceries 25.50"},
		},
		{
			name:     "withdrawal without category",
			entry:    ledger.Entry{Kind: ledger.EntryWithdrawal, SourceType: account.TypeCreditCard, SourceID: 2, SourceProvider: "amex"},
			expected: []string{"Liabilities:CreditCard:Amex -25.50", "Expenses:Uncategorized 25.50"},
		},
		{
			name:     "deposit draws from income",
			entry:    ledger.Entry{Kind: ledger.EntryDeposit, DestinationType: account.TypeLoan, DestinationID: 3, DestinationProvider: "Car Loan"},
			expected: []string{"Liabilities:Loan:CarLoan 25.50", "Income:Uncategorized -25.50"},
		},
		{
			name: "transfer",
			entry: ledger.Entry{Kind: ledger.EntryTransfer, SourceType: account.TypeBank, SourceID: 1,
				DestinationType: account.TypeStoreCard, DestinationID: 4, DestinationProvider: "Argos"},
			expected: []string{"Assets:Bank:Main -25.50", "Liabilities:StoreCard:Argos 25.50"},
		},
		{
			name: "payment to a bill",
			entry: ledger.Entry{Kind: ledger.EntryPayment, SourceType: account.TypeBank, SourceID: 1,
				DestinationType: account.TypeBill, DestinationID: 1, DestinationProvider: "Water"},
			expected: []string{"Assets:Bank:Main -25.50", "Expenses:Bills:Water 25.50"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.entry.Amount = amount
			tt.entry.Timestamp = entryTime
			txn := c.ConvertEntry(&tt.entry)

			var got []string
			total := decimal.Zero
			for _, p := range txn.Postings {
				got = append(got, p.Account+" "+p.Amount.StringFixed(2))
				total = total.Add(p.Amount)
			}
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("postings mismatch (-want +got):\n%s", diff)
			}
			if !total.IsZero() {
				t.Errorf("transaction does not balance: %s", total)
			}
			if txn.Date != "2025-03-14" {
				t.Errorf("Date = %q", txn.Date)
			}
		})
	}
}

func TestFormatTransaction(t *testing.T) {
	c := NewConverter(nil, "")
	txn := Transaction{
		Date:      "2025-03-14",
		Payee:     "Landlord",
		Narration: "Rent",
		Tags:      []string{"transfer"},
		Links:     []string{"abc-123"},
		Postings: []Posting{
			{Account: "Assets:Bank:Main", Amount: decimal.NewFromInt(-800), Currency: "GBP"},
			{Account: "Expenses:Rent", Amount: decimal.NewFromInt(800), Currency: "GBP", Comment: "March"},
		},
	}

	expected := "2025-03-14 * \"Landlord\" \"Rent\" #transfer ^abc-123\n" +
		"  Assets:Bank:Main" + strings.Repeat(" ", 44) + "-800.00 GBP\n" +
		"  Expenses:Rent" + strings.Repeat(" ", 47) + "800.00 GBP ; March\n"
	if got := c.FormatTransaction(txn); got != expected {
		t.Errorf("FormatTransaction() =\n%s\nexpected\n%s", got, expected)
	}
}

func TestWriteBeancountSkipsReversed(t *testing.T) {
	c := NewConverter(nil, "USD")
	entries := []*ledger.Entry{
		{ID: 1, Reference: "ref-1", Kind: ledger.EntryWithdrawal, SourceType: account.TypeBank, SourceID: 1,
			SourceProvider: "BankA", Amount: decimal.NewFromInt(10), Timestamp: entryTime, Status: ledger.StatusCompleted},
		{ID: 2, Reference: "ref-2", Kind: ledger.EntryWithdrawal, SourceType: account.TypeBank, SourceID: 1,
			SourceProvider: "BankA", Amount: decimal.NewFromInt(99), Timestamp: entryTime, Status: ledger.StatusReversed},
	}

	var buf bytes.Buffer
	if err := c.WriteBeancount(&buf, entries, entryTime); err != nil {
		t.Fatalf("WriteBeancount() error = %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "; financli ledger export\n; Generated at 2025-03-14T09:30:00Z\n") {
		t.Errorf("unexpected header:\n%s", out)
	}
	if !strings.Contains(out, "^ref-1") || !strings.Contains(out, "-10.00 USD") {
		t.Errorf("completed entry missing:\n%s", out)
	}
	if strings.Contains(out, "ref-2") {
		t.Errorf("reversed entry exported:\n%s", out)
	}
}

func TestLoadMapper(t *testing.T) {
	fs := newMemFs(t, map[string]string{
		"/mapping.yaml": "accounts:\n  - type: credit card\n    id: 7\n    beancount: Liabilities:Amex\n" +
			"categories:\n  - category: Rent\n    beancount: Expenses:Housing\nincome: Income:Salary\n",
		"/broken.yaml": "accounts: [",
	})

	m, err := LoadMapper(fs, "/mapping.yaml")
	if err != nil {
		t.Fatalf("LoadMapper() error = %v", err)
	}
	if got := m.Account(account.TypeCreditCard, 7, "American Express"); got != "Liabilities:Amex" {
		t.Errorf("Account() = %q", got)
	}
	if got := m.Account(account.TypeCreditCard, 8, "Visa"); got != "Liabilities:CreditCard:Visa" {
		t.Errorf("Account() = %q", got)
	}
	if got := m.Category("rent"); got != "Expenses:Housing" {
		t.Errorf("Category() = %q", got)
	}
	if m.Income() != "Income:Salary" {
		t.Errorf("Income() = %q", m.Income())
	}

	if _, err := LoadMapper(fs, "/broken.yaml"); err == nil {
		t.Error("LoadMapper() of invalid YAML expected error")
	}
	if _, err := LoadMapper(fs, "/missing.yaml"); err == nil {
		t.Error("LoadMapper() of missing file expected error")
	}
}
