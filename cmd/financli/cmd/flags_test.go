package cmd

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/financli/pkg/account"
	"github.com/shunichi-ikebuchi/financli/pkg/ledger"
)

func TestParseAccountRef(t *testing.T) {
	tests := []struct {
		input   string
		typ     account.Type
		id      int64
		wantErr bool
	}{
		{"bank:1", account.TypeBank, 1, false},
		{"credit card:12", account.TypeCreditCard, 12, false},
		{" store_card : 3 ", account.TypeStoreCard, 3, false},
		{"", 0, 0, false},
		{"bank", 0, 0, true},
		{"bank:x", 0, 0, true},
		{"bank:0", 0, 0, true},
		{"savings:1", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			typ, id, err := parseAccountRef(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseAccountRef(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if typ != tt.typ || id != tt.id {
				t.Errorf("parseAccountRef(%q) = %s:%d, expected %s:%d", tt.input, typ, id, tt.typ, tt.id)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	got, err := parseTimestamp("2025-03-14T09:30:00Z")
	if err != nil || !got.Equal(time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)) {
		t.Errorf("parseTimestamp(RFC3339) = %v, %v", got, err)
	}

	got, err = parseTimestamp("2025-03-14")
	if err != nil || got.Year() != 2025 || got.Month() != time.March || got.Day() != 14 {
		t.Errorf("parseTimestamp(date) = %v, %v", got, err)
	}

	if got, err := parseTimestamp(""); err != nil || !got.IsZero() {
		t.Errorf("parseTimestamp(\"\") = %v, %v", got, err)
	}
	if _, err := parseTimestamp("14/03/2025"); err == nil {
		t.Error("parseTimestamp() expected error")
	}
}

func newFlagCommand(t *testing.T, register func(*cobra.Command), args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	register(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	return cmd
}

func TestRequestFlagsApply(t *testing.T) {
	var f requestFlags
	cmd := newFlagCommand(t, f.register,
		"--kind", "pay-only", "--from", "bank:1", "--to", "bill:2",
		"--amount", "32.99", "--vendor", "Water Co", "--at", "2025-03-14T09:30:00Z")

	req, err := f.apply(cmd, ledger.Request{Notes: "kept", Category: "kept"})
	if err != nil {
		t.Fatalf("apply() error = %v", err)
	}

	if req.Kind != ledger.KindPayOnly {
		t.Errorf("Kind = %q", req.Kind)
	}
	if req.SourceType != account.TypeBank || req.SourceID != 1 {
		t.Errorf("source = %s:%d", req.SourceType, req.SourceID)
	}
	if req.DestinationType != account.TypeBill || req.DestinationID != 2 {
		t.Errorf("destination = %s:%d", req.DestinationType, req.DestinationID)
	}
	if !req.Amount.Equal(decimal.RequireFromString("32.99")) {
		t.Errorf("Amount = %s", req.Amount)
	}
	if req.Vendor != "Water Co" || req.Notes != "kept" || req.Category != "kept" {
		t.Errorf("text fields = %+v", req)
	}
	if req.Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}
}

func TestRequestFlagsApplyClearsDestination(t *testing.T) {
	var f requestFlags
	cmd := newFlagCommand(t, f.register, "--kind", "withdraw", "--to", "")

	base := ledger.Request{Kind: ledger.KindTransfer, SourceType: account.TypeBank, SourceID: 1,
		DestinationType: account.TypeBank, DestinationID: 2, Amount: decimal.NewFromInt(5)}
	req, err := f.apply(cmd, base)
	if err != nil {
		t.Fatalf("apply() error = %v", err)
	}
	if req.DestinationType != 0 || req.DestinationID != 0 || req.SourceID != 1 || !req.Amount.Equal(base.Amount) {
		t.Errorf("apply() = %+v", req)
	}
}

func TestRequestFlagsApplyKindChange(t *testing.T) {
	withdrawal := ledger.Request{Kind: ledger.KindWithdraw, SourceType: account.TypeBank, SourceID: 1,
		Amount: decimal.NewFromInt(5)}
	transfer := ledger.Request{Kind: ledger.KindTransfer, SourceType: account.TypeBank, SourceID: 1,
		DestinationType: account.TypeCreditCard, DestinationID: 2, Amount: decimal.NewFromInt(5)}
	payment := ledger.Request{Kind: ledger.KindPayOnly, SourceType: account.TypeBank, SourceID: 1,
		DestinationType: account.TypeBill, DestinationID: 3, Amount: decimal.NewFromInt(5)}

	tests := []struct {
		name     string
		args     []string
		base     ledger.Request
		expected ledger.Request
	}{
		{
			name: "withdrawal to deposit",
			args: []string{"--kind", "deposit", "--to", "bank:4"},
			base: withdrawal,
			expected: ledger.Request{Kind: ledger.KindDeposit, DestinationType: account.TypeBank, DestinationID: 4,
				Amount: withdrawal.Amount},
		},
		{
			name:     "transfer to withdrawal",
			args:     []string{"--kind", "withdraw"},
			base:     transfer,
			expected: withdrawal,
		},
		{
			name:     "transfer to payment",
			args:     []string{"--kind", "pay_only"},
			base:     transfer,
			expected: ledger.Request{Kind: ledger.KindPayOnly, SourceType: account.TypeBank, SourceID: 1, Amount: transfer.Amount},
		},
		{
			name:     "payment keeps its bill",
			args:     []string{"--kind", "pay-only", "--amount", "5"},
			base:     payment,
			expected: payment,
		},
		{
			name: "deposit to withdrawal with new source",
			args: []string{"--kind", "withdraw", "--from", "credit card:2"},
			base: ledger.Request{Kind: ledger.KindDeposit, DestinationType: account.TypeBank, DestinationID: 4,
				Amount: withdrawal.Amount},
			expected: ledger.Request{Kind: ledger.KindWithdraw, SourceType: account.TypeCreditCard, SourceID: 2,
				Amount: withdrawal.Amount},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f requestFlags
			cmd := newFlagCommand(t, f.register, tt.args...)
			got, err := f.apply(cmd, tt.base)
			if err != nil {
				t.Fatalf("apply() error = %v", err)
			}
			if got.Kind != tt.expected.Kind ||
				got.SourceType != tt.expected.SourceType || got.SourceID != tt.expected.SourceID ||
				got.DestinationType != tt.expected.DestinationType || got.DestinationID != tt.expected.DestinationID ||
				!got.Amount.Equal(tt.expected.Amount) {
				t.Errorf("apply() = %+v, expected %+v", got, tt.expected)
			}
		})
	}
}

func TestRequestFlagsApplyErrors(t *testing.T) {
	tests := [][]string{
		{"--kind", "refund"},
		{"--from", "bank"},
		{"--to", "loan:abc"},
		{"--amount", "ten"},
		{"--at", "yesterday"},
	}
	for _, args := range tests {
		var f requestFlags
		cmd := newFlagCommand(t, f.register, args...)
		if _, err := f.apply(cmd, ledger.Request{}); err == nil {
			t.Errorf("apply(%v) expected error", args)
		}
	}
}

func TestAccountFlags(t *testing.T) {
	var f accountFlags
	cmd := newFlagCommand(t, f.register, "--provider", "CardCo", "--balance", "50", "--limiter", "1000")

	open, err := f.openRequest(cmd, account.TypeCreditCard)
	if err != nil {
		t.Fatalf("openRequest() error = %v", err)
	}
	if open.Provider != "CardCo" || open.Balance == nil || open.Limiter == nil || open.MonthlyCharge != nil || open.Alias != nil {
		t.Errorf("openRequest() = %+v", open)
	}

	update, err := f.updateRequest(cmd)
	if err != nil {
		t.Fatalf("updateRequest() error = %v", err)
	}
	if update.Provider == nil || *update.Provider != "CardCo" || update.Alias != nil || update.MonthlyCharge != nil {
		t.Errorf("updateRequest() = %+v", update)
	}

	var bad accountFlags
	cmd = newFlagCommand(t, bad.register, "--monthly-charge", "lots")
	if _, err := bad.openRequest(cmd, account.TypeBill); err == nil {
		t.Error("openRequest() expected error")
	}
}
