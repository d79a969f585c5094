package account

import "testing"

func TestParseType(t *testing.T) {
	tests := []struct {
		input    string
		expected Type
		wantErr  bool
	}{
		{"bank", TypeBank, false},
		{"banks", TypeBank, false},
		{"Credit Card", TypeCreditCard, false},
		{"credit_card", TypeCreditCard, false},
		{"credit_cards", TypeCreditCard, false},
		{"store-card", TypeStoreCard, false},
		{"  loan ", TypeLoan, false},
		{"bills", TypeBill, false},
		{"subscription", TypeSubscription, false},
		{"savings", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("ParseType(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTypeColumns(t *testing.T) {
	tests := []struct {
		typ                                    Type
		balance, limiter, alias, monthly, debt bool
	}{
		{TypeBank, true, true, true, false, false},
		{TypeCreditCard, true, true, false, false, true},
		{TypeStoreCard, true, true, false, false, true},
		{TypeLoan, true, false, false, true, true},
		{TypeBill, false, false, false, true, false},
		{TypeSubscription, false, false, false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			if tt.typ.HasBalance() != tt.balance {
				t.Errorf("HasBalance() = %v", tt.typ.HasBalance())
			}
			if tt.typ.HasLimiter() != tt.limiter {
				t.Errorf("HasLimiter() = %v", tt.typ.HasLimiter())
			}
			if tt.typ.HasAlias() != tt.alias {
				t.Errorf("HasAlias() = %v", tt.typ.HasAlias())
			}
			if tt.typ.HasMonthlyCharge() != tt.monthly {
				t.Errorf("HasMonthlyCharge() = %v", tt.typ.HasMonthlyCharge())
			}
			if tt.typ.IsDebt() != tt.debt {
				t.Errorf("IsDebt() = %v", tt.typ.IsDebt())
			}
			if tt.typ.IsPayOnly() == tt.balance {
				t.Errorf("IsPayOnly() = %v", tt.typ.IsPayOnly())
			}
		})
	}
}

func TestTypeTextRoundTrip(t *testing.T) {
	text, err := TypeStoreCard.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(text) != "store card" {
		t.Errorf("MarshalText() = %q", text)
	}

	var typ Type
	if err := typ.UnmarshalText([]byte("store_cards")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if typ != TypeStoreCard {
		t.Errorf("UnmarshalText() = %v", typ)
	}

	if _, err := Type(0).MarshalText(); err == nil {
		t.Error("MarshalText() on zero type expected error")
	}
}
