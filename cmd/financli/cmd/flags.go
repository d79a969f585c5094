package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/financli/pkg/account"
	"github.com/shunichi-ikebuchi/financli/pkg/ledger"
)

// parseAccountRef parses "<type>:<id>", e.g. "credit card:2". An empty
// string is no account.
func parseAccountRef(s string) (account.Type, int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, nil
	}

	i := strings.LastIndex(s, ":")
	if i < 0 {
		return 0, 0, fmt.Errorf("account %q must be written as <type>:<id>", s)
	}
	t, err := account.ParseType(s[:i])
	if err != nil {
		return 0, 0, err
	}
	id, err := strconv.ParseInt(strings.TrimSpace(s[i+1:]), 10, 64)
	if err != nil || id <= 0 {
		return 0, 0, fmt.Errorf("invalid account id in %q", s)
	}
	return t, id, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

// parseTimestamp accepts RFC 3339 or a local date. Empty means now.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: use YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}

// changedAmount returns the parsed flag value, or nil when the flag was not
// given.
func changedAmount(cmd *cobra.Command, name, value string) (*decimal.Decimal, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	d, err := parseAmount(value)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &d, nil
}

func changedString(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

// accountFlags describe the fields of an account for open and update.
type accountFlags struct {
	provider      string
	alias         string
	balance       string
	limiter       string
	monthlyCharge string
}

func (f *accountFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.provider, "provider", "", "Provider name")
	cmd.Flags().StringVar(&f.alias, "alias", "", "Alias (bank accounts only)")
	cmd.Flags().StringVar(&f.balance, "balance", "", "Balance; the amount owed for cards and loans")
	cmd.Flags().StringVar(&f.limiter, "limiter", "", "Overdraft limit for banks, credit limit for cards")
	cmd.Flags().StringVar(&f.monthlyCharge, "monthly-charge", "", "Monthly charge for loans, bills and subscriptions")
}

func (f *accountFlags) openRequest(cmd *cobra.Command, t account.Type) (account.OpenRequest, error) {
	req := account.OpenRequest{Type: t, Provider: f.provider, Alias: changedString(cmd, "alias", f.alias)}

	var err error
	if req.Balance, err = changedAmount(cmd, "balance", f.balance); err != nil {
		return req, err
	}
	if req.Limiter, err = changedAmount(cmd, "limiter", f.limiter); err != nil {
		return req, err
	}
	if req.MonthlyCharge, err = changedAmount(cmd, "monthly-charge", f.monthlyCharge); err != nil {
		return req, err
	}
	return req, nil
}

func (f *accountFlags) updateRequest(cmd *cobra.Command) (account.UpdateRequest, error) {
	req := account.UpdateRequest{
		Provider: changedString(cmd, "provider", f.provider),
		Alias:    changedString(cmd, "alias", f.alias),
	}

	var err error
	if req.Balance, err = changedAmount(cmd, "balance", f.balance); err != nil {
		return req, err
	}
	if req.Limiter, err = changedAmount(cmd, "limiter", f.limiter); err != nil {
		return req, err
	}
	if req.MonthlyCharge, err = changedAmount(cmd, "monthly-charge", f.monthlyCharge); err != nil {
		return req, err
	}
	return req, nil
}

func kindNames() string {
	names := make([]string, 0, len(ledger.Kinds()))
	for _, k := range ledger.Kinds() {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}

// requestFlags describe a money movement for transaction and amend.
type requestFlags struct {
	kind        string
	from        string
	to          string
	amount      string
	description string
	vendor      string
	item        string
	category    string
	notes       string
	at          string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "kind", "", "Transaction kind ("+kindNames()+")")
	cmd.Flags().StringVar(&f.from, "from", "", "Source account as <type>:<id>")
	cmd.Flags().StringVar(&f.to, "to", "", "Destination account as <type>:<id>")
	cmd.Flags().StringVar(&f.amount, "amount", "", "Amount to move")
	cmd.Flags().StringVar(&f.description, "description", "", "Description")
	cmd.Flags().StringVar(&f.vendor, "vendor", "", "Vendor for a spend")
	cmd.Flags().StringVar(&f.item, "item", "", "Item bought")
	cmd.Flags().StringVar(&f.category, "category", "", "Spending category")
	cmd.Flags().StringVar(&f.notes, "notes", "", "Free-form notes")
	cmd.Flags().StringVar(&f.at, "at", "", "When it happened (YYYY-MM-DD or RFC 3339, default now)")
}

// apply overrides base with every flag the user gave. A new --kind drops
// the accounts it does not take before --from and --to apply.
func (f *requestFlags) apply(cmd *cobra.Command, base ledger.Request) (ledger.Request, error) {
	req := base
	changed := cmd.Flags().Changed

	if changed("kind") {
		kind, err := ledger.ParseKind(f.kind)
		if err != nil {
			return req, err
		}
		if kind != req.Kind {
			req = req.WithKind(kind)
		}
	}
	if changed("from") {
		t, id, err := parseAccountRef(f.from)
		if err != nil {
			return req, fmt.Errorf("--from: %w", err)
		}
		req.SourceType, req.SourceID = t, id
	}
	if changed("to") {
		t, id, err := parseAccountRef(f.to)
		if err != nil {
			return req, fmt.Errorf("--to: %w", err)
		}
		req.DestinationType, req.DestinationID = t, id
	}
	if changed("amount") {
		amount, err := parseAmount(f.amount)
		if err != nil {
			return req, err
		}
		req.Amount = amount
	}
	if changed("at") {
		at, err := parseTimestamp(f.at)
		if err != nil {
			return req, err
		}
		req.Timestamp = at
	}

	for name, field := range map[string]*string{
		"description": &req.Description,
		"vendor":      &req.Vendor,
		"item":        &req.Item,
		"category":    &req.Category,
		"notes":       &req.Notes,
	} {
		if changed(name) {
			*field = cmd.Flag(name).Value.String()
		}
	}
	return req, nil
}
