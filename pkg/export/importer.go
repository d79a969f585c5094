package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/shunichi-ikebuchi/financli/pkg/account"
)

// Record is one imported row, keyed by column name.
type Record map[string]string

// ReadRecords decodes JSON (an array of objects) or CSV (with a header row)
// into records.
func ReadRecords(r io.Reader, f Format) ([]Record, error) {
	switch f {
	case FormatJSON:
		return readJSON(r)
	case FormatCSV:
		return readCSV(r)
	default:
		return nil, fmt.Errorf("cannot import %s files", f)
	}
}

func readJSON(r io.Reader) ([]Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	records := make([]Record, 0, len(raw))
	for i, obj := range raw {
		rec := make(Record, len(obj))
		for k, v := range obj {
			s, err := cast.ToStringE(v)
			if err != nil {
				return nil, fmt.Errorf("record %d field %s: %w", i+1, k, err)
			}
			rec[k] = s
		}
		records = append(records, rec)
	}
	return records, nil
}

func readCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	headers, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := toIndex(headers)
	if _, ok := col["provider"]; !ok {
		return nil, fmt.Errorf("missing column: provider")
	}

	var records []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rec := make(Record, len(col))
		for name, i := range col {
			rec[name] = row[i]
		}
		records = append(records, rec)
	}
	return records, nil
}

func toIndex(headers []string) map[string]int {
	m := make(map[string]int, len(headers))
	for i, h := range headers {
		m[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return m
}

// OpenRequest builds an OpenRequest for t from an imported record. The id
// column and columns t does not carry are ignored. Blank values count as
// missing.
func OpenRequest(t account.Type, rec Record) (account.OpenRequest, error) {
	req := account.OpenRequest{
		Type:     t,
		Provider: strings.TrimSpace(rec["provider"]),
	}
	if alias := strings.TrimSpace(rec["alias"]); alias != "" && t.HasAlias() {
		req.Alias = &alias
	}

	var errs []error
	amount := func(name string, carried bool) *decimal.Decimal {
		s := strings.TrimSpace(rec[name])
		if s == "" || !carried {
			return nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s %q", name, s))
			return nil
		}
		return &d
	}
	req.Balance = amount("balance", t.HasBalance())
	req.Limiter = amount("limiter", t.HasLimiter())
	req.MonthlyCharge = amount("monthly_charge", t.HasMonthlyCharge())

	if err := errors.Join(errs...); err != nil {
		return account.OpenRequest{}, err
	}
	return req, nil
}

// Failure is one record that could not be imported.
type Failure struct {
	Index  int
	Record Record
	Err    error
}

// Result summarises an import.
type Result struct {
	Total    int
	Imported int
	IDs      []int64
	Failures []Failure
}

// Summary is the one-line report printed after an import.
func (r Result) Summary(t account.Type) string {
	return fmt.Sprintf("Imported %d of %d records into %s.", r.Imported, r.Total, t)
}

// Import opens one account per record through p. A record that fails is
// reported and skipped; the rest are still imported.
func Import(p account.Policy, records []Record) Result {
	result := Result{Total: len(records)}
	for i, rec := range records {
		req, err := OpenRequest(p.Type(), rec)
		if err == nil {
			var id int64
			id, err = p.Open(req)
			if err == nil {
				result.Imported++
				result.IDs = append(result.IDs, id)
				continue
			}
		}

		slog.Debug("Skipped import record", "type", p.Type(), "index", i+1, "error", err)
		result.Failures = append(result.Failures, Failure{Index: i + 1, Record: rec, Err: err})
	}
	return result
}
