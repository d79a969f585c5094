// Package export writes account tables and the transaction log to files
// and reads account records back in for import.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shunichi-ikebuchi/financli/pkg/record"
)

// Format is a file format.
type Format string

const (
	FormatJSON      Format = "json"
	FormatCSV       Format = "csv"
	FormatTXT       Format = "txt"
	FormatYAML      Format = "yaml"
	FormatBeancount Format = "beancount"
)

// Formats returns the formats Write accepts for account tables.
func Formats() []Format {
	return []Format{FormatJSON, FormatCSV, FormatTXT, FormatYAML}
}

// ParseFormat accepts a format name or file extension.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	switch f {
	case FormatJSON, FormatCSV, FormatTXT, FormatYAML, FormatBeancount:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "text":
		return FormatTXT, nil
	}
	return "", fmt.Errorf("unsupported format: %q", s)
}

// FormatOf returns the format implied by a file's extension.
func FormatOf(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("cannot tell the format of %s: no extension", path)
	}
	return ParseFormat(ext)
}

// Table is a named set of rows with a fixed column order.
type Table struct {
	Name    string
	Columns []string
	Rows    []record.Row
}

// Source is anything that can list its stored rows: the account policies
// and the ledger.
type Source interface {
	Columns() []string
	Rows() ([]record.Row, error)
}

// Collect reads a Source into a Table.
func Collect(name string, src Source) (Table, error) {
	rows, err := src.Rows()
	if err != nil {
		return Table{}, fmt.Errorf("failed to read %s records: %w", name, err)
	}
	return Table{Name: name, Columns: src.Columns(), Rows: rows}, nil
}
