package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Write encodes t to w in format f. Rows keep the table's column order in
// every format.
func Write(w io.Writer, f Format, t Table) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, t)
	case FormatCSV:
		return writeCSV(w, t)
	case FormatTXT:
		return writeTXT(w, t)
	case FormatYAML:
		return writeYAML(w, t)
	default:
		return fmt.Errorf("cannot write %s records as %s", t.Name, f)
	}
}

// orderedRow marshals a row as a JSON object in column order.
type orderedRow struct {
	columns []string
	values  map[string]any
}

func (o orderedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range o.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(o.values[col])
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", col, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSON(w io.Writer, t Table) error {
	rows := make([]orderedRow, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = orderedRow{columns: t.Columns, values: row}
	}

	data, err := json.MarshalIndent(rows, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range t.Rows {
		if err := cw.Write(cells(t.Columns, row)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeTXT(w io.Writer, t Table) error {
	for _, row := range t.Rows {
		values := cells(t.Columns, row)
		pairs := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			pairs[i] = col + ": " + values[i]
		}
		if _, err := fmt.Fprintln(w, strings.Join(pairs, ", ")); err != nil {
			return fmt.Errorf("failed to write text: %w", err)
		}
	}
	return nil
}

func writeYAML(w io.Writer, t Table) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range t.Rows {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for _, col := range t.Columns {
			value := &yaml.Node{}
			if err := value.Encode(row[col]); err != nil {
				return fmt.Errorf("failed to encode %s: %w", col, err)
			}
			m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: col}, value)
		}
		seq.Content = append(seq.Content, m)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(seq); err != nil {
		return fmt.Errorf("failed to write YAML: %w", err)
	}
	return enc.Close()
}

// cells renders a row as strings in column order. NULL becomes "".
func cells(columns []string, row map[string]any) []string {
	out := make([]string, len(columns))
	for i, col := range columns {
		out[i] = cast.ToString(row[col])
	}
	return out
}
