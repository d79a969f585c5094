// Package record provides generic CRUD over a single SQLite table keyed by
// an integer id. Column metadata is read once from PRAGMA table_info and
// drives validation of inserts and sparse updates.
package record

import (
	"database/sql"
	"fmt"
	"log/slog"
	"reflect"
	"regexp"
	"strings"

	"github.com/shunichi-ikebuchi/financli/pkg/db"
)

// PrimaryKey is the name of the id column every table carries.
const PrimaryKey = "id"

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Row is a single record as column name -> value.
type Row map[string]any

// Column describes one column as reported by PRAGMA table_info.
type Column struct {
	Name       string
	Type       string
	NotNull    bool
	HasDefault bool
	PrimaryKey bool
}

// Store performs CRUD on one table.
type Store struct {
	exec       db.Executor
	table      string
	schema     []Column
	columns    []string
	insertable []string
	required   []string
}

// New creates a Store for table, reading its column metadata through exec.
func New(exec db.Executor, table string) (*Store, error) {
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name: %q", table)
	}

	rows, err := exec.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, newError(ErrQueryExecution, "failed to read table info", err)
	}
	defer rows.Close()

	s := &Store{exec: exec, table: table}
	for rows.Next() {
		var (
			cid      int
			col      Column
			notNull  int
			dflt     sql.NullString
			pkMarker int
		)
		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &dflt, &pkMarker); err != nil {
			return nil, newError(ErrQueryExecution, "failed to scan table info", err)
		}
		col.NotNull = notNull == 1
		col.HasDefault = dflt.Valid
		col.PrimaryKey = pkMarker > 0

		s.schema = append(s.schema, col)
		s.columns = append(s.columns, col.Name)
		if col.Name == PrimaryKey {
			continue
		}
		s.insertable = append(s.insertable, col.Name)
		if col.NotNull {
			s.required = append(s.required, col.Name)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, newError(ErrQueryExecution, "failed to read table info", err)
	}
	if len(s.columns) == 0 {
		return nil, fmt.Errorf("table %s does not exist", table)
	}

	return s, nil
}

// WithExecutor returns a Store sharing this one's metadata that runs its
// statements on exec.
func (s *Store) WithExecutor(exec db.Executor) *Store {
	clone := *s
	clone.exec = exec
	return &clone
}

// Table returns the table name.
func (s *Store) Table() string {
	return s.table
}

// Columns returns all column names in table order, including id.
func (s *Store) Columns() []string {
	return append([]string(nil), s.columns...)
}

// Schema returns the column metadata in table order.
func (s *Store) Schema() []Column {
	return append([]Column(nil), s.schema...)
}

// RequiredColumns returns the NOT NULL columns other than id.
func (s *Store) RequiredColumns() []string {
	return append([]string(nil), s.required...)
}

// GetOne returns the row with the given id.
func (s *Store) GetOne(id int64) (Row, error) {
	rows, err := s.exec.Query(fmt.Sprintf("SELECT * FROM %s WHERE id = ?", s.table), id)
	if err != nil {
		return nil, newError(ErrQueryExecution, "failed to fetch record", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, newError(ErrQueryExecution, "failed to fetch record", err)
		}
		return nil, newError(ErrRecordNotFound, fmt.Sprintf("no record found with ID %d", id), nil)
	}

	return scanRow(rows)
}

// GetMany returns every row in the order SQLite yields them.
func (s *Store) GetMany() ([]Row, error) {
	return s.query(fmt.Sprintf("SELECT * FROM %s", s.table))
}

// Find returns the rows whose columns equal every value in filter. A nil
// value matches NULL. An empty filter behaves like GetMany.
func (s *Store) Find(filter Row) ([]Row, error) {
	if len(filter) == 0 {
		return s.GetMany()
	}

	var (
		conds []string
		args  []any
	)
	for _, col := range s.columns {
		v, ok := filter[col]
		if !ok {
			continue
		}
		if v == nil {
			conds = append(conds, col+" IS NULL")
			continue
		}
		conds = append(conds, col+" = ?")
		args = append(args, v)
	}
	if len(conds) != len(filter) {
		return nil, newError(ErrValidation, fmt.Sprintf("unknown filter fields for %s", s.table), nil)
	}

	query := fmt.Sprintf("SELECT * FROM %s WHERE %s", s.table, strings.Join(conds, " AND "))
	return s.query(query, args...)
}

// Create validates data and inserts it as a new row, returning its id.
// Columns missing from data are inserted as NULL.
func (s *Store) Create(data Row) (int64, error) {
	if err := s.validate(data); err != nil {
		return 0, err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(s.insertable)), ", ")
	values := make([]any, len(s.insertable))
	for i, col := range s.insertable {
		values[i] = data[col]
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.table, strings.Join(s.insertable, ", "), placeholders)

	result, err := s.exec.Exec(query, values...)
	if err != nil {
		return 0, newError(ErrQueryExecution, "failed to create record", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, newError(ErrQueryExecution, "failed to read new record id", err)
	}

	slog.Debug("Created record", "table", s.table, "id", id)
	return id, nil
}

// Exists reports whether a row with the given id exists.
func (s *Store) Exists(id int64) (bool, error) {
	var one int
	err := s.exec.QueryRow(fmt.Sprintf("SELECT 1 FROM %s WHERE id = ?", s.table), id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, newError(ErrQueryExecution, "failed to check record existence", err)
	}
	return true, nil
}

// Update applies a sparse patch: keys that are not columns are ignored and
// nil values keep the stored value.
func (s *Store) Update(id int64, data Row) error {
	exists, err := s.Exists(id)
	if err != nil {
		return err
	}
	if !exists {
		return newError(ErrRecordNotFound, fmt.Sprintf("record with ID %d does not exist", id), nil)
	}

	var updateColumns []string
	for _, col := range s.insertable {
		if _, ok := data[col]; ok {
			updateColumns = append(updateColumns, col)
		}
	}
	if len(updateColumns) == 0 {
		return newError(ErrValidation, "no valid fields to update", nil)
	}

	current, err := s.GetOne(id)
	if err != nil {
		return err
	}

	assignments := make([]string, len(updateColumns))
	values := make([]any, 0, len(updateColumns)+1)
	for i, col := range updateColumns {
		assignments[i] = col + " = ?"
		v := data[col]
		if isNull(v) {
			v = current[col]
		}
		values = append(values, v)
	}
	values = append(values, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", s.table, strings.Join(assignments, ", "))
	if _, err := s.exec.Exec(query, values...); err != nil {
		return newError(ErrQueryExecution, "failed to update record", err)
	}

	slog.Debug("Updated record", "table", s.table, "id", id, "columns", updateColumns)
	return nil
}

// Replace overwrites every insertable column of row id with data. Unlike
// Update, omitted and nil values are written as NULL.
func (s *Store) Replace(id int64, data Row) error {
	exists, err := s.Exists(id)
	if err != nil {
		return err
	}
	if !exists {
		return newError(ErrRecordNotFound, fmt.Sprintf("record with ID %d does not exist", id), nil)
	}
	if err := s.validate(data); err != nil {
		return err
	}

	assignments := make([]string, len(s.insertable))
	values := make([]any, 0, len(s.insertable)+1)
	for i, col := range s.insertable {
		assignments[i] = col + " = ?"
		values = append(values, data[col])
	}
	values = append(values, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", s.table, strings.Join(assignments, ", "))
	if _, err := s.exec.Exec(query, values...); err != nil {
		return newError(ErrQueryExecution, "failed to replace record", err)
	}

	slog.Debug("Replaced record", "table", s.table, "id", id)
	return nil
}

// Delete removes the row with the given id.
func (s *Store) Delete(id int64) error {
	exists, err := s.Exists(id)
	if err != nil {
		return err
	}
	if !exists {
		return newError(ErrRecordNotFound, fmt.Sprintf("cannot delete: record with ID %d does not exist", id), nil)
	}

	if _, err := s.exec.Exec(fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.table), id); err != nil {
		return newError(ErrQueryExecution, "failed to delete record", err)
	}

	slog.Debug("Deleted record", "table", s.table, "id", id)
	return nil
}

func (s *Store) query(query string, args ...any) ([]Row, error) {
	rows, err := s.exec.Query(query, args...)
	if err != nil {
		return nil, newError(ErrQueryExecution, "failed to fetch records", err)
	}
	defer rows.Close()

	result := []Row{}
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, newError(ErrQueryExecution, "failed to fetch records", err)
	}
	return result, nil
}

func (s *Store) validate(data Row) error {
	var missing []string
	for _, col := range s.required {
		if v, ok := data[col]; !ok || isNull(v) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return newError(ErrValidation, "missing required fields: "+strings.Join(missing, ", "), nil)
	}
	return nil
}

func scanRow(rows *sql.Rows) (Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, newError(ErrQueryExecution, "failed to read columns", err)
	}

	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, newError(ErrQueryExecution, "failed to scan record", err)
	}

	return toRow(cols, values)
}

func toRow(cols []string, values []any) (Row, error) {
	if len(cols) != len(values) {
		return nil, newError(ErrColumnMismatch,
			fmt.Sprintf("column mismatch: expected %d columns, got %d", len(cols), len(values)), nil)
	}

	row := make(Row, len(cols))
	for i, col := range cols {
		v := values[i]
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		row[col] = v
	}
	return row, nil
}

// isNull treats nil interfaces and nil pointers alike.
func isNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
