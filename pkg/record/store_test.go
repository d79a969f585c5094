package record

import (
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/shunichi-ikebuchi/financli/pkg/db"
)

func newBankStore(t *testing.T) (*db.Connection, *Store) {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "record.db"))
	if err != nil {
		t.Fatalf("db.Open() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	store, err := New(conn, db.TableBanks)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return conn, store
}

func TestNewReadsMetadata(t *testing.T) {
	_, store := newBankStore(t)

	if diff := cmp.Diff([]string{"id", "provider", "alias", "balance", "limiter"}, store.Columns()); diff != "" {
		t.Errorf("Columns() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"provider", "balance", "limiter"}, store.RequiredColumns()); diff != "" {
		t.Errorf("RequiredColumns() mismatch (-want +got):\n%s", diff)
	}
	if !store.Schema()[0].PrimaryKey {
		t.Error("expected id to be reported as primary key")
	}
}

func TestNewRejectsUnknownTable(t *testing.T) {
	conn, _ := newBankStore(t)

	tests := []string{"missing_table", "banks; DROP TABLE banks"}
	for _, table := range tests {
		t.Run(table, func(t *testing.T) {
			if _, err := New(conn, table); err == nil {
				t.Errorf("New(%q) expected error", table)
			}
		})
	}
}

func TestCreateAndGetOne(t *testing.T) {
	_, store := newBankStore(t)

	id, err := store.Create(Row{
		"provider": "BankA",
		"alias":    "Savings",
		"balance":  100.0,
		"limiter":  50.0,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id != 1 {
		t.Errorf("Create() id = %d, expected 1", id)
	}

	got, err := store.GetOne(id)
	if err != nil {
		t.Fatalf("GetOne() error = %v", err)
	}
	want := Row{
		"id":       int64(1),
		"provider": "BankA",
		"alias":    "Savings",
		"balance":  100.0,
		"limiter":  50.0,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetOne() mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateFillsOmittedColumnsWithNull(t *testing.T) {
	_, store := newBankStore(t)

	id, err := store.Create(Row{"provider": "BankA", "balance": 1.0, "limiter": 0.0, "unknown": "ignored"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := store.GetOne(id)
	if err != nil {
		t.Fatalf("GetOne() error = %v", err)
	}
	if got["alias"] != nil {
		t.Errorf("alias = %v, expected nil", got["alias"])
	}
	if _, ok := got["unknown"]; ok {
		t.Error("unexpected column in row")
	}
}

func TestCreateValidation(t *testing.T) {
	_, store := newBankStore(t)

	var nilAlias *string
	tests := []struct {
		name    string
		data    Row
		missing string
	}{
		{"missing balance and limiter", Row{"provider": "BankA"}, "balance, limiter"},
		{"nil provider", Row{"provider": nil, "balance": 1.0, "limiter": 1.0}, "provider"},
		{"nil pointer provider", Row{"provider": nilAlias, "balance": 1.0, "limiter": 1.0}, "provider"},
		{"empty", Row{}, "provider, balance, limiter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Create(tt.data)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("Create() error = %v, expected ErrValidation", err)
			}
			if !strings.Contains(err.Error(), "missing required fields: "+tt.missing) {
				t.Errorf("error %q does not name %q", err, tt.missing)
			}
		})
	}

	rows, err := store.GetMany()
	if err != nil {
		t.Fatalf("GetMany() error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("validation failures wrote %d rows", len(rows))
	}
}

func TestGetOneNotFound(t *testing.T) {
	_, store := newBankStore(t)

	_, err := store.GetOne(999)
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("GetOne() error = %v, expected ErrRecordNotFound", err)
	}
	if !strings.Contains(err.Error(), "no record found with ID 999") {
		t.Errorf("unexpected message: %q", err)
	}
}

func TestGetManyAndFind(t *testing.T) {
	_, store := newBankStore(t)

	rows, err := store.GetMany()
	if err != nil {
		t.Fatalf("GetMany() error = %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Fatalf("GetMany() on empty table = %v, expected empty slice", rows)
	}

	for _, provider := range []string{"BankA", "BankB", "BankA"} {
		if _, err := store.Create(Row{"provider": provider, "balance": 0.0, "limiter": 0.0}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	if err := store.Update(3, Row{"alias": "joint"}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	rows, err = store.GetMany()
	if err != nil {
		t.Fatalf("GetMany() error = %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("GetMany() returned %d rows, expected 3", len(rows))
	}

	tests := []struct {
		name     string
		filter   Row
		expected int
	}{
		{"no filter", nil, 3},
		{"by provider", Row{"provider": "BankA"}, 2},
		{"by id", Row{"id": int64(2)}, 1},
		{"by provider and id", Row{"provider": "BankA", "id": int64(2)}, 0},
		{"by null alias", Row{"alias": nil}, 2},
		{"by provider and null alias", Row{"provider": "BankA", "alias": nil}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := store.Find(tt.filter)
			if err != nil {
				t.Fatalf("Find() error = %v", err)
			}
			if len(rows) != tt.expected {
				t.Errorf("Find() returned %d rows, expected %d", len(rows), tt.expected)
			}
		})
	}

	if _, err := store.Find(Row{"nope": 1}); !errors.Is(err, ErrValidation) {
		t.Errorf("Find() with unknown field error = %v, expected ErrValidation", err)
	}
}

func TestUpdateSparsePatch(t *testing.T) {
	_, store := newBankStore(t)

	id, err := store.Create(Row{"provider": "BankA", "alias": "Savings", "balance": 100.0, "limiter": 50.0})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := store.Update(id, Row{"provider": "BankB", "alias": nil, "balance": 75.5, "bogus": 1}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := store.GetOne(id)
	if err != nil {
		t.Fatalf("GetOne() error = %v", err)
	}
	want := Row{"id": int64(1), "provider": "BankB", "alias": "Savings", "balance": 75.5, "limiter": 50.0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("row after Update() mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateErrors(t *testing.T) {
	_, store := newBankStore(t)

	id, err := store.Create(Row{"provider": "BankA", "balance": 100.0, "limiter": 50.0})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err = store.Update(999, Row{"provider": "X"})
	if !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("Update(999) error = %v, expected ErrRecordNotFound", err)
	}
	if err != nil && !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("unexpected message: %q", err)
	}

	err = store.Update(id, Row{"nothing": "here"})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Update() with no known fields error = %v, expected ErrValidation", err)
	}
}

func TestReplaceClearsOmittedColumns(t *testing.T) {
	_, store := newBankStore(t)

	id, err := store.Create(Row{"provider": "BankA", "alias": "Savings", "balance": 100.0, "limiter": 50.0})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := store.Replace(id, Row{"provider": "BankB", "balance": 1.0, "limiter": 0.0}); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	got, err := store.GetOne(id)
	if err != nil {
		t.Fatalf("GetOne() error = %v", err)
	}
	want := Row{"id": int64(1), "provider": "BankB", "alias": nil, "balance": 1.0, "limiter": 0.0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("row after Replace() mismatch (-want +got):\n%s", diff)
	}

	if err := store.Replace(id, Row{"provider": "BankC"}); !errors.Is(err, ErrValidation) {
		t.Errorf("Replace() without required fields error = %v, expected ErrValidation", err)
	}
	if err := store.Replace(77, Row{"provider": "X", "balance": 1.0, "limiter": 0.0}); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("Replace(77) error = %v, expected ErrRecordNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	_, store := newBankStore(t)

	id, err := store.Create(Row{"provider": "BankA", "balance": 0.0, "limiter": 0.0})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := store.Delete(id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	exists, err := store.Exists(id)
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("record still exists after Delete()")
	}

	if err := store.Delete(id); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("second Delete() error = %v, expected ErrRecordNotFound", err)
	}
}

func TestWithExecutorParticipatesInTransaction(t *testing.T) {
	conn, store := newBankStore(t)
	errAbort := errors.New("abort")

	err := conn.Transaction(func(tx *sql.Tx) error {
		if _, err := store.WithExecutor(tx).Create(Row{"provider": "BankA", "balance": 1.0, "limiter": 0.0}); err != nil {
			return err
		}
		return errAbort
	})
	if !errors.Is(err, errAbort) {
		t.Fatalf("Transaction() error = %v", err)
	}

	rows, err := store.GetMany()
	if err != nil {
		t.Fatalf("GetMany() error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rolled back insert is visible: %v", rows)
	}
}

func TestToRowColumnMismatch(t *testing.T) {
	_, err := toRow([]string{"id", "provider"}, []any{int64(1)})
	if !errors.Is(err, ErrColumnMismatch) {
		t.Fatalf("toRow() error = %v, expected ErrColumnMismatch", err)
	}

	row, err := toRow([]string{"provider"}, []any{[]byte("BankA")})
	if err != nil {
		t.Fatalf("toRow() error = %v", err)
	}
	if row["provider"] != "BankA" {
		t.Errorf("[]byte value not normalised: %#v", row["provider"])
	}
}

func TestQueryExecutionErrorWrapsDriverError(t *testing.T) {
	conn, store := newBankStore(t)

	if _, err := conn.Exec(`DROP TABLE banks`); err != nil {
		t.Fatalf("drop failed: %v", err)
	}

	_, err := store.GetMany()
	if !errors.Is(err, ErrQueryExecution) {
		t.Fatalf("GetMany() error = %v, expected ErrQueryExecution", err)
	}
	if !strings.Contains(err.Error(), "no such table") {
		t.Errorf("driver error not preserved: %q", err)
	}
}
