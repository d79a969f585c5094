package export

import (
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/shunichi-ikebuchi/financli/pkg/pathutil"
)

func newMemFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
	return fs
}

func newTestRepository(fs afero.Fs) *FileSystemRepository {
	r := NewFileSystemRepository(fs, pathutil.New(pathutil.Config{Home: "/data"}))
	r.now = func() time.Time { return time.Date(2024, 1, 31, 18, 5, 0, 0, time.UTC) }
	return r
}

func TestExportPath(t *testing.T) {
	r := newTestRepository(afero.NewMemMapFs())

	path, err := r.ExportPath("store card", FormatYAML)
	if err != nil {
		t.Fatalf("ExportPath() error = %v", err)
	}
	if path != "/data/exports/2024-01-31-18-05-store_card_accounts.yaml" {
		t.Errorf("ExportPath() = %q", path)
	}
}

func TestWriteFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	r := newTestRepository(fs)
	path := "/data/exports/nested/out.csv"

	err := r.WriteFile(path, func(w io.Writer) error {
		return Write(w, FormatCSV, bankTable())
	})
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("export not written: %v", err)
	}
	if len(data) == 0 {
		t.Error("export file is empty")
	}
}

func TestWriteFileRemovesPartialOutput(t *testing.T) {
	fs := afero.NewMemMapFs()
	r := newTestRepository(fs)
	path := "/data/exports/out.json"
	boom := errors.New("boom")

	err := r.WriteFile(path, func(w io.Writer) error {
		fmt.Fprint(w, "[")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WriteFile() error = %v, expected boom", err)
	}
	if exists, _ := afero.Exists(fs, path); exists {
		t.Error("partial export left behind")
	}
}

func TestRepositoryReadRecords(t *testing.T) {
	fs := newMemFs(t, map[string]string{
		"/in/banks.csv":  "provider,balance,limiter\nBankA,10,0\n",
		"/in/banks.json": `[{"provider": "BankB", "balance": 1, "limiter": 0}]`,
		"/in/banks.txt":  "provider: BankC",
	})
	r := newTestRepository(fs)

	for path, provider := range map[string]string{"/in/banks.csv": "BankA", "/in/banks.json": "BankB"} {
		records, err := r.ReadRecords(path)
		if err != nil {
			t.Fatalf("ReadRecords(%s) error = %v", path, err)
		}
		if len(records) != 1 || records[0]["provider"] != provider {
			t.Errorf("ReadRecords(%s) = %v", path, records)
		}
	}

	for _, path := range []string{"/in/banks.txt", "/in/missing.csv", "/in/noext"} {
		if _, err := r.ReadRecords(path); err == nil {
			t.Errorf("ReadRecords(%s) expected error", path)
		}
	}
}
