package export

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/shunichi-ikebuchi/financli/pkg/pathutil"
)

// Repository defines the interface for export file operations.
type Repository interface {
	// ExportPath returns the timestamped path for an export of one table
	ExportPath(name string, f Format) (string, error)

	// WriteFile creates path, including parent directories, and fills it
	WriteFile(path string, fill func(io.Writer) error) error

	// ReadRecords reads an import file, choosing the decoder by extension
	ReadRecords(path string) ([]Record, error)
}

// FileSystemRepository is an afero-backed implementation of Repository.
type FileSystemRepository struct {
	fs           afero.Fs
	pathResolver *pathutil.PathResolver
	now          func() time.Time
}

// NewFileSystemRepository creates a new FileSystemRepository.
func NewFileSystemRepository(fs afero.Fs, pathResolver *pathutil.PathResolver) *FileSystemRepository {
	return &FileSystemRepository{
		fs:           fs,
		pathResolver: pathResolver,
		now:          time.Now,
	}
}

// ExportPath returns <export dir>/<timestamp>-<name>_accounts.<ext>.
func (r *FileSystemRepository) ExportPath(name string, f Format) (string, error) {
	return r.pathResolver.GetExportFilePath(name, string(f), r.now())
}

// WriteFile writes a file through fill. A failed fill removes the partial
// file.
func (r *FileSystemRepository) WriteFile(path string, fill func(io.Writer) error) error {
	if err := r.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
	}

	f, err := r.fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := fill(f); err != nil {
		f.Close()
		r.fs.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	slog.Debug("Wrote export file", "path", path)
	return nil
}

// ReadRecords reads a JSON or CSV import file.
func (r *FileSystemRepository) ReadRecords(path string) ([]Record, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	exists, err := afero.Exists(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !exists {
		return nil, fmt.Errorf("file %s does not exist", path)
	}

	f, err := r.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return ReadRecords(f, format)
}
