package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/financli/pkg/export"
)

// transactionTable is the --type value that selects the transaction log.
const transactionTable = "transaction"

var (
	exportType    string
	exportFormat  string
	exportPath    string
	exportMapping string
	exportForce   bool
	importType    string
	importFile    string
)

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export accounts or the transaction log to a file",
	Long: `Export every account of one type, or the transaction log, to a file.

Formats: json, csv, txt, yaml. The transaction log can also be exported
as beancount, optionally with a YAML account mapping file.

Files are written to <export dir>/<YYYY-MM-DD-HH-MM>-<type>_accounts.<format>
unless --path is given.

Example:
  financli export --type bank --format csv
  financli export --type transaction --format beancount --mapping mapping.yaml`,
	Run: runExport,
}

// importCmd represents the import command.
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import accounts from a JSON or CSV file",
	Long: `Open one account per record of a JSON or CSV file. Records that
fail validation are reported and skipped.

Example:
  financli import --type "credit card" --file cards.csv`,
	Run: runImport,
}

func init() {
	exportCmd.Flags().StringVar(&exportType, "type", "", "Account type, or \"transaction\" (required)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", formatNames()+" or beancount")
	exportCmd.Flags().StringVar(&exportPath, "path", "", "Output file or directory (default is the export directory)")
	exportCmd.Flags().BoolVar(&exportForce, "force", false, "Overwrite an existing output file")
	exportCmd.Flags().StringVar(&exportMapping, "mapping", "", "Beancount account mapping YAML")
	exportCmd.MarkFlagRequired("type")

	importCmd.Flags().StringVar(&importType, "type", "", "Account type (required)")
	importCmd.Flags().StringVar(&importFile, "file", "", "JSON or CSV file (required)")
	importCmd.MarkFlagRequired("type")
	importCmd.MarkFlagRequired("file")
}

func runExport(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	defer a.Close()

	format, err := export.ParseFormat(exportFormat)
	exitOnError(err, "invalid export format")

	fs := afero.NewOsFs()
	repo := export.NewFileSystemRepository(fs, a.pathResolver)

	var (
		name  string
		fill  func(io.Writer) error
		count int
	)
	if strings.EqualFold(strings.TrimSpace(exportType), transactionTable) {
		name = transactionTable
		fill, count = transactionExport(a, fs, format)
	} else {
		p := a.policy(exportType)
		name = p.Type().String()
		if format == export.FormatBeancount {
			exitOnError(errBeancountAccounts, "invalid export format")
		}
		table, err := export.Collect(name, p)
		exitOnError(err, "failed to read accounts")
		count = len(table.Rows)
		fill = func(w io.Writer) error { return export.Write(w, format, table) }
	}

	if count == 0 {
		a.printer.Warn("No %s records found to export.", name)
		return
	}

	path, err := repo.ExportPath(name, format)
	exitOnError(err, "failed to build export path")
	if exportPath != "" {
		if a.pathResolver.IsDir(exportPath) {
			path = filepath.Join(exportPath, filepath.Base(path))
		} else {
			path = exportPath
		}
	}
	if a.pathResolver.FileExists(path) && !exportForce {
		exitOnError(fmt.Errorf("%s already exists; pass --force to overwrite it", path), "export failed")
	}
	exitOnError(repo.WriteFile(path, fill), "export failed")

	slog.Info("Exported records", "type", name, "format", format, "count", count, "path", path)
	a.printer.Success("Exported %d %s records to %s", count, name, path)
}

var errBeancountAccounts = errors.New("beancount export is only available for --type transaction")

func transactionExport(a *app, fs afero.Fs, format export.Format) (func(io.Writer) error, int) {
	if format != export.FormatBeancount {
		table, err := export.Collect(transactionTable, a.ledger)
		exitOnError(err, "failed to read transaction log")
		return func(w io.Writer) error { return export.Write(w, format, table) }, len(table.Rows)
	}

	mapper := export.NewMapper(export.MappingConfig{})
	if exportMapping != "" {
		var err error
		mapper, err = export.LoadMapper(fs, exportMapping)
		exitOnError(err, "failed to load account mapping")
	}
	converter := export.NewConverter(mapper, export.Commodity(a.settings.CurrencySymbol))

	entries, err := a.ledger.History()
	exitOnError(err, "failed to read transaction log")
	return func(w io.Writer) error {
		return converter.WriteBeancount(w, entries, time.Now())
	}, len(entries)
}

func formatNames() string {
	names := make([]string, 0, len(export.Formats()))
	for _, f := range export.Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

func runImport(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	defer a.Close()

	p := a.policy(importType)
	repo := export.NewFileSystemRepository(afero.NewOsFs(), a.pathResolver)

	records, err := repo.ReadRecords(importFile)
	exitOnError(err, "failed to read import file")

	result := export.Import(p, records)
	for _, f := range result.Failures {
		a.printer.Fail("Failed to import record %d: %v", f.Index, f.Err)
	}

	slog.Info("Imported records", "type", p.Type(), "imported", result.Imported, "total", result.Total)
	if result.Imported == result.Total {
		a.printer.Success("%s", result.Summary(p.Type()))
	} else {
		a.printer.Warn("%s", result.Summary(p.Type()))
	}
}
