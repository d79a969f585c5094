package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/financli/pkg/db"
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display ledger statistics",
	Long: `Display statistics about stored accounts and transactions.

Shows:
- Number of accounts of each type
- Total number of logged transactions
- Number of reversed transactions
- Last transaction timestamp

Example:
  financli stats`,
	Run: runStats,
}

func runStats(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	defer a.Close()

	// Get statistics
	stats, err := db.GetStats(a.conn)
	exitOnError(err, "failed to get statistics")

	// Display statistics
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\n=== Ledger Statistics ===")
	fmt.Fprintf(out, "%-22s %s\n", "database:", a.conn.GetPath())
	for _, tc := range stats.Accounts {
		fmt.Fprintf(out, "%-22s %d\n", tc.Table+":", tc.Count)
	}
	fmt.Fprintf(out, "%-22s %d\n", "transactions:", stats.TotalTransactions)
	fmt.Fprintf(out, "%-22s %d\n", "reversed:", stats.ReversedEntries)

	if stats.LastTransaction.Valid {
		fmt.Fprintf(out, "%-22s %s\n", "last transaction:", stats.LastTransaction.String)
	} else {
		fmt.Fprintf(out, "%-22s (never)\n", "last transaction:")
	}

	fmt.Fprintln(out)

	slog.Debug("Statistics displayed successfully")
}
