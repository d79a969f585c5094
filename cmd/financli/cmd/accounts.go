package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/financli/pkg/account"
)

var (
	listType    string
	accountType string
	accountID   int64
	openFlags   accountFlags
	updateFlags accountFlags
)

func typeNames() string {
	names := make([]string, 0, len(account.Types()))
	for _, t := range account.Types() {
		names = append(names, fmt.Sprintf("%q", t.String()))
	}
	return strings.Join(names, ", ")
}

// listCmd represents the list command.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	Long: `List the stored accounts of one type, or of every type.

Example:
  financli list
  financli list --type "credit card"`,
	Run: runList,
}

// openCmd represents the open command.
var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open an account",
	Long: `Open a new account of the given type.

Fields per type:
  bank                       --provider --balance --limiter [--alias]
  credit card, store card    --provider --balance --limiter
  loan                       --provider --balance --monthly-charge
  bill, subscription         --provider --monthly-charge

For cards and loans --balance is the amount owed and is stored negated.

Example:
  financli open --type bank --provider Barclays --balance 1200 --limiter 250
  financli open --type loan --provider "Car Finance" --balance 8000 --monthly-charge 210`,
	Run: runOpen,
}

// closeCmd represents the close command.
var closeCmd = &cobra.Command{
	Use:   "close",
	Short: "Close an account",
	Long: `Close an account. Accounts with a balance must be at zero first.

Example:
  financli close --type "store card" --id 2`,
	Run: runClose,
}

// updateCmd represents the update command.
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update account fields",
	Long: `Update the given fields of an account. Fields that are not passed
keep their stored values.

Example:
  financli update --type bank --id 1 --limiter 500`,
	Run: runUpdate,
}

func init() {
	listCmd.Flags().StringVar(&listType, "type", "", "Account type ("+typeNames()+")")

	for _, c := range []*cobra.Command{openCmd, closeCmd, updateCmd} {
		c.Flags().StringVar(&accountType, "type", "", "Account type ("+typeNames()+")")
		c.MarkFlagRequired("type")
	}
	for _, c := range []*cobra.Command{closeCmd, updateCmd} {
		c.Flags().Int64Var(&accountID, "id", 0, "Account ID (required)")
		c.MarkFlagRequired("id")
	}

	openFlags.register(openCmd)
	openCmd.MarkFlagRequired("provider")
	updateFlags.register(updateCmd)
}

func runList(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	defer a.Close()

	types := a.registry.Types()
	if listType != "" {
		types = []account.Type{a.policy(listType).Type()}
	}

	for i, t := range types {
		p, err := a.registry.Policy(t)
		exitOnError(err, "failed to list accounts")

		rows, err := p.Rows()
		exitOnError(err, "failed to list accounts")

		if i > 0 {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		exitOnError(a.printer.Accounts(t, p.Columns(), rows), "failed to print accounts")
	}
}

func runOpen(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	defer a.Close()

	p := a.policy(accountType)
	req, err := openFlags.openRequest(cmd, p.Type())
	exitOnError(err, "invalid account fields")

	id, err := p.Open(req)
	exitOnError(err, "failed to open account")

	slog.Info("Opened account", "type", p.Type(), "id", id)
	a.printer.Success("Opened %s account %d.", p.Type(), id)
}

func runClose(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	defer a.Close()

	p := a.policy(accountType)
	exitOnError(p.Close(accountID), "failed to close account")

	slog.Info("Closed account", "type", p.Type(), "id", accountID)
	a.printer.Success("Closed %s account %d.", p.Type(), accountID)
}

func runUpdate(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	defer a.Close()

	p := a.policy(accountType)
	req, err := updateFlags.updateRequest(cmd)
	exitOnError(err, "invalid account fields")

	exitOnError(p.Update(accountID, req), "failed to update account")

	slog.Info("Updated account", "type", p.Type(), "id", accountID)
	a.printer.Success("Updated %s account %d.", p.Type(), accountID)
}
