package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/financli/pkg/account"
	"github.com/shunichi-ikebuchi/financli/pkg/ledger"
)

var (
	moveType    string
	moveID      int64
	moveFlags   requestFlags
	txFlags     requestFlags
	amendFlags  requestFlags
	entryID     int64
	historyRef  string
	showEntryID int64
)

// depositCmd represents the deposit command.
var depositCmd = &cobra.Command{
	Use:   "deposit",
	Short: "Deposit money into an account",
	Long: `Deposit money into a bank account, or repay a card or loan.
The deposit is recorded in the transaction log.

Example:
  financli deposit --type bank --id 1 --amount 250 --description "Salary"
  financli deposit --type loan --id 1 --amount 210`,
	Run: func(cmd *cobra.Command, args []string) {
		runMovement(cmd, ledger.KindDeposit)
	},
}

// withdrawCmd represents the withdraw command.
var withdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Withdraw or spend money from an account",
	Long: `Withdraw money from a bank account or charge a card. Passing
--vendor records the withdrawal as a spend.

Example:
  financli withdraw --type bank --id 1 --amount 40
  financli withdraw --type "credit card" --id 1 --amount 12.50 --vendor Cafe --category food`,
	Run: func(cmd *cobra.Command, args []string) {
		runMovement(cmd, ledger.KindWithdraw)
	},
}

// transactionCmd represents the transaction command.
var transactionCmd = &cobra.Command{
	Use:   "transaction",
	Short: "Record a transfer, payment, deposit or withdrawal",
	Long: `Record one money movement. Every balance change and the log entry
are committed together, or not at all.

Kinds:
  withdraw    --from
  deposit     --to
  transfer    --from --to
  pay_only    --from [--to bill:<id> | subscription:<id>]

Example:
  financli transaction --kind transfer --from bank:1 --to "credit card:1" --amount 150
  financli transaction --kind pay_only --from bank:1 --to bill:2 --amount 32.99`,
	Run: runTransaction,
}

// historyCmd represents the history command.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the transaction log",
	Long: `Show every logged transaction, or only those touching one account.

Example:
  financli history
  financli history --account bank:1
  financli history --show 12`,
	Run: runHistory,
}

// amendCmd represents the amend command.
var amendCmd = &cobra.Command{
	Use:   "amend",
	Short: "Change a logged transaction",
	Long: `Reverse a logged transaction and apply it again with the given
changes. Flags that are not passed keep their logged values.

Example:
  financli amend --id 4 --amount 160`,
	Run: runAmend,
}

// voidCmd represents the void command.
var voidCmd = &cobra.Command{
	Use:   "void",
	Short: "Reverse a logged transaction",
	Long: `Undo a logged transaction's balance changes and mark it reversed.

Example:
  financli void --id 4`,
	Run: runVoid,
}

func init() {
	for _, c := range []*cobra.Command{depositCmd, withdrawCmd} {
		c.Flags().StringVar(&moveType, "type", "", "Account type (required)")
		c.Flags().Int64Var(&moveID, "id", 0, "Account ID (required)")
		moveFlags.register(c)
		c.Flags().MarkHidden("kind")
		c.Flags().MarkHidden("from")
		c.Flags().MarkHidden("to")
		c.MarkFlagRequired("type")
		c.MarkFlagRequired("id")
		c.MarkFlagRequired("amount")
	}

	txFlags.register(transactionCmd)
	transactionCmd.MarkFlagRequired("kind")
	transactionCmd.MarkFlagRequired("amount")

	amendFlags.register(amendCmd)
	for _, c := range []*cobra.Command{amendCmd, voidCmd} {
		c.Flags().Int64Var(&entryID, "id", 0, "Transaction ID (required)")
		c.MarkFlagRequired("id")
	}

	historyCmd.Flags().StringVar(&historyRef, "account", "", "Only show transactions for <type>:<id>")
	historyCmd.Flags().Int64Var(&showEntryID, "show", 0, "Show one transaction in full")
}

func runMovement(cmd *cobra.Command, kind ledger.Kind) {
	a := openApp(cmd)
	defer a.Close()

	t, err := account.ParseType(moveType)
	exitOnError(err, "invalid account type")

	req, err := moveFlags.apply(cmd, ledger.Request{Kind: kind})
	exitOnError(err, "invalid transaction")
	if kind == ledger.KindDeposit {
		req.DestinationType, req.DestinationID = t, moveID
	} else {
		req.SourceType, req.SourceID = t, moveID
	}

	execute(a, req)
}

func runTransaction(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	defer a.Close()

	req, err := txFlags.apply(cmd, ledger.Request{})
	exitOnError(err, "invalid transaction")

	execute(a, req)
}

func execute(a *app, req ledger.Request) {
	entry, err := a.ledger.Execute(req)
	exitOnError(err, "transaction failed")

	slog.Info("Recorded transaction", "id", entry.ID, "kind", entry.Kind, "reference", entry.Reference)
	a.printer.Success("Recorded %s %d of %s.", entry.Kind, entry.ID, a.printer.Money(entry.Amount))
	if entry.BalanceAfter.Valid {
		a.printer.Success("Balance is now %s.", a.printer.Money(entry.BalanceAfter.Decimal))
	}
}

func runHistory(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	defer a.Close()

	if showEntryID != 0 {
		entry, err := a.ledger.Entry(showEntryID)
		exitOnError(err, "failed to load transaction")
		exitOnError(a.printer.Entry(entry), "failed to print transaction")
		return
	}

	var entries []*ledger.Entry
	var err error
	if historyRef != "" {
		t, id, perr := parseAccountRef(historyRef)
		exitOnError(perr, "invalid --account")
		entries, err = a.ledger.HistoryFor(t, id)
	} else {
		entries, err = a.ledger.History()
	}
	exitOnError(err, "failed to read transaction log")

	exitOnError(a.printer.Entries(entries), "failed to print transactions")
}

func runAmend(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	defer a.Close()

	current, err := a.ledger.Entry(entryID)
	exitOnError(err, "failed to load transaction")

	req, err := amendFlags.apply(cmd, current.Request())
	exitOnError(err, "invalid transaction")

	entry, err := a.ledger.Amend(entryID, req)
	exitOnError(err, "amend failed")

	slog.Info("Amended transaction", "id", entry.ID)
	a.printer.Success("Amended %s %d: now %s.", entry.Kind, entry.ID, a.printer.Money(entry.Amount))
}

func runVoid(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	defer a.Close()

	exitOnError(a.ledger.Void(entryID), "void failed")

	slog.Info("Voided transaction", "id", entryID)
	a.printer.Success("Reversed transaction %d.", entryID)
}
