package db

import (
	"database/sql"
	"fmt"
)

// accountTables lists the per-type account tables in display order.
var accountTables = []string{
	TableBanks,
	TableCreditCards,
	TableStoreCards,
	TableLoans,
	TableBills,
	TableSubscriptions,
}

// TableCount is the number of rows held by one account table.
type TableCount struct {
	Table string
	Count int
}

// Stats represents ledger statistics.
type Stats struct {
	Accounts          []TableCount
	TotalTransactions int
	ReversedEntries   int
	LastTransaction   sql.NullString
}

// GetStats retrieves ledger statistics.
func GetStats(conn *Connection) (*Stats, error) {
	var stats Stats

	for _, table := range accountTables {
		var count int
		// Table names come from the fixed list above.
		err := conn.QueryRow(fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)).Scan(&count)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		stats.Accounts = append(stats.Accounts, TableCount{Table: table, Count: count})
	}

	err := conn.QueryRow(`SELECT COUNT(*) FROM transactions`).Scan(&stats.TotalTransactions)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction count: %w", err)
	}

	err = conn.QueryRow(`SELECT COUNT(*) FROM transactions WHERE status = 'reversed'`).Scan(&stats.ReversedEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to get reversed count: %w", err)
	}

	err = conn.QueryRow(`SELECT MAX(timestamp) FROM transactions`).Scan(&stats.LastTransaction)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get last transaction time: %w", err)
	}

	return &stats, nil
}
