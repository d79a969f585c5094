// Package db provides SQLite database management for the ledger.
package db

// Table names. Each account type owns one table; transactions is the
// ledger log.
const (
	TableBanks         = "banks"
	TableCreditCards   = "credit_cards"
	TableStoreCards    = "store_cards"
	TableLoans         = "loans"
	TableBills         = "bills"
	TableSubscriptions = "subscriptions"
	TableTransactions  = "transactions"
)

// Schema defines the SQL statements to create database tables.
// Monetary columns are REAL; the application rounds them to cents.
const Schema = `
CREATE TABLE IF NOT EXISTS banks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    provider TEXT NOT NULL,
    alias TEXT,
    balance REAL NOT NULL,
    limiter REAL NOT NULL
);

-- Debt accounts store balance <= 0 and limiter as the negative floor.
CREATE TABLE IF NOT EXISTS credit_cards (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    provider TEXT NOT NULL,
    balance REAL NOT NULL,
    limiter REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS store_cards (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    provider TEXT NOT NULL,
    balance REAL NOT NULL,
    limiter REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS loans (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    provider TEXT NOT NULL,
    balance REAL NOT NULL,
    monthly_charge REAL NOT NULL
);

-- Pay-only tables track a monthly charge, never a balance.
CREATE TABLE IF NOT EXISTS bills (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    provider TEXT NOT NULL,
    monthly_charge REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS subscriptions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    provider TEXT NOT NULL,
    monthly_charge REAL NOT NULL
);

-- Ledger entries. Destination columns are NULL for single-sided movements.
CREATE TABLE IF NOT EXISTS transactions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    reference TEXT NOT NULL UNIQUE,
    type TEXT NOT NULL,
    source_type TEXT,
    source_id INTEGER,
    source_provider TEXT,
    destination_type TEXT,
    destination_id INTEGER,
    destination_provider TEXT,
    amount REAL NOT NULL,
    description TEXT,
    timestamp TEXT NOT NULL,
    vendor TEXT,
    item TEXT,
    category TEXT,
    notes TEXT,
    balance_after REAL,
    status TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_timestamp
    ON transactions(timestamp);

CREATE INDEX IF NOT EXISTS idx_transactions_source
    ON transactions(source_type, source_id);
`

// InitializeSchema creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.Exec(Schema); err != nil {
		return err
	}
	return nil
}
