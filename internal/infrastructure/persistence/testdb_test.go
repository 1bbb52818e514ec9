package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database with the ledger
// schema for repository tests
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE stores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			address TEXT,
			phone TEXT,
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE customers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			tax_code TEXT UNIQUE,
			address TEXT,
			phone TEXT,
			type TEXT NOT NULL DEFAULT 'EXTERNAL',
			credit_limit DECIMAL(18,2) NOT NULL DEFAULT 0,
			bypass_credit_limit INTEGER NOT NULL DEFAULT 0,
			bypass_until DATETIME,
			is_active INTEGER NOT NULL DEFAULT 1,
			notes TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE customer_stores (
			customer_id INTEGER NOT NULL,
			store_id INTEGER NOT NULL,
			credit_limit DECIMAL(18,2),
			bypass_credit_limit INTEGER NOT NULL DEFAULT 0,
			bypass_until DATETIME,
			created_at DATETIME,
			updated_at DATETIME,
			PRIMARY KEY (customer_id, store_id)
		)`,
		`CREATE TABLE debt_ledger (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			customer_id INTEGER NOT NULL,
			store_id INTEGER,
			transaction_date DATETIME NOT NULL,
			ref_type TEXT NOT NULL,
			ref_id INTEGER,
			debit DECIMAL(18,2) NOT NULL DEFAULT 0,
			credit DECIMAL(18,2) NOT NULL DEFAULT 0,
			description TEXT,
			created_at DATETIME
		)`,
		`CREATE TABLE sales (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			store_id INTEGER NOT NULL,
			shift_id INTEGER,
			customer_id INTEGER NOT NULL,
			product_id INTEGER NOT NULL,
			quantity DECIMAL(18,3) NOT NULL,
			unit_price DECIMAL(18,2) NOT NULL,
			total_amount DECIMAL(18,2) NOT NULL,
			payment_method TEXT NOT NULL DEFAULT 'DEBT',
			sold_at DATETIME NOT NULL,
			created_at DATETIME
		)`,
	}

	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}
