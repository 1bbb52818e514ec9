package debt

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerQuery narrows ledger reads. Nil fields are not filtered on.
type LedgerQuery struct {
	CustomerID uint
	StoreID    *uint
	From       *time.Time
	To         *time.Time
}

// OpeningBalanceItem is one row of an opening-balance import batch
type OpeningBalanceItem struct {
	CustomerCode   string
	OpeningBalance decimal.Decimal
	Description    string
}

// ImportRowError reports why one import row was rejected. Row numbers
// are 1-based to match the uploaded sheet.
type ImportRowError struct {
	Row          int    `json:"row"`
	CustomerCode string `json:"customer_code"`
	Message      string `json:"message"`
}

// ImportResult summarizes an opening-balance batch import
type ImportResult struct {
	Success   int              `json:"success"`
	Failed    int              `json:"failed"`
	Errors    []ImportRowError `json:"errors"`
	LedgerIDs []uint           `json:"ledger_ids"`
}

// LedgerRepository defines the interface for debt ledger persistence
type LedgerRepository interface {
	// SumBalance returns the outstanding balance, debits minus credits,
	// for a customer. A nil store sums across all stores.
	SumBalance(ctx context.Context, customerID uint, storeID *uint) (decimal.Decimal, error)

	// SumBalances returns outstanding balances for multiple customers
	// keyed by customer ID. Customers with no entries are omitted.
	SumBalances(ctx context.Context, customerIDs []uint, storeID *uint) (map[uint]decimal.Decimal, error)

	// FindEntries returns ledger entries matching the query ordered by
	// transaction date then ID, oldest first
	FindEntries(ctx context.Context, query LedgerQuery) ([]LedgerEntry, error)

	// FindEntryByID finds a ledger entry by its ID
	FindEntryByID(ctx context.Context, id uint) (*LedgerEntry, error)

	// CreateDebtSale persists the sale lines and their single summary
	// ledger entry atomically and returns the entry
	CreateDebtSale(ctx context.Context, sales []*Sale, entry *LedgerEntry) (*LedgerEntry, error)

	// CreateEntry persists a single ledger entry
	CreateEntry(ctx context.Context, entry *LedgerEntry) error

	// ImportOpeningBalances persists a batch of opening-balance entries
	// and their customer-store links in one transaction. Either every
	// entry is written or none of them.
	ImportOpeningBalances(ctx context.Context, storeID uint, entries []*LedgerEntry) error

	// FindOpeningBalances lists opening-balance entries, optionally
	// scoped to a store, newest first
	FindOpeningBalances(ctx context.Context, storeID *uint) ([]LedgerEntry, error)

	// UpdateOpeningBalance rewrites the amount and description of an
	// opening-balance entry
	UpdateOpeningBalance(ctx context.Context, id uint, amount decimal.Decimal, description string) error

	// DeleteEntry removes a ledger entry
	DeleteEntry(ctx context.Context, id uint) error

	// CountNonOpening counts entries other than opening balances for a
	// customer at a store. Guards opening-balance edits once trading
	// activity exists.
	CountNonOpening(ctx context.Context, customerID, storeID uint) (int64, error)
}
