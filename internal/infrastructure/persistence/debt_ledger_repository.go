package persistence

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/drump2112/SWP-sub001/internal/domain/debt"
	"github.com/drump2112/SWP-sub001/internal/domain/partner"
	"github.com/drump2112/SWP-sub001/internal/domain/shared"
)

// GormLedgerRepository implements LedgerRepository using GORM
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// SumBalance returns the outstanding balance, debits minus credits, for
// a customer. A nil store sums across all stores.
func (r *GormLedgerRepository) SumBalance(ctx context.Context, customerID uint, storeID *uint) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).
		Model(&debt.LedgerEntry{}).
		Select("COALESCE(SUM(debit - credit), 0)").
		Where("customer_id = ?", customerID)
	if storeID != nil {
		query = query.Where("store_id = ?", *storeID)
	}

	var balance decimal.Decimal
	if err := query.Scan(&balance).Error; err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// SumBalances returns outstanding balances for multiple customers keyed
// by customer ID
func (r *GormLedgerRepository) SumBalances(ctx context.Context, customerIDs []uint, storeID *uint) (map[uint]decimal.Decimal, error) {
	balances := make(map[uint]decimal.Decimal, len(customerIDs))
	if len(customerIDs) == 0 {
		return balances, nil
	}

	query := r.db.WithContext(ctx).
		Model(&debt.LedgerEntry{}).
		Select("customer_id, COALESCE(SUM(debit - credit), 0) AS balance").
		Where("customer_id IN ?", customerIDs).
		Group("customer_id")
	if storeID != nil {
		query = query.Where("store_id = ?", *storeID)
	}

	var rows []struct {
		CustomerID uint
		Balance    decimal.Decimal
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		balances[row.CustomerID] = row.Balance
	}
	return balances, nil
}

// FindEntries returns ledger entries matching the query ordered by
// transaction date then ID, oldest first
func (r *GormLedgerRepository) FindEntries(ctx context.Context, query debt.LedgerQuery) ([]debt.LedgerEntry, error) {
	q := r.db.WithContext(ctx).
		Where("customer_id = ?", query.CustomerID)
	if query.StoreID != nil {
		q = q.Where("store_id = ?", *query.StoreID)
	}
	if query.From != nil {
		q = q.Where("transaction_date >= ?", *query.From)
	}
	if query.To != nil {
		q = q.Where("transaction_date <= ?", *query.To)
	}

	var entries []debt.LedgerEntry
	if err := q.Order("transaction_date ASC, id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindEntryByID finds a ledger entry by its ID
func (r *GormLedgerRepository) FindEntryByID(ctx context.Context, id uint) (*debt.LedgerEntry, error) {
	var entry debt.LedgerEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// CreateDebtSale persists the sale lines and their single summary
// ledger entry in one transaction. The entry's RefID points at the
// first sale line of the group.
func (r *GormLedgerRepository) CreateDebtSale(ctx context.Context, sales []*debt.Sale, entry *debt.LedgerEntry) (*debt.LedgerEntry, error) {
	if len(sales) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Debt sale requires at least one sale line")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, sale := range sales {
			if err := tx.Create(sale).Error; err != nil {
				return err
			}
		}

		entry.RefID = &sales[0].ID
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// CreateEntry persists a single ledger entry
func (r *GormLedgerRepository) CreateEntry(ctx context.Context, entry *debt.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ImportOpeningBalances persists a batch of opening-balance entries in
// one transaction, creating the customer-store link for each entry when
// it is missing. A failure on any row rolls back the whole batch.
func (r *GormLedgerRepository) ImportOpeningBalances(ctx context.Context, storeID uint, entries []*debt.LedgerEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			link := partner.NewCustomerStore(entry.CustomerID, storeID)
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(link).Error; err != nil {
				return err
			}
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindOpeningBalances lists opening-balance entries, optionally scoped
// to a store, newest first
func (r *GormLedgerRepository) FindOpeningBalances(ctx context.Context, storeID *uint) ([]debt.LedgerEntry, error) {
	q := r.db.WithContext(ctx).
		Where("ref_type = ?", debt.RefTypeOpeningBalance)
	if storeID != nil {
		q = q.Where("store_id = ?", *storeID)
	}

	var entries []debt.LedgerEntry
	if err := q.Order("transaction_date DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// UpdateOpeningBalance rewrites the amount and description of an
// opening-balance entry
func (r *GormLedgerRepository) UpdateOpeningBalance(ctx context.Context, id uint, amount decimal.Decimal, description string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry debt.LedgerEntry
		if err := tx.First(&entry, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		if entry.RefType != debt.RefTypeOpeningBalance {
			return shared.NewDomainError("INVALID_STATE", "Only opening-balance entries can be rewritten")
		}

		debit, credit := amount, decimal.Zero
		if amount.IsNegative() {
			debit, credit = decimal.Zero, amount.Neg()
		}
		return tx.Model(&entry).Updates(map[string]interface{}{
			"debit":       debit,
			"credit":      credit,
			"description": description,
		}).Error
	})
}

// DeleteEntry removes a ledger entry
func (r *GormLedgerRepository) DeleteEntry(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&debt.LedgerEntry{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountNonOpening counts entries other than opening balances for a
// customer at a store
func (r *GormLedgerRepository) CountNonOpening(ctx context.Context, customerID, storeID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&debt.LedgerEntry{}).
		Where("customer_id = ? AND store_id = ? AND ref_type <> ?", customerID, storeID, debt.RefTypeOpeningBalance).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormLedgerRepository implements LedgerRepository
var _ debt.LedgerRepository = (*GormLedgerRepository)(nil)
