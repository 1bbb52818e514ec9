package debt

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/drump2112/SWP-sub001/internal/domain/shared"
)

// RefType identifies the kind of source document behind a ledger entry
type RefType string

const (
	RefTypeSale           RefType = "SALE"
	RefTypeOpeningBalance RefType = "OPENING_BALANCE"
	RefTypePayment        RefType = "PAYMENT"
	RefTypeReceipt        RefType = "RECEIPT"
	RefTypeAdjust         RefType = "ADJUST"
)

// IsValid returns true for a known reference type
func (rt RefType) IsValid() bool {
	switch rt {
	case RefTypeSale, RefTypeOpeningBalance, RefTypePayment, RefTypeReceipt, RefTypeAdjust:
		return true
	}
	return false
}

// LedgerEntry is one append-only row of the customer debt ledger.
// Debit increases the customer's outstanding debt, credit decreases it.
// Rows are never mutated after the fact except for opening-balance
// corrections.
type LedgerEntry struct {
	ID              uint            `gorm:"primaryKey"`
	CustomerID      uint            `gorm:"not null;index:idx_debt_ledger_customer"`
	StoreID         *uint           `gorm:"index:idx_debt_ledger_store"`
	TransactionDate time.Time       `gorm:"not null;index"`
	RefType         RefType         `gorm:"type:varchar(30);not null"`
	RefID           *uint
	Debit           decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Credit          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Description     string          `gorm:"type:text"`
	CreatedAt       time.Time
}

// TableName returns the table name for GORM
func (LedgerEntry) TableName() string {
	return "debt_ledger"
}

// Amount returns the signed debt movement of the entry
func (e *LedgerEntry) Amount() decimal.Decimal {
	return e.Debit.Sub(e.Credit)
}

// NewSaleEntry builds the single debit row summarizing a debt sale.
// RefID is filled in at persistence time with the ID of the first sale
// line of the group.
func NewSaleEntry(customerID, storeID uint, total decimal.Decimal, date time.Time, description string) (*LedgerEntry, error) {
	if !total.GreaterThan(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Debt sale total must be positive")
	}
	sid := storeID
	return &LedgerEntry{
		CustomerID:      customerID,
		StoreID:         &sid,
		TransactionDate: date,
		RefType:         RefTypeSale,
		Debit:           total,
		Credit:          decimal.Zero,
		Description:     description,
	}, nil
}

// NewOpeningBalanceEntry builds an opening-balance row. A positive
// amount is carried-over debt (debit); a negative amount is a
// carried-over credit. Zero is allowed and records an explicit zero
// starting point.
func NewOpeningBalanceEntry(customerID, storeID uint, amount decimal.Decimal, date time.Time, description string) *LedgerEntry {
	sid := storeID
	entry := &LedgerEntry{
		CustomerID:      customerID,
		StoreID:         &sid,
		TransactionDate: date,
		RefType:         RefTypeOpeningBalance,
		Debit:           decimal.Zero,
		Credit:          decimal.Zero,
		Description:     description,
	}
	if amount.IsNegative() {
		entry.Credit = amount.Neg()
	} else {
		entry.Debit = amount
	}
	return entry
}

// NewPaymentEntry builds a credit row for a customer payment
func NewPaymentEntry(customerID, storeID uint, refID *uint, amount decimal.Decimal, date time.Time, description string) (*LedgerEntry, error) {
	if !amount.GreaterThan(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	sid := storeID
	return &LedgerEntry{
		CustomerID:      customerID,
		StoreID:         &sid,
		TransactionDate: date,
		RefType:         RefTypePayment,
		RefID:           refID,
		Debit:           decimal.Zero,
		Credit:          amount,
		Description:     description,
	}, nil
}
