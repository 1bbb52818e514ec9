package partner

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerStore links a customer to a store they transact at, carrying
// the per-store credit-limit override and bypass state. The pair
// (CustomerID, StoreID) forms the primary key.
type CustomerStore struct {
	CustomerID        uint             `gorm:"primaryKey;autoIncrement:false"`
	StoreID           uint             `gorm:"primaryKey;autoIncrement:false"`
	CreditLimit       *decimal.Decimal `gorm:"type:decimal(18,2)"` // nil inherits the global limit
	BypassCreditLimit bool             `gorm:"not null;default:false"`
	BypassUntil       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName returns the table name for GORM
func (CustomerStore) TableName() string {
	return "customer_stores"
}

// NewCustomerStore creates a customer-store link with no overrides
func NewCustomerStore(customerID, storeID uint) *CustomerStore {
	return &CustomerStore{
		CustomerID: customerID,
		StoreID:    storeID,
	}
}

// HasOverride returns true if a per-store credit limit is set
func (cs *CustomerStore) HasOverride() bool {
	return cs.CreditLimit != nil
}

// SetBypass enables the store-level bypass, optionally time-boxed
func (cs *CustomerStore) SetBypass(until *time.Time) {
	cs.BypassCreditLimit = true
	cs.BypassUntil = until
	cs.UpdatedAt = time.Now()
}

// ClearBypass disables the store-level bypass
func (cs *CustomerStore) ClearBypass() {
	cs.BypassCreditLimit = false
	cs.BypassUntil = nil
	cs.UpdatedAt = time.Now()
}
