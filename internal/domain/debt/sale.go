package debt

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/drump2112/SWP-sub001/internal/domain/shared"
)

// PaymentMethodDebt marks sales settled against the customer's debt
// ledger rather than paid at the pump.
const PaymentMethodDebt = "DEBT"

// Sale is one fuel sale line. A debt sale groups several lines under a
// single ledger entry.
type Sale struct {
	ID            uint            `gorm:"primaryKey"`
	StoreID       uint            `gorm:"not null;index"`
	ShiftID       *uint           `gorm:"index"`
	CustomerID    uint            `gorm:"not null;index"`
	ProductID     uint            `gorm:"not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,3);not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(20);not null;default:'DEBT'"`
	SoldAt        time.Time       `gorm:"not null"`
	CreatedAt     time.Time
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewDebtSale builds a sale line for a debt transaction. The line total
// is quantity times unit price rounded half-up to whole currency units.
func NewDebtSale(storeID uint, shiftID *uint, customerID, productID uint, quantity, unitPrice decimal.Decimal, soldAt time.Time) (*Sale, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &Sale{
		StoreID:       storeID,
		ShiftID:       shiftID,
		CustomerID:    customerID,
		ProductID:     productID,
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		TotalAmount:   quantity.Mul(unitPrice).Round(0),
		PaymentMethod: PaymentMethodDebt,
		SoldAt:        soldAt,
	}, nil
}

// TotalOf sums the line totals of a debt sale
func TotalOf(sales []*Sale) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sales {
		total = total.Add(s.TotalAmount)
	}
	return total
}
