package debt

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/drump2112/SWP-sub001/internal/domain/debt"
)

// =============================================================================
// Balance and statement DTOs
// =============================================================================

// BalanceResponse reports a customer's outstanding debt
type BalanceResponse struct {
	CustomerID uint            `json:"customer_id"`
	StoreID    *uint           `json:"store_id"`
	Balance    decimal.Decimal `json:"balance"`
}

// StatementLineResponse is one ledger row with its running balance
type StatementLineResponse struct {
	ID              uint            `json:"id"`
	StoreID         *uint           `json:"store_id"`
	TransactionDate time.Time       `json:"transaction_date"`
	RefType         string          `json:"ref_type"`
	RefID           *uint           `json:"ref_id"`
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
	Description     string          `json:"description"`
	RunningBalance  decimal.Decimal `json:"running_balance"`
}

// StatementResponse is the ordered ledger of a customer with running
// balances and the closing total
type StatementResponse struct {
	CustomerID uint                    `json:"customer_id"`
	StoreID    *uint                   `json:"store_id"`
	Lines      []StatementLineResponse `json:"lines"`
	Balance    decimal.Decimal         `json:"balance"`
}

// StatementFilter narrows a statement request
type StatementFilter struct {
	StoreID *uint      `form:"store_id"`
	From    *time.Time `form:"from" time_format:"2006-01-02"`
	To      *time.Time `form:"to" time_format:"2006-01-02"`
}

// =============================================================================
// Credit status DTOs
// =============================================================================

// CreditStatusResponse reports a customer's standing against their
// effective credit limit
type CreditStatusResponse struct {
	CustomerID      uint            `json:"customer_id"`
	CustomerCode    string          `json:"customer_code"`
	CustomerName    string          `json:"customer_name"`
	CustomerType    string          `json:"customer_type"`
	StoreID         *uint           `json:"store_id"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	LimitSource     string          `json:"limit_source"`
	CurrentDebt     decimal.Decimal `json:"current_debt"`
	AvailableCredit decimal.Decimal `json:"available_credit"`
	UsagePercent    decimal.Decimal `json:"usage_percent"`
	IsBypassed      bool            `json:"is_bypassed"`
	BypassLevel     string          `json:"bypass_level"`
	BypassUntil     *time.Time      `json:"bypass_until"`
	WarningLevel    string          `json:"warning_level"`
}

// ValidateDebtLimitRequest asks whether a prospective debt amount fits
// under the customer's limit
type ValidateDebtLimitRequest struct {
	StoreID   uint            `json:"store_id" binding:"required"`
	NewAmount decimal.Decimal `json:"new_amount" binding:"required"`
}

// ValidateDebtLimitResponse is the advisory verdict; the write path
// never enforces it
type ValidateDebtLimitResponse struct {
	IsValid      bool            `json:"is_valid"`
	IsBypassed   bool            `json:"is_bypassed"`
	CreditLimit  decimal.Decimal `json:"credit_limit"`
	CurrentDebt  decimal.Decimal `json:"current_debt"`
	TotalDebt    decimal.Decimal `json:"total_debt"`
	ExceedAmount decimal.Decimal `json:"exceed_amount"`
	Message      string          `json:"message"`
}

// StoreCreditLimitRow is one store's view of a customer's credit setup
type StoreCreditLimitRow struct {
	StoreID        uint             `json:"store_id"`
	StoreName      string           `json:"store_name"`
	OverrideLimit  *decimal.Decimal `json:"override_limit"`
	EffectiveLimit decimal.Decimal  `json:"effective_limit"`
	LimitSource    string           `json:"limit_source"`
	CurrentDebt    decimal.Decimal  `json:"current_debt"`
	IsBypassed     bool             `json:"is_bypassed"`
	BypassUntil    *time.Time       `json:"bypass_until"`
}

// StoreCreditLimitsResponse groups the global default with per-store rows
type StoreCreditLimitsResponse struct {
	CustomerID  uint                  `json:"customer_id"`
	GlobalLimit decimal.Decimal       `json:"global_limit"`
	Stores      []StoreCreditLimitRow `json:"stores"`
}

// UpdateStoreCreditLimitRequest upserts a per-store override; a null
// limit clears the override back to inheriting the global default
type UpdateStoreCreditLimitRequest struct {
	CreditLimit *decimal.Decimal `json:"credit_limit"`
}

// SetBypassRequest enables or disables a credit-limit bypass,
// optionally time-boxed
type SetBypassRequest struct {
	Enabled bool       `json:"enabled"`
	Until   *time.Time `json:"until"`
}

// BypassStatusResponse reports the current bypass evaluation
type BypassStatusResponse struct {
	IsBypassed  bool       `json:"is_bypassed"`
	Level       string     `json:"level"`
	BypassUntil *time.Time `json:"bypass_until"`
	IsExpired   bool       `json:"is_expired"`
}

// =============================================================================
// Debt sale DTOs
// =============================================================================

// DebtSaleItem is one line of a debt sale
type DebtSaleItem struct {
	ProductID uint            `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

// CreateDebtSaleRequest records a shift-based credit sale
type CreateDebtSaleRequest struct {
	CustomerID  uint           `json:"customer_id" binding:"required"`
	StoreID     uint           `json:"store_id" binding:"required"`
	ShiftID     *uint          `json:"shift_id"`
	SoldAt      *time.Time     `json:"sold_at"`
	Description string         `json:"description"`
	Items       []DebtSaleItem `json:"items" binding:"required,min=1,dive"`
}

// DebtSaleResponse returns the persisted sale lines and their summary
// ledger entry
type DebtSaleResponse struct {
	Sales       []SaleResponse      `json:"sales"`
	LedgerEntry LedgerEntryResponse `json:"ledger_entry"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
}

// SaleResponse represents one persisted sale line
type SaleResponse struct {
	ID          uint            `json:"id"`
	StoreID     uint            `json:"store_id"`
	ShiftID     *uint           `json:"shift_id"`
	CustomerID  uint            `json:"customer_id"`
	ProductID   uint            `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	SoldAt      time.Time       `json:"sold_at"`
}

// LedgerEntryResponse represents one persisted ledger row
type LedgerEntryResponse struct {
	ID              uint            `json:"id"`
	CustomerID      uint            `json:"customer_id"`
	StoreID         *uint           `json:"store_id"`
	TransactionDate time.Time       `json:"transaction_date"`
	RefType         string          `json:"ref_type"`
	RefID           *uint           `json:"ref_id"`
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
	Description     string          `json:"description"`
}

// =============================================================================
// Opening balance DTOs
// =============================================================================

// OpeningBalanceImportItem is one row of an opening-balance import
type OpeningBalanceImportItem struct {
	CustomerCode   string          `json:"customer_code"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Description    string          `json:"description"`
}

// ImportOpeningBalancesRequest imports opening balances for one store
// as of a caller-supplied date
type ImportOpeningBalancesRequest struct {
	StoreID         uint                       `json:"store_id" binding:"required"`
	TransactionDate time.Time                  `json:"transaction_date" binding:"required" time_format:"2006-01-02"`
	Items           []OpeningBalanceImportItem `json:"items" binding:"required,min=1"`
}

// OpeningBalanceRecordResponse lists one opening-balance entry with
// resolved customer and store names
type OpeningBalanceRecordResponse struct {
	ID              uint            `json:"id"`
	CustomerID      uint            `json:"customer_id"`
	CustomerCode    string          `json:"customer_code"`
	CustomerName    string          `json:"customer_name"`
	StoreID         *uint           `json:"store_id"`
	StoreName       string          `json:"store_name"`
	TransactionDate time.Time       `json:"transaction_date"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
}

// UpdateOpeningBalanceRequest rewrites an opening-balance entry
type UpdateOpeningBalanceRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// ToSaleResponse converts a domain Sale
func ToSaleResponse(s *debt.Sale) SaleResponse {
	return SaleResponse{
		ID:          s.ID,
		StoreID:     s.StoreID,
		ShiftID:     s.ShiftID,
		CustomerID:  s.CustomerID,
		ProductID:   s.ProductID,
		Quantity:    s.Quantity,
		UnitPrice:   s.UnitPrice,
		TotalAmount: s.TotalAmount,
		SoldAt:      s.SoldAt,
	}
}

// ToLedgerEntryResponse converts a domain LedgerEntry
func ToLedgerEntryResponse(e *debt.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:              e.ID,
		CustomerID:      e.CustomerID,
		StoreID:         e.StoreID,
		TransactionDate: e.TransactionDate,
		RefType:         string(e.RefType),
		RefID:           e.RefID,
		Debit:           e.Debit,
		Credit:          e.Credit,
		Description:     e.Description,
	}
}
