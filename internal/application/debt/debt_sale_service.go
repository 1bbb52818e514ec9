package debt

import (
	"context"
	"fmt"
	"time"

	"github.com/drump2112/SWP-sub001/internal/domain/debt"
	"github.com/drump2112/SWP-sub001/internal/domain/partner"
	"github.com/drump2112/SWP-sub001/internal/domain/shared"
)

// DebtSaleService records shift-based credit sales. The write is
// all-or-nothing: the sale lines and their single summary ledger entry
// either all persist or none do. The credit limit is deliberately not
// enforced here; callers run ValidateDebtLimit first and decide.
type DebtSaleService struct {
	customerRepo partner.CustomerRepository
	ledgerRepo   debt.LedgerRepository
}

// NewDebtSaleService creates a new DebtSaleService
func NewDebtSaleService(customerRepo partner.CustomerRepository, ledgerRepo debt.LedgerRepository) *DebtSaleService {
	return &DebtSaleService{
		customerRepo: customerRepo,
		ledgerRepo:   ledgerRepo,
	}
}

// CreateDebtSale persists the sale lines and one aggregated ledger
// debit row in a single transaction
func (s *DebtSaleService) CreateDebtSale(ctx context.Context, req CreateDebtSaleRequest) (*DebtSaleResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive {
		return nil, shared.ErrCustomerInactive
	}
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Debt sale requires at least one item")
	}

	soldAt := time.Now()
	if req.SoldAt != nil {
		soldAt = *req.SoldAt
	}

	sales := make([]*debt.Sale, 0, len(req.Items))
	for _, item := range req.Items {
		sale, err := debt.NewDebtSale(req.StoreID, req.ShiftID, req.CustomerID, item.ProductID, item.Quantity, item.UnitPrice, soldAt)
		if err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}

	total := debt.TotalOf(sales)
	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Debt sale of %d items", len(sales))
	}

	entry, err := debt.NewSaleEntry(req.CustomerID, req.StoreID, total, soldAt, description)
	if err != nil {
		return nil, err
	}

	entry, err = s.ledgerRepo.CreateDebtSale(ctx, sales, entry)
	if err != nil {
		return nil, err
	}

	response := &DebtSaleResponse{
		Sales:       make([]SaleResponse, 0, len(sales)),
		LedgerEntry: ToLedgerEntryResponse(entry),
		TotalAmount: total,
	}
	for _, sale := range sales {
		response.Sales = append(response.Sales, ToSaleResponse(sale))
	}

	return response, nil
}
