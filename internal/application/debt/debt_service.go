package debt

import (
	"context"

	"github.com/drump2112/SWP-sub001/internal/domain/debt"
	"github.com/drump2112/SWP-sub001/internal/domain/partner"
)

// DebtService answers balance and statement queries over the ledger
type DebtService struct {
	customerRepo partner.CustomerRepository
	ledgerRepo   debt.LedgerRepository
}

// NewDebtService creates a new DebtService
func NewDebtService(customerRepo partner.CustomerRepository, ledgerRepo debt.LedgerRepository) *DebtService {
	return &DebtService{
		customerRepo: customerRepo,
		ledgerRepo:   ledgerRepo,
	}
}

// GetBalance returns the customer's outstanding debt, optionally scoped
// to a store
func (s *DebtService) GetBalance(ctx context.Context, customerID uint, storeID *uint) (*BalanceResponse, error) {
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		return nil, err
	}

	balance, err := s.ledgerRepo.SumBalance(ctx, customerID, storeID)
	if err != nil {
		return nil, err
	}

	return &BalanceResponse{
		CustomerID: customerID,
		StoreID:    storeID,
		Balance:    balance,
	}, nil
}

// GetStatement returns the customer's ledger rows in chronological
// order with running balances
func (s *DebtService) GetStatement(ctx context.Context, customerID uint, filter StatementFilter) (*StatementResponse, error) {
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		return nil, err
	}

	entries, err := s.ledgerRepo.FindEntries(ctx, debt.LedgerQuery{
		CustomerID: customerID,
		StoreID:    filter.StoreID,
		From:       filter.From,
		To:         filter.To,
	})
	if err != nil {
		return nil, err
	}

	lines, balance := debt.BuildStatement(entries)
	response := &StatementResponse{
		CustomerID: customerID,
		StoreID:    filter.StoreID,
		Lines:      make([]StatementLineResponse, 0, len(lines)),
		Balance:    balance,
	}
	for _, line := range lines {
		response.Lines = append(response.Lines, StatementLineResponse{
			ID:              line.Entry.ID,
			StoreID:         line.Entry.StoreID,
			TransactionDate: line.Entry.TransactionDate,
			RefType:         string(line.Entry.RefType),
			RefID:           line.Entry.RefID,
			Debit:           line.Entry.Debit,
			Credit:          line.Entry.Credit,
			Description:     line.Entry.Description,
			RunningBalance:  line.RunningBalance,
		})
	}

	return response, nil
}
