package debt

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/drump2112/SWP-sub001/internal/domain/debt"
	"github.com/drump2112/SWP-sub001/internal/domain/partner"
	"github.com/drump2112/SWP-sub001/internal/domain/shared"
	"github.com/drump2112/SWP-sub001/internal/infrastructure/logger"
)

// OpeningBalanceService imports and corrects opening-balance ledger
// entries. Business-rule failures (blank or unknown customer code) are
// recorded per row; the surviving rows are written in one transaction,
// and any unexpected failure rolls back the whole batch.
type OpeningBalanceService struct {
	customerRepo partner.CustomerRepository
	storeRepo    partner.StoreRepository
	ledgerRepo   debt.LedgerRepository
}

// NewOpeningBalanceService creates a new OpeningBalanceService
func NewOpeningBalanceService(
	customerRepo partner.CustomerRepository,
	storeRepo partner.StoreRepository,
	ledgerRepo debt.LedgerRepository,
) *OpeningBalanceService {
	return &OpeningBalanceService{
		customerRepo: customerRepo,
		storeRepo:    storeRepo,
		ledgerRepo:   ledgerRepo,
	}
}

// Import writes one opening-balance entry per row, resolving customers
// by code and auto-linking them to the store. The entry is dated with
// the caller-supplied transaction date, not the insertion time. A
// positive balance is carried-over debt, a negative one a carried-over
// credit, zero an explicit clean start.
func (s *OpeningBalanceService) Import(ctx context.Context, req ImportOpeningBalancesRequest) (*debt.ImportResult, error) {
	if _, err := s.storeRepo.FindByID(ctx, req.StoreID); err != nil {
		return nil, err
	}

	result := &debt.ImportResult{
		Errors:    []debt.ImportRowError{},
		LedgerIDs: []uint{},
	}

	entries := make([]*debt.LedgerEntry, 0, len(req.Items))
	for i, item := range req.Items {
		entry, err := s.resolveRow(ctx, req.StoreID, req.TransactionDate, item)
		if err != nil {
			var domainErr *shared.DomainError
			if !errors.As(err, &domainErr) {
				return nil, err
			}
			logger.FromContext(ctx).Warn("Opening balance import row rejected",
				zap.Int("row", i+1),
				zap.String("customer_code", item.CustomerCode),
				zap.Error(err))
			result.Failed++
			result.Errors = append(result.Errors, debt.ImportRowError{
				Row:          i + 1,
				CustomerCode: item.CustomerCode,
				Message:      err.Error(),
			})
			continue
		}
		entries = append(entries, entry)
	}

	if len(entries) > 0 {
		if err := s.ledgerRepo.ImportOpeningBalances(ctx, req.StoreID, entries); err != nil {
			return nil, err
		}
	}
	result.Success = len(entries)
	for _, entry := range entries {
		result.LedgerIDs = append(result.LedgerIDs, entry.ID)
	}

	return result, nil
}

// resolveRow validates one import row and builds its ledger entry
// without writing anything
func (s *OpeningBalanceService) resolveRow(ctx context.Context, storeID uint, transactionDate time.Time, item OpeningBalanceImportItem) (*debt.LedgerEntry, error) {
	code := strings.TrimSpace(item.CustomerCode)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Customer code is required")
	}

	customer, err := s.customerRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	entry := debt.NewOpeningBalanceEntry(customer.ID, storeID, item.OpeningBalance, transactionDate, item.Description)
	entry.CreatedAt = transactionDate
	return entry, nil
}

// List returns opening-balance entries with customer and store names
// resolved, optionally scoped to a store
func (s *OpeningBalanceService) List(ctx context.Context, storeID *uint) ([]OpeningBalanceRecordResponse, error) {
	entries, err := s.ledgerRepo.FindOpeningBalances(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []OpeningBalanceRecordResponse{}, nil
	}

	idSet := make(map[uint]struct{}, len(entries))
	customerIDs := make([]uint, 0, len(entries))
	for i := range entries {
		if _, ok := idSet[entries[i].CustomerID]; !ok {
			idSet[entries[i].CustomerID] = struct{}{}
			customerIDs = append(customerIDs, entries[i].CustomerID)
		}
	}

	customers, err := s.customerRepo.FindByIDs(ctx, customerIDs)
	if err != nil {
		return nil, err
	}
	customersByID := make(map[uint]*partner.Customer, len(customers))
	for i := range customers {
		customersByID[customers[i].ID] = &customers[i]
	}

	stores, err := s.storeRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	storeNames := make(map[uint]string, len(stores))
	for i := range stores {
		storeNames[stores[i].ID] = stores[i].Name
	}

	responses := make([]OpeningBalanceRecordResponse, 0, len(entries))
	for i := range entries {
		entry := &entries[i]
		record := OpeningBalanceRecordResponse{
			ID:              entry.ID,
			CustomerID:      entry.CustomerID,
			StoreID:         entry.StoreID,
			TransactionDate: entry.TransactionDate,
			Amount:          entry.Amount(),
			Description:     entry.Description,
		}
		if customer, ok := customersByID[entry.CustomerID]; ok {
			record.CustomerCode = customer.Code
			record.CustomerName = customer.Name
		}
		if entry.StoreID != nil {
			record.StoreName = storeNames[*entry.StoreID]
		}
		responses = append(responses, record)
	}

	return responses, nil
}

// Update rewrites an opening-balance entry. Refused once any other
// ledger activity exists for that customer and store, since later
// transactions already assumed the old starting balance.
func (s *OpeningBalanceService) Update(ctx context.Context, id uint, req UpdateOpeningBalanceRequest) error {
	entry, err := s.ledgerRepo.FindEntryByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guardNoDependents(ctx, entry); err != nil {
		return err
	}

	return s.ledgerRepo.UpdateOpeningBalance(ctx, id, req.Amount, req.Description)
}

// Delete removes an opening-balance entry under the same dependency
// guard as Update
func (s *OpeningBalanceService) Delete(ctx context.Context, id uint) error {
	entry, err := s.ledgerRepo.FindEntryByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guardNoDependents(ctx, entry); err != nil {
		return err
	}

	return s.ledgerRepo.DeleteEntry(ctx, id)
}

// guardNoDependents refuses the correction when non-opening ledger rows
// exist for the entry's customer and store
func (s *OpeningBalanceService) guardNoDependents(ctx context.Context, entry *debt.LedgerEntry) error {
	if entry.RefType != debt.RefTypeOpeningBalance {
		return shared.NewDomainError("INVALID_STATE", "Entry is not an opening balance")
	}
	if entry.StoreID == nil {
		return nil
	}

	count, err := s.ledgerRepo.CountNonOpening(ctx, entry.CustomerID, *entry.StoreID)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.ErrHasDependencies
	}
	return nil
}
