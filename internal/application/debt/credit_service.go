package debt

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/drump2112/SWP-sub001/internal/domain/debt"
	"github.com/drump2112/SWP-sub001/internal/domain/partner"
	"github.com/drump2112/SWP-sub001/internal/domain/shared"
)

// CreditService resolves effective credit limits, evaluates bypass
// state, and answers credit-status queries
type CreditService struct {
	customerRepo partner.CustomerRepository
	linkRepo     partner.CustomerStoreRepository
	storeRepo    partner.StoreRepository
	ledgerRepo   debt.LedgerRepository
}

// NewCreditService creates a new CreditService
func NewCreditService(
	customerRepo partner.CustomerRepository,
	linkRepo partner.CustomerStoreRepository,
	storeRepo partner.StoreRepository,
	ledgerRepo debt.LedgerRepository,
) *CreditService {
	return &CreditService{
		customerRepo: customerRepo,
		linkRepo:     linkRepo,
		storeRepo:    storeRepo,
		ledgerRepo:   ledgerRepo,
	}
}

// GetCreditStatus reports a customer's standing against their effective
// limit. With a store context the store override wins; without one the
// global limit applies, falling back to the largest store override.
func (s *CreditService) GetCreditStatus(ctx context.Context, customerID uint, storeID *uint) (*CreditStatusResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	var link *partner.CustomerStore
	if storeID != nil {
		link, err = s.linkRepo.Find(ctx, customerID, *storeID)
		if err != nil {
			return nil, err
		}
	}

	bypass, err := s.evaluateAndHeal(ctx, customer, link)
	if err != nil {
		return nil, err
	}

	var limit decimal.Decimal
	var source string
	if storeID != nil {
		resolution := partner.ResolveCreditLimit(customer, link)
		limit = resolution.Value
		source = string(resolution.Source)
	} else {
		links, err := s.linkRepo.FindByCustomer(ctx, customerID)
		if err != nil {
			return nil, err
		}
		limit = partner.ResolveAdminLimit(customer, links)
		source = string(partner.LimitSourceGlobal)
	}

	debtAmount, err := s.ledgerRepo.SumBalance(ctx, customerID, storeID)
	if err != nil {
		return nil, err
	}

	return s.composeStatus(customer, storeID, limit, source, debtAmount, bypass), nil
}

// GetAllCreditStatus reports credit standing for every customer,
// optionally scoped to the customers linked to one store
func (s *CreditService) GetAllCreditStatus(ctx context.Context, storeID *uint) ([]CreditStatusResponse, error) {
	page, err := s.customerRepo.FindAll(ctx, shared.Filter{}, storeID)
	if err != nil {
		return nil, err
	}
	customers := page.Items
	if len(customers) == 0 {
		return []CreditStatusResponse{}, nil
	}

	ids := make([]uint, 0, len(customers))
	for i := range customers {
		ids = append(ids, customers[i].ID)
	}

	allLinks, err := s.linkRepo.FindByCustomers(ctx, ids)
	if err != nil {
		return nil, err
	}
	linksByCustomer := make(map[uint][]partner.CustomerStore, len(customers))
	for _, link := range allLinks {
		linksByCustomer[link.CustomerID] = append(linksByCustomer[link.CustomerID], link)
	}

	balances, err := s.ledgerRepo.SumBalances(ctx, ids, storeID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	responses := make([]CreditStatusResponse, 0, len(customers))
	for i := range customers {
		customer := &customers[i]
		links := linksByCustomer[customer.ID]

		var link *partner.CustomerStore
		if storeID != nil {
			for j := range links {
				if links[j].StoreID == *storeID {
					link = &links[j]
					break
				}
			}
		}

		var limit decimal.Decimal
		var source string
		if storeID != nil {
			resolution := partner.ResolveCreditLimit(customer, link)
			limit = resolution.Value
			source = string(resolution.Source)
		} else {
			limit = partner.ResolveAdminLimit(customer, links)
			source = string(partner.LimitSourceGlobal)
		}

		// aggregate view is read-only, expired flags are not healed here
		bypass := partner.EvaluateBypass(customer, link, now)
		debtAmount := balances[customer.ID]

		responses = append(responses, *s.composeStatus(customer, storeID, limit, source, debtAmount, bypass))
	}

	return responses, nil
}

// ValidateDebtLimit is the advisory pre-check before a debt sale. A
// bypassed customer always validates; the exceed amount is still
// reported so the UI can warn.
func (s *CreditService) ValidateDebtLimit(ctx context.Context, customerID uint, req ValidateDebtLimitRequest) (*ValidateDebtLimitResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	link, err := s.linkRepo.Find(ctx, customerID, req.StoreID)
	if err != nil {
		return nil, err
	}

	bypass, err := s.evaluateAndHeal(ctx, customer, link)
	if err != nil {
		return nil, err
	}

	resolution := partner.ResolveCreditLimit(customer, link)
	limit := resolution.Value

	storeID := req.StoreID
	currentDebt, err := s.ledgerRepo.SumBalance(ctx, customerID, &storeID)
	if err != nil {
		return nil, err
	}
	totalDebt := currentDebt.Add(req.NewAmount)

	exceed := decimal.Zero
	if limit.GreaterThan(decimal.Zero) && totalDebt.GreaterThan(limit) {
		exceed = totalDebt.Sub(limit)
	}

	response := &ValidateDebtLimitResponse{
		IsBypassed:   bypass.Bypassed,
		CreditLimit:  limit,
		CurrentDebt:  currentDebt,
		TotalDebt:    totalDebt,
		ExceedAmount: exceed,
	}

	switch {
	case customer.IsInternal():
		response.IsValid = true
		response.Message = "Internal account, credit limit does not apply"
	case bypass.Bypassed:
		response.IsValid = true
		if exceed.GreaterThan(decimal.Zero) {
			response.Message = fmt.Sprintf("Credit limit bypassed; debt would exceed the limit by %s", exceed.StringFixed(0))
		} else {
			response.Message = "Credit limit bypassed"
		}
	case totalDebt.LessThanOrEqual(limit):
		response.IsValid = true
		response.Message = "Within credit limit"
	default:
		response.IsValid = false
		if limit.GreaterThan(decimal.Zero) {
			response.Message = fmt.Sprintf("Debt of %s would exceed the credit limit of %s by %s",
				totalDebt.StringFixed(0), limit.StringFixed(0), totalDebt.Sub(limit).StringFixed(0))
		} else {
			response.Message = "No credit limit configured for this customer"
		}
	}

	return response, nil
}

// CheckBypass evaluates the customer's bypass state at a store and
// persists the self-healing of expired flags
func (s *CreditService) CheckBypass(ctx context.Context, customerID, storeID uint) (*BypassStatusResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	link, err := s.linkRepo.Find(ctx, customerID, storeID)
	if err != nil {
		return nil, err
	}

	bypass, err := s.evaluateAndHeal(ctx, customer, link)
	if err != nil {
		return nil, err
	}

	return &BypassStatusResponse{
		IsBypassed:  bypass.Bypassed,
		Level:       string(bypass.Level),
		BypassUntil: bypass.Until,
		IsExpired:   bypass.StoreExpired || bypass.GlobalExpired,
	}, nil
}

// GetStoreCreditLimits lists the customer's global default alongside
// every store row with its effective limit, current debt, and bypass
// state
func (s *CreditService) GetStoreCreditLimits(ctx context.Context, customerID uint) (*StoreCreditLimitsResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	links, err := s.linkRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	stores, err := s.storeRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	storeNames := make(map[uint]string, len(stores))
	for i := range stores {
		storeNames[stores[i].ID] = stores[i].Name
	}

	now := time.Now()
	response := &StoreCreditLimitsResponse{
		CustomerID:  customerID,
		GlobalLimit: customer.CreditLimit,
		Stores:      make([]StoreCreditLimitRow, 0, len(links)),
	}

	for i := range links {
		link := &links[i]
		resolution := partner.ResolveCreditLimit(customer, link)
		debtAmount, err := s.ledgerRepo.SumBalance(ctx, customerID, &link.StoreID)
		if err != nil {
			return nil, err
		}
		bypass := partner.EvaluateBypass(customer, link, now)

		response.Stores = append(response.Stores, StoreCreditLimitRow{
			StoreID:        link.StoreID,
			StoreName:      storeNames[link.StoreID],
			OverrideLimit:  link.CreditLimit,
			EffectiveLimit: resolution.Value,
			LimitSource:    string(resolution.Source),
			CurrentDebt:    debtAmount,
			IsBypassed:     bypass.Bypassed,
			BypassUntil:    bypass.Until,
		})
	}

	return response, nil
}

// UpdateStoreCreditLimit upserts the per-store override. A nil limit
// clears the override so the store inherits the global default again.
func (s *CreditService) UpdateStoreCreditLimit(ctx context.Context, customerID, storeID uint, req UpdateStoreCreditLimitRequest) error {
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		return err
	}
	if _, err := s.storeRepo.FindByID(ctx, storeID); err != nil {
		return err
	}
	if req.CreditLimit != nil && req.CreditLimit.IsNegative() {
		return shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}

	return s.linkRepo.SetCreditLimit(ctx, customerID, storeID, req.CreditLimit)
}

// SetCustomerBypass enables or disables the global credit-limit bypass
func (s *CreditService) SetCustomerBypass(ctx context.Context, customerID uint, req SetBypassRequest) error {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return err
	}

	if req.Enabled {
		customer.SetBypass(req.Until)
	} else {
		customer.ClearBypass()
	}

	return s.customerRepo.Save(ctx, customer)
}

// SetStoreBypass enables or disables the store-level bypass, creating
// the customer-store link when needed
func (s *CreditService) SetStoreBypass(ctx context.Context, customerID, storeID uint, req SetBypassRequest) error {
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		return err
	}
	if _, err := s.storeRepo.FindByID(ctx, storeID); err != nil {
		return err
	}

	link, err := s.linkRepo.Find(ctx, customerID, storeID)
	if err != nil {
		return err
	}
	if link == nil {
		link = partner.NewCustomerStore(customerID, storeID)
	}

	if req.Enabled {
		link.SetBypass(req.Until)
	} else {
		link.ClearBypass()
	}

	return s.linkRepo.Save(ctx, link)
}

// evaluateAndHeal evaluates the bypass flags and clears any that have
// expired so the next evaluation starts clean
func (s *CreditService) evaluateAndHeal(ctx context.Context, customer *partner.Customer, link *partner.CustomerStore) (partner.BypassStatus, error) {
	bypass := partner.EvaluateBypass(customer, link, time.Now())

	if bypass.StoreExpired && link != nil {
		if err := s.linkRepo.ClearBypass(ctx, customer.ID, link.StoreID); err != nil {
			return bypass, err
		}
		link.ClearBypass()
	}
	if bypass.GlobalExpired {
		if err := s.customerRepo.ClearBypass(ctx, customer.ID); err != nil {
			return bypass, err
		}
		customer.ClearBypass()
	}

	return bypass, nil
}

// composeStatus builds the credit-status response for one customer
func (s *CreditService) composeStatus(
	customer *partner.Customer,
	storeID *uint,
	limit decimal.Decimal,
	source string,
	debtAmount decimal.Decimal,
	bypass partner.BypassStatus,
) *CreditStatusResponse {
	available := decimal.Zero
	if limit.GreaterThan(decimal.Zero) {
		available = limit.Sub(debtAmount)
		if available.IsNegative() {
			available = decimal.Zero
		}
	}

	return &CreditStatusResponse{
		CustomerID:      customer.ID,
		CustomerCode:    customer.Code,
		CustomerName:    customer.Name,
		CustomerType:    string(customer.Type),
		StoreID:         storeID,
		CreditLimit:     limit,
		LimitSource:     source,
		CurrentDebt:     debtAmount,
		AvailableCredit: available,
		UsagePercent:    partner.UsagePercent(debtAmount, limit),
		IsBypassed:      bypass.Bypassed,
		BypassLevel:     string(bypass.Level),
		BypassUntil:     bypass.Until,
		WarningLevel:    string(partner.CreditWarningLevel(customer.Type, bypass.Bypassed, debtAmount, limit)),
	}
}
