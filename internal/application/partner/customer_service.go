package partner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/drump2112/SWP-sub001/internal/domain/partner"
	"github.com/drump2112/SWP-sub001/internal/domain/shared"
	"github.com/drump2112/SWP-sub001/internal/infrastructure/logger"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
	linkRepo     partner.CustomerStoreRepository
	allocator    CodeAllocator
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	customerRepo partner.CustomerRepository,
	linkRepo partner.CustomerStoreRepository,
	allocator CodeAllocator,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		linkRepo:     linkRepo,
		allocator:    allocator,
	}
}

// Create creates a new customer, generating a code when none is given
// and optionally linking the customer to a store
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	code := strings.TrimSpace(req.Code)
	if code != "" {
		code = strings.ToUpper(code)
		if err := partner.ValidateCustomerCode(code); err != nil {
			return nil, err
		}
		exists, err := s.customerRepo.ExistsByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this code already exists")
		}
	} else {
		generated, err := s.allocator.Next(ctx)
		if err != nil {
			return nil, err
		}
		code = generated
	}

	if err := s.checkDuplicateTaxCode(ctx, req.TaxCode, 0); err != nil {
		return nil, err
	}
	if err := s.checkDuplicateNamePhone(ctx, req.Name, req.Phone, 0); err != nil {
		return nil, err
	}

	customerType := partner.CustomerTypeExternal
	if req.Type != "" {
		customerType = partner.CustomerType(req.Type)
	}

	customer, err := partner.NewCustomer(code, req.Name, req.Phone, customerType)
	if err != nil {
		return nil, err
	}
	customer.Address = req.Address
	customer.Notes = req.Notes

	if req.TaxCode != "" {
		taxCode := req.TaxCode
		if err := customer.SetTaxCode(&taxCode); err != nil {
			return nil, err
		}
	}
	if req.CreditLimit != nil {
		if err := customer.SetCreditLimit(*req.CreditLimit); err != nil {
			return nil, err
		}
	}

	if err := s.customerRepo.Create(ctx, customer, req.StoreID); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, id uint) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByCode retrieves a customer by code
func (s *CustomerService) GetByCode(ctx context.Context, code string) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves customers with filtering and pagination, optionally
// scoped to a store
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) (shared.Paginated[CustomerResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}
	if filter.HasCreditLimit != nil {
		domainFilter.Filters["has_credit_limit"] = *filter.HasCreditLimit
	}

	page, err := s.customerRepo.FindAll(ctx, domainFilter, filter.StoreID)
	if err != nil {
		return shared.Paginated[CustomerResponse]{}, err
	}

	return shared.Paginated[CustomerResponse]{
		Items:      ToCustomerResponses(page.Items),
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// Update updates a customer's editable fields
func (s *CustomerService) Update(ctx context.Context, id uint, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := customer.Name
	address := customer.Address
	phone := customer.Phone
	notes := customer.Notes
	if req.Name != nil {
		name = *req.Name
	}
	if req.Address != nil {
		address = *req.Address
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Notes != nil {
		notes = *req.Notes
	}

	nameOrPhoneChanged := !strings.EqualFold(name, customer.Name) || phone != customer.Phone
	if nameOrPhoneChanged {
		if err := s.checkDuplicateNamePhone(ctx, name, phone, customer.ID); err != nil {
			return nil, err
		}
	}
	if err := customer.Update(name, address, phone, notes); err != nil {
		return nil, err
	}

	if req.TaxCode != nil {
		if *req.TaxCode != "" && (customer.TaxCode == nil || *customer.TaxCode != *req.TaxCode) {
			if err := s.checkDuplicateTaxCode(ctx, *req.TaxCode, customer.ID); err != nil {
				return nil, err
			}
		}
		if err := customer.SetTaxCode(req.TaxCode); err != nil {
			return nil, err
		}
	}
	if req.CreditLimit != nil {
		if err := customer.SetCreditLimit(*req.CreditLimit); err != nil {
			return nil, err
		}
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	if req.StoreID != nil {
		if err := s.linkRepo.LinkIfMissing(ctx, customer.ID, *req.StoreID); err != nil {
			return nil, err
		}
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Delete deletes a customer along with its store links
func (s *CustomerService) Delete(ctx context.Context, id uint) error {
	return s.customerRepo.Delete(ctx, id)
}

// ToggleActive flips a customer's active flag and returns the new state
func (s *CustomerService) ToggleActive(ctx context.Context, id uint) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if customer.IsActive {
		customer.Deactivate()
	} else {
		customer.Activate()
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// CheckDuplicate reports which identifying fields collide with an
// existing customer without creating anything
func (s *CustomerService) CheckDuplicate(ctx context.Context, req CheckDuplicateRequest) (*CheckDuplicateResponse, error) {
	response := &CheckDuplicateResponse{Matches: []DuplicateMatch{}}

	if req.TaxCode != "" {
		existing, err := s.customerRepo.FindByTaxCode(ctx, req.TaxCode)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			response.Matches = append(response.Matches, DuplicateMatch{
				Field: "tax_code",
				ID:    existing.ID,
				Code:  existing.Code,
				Name:  existing.Name,
			})
		}
	}

	if req.Name != "" && req.Phone != "" {
		existing, err := s.customerRepo.FindByNameAndPhone(ctx, req.Name, req.Phone)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			response.Matches = append(response.Matches, DuplicateMatch{
				Field: "name_phone",
				ID:    existing.ID,
				Code:  existing.Code,
				Name:  existing.Name,
			})
		}
	}

	response.IsDuplicate = len(response.Matches) > 0
	return response, nil
}

// ImportCustomers creates customers from already-parsed import rows.
// Business-rule failures are recorded per row without aborting the
// batch; codes generated within the batch never collide with each
// other.
func (s *CustomerService) ImportCustomers(ctx context.Context, req ImportCustomersRequest) (*ImportCustomersResult, error) {
	result := &ImportCustomersResult{
		Errors:     []CustomerImportError{},
		CreatedIDs: []uint{},
	}
	seen := make(map[string]struct{}, len(req.Rows))

	for i, row := range req.Rows {
		customer, err := s.importRow(ctx, row, req.StoreID, seen)
		if err != nil {
			logger.FromContext(ctx).Warn("Customer import row failed",
				zap.Int("row", i+1),
				zap.String("code", row.Code),
				zap.Error(err))
			result.Failed++
			result.Errors = append(result.Errors, CustomerImportError{
				Row:     i + 1,
				Code:    row.Code,
				Message: err.Error(),
			})
			continue
		}
		seen[customer.Code] = struct{}{}
		result.Success++
		result.CreatedIDs = append(result.CreatedIDs, customer.ID)
	}

	return result, nil
}

// importRow creates one customer of an import batch
func (s *CustomerService) importRow(ctx context.Context, row CustomerImportRow, storeID *uint, seen map[string]struct{}) (*partner.Customer, error) {
	code := strings.TrimSpace(row.Code)
	if code != "" {
		code = strings.ToUpper(code)
		if err := partner.ValidateCustomerCode(code); err != nil {
			return nil, err
		}
		if _, taken := seen[code]; taken {
			return nil, fmt.Errorf("duplicate code %s within the batch", code)
		}
		exists, err := s.customerRepo.ExistsByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this code already exists")
		}
	} else {
		generated, err := s.allocator.NextSkipping(ctx, seen)
		if err != nil {
			return nil, err
		}
		code = generated
	}

	if err := s.checkDuplicateTaxCode(ctx, row.TaxCode, 0); err != nil {
		return nil, err
	}
	if err := s.checkDuplicateNamePhone(ctx, row.Name, row.Phone, 0); err != nil {
		return nil, err
	}

	customerType := partner.CustomerTypeExternal
	if row.Type != "" {
		customerType = partner.CustomerType(row.Type)
	}

	customer, err := partner.NewCustomer(code, row.Name, row.Phone, customerType)
	if err != nil {
		return nil, err
	}
	customer.Address = row.Address
	customer.Notes = row.Notes

	if row.TaxCode != "" {
		taxCode := row.TaxCode
		if err := customer.SetTaxCode(&taxCode); err != nil {
			return nil, err
		}
	}
	// credit limits apply to external debt customers only
	if row.CreditLimit != nil && customerType == partner.CustomerTypeExternal {
		if err := customer.SetCreditLimit(*row.CreditLimit); err != nil {
			return nil, err
		}
	}

	if err := s.customerRepo.Create(ctx, customer, storeID); err != nil {
		return nil, err
	}
	return customer, nil
}

// checkDuplicateTaxCode rejects a tax code already held by another
// customer. excludeID skips the customer being edited.
func (s *CustomerService) checkDuplicateTaxCode(ctx context.Context, taxCode string, excludeID uint) error {
	if taxCode == "" {
		return nil
	}
	existing, err := s.customerRepo.FindByTaxCode(ctx, taxCode)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != excludeID {
		return shared.NewDomainError("ALREADY_EXISTS", "Customer with this tax code already exists")
	}
	return nil
}

// checkDuplicateNamePhone rejects a case-insensitive name plus phone
// pair already held by another customer
func (s *CustomerService) checkDuplicateNamePhone(ctx context.Context, name, phone string, excludeID uint) error {
	if name == "" || phone == "" {
		return nil
	}
	existing, err := s.customerRepo.FindByNameAndPhone(ctx, name, phone)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != excludeID {
		return shared.NewDomainError("ALREADY_EXISTS", "Customer with this name and phone already exists")
	}
	return nil
}
