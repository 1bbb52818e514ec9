package partner

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/drump2112/SWP-sub001/internal/domain/partner"
	"github.com/drump2112/SWP-sub001/internal/domain/shared"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uint) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByCode(ctx context.Context, code string) (*partner.Customer, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByTaxCode(ctx context.Context, taxCode string) (*partner.Customer, error) {
	args := m.Called(ctx, taxCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByNameAndPhone(ctx context.Context, name, phone string) (*partner.Customer, error) {
	args := m.Called(ctx, name, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter, storeID *uint) (shared.Paginated[partner.Customer], error) {
	args := m.Called(ctx, filter, storeID)
	return args.Get(0).(shared.Paginated[partner.Customer]), args.Error(1)
}

func (m *MockCustomerRepository) FindByIDs(ctx context.Context, ids []uint) ([]partner.Customer, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) MaxGeneratedCode(ctx context.Context, prefix string) (string, error) {
	args := m.Called(ctx, prefix)
	return args.String(0), args.Error(1)
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *partner.Customer, storeID *uint) error {
	args := m.Called(ctx, customer, storeID)
	return args.Error(0)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) ClearBypass(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCustomerStoreRepository is a mock implementation of CustomerStoreRepository
type MockCustomerStoreRepository struct {
	mock.Mock
}

func (m *MockCustomerStoreRepository) Find(ctx context.Context, customerID, storeID uint) (*partner.CustomerStore, error) {
	args := m.Called(ctx, customerID, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.CustomerStore), args.Error(1)
}

func (m *MockCustomerStoreRepository) FindByCustomer(ctx context.Context, customerID uint) ([]partner.CustomerStore, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.CustomerStore), args.Error(1)
}

func (m *MockCustomerStoreRepository) FindByCustomers(ctx context.Context, customerIDs []uint) ([]partner.CustomerStore, error) {
	args := m.Called(ctx, customerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.CustomerStore), args.Error(1)
}

func (m *MockCustomerStoreRepository) Save(ctx context.Context, link *partner.CustomerStore) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockCustomerStoreRepository) LinkIfMissing(ctx context.Context, customerID, storeID uint) error {
	args := m.Called(ctx, customerID, storeID)
	return args.Error(0)
}

func (m *MockCustomerStoreRepository) SetCreditLimit(ctx context.Context, customerID, storeID uint, limit *decimal.Decimal) error {
	args := m.Called(ctx, customerID, storeID, limit)
	return args.Error(0)
}

func (m *MockCustomerStoreRepository) ClearBypass(ctx context.Context, customerID, storeID uint) error {
	args := m.Called(ctx, customerID, storeID)
	return args.Error(0)
}

// =============================================================================
// Tests
// =============================================================================

func newCustomerService(customerRepo *MockCustomerRepository, linkRepo *MockCustomerStoreRepository) *CustomerService {
	return NewCustomerService(customerRepo, linkRepo, NewSequentialCodeAllocator(customerRepo))
}

func TestCustomerService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates customer with manual code", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		linkRepo := new(MockCustomerStoreRepository)
		service := newCustomerService(customerRepo, linkRepo)

		customerRepo.On("ExistsByCode", ctx, "KH00001").Return(false, nil)
		customerRepo.On("Create", ctx, mock.AnythingOfType("*partner.Customer"), (*uint)(nil)).Return(nil)

		resp, err := service.Create(ctx, CreateCustomerRequest{
			Code: "kh00001",
			Name: "Nguyen Van A",
		})

		require.NoError(t, err)
		assert.Equal(t, "KH00001", resp.Code)
		assert.Equal(t, "EXTERNAL", resp.Type)
		assert.True(t, resp.IsActive)
		customerRepo.AssertExpectations(t)
	})

	t.Run("generates code when none given", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		linkRepo := new(MockCustomerStoreRepository)
		service := newCustomerService(customerRepo, linkRepo)

		customerRepo.On("MaxGeneratedCode", ctx, "KH").Return("KH00042", nil)
		customerRepo.On("ExistsByCode", ctx, "KH00043").Return(false, nil)
		customerRepo.On("Create", ctx, mock.AnythingOfType("*partner.Customer"), (*uint)(nil)).Return(nil)

		resp, err := service.Create(ctx, CreateCustomerRequest{Name: "Tran Thi B"})

		require.NoError(t, err)
		assert.Equal(t, "KH00043", resp.Code)
		customerRepo.AssertExpectations(t)
	})

	t.Run("rejects taken manual code", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		linkRepo := new(MockCustomerStoreRepository)
		service := newCustomerService(customerRepo, linkRepo)

		customerRepo.On("ExistsByCode", ctx, "KH00001").Return(true, nil)

		_, err := service.Create(ctx, CreateCustomerRequest{Code: "KH00001", Name: "X"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("rejects duplicate tax code", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		linkRepo := new(MockCustomerStoreRepository)
		service := newCustomerService(customerRepo, linkRepo)

		existing, _ := partner.NewCustomer("KH00009", "Existing", "", partner.CustomerTypeExternal)
		existing.ID = 9
		customerRepo.On("ExistsByCode", ctx, "KH00002").Return(false, nil)
		customerRepo.On("FindByTaxCode", ctx, "0312345678").Return(existing, nil)

		_, err := service.Create(ctx, CreateCustomerRequest{
			Code:    "KH00002",
			Name:    "Y",
			TaxCode: "0312345678",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("rejects duplicate name and phone", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		linkRepo := new(MockCustomerStoreRepository)
		service := newCustomerService(customerRepo, linkRepo)

		existing, _ := partner.NewCustomer("KH00009", "Le Van C", "0901234567", partner.CustomerTypeExternal)
		existing.ID = 9
		customerRepo.On("ExistsByCode", ctx, "KH00002").Return(false, nil)
		customerRepo.On("FindByNameAndPhone", ctx, "Le Van C", "0901234567").Return(existing, nil)

		_, err := service.Create(ctx, CreateCustomerRequest{
			Code:  "KH00002",
			Name:  "Le Van C",
			Phone: "0901234567",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("links the new customer to a store", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		linkRepo := new(MockCustomerStoreRepository)
		service := newCustomerService(customerRepo, linkRepo)

		storeID := uint(2)
		customerRepo.On("ExistsByCode", ctx, "KH00003").Return(false, nil)
		customerRepo.On("Create", ctx, mock.AnythingOfType("*partner.Customer"), &storeID).Return(nil)

		_, err := service.Create(ctx, CreateCustomerRequest{
			Code:    "KH00003",
			Name:    "Z",
			StoreID: &storeID,
		})

		require.NoError(t, err)
		customerRepo.AssertExpectations(t)
	})
}

func TestCustomerService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("updates basic fields", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		linkRepo := new(MockCustomerStoreRepository)
		service := newCustomerService(customerRepo, linkRepo)

		customer, _ := partner.NewCustomer("KH00001", "Old Name", "", partner.CustomerTypeExternal)
		customer.ID = 1
		customerRepo.On("FindByID", ctx, uint(1)).Return(customer, nil)
		customerRepo.On("FindByNameAndPhone", ctx, "New Name", "0909000111").Return(nil, shared.ErrNotFound)
		customerRepo.On("Save", ctx, customer).Return(nil)

		name := "New Name"
		phone := "0909000111"
		resp, err := service.Update(ctx, 1, UpdateCustomerRequest{Name: &name, Phone: &phone})

		require.NoError(t, err)
		assert.Equal(t, "New Name", resp.Name)
		assert.Equal(t, "0909000111", resp.Phone)
	})

	t.Run("rejects tax code held by another customer", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		linkRepo := new(MockCustomerStoreRepository)
		service := newCustomerService(customerRepo, linkRepo)

		customer, _ := partner.NewCustomer("KH00001", "Name", "", partner.CustomerTypeExternal)
		customer.ID = 1
		other, _ := partner.NewCustomer("KH00002", "Other", "", partner.CustomerTypeExternal)
		other.ID = 2

		customerRepo.On("FindByID", ctx, uint(1)).Return(customer, nil)
		customerRepo.On("FindByTaxCode", ctx, "0312345678").Return(other, nil)

		taxCode := "0312345678"
		_, err := service.Update(ctx, 1, UpdateCustomerRequest{TaxCode: &taxCode})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("keeping own tax code is not a conflict", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		linkRepo := new(MockCustomerStoreRepository)
		service := newCustomerService(customerRepo, linkRepo)

		customer, _ := partner.NewCustomer("KH00001", "Name", "", partner.CustomerTypeExternal)
		customer.ID = 1
		taxCode := "0312345678"
		require.NoError(t, customer.SetTaxCode(&taxCode))

		customerRepo.On("FindByID", ctx, uint(1)).Return(customer, nil)
		customerRepo.On("Save", ctx, customer).Return(nil)

		same := "0312345678"
		_, err := service.Update(ctx, 1, UpdateCustomerRequest{TaxCode: &same})
		require.NoError(t, err)
	})
}

func TestCustomerService_ToggleActive(t *testing.T) {
	ctx := context.Background()
	customerRepo := new(MockCustomerRepository)
	linkRepo := new(MockCustomerStoreRepository)
	service := newCustomerService(customerRepo, linkRepo)

	customer, _ := partner.NewCustomer("KH00001", "Name", "", partner.CustomerTypeExternal)
	customer.ID = 1
	customerRepo.On("FindByID", ctx, uint(1)).Return(customer, nil)
	customerRepo.On("Save", ctx, customer).Return(nil)

	resp, err := service.ToggleActive(ctx, 1)
	require.NoError(t, err)
	assert.False(t, resp.IsActive)

	resp, err = service.ToggleActive(ctx, 1)
	require.NoError(t, err)
	assert.True(t, resp.IsActive)
}

func TestCustomerService_CheckDuplicate(t *testing.T) {
	ctx := context.Background()

	t.Run("reports both collision kinds", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		linkRepo := new(MockCustomerStoreRepository)
		service := newCustomerService(customerRepo, linkRepo)

		byTax, _ := partner.NewCustomer("KH00001", "Tax Holder", "", partner.CustomerTypeExternal)
		byTax.ID = 1
		byName, _ := partner.NewCustomer("KH00002", "Name Holder", "0901", partner.CustomerTypeExternal)
		byName.ID = 2

		customerRepo.On("FindByTaxCode", ctx, "0312345678").Return(byTax, nil)
		customerRepo.On("FindByNameAndPhone", ctx, "Name Holder", "0901").Return(byName, nil)

		resp, err := service.CheckDuplicate(ctx, CheckDuplicateRequest{
			TaxCode: "0312345678",
			Name:    "Name Holder",
			Phone:   "0901",
		})

		require.NoError(t, err)
		assert.True(t, resp.IsDuplicate)
		require.Len(t, resp.Matches, 2)
		assert.Equal(t, "tax_code", resp.Matches[0].Field)
		assert.Equal(t, "name_phone", resp.Matches[1].Field)
	})

	t.Run("clear when nothing matches", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		linkRepo := new(MockCustomerStoreRepository)
		service := newCustomerService(customerRepo, linkRepo)

		customerRepo.On("FindByTaxCode", ctx, "0399999999").Return(nil, shared.ErrNotFound)

		resp, err := service.CheckDuplicate(ctx, CheckDuplicateRequest{TaxCode: "0399999999"})
		require.NoError(t, err)
		assert.False(t, resp.IsDuplicate)
		assert.Empty(t, resp.Matches)
	})
}

func TestCustomerService_ImportCustomers(t *testing.T) {
	ctx := context.Background()

	t.Run("mixed batch records row errors without aborting", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		linkRepo := new(MockCustomerStoreRepository)
		service := newCustomerService(customerRepo, linkRepo)

		customerRepo.On("ExistsByCode", ctx, "KH00010").Return(false, nil)
		customerRepo.On("ExistsByCode", ctx, "KH00011").Return(true, nil)
		customerRepo.On("Create", ctx, mock.AnythingOfType("*partner.Customer"), (*uint)(nil)).
			Run(func(args mock.Arguments) {
				args.Get(1).(*partner.Customer).ID = 10
			}).Return(nil).Once()

		result, err := service.ImportCustomers(ctx, ImportCustomersRequest{
			Rows: []CustomerImportRow{
				{Code: "KH00010", Name: "Row One"},
				{Code: "KH00011", Name: "Row Two"},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Success)
		assert.Equal(t, 1, result.Failed)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, 2, result.Errors[0].Row)
		assert.Equal(t, []uint{10}, result.CreatedIDs)
	})

	t.Run("generated codes skip rows of the same batch", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		linkRepo := new(MockCustomerStoreRepository)
		service := newCustomerService(customerRepo, linkRepo)

		customerRepo.On("MaxGeneratedCode", ctx, "KH").Return("KH00042", nil)
		customerRepo.On("ExistsByCode", ctx, "KH00043").Return(false, nil)
		customerRepo.On("ExistsByCode", ctx, "KH00044").Return(false, nil)
		customerRepo.On("Create", ctx, mock.AnythingOfType("*partner.Customer"), (*uint)(nil)).Return(nil)

		result, err := service.ImportCustomers(ctx, ImportCustomersRequest{
			Rows: []CustomerImportRow{
				{Name: "First"},
				{Name: "Second"},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, 2, result.Success)
		assert.Zero(t, result.Failed)
	})

	t.Run("internal customers never receive a credit limit", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		linkRepo := new(MockCustomerStoreRepository)
		service := newCustomerService(customerRepo, linkRepo)

		var created *partner.Customer
		customerRepo.On("ExistsByCode", ctx, "KH00020").Return(false, nil)
		customerRepo.On("Create", ctx, mock.AnythingOfType("*partner.Customer"), (*uint)(nil)).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*partner.Customer)
			}).Return(nil)

		limit := decimal.NewFromInt(1_000_000)
		result, err := service.ImportCustomers(ctx, ImportCustomersRequest{
			Rows: []CustomerImportRow{
				{Code: "KH00020", Name: "Doi xe noi bo", Type: "INTERNAL", CreditLimit: &limit},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Success)
		require.NotNil(t, created)
		assert.True(t, created.CreditLimit.IsZero())
	})
}

func TestSequentialCodeAllocator(t *testing.T) {
	ctx := context.Background()

	t.Run("starts at one on an empty table", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		allocator := NewSequentialCodeAllocator(customerRepo)

		customerRepo.On("MaxGeneratedCode", ctx, "KH").Return("", nil)
		customerRepo.On("ExistsByCode", ctx, "KH00001").Return(false, nil)

		code, err := allocator.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, "KH00001", code)
	})

	t.Run("increments past the highest code", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		allocator := NewSequentialCodeAllocator(customerRepo)

		customerRepo.On("MaxGeneratedCode", ctx, "KH").Return("KH00042", nil)
		customerRepo.On("ExistsByCode", ctx, "KH00043").Return(false, nil)

		code, err := allocator.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, "KH00043", code)
	})

	t.Run("probes past concurrent collisions", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		allocator := NewSequentialCodeAllocator(customerRepo)

		customerRepo.On("MaxGeneratedCode", ctx, "KH").Return("KH00042", nil)
		customerRepo.On("ExistsByCode", ctx, "KH00043").Return(true, nil)
		customerRepo.On("ExistsByCode", ctx, "KH00044").Return(true, nil)
		customerRepo.On("ExistsByCode", ctx, "KH00045").Return(false, nil)

		code, err := allocator.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, "KH00045", code)
	})

	t.Run("gives up after the attempt budget", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		allocator := NewSequentialCodeAllocator(customerRepo)

		customerRepo.On("MaxGeneratedCode", ctx, "KH").Return("", nil)
		customerRepo.On("ExistsByCode", ctx, mock.AnythingOfType("string")).Return(true, nil)

		_, err := allocator.Next(ctx)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CODE_GENERATION_FAILED", domainErr.Code)
	})

	t.Run("widens past the padded width", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		allocator := NewSequentialCodeAllocator(customerRepo)

		customerRepo.On("MaxGeneratedCode", ctx, "KH").Return("KH99999", nil)
		customerRepo.On("ExistsByCode", ctx, "KH100000").Return(false, nil)

		code, err := allocator.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, "KH100000", code)
	})

	t.Run("seen set blocks intra-batch reuse", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		allocator := NewSequentialCodeAllocator(customerRepo)

		customerRepo.On("MaxGeneratedCode", ctx, "KH").Return("KH00001", nil)
		customerRepo.On("ExistsByCode", ctx, "KH00003").Return(false, nil)

		seen := map[string]struct{}{"KH00002": {}}
		code, err := allocator.NextSkipping(ctx, seen)
		require.NoError(t, err)
		assert.Equal(t, "KH00003", code)
	})
}
