package debt

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/drump2112/SWP-sub001/internal/domain/debt"
	"github.com/drump2112/SWP-sub001/internal/domain/partner"
	"github.com/drump2112/SWP-sub001/internal/domain/shared"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
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

// MockCustomerStoreRepository is a mock implementation of partner.CustomerStoreRepository
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

// MockStoreRepository is a mock implementation of partner.StoreRepository
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) FindByID(ctx context.Context, id uint) (*partner.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Store), args.Error(1)
}

func (m *MockStoreRepository) FindAll(ctx context.Context) ([]partner.Store, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Store), args.Error(1)
}

// MockLedgerRepository is a mock implementation of debt.LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) SumBalance(ctx context.Context, customerID uint, storeID *uint) (decimal.Decimal, error) {
	args := m.Called(ctx, customerID, storeID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepository) SumBalances(ctx context.Context, customerIDs []uint, storeID *uint) (map[uint]decimal.Decimal, error) {
	args := m.Called(ctx, customerIDs, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepository) FindEntries(ctx context.Context, query debt.LedgerQuery) ([]debt.LedgerEntry, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]debt.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindEntryByID(ctx context.Context, id uint) (*debt.LedgerEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*debt.LedgerEntry), args.Error(1)
}

// CreateDebtSale echoes the entry back on a nil first return value,
// mirroring the repository contract of returning the persisted entry
func (m *MockLedgerRepository) CreateDebtSale(ctx context.Context, sales []*debt.Sale, entry *debt.LedgerEntry) (*debt.LedgerEntry, error) {
	args := m.Called(ctx, sales, entry)
	if args.Get(0) == nil {
		if args.Error(1) != nil {
			return nil, args.Error(1)
		}
		return entry, nil
	}
	return args.Get(0).(*debt.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) CreateEntry(ctx context.Context, entry *debt.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) ImportOpeningBalances(ctx context.Context, storeID uint, entries []*debt.LedgerEntry) error {
	args := m.Called(ctx, storeID, entries)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindOpeningBalances(ctx context.Context, storeID *uint) ([]debt.LedgerEntry, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]debt.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) UpdateOpeningBalance(ctx context.Context, id uint, amount decimal.Decimal, description string) error {
	args := m.Called(ctx, id, amount, description)
	return args.Error(0)
}

func (m *MockLedgerRepository) DeleteEntry(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLedgerRepository) CountNonOpening(ctx context.Context, customerID, storeID uint) (int64, error) {
	args := m.Called(ctx, customerID, storeID)
	return args.Get(0).(int64), args.Error(1)
}
