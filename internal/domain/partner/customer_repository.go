package partner

import (
	"context"

	"github.com/drump2112/SWP-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByID finds a customer by its ID
	FindByID(ctx context.Context, id uint) (*Customer, error)

	// FindByCode finds a customer by its unique code
	FindByCode(ctx context.Context, code string) (*Customer, error)

	// FindByTaxCode finds a customer by tax code
	FindByTaxCode(ctx context.Context, taxCode string) (*Customer, error)

	// FindByNameAndPhone finds a customer by case-insensitive name plus phone
	FindByNameAndPhone(ctx context.Context, name, phone string) (*Customer, error)

	// FindAll finds customers matching the filter, optionally scoped to a store
	FindAll(ctx context.Context, filter shared.Filter, storeID *uint) (shared.Paginated[Customer], error)

	// FindByIDs finds multiple customers by their IDs
	FindByIDs(ctx context.Context, ids []uint) ([]Customer, error)

	// MaxGeneratedCode returns the highest auto-generated code carrying
	// the given prefix, or empty when none exists
	MaxGeneratedCode(ctx context.Context, prefix string) (string, error)

	// Create persists a new customer, optionally linking it to a store
	// in the same transaction
	Create(ctx context.Context, customer *Customer, storeID *uint) error

	// Save updates an existing customer
	Save(ctx context.Context, customer *Customer) error

	// Delete deletes a customer and its store links
	Delete(ctx context.Context, id uint) error

	// ExistsByCode checks if a customer with the given code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// ClearBypass resets the global bypass flags for a customer
	ClearBypass(ctx context.Context, id uint) error
}

// CustomerStoreRepository defines the interface for customer-store link
// persistence
type CustomerStoreRepository interface {
	// Find returns the link for a customer at a store, or nil when the
	// customer has no row for that store
	Find(ctx context.Context, customerID, storeID uint) (*CustomerStore, error)

	// FindByCustomer returns all store links for a customer
	FindByCustomer(ctx context.Context, customerID uint) ([]CustomerStore, error)

	// FindByCustomers returns store links for multiple customers
	FindByCustomers(ctx context.Context, customerIDs []uint) ([]CustomerStore, error)

	// Save creates or updates a link
	Save(ctx context.Context, link *CustomerStore) error

	// LinkIfMissing creates the link with no overrides when absent
	LinkIfMissing(ctx context.Context, customerID, storeID uint) error

	// SetCreditLimit sets or clears the per-store credit-limit override
	SetCreditLimit(ctx context.Context, customerID, storeID uint, limit *decimal.Decimal) error

	// ClearBypass resets the store-level bypass flags
	ClearBypass(ctx context.Context, customerID, storeID uint) error
}

// StoreRepository defines the interface for store lookups
type StoreRepository interface {
	// FindByID finds a store by its ID
	FindByID(ctx context.Context, id uint) (*Store, error)

	// FindAll returns all stores
	FindAll(ctx context.Context) ([]Store, error)
}
