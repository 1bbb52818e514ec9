package persistence

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/drump2112/SWP-sub001/internal/domain/partner"
)

// GormCustomerStoreRepository implements CustomerStoreRepository using GORM
type GormCustomerStoreRepository struct {
	db *gorm.DB
}

// NewGormCustomerStoreRepository creates a new GormCustomerStoreRepository
func NewGormCustomerStoreRepository(db *gorm.DB) *GormCustomerStoreRepository {
	return &GormCustomerStoreRepository{db: db}
}

// Find returns the link for a customer at a store, or nil when the
// customer has no row for that store
func (r *GormCustomerStoreRepository) Find(ctx context.Context, customerID, storeID uint) (*partner.CustomerStore, error) {
	var link partner.CustomerStore
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND store_id = ?", customerID, storeID).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

// FindByCustomer returns all store links for a customer
func (r *GormCustomerStoreRepository) FindByCustomer(ctx context.Context, customerID uint) ([]partner.CustomerStore, error) {
	var links []partner.CustomerStore
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("store_id ASC").
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// FindByCustomers returns store links for multiple customers
func (r *GormCustomerStoreRepository) FindByCustomers(ctx context.Context, customerIDs []uint) ([]partner.CustomerStore, error) {
	if len(customerIDs) == 0 {
		return nil, nil
	}
	var links []partner.CustomerStore
	if err := r.db.WithContext(ctx).
		Where("customer_id IN ?", customerIDs).
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// Save creates or updates a link
func (r *GormCustomerStoreRepository) Save(ctx context.Context, link *partner.CustomerStore) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "customer_id"}, {Name: "store_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"credit_limit", "bypass_credit_limit", "bypass_until", "updated_at",
			}),
		}).
		Create(link).Error
}

// LinkIfMissing creates the link with no overrides when absent
func (r *GormCustomerStoreRepository) LinkIfMissing(ctx context.Context, customerID, storeID uint) error {
	link := partner.NewCustomerStore(customerID, storeID)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(link).Error
}

// SetCreditLimit sets or clears the per-store credit-limit override,
// creating the link row when it does not exist yet
func (r *GormCustomerStoreRepository) SetCreditLimit(ctx context.Context, customerID, storeID uint, limit *decimal.Decimal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		link := partner.NewCustomerStore(customerID, storeID)
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(link).Error; err != nil {
			return err
		}
		return tx.Model(&partner.CustomerStore{}).
			Where("customer_id = ? AND store_id = ?", customerID, storeID).
			Update("credit_limit", limit).Error
	})
}

// ClearBypass resets the store-level bypass flags
func (r *GormCustomerStoreRepository) ClearBypass(ctx context.Context, customerID, storeID uint) error {
	return r.db.WithContext(ctx).
		Model(&partner.CustomerStore{}).
		Where("customer_id = ? AND store_id = ?", customerID, storeID).
		Updates(map[string]interface{}{
			"bypass_credit_limit": false,
			"bypass_until":        nil,
		}).Error
}

// Ensure GormCustomerStoreRepository implements CustomerStoreRepository
var _ partner.CustomerStoreRepository = (*GormCustomerStoreRepository)(nil)
