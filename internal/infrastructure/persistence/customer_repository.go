package persistence

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/drump2112/SWP-sub001/internal/domain/partner"
	"github.com/drump2112/SWP-sub001/internal/domain/shared"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uint) (*partner.Customer, error) {
	var customer partner.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// FindByCode finds a customer by its unique code
func (r *GormCustomerRepository) FindByCode(ctx context.Context, code string) (*partner.Customer, error) {
	var customer partner.Customer
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// FindByTaxCode finds a customer by tax code
func (r *GormCustomerRepository) FindByTaxCode(ctx context.Context, taxCode string) (*partner.Customer, error) {
	if taxCode == "" {
		return nil, shared.NewDomainError("INVALID_TAX_CODE", "Tax code cannot be empty")
	}
	var customer partner.Customer
	if err := r.db.WithContext(ctx).
		Where("tax_code = ?", taxCode).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// FindByNameAndPhone finds a customer by case-insensitive name plus phone
func (r *GormCustomerRepository) FindByNameAndPhone(ctx context.Context, name, phone string) (*partner.Customer, error) {
	var customer partner.Customer
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?) AND phone = ?", name, phone).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// FindAll finds customers matching the filter, optionally scoped to a
// store via the customer_stores link table
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter, storeID *uint) (shared.Paginated[partner.Customer], error) {
	base := r.db.WithContext(ctx).Model(&partner.Customer{})
	if storeID != nil {
		base = base.
			Joins("JOIN customer_stores ON customer_stores.customer_id = customers.id").
			Where("customer_stores.store_id = ?", *storeID)
	}
	base = r.applyFilterWithoutPagination(base, filter)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return shared.Paginated[partner.Customer]{}, err
	}

	var customers []partner.Customer
	if err := r.applyPagination(base, filter).Find(&customers).Error; err != nil {
		return shared.Paginated[partner.Customer]{}, err
	}

	page, pageSize := filter.Page, filter.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = len(customers)
		if pageSize == 0 {
			pageSize = 1
		}
	}
	return shared.NewPaginated(customers, total, page, pageSize), nil
}

// FindByIDs finds multiple customers by their IDs
func (r *GormCustomerRepository) FindByIDs(ctx context.Context, ids []uint) ([]partner.Customer, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var customers []partner.Customer
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// MaxGeneratedCode returns the highest auto-generated code carrying the
// given prefix, or empty when none exists. Ordering by length before
// value keeps KH100000 above KH99999.
func (r *GormCustomerRepository) MaxGeneratedCode(ctx context.Context, prefix string) (string, error) {
	var code string
	err := r.db.WithContext(ctx).
		Model(&partner.Customer{}).
		Select("code").
		Where("code LIKE ?", prefix+"%").
		Order("LENGTH(code) DESC, code DESC").
		Limit(1).
		Scan(&code).Error
	if err != nil {
		return "", err
	}
	return code, nil
}

// Create persists a new customer, optionally linking it to a store in
// the same transaction
func (r *GormCustomerRepository) Create(ctx context.Context, customer *partner.Customer, storeID *uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(customer).Error; err != nil {
			return err
		}
		if storeID != nil {
			link := partner.NewCustomerStore(customer.ID, *storeID)
			if err := tx.Create(link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Save updates an existing customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// Delete deletes a customer and its store links
func (r *GormCustomerRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", id).Delete(&partner.CustomerStore{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&partner.Customer{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// ExistsByCode checks if a customer with the given code exists
func (r *GormCustomerRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&partner.Customer{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ClearBypass resets the global bypass flags for a customer
func (r *GormCustomerRepository) ClearBypass(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&partner.Customer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"bypass_credit_limit": false,
			"bypass_until":        nil,
		}).Error
}

// applyPagination applies paging and ordering to the query
func (r *GormCustomerRepository) applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, CustomerSortFields, "code")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("customers.code ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormCustomerRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(customers.name) LIKE ? OR LOWER(customers.code) LIKE ? OR customers.phone LIKE ?",
			searchPattern, searchPattern, "%"+filter.Search+"%",
		)
	}

	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("customers.type = ?", value)
		case "is_active":
			query = query.Where("customers.is_active = ?", value)
		case "has_credit_limit":
			if value == true {
				query = query.Where("customers.credit_limit > 0")
			} else {
				query = query.Where("customers.credit_limit = 0")
			}
		}
	}

	return query
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
