package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/drump2112/SWP-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CustomerType represents the type of customer
type CustomerType string

const (
	CustomerTypeExternal CustomerType = "EXTERNAL" // Regular debt customer
	CustomerTypeInternal CustomerType = "INTERNAL" // Internal account, exempt from credit checks
)

// CodePrefix is the prefix for auto-generated customer codes.
const CodePrefix = "KH"

// CodeDigits is the zero-padded width of the numeric part of generated codes.
const CodeDigits = 5

// Customer represents a debt customer of a fuel station chain.
// It is the aggregate root for customer-related operations.
type Customer struct {
	shared.BaseEntity
	Code              string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name              string          `gorm:"type:varchar(255);not null"`
	TaxCode           *string         `gorm:"type:varchar(50);uniqueIndex"`
	Address           string          `gorm:"type:text"`
	Phone             string          `gorm:"type:varchar(20)"`
	Type              CustomerType    `gorm:"type:varchar(20);not null;default:'EXTERNAL'"`
	CreditLimit       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"` // Global default, zero means unlimited
	BypassCreditLimit bool            `gorm:"not null;default:false"`
	BypassUntil       *time.Time
	IsActive          bool   `gorm:"not null;default:true"`
	Notes             string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer with required fields
func NewCustomer(code, name, phone string, customerType CustomerType) (*Customer, error) {
	if err := ValidateCustomerCode(code); err != nil {
		return nil, err
	}
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return nil, err
		}
	}
	if err := validateCustomerType(customerType); err != nil {
		return nil, err
	}

	return &Customer{
		Code:        strings.ToUpper(code),
		Name:        name,
		Phone:       phone,
		Type:        customerType,
		CreditLimit: decimal.Zero,
		IsActive:    true,
	}, nil
}

// Update updates the customer's basic information
func (c *Customer) Update(name, address, phone, notes string) error {
	if err := validateCustomerName(name); err != nil {
		return err
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}

	c.Name = name
	c.Address = address
	c.Phone = phone
	c.Notes = notes
	c.UpdatedAt = time.Now()

	return nil
}

// SetTaxCode sets the customer's tax identification number
func (c *Customer) SetTaxCode(taxCode *string) error {
	if taxCode != nil {
		trimmed := strings.TrimSpace(*taxCode)
		if trimmed == "" {
			taxCode = nil
		} else {
			if len(trimmed) > 50 {
				return shared.NewDomainError("INVALID_TAX_CODE", "Tax code cannot exceed 50 characters")
			}
			taxCode = &trimmed
		}
	}

	c.TaxCode = taxCode
	c.UpdatedAt = time.Now()

	return nil
}

// SetCreditLimit sets the customer's global credit limit.
// Zero means no limit is configured.
func (c *Customer) SetCreditLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}

	c.CreditLimit = limit
	c.UpdatedAt = time.Now()

	return nil
}

// SetBypass enables the global credit-limit bypass, optionally time-boxed.
func (c *Customer) SetBypass(until *time.Time) {
	c.BypassCreditLimit = true
	c.BypassUntil = until
	c.UpdatedAt = time.Now()
}

// ClearBypass disables the global credit-limit bypass
func (c *Customer) ClearBypass() {
	c.BypassCreditLimit = false
	c.BypassUntil = nil
	c.UpdatedAt = time.Now()
}

// Activate marks the customer as active
func (c *Customer) Activate() {
	c.IsActive = true
	c.UpdatedAt = time.Now()
}

// Deactivate marks the customer as inactive
func (c *Customer) Deactivate() {
	c.IsActive = false
	c.UpdatedAt = time.Now()
}

// IsInternal returns true if the customer is an internal account
func (c *Customer) IsInternal() bool {
	return c.Type == CustomerTypeInternal
}

// HasCreditLimit returns true if a global credit limit is configured
func (c *Customer) HasCreditLimit() bool {
	return c.CreditLimit.GreaterThan(decimal.Zero)
}

// Validation functions

var codePattern = regexp.MustCompile(`^[A-Za-z0-9_\-]+$`)

// ValidateCustomerCode checks a customer code for format violations
func ValidateCustomerCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Customer code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Customer code cannot exceed 50 characters")
	}
	if !codePattern.MatchString(code) {
		return shared.NewDomainError("INVALID_CODE", "Customer code can only contain letters, numbers, underscores, and hyphens")
	}
	return nil
}

func validateCustomerName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 255 characters")
	}
	return nil
}

func validateCustomerType(t CustomerType) error {
	switch t {
	case CustomerTypeExternal, CustomerTypeInternal:
		return nil
	default:
		return shared.NewDomainError("INVALID_TYPE", "Customer type must be 'EXTERNAL' or 'INTERNAL'")
	}
}

var phonePattern = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)

func validatePhone(phone string) error {
	if len(phone) > 20 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 20 characters")
	}
	if !phonePattern.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}
