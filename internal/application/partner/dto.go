package partner

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/drump2112/SWP-sub001/internal/domain/partner"
)

// =============================================================================
// Customer DTOs
// =============================================================================

// CreateCustomerRequest represents a request to create a new customer.
// An empty code asks the service to generate one.
type CreateCustomerRequest struct {
	Code        string           `json:"code" binding:"max=50"`
	Name        string           `json:"name" binding:"required,min=1,max=255"`
	TaxCode     string           `json:"tax_code" binding:"max=50"`
	Address     string           `json:"address" binding:"max=500"`
	Phone       string           `json:"phone" binding:"max=20"`
	Type        string           `json:"type" binding:"omitempty,oneof=EXTERNAL INTERNAL"`
	CreditLimit *decimal.Decimal `json:"credit_limit"`
	Notes       string           `json:"notes"`
	StoreID     *uint            `json:"store_id"`
}

// UpdateCustomerRequest represents a request to update a customer
type UpdateCustomerRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=255"`
	TaxCode     *string          `json:"tax_code" binding:"omitempty,max=50"`
	Address     *string          `json:"address" binding:"omitempty,max=500"`
	Phone       *string          `json:"phone" binding:"omitempty,max=20"`
	CreditLimit *decimal.Decimal `json:"credit_limit"`
	Notes       *string          `json:"notes"`
	StoreID     *uint            `json:"store_id"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID                uint            `json:"id"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	TaxCode           *string         `json:"tax_code"`
	Address           string          `json:"address"`
	Phone             string          `json:"phone"`
	Type              string          `json:"type"`
	CreditLimit       decimal.Decimal `json:"credit_limit"`
	BypassCreditLimit bool            `json:"bypass_credit_limit"`
	BypassUntil       *time.Time      `json:"bypass_until"`
	IsActive          bool            `json:"is_active"`
	Notes             string          `json:"notes"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// CustomerListFilter represents filter options for the customer list
type CustomerListFilter struct {
	Search         string `form:"search"`
	Type           string `form:"type" binding:"omitempty,oneof=EXTERNAL INTERNAL"`
	IsActive       *bool  `form:"is_active"`
	HasCreditLimit *bool  `form:"has_credit_limit"`
	StoreID        *uint  `form:"store_id"`
	Page           int    `form:"page" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string `form:"order_by"`
	OrderDir       string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CheckDuplicateRequest asks whether customer identifying fields are
// already taken
type CheckDuplicateRequest struct {
	TaxCode string `json:"tax_code" binding:"max=50"`
	Name    string `json:"name" binding:"max=255"`
	Phone   string `json:"phone" binding:"max=20"`
}

// DuplicateMatch describes the existing customer a field collides with
type DuplicateMatch struct {
	Field string `json:"field"`
	ID    uint   `json:"id"`
	Code  string `json:"code"`
	Name  string `json:"name"`
}

// CheckDuplicateResponse lists detected collisions; empty means clear
type CheckDuplicateResponse struct {
	IsDuplicate bool             `json:"is_duplicate"`
	Matches     []DuplicateMatch `json:"matches"`
}

// CustomerImportRow is one already-parsed row of a customer import
type CustomerImportRow struct {
	Code        string           `json:"code" binding:"max=50"`
	Name        string           `json:"name" binding:"required,min=1,max=255"`
	TaxCode     string           `json:"tax_code" binding:"max=50"`
	Address     string           `json:"address" binding:"max=500"`
	Phone       string           `json:"phone" binding:"max=20"`
	Type        string           `json:"type" binding:"omitempty,oneof=EXTERNAL INTERNAL"`
	CreditLimit *decimal.Decimal `json:"credit_limit"`
	Notes       string           `json:"notes"`
}

// ImportCustomersRequest represents a batch customer import
type ImportCustomersRequest struct {
	StoreID *uint               `json:"store_id"`
	Rows    []CustomerImportRow `json:"rows" binding:"required,min=1,dive"`
}

// CustomerImportError reports why one import row was rejected. Row
// numbers are 1-based to match the uploaded sheet.
type CustomerImportError struct {
	Row     int    `json:"row"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ImportCustomersResult summarizes a batch customer import
type ImportCustomersResult struct {
	Success    int                   `json:"success"`
	Failed     int                   `json:"failed"`
	Errors     []CustomerImportError `json:"errors"`
	CreatedIDs []uint                `json:"created_ids"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:                c.ID,
		Code:              c.Code,
		Name:              c.Name,
		TaxCode:           c.TaxCode,
		Address:           c.Address,
		Phone:             c.Phone,
		Type:              string(c.Type),
		CreditLimit:       c.CreditLimit,
		BypassCreditLimit: c.BypassCreditLimit,
		BypassUntil:       c.BypassUntil,
		IsActive:          c.IsActive,
		Notes:             c.Notes,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

// ToCustomerResponses converts a slice of domain Customers
func ToCustomerResponses(customers []partner.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		responses = append(responses, ToCustomerResponse(&customers[i]))
	}
	return responses
}
