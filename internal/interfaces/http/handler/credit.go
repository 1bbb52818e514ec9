package handler

import (
	"github.com/gin-gonic/gin"

	debtapp "github.com/drump2112/SWP-sub001/internal/application/debt"
)

// CreditHandler handles credit limit, credit status, and bypass endpoints
type CreditHandler struct {
	BaseHandler
	creditService *debtapp.CreditService
}

// NewCreditHandler creates a new CreditHandler
func NewCreditHandler(creditService *debtapp.CreditService) *CreditHandler {
	return &CreditHandler{
		creditService: creditService,
	}
}

// GetCreditStatus returns one customer's standing against their
// effective limit. With store_id the store override applies; without
// it the admin-level limit does.
func (h *CreditHandler) GetCreditStatus(c *gin.Context) {
	customerID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	storeID, err := parseStoreIDQuery(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	status, err := h.creditService.GetCreditStatus(c.Request.Context(), customerID, storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, status)
}

// GetAllCreditStatus returns the credit standing of every customer,
// optionally scoped to one store
func (h *CreditHandler) GetAllCreditStatus(c *gin.Context) {
	storeID, err := parseStoreIDQuery(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	statuses, err := h.creditService.GetAllCreditStatus(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, statuses)
}

// ValidateDebtLimit gives an advisory verdict on whether a prospective
// amount fits under the customer's limit
func (h *CreditHandler) ValidateDebtLimit(c *gin.Context) {
	customerID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	var req debtapp.ValidateDebtLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.creditService.ValidateDebtLimit(c.Request.Context(), customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetStoreCreditLimits lists the global default and every per-store
// override for one customer
func (h *CreditHandler) GetStoreCreditLimits(c *gin.Context) {
	customerID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	result, err := h.creditService.GetStoreCreditLimits(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// UpdateStoreCreditLimit upserts a per-store override; a null limit
// clears the override back to inheriting the global default
func (h *CreditHandler) UpdateStoreCreditLimit(c *gin.Context) {
	customerID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	storeID, err := parseIDParam(c, "storeId")
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var req debtapp.UpdateStoreCreditLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.creditService.UpdateStoreCreditLimit(c.Request.Context(), customerID, storeID, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// SetCustomerBypass enables or disables the customer-wide bypass
func (h *CreditHandler) SetCustomerBypass(c *gin.Context) {
	customerID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	var req debtapp.SetBypassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.creditService.SetCustomerBypass(c.Request.Context(), customerID, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// SetStoreBypass enables or disables a store-level bypass, creating
// the store link when absent
func (h *CreditHandler) SetStoreBypass(c *gin.Context) {
	customerID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	storeID, err := parseIDParam(c, "storeId")
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var req debtapp.SetBypassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.creditService.SetStoreBypass(c.Request.Context(), customerID, storeID, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// CheckBypass reports the current bypass evaluation for a customer at
// a store, healing expired flags along the way
func (h *CreditHandler) CheckBypass(c *gin.Context) {
	customerID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	storeID, err := parseIDParam(c, "storeId")
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	status, err := h.creditService.CheckBypass(c.Request.Context(), customerID, storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, status)
}
