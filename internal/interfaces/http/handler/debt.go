package handler

import (
	"github.com/gin-gonic/gin"

	debtapp "github.com/drump2112/SWP-sub001/internal/application/debt"
)

// DebtHandler handles debt balance, statement, and debt sale endpoints
type DebtHandler struct {
	BaseHandler
	debtService     *debtapp.DebtService
	debtSaleService *debtapp.DebtSaleService
}

// NewDebtHandler creates a new DebtHandler
func NewDebtHandler(debtService *debtapp.DebtService, debtSaleService *debtapp.DebtSaleService) *DebtHandler {
	return &DebtHandler{
		debtService:     debtService,
		debtSaleService: debtSaleService,
	}
}

// GetBalance returns a customer's outstanding debt, optionally scoped
// to one store via the store_id query parameter
func (h *DebtHandler) GetBalance(c *gin.Context) {
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

	balance, err := h.debtService.GetBalance(c.Request.Context(), customerID, storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, balance)
}

// GetStatement returns a customer's ledger with running balances
func (h *DebtHandler) GetStatement(c *gin.Context) {
	customerID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	var filter debtapp.StatementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	statement, err := h.debtService.GetStatement(c.Request.Context(), customerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, statement)
}

// CreateDebtSale records sale lines on credit and the summary ledger
// entry they roll up into
func (h *DebtHandler) CreateDebtSale(c *gin.Context) {
	var req debtapp.CreateDebtSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.debtSaleService.CreateDebtSale(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}
