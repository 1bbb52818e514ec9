package handler

import (
	"github.com/gin-gonic/gin"

	debtapp "github.com/drump2112/SWP-sub001/internal/application/debt"
)

// OpeningBalanceHandler handles opening balance import and maintenance
type OpeningBalanceHandler struct {
	BaseHandler
	openingBalanceService *debtapp.OpeningBalanceService
}

// NewOpeningBalanceHandler creates a new OpeningBalanceHandler
func NewOpeningBalanceHandler(openingBalanceService *debtapp.OpeningBalanceService) *OpeningBalanceHandler {
	return &OpeningBalanceHandler{
		openingBalanceService: openingBalanceService,
	}
}

// Import records opening balances for one store with per-row error
// reporting
func (h *OpeningBalanceHandler) Import(c *gin.Context) {
	var req debtapp.ImportOpeningBalancesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.openingBalanceService.Import(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List returns opening balance entries with resolved customer and
// store names, optionally scoped to one store
func (h *OpeningBalanceHandler) List(c *gin.Context) {
	storeID, err := parseStoreIDQuery(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	records, err := h.openingBalanceService.List(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, records)
}

// Update rewrites an opening balance entry as long as the customer has
// no later ledger activity at the same store
func (h *OpeningBalanceHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}

	var req debtapp.UpdateOpeningBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.openingBalanceService.Update(c.Request.Context(), id, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Delete removes an opening balance entry under the same dependency
// guard as Update
func (h *OpeningBalanceHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}

	if err := h.openingBalanceService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
