package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yts/receipt-splitter-backend/internal/api/dto"
	"github.com/yts/receipt-splitter-backend/internal/domain/receipt"
)

// TotalsHandler computes receipt totals.
type TotalsHandler struct {
	*Base
}

// NewTotalsHandler creates a new totals handler.
func NewTotalsHandler() *TotalsHandler {
	return &TotalsHandler{
		Base: &Base{},
	}
}

// Compute handles POST /api/totals - computes per-category totals for the
// posted receipt state. Unparseable tax or discount values fall back to
// zero inside the engine, so there is no numeric validation here.
func (h *TotalsHandler) Compute(c *gin.Context) {
	var state receipt.State
	if err := c.ShouldBindJSON(&state); err != nil {
		h.WriteError(c, http.StatusBadRequest, dto.BadRequestError("invalid request body"))
		return
	}

	totals := receipt.ComputeTotals(state.Items, state.TaxRate, state.DiscountType, state.DiscountValue)
	c.JSON(http.StatusOK, totals)
}
