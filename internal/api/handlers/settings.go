package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yts/receipt-splitter-backend/internal/api/dto"
	"github.com/yts/receipt-splitter-backend/internal/infrastructure/storage"
)

// SettingsHandler handles persisted-settings requests.
type SettingsHandler struct {
	*Base
	settings storage.SettingsRepository
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(settings storage.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{
		Base:     &Base{},
		settings: settings,
	}
}

// GetTaxRate handles GET /api/settings/tax-rate - returns the stored
// tax-rate text. A never-set rate reads as an empty string.
func (h *SettingsHandler) GetTaxRate(c *gin.Context) {
	taxRate, _, err := h.settings.GetSetting(storage.SettingTaxRate)
	if err != nil {
		h.WriteError(c, http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, dto.TaxRateResponse{TaxRate: taxRate})
}

// UpdateTaxRate handles PUT /api/settings/tax-rate - stores the tax-rate
// text exactly as sent. Non-numeric input is accepted; the totals engine
// treats it as zero.
func (h *SettingsHandler) UpdateTaxRate(c *gin.Context) {
	var req dto.TaxRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.WriteError(c, http.StatusBadRequest, dto.BadRequestError("invalid request body"))
		return
	}

	if err := h.settings.SetSetting(storage.SettingTaxRate, req.TaxRate); err != nil {
		h.WriteError(c, http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, dto.TaxRateResponse{TaxRate: req.TaxRate})
}
