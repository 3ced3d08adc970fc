package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yts/receipt-splitter-backend/internal/api/dto"
	"github.com/yts/receipt-splitter-backend/internal/codec"
	"github.com/yts/receipt-splitter-backend/internal/domain/receipt"
)

// StateHandler encodes and decodes shareable receipt states.
type StateHandler struct {
	*Base
	settings codec.SettingsReader
}

// NewStateHandler creates a new state handler.
func NewStateHandler(settings codec.SettingsReader) *StateHandler {
	return &StateHandler{
		Base:     &Base{},
		settings: settings,
	}
}

// Encode handles POST /api/state/encode - turns a state into a share code.
func (h *StateHandler) Encode(c *gin.Context) {
	var state receipt.State
	if err := c.ShouldBindJSON(&state); err != nil {
		h.WriteError(c, http.StatusBadRequest, dto.BadRequestError("invalid request body"))
		return
	}

	c.JSON(http.StatusOK, dto.EncodeStateResponse{
		Code: codec.Encode(state),
	})
}

// Get handles GET /api/state - resolves the state for a share code.
//
// A missing or malformed "receipt" parameter is not an error: the response
// carries the default state instead and reports its source as "defaults",
// mirroring how a shared link must still open when the code is mangled.
func (h *StateHandler) Get(c *gin.Context) {
	code := c.Query(codec.QueryParam)

	if code != "" {
		if state, ok := codec.Decode(code); ok {
			c.JSON(http.StatusOK, dto.StateResponse{
				State:  state,
				Source: dto.StateSourceReceipt,
			})
			return
		}
	}

	c.JSON(http.StatusOK, dto.StateResponse{
		State:  codec.DefaultState(h.settings),
		Source: dto.StateSourceDefaults,
	})
}
