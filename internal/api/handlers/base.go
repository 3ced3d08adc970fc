package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yts/receipt-splitter-backend/internal/api/dto"
)

// Base provides shared functionality for all handlers.
type Base struct{}

// WriteError writes an error response with the given status code.
func (b *Base) WriteError(c *gin.Context, status int, err dto.APIError) {
	c.JSON(status, err)
}

// ParseIntQuery parses an integer query parameter with a default value.
func ParseIntQuery(c *gin.Context, name string, defaultVal int) int {
	val := c.Query(name)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}
