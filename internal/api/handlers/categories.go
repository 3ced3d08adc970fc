package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yts/receipt-splitter-backend/internal/api/dto"
	"github.com/yts/receipt-splitter-backend/internal/domain/registry"
)

// CategoriesHandler handles category registry requests.
type CategoriesHandler struct {
	*Base
	categories *registry.Registry
}

// NewCategoriesHandler creates a new categories handler.
func NewCategoriesHandler(categories *registry.Registry) *CategoriesHandler {
	return &CategoriesHandler{
		Base:       &Base{},
		categories: categories,
	}
}

// List handles GET /api/categories - returns all names in first-seen order.
func (h *CategoriesHandler) List(c *gin.Context) {
	names := h.categories.All()

	c.JSON(http.StatusOK, dto.CategoryListResponse{
		Categories: names,
		Count:      len(names),
	})
}

// Suggest handles GET /api/categories/suggest - typeahead matches for q.
func (h *CategoriesHandler) Suggest(c *gin.Context) {
	query := c.Query("q")

	suggestions := h.categories.Suggest(query)

	c.JSON(http.StatusOK, dto.CategorySuggestResponse{
		Query:       query,
		Suggestions: suggestions,
		Count:       len(suggestions),
	})
}

// Add handles POST /api/categories - registers a category name.
func (h *CategoriesHandler) Add(c *gin.Context) {
	var req dto.AddCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.WriteError(c, http.StatusBadRequest, dto.BadRequestError("invalid request body"))
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		h.WriteError(c, http.StatusBadRequest, dto.ValidationError("name is required"))
		return
	}

	added := h.categories.Register(name)

	c.JSON(http.StatusOK, dto.AddCategoryResponse{
		Name:  name,
		Added: added,
	})
}
