package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/service"
)

// CategoryHandler handles HTTP requests for product categories.
type CategoryHandler struct {
	productService *service.ProductService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(productService *service.ProductService) *CategoryHandler {
	return &CategoryHandler{productService: productService}
}

// CategoryRequest is the HTTP request body for creating or replacing a category.
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

// CategoryResponse is the HTTP response for a category.
type CategoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// Create handles POST /v1/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	category, err := h.productService.CreateCategory(c.Request.Context(), principal(c), service.CategoryRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toCategoryResponse(category))
}

// GetAll handles GET /v1/categories
func (h *CategoryHandler) GetAll(c *gin.Context) {
	categories, err := h.productService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		response = append(response, toCategoryResponse(cat))
	}
	respondJSON(c, http.StatusOK, response)
}

// Get handles GET /v1/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	category, err := h.productService.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toCategoryResponse(category))
}

// Update handles PUT /v1/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	category, err := h.productService.UpdateCategory(c.Request.Context(), principal(c), id, service.CategoryRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toCategoryResponse(category))
}

// Delete handles DELETE /v1/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.productService.DeleteCategory(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
