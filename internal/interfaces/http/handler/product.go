package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	storeapp "github.com/storelink/backend/internal/application/store"
	"github.com/storelink/backend/internal/domain/shared"
	"github.com/storelink/backend/internal/interfaces/http/dto"
)

// ProductHandler handles product API endpoints
type ProductHandler struct {
	BaseHandler
	productService *storeapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *storeapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// RegisterRoutes registers the product routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.POST("", h.Create)
		products.GET("", h.List)
		products.GET("/:id", h.Get)
		products.PUT("/:id", h.Update)
		products.DELETE("/:id", h.Delete)
	}
}

// Create creates a new product. The product starts dirty, so the next
// sync pass creates it in the remote store.
func (h *ProductHandler) Create(c *gin.Context) {
	var req storeapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Update applies a partial update to a product, marking it dirty
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req storeapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Get returns a product by ID
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	resp, err := h.productService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns a paginated product listing
func (h *ProductHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	page, err := h.productService.List(c.Request.Context(), shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Delete removes a product locally
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
