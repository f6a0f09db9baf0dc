package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	storeapp "github.com/storelink/backend/internal/application/store"
	"github.com/storelink/backend/internal/domain/shared"
	"github.com/storelink/backend/internal/interfaces/http/dto"
)

// CustomerHandler handles customer API endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *storeapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *storeapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// RegisterRoutes registers the customer routes
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	{
		customers.POST("", h.Create)
		customers.GET("", h.List)
		customers.GET("/:id", h.Get)
		customers.PUT("/:id", h.Update)
	}
}

// Create creates a new customer. The customer starts dirty, so the next
// sync pass creates it in the remote store.
func (h *CustomerHandler) Create(c *gin.Context) {
	var req storeapp.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.customerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Update applies a partial update to a customer, marking it dirty
func (h *CustomerHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	var req storeapp.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.customerService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Get returns a customer by ID
func (h *CustomerHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	resp, err := h.customerService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns a paginated customer listing
func (h *CustomerHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	page, err := h.customerService.List(c.Request.Context(), shared.Filter{
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
