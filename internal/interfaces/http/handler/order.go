package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	orderapp "github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/application/order"
)

// OrderHandler handles order API endpoints. Buyers check out and manage
// their own orders; the full order book lives under /admin.
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.OrderService
	requireAuth  gin.HandlerFunc
	requireAdmin gin.HandlerFunc
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.OrderService, requireAuth, requireAdmin gin.HandlerFunc) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		requireAuth:  requireAuth,
		requireAdmin: requireAdmin,
	}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders", h.requireAuth)
	{
		orders.POST("", h.Checkout)
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.POST("/:id/cancel", h.Cancel)
	}

	admin := rg.Group("/admin/orders", h.requireAuth, h.requireAdmin)
	{
		admin.GET("", h.ListAll)
		admin.GET("/:id", h.GetAny)
		admin.PUT("/:id/status", h.UpdateStatus)
	}
}

// Checkout turns the caller's cart into an order
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req orderapp.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	created, err := h.orderService.Checkout(c.Request.Context(), getUserID(c), &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, created)
}

// List returns the caller's own orders, newest first
func (h *OrderHandler) List(c *gin.Context) {
	var filter orderapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.orderService.List(c.Request.Context(), getUserID(c), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get returns one of the caller's orders
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	found, err := h.orderService.GetByID(c.Request.Context(), getUserID(c), false, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, found)
}

// GetAny returns any order by ID, regardless of owner
func (h *OrderHandler) GetAny(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	found, err := h.orderService.GetByID(c.Request.Context(), getUserID(c), true, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, found)
}

// Cancel cancels one of the caller's processing orders
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	cancelled, err := h.orderService.Cancel(c.Request.Context(), getUserID(c), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cancelled)
}

// ListAll returns every order matching the filter
func (h *OrderHandler) ListAll(c *gin.Context) {
	var filter orderapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.orderService.ListAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// UpdateStatus moves an order to a terminal status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req orderapp.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	updated, err := h.orderService.UpdateStatus(c.Request.Context(), id, &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, updated)
}
