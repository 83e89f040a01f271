package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	cartapp "github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/application/cart"
)

// CartHandler handles cart API endpoints. Every route operates on the
// authenticated user's own cart.
type CartHandler struct {
	BaseHandler
	cartService *cartapp.CartService
	requireAuth gin.HandlerFunc
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *cartapp.CartService, requireAuth gin.HandlerFunc) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		requireAuth: requireAuth,
	}
}

// RegisterRoutes registers cart routes
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cart := rg.Group("/cart", h.requireAuth)
	{
		cart.GET("", h.List)
		cart.POST("/items", h.AddItem)
		cart.PUT("/items/:id", h.UpdateItem)
		cart.DELETE("/items/:id", h.RemoveItem)
		cart.DELETE("", h.Clear)
	}
}

// List returns the caller's cart
func (h *CartHandler) List(c *gin.Context) {
	response, err := h.cartService.List(c.Request.Context(), getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, response)
}

// AddItem adds a product variant to the cart, merging into an existing
// row when the variant is already present
func (h *CartHandler) AddItem(c *gin.Context) {
	var req cartapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.cartService.AddItem(c.Request.Context(), getUserID(c), &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, item)
}

// UpdateItem replaces the quantity of one cart line
func (h *CartHandler) UpdateItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid cart item ID format")
		return
	}

	var req cartapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.cartService.UpdateQuantity(c.Request.Context(), getUserID(c), id, &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, item)
}

// RemoveItem removes one line from the cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid cart item ID format")
		return
	}

	if err := h.cartService.RemoveItem(c.Request.Context(), getUserID(c), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Clear empties the cart
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.cartService.Clear(c.Request.Context(), getUserID(c)); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
