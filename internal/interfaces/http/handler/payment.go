package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	paymentapp "github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/application/payment"
)

// PaymentHandler handles online payment API endpoints. Creating a
// payment URL requires a session; the return endpoint is hit by the
// buyer's browser coming back from the gateway and is public, its
// authenticity resting on the gateway signature.
type PaymentHandler struct {
	BaseHandler
	paymentService *paymentapp.PaymentService
	requireAuth    gin.HandlerFunc
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *paymentapp.PaymentService, requireAuth gin.HandlerFunc) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		requireAuth:    requireAuth,
	}
}

// RegisterRoutes registers payment routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payment := rg.Group("/payment/vnpay")
	{
		payment.POST("/create", h.requireAuth, h.Create)
		payment.GET("/return", h.Return)
	}
}

// Create builds a signed gateway URL for one of the caller's orders
func (h *PaymentHandler) Create(c *gin.Context) {
	var req paymentapp.CreatePaymentURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.paymentService.CreatePaymentURL(c.Request.Context(), getUserID(c), c.ClientIP(), &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Return handles the gateway redirect and forwards the buyer to the
// storefront result page
func (h *PaymentHandler) Return(c *gin.Context) {
	params := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	outcome, err := h.paymentService.ProcessReturn(c.Request.Context(), params)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.Redirect(http.StatusFound, outcome.RedirectURL)
}
