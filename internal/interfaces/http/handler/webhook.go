package handler

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	identityapp "github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/application/identity"
	identityinfra "github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/infrastructure/identity"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/interfaces/http/dto"
)

// Webhook signature headers sent by the identity provider
const (
	headerWebhookID        = "svix-id"
	headerWebhookTimestamp = "svix-timestamp"
	headerWebhookSignature = "svix-signature"
)

// WebhookHandler receives identity provider events. The endpoint is
// unauthenticated; each delivery is authenticated by its signature
// headers instead.
type WebhookHandler struct {
	BaseHandler
	userService *identityapp.UserService
	verifier    *identityinfra.WebhookVerifier
	logger      *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(userService *identityapp.UserService, verifier *identityinfra.WebhookVerifier, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{
		userService: userService,
		verifier:    verifier,
		logger:      logger,
	}
}

// RegisterRoutes registers webhook routes
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhooks/clerk", h.Handle)
}

// Handle verifies and applies one provider event
func (h *WebhookHandler) Handle(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		h.BadRequest(c, "Could not read request body")
		return
	}

	err = h.verifier.Verify(payload,
		c.GetHeader(headerWebhookID),
		c.GetHeader(headerWebhookTimestamp),
		c.GetHeader(headerWebhookSignature))
	if err != nil {
		h.logger.Warn("Rejected webhook delivery", zap.Error(err))
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidSignature), dto.ErrCodeInvalidSignature, "Webhook signature verification failed")
		return
	}

	var event identityapp.WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		h.BadRequest(c, "Malformed webhook payload")
		return
	}

	if err := h.userService.HandleWebhook(c.Request.Context(), &event); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"received": true})
}
