package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/application/identity"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/interfaces/http/middleware"
)

// UserHandler handles identity API endpoints
type UserHandler struct {
	BaseHandler
	userService  *identityapp.UserService
	requireAuth  gin.HandlerFunc
	requireAdmin gin.HandlerFunc
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService, requireAuth, requireAdmin gin.HandlerFunc) *UserHandler {
	return &UserHandler{
		userService:  userService,
		requireAuth:  requireAuth,
		requireAdmin: requireAdmin,
	}
}

// RegisterRoutes registers user routes
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users", h.requireAuth)
	{
		users.GET("/me", h.Me)
		users.POST("/check-admin", h.CheckAdmin)
	}

	admin := rg.Group("/admin/users", h.requireAuth, h.requireAdmin)
	{
		admin.GET("", h.List)
		admin.PUT("/:id/role", h.SetRole)
		admin.POST("/sync", h.Sync)
	}
}

// Me returns the caller's own mirror row, creating it on first sight
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.userService.EnsureUser(c.Request.Context(), getUserID(c), middleware.GetAuthEmail(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, user)
}

// CheckAdmin reports whether the account behind the given email is an
// admin. The storefront uses it to decide whether to show admin entry
// points.
func (h *UserHandler) CheckAdmin(c *gin.Context) {
	var req identityapp.CheckAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	isAdmin, err := h.userService.IsAdminByEmail(c.Request.Context(), req.Email)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, identityapp.CheckAdminResponse{IsAdmin: isAdmin})
}

// List returns every local user row
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, users)
}

// SetRole changes a user's authorization role
func (h *UserHandler) SetRole(c *gin.Context) {
	var req identityapp.SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.SetRole(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, user)
}

// Sync reconciles the local user table against the identity provider
func (h *UserHandler) Sync(c *gin.Context) {
	result, err := h.userService.SyncUsers(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
