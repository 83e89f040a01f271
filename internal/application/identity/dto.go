package identity

import (
	"time"

	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/identity"
)

// Webhook event types emitted by the identity provider
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	FullName  string    `json:"full_name"`
	ImageURL  string    `json:"image_url,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ToUserResponse converts a domain user to a user response
func ToUserResponse(u *identity.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		ImageURL:  u.ImageURL,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// SetRoleRequest represents an admin request to change a user's role
type SetRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user admin"`
}

// CheckAdminRequest asks whether an account holds the admin role
type CheckAdminRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// CheckAdminResponse answers a CheckAdminRequest
type CheckAdminResponse struct {
	IsAdmin bool `json:"is_admin"`
}

// SyncResult summarizes one reconciliation run against the provider
type SyncResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
}

// WebhookEvent is the envelope the provider posts to the webhook endpoint
type WebhookEvent struct {
	Type string      `json:"type"`
	Data WebhookUser `json:"data"`
}

// WebhookUser is the user payload carried inside a webhook event
type WebhookUser struct {
	ID                    string                `json:"id"`
	FirstName             string                `json:"first_name"`
	LastName              string                `json:"last_name"`
	ImageURL              string                `json:"image_url"`
	PrimaryEmailAddressID string                `json:"primary_email_address_id"`
	EmailAddresses        []WebhookEmailAddress `json:"email_addresses"`
}

// WebhookEmailAddress is one email address entry in a webhook payload
type WebhookEmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// Email resolves the primary email address, falling back to the first
// address when the primary reference does not resolve.
func (u WebhookUser) Email() string {
	for _, address := range u.EmailAddresses {
		if address.ID == u.PrimaryEmailAddressID {
			return address.EmailAddress
		}
	}
	if len(u.EmailAddresses) > 0 {
		return u.EmailAddresses[0].EmailAddress
	}
	return ""
}
