package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/shared"
)

// Role represents the authorization role of a user
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is a local mirror of an account managed by the external identity
// provider. The ID is the provider-issued identifier and is the primary
// key; passwords and sessions live with the provider, not here.
type User struct {
	ID        string `gorm:"type:varchar(64);primaryKey"`
	Email     string `gorm:"type:varchar(320);not null;uniqueIndex"`
	FirstName string `gorm:"type:varchar(100)"`
	LastName  string `gorm:"type:varchar(100)"`
	ImageURL  string `gorm:"type:varchar(500)"`
	Role      Role   `gorm:"type:varchar(20);not null;default:'user'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a local mirror row for a provider account
func NewUser(id, email, firstName, lastName, imageURL string) (*User, error) {
	if id == "" {
		return nil, shared.NewDomainError("INVALID_USER", "Provider user ID cannot be empty")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	now := time.Now()
	return &User{
		ID:        id,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		FirstName: firstName,
		LastName:  lastName,
		ImageURL:  imageURL,
		Role:      RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SyncProfile updates profile fields from the provider. The role is local
// state and is deliberately left untouched.
func (u *User) SyncProfile(firstName, lastName, imageURL string) {
	u.FirstName = firstName
	u.LastName = lastName
	u.ImageURL = imageURL
	u.UpdatedAt = time.Now()
}

// SetRole sets the authorization role
func (u *User) SetRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Role must be user or admin")
	}

	u.Role = role
	u.UpdatedAt = time.Now()

	return nil
}

// IsAdmin returns true if the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// FullName returns the display name composed from first and last name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 320 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 320 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	return nil
}
