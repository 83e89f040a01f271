package identity

import "context"

// Repository defines the interface for user persistence
type Repository interface {
	// FindByID finds a user by the provider-issued ID
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll returns every local user row
	FindAll(ctx context.Context) ([]User, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// Delete deletes a user by ID
	Delete(ctx context.Context, id string) error

	// DeleteByIDs deletes all users whose IDs are in the given set
	DeleteByIDs(ctx context.Context, ids []string) error
}
