package cart

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for cart persistence
type Repository interface {
	// FindByID finds a cart item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*CartItem, error)

	// FindByUser finds all cart items for a user
	FindByUser(ctx context.Context, userID string) ([]CartItem, error)

	// FindVariant finds the row for a (user, product, color, size) tuple
	FindVariant(ctx context.Context, userID string, productID uuid.UUID, color, size string) (*CartItem, error)

	// Save creates or updates a cart item
	Save(ctx context.Context, item *CartItem) error

	// Delete deletes a cart item
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByUser deletes every cart item belonging to a user
	DeleteByUser(ctx context.Context, userID string) error
}
