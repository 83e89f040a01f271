package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/shared"
)

// Repository defines the interface for order persistence
type Repository interface {
	// FindByID finds an order (with items) by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByCode finds an order (with items) by its order code
	FindByCode(ctx context.Context, code string) (*Order, error)

	// FindByUser finds all orders for a user, newest first
	FindByUser(ctx context.Context, userID string, filter shared.Filter) ([]Order, error)

	// FindAll finds all orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order together with its items
	Save(ctx context.Context, order *Order) error

	// CountByUser counts a user's orders matching the filter
	CountByUser(ctx context.Context, userID string, filter shared.Filter) (int64, error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
