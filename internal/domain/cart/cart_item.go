package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/shared"
)

// CartItem represents a pending purchase intent for one product variant.
// One row exists per (user, product, color, size); re-adding the same
// variant merges into the existing row instead of duplicating it.
type CartItem struct {
	shared.BaseAggregateRoot
	UserID    string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_cart_variant,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_variant,priority:2"`
	Color     string    `gorm:"type:varchar(50);not null;default:'';uniqueIndex:idx_cart_variant,priority:3"`
	Size      string    `gorm:"type:varchar(20);not null;default:'';uniqueIndex:idx_cart_variant,priority:4"`
	Quantity  int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// NewCartItem creates a new cart item
func NewCartItem(userID string, productID uuid.UUID, color, size string, quantity int) (*CartItem, error) {
	if userID == "" {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}
	if len(color) > 50 {
		return nil, shared.NewDomainError("INVALID_COLOR", "Color cannot exceed 50 characters")
	}
	if len(size) > 20 {
		return nil, shared.NewDomainError("INVALID_SIZE", "Size cannot exceed 20 characters")
	}

	return &CartItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		ProductID:         productID,
		Color:             color,
		Size:              size,
		Quantity:          quantity,
	}, nil
}

// Merge adds the given quantity onto the existing row
func (i *CartItem) Merge(quantity int) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}

	i.Quantity += quantity
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// SetQuantity replaces the quantity
func (i *CartItem) SetQuantity(quantity int) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}

	i.Quantity = quantity
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// SameVariant reports whether the item refers to the same product variant
func (i *CartItem) SameVariant(productID uuid.UUID, color, size string) bool {
	return i.ProductID == productID && i.Color == color && i.Size == size
}

// BelongsTo reports whether the item is owned by the given user
func (i *CartItem) BelongsTo(userID string) bool {
	return i.UserID == userID
}

func validateQuantity(quantity int) error {
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	return nil
}
