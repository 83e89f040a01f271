package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/cart"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/shared"
)

// GormCartRepository implements cart.Repository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByID finds a cart item by its ID
func (r *GormCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.CartItem, error) {
	var item cart.CartItem
	if err := dbFrom(ctx, r.db).WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByUser finds all cart items for a user, oldest first
func (r *GormCartRepository) FindByUser(ctx context.Context, userID string) ([]cart.CartItem, error) {
	var items []cart.CartItem
	if err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindVariant finds the row for a (user, product, color, size) tuple
func (r *GormCartRepository) FindVariant(ctx context.Context, userID string, productID uuid.UUID, color, size string) (*cart.CartItem, error) {
	var item cart.CartItem
	if err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("user_id = ? AND product_id = ? AND color = ? AND size = ?", userID, productID, color, size).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Save creates or updates a cart item
func (r *GormCartRepository) Save(ctx context.Context, item *cart.CartItem) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(item).Error
}

// Delete deletes a cart item
func (r *GormCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFrom(ctx, r.db).WithContext(ctx).Delete(&cart.CartItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByUser deletes every cart item belonging to a user
func (r *GormCartRepository) DeleteByUser(ctx context.Context, userID string) error {
	return dbFrom(ctx, r.db).WithContext(ctx).
		Delete(&cart.CartItem{}, "user_id = ?", userID).Error
}

// Ensure GormCartRepository implements cart.Repository
var _ cart.Repository = (*GormCartRepository)(nil)
