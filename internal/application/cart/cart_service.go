package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appcatalog "github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/application/catalog"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/cart"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/catalog"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/shared"
)

// CartService handles cart-related application logic
type CartService struct {
	cartRepo    cart.Repository
	productRepo catalog.ProductRepository
}

// NewCartService creates a new cart service
func NewCartService(cartRepo cart.Repository, productRepo catalog.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// List returns the user's cart enriched with current product information.
// Prices reflect the product's current effective price, not the price at
// the time the item was added.
func (s *CartService) List(ctx context.Context, userID string) (*CartResponse, error) {
	items, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := &CartResponse{
		Items:      make([]ItemResponse, 0, len(items)),
		TotalPrice: decimal.Zero,
	}
	if len(items) == 0 {
		return response, nil
	}

	productIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}
	products, err := s.productRepo.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productsByID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		productsByID[products[i].ID] = &products[i]
	}

	for _, item := range items {
		product, ok := productsByID[item.ProductID]
		if !ok {
			// Product was deleted after the item was added; skip the line.
			continue
		}

		unitPrice := product.EffectivePrice()
		lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))

		response.Items = append(response.Items, ItemResponse{
			ID:          item.ID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Image:       appcatalog.EncodeImageDataURL(product.Image),
			Color:       item.Color,
			Size:        item.Size,
			Quantity:    item.Quantity,
			UnitPrice:   unitPrice,
			LineTotal:   lineTotal,
			InStock:     product.IsActive() && product.InStock(item.Quantity),
			CreatedAt:   item.CreatedAt,
		})
		response.TotalQuantity += item.Quantity
		response.TotalPrice = response.TotalPrice.Add(lineTotal)
	}

	return response, nil
}

// AddItem adds a product variant to the user's cart. Adding a variant that
// is already in the cart merges the quantities into the existing row.
func (s *CartService) AddItem(ctx context.Context, userID string, req *AddItemRequest) (*cart.CartItem, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive() {
		return nil, shared.NewDomainError("PRODUCT_INACTIVE", "Product is not available")
	}
	if !product.InStock(req.Quantity) {
		return nil, shared.NewDomainError("INSUFFICIENT_STOCK", "Not enough stock available")
	}

	existing, err := s.cartRepo.FindVariant(ctx, userID, req.ProductID, req.Color, req.Size)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}

		item, err := cart.NewCartItem(userID, req.ProductID, req.Color, req.Size, req.Quantity)
		if err != nil {
			return nil, err
		}
		if err := s.cartRepo.Save(ctx, item); err != nil {
			return nil, err
		}
		return item, nil
	}

	if !product.InStock(existing.Quantity + req.Quantity) {
		return nil, shared.NewDomainError("INSUFFICIENT_STOCK", "Not enough stock available")
	}
	if err := existing.Merge(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, existing); err != nil {
		return nil, err
	}

	return existing, nil
}

// UpdateQuantity replaces the quantity of one cart line
func (s *CartService) UpdateQuantity(ctx context.Context, userID string, itemID uuid.UUID, req *UpdateItemRequest) (*cart.CartItem, error) {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.InStock(req.Quantity) {
		return nil, shared.NewDomainError("INSUFFICIENT_STOCK", "Not enough stock available")
	}

	if err := item.SetQuantity(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// RemoveItem removes one line from the user's cart
func (s *CartService) RemoveItem(ctx context.Context, userID string, itemID uuid.UUID) error {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}

	return s.cartRepo.Delete(ctx, item.ID)
}

// Clear removes every item from the user's cart
func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.cartRepo.DeleteByUser(ctx, userID)
}

// ownedItem loads a cart item and hides other users' items behind a
// not-found error so item IDs cannot be enumerated.
func (s *CartService) ownedItem(ctx context.Context, userID string, itemID uuid.UUID) (*cart.CartItem, error) {
	item, err := s.cartRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.BelongsTo(userID) {
		return nil, shared.ErrNotFound
	}
	return item, nil
}
