package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/cart"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/catalog"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/order"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/shared"
)

const defaultPageSize = 20

// OrderService handles order-related application logic
type OrderService struct {
	orderRepo   order.Repository
	cartRepo    cart.Repository
	productRepo catalog.ProductRepository
	txManager   shared.TransactionManager
	now         func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo order.Repository,
	cartRepo cart.Repository,
	productRepo catalog.ProductRepository,
	txManager shared.TransactionManager,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		txManager:   txManager,
		now:         time.Now,
	}
}

// Checkout turns the user's cart into a PROCESSING order. Line items
// snapshot the product name and effective price at this moment, stock is
// decremented, and the cart is emptied. Everything happens in one
// transaction so a failed checkout leaves no partial state behind.
func (s *OrderService) Checkout(ctx context.Context, userID string, req *CheckoutRequest) (*OrderResponse, error) {
	var created *order.Order

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		items, err := s.cartRepo.FindByUser(ctx, userID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return shared.ErrCartEmpty
		}

		productIDs := make([]uuid.UUID, 0, len(items))
		for _, item := range items {
			productIDs = append(productIDs, item.ProductID)
		}
		products, err := s.productRepo.FindByIDs(ctx, productIDs)
		if err != nil {
			return err
		}
		productsByID := make(map[uuid.UUID]*catalog.Product, len(products))
		for i := range products {
			productsByID[products[i].ID] = &products[i]
		}

		newOrder, err := order.NewOrder(
			s.generateOrderCode(),
			userID,
			req.Name,
			req.Address,
			req.Phone,
			req.PaymentMethod,
			req.ShippingMethod,
		)
		if err != nil {
			return err
		}

		for _, item := range items {
			product, ok := productsByID[item.ProductID]
			if !ok {
				return shared.NewDomainError("PRODUCT_UNAVAILABLE", fmt.Sprintf("Product %s is no longer available", item.ProductID))
			}
			if !product.IsActive() {
				return shared.NewDomainError("PRODUCT_UNAVAILABLE", fmt.Sprintf("Product %q is no longer available", product.Name))
			}
			if !product.InStock(item.Quantity) {
				return shared.NewDomainError("INSUFFICIENT_STOCK", fmt.Sprintf("Not enough stock for %q", product.Name))
			}

			if _, err := newOrder.AddItem(product.ID, product.Name, product.EffectivePriceMoney(), item.Quantity, item.Color, item.Size); err != nil {
				return err
			}

			if err := product.SetStock(product.Stock - item.Quantity); err != nil {
				return err
			}
			if err := s.productRepo.Save(ctx, product); err != nil {
				return err
			}
		}

		if err := s.orderRepo.Save(ctx, newOrder); err != nil {
			return err
		}
		if err := s.cartRepo.DeleteByUser(ctx, userID); err != nil {
			return err
		}

		created = newOrder
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ToOrderResponse(created), nil
}

// List returns the user's own orders, newest first
func (s *OrderService) List(ctx context.Context, userID string, filter ListFilter) (*shared.Paginated[OrderResponse], error) {
	domainFilter := toDomainFilter(filter)

	orders, err := s.orderRepo.FindByUser(ctx, userID, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.CountByUser(ctx, userID, domainFilter)
	if err != nil {
		return nil, err
	}

	return paginate(orders, total, domainFilter), nil
}

// ListAll returns every order matching the filter. Admin only.
func (s *OrderService) ListAll(ctx context.Context, filter ListFilter) (*shared.Paginated[OrderResponse], error) {
	domainFilter := toDomainFilter(filter)
	if filter.UserID != "" {
		domainFilter.Filters["user_id"] = filter.UserID
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	return paginate(orders, total, domainFilter), nil
}

// GetByID returns one order. Non-admin callers only see their own
// orders; anyone else's order answers with not found so order IDs
// cannot be enumerated.
func (s *OrderService) GetByID(ctx context.Context, userID string, isAdmin bool, id uuid.UUID) (*OrderResponse, error) {
	found, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !found.BelongsTo(userID) {
		return nil, shared.ErrNotFound
	}

	return ToOrderResponse(found), nil
}

// Cancel cancels the user's own PROCESSING order and returns the
// reserved stock to the catalog.
func (s *OrderService) Cancel(ctx context.Context, userID string, id uuid.UUID) (*OrderResponse, error) {
	var cancelled *order.Order

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		found, err := s.orderRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !found.BelongsTo(userID) {
			return shared.ErrNotFound
		}
		if err := found.Cancel(); err != nil {
			return err
		}

		if err := s.restock(ctx, found); err != nil {
			return err
		}
		if err := s.orderRepo.Save(ctx, found); err != nil {
			return err
		}

		cancelled = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ToOrderResponse(cancelled), nil
}

// UpdateStatus moves an order to a terminal status. Admin only.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req *UpdateStatusRequest) (*OrderResponse, error) {
	var updated *order.Order

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		found, err := s.orderRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		switch order.Status(req.Status) {
		case order.StatusCompleted:
			if err := found.Complete(s.now()); err != nil {
				return err
			}
		case order.StatusCancelled:
			if err := found.Cancel(); err != nil {
				return err
			}
			if err := s.restock(ctx, found); err != nil {
				return err
			}
		default:
			return shared.NewDomainError("INVALID_STATUS", "Unknown order status")
		}

		if err := s.orderRepo.Save(ctx, found); err != nil {
			return err
		}

		updated = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ToOrderResponse(updated), nil
}

// restock returns the quantities of a cancelled order to the catalog.
// Products deleted since checkout are skipped.
func (s *OrderService) restock(ctx context.Context, o *order.Order) error {
	for i := range o.Items {
		item := &o.Items[i]

		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return err
		}
		if err := product.SetStock(product.Stock + item.Quantity); err != nil {
			return err
		}
		if err := s.productRepo.Save(ctx, product); err != nil {
			return err
		}
	}
	return nil
}

// generateOrderCode builds a human-readable order code. The timestamp
// keeps codes sortable; the random suffix avoids collisions when two
// checkouts land in the same second.
func (s *OrderService) generateOrderCode() string {
	return fmt.Sprintf("DH%s%s", s.now().Format("20060102150405"), uuid.New().String()[:4])
}

func toDomainFilter(filter ListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	} else {
		domainFilter.PageSize = defaultPageSize
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	return domainFilter
}

func paginate(orders []order.Order, total int64, filter shared.Filter) *shared.Paginated[OrderResponse] {
	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, *ToOrderResponse(&orders[i]))
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result
}
