package order

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/cart"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/catalog"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/order"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/shared"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/shared/valueobject"
)

func moneyPtr(amount int64) *valueobject.Money {
	m := valueobject.NewMoneyVNDFromInt(amount)
	return &m
}

// MockOrderRepository is a mock implementation of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByCode(ctx context.Context, code string) (*order.Order, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUser(ctx context.Context, userID string, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) CountByUser(ctx context.Context, userID string, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockCartRepository is a mock implementation of cart.Repository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.CartItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartRepository) FindByUser(ctx context.Context, userID string) ([]cart.CartItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cart.CartItem), args.Error(1)
}

func (m *MockCartRepository) FindVariant(ctx context.Context, userID string, productID uuid.UUID, color, size string) (*cart.CartItem, error) {
	args := m.Called(ctx, userID, productID, color, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, item *cart.CartItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteByUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindActive(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) CountActive(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// fakeTxManager runs the callback without a real transaction
type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type serviceMocks struct {
	orderRepo   *MockOrderRepository
	cartRepo    *MockCartRepository
	productRepo *MockProductRepository
	tx          *fakeTxManager
}

func newTestService() (*OrderService, *serviceMocks) {
	mocks := &serviceMocks{
		orderRepo:   new(MockOrderRepository),
		cartRepo:    new(MockCartRepository),
		productRepo: new(MockProductRepository),
		tx:          &fakeTxManager{},
	}
	service := NewOrderService(mocks.orderRepo, mocks.cartRepo, mocks.productRepo, mocks.tx)
	return service, mocks
}

func newTestProduct(t *testing.T, name string, price int64, stock int) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(name, decimal.NewFromInt(price), stock)
	require.NoError(t, err)
	return product
}

func newCartItem(t *testing.T, userID string, productID uuid.UUID, color, size string, quantity int) cart.CartItem {
	t.Helper()
	item, err := cart.NewCartItem(userID, productID, color, size, quantity)
	require.NoError(t, err)
	return *item
}

func validCheckout() *CheckoutRequest {
	return &CheckoutRequest{
		Name:           "Nguyen Van A",
		Address:        "12 Ly Thuong Kiet, Ha Noi",
		Phone:          "0901234567",
		PaymentMethod:  PaymentMethodCOD,
		ShippingMethod: "standard",
	}
}

func TestOrderService_Checkout(t *testing.T) {
	ctx := context.Background()
	userID := "user_2abc"

	t.Run("snapshots the cart into a processing order", func(t *testing.T) {
		service, mocks := newTestService()

		shirt := newTestProduct(t, "Ao so mi trang", 350000, 10)
		jacket := newTestProduct(t, "Ao khoac bomber", 800000, 5)
		items := []cart.CartItem{
			newCartItem(t, userID, shirt.ID, "Trang", "M", 2),
			newCartItem(t, userID, jacket.ID, "Den", "L", 1),
		}

		mocks.cartRepo.On("FindByUser", ctx, userID).Return(items, nil)
		mocks.productRepo.On("FindByIDs", ctx, mock.AnythingOfType("[]uuid.UUID")).
			Return([]catalog.Product{*shirt, *jacket}, nil)
		mocks.productRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)
		mocks.orderRepo.On("Save", ctx, mock.AnythingOfType("*order.Order")).Return(nil)
		mocks.cartRepo.On("DeleteByUser", ctx, userID).Return(nil)

		resp, err := service.Checkout(ctx, userID, validCheckout())

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(resp.Code, "DH"))
		assert.Equal(t, order.StatusProcessing.String(), resp.Status)
		require.Len(t, resp.Items, 2)
		assert.True(t, resp.TotalPrice.Equal(decimal.NewFromInt(2*350000+800000)))
		assert.Equal(t, 1, mocks.tx.calls)
		mocks.cartRepo.AssertCalled(t, "DeleteByUser", ctx, userID)
		mocks.productRepo.AssertNumberOfCalls(t, "Save", 2)
	})

	t.Run("snapshots the discounted price when one is set", func(t *testing.T) {
		service, mocks := newTestService()

		shirt := newTestProduct(t, "Ao so mi trang", 350000, 10)
		require.NoError(t, shirt.SetDiscountPrice(moneyPtr(280000)))
		items := []cart.CartItem{newCartItem(t, userID, shirt.ID, "Trang", "M", 1)}

		mocks.cartRepo.On("FindByUser", ctx, userID).Return(items, nil)
		mocks.productRepo.On("FindByIDs", ctx, mock.AnythingOfType("[]uuid.UUID")).
			Return([]catalog.Product{*shirt}, nil)
		mocks.productRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)
		mocks.orderRepo.On("Save", ctx, mock.AnythingOfType("*order.Order")).Return(nil)
		mocks.cartRepo.On("DeleteByUser", ctx, userID).Return(nil)

		resp, err := service.Checkout(ctx, userID, validCheckout())

		require.NoError(t, err)
		assert.True(t, resp.Items[0].UnitPrice.Equal(decimal.NewFromInt(280000)))
	})

	t.Run("rejects an empty cart", func(t *testing.T) {
		service, mocks := newTestService()

		mocks.cartRepo.On("FindByUser", ctx, userID).Return([]cart.CartItem{}, nil)

		_, err := service.Checkout(ctx, userID, validCheckout())

		assert.ErrorIs(t, err, shared.ErrCartEmpty)
		mocks.orderRepo.AssertNotCalled(t, "Save")
	})

	t.Run("rejects when stock ran out since the item was added", func(t *testing.T) {
		service, mocks := newTestService()

		shirt := newTestProduct(t, "Ao so mi trang", 350000, 1)
		items := []cart.CartItem{newCartItem(t, userID, shirt.ID, "Trang", "M", 3)}

		mocks.cartRepo.On("FindByUser", ctx, userID).Return(items, nil)
		mocks.productRepo.On("FindByIDs", ctx, mock.AnythingOfType("[]uuid.UUID")).
			Return([]catalog.Product{*shirt}, nil)

		_, err := service.Checkout(ctx, userID, validCheckout())

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		mocks.orderRepo.AssertNotCalled(t, "Save")
		mocks.cartRepo.AssertNotCalled(t, "DeleteByUser")
	})

	t.Run("rejects when a product was deactivated", func(t *testing.T) {
		service, mocks := newTestService()

		shirt := newTestProduct(t, "Ao so mi trang", 350000, 10)
		require.NoError(t, shirt.Deactivate())
		items := []cart.CartItem{newCartItem(t, userID, shirt.ID, "Trang", "M", 1)}

		mocks.cartRepo.On("FindByUser", ctx, userID).Return(items, nil)
		mocks.productRepo.On("FindByIDs", ctx, mock.AnythingOfType("[]uuid.UUID")).
			Return([]catalog.Product{*shirt}, nil)

		_, err := service.Checkout(ctx, userID, validCheckout())

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PRODUCT_UNAVAILABLE", domainErr.Code)
	})
}

func TestOrderService_GetByID(t *testing.T) {
	ctx := context.Background()

	newOrder := func(t *testing.T, userID string) *order.Order {
		t.Helper()
		o, err := order.NewOrder("DH202501010000011a2b", userID, "Nguyen Van A", "Ha Noi", "0901234567", PaymentMethodCOD, "standard")
		require.NoError(t, err)
		return o
	}

	t.Run("returns the owner's order", func(t *testing.T) {
		service, mocks := newTestService()

		o := newOrder(t, "user_2abc")
		mocks.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		resp, err := service.GetByID(ctx, "user_2abc", false, o.ID)

		require.NoError(t, err)
		assert.Equal(t, o.Code, resp.Code)
	})

	t.Run("hides another user's order behind not found", func(t *testing.T) {
		service, mocks := newTestService()

		o := newOrder(t, "user_other")
		mocks.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		_, err := service.GetByID(ctx, "user_2abc", false, o.ID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("lets an admin read any order", func(t *testing.T) {
		service, mocks := newTestService()

		o := newOrder(t, "user_other")
		mocks.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		resp, err := service.GetByID(ctx, "user_2abc", true, o.ID)

		require.NoError(t, err)
		assert.Equal(t, o.Code, resp.Code)
	})
}

func TestOrderService_Cancel(t *testing.T) {
	ctx := context.Background()
	userID := "user_2abc"

	newOrderWithItem := func(t *testing.T, owner string, product *catalog.Product, quantity int) *order.Order {
		t.Helper()
		o, err := order.NewOrder("DH202501010000011a2b", owner, "Nguyen Van A", "Ha Noi", "0901234567", PaymentMethodCOD, "standard")
		require.NoError(t, err)
		_, err = o.AddItem(product.ID, product.Name, product.EffectivePriceMoney(), quantity, "Trang", "M")
		require.NoError(t, err)
		return o
	}

	t.Run("cancels a processing order and restocks", func(t *testing.T) {
		service, mocks := newTestService()

		shirt := newTestProduct(t, "Ao so mi trang", 350000, 8)
		o := newOrderWithItem(t, userID, shirt, 2)

		mocks.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
		mocks.productRepo.On("FindByID", ctx, shirt.ID).Return(shirt, nil)
		mocks.productRepo.On("Save", ctx, shirt).Return(nil)
		mocks.orderRepo.On("Save", ctx, o).Return(nil)

		resp, err := service.Cancel(ctx, userID, o.ID)

		require.NoError(t, err)
		assert.Equal(t, order.StatusCancelled.String(), resp.Status)
		assert.Equal(t, 10, shirt.Stock)
	})

	t.Run("refuses to cancel a completed order", func(t *testing.T) {
		service, mocks := newTestService()

		shirt := newTestProduct(t, "Ao so mi trang", 350000, 8)
		o := newOrderWithItem(t, userID, shirt, 2)
		require.NoError(t, o.Complete(service.now()))

		mocks.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		_, err := service.Cancel(ctx, userID, o.ID)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		mocks.orderRepo.AssertNotCalled(t, "Save")
	})

	t.Run("hides another user's order behind not found", func(t *testing.T) {
		service, mocks := newTestService()

		shirt := newTestProduct(t, "Ao so mi trang", 350000, 8)
		o := newOrderWithItem(t, "user_other", shirt, 2)

		mocks.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		_, err := service.Cancel(ctx, userID, o.ID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestOrderService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("completes a processing order", func(t *testing.T) {
		service, mocks := newTestService()

		o, err := order.NewOrder("DH202501010000011a2b", "user_2abc", "Nguyen Van A", "Ha Noi", "0901234567", PaymentMethodCOD, "standard")
		require.NoError(t, err)

		mocks.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
		mocks.orderRepo.On("Save", ctx, o).Return(nil)

		resp, err := service.UpdateStatus(ctx, o.ID, &UpdateStatusRequest{Status: "COMPLETED"})

		require.NoError(t, err)
		assert.Equal(t, order.StatusCompleted.String(), resp.Status)
		assert.NotNil(t, resp.PaidAt)
	})

	t.Run("refuses to reopen a cancelled order", func(t *testing.T) {
		service, mocks := newTestService()

		o, err := order.NewOrder("DH202501010000011a2b", "user_2abc", "Nguyen Van A", "Ha Noi", "0901234567", PaymentMethodCOD, "standard")
		require.NoError(t, err)
		require.NoError(t, o.Cancel())

		mocks.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		_, err = service.UpdateStatus(ctx, o.ID, &UpdateStatusRequest{Status: "COMPLETED"})

		require.Error(t, err)
		mocks.orderRepo.AssertNotCalled(t, "Save")
	})
}

func TestOrderService_List(t *testing.T) {
	ctx := context.Background()
	userID := "user_2abc"

	service, mocks := newTestService()

	o, err := order.NewOrder("DH202501010000011a2b", userID, "Nguyen Van A", "Ha Noi", "0901234567", PaymentMethodCOD, "standard")
	require.NoError(t, err)

	mocks.orderRepo.On("FindByUser", ctx, userID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == defaultPageSize && f.OrderBy == "created_at" && f.OrderDir == "desc"
	})).Return([]order.Order{*o}, nil)
	mocks.orderRepo.On("CountByUser", ctx, userID, mock.AnythingOfType("shared.Filter")).Return(int64(1), nil)

	result, err := service.List(ctx, userID, ListFilter{})

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	require.Len(t, result.Items, 1)
	assert.Equal(t, o.Code, result.Items[0].Code)
}

func TestOrderService_ListCountsWithTheActiveFilter(t *testing.T) {
	ctx := context.Background()
	userID := "user_2abc"

	service, mocks := newTestService()

	o, err := order.NewOrder("DH202501010000011a2b", userID, "Nguyen Van A", "Ha Noi", "0901234567", PaymentMethodCOD, "standard")
	require.NoError(t, err)
	require.NoError(t, o.Cancel())

	statusFiltered := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["status"] == "CANCELLED"
	})
	mocks.orderRepo.On("FindByUser", ctx, userID, statusFiltered).Return([]order.Order{*o}, nil)
	mocks.orderRepo.On("CountByUser", ctx, userID, statusFiltered).Return(int64(1), nil)

	result, err := service.List(ctx, userID, ListFilter{Status: "CANCELLED"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	require.Len(t, result.Items, 1)
}

func TestOrderService_ListAll(t *testing.T) {
	ctx := context.Background()

	service, mocks := newTestService()

	mocks.orderRepo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["status"] == "PROCESSING" && f.Search == "0901"
	})).Return([]order.Order{}, nil)
	mocks.orderRepo.On("Count", ctx, mock.AnythingOfType("shared.Filter")).Return(int64(0), nil)

	result, err := service.ListAll(ctx, ListFilter{Status: "PROCESSING", Search: "0901"})

	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Total)
	assert.Empty(t, result.Items)
}

func TestOrderService_ListAllFiltersByUser(t *testing.T) {
	ctx := context.Background()

	service, mocks := newTestService()

	mocks.orderRepo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["user_id"] == "user_2buyer"
	})).Return([]order.Order{}, nil)
	mocks.orderRepo.On("Count", ctx, mock.AnythingOfType("shared.Filter")).Return(int64(0), nil)

	_, err := service.ListAll(ctx, ListFilter{UserID: "user_2buyer"})

	require.NoError(t, err)
}
