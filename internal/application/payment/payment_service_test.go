package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/order"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/payment"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/shared"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/shared/valueobject"
)

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

// MockGateway is a mock implementation of payment.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) BuildPaymentURL(ctx context.Context, req *payment.CreatePaymentRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) VerifyReturn(ctx context.Context, params map[string]string) (*payment.ReturnResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.ReturnResult), args.Error(1)
}

// MockReplayGuard is a mock implementation of shared.ReplayGuard
type MockReplayGuard struct {
	mock.Mock
}

func (m *MockReplayGuard) MarkProcessed(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, id, ttl)
	return args.Bool(0), args.Error(1)
}

// fakeTxManager runs the callback without a real transaction
type fakeTxManager struct{}

func (fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

const frontendResultURL = "https://shop.example.com/payment/result"

func newTestService(orderRepo *MockOrderRepository, gateway *MockGateway, guard *MockReplayGuard) *PaymentService {
	return NewPaymentService(orderRepo, gateway, guard, fakeTxManager{}, frontendResultURL, 24*time.Hour, nil)
}

func newPaidOrder(t *testing.T, userID string, total int64) *order.Order {
	t.Helper()
	o, err := order.NewOrder("DH202501010000011a2b", userID, "Nguyen Van A", "Ha Noi", "0901234567", "vnpay", "standard")
	require.NoError(t, err)
	_, err = o.AddItem(uuid.New(), "Ao so mi trang", valueobject.NewMoneyVNDFromInt(total), 1, "Trang", "M")
	require.NoError(t, err)
	return o
}

func TestPaymentService_CreatePaymentURL(t *testing.T) {
	ctx := context.Background()
	userID := "user_2abc"

	t.Run("builds a URL from the stored order total", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		gateway := new(MockGateway)
		service := newTestService(orderRepo, gateway, new(MockReplayGuard))

		o := newPaidOrder(t, userID, 1250000)
		orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
		gateway.On("BuildPaymentURL", ctx, mock.MatchedBy(func(req *payment.CreatePaymentRequest) bool {
			return req.OrderCode == o.Code &&
				req.Amount.Amount().Equal(decimal.NewFromInt(1250000)) &&
				req.ClientIP == "203.0.113.7"
		})).Return("https://sandbox.vnpayment.vn/paymentv2/vpcpay.html?vnp_Amount=125000000", nil)

		resp, err := service.CreatePaymentURL(ctx, userID, "203.0.113.7", &CreatePaymentURLRequest{OrderID: o.ID})

		require.NoError(t, err)
		assert.Contains(t, resp.PaymentURL, "vnp_Amount=125000000")
		gateway.AssertExpectations(t)
	})

	t.Run("hides another user's order behind not found", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		gateway := new(MockGateway)
		service := newTestService(orderRepo, gateway, new(MockReplayGuard))

		o := newPaidOrder(t, "user_other", 1250000)
		orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		_, err := service.CreatePaymentURL(ctx, userID, "203.0.113.7", &CreatePaymentURLRequest{OrderID: o.ID})

		assert.ErrorIs(t, err, shared.ErrNotFound)
		gateway.AssertNotCalled(t, "BuildPaymentURL")
	})

	t.Run("refuses an order that is no longer processing", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		gateway := new(MockGateway)
		service := newTestService(orderRepo, gateway, new(MockReplayGuard))

		o := newPaidOrder(t, userID, 1250000)
		require.NoError(t, o.Cancel())
		orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		_, err := service.CreatePaymentURL(ctx, userID, "203.0.113.7", &CreatePaymentURLRequest{OrderID: o.ID})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestPaymentService_ProcessReturn(t *testing.T) {
	ctx := context.Background()
	params := map[string]string{"vnp_TxnRef": "DH202501010000011a2b"}

	t.Run("completes the order on a verified successful payment", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		gateway := new(MockGateway)
		guard := new(MockReplayGuard)
		service := newTestService(orderRepo, gateway, guard)

		o := newPaidOrder(t, "user_2abc", 1250000)
		paidAt := time.Date(2025, 1, 2, 10, 30, 0, 0, time.FixedZone("ICT", 7*60*60))

		gateway.On("VerifyReturn", ctx, params).Return(&payment.ReturnResult{
			Valid:        true,
			Success:      true,
			ResponseCode: "00",
			OrderCode:    o.Code,
			Amount:       decimal.NewFromInt(1250000),
			PayDate:      paidAt,
		}, nil)
		orderRepo.On("FindByCode", ctx, o.Code).Return(o, nil)
		guard.On("MarkProcessed", ctx, o.Code, 24*time.Hour).Return(true, nil)
		orderRepo.On("Save", ctx, o).Return(nil)

		outcome, err := service.ProcessReturn(ctx, params)

		require.NoError(t, err)
		assert.True(t, outcome.Success)
		assert.Equal(t, order.StatusCompleted, o.Status)
		require.NotNil(t, o.PaidAt)
		assert.True(t, o.PaidAt.Equal(paidAt))
		assert.Contains(t, outcome.RedirectURL, frontendResultURL)
		assert.Contains(t, outcome.RedirectURL, "success=true")
	})

	t.Run("redirects with a failure code on an invalid signature", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		gateway := new(MockGateway)
		service := newTestService(orderRepo, gateway, new(MockReplayGuard))

		gateway.On("VerifyReturn", ctx, params).Return(&payment.ReturnResult{
			Valid:     false,
			OrderCode: "DH202501010000011a2b",
		}, nil)

		outcome, err := service.ProcessReturn(ctx, params)

		require.NoError(t, err)
		assert.False(t, outcome.Success)
		assert.Equal(t, responseCodeInvalidSignature, outcome.ResponseCode)
		orderRepo.AssertNotCalled(t, "FindByCode")
	})

	t.Run("redirects without completing on a declined payment", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		gateway := new(MockGateway)
		service := newTestService(orderRepo, gateway, new(MockReplayGuard))

		gateway.On("VerifyReturn", ctx, params).Return(&payment.ReturnResult{
			Valid:        true,
			Success:      false,
			ResponseCode: "24",
			OrderCode:    "DH202501010000011a2b",
		}, nil)

		outcome, err := service.ProcessReturn(ctx, params)

		require.NoError(t, err)
		assert.False(t, outcome.Success)
		assert.Equal(t, "24", outcome.ResponseCode)
		assert.Contains(t, outcome.RedirectURL, "success=false")
		orderRepo.AssertNotCalled(t, "Save")
	})

	t.Run("rejects a paid amount that differs from the order total", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		gateway := new(MockGateway)
		guard := new(MockReplayGuard)
		service := newTestService(orderRepo, gateway, guard)

		o := newPaidOrder(t, "user_2abc", 1250000)
		gateway.On("VerifyReturn", ctx, params).Return(&payment.ReturnResult{
			Valid:        true,
			Success:      true,
			ResponseCode: "00",
			OrderCode:    o.Code,
			Amount:       decimal.NewFromInt(1000),
		}, nil)
		orderRepo.On("FindByCode", ctx, o.Code).Return(o, nil)

		_, err := service.ProcessReturn(ctx, params)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "AMOUNT_MISMATCH", domainErr.Code)
		assert.Equal(t, order.StatusProcessing, o.Status)
		guard.AssertNotCalled(t, "MarkProcessed")
	})

	t.Run("a replayed return does not complete the order twice", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		gateway := new(MockGateway)
		guard := new(MockReplayGuard)
		service := newTestService(orderRepo, gateway, guard)

		o := newPaidOrder(t, "user_2abc", 1250000)
		require.NoError(t, o.Complete(time.Now()))

		gateway.On("VerifyReturn", ctx, params).Return(&payment.ReturnResult{
			Valid:        true,
			Success:      true,
			ResponseCode: "00",
			OrderCode:    o.Code,
			Amount:       decimal.NewFromInt(1250000),
		}, nil)
		orderRepo.On("FindByCode", ctx, o.Code).Return(o, nil)
		guard.On("MarkProcessed", ctx, o.Code, 24*time.Hour).Return(false, nil)

		outcome, err := service.ProcessReturn(ctx, params)

		require.NoError(t, err)
		assert.True(t, outcome.Success)
		orderRepo.AssertNotCalled(t, "Save")
	})

	t.Run("a replayed return stays a success after the guard forgot it", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		gateway := new(MockGateway)
		guard := new(MockReplayGuard)
		service := newTestService(orderRepo, gateway, guard)

		o := newPaidOrder(t, "user_2abc", 1250000)
		require.NoError(t, o.Complete(time.Now()))

		gateway.On("VerifyReturn", ctx, params).Return(&payment.ReturnResult{
			Valid:        true,
			Success:      true,
			ResponseCode: "00",
			OrderCode:    o.Code,
			Amount:       decimal.NewFromInt(1250000),
		}, nil)
		orderRepo.On("FindByCode", ctx, o.Code).Return(o, nil)
		guard.On("MarkProcessed", ctx, o.Code, 24*time.Hour).Return(true, nil)

		outcome, err := service.ProcessReturn(ctx, params)

		require.NoError(t, err)
		assert.True(t, outcome.Success)
		assert.Contains(t, outcome.RedirectURL, "success=true")
		orderRepo.AssertNotCalled(t, "Save")
	})

	t.Run("a failed save does not mark the return as handled", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		gateway := new(MockGateway)
		guard := new(MockReplayGuard)
		service := newTestService(orderRepo, gateway, guard)

		o := newPaidOrder(t, "user_2abc", 1250000)
		gateway.On("VerifyReturn", ctx, params).Return(&payment.ReturnResult{
			Valid:        true,
			Success:      true,
			ResponseCode: "00",
			OrderCode:    o.Code,
			Amount:       decimal.NewFromInt(1250000),
		}, nil)
		orderRepo.On("FindByCode", ctx, o.Code).Return(o, nil)
		orderRepo.On("Save", ctx, o).Return(errors.New("connection reset"))

		_, err := service.ProcessReturn(ctx, params)

		require.Error(t, err)
		guard.AssertNotCalled(t, "MarkProcessed")
	})
}
