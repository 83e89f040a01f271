package payment

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/order"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/payment"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/shared"
)

// responseCodeInvalidSignature is reported to the storefront when the
// gateway redirect fails signature verification.
const responseCodeInvalidSignature = "97"

// CreatePaymentURLRequest represents a request to start an online payment
type CreatePaymentURLRequest struct {
	OrderID  uuid.UUID `json:"order_id" binding:"required"`
	BankCode string    `json:"bank_code" binding:"max=20"`
	Locale   string    `json:"locale" binding:"omitempty,oneof=vn en"`
}

// PaymentURLResponse carries the gateway URL the buyer is sent to
type PaymentURLResponse struct {
	PaymentURL string `json:"payment_url"`
}

// ReturnOutcome is the result of handling a gateway return redirect. The
// buyer's browser is forwarded to RedirectURL on the storefront.
type ReturnOutcome struct {
	Success      bool
	OrderCode    string
	ResponseCode string
	RedirectURL  string
}

// PaymentService handles online payment application logic
type PaymentService struct {
	orderRepo         order.Repository
	gateway           payment.Gateway
	replayGuard       shared.ReplayGuard
	txManager         shared.TransactionManager
	frontendResultURL string
	replayTTL         time.Duration
	logger            *zap.Logger
	now               func() time.Time
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	orderRepo order.Repository,
	gateway payment.Gateway,
	replayGuard shared.ReplayGuard,
	txManager shared.TransactionManager,
	frontendResultURL string,
	replayTTL time.Duration,
	logger *zap.Logger,
) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		orderRepo:         orderRepo,
		gateway:           gateway,
		replayGuard:       replayGuard,
		txManager:         txManager,
		frontendResultURL: frontendResultURL,
		replayTTL:         replayTTL,
		logger:            logger,
		now:               time.Now,
	}
}

// CreatePaymentURL builds a signed gateway URL for the user's own
// PROCESSING order. The amount always comes from the stored order total,
// never from the request.
func (s *PaymentService) CreatePaymentURL(ctx context.Context, userID, clientIP string, req *CreatePaymentURLRequest) (*PaymentURLResponse, error) {
	found, err := s.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if !found.BelongsTo(userID) {
		return nil, shared.ErrNotFound
	}
	if !found.IsProcessing() {
		return nil, shared.NewDomainError("INVALID_STATE", "Order is not awaiting payment")
	}

	paymentURL, err := s.gateway.BuildPaymentURL(ctx, &payment.CreatePaymentRequest{
		OrderCode: found.Code,
		Amount:    found.TotalPriceMoney(),
		OrderInfo: fmt.Sprintf("Thanh toan don hang %s", found.Code),
		ClientIP:  clientIP,
		BankCode:  req.BankCode,
		Locale:    req.Locale,
		CreatedAt: s.now(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Created payment URL",
		zap.String("order_code", found.Code),
		zap.String("user_id", userID))

	return &PaymentURLResponse{PaymentURL: paymentURL}, nil
}

// ProcessReturn handles the gateway's return redirect. A verified
// successful payment whose amount matches the order total completes the
// order exactly once; every outcome, including a tampered redirect, ends
// in a storefront redirect rather than an error page.
func (s *PaymentService) ProcessReturn(ctx context.Context, params map[string]string) (*ReturnOutcome, error) {
	result, err := s.gateway.VerifyReturn(ctx, params)
	if err != nil {
		return nil, err
	}

	if !result.Valid {
		s.logger.Warn("Rejected payment return with bad signature",
			zap.String("order_code", result.OrderCode))
		return s.outcome(result.OrderCode, responseCodeInvalidSignature, false), nil
	}

	if !result.Success {
		s.logger.Info("Payment was not completed",
			zap.String("order_code", result.OrderCode),
			zap.String("response_code", result.ResponseCode))
		return s.outcome(result.OrderCode, result.ResponseCode, false), nil
	}

	if err := s.completeOrder(ctx, result); err != nil {
		return nil, err
	}

	return s.outcome(result.OrderCode, result.ResponseCode, true), nil
}

// completeOrder marks the paid order COMPLETED. The transition is
// idempotent on the order's own status, so a replayed return stays a
// success even after the replay guard has forgotten the first delivery.
func (s *PaymentService) completeOrder(ctx context.Context, result *payment.ReturnResult) error {
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		found, err := s.orderRepo.FindByCode(ctx, result.OrderCode)
		if err != nil {
			return err
		}

		if found.Status == order.StatusCompleted {
			s.logger.Info("Ignoring replayed payment return",
				zap.String("order_code", result.OrderCode))
			return nil
		}

		if !found.TotalPrice.Equal(result.Amount) {
			s.logger.Warn("Payment amount does not match the order total",
				zap.String("order_code", result.OrderCode),
				zap.String("paid", result.Amount.String()),
				zap.String("expected", found.TotalPrice.String()))
			return shared.NewDomainError("AMOUNT_MISMATCH", "Paid amount does not match the order total")
		}

		paidAt := result.PayDate
		if paidAt.IsZero() {
			paidAt = s.now()
		}
		if err := found.Complete(paidAt); err != nil {
			return err
		}
		if err := s.orderRepo.Save(ctx, found); err != nil {
			return err
		}

		s.logger.Info("Completed paid order",
			zap.String("order_code", result.OrderCode),
			zap.String("transaction_no", result.TransactionNo))
		return nil
	})
	if err != nil {
		return err
	}

	// Mark only after the commit; a mark taken inside the transaction
	// would survive a rollback and swallow the next genuine return.
	if _, err := s.replayGuard.MarkProcessed(ctx, result.OrderCode, s.replayTTL); err != nil {
		s.logger.Warn("Failed to record handled payment return",
			zap.String("order_code", result.OrderCode),
			zap.Error(err))
	}
	return nil
}

// outcome builds the storefront redirect for one payment result
func (s *PaymentService) outcome(orderCode, responseCode string, success bool) *ReturnOutcome {
	query := url.Values{}
	query.Set("success", strconv.FormatBool(success))
	query.Set("orderCode", orderCode)
	query.Set("responseCode", responseCode)

	return &ReturnOutcome{
		Success:      success,
		OrderCode:    orderCode,
		ResponseCode: responseCode,
		RedirectURL:  s.frontendResultURL + "?" + query.Encode(),
	}
}
