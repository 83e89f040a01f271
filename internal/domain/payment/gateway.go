// Package payment defines the gateway port for the hosted-checkout
// payment flow. The buyer is redirected to the gateway with a signed
// URL and comes back on a signed return URL.
package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/shared"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/shared/valueobject"
)

// Common payment errors
var (
	ErrInvalidSignature = shared.NewDomainError("INVALID_SIGNATURE", "Payment signature verification failed")
	ErrInvalidAmount    = shared.NewDomainError("INVALID_AMOUNT", "Payment amount is invalid")
)

// CreatePaymentRequest carries what the gateway needs to build a hosted
// checkout URL for an order
type CreatePaymentRequest struct {
	OrderCode string
	Amount    valueobject.Money
	OrderInfo string
	ClientIP  string
	BankCode  string // optional, pre-selects a bank at the gateway
	Locale    string // vn or en, defaults to vn
	CreatedAt time.Time
}

// Validate checks the request fields
func (r *CreatePaymentRequest) Validate() error {
	if r.OrderCode == "" {
		return shared.NewDomainError("INVALID_ORDER_CODE", "Order code cannot be empty")
	}
	if !r.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if r.ClientIP == "" {
		return shared.NewDomainError("INVALID_CLIENT_IP", "Client IP cannot be empty")
	}
	return nil
}

// ReturnResult is the verified outcome of a gateway redirect back
type ReturnResult struct {
	Valid         bool            // signature checked out
	Success       bool            // gateway reported a successful payment
	ResponseCode  string          // raw gateway response code, "00" on success
	OrderCode     string          // the vnp_TxnRef echoed back
	Amount        decimal.Decimal // amount in VND as charged by the gateway
	TransactionNo string          // gateway-side transaction number
	BankCode      string
	PayDate       time.Time
}

// Gateway builds signed payment URLs and verifies signed returns
type Gateway interface {
	// BuildPaymentURL returns the hosted checkout URL the buyer is
	// redirected to
	BuildPaymentURL(ctx context.Context, req *CreatePaymentRequest) (string, error)

	// VerifyReturn checks the signature on the query parameters the
	// gateway sent the buyer back with, and parses the outcome.
	// A tampered or unsigned return yields a result with Valid=false,
	// not an error.
	VerifyReturn(ctx context.Context, params map[string]string) (*ReturnResult, error)
}
