package payment

import "errors"

// VNPayConfig contains configuration for the VNPay hosted-checkout gateway
type VNPayConfig struct {
	// TmnCode is the merchant terminal code issued by VNPay
	TmnCode string
	// HashSecret is the shared HMAC-SHA512 key for signing and verification
	HashSecret string
	// PayURL is the hosted checkout endpoint the buyer is redirected to
	PayURL string
	// ReturnURL is where VNPay redirects the buyer after payment
	ReturnURL string
}

// Errors for configuration validation
var (
	ErrVNPayMissingTmnCode    = errors.New("vnpay: missing terminal code")
	ErrVNPayMissingHashSecret = errors.New("vnpay: missing hash secret")
	ErrVNPayMissingPayURL     = errors.New("vnpay: missing payment URL")
	ErrVNPayMissingReturnURL  = errors.New("vnpay: missing return URL")
)

// Validate validates the configuration
func (c *VNPayConfig) Validate() error {
	if c.TmnCode == "" {
		return ErrVNPayMissingTmnCode
	}
	if c.HashSecret == "" {
		return ErrVNPayMissingHashSecret
	}
	if c.PayURL == "" {
		return ErrVNPayMissingPayURL
	}
	if c.ReturnURL == "" {
		return ErrVNPayMissingReturnURL
	}
	return nil
}
