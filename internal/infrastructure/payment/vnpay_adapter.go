package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/payment"
)

const (
	vnpVersion    = "2.1.0"
	vnpCommandPay = "pay"
	vnpCurrCode   = "VND"
	vnpOrderType  = "other"
	vnpLocaleVN   = "vn"
	vnpTimeLayout = "20060102150405"

	vnpSuccessCode = "00"
)

// vnpLocation is the gateway's reference timezone for vnp_CreateDate and
// vnp_PayDate
var vnpLocation = time.FixedZone("ICT", 7*60*60)

// VNPayAdapter implements payment.Gateway for VNPay.
// Requests carry a HMAC-SHA512 signature over the sorted, URL-encoded
// parameter string; returns are verified the same way with the sign
// fields stripped first.
type VNPayAdapter struct {
	config *VNPayConfig
}

// NewVNPayAdapter creates a new VNPay adapter
func NewVNPayAdapter(config *VNPayConfig) (*VNPayAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &VNPayAdapter{config: config}, nil
}

// BuildPaymentURL implements payment.Gateway
func (a *VNPayAdapter) BuildPaymentURL(ctx context.Context, req *payment.CreatePaymentRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	locale := req.Locale
	if locale == "" {
		locale = vnpLocaleVN
	}
	createdAt := req.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	createdAt = createdAt.In(vnpLocation)

	params := map[string]string{
		"vnp_Version":    vnpVersion,
		"vnp_Command":    vnpCommandPay,
		"vnp_TmnCode":    a.config.TmnCode,
		"vnp_Locale":     locale,
		"vnp_CurrCode":   vnpCurrCode,
		"vnp_TxnRef":     req.OrderCode,
		"vnp_OrderInfo":  req.OrderInfo,
		"vnp_OrderType":  vnpOrderType,
		"vnp_Amount":     strconv.FormatInt(req.Amount.SubunitsVND(), 10),
		"vnp_ReturnUrl":  a.config.ReturnURL,
		"vnp_IpAddr":     req.ClientIP,
		"vnp_CreateDate": createdAt.Format(vnpTimeLayout),
		"vnp_ExpireDate": createdAt.Add(15 * time.Minute).Format(vnpTimeLayout),
	}
	if req.BankCode != "" {
		params["vnp_BankCode"] = req.BankCode
	}

	signData := buildSignData(params)
	secureHash := a.sign(signData)

	return a.config.PayURL + "?" + signData + "&vnp_SecureHash=" + secureHash, nil
}

// VerifyReturn implements payment.Gateway
func (a *VNPayAdapter) VerifyReturn(ctx context.Context, returnParams map[string]string) (*payment.ReturnResult, error) {
	receivedHash := returnParams["vnp_SecureHash"]

	// Rebuild the signed string without the signature fields
	params := make(map[string]string, len(returnParams))
	for key, value := range returnParams {
		if key == "vnp_SecureHash" || key == "vnp_SecureHashType" {
			continue
		}
		params[key] = value
	}

	result := &payment.ReturnResult{
		ResponseCode:  returnParams["vnp_ResponseCode"],
		OrderCode:     returnParams["vnp_TxnRef"],
		TransactionNo: returnParams["vnp_TransactionNo"],
		BankCode:      returnParams["vnp_BankCode"],
	}

	result.Valid = receivedHash != "" && a.verifySign(buildSignData(params), receivedHash)
	result.Success = result.Valid && result.ResponseCode == vnpSuccessCode

	if rawAmount := returnParams["vnp_Amount"]; rawAmount != "" {
		subunits, err := strconv.ParseInt(rawAmount, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("vnpay: malformed amount %q: %w", rawAmount, err)
		}
		// The gateway reports amounts multiplied by 100
		result.Amount = decimal.NewFromInt(subunits).Div(decimal.NewFromInt(100))
	}

	if rawPayDate := returnParams["vnp_PayDate"]; rawPayDate != "" {
		if payDate, err := time.ParseInLocation(vnpTimeLayout, rawPayDate, vnpLocation); err == nil {
			result.PayDate = payDate
		}
	}

	return result, nil
}

// sign computes the HMAC-SHA512 hex signature of the given data
func (a *VNPayAdapter) sign(data string) string {
	mac := hmac.New(sha512.New, []byte(a.config.HashSecret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// verifySign compares an expected signature against the received one in
// constant time
func (a *VNPayAdapter) verifySign(data, receivedHash string) bool {
	expected, err := hex.DecodeString(strings.ToLower(receivedHash))
	if err != nil {
		return false
	}
	mac := hmac.New(sha512.New, []byte(a.config.HashSecret))
	mac.Write([]byte(data))
	return hmac.Equal(mac.Sum(nil), expected)
}

// buildSignData sorts the non-empty parameters and URL-encodes them into
// the canonical query string the signature covers. url.Values.Encode sorts
// keys and escapes spaces as '+', which is the form the gateway signs.
func buildSignData(params map[string]string) string {
	values := url.Values{}
	for key, value := range params {
		if value != "" {
			values.Set(key, value)
		}
	}
	return values.Encode()
}

var _ payment.Gateway = (*VNPayAdapter)(nil)
