package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeCartEmpty, http.StatusUnprocessableEntity},
		{ErrCodeInsufficientStock, http.StatusUnprocessableEntity},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{"ERR_DOES_NOT_EXIST", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.status, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("NOT_FOUND"))
	assert.Equal(t, ErrCodeCartEmpty, NormalizeErrorCode("CART_EMPTY"))
	assert.Equal(t, ErrCodeValidation, NormalizeErrorCode("INVALID_QUANTITY"))
	assert.Equal(t, ErrCodeProductUnavailable, NormalizeErrorCode("PRODUCT_INACTIVE"))
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode(ErrCodeNotFound))
	assert.Equal(t, "SOMETHING_ELSE", NormalizeErrorCode("SOMETHING_ELSE"))
}

// Every domain validation code must normalize to a 4xx status, never
// fall through to 500.
func TestEveryDomainCodeMapsBelow500(t *testing.T) {
	for domainCode, normalized := range DomainErrorCodeMapping {
		status := GetHTTPStatus(normalized)
		assert.Lessf(t, status, 500, "domain code %s maps to %s with status %d", domainCode, normalized, status)
	}

	for _, code := range []string{
		"INVALID_SHIPPING_METHOD",
		"INVALID_PRODUCT_NAME",
		"INVALID_ORDER_CODE",
		"INVALID_CLIENT_IP",
		"INVALID_AMOUNT",
	} {
		assert.Equal(t, ErrCodeValidation, NormalizeErrorCode(code))
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a"}, 25, 2, 10)

	assert.True(t, resp.Success)
	assert.Equal(t, int64(25), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Order not found", "req-123")

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}
