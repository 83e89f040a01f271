package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeInvalidImage is used when an uploaded image cannot be decoded
	ErrCodeInvalidImage = "ERR_INVALID_IMAGE"
	// ErrCodeImageTooLarge is used when an uploaded image exceeds the size cap
	ErrCodeImageTooLarge = "ERR_IMAGE_TOO_LARGE"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the session token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the session token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	// ErrCodeInvalidSignature is used when a signed payload fails verification
	ErrCodeInvalidSignature = "ERR_INVALID_SIGNATURE"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeInsufficientStock is used when stock is insufficient
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	// ErrCodeCartEmpty is used when checkout is attempted on an empty cart
	ErrCodeCartEmpty = "ERR_CART_EMPTY"
	// ErrCodeProductUnavailable is used when a cart line's product is gone or inactive
	ErrCodeProductUnavailable = "ERR_PRODUCT_UNAVAILABLE"
	// ErrCodeAmountMismatch is used when a paid amount differs from the order total
	ErrCodeAmountMismatch = "ERR_AMOUNT_MISMATCH"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:    http.StatusBadRequest,
	ErrCodeInvalidImage:  http.StatusBadRequest,
	ErrCodeImageTooLarge: http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized:     http.StatusUnauthorized,
	ErrCodeForbidden:        http.StatusForbidden,
	ErrCodeTokenExpired:     http.StatusUnauthorized,
	ErrCodeTokenInvalid:     http.StatusUnauthorized,
	ErrCodeInvalidSignature: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:       http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:       http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock:  http.StatusUnprocessableEntity,
	ErrCodeCartEmpty:          http.StatusUnprocessableEntity,
	ErrCodeProductUnavailable: http.StatusUnprocessableEntity,
	ErrCodeAmountMismatch:     http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the standardized
// HTTP-facing codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":               ErrCodeNotFound,
	"ALREADY_EXISTS":          ErrCodeAlreadyExists,
	"INVALID_INPUT":           ErrCodeInvalidInput,
	"INVALID_STATE":           ErrCodeInvalidState,
	"UNAUTHORIZED":            ErrCodeUnauthorized,
	"FORBIDDEN":               ErrCodeForbidden,
	"INSUFFICIENT_STOCK":      ErrCodeInsufficientStock,
	"CART_EMPTY":              ErrCodeCartEmpty,
	"PRODUCT_INACTIVE":        ErrCodeProductUnavailable,
	"PRODUCT_UNAVAILABLE":     ErrCodeProductUnavailable,
	"AMOUNT_MISMATCH":         ErrCodeAmountMismatch,
	"INVALID_SIGNATURE":       ErrCodeInvalidSignature,
	"INVALID_IMAGE":           ErrCodeInvalidImage,
	"IMAGE_TOO_LARGE":         ErrCodeImageTooLarge,
	"INVALID_NAME":            ErrCodeValidation,
	"INVALID_PRICE":           ErrCodeValidation,
	"INVALID_STOCK":           ErrCodeValidation,
	"INVALID_QUANTITY":        ErrCodeValidation,
	"INVALID_COLOR":           ErrCodeValidation,
	"INVALID_SIZE":            ErrCodeValidation,
	"INVALID_EMAIL":           ErrCodeValidation,
	"INVALID_ROLE":            ErrCodeValidation,
	"INVALID_USER":            ErrCodeValidation,
	"INVALID_PRODUCT":         ErrCodeValidation,
	"INVALID_CODE":            ErrCodeValidation,
	"INVALID_ADDRESS":         ErrCodeValidation,
	"INVALID_PHONE":           ErrCodeValidation,
	"INVALID_PAYMENT_METHOD":  ErrCodeValidation,
	"INVALID_SHIPPING_METHOD": ErrCodeValidation,
	"INVALID_STATUS":          ErrCodeValidation,
	"INVALID_PRODUCT_NAME":    ErrCodeValidation,
	"INVALID_ORDER_CODE":      ErrCodeValidation,
	"INVALID_CLIENT_IP":       ErrCodeValidation,
	"INVALID_AMOUNT":          ErrCodeValidation,
	"ALREADY_ACTIVE":          ErrCodeInvalidState,
	"ALREADY_INACTIVE":        ErrCodeInvalidState,
}

// NormalizeErrorCode converts a domain error code to the standardized
// format. If the code is already standardized or unknown, returns it as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
