package dto

import "net/http"

// Codes produced by the transport layer itself. Domain errors keep the
// code of their shared.DomainError.
const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "INVALID_TOKEN"
	ErrCodeTokenRevoked = "TOKEN_REVOKED"
)

// Domain codes with a non-500 status
const (
	ErrCodeInvalidInput        = "INVALID_INPUT"
	ErrCodeInvalidState        = "INVALID_STATE"
	ErrCodeInsufficientStock   = "INSUFFICIENT_STOCK"
	ErrCodeExceedsOutstanding  = "EXCEEDS_OUTSTANDING"
	ErrCodeStockNotEmpty       = "STOCK_NOT_EMPTY"
	ErrCodeBranchInUse         = "BRANCH_IN_USE"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodeAccessDenied        = "ACCESS_DENIED"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeDuplicateRequest    = "DUPLICATE_REQUEST"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
// Insufficient stock is a client error here, not 422.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeInvalidInput:       http.StatusBadRequest,
	ErrCodeInvalidState:       http.StatusBadRequest,
	ErrCodeInsufficientStock:  http.StatusBadRequest,
	ErrCodeExceedsOutstanding: http.StatusBadRequest,
	ErrCodeStockNotEmpty:      http.StatusBadRequest,
	ErrCodeBranchInUse:        http.StatusBadRequest,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeTokenRevoked:       http.StatusUnauthorized,

	ErrCodeAccessDenied: http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,

	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeDuplicateRequest:    http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInternal: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes, including PERSISTENCE_FAILURE, are 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
