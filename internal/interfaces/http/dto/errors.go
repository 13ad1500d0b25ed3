package dto

import (
	"net/http"
	"strings"
)

// Codes produced by the HTTP layer itself. Domain codes such as NOT_FOUND or
// INSUFFICIENT_STOCK pass through unchanged.
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeInvalidToken    = "INVALID_TOKEN"
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeTokenRevoked    = "TOKEN_REVOKED"
	ErrCodeRateLimited     = "RATE_LIMIT_EXCEEDED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeNotFound        = "NOT_FOUND"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	// 400
	ErrCodeValidation:           http.StatusBadRequest,
	ErrCodeBadRequest:           http.StatusBadRequest,
	"INVALID_INPUT":             http.StatusBadRequest,
	"ALREADY_VERIFIED":          http.StatusBadRequest,
	"INVALID_VERIFICATION_CODE": http.StatusBadRequest,
	"VERIFICATION_CODE_EXPIRED": http.StatusBadRequest,

	// 401 / 403
	ErrCodeUnauthorized:   http.StatusUnauthorized,
	ErrCodeInvalidToken:   http.StatusUnauthorized,
	ErrCodeTokenExpired:   http.StatusUnauthorized,
	ErrCodeTokenRevoked:   http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"FORBIDDEN":           http.StatusForbidden,
	"EMAIL_NOT_VERIFIED":  http.StatusForbidden,

	// 404 / 409
	ErrCodeNotFound:  http.StatusNotFound,
	"ALREADY_EXISTS": http.StatusConflict,
	"CART_CHANGED":   http.StatusConflict,

	// 413 / 429
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,

	// Business rule violations
	"INSUFFICIENT_STOCK": http.StatusUnprocessableEntity,
	"EMPTY_CART":         http.StatusUnprocessableEntity,
	"INVALID_STATE":      http.StatusUnprocessableEntity,
	"NOT_CANCELLABLE":    http.StatusUnprocessableEntity,
	"RETURN_NOT_ALLOWED": http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status for an error code. Field validation
// codes raised by the domain (INVALID_RATING, INVALID_QUANTITY...) are 400;
// anything else unknown is 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
