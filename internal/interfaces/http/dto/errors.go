package dto

import (
	"net/http"
	"strings"
)

// Generic error codes, format ERR_<CATEGORY>[_<DESCRIPTION>].
// Domain specific codes (PLAN_LIMIT, INVALID_SCREEN_DATA, ...) are passed through unchanged.
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation  = "ERR_VALIDATION"
	ErrCodeBadRequest  = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeInvalidInput is the generic domain input error
	ErrCodeInvalidInput    = "ERR_INVALID_INPUT"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked = "ERR_TOKEN_REVOKED"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	ErrCodeInvalidState = "ERR_INVALID_STATE"
	ErrCodePlanLimit    = "ERR_PLAN_LIMIT"

	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeTokenRevoked: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodePlanLimit:    http.StatusPaymentRequired,

	ErrCodeRateLimited: http.StatusTooManyRequests,

	// domain codes
	"INVALID_CREDENTIALS":     http.StatusUnauthorized,
	"INVALID_SIGNATURE":       http.StatusUnauthorized,
	"ACCOUNT_LOCKED":          http.StatusForbidden,
	"ACCOUNT_DISABLED":        http.StatusForbidden,
	"ACCOUNT_INACTIVE":        http.StatusForbidden,
	"ALREADY_SUBSCRIBED":      http.StatusConflict,
	"NO_BILLING_CUSTOMER":     http.StatusConflict,
	"NOT_GENERATED":           http.StatusUnprocessableEntity,
	"SCREEN_DATA_TOO_LARGE":   http.StatusRequestEntityTooLarge,
	"UNKNOWN_PLAN":            http.StatusBadRequest,
	"BILLING_DISABLED":        http.StatusServiceUnavailable,
	"PDF_EXPORT_DISABLED":     http.StatusServiceUnavailable,
	"PAYMENT_PROVIDER_ERROR":  http.StatusBadGateway,
	"STORAGE_ERROR":           http.StatusBadGateway,
	"PDF_EXPORT_FAILED":       http.StatusBadGateway,
	"CONCURRENT_MODIFICATION": http.StatusConflict,
	"TOKEN_MAX_REFRESH":       http.StatusUnauthorized,
}

// GetHTTPStatus returns the HTTP status for an error code.
// Unlisted INVALID_* codes are client errors; anything else unknown is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps the generic domain error codes to API codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"PLAN_LIMIT":           ErrCodePlanLimit,
	"TOKEN_EXPIRED":        ErrCodeTokenExpired,
	"TOKEN_INVALID":        ErrCodeTokenInvalid,
	"TOKEN_REVOKED":        ErrCodeTokenRevoked,
	"INTERNAL":             ErrCodeInternal,
	"INTERNAL_ERROR":       ErrCodeInternal,
}

// NormalizeErrorCode converts a generic domain code to its API code.
// Other codes are returned as-is.
func NormalizeErrorCode(code string) string {
	if mapped, ok := DomainErrorCodeMapping[code]; ok {
		return mapped
	}
	return code
}
