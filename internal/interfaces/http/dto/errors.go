package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal     = "INTERNAL"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes. Codes
// missing from the map fall through the prefix rules in GetHTTPStatus.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,

	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"TENANT_MISMATCH":      http.StatusForbidden,
	"INSUFFICIENT_STOCK":   http.StatusBadRequest,
	"EMPTY_INVOICE":        http.StatusBadRequest,
	"MISSING_NAME":         http.StatusBadRequest,
	"MISSING_UNIT_CODE":    http.StatusBadRequest,
}

// GetHTTPStatus resolves an error code to its HTTP status
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	// INVALID_DIMENSIONS, INVALID_QUANTITY, INVALID_STATE and friends
	if len(code) > 8 && code[:8] == "INVALID_" {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
