package dto

import (
	"net/http"

	"github.com/nizy/tailor/internal/domain/shared"
)

// API error codes. Clients switch on these, so they never change meaning.
const (
	ErrCodeInternal   = "ERR_INTERNAL"
	ErrCodeValidation = "ERR_VALIDATION"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked = "ERR_TOKEN_REVOKED"

	ErrCodeNotFound     = "ERR_NOT_FOUND"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"

	// ErrCodeExportFailed means the renderer could not produce the document
	ErrCodeExportFailed = "ERR_EXPORT_FAILED"

	ErrCodeRateLimited = "ERR_RATE_LIMITED"
	// ErrCodeDuplicateRequest means the Idempotency-Key was already used
	ErrCodeDuplicateRequest = "ERR_DUPLICATE_REQUEST"
)

var httpStatus = map[string]int{
	ErrCodeInternal:         http.StatusInternalServerError,
	ErrCodeValidation:       http.StatusBadRequest,
	ErrCodeUnauthorized:     http.StatusUnauthorized,
	ErrCodeTokenExpired:     http.StatusUnauthorized,
	ErrCodeTokenInvalid:     http.StatusUnauthorized,
	ErrCodeTokenRevoked:     http.StatusUnauthorized,
	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeInvalidInput:     http.StatusBadRequest,
	ErrCodeInvalidJSON:      http.StatusBadRequest,
	ErrCodeExportFailed:     http.StatusBadGateway,
	ErrCodeRateLimited:      http.StatusTooManyRequests,
	ErrCodeDuplicateRequest: http.StatusConflict,
}

var domainCodes = map[string]string{
	shared.CodeNotFound:     ErrCodeNotFound,
	shared.CodeInvalidInput: ErrCodeInvalidInput,
	shared.CodeValidation:   ErrCodeValidation,
	shared.CodeUnauthorized: ErrCodeUnauthorized,
	shared.CodeExportFailed: ErrCodeExportFailed,
	shared.CodeInternal:     ErrCodeInternal,
}

// GetHTTPStatus returns the status an API error code is sent with. Unknown
// codes are server errors.
func GetHTTPStatus(code string) int {
	if status, ok := httpStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// NormalizeErrorCode turns a domain error code into its API code. Anything
// else is returned unchanged.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := domainCodes[code]; ok {
		return apiCode
	}
	return code
}
