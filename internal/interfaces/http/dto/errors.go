package dto

import "net/http"

// Error code constants, format: ERR_<CATEGORY>_<DESCRIPTION>
const (
	ErrCodeInternal   = "ERR_INTERNAL"
	ErrCodeBadRequest = "ERR_BAD_REQUEST"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidState = "ERR_INVALID_STATE"

	// ErrCodeSyncInProgress is returned when a sync pass is refused
	// because another pass holds the lease
	ErrCodeSyncInProgress = "ERR_SYNC_IN_PROGRESS"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidState: http.StatusUnprocessableEntity,

	ErrCodeSyncInProgress: http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status for an error code, defaulting to
// 500 for unknown codes
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodeMapping maps domain error codes to API error codes.
// Domain codes not listed here fall through NormalizeErrorCode unchanged
// and are reported as invalid input.
var domainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"INVALID_STATE":        ErrCodeInvalidState,
	"INVALID_INPUT":        ErrCodeInvalidInput,
}

// NormalizeErrorCode converts a domain error code to the API format
func NormalizeErrorCode(code string) string {
	if apiCode, ok := domainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return ErrCodeInvalidInput
}
