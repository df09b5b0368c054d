package dto

import (
	"net/http"
	"strings"
)

// API error codes. Domain codes are exposed as ERR_<DOMAIN_CODE>.

// General
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation and input
const (
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeTooLarge     = "ERR_REQUEST_TOO_LARGE"
)

// Authentication and authorization
const (
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeTokenExpired       = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked       = "ERR_TOKEN_REVOKED"
	ErrCodeTokenMaxRefresh    = "ERR_TOKEN_MAX_REFRESH"
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeAccountLocked      = "ERR_ACCOUNT_LOCKED"
	ErrCodeAccountInactive    = "ERR_ACCOUNT_INACTIVE"
)

// Resources
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rules
const (
	ErrCodeInvalidState       = "ERR_INVALID_STATE"
	ErrCodeBusinessRule       = "ERR_BUSINESS_RULE"
	ErrCodeInsufficientStock  = "ERR_INSUFFICIENT_STOCK"
	ErrCodePaymentExceeds     = "ERR_PAYMENT_EXCEEDS_OUTSTANDING"
	ErrCodeDebtMigrated       = "ERR_DEBT_MIGRATED"
	ErrCodeTransactionLocked  = "ERR_TRANSACTION_LOCKED"
	ErrCodeBranchInUse        = "ERR_BRANCH_IN_USE"
	ErrCodeContactInUse       = "ERR_CONTACT_IN_USE"
	ErrCodeStorageDisabled    = "ERR_STORAGE_DISABLED"
	ErrCodeExportUnavailable  = "ERR_EXPORT_UNAVAILABLE"
	ErrCodeRateLimited        = "ERR_RATE_LIMITED"
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps API error codes to HTTP statuses
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeTooLarge:     http.StatusRequestEntityTooLarge,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeTokenRevoked:       http.StatusUnauthorized,
	ErrCodeTokenMaxRefresh:    http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeAccountLocked:      http.StatusForbidden,
	ErrCodeAccountInactive:    http.StatusForbidden,
	ErrCodeForbidden:          http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeBranchInUse:         http.StatusConflict,
	ErrCodeContactInUse:        http.StatusConflict,

	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
	ErrCodePaymentExceeds:    http.StatusUnprocessableEntity,
	ErrCodeDebtMigrated:      http.StatusUnprocessableEntity,
	ErrCodeTransactionLocked: http.StatusUnprocessableEntity,

	ErrCodeStorageDisabled:    http.StatusServiceUnavailable,
	ErrCodeExportUnavailable:  http.StatusServiceUnavailable,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// LegacyErrorCodeMapping renames domain codes whose API code is not ERR_<code>
var LegacyErrorCodeMapping = map[string]string{
	"VALIDATION_ERROR": ErrCodeValidation,
	"INTERNAL_ERROR":   ErrCodeInternal,
	"INVALID_REQUEST":  ErrCodeBadRequest,
}

// businessRulePrefixes are domain code families answered with 422
var businessRulePrefixes = []string{
	"ERR_CONTACT_NOT_", "ERR_CONTACT_INACTIVE", "ERR_DOCUMENT_", "ERR_DEBT_", "ERR_ITEM_",
	"ERR_EMPLOYEE_", "ERR_AMOUNT_", "ERR_NEGATIVE_", "ERR_NOTHING_", "ERR_SELF_", "ERR_LAST_",
	"ERR_BRANCH_REQUIRED",
}

// GetHTTPStatus returns the HTTP status for an API error code
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasPrefix(code, "ERR_TOKEN_"):
		return http.StatusUnauthorized
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "_IN_USE"), strings.Contains(code, "_HAS_"):
		return http.StatusConflict
	case strings.HasPrefix(code, "ERR_INVALID_"):
		return http.StatusBadRequest
	}
	for _, p := range businessRulePrefixes {
		if strings.HasPrefix(code, p) {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}

// NormalizeErrorCode converts a domain code into its API code
func NormalizeErrorCode(code string) string {
	if mapped, ok := LegacyErrorCodeMapping[code]; ok {
		return mapped
	}
	if code == "" {
		return ErrCodeUnknown
	}
	if strings.HasPrefix(code, "ERR_") {
		return code
	}
	return "ERR_" + code
}
