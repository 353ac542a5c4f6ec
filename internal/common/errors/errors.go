// Package errors provides standardized error handling for the search pipeline.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Adapter errors: isolated per source, surfaced in sources[*].error,
	// never fatal to the request.
	ErrCodeAdapterTimeout     ErrorCode = "ADAPTER_TIMEOUT"
	ErrCodeAdapterHTTPStatus  ErrorCode = "ADAPTER_HTTP_STATUS"
	ErrCodeAdapterNetwork     ErrorCode = "ADAPTER_NETWORK"
	ErrCodeAdapterParseFailed ErrorCode = "ADAPTER_PARSE_FAILED"

	// Oracle errors: any of these triggers the deterministic fallback.
	ErrCodeOracleUnavailable  ErrorCode = "ORACLE_UNAVAILABLE"
	ErrCodeIntentParseFailed  ErrorCode = "INTENT_PARSING_FAILED"
	ErrCodeIntentAPITimeout   ErrorCode = "INTENT_API_TIMEOUT"
	ErrCodeWebSearchTimeout   ErrorCode = "WEB_SEARCH_TIMEOUT"
	ErrCodeLLMTimeout         ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMSynthesisFailed ErrorCode = "LLM_SYNTHESIS_FAILED"

	// Cache / storage errors.
	ErrCodeCacheReadFailed  ErrorCode = "CACHE_READ_FAILED"
	ErrCodeCacheWriteFailed ErrorCode = "CACHE_WRITE_FAILED"

	// Request errors: the only fatal class, short-circuits before the
	// pipeline starts.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewAdapterTimeoutError creates a non-fatal adapter timeout error.
func NewAdapterTimeoutError(source string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAdapterTimeout,
		Message:   "Source fetch exceeded its deadline",
		Details:   fmt.Sprintf("source: %s", source),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAdapterHTTPStatusError creates a non-fatal adapter HTTP status error.
func NewAdapterHTTPStatusError(source string, status int) *StandardError {
	return &StandardError{
		Code:      ErrCodeAdapterHTTPStatus,
		Message:   "Source returned a non-OK HTTP status",
		Details:   fmt.Sprintf("source: %s, status: %d", source, status),
		Retryable: status >= 500,
		Timestamp: time.Now().UTC(),
	}
}

// NewAdapterNetworkError creates a non-fatal adapter network error.
func NewAdapterNetworkError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAdapterNetwork,
		Message:   "Source fetch failed at the network layer",
		Details:   fmt.Sprintf("source: %s, error: %s", source, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAdapterParseError creates a non-fatal adapter parse error.
func NewAdapterParseError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAdapterParseFailed,
		Message:   "Source response could not be parsed",
		Details:   fmt.Sprintf("source: %s, error: %s", source, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewOracleUnavailableError creates the error that selects the deterministic
// fallback: missing credential, non-OK response, or unparsable JSON.
func NewOracleUnavailableError(oracle, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeOracleUnavailable,
		Message:   fmt.Sprintf("Oracle '%s' unavailable, using fallback", oracle),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewIntentParsingFailedError creates a retryable intent parsing error.
func NewIntentParsingFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeIntentParseFailed,
		Message:   "Intent parsing API error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewIntentAPITimeoutError creates a retryable intent API timeout error.
func NewIntentAPITimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeIntentAPITimeout,
		Message:   "Intent parsing API timeout",
		Details:   "API call exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewWebSearchTimeoutError creates a web search timeout error. The caller
// degrades to an empty result set rather than retrying.
func NewWebSearchTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeWebSearchTimeout,
		Message:   "Web search API timeout",
		Details:   "Search call exceeded timeout threshold",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMTimeoutError creates a retryable LLM timeout error.
func NewLLMTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMTimeout,
		Message:   "LLM synthesis timeout",
		Details:   "LLM call exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMSynthesisFailedError creates a retryable LLM synthesis error.
func NewLLMSynthesisFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMSynthesisFailed,
		Message:   "LLM synthesis API error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheReadFailedError creates a non-fatal cache read error; the pipeline
// treats it as a miss.
func NewCacheReadFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheReadFailed,
		Message:   "Cache read failed, treating as miss",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheWriteFailedError creates a non-fatal cache write error.
func NewCacheWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheWriteFailed,
		Message:   "Cache write failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestError creates the only fatal error class; it maps to
// HTTP 400 and short-circuits before the pipeline starts.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Invalid request parameters",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeIntentParseFailed, ErrCodeLLMSynthesisFailed,
		ErrCodeAdapterNetwork, ErrCodeCacheReadFailed, ErrCodeCacheWriteFailed:
		return 3

	case ErrCodeAdapterTimeout, ErrCodeIntentAPITimeout:
		return 2

	case ErrCodeLLMTimeout:
		return 1

	default:
		return 0
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// IsFatal reports whether an error must abort the request. Only invalid
// requests qualify; everything else degrades.
func IsFatal(err error) bool {
	if std, ok := err.(*StandardError); ok {
		return std.Code == ErrCodeInvalidRequest
	}
	return false
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "ADAPTER"):
		return "ADAPTER"
	case strings.Contains(codeStr, "INTENT") || strings.Contains(codeStr, "LLM") ||
		strings.Contains(codeStr, "ORACLE") || strings.Contains(codeStr, "WEB"):
		return "ORACLE"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "INVALID"):
		return "REQUEST"
	default:
		return "OTHER"
	}
}
