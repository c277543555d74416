// Package errors provides standardized error handling for the triage pipeline.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeClientInputInvalid ErrorCode = "CLIENT_INPUT_INVALID"

	ErrCodeProviderCallFailed  ErrorCode = "PROVIDER_CALL_FAILED"
	ErrCodeProviderUnsupported ErrorCode = "PROVIDER_UNSUPPORTED"

	ErrCodeStructuredOutputInvalid ErrorCode = "STRUCTURED_OUTPUT_INVALID"
	ErrCodeContractSectionsMissing ErrorCode = "CONTRACT_SECTIONS_MISSING"

	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
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

// NewClientInputError creates a non-retryable input validation error. The
// message is safe to return to the caller verbatim.
func NewClientInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeClientInputInvalid,
		Message:   "Invalid request input",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now(),
	}
}

// NewProviderCallError wraps a vendor API failure. Retryable because the same
// call may succeed on a later attempt.
func NewProviderCallError(provider string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderCallFailed,
		Message:   "LLM provider call failed",
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"provider": provider},
		Timestamp: time.Now(),
	}
}

// NewProviderUnsupportedError indicates an unknown provider identifier.
func NewProviderUnsupportedError(provider string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderUnsupported,
		Message:   fmt.Sprintf("Unsupported provider: %s", provider),
		Retryable: false,
		Timestamp: time.Now(),
	}
}

// NewStructuredOutputError captures a router response that failed schema
// validation. Retryable: it drives the repair pass, never the caller.
func NewStructuredOutputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeStructuredOutputInvalid,
		Message:   "Router output failed schema validation",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now(),
	}
}

// NewContractWarning records missing answer sections. Non-fatal.
func NewContractWarning(missing []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeContractSectionsMissing,
		Message:   "Answer is missing required sections",
		Retryable: false,
		Metadata:  map[string]interface{}{"missing_sections": missing},
		Timestamp: time.Now(),
	}
}
