// Package errors provides standardized error handling for the simulated backend.
package errors

import (
	"errors"
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
	// Referenced id absent. Fatal to the single operation, never retried.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// Randomly injected by the unreliable transport before the store is
	// touched. Recovered locally by rollback, never surfaced as a crash.
	ErrCodeTransientWriteFailure ErrorCode = "TRANSIENT_WRITE_FAILURE"

	// Rejected before any transport call is issued, so no rollback is needed.
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeSlugTaken        ErrorCode = "SLUG_TAKEN"
	ErrCodeUnknownStage     ErrorCode = "UNKNOWN_STAGE"
	ErrCodeConditionalCycle ErrorCode = "CONDITIONAL_CYCLE"

	ErrCodeUnknownEntity ErrorCode = "UNKNOWN_ENTITY"
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

// NewNotFoundError creates a non-retryable missing-record error.
func NewNotFoundError(entity string, id int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("%s not found", entity),
		Details:   fmt.Sprintf("id: %d", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTransientWriteFailure creates the injected write rejection. The store is
// guaranteed untouched when this error is returned.
func NewTransientWriteFailure(op string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransientWriteFailure,
		Message:   "simulated write failure",
		Details:   fmt.Sprintf("op: %s", op),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationError creates a non-retryable validation error raised before
// any transport call.
func NewValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSlugTakenError creates a non-retryable duplicate-slug error.
func NewSlugTakenError(slug string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSlugTaken,
		Message:   "slug already in use",
		Details:   fmt.Sprintf("slug: %s", slug),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownStageError creates a non-retryable invalid-stage error.
func NewUnknownStageError(stage string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownStage,
		Message:   "unknown pipeline stage",
		Details:   fmt.Sprintf("stage: %s", stage),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewConditionalCycleError creates a non-retryable error for cyclic
// conditional-display references in an assessment.
func NewConditionalCycleError(questionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConditionalCycle,
		Message:   "conditional display rules form a cycle",
		Details:   fmt.Sprintf("questionId: %s", questionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownEntityError creates a non-retryable error for an unrecognized
// entity kind in a transport operation.
func NewUnknownEntityError(kind string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownEntity,
		Message:   "unknown entity kind",
		Details:   fmt.Sprintf("kind: %s", kind),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// CodeOf extracts the ErrorCode from err, or "" when err is not a StandardError.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ""
}

// IsNotFound checks whether err is a missing-record error.
func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

// IsTransient checks whether err is an injected transport write failure.
func IsTransient(err error) bool {
	return CodeOf(err) == ErrCodeTransientWriteFailure
}

// IsValidation checks whether err was rejected before reaching the transport.
func IsValidation(err error) bool {
	switch CodeOf(err) {
	case ErrCodeValidationFailed, ErrCodeSlugTaken, ErrCodeUnknownStage, ErrCodeConditionalCycle:
		return true
	default:
		return false
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "TRANSIENT"):
		return "TRANSPORT"
	case strings.Contains(codeStr, "NOT_FOUND") || strings.Contains(codeStr, "UNKNOWN_ENTITY"):
		return "STORE"
	case strings.Contains(codeStr, "SLUG") || strings.Contains(codeStr, "STAGE") ||
		strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "CYCLE"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
