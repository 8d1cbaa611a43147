// Package errors provides standardized error handling for the configuration client.
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
	// Validation errors: detected client-side, never reach the network.
	ErrCodeRequiredFieldMissing ErrorCode = "REQUIRED_FIELD_MISSING"
	ErrCodeInvalidRoutingNumber ErrorCode = "INVALID_ROUTING_NUMBER"
	ErrCodeInvalidCheckRange    ErrorCode = "INVALID_CHECK_RANGE"
	ErrCodeCheckRangeOverlap    ErrorCode = "CHECK_RANGE_OVERLAP"
	ErrCodeFormValidationFailed ErrorCode = "FORM_VALIDATION_FAILED"

	// Session / transport errors: surfaced to the user, session id preserved.
	ErrCodeSessionStartFailed      ErrorCode = "SESSION_START_FAILED"
	ErrCodeSessionNotFound         ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeAnswerSubmitFailed      ErrorCode = "ANSWER_SUBMIT_FAILED"
	ErrCodeAnswerRejected          ErrorCode = "ANSWER_REJECTED"
	ErrCodeBackendUnavailable      ErrorCode = "BACKEND_UNAVAILABLE"
	ErrCodeConfigurationIncomplete ErrorCode = "CONFIGURATION_INCOMPLETE"

	// Persistence errors: best-effort cache, degraded silently on read.
	ErrCodeDraftReadFailed  ErrorCode = "DRAFT_READ_FAILED"
	ErrCodeDraftWriteFailed ErrorCode = "DRAFT_WRITE_FAILED"
	ErrCodeDraftCorrupt     ErrorCode = "DRAFT_CORRUPT"
	ErrCodeStoreNotReady    ErrorCode = "STORE_NOT_READY"

	// Question registry errors.
	ErrCodeQuestionNotFound          ErrorCode = "QUESTION_NOT_FOUND"
	ErrCodeQuestionDocumentInvalid   ErrorCode = "QUESTION_DOCUMENT_INVALID"
	ErrCodeQuestionDocumentReadError ErrorCode = "QUESTION_DOCUMENT_READ_ERROR"
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
// 2. Field-Level Validation Results
// ==========================

// Severity distinguishes hard errors (block submission) from soft warnings
// (format looks wrong but may still be accepted).
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// FieldError is a per-field validation result surfaced inline in the form.
type FieldError struct {
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// HasBlocking reports whether any result in the list is a hard error.
func HasBlocking(errs []FieldError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ==========================
// 3. Error Constructors
// ==========================

// NewRequiredFieldError creates a non-retryable missing-field error.
func NewRequiredFieldError(field string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequiredFieldMissing,
		Message:   "Required field missing",
		Details:   fmt.Sprintf("field: %s", field),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFormValidationError creates a non-retryable form validation error.
func NewFormValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFormValidationFailed,
		Message:   "Form validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionStartFailedError creates a retryable session start error.
func NewSessionStartFailedError(module string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionStartFailed,
		Message:   "Could not start a configuration session",
		Details:   fmt.Sprintf("module: %s, error: %s", module, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionNotFoundError creates a non-retryable unknown-session error.
func NewSessionNotFoundError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "Configuration session not found",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAnswerSubmitFailedError creates a retryable submission transport error.
func NewAnswerSubmitFailedError(questionID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnswerSubmitFailed,
		Message:   "Answer submission failed",
		Details:   fmt.Sprintf("questionId: %s, error: %s", questionID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAnswerRejectedError creates a non-retryable server rejection error.
func NewAnswerRejectedError(questionID, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnswerRejected,
		Message:   "Answer was rejected by the configuration engine",
		Details:   fmt.Sprintf("questionId: %s, detail: %s", questionID, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewBackendUnavailableError creates a retryable connectivity error.
func NewBackendUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeBackendUnavailable,
		Message:   "Configuration backend is unreachable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigurationIncompleteError creates a non-retryable error for a completed
// flow whose final response is missing the generated results payload.
func NewConfigurationIncompleteError(module string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigurationIncomplete,
		Message:   "Configuration finished without generated results",
		Details:   fmt.Sprintf("module: %s", module),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDraftCorruptError creates a non-retryable corrupt-draft error.
func NewDraftCorruptError(key string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDraftCorrupt,
		Message:   "Stored draft could not be decoded",
		Details:   fmt.Sprintf("key: %s, error: %s", key, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDraftWriteFailedError creates a retryable draft persistence error.
func NewDraftWriteFailedError(key string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDraftWriteFailed,
		Message:   "Draft could not be persisted",
		Details:   fmt.Sprintf("key: %s, error: %s", key, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreNotReadyError creates a non-retryable lifecycle violation error.
func NewStoreNotReadyError(scope string) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreNotReady,
		Message:   "Draft store scope has not been hydrated",
		Details:   fmt.Sprintf("scope: %s", scope),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQuestionNotFoundError creates a non-retryable registry lookup error.
func NewQuestionNotFoundError(questionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQuestionNotFound,
		Message:   "Question not found in registry",
		Details:   fmt.Sprintf("questionId: %s", questionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQuestionDocumentInvalidError creates a non-retryable document error.
func NewQuestionDocumentInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQuestionDocumentInvalid,
		Message:   "Question document failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Utility Functions
// ==========================

// IsValidation reports whether the code belongs to the client-side
// validation taxonomy. Validation errors never reach the network layer.
func IsValidation(code ErrorCode) bool {
	switch code {
	case ErrCodeRequiredFieldMissing,
		ErrCodeInvalidRoutingNumber,
		ErrCodeInvalidCheckRange,
		ErrCodeCheckRangeOverlap,
		ErrCodeFormValidationFailed:
		return true
	}
	return false
}

// IsPersistence reports whether the code belongs to the local persistence
// taxonomy. Persistence errors degrade silently to "no draft".
func IsPersistence(code ErrorCode) bool {
	switch code {
	case ErrCodeDraftReadFailed, ErrCodeDraftWriteFailed, ErrCodeDraftCorrupt, ErrCodeStoreNotReady:
		return true
	}
	return false
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case IsValidation(code):
		return "VALIDATION"
	case IsPersistence(code):
		return "PERSISTENCE"
	case strings.Contains(codeStr, "SESSION") || strings.Contains(codeStr, "ANSWER") || strings.Contains(codeStr, "BACKEND"):
		return "TRANSPORT"
	case strings.Contains(codeStr, "QUESTION"):
		return "REGISTRY"
	default:
		return "OTHER"
	}
}
