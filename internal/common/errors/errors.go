// Package errors provides the standardized error type shared by the intake
// client, the remote service wrapper and the session API.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInputValidationFailed ErrorCode = "INPUT_VALIDATION_FAILED"
	ErrCodeNetworkError          ErrorCode = "NETWORK_ERROR"
	ErrCodeServerError           ErrorCode = "SERVER_ERROR"
	ErrCodeResponseShapeInvalid  ErrorCode = "RESPONSE_SHAPE_INVALID"

	ErrCodeUnknownInstitution ErrorCode = "UNKNOWN_INSTITUTION"
	ErrCodeUnknownFaculty     ErrorCode = "UNKNOWN_FACULTY"
	ErrCodeUnknownProgram     ErrorCode = "UNKNOWN_PROGRAM"
	ErrCodeUnknownSubject     ErrorCode = "UNKNOWN_SUBJECT"
	ErrCodeUnknownEvent       ErrorCode = "UNKNOWN_EVENT"

	ErrCodeCacheFailure    ErrorCode = "CACHE_FAILURE"
	ErrCodeSessionNotFound ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Status    int                    `json:"status,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
}

func (e *StandardError) Unwrap() error { return e.cause }

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// NewInputValidationError carries the aggregated, ordered validation messages.
func NewInputValidationError(messages []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInputValidationFailed,
		Message:   "Applicant input is incomplete or invalid",
		Details:   fmt.Sprintf("%d validation errors", len(messages)),
		Retryable: false,
		Metadata:  map[string]interface{}{"errors": messages},
		Timestamp: time.Now().UTC(),
	}
}

// NewNetworkError wraps a transport failure where no response was received.
func NewNetworkError(endpoint string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNetworkError,
		Message:   fmt.Sprintf("Eligibility service unreachable at %s", endpoint),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewServerError wraps a non-2xx response. The body is kept verbatim.
func NewServerError(endpoint string, status int, body string) *StandardError {
	return &StandardError{
		Code:      ErrCodeServerError,
		Message:   fmt.Sprintf("Eligibility service returned status %d", status),
		Details:   body,
		Retryable: status >= 500,
		Status:    status,
		Metadata:  map[string]interface{}{"endpoint": endpoint},
		Timestamp: time.Now().UTC(),
	}
}

// NewResponseShapeError reports a payload that does not match its schema.
func NewResponseShapeError(endpoint, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeResponseShapeInvalid,
		Message:   fmt.Sprintf("Unexpected response shape from %s", endpoint),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownProgramError rejects a program id that no fetched list contained.
func NewUnknownProgramError(programID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownProgram,
		Message:   "Program was not offered by any loaded institution",
		Details:   fmt.Sprintf("programId: %s", programID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownFacultyError rejects a faculty that the institution does not list.
func NewUnknownFacultyError(institution, faculty string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownFaculty,
		Message:   "Faculty is not offered by institution",
		Details:   fmt.Sprintf("institution: %s, faculty: %s", institution, faculty),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownInstitutionError rejects an institution whose programs were never loaded.
func NewUnknownInstitutionError(institution string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownInstitution,
		Message:   "Institution programs are not loaded",
		Details:   fmt.Sprintf("institution: %s", institution),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownSubjectError rejects an elective that is not in the schema.
func NewUnknownSubjectError(subject string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownSubject,
		Message:   "Subject is not part of the loaded schema",
		Details:   fmt.Sprintf("subject: %s", subject),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownEventError rejects an event kind the reducer does not handle.
func NewUnknownEventError(kind string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownEvent,
		Message:   "Unsupported event kind",
		Details:   fmt.Sprintf("kind: %s", kind),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheFailureError wraps a cache backend error. Callers degrade to the remote call.
func NewCacheFailureError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheFailure,
		Message:   fmt.Sprintf("Cache %s failed", op),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewSessionNotFoundError reports an unknown or expired session id.
func NewSessionNotFoundError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "Session not found or expired",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// CodeOf returns the ErrorCode of the first StandardError in err's chain,
// or ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ErrCodeInternal
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
