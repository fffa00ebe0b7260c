package errors

import (
	"errors"
	"net/http"
	"time"
)

// ErrorHandler normalizes errors for the session API and logs them once.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Normalize ensures we always have a StandardError.
func (h *ErrorHandler) Normalize(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// Handle logs err and returns the normalized form together with the HTTP
// status the session API should answer with.
func (h *ErrorHandler) Handle(op string, err error) (*StandardError, int) {
	stdErr := h.Normalize(err)
	status := HTTPStatus(stdErr.Code)
	if h.logger != nil {
		h.logger.Error("operation failed", map[string]interface{}{
			"operation": op,
			"errorCode": string(stdErr.Code),
			"message":   stdErr.Message,
			"details":   stdErr.Details,
			"retryable": stdErr.Retryable,
			"status":    status,
		})
	}
	return stdErr, status
}

// HTTPStatus maps error codes onto session API status codes.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeSessionNotFound:
		return http.StatusNotFound
	case ErrCodeInputValidationFailed,
		ErrCodeUnknownInstitution,
		ErrCodeUnknownFaculty,
		ErrCodeUnknownProgram,
		ErrCodeUnknownSubject,
		ErrCodeUnknownEvent:
		return http.StatusUnprocessableEntity
	case ErrCodeNetworkError, ErrCodeServerError, ErrCodeResponseShapeInvalid:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
