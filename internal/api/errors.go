package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes carried in ErrorResponse.Code
const (
	CodeInvalidRequest  = "invalid_request"
	CodeNotFound        = "not_found"
	CodeStorage         = "storage_failure"
	CodeTimeout         = "timeout"
	CodePayloadTooLarge = "payload_too_large"
	CodeInternal        = "internal"
)

// httpError is implemented by every error below. WriteErrorFromError finds it
// anywhere in a wrap chain.
type httpError interface {
	error
	StatusCode() int
	Code() string
}

// ValidationError rejects a request or a classic document that cannot be converted.
type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// WrapValidationError reports cause against field and keeps it visible to errors.Is.
func WrapValidationError(field string, cause error) *ValidationError {
	return &ValidationError{Field: field, Message: cause.Error(), Cause: cause}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Message
	}
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error   { return e.Cause }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }
func (e *ValidationError) Code() string    { return CodeInvalidRequest }

// StorageError wraps a failed conversion history operation.
type StorageError struct {
	Operation string
	Cause     error
}

func NewStorageError(operation string, cause error) *StorageError {
	return &StorageError{Operation: operation, Cause: cause}
}

func (e *StorageError) Error() string {
	if e.Cause == nil {
		return "storage error during " + e.Operation
	}
	return fmt.Sprintf("storage error during %s: %v", e.Operation, e.Cause)
}

func (e *StorageError) Unwrap() error   { return e.Cause }
func (e *StorageError) StatusCode() int { return http.StatusInternalServerError }
func (e *StorageError) Code() string    { return CodeStorage }

type NotFoundError struct {
	Resource string
	ID       string
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s with ID '%s' not found", e.Resource, e.ID)
}

func (e *NotFoundError) StatusCode() int { return http.StatusNotFound }
func (e *NotFoundError) Code() string    { return CodeNotFound }

// TimeoutError reports a request that ran past its deadline.
type TimeoutError struct {
	Operation string
	Duration  string
}

func NewTimeoutError(operation, duration string) *TimeoutError {
	return &TimeoutError{Operation: operation, Duration: duration}
}

func (e *TimeoutError) Error() string {
	if e.Duration == "" {
		return "timeout during " + e.Operation
	}
	return fmt.Sprintf("timeout during %s after %s", e.Operation, e.Duration)
}

func (e *TimeoutError) StatusCode() int { return http.StatusGatewayTimeout }
func (e *TimeoutError) Code() string    { return CodeTimeout }

// PayloadTooLargeError rejects a classic document above the body limit.
// ActualSize is zero when the body was streamed without a Content-Length.
type PayloadTooLargeError struct {
	MaxSize    int64
	ActualSize int64
}

func NewPayloadTooLargeError(maxSize, actualSize int64) *PayloadTooLargeError {
	return &PayloadTooLargeError{MaxSize: maxSize, ActualSize: actualSize}
}

func (e *PayloadTooLargeError) Error() string {
	msg := fmt.Sprintf("payload too large: maximum size is %d bytes", e.MaxSize)
	if e.ActualSize > 0 {
		msg += fmt.Sprintf(", got %d bytes", e.ActualSize)
	}
	return msg
}

func (e *PayloadTooLargeError) StatusCode() int { return http.StatusRequestEntityTooLarge }
func (e *PayloadTooLargeError) Code() string    { return CodePayloadTooLarge }

func classify(err error) (status int, code string) {
	var he httpError
	if errors.As(err, &he) {
		return he.StatusCode(), he.Code()
	}
	return http.StatusInternalServerError, CodeInternal
}

// HTTPStatusFromError maps err to a response status; unknown errors are 500.
func HTTPStatusFromError(err error) int {
	status, _ := classify(err)
	return status
}

// ErrorCode maps err to the machine readable code sent to clients.
func ErrorCode(err error) string {
	_, code := classify(err)
	return code
}
