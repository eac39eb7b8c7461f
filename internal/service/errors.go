package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// ErrorCode classifies a failed service call.
type ErrorCode string

const (
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// Error is the only error type returned by services. Message is safe to show to callers;
// the wrapped cause is for logs only.
type Error struct {
	Code    ErrorCode
	Message string
	Fields  map[string]string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches errors carrying the same code, so errors.Is(err, &Error{Code: CodeNotFound}) works.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code && (other.Message == "" || other.Message == e.Message)
}

// Sentinels usable with errors.Is.
var (
	ErrUnauthorized = &Error{Code: CodeUnauthorized}
	ErrForbidden    = &Error{Code: CodeForbidden}
	ErrNotFound     = &Error{Code: CodeNotFound}
	ErrValidation   = &Error{Code: CodeValidation}
	ErrConflict     = &Error{Code: CodeConflict}
	ErrInternal     = &Error{Code: CodeInternal}
)

func unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

func forbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

func notFound(entity string) *Error {
	return &Error{Code: CodeNotFound, Message: entity + " not found"}
}

func conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

func invalid(field, message string) *Error {
	return &Error{Code: CodeValidation, Message: message, Fields: map[string]string{field: message}}
}

// CodeOf returns the error code carried by err, or CodeInternal for foreign errors.
func CodeOf(err error) ErrorCode {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return CodeInternal
}

// AsError converts any error into a service error without losing an existing classification.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return &Error{Code: CodeInternal, Message: "internal server error", cause: err}
}

// validationError turns validator failures into a VALIDATION_ERROR with per-field messages.
func validationError(err error) *Error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return &Error{Code: CodeValidation, Message: "invalid payload", cause: err}
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields[fieldKey(fieldErr)] = describeFieldError(fieldErr)
	}

	return &Error{Code: CodeValidation, Message: "invalid payload", Fields: fields, cause: err}
}

func fieldKey(fieldErr validator.FieldError) string {
	namespace := fieldErr.Namespace()
	if idx := strings.Index(namespace, "."); idx >= 0 {
		namespace = namespace[idx+1:]
	}
	if namespace == "" {
		return strings.ToLower(fieldErr.Field())
	}
	return namespace
}

func describeFieldError(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required", "required_if":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fieldErr.Param()
	case "max":
		return "must be at most " + fieldErr.Param()
	case "oneof":
		return "must be one of: " + fieldErr.Param()
	case "gte":
		return "must be greater than or equal to " + fieldErr.Param()
	case "lte":
		return "must be less than or equal to " + fieldErr.Param()
	default:
		return "is invalid"
	}
}

// persistenceError classifies a repository failure. Record-not-found becomes NOT_FOUND for
// the named entity; anything else is logged and hidden behind INTERNAL_ERROR.
func persistenceError(logger zerolog.Logger, entity string, err error) *Error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(entity)
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}
	logger.Error().Err(err).Str("entity", entity).Msg("persistence failure")
	return &Error{Code: CodeInternal, Message: "internal server error", cause: err}
}

// ValidationFailure converts validator failures raised outside the service layer.
func ValidationFailure(err error) *Error {
	return validationError(err)
}
