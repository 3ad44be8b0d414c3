package services

import (
	"errors"
	"fmt"
)

// ErrorType categorizes domain errors for consistent HTTP mapping.
type ErrorType string

const (
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeValidation     ErrorType = "validation"
	ErrorTypeUnauthorized   ErrorType = "unauthorized"
	ErrorTypeForbidden      ErrorType = "forbidden"
	ErrorTypeConflict       ErrorType = "conflict"
	ErrorTypeInternal       ErrorType = "internal"
	ErrorTypeRegistration   ErrorType = "registration"
	ErrorTypeQueryTransform ErrorType = "query_transform"
)

// DomainError is a structured error with type and optional details.
type DomainError struct {
	Type    ErrorType
	Message string
	Details map[string]interface{}
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError of the same type.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Message == t.Message
	}
	return false
}

// WithDetail returns a copy of the error with an extra detail attached.
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	details := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &DomainError{
		Type:    e.Type,
		Message: e.Message,
		Details: details,
		Err:     e.Err,
	}
}

// NewDomainError creates a new domain error.
func NewDomainError(errType ErrorType, message string) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
	}
}

// Common domain errors.
var (
	ErrRegistrationNotFound = NewDomainError(ErrorTypeNotFound, "gate registration not found")

	ErrInvalidInput       = NewDomainError(ErrorTypeValidation, "invalid input")
	ErrInvalidOperation   = NewDomainError(ErrorTypeValidation, "invalid operation")
	ErrInvalidGateContext = NewDomainError(ErrorTypeValidation, "invalid gate context")

	ErrUnauthorized = NewDomainError(ErrorTypeUnauthorized, "unauthorized")
	ErrInvalidToken = NewDomainError(ErrorTypeUnauthorized, "invalid or expired token")

	ErrForbidden = NewDomainError(ErrorTypeForbidden, "forbidden")

	ErrDuplicateName = NewDomainError(ErrorTypeConflict, "registration name already exists")

	ErrInternal      = NewDomainError(ErrorTypeInternal, "internal server error")
	ErrDatabaseError = NewDomainError(ErrorTypeInternal, "database error")

	ErrInvalidRegistration = NewDomainError(ErrorTypeRegistration, "invalid gate registration")
	ErrUnknownGateType     = NewDomainError(ErrorTypeRegistration, "unknown gate type")

	ErrQueryTransform = NewDomainError(ErrorTypeQueryTransform, "query transformation failed")
)

func hasErrorType(err error, errType ErrorType) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == errType
	}
	return false
}

// IsNotFoundError checks if the error is a not found error.
func IsNotFoundError(err error) bool {
	return hasErrorType(err, ErrorTypeNotFound)
}

// IsValidationError checks if the error is a validation error.
func IsValidationError(err error) bool {
	return hasErrorType(err, ErrorTypeValidation)
}

// IsUnauthorizedError checks if the error is an unauthorized error.
func IsUnauthorizedError(err error) bool {
	return hasErrorType(err, ErrorTypeUnauthorized)
}

// IsForbiddenError checks if the error is a forbidden error.
func IsForbiddenError(err error) bool {
	return hasErrorType(err, ErrorTypeForbidden)
}

// IsConflictError checks if the error is a conflict error.
func IsConflictError(err error) bool {
	return hasErrorType(err, ErrorTypeConflict)
}

// IsInternalError checks if the error is an internal error.
func IsInternalError(err error) bool {
	return hasErrorType(err, ErrorTypeInternal)
}

// IsRegistrationError checks if the error relates to gate registration setup.
func IsRegistrationError(err error) bool {
	return hasErrorType(err, ErrorTypeRegistration)
}

// IsQueryTransformError checks if the error came from a query transformer.
func IsQueryTransformError(err error) bool {
	return hasErrorType(err, ErrorTypeQueryTransform)
}

// GetErrorType extracts the error type, defaulting to internal.
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ErrorTypeInternal
}

// GetErrorDetails extracts details from a domain error, if any.
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// WrapError wraps an error as a domain error of the given type.
func WrapError(err error, errType ErrorType, message string) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// WrapInternal wraps an error as an internal domain error.
func WrapInternal(err error, message string) *DomainError {
	return WrapError(err, ErrorTypeInternal, message)
}
