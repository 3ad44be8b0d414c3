package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Error(t *testing.T) {
	t.Run("without wrapped error", func(t *testing.T) {
		err := NewDomainError(ErrorTypeValidation, "bad input")
		assert.Equal(t, "bad input", err.Error())
	})

	t.Run("with wrapped error", func(t *testing.T) {
		inner := errors.New("column missing")
		err := WrapError(inner, ErrorTypeInternal, "database error")
		assert.Equal(t, "database error: column missing", err.Error())
	})
}

func TestDomainError_Unwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := WrapInternal(inner, "database error")

	assert.ErrorIs(t, err, inner)
}

func TestDomainError_Is(t *testing.T) {
	t.Run("same type and message", func(t *testing.T) {
		err := fmt.Errorf("loading registration: %w", ErrRegistrationNotFound)
		assert.ErrorIs(t, err, ErrRegistrationNotFound)
	})

	t.Run("same type different message", func(t *testing.T) {
		assert.NotErrorIs(t, ErrInvalidOperation, ErrInvalidInput)
	})

	t.Run("non-domain target", func(t *testing.T) {
		assert.NotErrorIs(t, ErrForbidden, errors.New("forbidden"))
	})
}

func TestDomainError_WithDetail(t *testing.T) {
	base := ErrRegistrationNotFound
	detailed := base.WithDetail("id", "abc-123")

	assert.Nil(t, base.Details)
	assert.Equal(t, "abc-123", detailed.Details["id"])
	assert.ErrorIs(t, detailed, ErrRegistrationNotFound)
}

func TestErrorTypeCheckers(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		checker func(error) bool
	}{
		{"not found", ErrRegistrationNotFound, IsNotFoundError},
		{"validation", ErrInvalidOperation, IsValidationError},
		{"unauthorized", ErrInvalidToken, IsUnauthorizedError},
		{"forbidden", ErrForbidden, IsForbiddenError},
		{"conflict", ErrDuplicateName, IsConflictError},
		{"internal", ErrDatabaseError, IsInternalError},
		{"registration", ErrUnknownGateType, IsRegistrationError},
		{"query transform", ErrQueryTransform, IsQueryTransformError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.checker(tt.err))
			assert.False(t, tt.checker(errors.New("plain error")))
		})
	}
}

func TestErrorTypeCheckers_Wrapped(t *testing.T) {
	err := fmt.Errorf("handling request: %w", ErrDuplicateName)
	assert.True(t, IsConflictError(err))
	assert.False(t, IsNotFoundError(err))
}

func TestGetErrorType(t *testing.T) {
	assert.Equal(t, ErrorTypeNotFound, GetErrorType(ErrRegistrationNotFound))
	assert.Equal(t, ErrorTypeInternal, GetErrorType(errors.New("unknown")))
}

func TestGetErrorDetails(t *testing.T) {
	err := ErrInvalidInput.WithDetail("field", "ranking")
	details := GetErrorDetails(err)
	assert.Equal(t, "ranking", details["field"])

	assert.Nil(t, GetErrorDetails(errors.New("plain")))
}
