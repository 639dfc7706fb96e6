// Package apperr задаёт классы ошибок, общие для всех модулей.
// Сервисы возвращают их (или оборачивают через %w), handler'ы
// переводят в HTTP-статус через Status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrConflict      = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
	ErrStateMismatch = errors.New("relation does not exist")
	ErrForbidden     = errors.New("forbidden")
	ErrUnauthorized  = errors.New("unauthorized")
)

// ValidationError: ошибка ввода с привязкой к полю запроса.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFound оборачивает ErrNotFound с именем ресурса.
func NotFound(resource string, id int64) error {
	return fmt.Errorf("%s %d: %w", resource, id, ErrNotFound)
}

// Status возвращает HTTP-статус и код ошибки для ответа.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, ErrStateMismatch):
		return http.StatusBadRequest, "NOT_IN_LIST"
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, "ALREADY_EXISTS"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
