package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"foodgram/internal/pkg/apperr"
)

// IsDuplicate распознаёт нарушение уникального индекса у любого из драйверов.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "duplicate key")
}

// translate переводит ошибку хранилища в класс apperr.
func translate(err error, resource string, id int64) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(resource, id)
	case IsDuplicate(err):
		return fmt.Errorf("%s: %w", resource, apperr.ErrConflict)
	default:
		return fmt.Errorf("%s: %w", resource, err)
	}
}
