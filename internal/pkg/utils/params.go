package utils

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"foodgram/internal/pkg/apperr"
)

// ParamID читает положительный int64 из параметра пути.
func ParamID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Invalid(name, "must be a positive integer")
	}
	return id, nil
}

// QueryInt разбирает необязательный неотрицательный int из query. Если пусто, def.
func QueryInt(c *gin.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, apperr.Invalid(name, "must be a non-negative integer")
	}
	return v, nil
}

// QueryFlag разбирает флаг вида 0/1 (принимает и true/false).
func QueryFlag(c *gin.Context, name string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(c.Query(name))) {
	case "", "0", "false":
		return false, nil
	case "1", "true":
		return true, nil
	default:
		return false, apperr.Invalid(name, "must be 0 or 1")
	}
}

// UserID: id аутентифицированного пользователя или 0 для анонима.
func UserID(c *gin.Context) int64 {
	return c.GetInt64("user_id")
}

func Role(c *gin.Context) string {
	return c.GetString("role")
}
