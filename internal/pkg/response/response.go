package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"foodgram/internal/logging"
	"foodgram/internal/pkg/apperr"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// Fail переводит ошибку сервиса в ответ. Ошибки валидации отдаются
// с деталями по полю, внутренние, без текста исходной ошибки.
func Fail(c *gin.Context, err error) {
	status, code := apperr.Status(err)

	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		ErrorWithDetails(c, status, code, ve.Error(), gin.H{ve.Field: ve.Message})
		return
	}

	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		logging.Ctx(c.Request.Context()).Error().Err(err).
			Str("path", c.FullPath()).
			Msg("request failed")
		Error(c, status, code, "internal server error")
		return
	}

	Error(c, status, code, err.Error())
}
