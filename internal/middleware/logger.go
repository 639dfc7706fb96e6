package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"

	"foodgram/internal/logging"
	"foodgram/internal/pkg/response"
)

// ErrorLogger logs failed requests and recovers from panics.
func ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				logging.Ctx(c.Request.Context()).Error().
					Err(err).
					Str("type", "panic").
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Int64("user_id", c.GetInt64(ctxUserID)).
					Dur("latency", time.Since(start)).
					Bytes("stack", debug.Stack()).
					Msg("request panic")

				response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
				c.Abort()
				return
			}

			for _, e := range c.Errors {
				logging.Ctx(c.Request.Context()).Error().
					Err(e.Err).
					Str("type", fmt.Sprintf("%v", e.Type)).
					Int("status", c.Writer.Status()).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Str("query", c.Request.URL.RawQuery).
					Str("client_ip", c.ClientIP()).
					Int64("user_id", c.GetInt64(ctxUserID)).
					Dur("latency", time.Since(start)).
					Msg("request error")
			}
		}()

		c.Next()
	}
}

// AccessLog пишет одну строку на запрос.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := logging.Ctx(c.Request.Context()).Info()
		if status >= http.StatusInternalServerError {
			ev = logging.Ctx(c.Request.Context()).Warn()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Int("size", c.Writer.Size()).
			Int64("user_id", c.GetInt64(ctxUserID)).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
