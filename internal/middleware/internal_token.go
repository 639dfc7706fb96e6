package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"foodgram/internal/logging"
	"foodgram/internal/pkg/response"
)

// InternalToken защищает внутренние эндпоинты статическим bearer-токеном.
// Пустой token выключает эндпоинты целиком, непустой allowedIPs ограничивает адреса.
func InternalToken(token string, allowedIPs []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			logInternalAuthFailure(c, http.StatusForbidden, "disabled")
			response.Error(c, http.StatusForbidden, "AUTH_INVALID", "Internal API disabled")
			c.Abort()
			return
		}

		if len(allowedIPs) > 0 && !ipAllowed(c.ClientIP(), allowedIPs) {
			logInternalAuthFailure(c, http.StatusForbidden, "ip_not_allowed")
			response.Error(c, http.StatusForbidden, "AUTH_INVALID", "IP not allowed")
			c.Abort()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logInternalAuthFailure(c, http.StatusUnauthorized, "missing_auth")
			response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			logInternalAuthFailure(c, http.StatusUnauthorized, "invalid_auth_format")
			response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(parts[1])), []byte(token)) != 1 {
			logInternalAuthFailure(c, http.StatusForbidden, "invalid_token")
			response.Error(c, http.StatusForbidden, "AUTH_INVALID", "Invalid internal token")
			c.Abort()
			return
		}

		c.Next()
	}
}

func ipAllowed(clientIP string, allowed []string) bool {
	for _, ip := range allowed {
		if ip == clientIP {
			return true
		}
	}
	return false
}

func logInternalAuthFailure(c *gin.Context, status int, reason string) {
	logging.Ctx(c.Request.Context()).Warn().
		Int("status", status).
		Str("reason", reason).
		Str("ip", c.ClientIP()).
		Msg("internal auth failed")
}
