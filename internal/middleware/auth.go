package middleware

import (
	"net/http"
	"strings"

	"backoffice-service/pkg/jwtutil"
	"backoffice-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Context keys set by JWTAuthMiddleware
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextRole     = "role"
)

// TokenValidator parses a bearer token into its claims
type TokenValidator interface {
	ValidateToken(tokenString string) (*jwtutil.UserClaims, error)
}

// JWTAuthMiddleware validates the bearer token and exposes the caller on the echo context.
// It makes no authorization decisions.
func JWTAuthMiddleware(validator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				log.Warn("Missing authorization header")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization header"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				log.Warn("Invalid authorization header format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization header format, expected Bearer token"})
			}

			claims, err := validator.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextUsername, claims.Username)
			c.Set(ContextRole, claims.Role)
			log.Debug("Request authenticated",
				zap.Uint("user_id", claims.UserID),
				zap.String("username", claims.Username),
				zap.String("role", claims.Role))

			return next(c)
		}
	}
}

// RoleFromContext returns the role injected by JWTAuthMiddleware
func RoleFromContext(c echo.Context) (string, bool) {
	role, ok := c.Get(ContextRole).(string)
	return role, ok
}
