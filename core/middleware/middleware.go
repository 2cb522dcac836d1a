package middleware

import (
	"net/http"
	"strings"
	"time"

	"guidia-api/core/cache"
	"guidia-api/core/constants"
	"guidia-api/core/controller"
	"guidia-api/core/errors"
	"guidia-api/core/logger"
	"guidia-api/core/utils"

	"github.com/labstack/echo/v4"
)

// Middleware bundles the cross-cutting echo middleware for routers.
type Middleware struct {
	cache cache.ICache
}

func New(c cache.ICache) *Middleware {
	return &Middleware{cache: c}
}

// AuthMiddleware validates the bearer token and installs the actor claims on
// the request context under constants.ContextTokenData.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return controller.NewErrorResponse(http.StatusUnauthorized,
					errors.ErrMissingAuthorizationHeader, "missing authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return controller.NewErrorResponse(http.StatusUnauthorized,
					errors.ErrInvalidTokenFormat, "invalid authorization header format")
			}
			token := parts[1]

			if m.cache != nil {
				blacklisted, err := m.cache.IsTokenBlacklisted(c.Request().Context(), token)
				if err != nil {
					logger.Error("Middleware:AuthMiddleware:IsTokenBlacklisted:Error:", err)
				} else if blacklisted {
					return controller.NewErrorResponse(http.StatusUnauthorized,
						errors.ErrUnauthorized, "token is blacklisted")
				}
			}

			claims, err := utils.ValidateAndParseToken(token)
			if err != nil {
				logger.Error("Middleware:AuthMiddleware:ValidateAndParseToken:Error:", err)
				return controller.NewErrorResponse(http.StatusUnauthorized,
					errors.ErrUnauthorized, "invalid or expired token")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}

// Logout blacklists the presented bearer token for the remainder of its
// lifetime so it can no longer authenticate. Runs behind AuthMiddleware, so
// the token has already been validated.
func (m *Middleware) Logout(c echo.Context) error {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return controller.NewErrorResponse(http.StatusUnauthorized,
			errors.ErrInvalidTokenFormat, "invalid authorization header format")
	}
	token := parts[1]

	ttl := constants.TokenBlacklistDefaultTTL
	if tokenData, ok := c.Get(constants.ContextTokenData).(*utils.TokenClaims); ok && tokenData.ExpiresAt != nil {
		if remaining := time.Until(tokenData.ExpiresAt.Time); remaining > 0 {
			ttl = remaining
		}
	}

	if m.cache != nil {
		if err := m.cache.BlacklistToken(c.Request().Context(), token, ttl); err != nil {
			logger.Error("Middleware:Logout:BlacklistToken:Error:", err)
			return controller.NewErrorResponse(http.StatusServiceUnavailable,
				errors.ErrServiceUnavailable, "failed to revoke token")
		}
	}

	return c.JSON(http.StatusOK, controller.NewSuccessResponse(http.StatusOK, nil, "Logged out"))
}
