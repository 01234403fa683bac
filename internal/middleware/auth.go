package middleware

import (
	"net/http"
	"strings"

	"digital-downloads-store/internal/model"
	"digital-downloads-store/internal/service"

	"github.com/labstack/echo/v4"
)

const (
	userKey = "auth_user"
	jtiKey  = "auth_jti"
)

// Auth rejects requests without a valid bearer token and stores the
// authenticated user in the echo context.
func Auth(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthenticated.")
			}

			user, jti, err := authService.Authenticate(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthenticated.")
			}

			c.Set(userKey, user)
			c.Set(jtiKey, jti)
			return next(c)
		}
	}
}

// OptionalAuth resolves the user when a valid token is present but lets
// anonymous requests through.
func OptionalAuth(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token := bearerToken(c); token != "" {
				if user, jti, err := authService.Authenticate(c.Request().Context(), token); err == nil {
					c.Set(userKey, user)
					c.Set(jtiKey, jti)
				}
			}
			return next(c)
		}
	}
}

// AdminOnly requires Auth to have run first.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil || !user.IsAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "Forbidden.")
			}
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(userKey).(*model.User)
	return user
}

func CurrentJTI(c echo.Context) string {
	jti, _ := c.Get(jtiKey).(string)
	return jti
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
