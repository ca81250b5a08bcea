package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"lupain/internal/infrastructure/firebase"
)

type AuthMiddleware struct {
	authClient     *firebase.FirebaseAuthClient
	devAuthEnabled bool
	devUserID      string
}

func NewAuthMiddleware(authClient *firebase.FirebaseAuthClient, devAuthEnabled bool, devUserID string) *AuthMiddleware {
	return &AuthMiddleware{
		authClient:     authClient,
		devAuthEnabled: devAuthEnabled,
		devUserID:      devUserID,
	}
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			// Local development runs without a hosted identity; the flag
			// substitutes a fixed identity instead of rejecting.
			if m.devAuthEnabled {
				identity := &firebase.Identity{UID: m.devUserID}
				c.Set("uid", identity.UID)
				c.Set("identity", identity)
				return next(c)
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is required")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
		}

		identity, err := m.authClient.VerifyToken(c.Request().Context(), parts[1])
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}

		c.Set("uid", identity.UID)
		c.Set("identity", identity)

		return next(c)
	}
}
