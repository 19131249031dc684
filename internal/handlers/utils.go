package handlers

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
)

// ErrUnauthorized is returned when user context is invalid
var ErrUnauthorized = fmt.Errorf("unauthorized")

// getUserNameFromContext extracts the authenticated user name set by the
// JWT middleware. Returns ErrUnauthorized if it is missing or invalid.
func getUserNameFromContext(c echo.Context) (string, error) {
	userNameValue := c.Get("user_name")
	if userNameValue == nil {
		return "", ErrUnauthorized
	}

	userName, ok := userNameValue.(string)
	if !ok || userName == "" {
		return "", ErrUnauthorized
	}

	return userName, nil
}

func getClientIP(c echo.Context) string {
	xff := c.Request().Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	xri := c.Request().Header.Get("X-Real-IP")
	if xri != "" {
		return xri
	}

	return c.Request().RemoteAddr
}
