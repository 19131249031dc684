package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"banking-api/internal/dto"
	"banking-api/internal/errors"
	"banking-api/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService      services.AuthServiceInterface
	tokenService     services.TokenServiceInterface
	metricsCollector services.MetricsRecorderInterface
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService services.AuthServiceInterface, tokenService services.TokenServiceInterface, metricsCollector services.MetricsRecorderInterface) *AuthHandler {
	return &AuthHandler{
		authService:      authService,
		tokenService:     tokenService,
		metricsCollector: metricsCollector,
	}
}

// IssueToken exchanges credentials for a bearer token
func (h *AuthHandler) IssueToken(c echo.Context) error {
	var req dto.LoginRequest

	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	if err := h.authService.Authenticate(req.UserName, req.Password); err != nil {
		slog.Warn("Authentication failed",
			"user_name", req.UserName,
			"client_ip", getClientIP(c),
			"trace_id", getTraceID(c),
		)
		h.recordAuthEvent("login_failed")
		return SendError(c, errors.AuthInvalidCredentials)
	}

	token, expiresAt, err := h.tokenService.GenerateToken(req.UserName)
	if err != nil {
		return SendSystemError(c, err)
	}

	h.recordAuthEvent("login_succeeded")

	return c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	})
}

func (h *AuthHandler) recordAuthEvent(event string) {
	if h.metricsCollector != nil {
		h.metricsCollector.IncrementCounter("auth_events_total", map[string]string{"event_type": event})
	}
}
