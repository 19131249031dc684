package services

import (
	"errors"
	"log/slog"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// authService verifies login credentials. There is no user store yet; any
// non-empty credential pair is accepted.
// TODO: validate against a real credential store once one exists.
type authService struct {
	logger *slog.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(logger *slog.Logger) AuthServiceInterface {
	if logger == nil {
		logger = slog.Default()
	}
	return &authService{logger: logger}
}

// Authenticate checks the given credentials
func (s *authService) Authenticate(userName, password string) error {
	if userName == "" || password == "" {
		return ErrInvalidCredentials
	}

	s.logger.Info("user authenticated", "user_name", userName)
	return nil
}
