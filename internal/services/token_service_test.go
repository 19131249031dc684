package services

import (
	"testing"
	"time"

	"banking-api/internal/config"

	"github.com/stretchr/testify/suite"
)

// TokenServiceSuite defines the test suite for TokenService
type TokenServiceSuite struct {
	suite.Suite
	service TokenServiceInterface
	cfg     config.JWTConfig
}

func (s *TokenServiceSuite) SetupTest() {
	s.cfg = config.JWTConfig{
		Secret:        []byte("test-secret-at-least-32-bytes-long"),
		TokenDuration: time.Hour,
		Issuer:        "banking-api",
		Audience:      "banking-api-clients",
	}
	s.service = NewTokenService(&s.cfg)
}

func TestTokenServiceSuite(t *testing.T) {
	suite.Run(t, new(TokenServiceSuite))
}

func (s *TokenServiceSuite) TestGenerateAndValidateToken() {
	token, expiresAt, err := s.service.GenerateToken("johndoe")
	s.NoError(err)
	s.NotEmpty(token)
	s.WithinDuration(time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := s.service.ValidateToken(token)
	s.NoError(err)
	s.Equal("johndoe", claims.UserName)
	s.Equal("banking-api", claims.Issuer)
	s.NotEmpty(claims.Subject)
	s.NotEmpty(claims.ID)
}

func (s *TokenServiceSuite) TestGenerateToken_EmptyUserName() {
	_, _, err := s.service.GenerateToken("")
	s.Error(err)
}

func (s *TokenServiceSuite) TestValidateToken_Empty() {
	_, err := s.service.ValidateToken("")
	s.ErrorIs(err, ErrEmptyToken)
}

func (s *TokenServiceSuite) TestValidateToken_Garbage() {
	_, err := s.service.ValidateToken("not.a.token")
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *TokenServiceSuite) TestValidateToken_WrongSecret() {
	token, _, err := s.service.GenerateToken("johndoe")
	s.Require().NoError(err)

	otherCfg := s.cfg
	otherCfg.Secret = []byte("a-completely-different-signing-key")
	other := NewTokenService(&otherCfg)

	_, err = other.ValidateToken(token)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *TokenServiceSuite) TestValidateToken_Expired() {
	expiredCfg := s.cfg
	expiredCfg.TokenDuration = -time.Minute
	expired := NewTokenService(&expiredCfg)

	token, _, err := expired.GenerateToken("johndoe")
	s.Require().NoError(err)

	_, err = s.service.ValidateToken(token)
	s.ErrorIs(err, ErrExpiredToken)
}

func (s *TokenServiceSuite) TestValidateToken_WrongIssuer() {
	otherCfg := s.cfg
	otherCfg.Issuer = "someone-else"
	other := NewTokenService(&otherCfg)

	token, _, err := other.GenerateToken("johndoe")
	s.Require().NoError(err)

	_, err = s.service.ValidateToken(token)
	s.ErrorIs(err, ErrInvalidIssuer)
}

func (s *TokenServiceSuite) TestExtractTokenFromHeader() {
	tests := []struct {
		name     string
		header   string
		expected string
		wantErr  bool
	}{
		{"valid header", "Bearer abc123", "abc123", false},
		{"lowercase scheme", "bearer abc123", "abc123", false},
		{"empty header", "", "", true},
		{"missing scheme", "abc123", "", true},
		{"scheme only", "Bearer ", "", true},
		{"wrong scheme", "Basic abc123", "", true},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			token, err := s.service.ExtractTokenFromHeader(tt.header)
			if tt.wantErr {
				s.ErrorIs(err, ErrInvalidAuthHeader)
			} else {
				s.NoError(err)
				s.Equal(tt.expected, token)
			}
		})
	}
}
