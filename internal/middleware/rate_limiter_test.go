package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

func TestRateLimiterSuite(t *testing.T) {
	suite.Run(t, new(RateLimiterSuite))
}

type RateLimiterSuite struct {
	suite.Suite
	echo *echo.Echo
}

func (s *RateLimiterSuite) SetupTest() {
	s.echo = echo.New()
}

func (s *RateLimiterSuite) doRequest(handler echo.HandlerFunc, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", ip)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	s.NoError(handler(c))
	return rec
}

func (s *RateLimiterSuite) TestAllowsRequestsWithinLimit() {
	rl := NewRateLimiter(100, 100)
	handler := rl.Middleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for i := 0; i < 10; i++ {
		rec := s.doRequest(handler, "10.0.0.1")
		s.Equal(http.StatusOK, rec.Code)
	}
}

func (s *RateLimiterSuite) TestRejectsRequestsBeyondBurst() {
	rl := NewRateLimiter(1, 3)
	handler := rl.Middleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	allowed, limited := 0, 0
	for i := 0; i < 10; i++ {
		rec := s.doRequest(handler, "10.0.0.2")
		switch rec.Code {
		case http.StatusOK:
			allowed++
		case http.StatusTooManyRequests:
			limited++
			s.Contains(rec.Body.String(), "SYSTEM_004")
		}
	}

	s.GreaterOrEqual(allowed, 3)
	s.Greater(limited, 0)
}

func (s *RateLimiterSuite) TestLimitsArePerIP() {
	rl := NewRateLimiter(1, 1)
	handler := rl.Middleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for i := 0; i < 5; i++ {
		rec := s.doRequest(handler, fmt.Sprintf("10.0.1.%d", i))
		s.Equal(http.StatusOK, rec.Code)
	}
}

func (s *RateLimiterSuite) TestDefaultsAppliedForNonPositiveConfig() {
	rl := NewRateLimiter(0, -1)
	s.Equal(defaultRequestsPerSecond, rl.requestsPerSecond)
	s.Equal(defaultBurstSize, rl.burstSize)
}
