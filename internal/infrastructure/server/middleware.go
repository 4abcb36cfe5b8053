package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/taskmaster/todo/internal/infrastructure/config"
	"github.com/taskmaster/todo/internal/ports"
)

// newRateLimiterConfig allows cfg.RateLimitRequests per cfg.RateLimitWindow
// for each client IP.
func newRateLimiterConfig(cfg config.SecurityConfig) middleware.RateLimiterConfig {
	window := cfg.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}

	return middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			return !isReservedPath(c)
		},
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(float64(cfg.RateLimitRequests) / window.Seconds()),
			Burst:     cfg.RateLimitRequests,
			ExpiresIn: window,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, ports.ErrorResponse{Error: "rate limit exceeded"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, ports.ErrorResponse{Error: "rate limit exceeded"})
		},
	}
}
