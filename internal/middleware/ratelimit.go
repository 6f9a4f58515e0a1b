package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"farmview-proxy/internal/model"
)

// RateLimiter limits each client IP to rps requests per second. Rejected
// requests get the gateway error envelope with status 429.
func RateLimiter(rps float64) echo.MiddlewareFunc {
	store := echomw.NewRateLimiterMemoryStore(rate.Limit(rps))
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/healthz"
		},
		Store: store,
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, model.ErrorEnvelope{
				Error:    "Forbidden",
				Message:  "Unable to identify client",
				Endpoint: c.Request().URL.Path,
			})
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.JSON(http.StatusTooManyRequests, model.ErrorEnvelope{
				Error:    "Too many requests",
				Message:  "Rate limit exceeded",
				Endpoint: c.Request().URL.Path,
			})
		},
	})
}
