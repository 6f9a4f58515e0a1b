package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// hopByHopHeaders are headers that should not be forwarded by proxies.
var hopByHopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"TE",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// SecurityHeaders returns an Echo middleware that strips hop-by-hop request
// headers and adds security headers to every response. Responses under /api
// are marked uncacheable since they mirror live fleet state.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, h := range hopByHopHeaders {
				c.Request().Header.Del(h)
			}

			path := c.Request().URL.Path
			res := c.Response()
			res.Before(func() {
				h := res.Header()
				h.Set("X-Content-Type-Options", "nosniff")
				h.Set("X-Frame-Options", "DENY")
				if path == "/api" || strings.HasPrefix(path, "/api/") {
					h.Set("Cache-Control", "no-store")
				}
			})

			return next(c)
		}
	}
}
