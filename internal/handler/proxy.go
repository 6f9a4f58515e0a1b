package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"

	"farmview-proxy/internal/deadline"
	"farmview-proxy/internal/model"
	"farmview-proxy/internal/service"
)

// secretPattern matches secret-bearing query values in URLs embedded in error messages.
var secretPattern = regexp.MustCompile(`(?i)((?:token|api_?key|password|secret)=)[^&\s"]+`)

// ProxyHandler forwards dashboard API requests to Farm Core.
type ProxyHandler struct {
	service *service.ProxyService
	logger  *slog.Logger
}

// NewProxyHandler creates a ProxyHandler.
func NewProxyHandler(svc *service.ProxyService, logger *slog.Logger) *ProxyHandler {
	return &ProxyHandler{
		service: svc,
		logger:  logger.With("component", "proxy_handler"),
	}
}

// Route returns the echo handler forwarding to rt's Farm Core endpoint.
// Every outcome is written as a response; the handler never returns an
// error to echo.
func (h *ProxyHandler) Route(rt Route) echo.HandlerFunc {
	opts := service.RouteOptions{
		Method:        rt.Method,
		Timeout:       rt.Timeout,
		CustomHeaders: rt.Headers,
	}

	return func(c echo.Context) error {
		req := c.Request()
		endpoint := expandEndpoint(rt.Endpoint, c.Param)

		pr := &model.ProxyRequest{
			Ctx:       req.Context(),
			Method:    req.Method,
			Endpoint:  endpoint,
			RawQuery:  req.URL.RawQuery,
			Header:    req.Header,
			Body:      req.Body,
			RequestID: requestID(c),
		}

		resp, err := h.service.Forward(pr, opts)
		if err != nil {
			return h.mapError(c, endpoint, err)
		}
		return c.Blob(resp.StatusCode, resp.ContentType, resp.Body)
	}
}

func (h *ProxyHandler) mapError(c echo.Context, endpoint string, err error) error {
	h.logger.Error("proxy error",
		"err", sanitizeError(err),
		"method", c.Request().Method,
		"endpoint", endpoint,
	)

	var ue *service.UpstreamError
	switch {
	case errors.As(err, &ue):
		return c.JSON(ue.StatusCode, model.ErrorEnvelope{
			Error:    ue.Error(),
			Message:  ue.StatusText,
			Endpoint: endpoint,
		})
	case errors.Is(err, deadline.ErrTimeout):
		return c.JSON(http.StatusRequestTimeout, model.ErrorEnvelope{
			Error:    "Request timeout",
			Message:  "Request took too long to complete",
			Endpoint: endpoint,
		})
	default:
		msg := sanitizeError(err)
		if msg == "" {
			msg = "Unknown error"
		}
		return c.JSON(http.StatusInternalServerError, model.ErrorEnvelope{
			Error:    "Internal server error",
			Message:  msg,
			Endpoint: endpoint,
		})
	}
}

// expandEndpoint substitutes ":name" segments of template with the
// path-escaped route parameter of the same name.
func expandEndpoint(template string, param func(string) string) string {
	if !strings.Contains(template, ":") {
		return template
	}
	segments := strings.Split(template, "/")
	for i, seg := range segments {
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			segments[i] = url.PathEscape(param(name))
		}
	}
	return strings.Join(segments, "/")
}

func requestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

// sanitizeError redacts secrets from error messages that may contain Farm Core URLs.
func sanitizeError(err error) string {
	return secretPattern.ReplaceAllString(err.Error(), "${1}[REDACTED]")
}
