// Package service implements the core proxy forwarding logic.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"farmview-proxy/internal/client"
	"farmview-proxy/internal/config"
	"farmview-proxy/internal/deadline"
	"farmview-proxy/internal/model"
)

// ErrNoBaseURL is returned when the service is built without a Farm Core URL.
var ErrNoBaseURL = errors.New("farm core base URL is not configured")

// UpstreamError reports a non-2xx response from Farm Core.
type UpstreamError struct {
	StatusCode int
	StatusText string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("API error: %d", e.StatusCode)
}

// RouteOptions adjusts how one route is forwarded.
type RouteOptions struct {
	// Method overrides the inbound method when set.
	Method string
	// Timeout bounds the whole Farm Core exchange. Zero uses the default.
	Timeout time.Duration
	// CustomHeaders are applied last and win over every other header.
	CustomHeaders map[string]string
}

// ProxyService handles the forwarding logic for proxy requests.
type ProxyService struct {
	client         *client.FarmCoreClient
	logger         *slog.Logger
	baseURL        string
	userAgent      string
	defaultTimeout time.Duration
}

// NewProxyService creates a ProxyService. It fails when no Farm Core base
// URL is configured.
func NewProxyService(c *client.FarmCoreClient, cfg *config.Config, logger *slog.Logger) (*ProxyService, error) {
	base := strings.TrimRight(cfg.FarmCore.BaseURL, "/")
	if base == "" {
		return nil, ErrNoBaseURL
	}

	ua := cfg.FarmCore.UserAgent
	if ua == "" {
		ua = config.DefaultUserAgent
	}

	return &ProxyService{
		client:         c,
		logger:         logger.With("component", "proxy_service"),
		baseURL:        base,
		userAgent:      ua,
		defaultTimeout: cfg.Timeouts.Default(),
	}, nil
}

// BaseURL returns the Farm Core base URL requests are forwarded to.
func (s *ProxyService) BaseURL() string {
	return s.baseURL
}

// Forward relays pr to Farm Core and returns the response to write back.
//
// A non-2xx answer yields an *UpstreamError. Running past the route budget
// yields an error wrapping deadline.ErrTimeout. Anything else (transport
// failure, malformed JSON) is returned wrapped as is.
func (s *ProxyService) Forward(pr *model.ProxyRequest, opts RouteOptions) (*model.ProxyResponse, error) {
	method := opts.Method
	if method == "" {
		method = pr.Method
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = s.defaultTimeout
	}

	target := s.buildTargetURL(pr.Endpoint, pr.RawQuery)
	s.logger.Info("proxy start",
		"method", method,
		"endpoint", pr.Endpoint,
		"target", target,
		"request_id", pr.RequestID,
	)

	body := s.readBody(method, pr.Body)
	header := s.buildHeaders(pr, opts.CustomHeaders)

	var out *model.ProxyResponse
	err := deadline.Do(pr.Ctx, timeout, func(ctx context.Context) error {
		var rd io.Reader
		if body != nil {
			rd = bytes.NewReader(body)
		}
		resp, err := s.client.Send(ctx, method, target, header, rd)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		out, err = s.readResponse(resp)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("proxy success",
		"method", method,
		"endpoint", pr.Endpoint,
		"status", out.StatusCode,
		"bytes", len(out.Body),
		"content_type", out.ContentType,
	)
	return out, nil
}

func (s *ProxyService) buildTargetURL(endpoint, rawQuery string) string {
	target := s.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if rawQuery != "" {
		target += "?" + rawQuery
	}
	return target
}

// readBody returns the inbound body for methods that carry one. A read
// failure or an empty body both mean "no body".
func (s *ProxyService) readBody(method string, body io.Reader) []byte {
	if method == http.MethodGet || method == http.MethodHead || body == nil {
		return nil
	}
	b, err := io.ReadAll(body)
	if err != nil {
		s.logger.Warn("could not read request body", "err", err)
		return nil
	}
	if len(b) == 0 {
		return nil
	}
	return b
}

func (s *ProxyService) buildHeaders(pr *model.ProxyRequest, custom map[string]string) http.Header {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	h.Set("User-Agent", s.userAgent)
	if v := pr.Header.Get("Authorization"); v != "" {
		h.Set("Authorization", v)
	}
	if v := pr.Header.Get("Content-Type"); v != "" {
		h.Set("Content-Type", v)
	}
	if pr.RequestID != "" {
		h.Set("X-Request-Id", pr.RequestID)
	}
	for k, v := range custom {
		h.Set(k, v)
	}
	return h
}

func (s *ProxyService) readResponse(resp *http.Response) (*model.ProxyResponse, error) {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			StatusText: statusText(resp),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read farm core response: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") && len(data) > 0 {
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return nil, fmt.Errorf("decode farm core response: %w", err)
		}
		return &model.ProxyResponse{
			StatusCode:  http.StatusOK,
			ContentType: "application/json",
			Body:        buf.Bytes(),
			JSON:        true,
		}, nil
	}

	return &model.ProxyResponse{
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        data,
	}, nil
}

// statusText returns the reason phrase Farm Core sent, or the standard one.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
