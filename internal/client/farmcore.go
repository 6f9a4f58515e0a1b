// Package client provides the upstream HTTP client for Farm Core.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"farmview-proxy/internal/config"
	"farmview-proxy/internal/metrics"
)

// FarmCoreClient sends requests to Farm Core.
//
// It sets no overall timeout of its own; every call is bounded by the
// context the caller passes, which carries the per-route budget.
type FarmCoreClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// NewFarmCoreClient creates a FarmCoreClient with connection pooling.
// The metrics parameter is optional; pass nil to disable upstream metrics recording.
func NewFarmCoreClient(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *FarmCoreClient {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        cfg.FarmCore.IdleConnections,
		MaxIdleConnsPerHost: cfg.FarmCore.IdleConnections,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}

	return &FarmCoreClient{
		httpClient: &http.Client{Transport: transport},
		logger:     logger.With("component", "farmcore_client"),
		metrics:    m,
	}
}

// Do executes req against Farm Core. The caller closes the response body.
func (c *FarmCoreClient) Do(req *http.Request) (*http.Response, error) {
	c.logger.Debug("upstream request",
		"method", req.Method,
		"path", req.URL.Path,
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req) //nolint:bodyclose // body ownership transfers to caller
	duration := time.Since(start).Seconds()

	method := metrics.NormalizeMethod(req.Method)

	if err != nil {
		if c.metrics != nil {
			c.metrics.UpstreamDuration.WithLabelValues(method).Observe(duration)
			c.metrics.UpstreamErrors.WithLabelValues(method, errorKind(err)).Inc()
		}
		return nil, fmt.Errorf("upstream request: %w", err)
	}

	if c.metrics != nil {
		status := strconv.Itoa(resp.StatusCode)
		c.metrics.UpstreamDuration.WithLabelValues(method).Observe(duration)
		c.metrics.UpstreamResponses.WithLabelValues(method, status).Inc()
	}

	return resp, nil
}

// Send builds a request from its parts and executes it. The context bounds
// the whole exchange including reading the body.
func (c *FarmCoreClient) Send(ctx context.Context, method, url string, header http.Header, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header = header

	return c.Do(req)
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return metrics.ErrorKindTimeout
	case errors.Is(err, context.Canceled):
		return metrics.ErrorKindCanceled
	default:
		return metrics.ErrorKindTransport
	}
}
