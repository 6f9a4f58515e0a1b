// Package apiclient calls the FarmView gateway (or any JSON HTTP endpoint)
// with a per-call timeout, query encoding and error enrichment.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-querystring/query"

	"farmview-proxy/internal/deadline"
)

// DefaultTimeout is the budget for calls that set none.
const DefaultTimeout = 15 * time.Second

// maxErrorBody caps how much of a failed response is read for details.
const maxErrorBody = 64 << 10

// Client issues JSON requests against BaseURL.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Timeout time.Duration
	Logger  *slog.Logger
}

// New returns a Client for baseURL. A non-positive timeout selects
// DefaultTimeout.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{},
		Timeout: timeout,
		Logger:  logger.With("component", "apiclient"),
	}
}

// Options tunes a single request.
type Options struct {
	// Timeout overrides the client budget when positive.
	Timeout time.Duration
	// Method defaults to GET.
	Method string
	// Body is sent as JSON for every method but GET.
	Body any
	// Headers are applied after Content-Type and may replace it.
	Headers map[string]string
	// Params is url.Values, map[string]string, or a struct tagged for
	// go-querystring. Slices encode as repeated keys.
	Params any
}

// HTTPError is a non-2xx response.
type HTTPError struct {
	StatusCode int
	StatusText string
	// Detail is the error or message field of a JSON error body.
	Detail string
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.StatusText)
	if e.Detail != "" {
		msg += " - " + e.Detail
	}
	return msg
}

// Request performs the call and decodes a successful JSON body into out.
// out may be nil to discard the body. Errors are logged and returned.
func (c *Client) Request(ctx context.Context, endpoint string, opts Options, out any) error {
	err := c.request(ctx, endpoint, opts, out)
	if err != nil {
		c.logger().Error("api request failed", "endpoint", endpoint, "err", err)
	}
	return err
}

func (c *Client) request(ctx context.Context, endpoint string, opts Options, out any) error {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = c.Timeout
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	target, err := c.buildURL(endpoint, opts.Params)
	if err != nil {
		return err
	}

	var payload []byte
	if opts.Body != nil && method != http.MethodGet {
		payload, err = json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
	}

	return deadline.Do(ctx, timeout, func(ctx context.Context) error {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, target, body)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range opts.Headers {
			req.Header.Set(k, v)
		}

		resp, err := c.httpClient().Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return newHTTPError(resp)
		}

		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	})
}

// Get issues a GET with params.
func (c *Client) Get(ctx context.Context, endpoint string, params any, out any) error {
	return c.Request(ctx, endpoint, Options{Method: http.MethodGet, Params: params}, out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, body any, out any) error {
	return c.Request(ctx, endpoint, Options{Method: http.MethodPost, Body: body}, out)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, endpoint string, body any, out any) error {
	return c.Request(ctx, endpoint, Options{Method: http.MethodPut, Body: body}, out)
}

// Patch issues a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, endpoint string, body any, out any) error {
	return c.Request(ctx, endpoint, Options{Method: http.MethodPatch, Body: body}, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, endpoint string, out any) error {
	return c.Request(ctx, endpoint, Options{Method: http.MethodDelete}, out)
}

func (c *Client) buildURL(endpoint string, params any) (string, error) {
	target := endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		target = c.BaseURL + "/" + strings.TrimLeft(endpoint, "/")
	}

	values, err := encodeParams(params)
	if err != nil {
		return "", err
	}
	if len(values) == 0 {
		return target, nil
	}

	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	return target + sep + values.Encode(), nil
}

func encodeParams(params any) (url.Values, error) {
	switch p := params.(type) {
	case nil:
		return nil, nil
	case url.Values:
		return p, nil
	case map[string]string:
		values := make(url.Values, len(p))
		for k, v := range p {
			values.Set(k, v)
		}
		return values, nil
	default:
		values, err := query.Values(params)
		if err != nil {
			return nil, fmt.Errorf("encode params: %w", err)
		}
		return values, nil
	}
}

func newHTTPError(resp *http.Response) *HTTPError {
	he := &HTTPError{
		StatusCode: resp.StatusCode,
		StatusText: strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "),
	}
	if he.StatusText == "" {
		he.StatusText = http.StatusText(resp.StatusCode)
	}

	var body struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil && json.Unmarshal(data, &body) == nil {
		he.Detail = errorText(body.Error)
		if he.Detail == "" {
			he.Detail = body.Message
		}
	}
	return he
}

// errorText reads an error member that is either a string or a Farm Core
// {code, message} object.
func errorText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		return obj.Message
	}
	return ""
}

// IsStatus reports whether err is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.StatusCode == code
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
