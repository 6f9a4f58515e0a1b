package apiclient

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"farmview-proxy/internal/deadline"
)

func newTestClient(baseURL string) *Client {
	return New(baseURL, time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRequest_EncodesParamsAsRepeatedKeys(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	type listQuery struct {
		Status []string `url:"status"`
		Page   int      `url:"page"`
	}

	tests := []struct {
		name   string
		params any
	}{
		{"url values", url.Values{"status": {"active", "maintenance"}, "page": {"2"}}},
		{"struct", listQuery{Status: []string{"active", "maintenance"}, Page: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(srv.URL)
			if err := c.Get(context.Background(), "/api/servers/get_servers", tt.params, nil); err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got := gotQuery["status"]; len(got) != 2 || got[0] != "active" || got[1] != "maintenance" {
				t.Errorf("status = %v, want [active maintenance]", got)
			}
			if got := gotQuery.Get("page"); got != "2" {
				t.Errorf("page = %q, want %q", got, "2")
			}
		})
	}
}

func TestRequest_BodyAndHeaders(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		wantBody string
	}{
		{"put sends json", http.MethodPut, `{"notes":"rack 4"}`},
		{"get drops body", http.MethodGet, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotBody, gotCT, gotAuth, gotMethod string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				b, _ := io.ReadAll(r.Body)
				gotBody = string(b)
				gotCT = r.Header.Get("Content-Type")
				gotAuth = r.Header.Get("Authorization")
				gotMethod = r.Method
				_, _ = w.Write([]byte(`{}`))
			}))
			defer srv.Close()

			c := newTestClient(srv.URL)
			err := c.Request(context.Background(), "/api/servers/7", Options{
				Method:  tt.method,
				Body:    map[string]string{"notes": "rack 4"},
				Headers: map[string]string{"Authorization": "Bearer t"},
			}, nil)
			if err != nil {
				t.Fatalf("Request() error = %v", err)
			}
			if gotMethod != tt.method {
				t.Errorf("method = %q, want %q", gotMethod, tt.method)
			}
			if gotBody != tt.wantBody {
				t.Errorf("body = %q, want %q", gotBody, tt.wantBody)
			}
			if gotCT != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", gotCT)
			}
			if gotAuth != "Bearer t" {
				t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer t")
			}
		})
	}
}

func TestRequest_DecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{"server_id":7}}`))
	}))
	defer srv.Close()

	var out struct {
		Success bool `json:"success"`
		Data    struct {
			ServerID int `json:"server_id"`
		} `json:"data"`
	}
	c := newTestClient(srv.URL)
	if err := c.Get(context.Background(), "api/servers/7", nil, &out); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !out.Success || out.Data.ServerID != 7 {
		t.Errorf("decoded = %+v, want success with server_id 7", out)
	}
}

func TestRequest_HTTPError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"error field", http.StatusNotFound, `{"success":false,"error":"Server not found"}`, "HTTP 404: Not Found - Server not found"},
		{"message field", http.StatusBadRequest, `{"message":"bad id"}`, "HTTP 400: Bad Request - bad id"},
		{"error wins over message", http.StatusRequestTimeout, `{"error":"Request timeout","message":"Request took too long to complete"}`, "HTTP 408: Request Timeout - Request timeout"},
		{"farm core error object", http.StatusInternalServerError, `{"success":false,"error":{"code":"BMC_ERROR","message":"Power on failed"}}`, "HTTP 500: Internal Server Error - Power on failed"},
		{"non json body", http.StatusBadGateway, `<html>oops</html>`, "HTTP 502: Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := newTestClient(srv.URL).Get(context.Background(), "/api/servers/1", nil, nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.wantErr {
				t.Errorf("error = %q, want %q", err.Error(), tt.wantErr)
			}
			if !IsStatus(err, tt.status) {
				t.Errorf("IsStatus(err, %d) = false", tt.status)
			}
		})
	}
}

func TestRequest_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	err := c.Request(context.Background(), "/api/migrations/run", Options{Timeout: 50 * time.Millisecond}, nil)
	if !errors.Is(err, deadline.ErrTimeout) {
		t.Fatalf("error = %v, want ErrTimeout", err)
	}
}

func TestRequest_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	var out map[string]any
	if err := newTestClient(srv.URL).Get(context.Background(), "/api/vms/get_vms", nil, &out); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestBuildURL(t *testing.T) {
	c := New("http://gw:8080/", 0, slog.New(slog.NewTextHandler(io.Discard, nil)))

	tests := []struct {
		name     string
		endpoint string
		params   any
		want     string
	}{
		{"relative with slash", "/api/vms/1", nil, "http://gw:8080/api/vms/1"},
		{"relative without slash", "api/vms/1", nil, "http://gw:8080/api/vms/1"},
		{"absolute kept", "https://other/x", nil, "https://other/x"},
		{"params appended", "/api/vms/get_vms", map[string]string{"page": "1"}, "http://gw:8080/api/vms/get_vms?page=1"},
		{"existing query extended", "/api/vms/get_vms?a=b", url.Values{"page": {"1"}}, "http://gw:8080/api/vms/get_vms?a=b&page=1"},
		{"empty params", "/api/vms/get_vms", url.Values{}, "http://gw:8080/api/vms/get_vms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.buildURL(tt.endpoint, tt.params)
			if err != nil {
				t.Fatalf("buildURL() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("buildURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNew_DefaultTimeout(t *testing.T) {
	c := New("http://gw", 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if c.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %s, want %s", c.Timeout, DefaultTimeout)
	}
}
