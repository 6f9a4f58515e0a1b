// Package model defines shared types for the gateway and its clients.
package model

import (
	"context"
	"io"
	"net/http"
)

// ProxyRequest represents a browser request to be forwarded to Farm Core.
type ProxyRequest struct {
	Ctx context.Context
	// Method is the inbound method; routes may override it.
	Method string
	// Endpoint is the Farm Core path with parameters already substituted,
	// without a leading slash.
	Endpoint string
	// RawQuery is the inbound query string, appended unchanged.
	RawQuery  string
	Header    http.Header
	Body      io.Reader
	RequestID string
}

// ProxyResponse is a successful Farm Core response ready to be written back.
type ProxyResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
	// JSON is set when Body holds a compacted JSON document.
	JSON bool
}

// ErrorEnvelope is the body sent to the browser on every gateway failure.
type ErrorEnvelope struct {
	Success  bool   `json:"success"`
	Error    string `json:"error"`
	Message  string `json:"message"`
	Endpoint string `json:"endpoint"`
}
