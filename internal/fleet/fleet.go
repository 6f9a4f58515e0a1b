// Package fleet holds typed accessors for the gateway's server, VM,
// Kubernetes and component endpoints. Reads never fail: a failed call
// yields an empty value, and callers cannot tell it from an empty fleet.
package fleet

import (
	"context"
	"net/http"
	"strconv"

	"farmview-proxy/internal/apiclient"
	"farmview-proxy/internal/model"
)

// Fleet groups the per-resource accessors over one client.
type Fleet struct {
	Servers    *Servers
	VMs        *VMs
	Kubernetes *Kubernetes
	Components *Components
}

// New returns accessors bound to c.
func New(c *apiclient.Client) *Fleet {
	return &Fleet{
		Servers:    &Servers{c: c},
		VMs:        &VMs{c: c},
		Kubernetes: &Kubernetes{c: c},
		Components: &Components{c: c},
	}
}

// Overview is a free-form summary object.
type Overview map[string]any

// fetchData returns the data member of the envelope at endpoint, or
// fallback when the call fails or data is null.
func fetchData[T any](ctx context.Context, c *apiclient.Client, endpoint string, fallback T, msg string) T {
	return apiclient.SafeCall(ctx, c.Logger, fallback, msg, func(ctx context.Context) (T, error) {
		var env model.Envelope[*T]
		if err := c.Get(ctx, endpoint, nil, &env); err != nil {
			return fallback, err
		}
		if env.Data == nil {
			return fallback, nil
		}
		return *env.Data, nil
	})
}

// send issues a write and returns the full envelope, or nil on failure.
func send[T any](ctx context.Context, c *apiclient.Client, method, endpoint string, body any, msg string) *model.Envelope[T] {
	return apiclient.SafeCall(ctx, c.Logger, (*model.Envelope[T])(nil), msg, func(ctx context.Context) (*model.Envelope[T], error) {
		var env model.Envelope[T]
		opts := apiclient.Options{Method: method, Body: body}
		if err := c.Request(ctx, endpoint, opts, &env); err != nil {
			return nil, err
		}
		return &env, nil
	})
}

func update[T any](ctx context.Context, c *apiclient.Client, endpoint string, changes map[string]any, msg string) *model.Envelope[T] {
	return send[T](ctx, c, http.MethodPut, endpoint, changes, msg)
}

func itoa(id int) string { return strconv.Itoa(id) }
