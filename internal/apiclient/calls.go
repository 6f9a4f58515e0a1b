package apiclient

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/google/go-querystring/query"

	"farmview-proxy/internal/model"
	"farmview-proxy/internal/search"
)

// Default paging values.
const (
	DefaultPage    = 1
	DefaultPerPage = 15
)

// SafeCall runs fn and returns fallback instead of its error. The failure
// is logged only when msg is non-empty.
func SafeCall[T any](ctx context.Context, logger *slog.Logger, fallback T, msg string, fn func(context.Context) (T, error)) T {
	v, err := fn(ctx)
	if err != nil {
		if msg != "" && logger != nil {
			logger.Error(msg, "err", err)
		}
		return fallback
	}
	return v
}

// GetEntityByID fetches the data member of the envelope at builder(id).
// It returns nil without calling anything when id is not an integer, and
// nil on any failure.
func GetEntityByID[T any](ctx context.Context, c *Client, builder func(id int) string, id, entityName string) *T {
	n, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil {
		return nil
	}

	return SafeCall(ctx, c.logger(), (*T)(nil), fmt.Sprintf("Error fetching %s %d", entityName, n),
		func(ctx context.Context) (*T, error) {
			var env model.Envelope[*T]
			if err := c.Get(ctx, builder(n), nil, &env); err != nil {
				return nil, err
			}
			return env.Data, nil
		})
}

// PageRequest selects one page of a list endpoint.
type PageRequest struct {
	Page    int
	PerPage int
	// Filters are extra flat query parameters. Slice values are joined
	// with commas; zero scalars and empty slices are skipped.
	Filters  map[string]any
	Criteria []search.Criterion
}

type pageQuery struct {
	Page    int    `url:"page"`
	PerPage int    `url:"per_page"`
	Search  string `url:"search,omitempty"`
}

// Paginated fetches one page. Any failure yields model.EmptyPage so callers
// handle success and failure the same way.
func Paginated[T any](ctx context.Context, c *Client, endpoint string, req PageRequest, entityName string) model.Page[T] {
	if req.Page <= 0 {
		req.Page = DefaultPage
	}
	if req.PerPage <= 0 {
		req.PerPage = DefaultPerPage
	}
	logger := c.logger()

	return SafeCall(ctx, logger, model.EmptyPage[T](req.PerPage), "Failed to fetch paginated "+entityName,
		func(ctx context.Context) (model.Page[T], error) {
			params, err := PageParams(logger, req)
			if err != nil {
				return model.Page[T]{}, err
			}
			var page model.Page[T]
			if err := c.Get(ctx, endpoint, params, &page); err != nil {
				return model.Page[T]{}, err
			}
			if page.Data == nil {
				page.Data = []T{}
			}
			return page, nil
		})
}

// PageParams builds the query for req: page, per_page, the structured
// search built from the complete criteria, then filters. Criteria problems
// are logged and never fail the call.
func PageParams(logger *slog.Logger, req PageRequest) (url.Values, error) {
	q := pageQuery{Page: req.Page, PerPage: req.PerPage}

	if len(req.Criteria) > 0 {
		if problems := search.Validate(req.Criteria); len(problems) > 0 && logger != nil {
			logger.Warn("search validation errors", "errors", problems)
		}

		var valid []search.Criterion
		for _, cr := range req.Criteria {
			if cr.Complete() {
				valid = append(valid, cr)
			}
		}
		if len(valid) > 0 {
			q.Search = search.ToStructured(valid).String()
		}
	}

	values, err := query.Values(q)
	if err != nil {
		return nil, fmt.Errorf("encode page query: %w", err)
	}

	for key, v := range req.Filters {
		if s, ok := filterValue(v); ok {
			values.Set(key, s)
		}
	}
	return values, nil
}

func filterValue(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Len() == 0 {
			return "", false
		}
		parts := make([]string, rv.Len())
		for i := range rv.Len() {
			parts[i] = fmt.Sprint(rv.Index(i).Interface())
		}
		return strings.Join(parts, ","), true
	default:
		if rv.IsZero() {
			return "", false
		}
		return fmt.Sprint(v), true
	}
}
