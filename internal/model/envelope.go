package model

// Envelope is the {success, data, meta} wrapper Farm Core puts around
// resource payloads.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Meta    *Meta  `json:"meta,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Meta carries list metadata.
type Meta struct {
	Pagination Pagination `json:"pagination"`
}

// Pagination describes one page of a list endpoint.
type Pagination struct {
	CurrentPage int  `json:"current_page"`
	PerPage     int  `json:"per_page"`
	TotalCount  int  `json:"total_count"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrev     bool `json:"has_prev"`
}

// Page is a paginated list envelope.
type Page[T any] = Envelope[[]T]

// EmptyPage returns the failed-list value handed out when a paginated call
// cannot be completed. It has the same shape as a successful page.
func EmptyPage[T any](perPage int) Page[T] {
	return Page[T]{
		Success: false,
		Data:    []T{},
		Meta: &Meta{Pagination: Pagination{
			CurrentPage: 1,
			PerPage:     perPage,
		}},
	}
}
