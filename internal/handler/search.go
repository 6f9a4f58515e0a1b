package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"farmview-proxy/internal/search"
)

// SearchHandler exposes the structured-search encoder for debugging
// dashboard queries.
type SearchHandler struct{}

// NewSearchHandler creates a SearchHandler.
func NewSearchHandler() *SearchHandler {
	return &SearchHandler{}
}

type structureRequest struct {
	Criteria []search.Criterion `json:"criteria"`
}

type structureResponse struct {
	Structured  search.Structured `json:"structured"`
	SearchParam string            `json:"search_param"`
	Preview     string            `json:"preview"`
	Used        int               `json:"used"`
	Errors      []string          `json:"errors"`
	Warnings    []string          `json:"warnings"`
}

// Structure converts posted criteria to the structured search that would be
// sent to Farm Core. Incomplete criteria are reported but left out.
func (h *SearchHandler) Structure(c echo.Context) error {
	var req structureRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid criteria payload",
		})
	}

	var usable []search.Criterion
	for _, cr := range req.Criteria {
		if cr.Complete() {
			usable = append(usable, cr)
		}
	}

	s := search.ToStructured(usable)
	resp := structureResponse{
		Structured: s,
		Preview:    search.Preview(s),
		Used:       len(usable),
		Errors:     nonNil(search.Validate(req.Criteria)),
		Warnings:   nonNil(search.LogicWarnings(usable)),
	}
	if len(usable) > 0 {
		resp.SearchParam = s.String()
	}
	return c.JSON(http.StatusOK, resp)
}

type exampleResponse struct {
	Name    string            `json:"name"`
	Search  search.Structured `json:"search"`
	Preview string            `json:"preview"`
}

// Examples lists the canonical structured searches with their previews.
func (h *SearchHandler) Examples(c echo.Context) error {
	out := make([]exampleResponse, 0, len(search.Examples))
	for _, ex := range search.Examples {
		out = append(out, exampleResponse{
			Name:    ex.Name,
			Search:  ex.Search,
			Preview: search.Preview(ex.Search),
		})
	}
	return c.JSON(http.StatusOK, out)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
