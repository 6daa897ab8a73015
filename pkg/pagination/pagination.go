package pagination

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params holds the list-endpoint query contract: page/limit plus free-text
// search and an ordering field ("-" prefix means descending).
type Params struct {
	Page     int
	Limit    int
	Search   string
	Ordering string
}

// FromContext extracts list parameters from the echo context.
func FromContext(c echo.Context) Params {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{
		Page:     page,
		Limit:    limit,
		Search:   strings.TrimSpace(c.QueryParam("search")),
		Ordering: strings.TrimSpace(c.QueryParam("ordering")),
	}
}

// Offset returns the row offset for the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// OrderClause resolves the ordering parameter against an allowlist of
// sortable fields (query field -> column name) and returns a SQL ORDER BY
// expression. Unknown fields fall back to the default column.
func (p Params) OrderClause(allowed map[string]string, defaultColumn string) string {
	field := p.Ordering
	desc := strings.HasPrefix(field, "-")
	field = strings.TrimPrefix(field, "-")

	column, ok := allowed[field]
	if !ok {
		column = defaultColumn
		if p.Ordering == "" {
			desc = true
		}
	}

	if desc {
		return column + " DESC"
	}
	return column + " ASC"
}

// Response is the uniform list envelope.
type Response struct {
	Data       interface{} `json:"data"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"totalPages"`
}

func NewResponse(data interface{}, total int, p Params) *Response {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}
	return &Response{
		Data:       data,
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: totalPages,
	}
}
