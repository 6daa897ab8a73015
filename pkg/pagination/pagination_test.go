package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	rec := httptest.NewRecorder()
	return FromContext(e.NewContext(req, rec))
}

func TestFromContextDefaults(t *testing.T) {
	p := paramsFor(t, "")
	if p.Page != 1 {
		t.Errorf("page = %d, want 1", p.Page)
	}
	if p.Limit != DefaultLimit {
		t.Errorf("limit = %d, want %d", p.Limit, DefaultLimit)
	}
	if p.Offset() != 0 {
		t.Errorf("offset = %d, want 0", p.Offset())
	}
}

func TestFromContextClampsLimit(t *testing.T) {
	p := paramsFor(t, "page=3&limit=500")
	if p.Limit != MaxLimit {
		t.Errorf("limit = %d, want %d", p.Limit, MaxLimit)
	}
	if p.Offset() != 2*MaxLimit {
		t.Errorf("offset = %d, want %d", p.Offset(), 2*MaxLimit)
	}
}

func TestFromContextRejectsNonPositive(t *testing.T) {
	p := paramsFor(t, "page=-2&limit=0")
	if p.Page != 1 || p.Limit != DefaultLimit {
		t.Errorf("got page=%d limit=%d, want defaults", p.Page, p.Limit)
	}
}

func TestOrderClause(t *testing.T) {
	allowed := map[string]string{
		"name":      "full_name",
		"createdAt": "created_at",
	}

	cases := []struct {
		ordering string
		want     string
	}{
		{"name", "full_name ASC"},
		{"-name", "full_name DESC"},
		{"createdAt", "created_at ASC"},
		{"", "created_at DESC"},
		{"bogus", "created_at ASC"},
		{"-bogus", "created_at DESC"},
	}
	for _, tc := range cases {
		p := Params{Ordering: tc.ordering}
		if got := p.OrderClause(allowed, "created_at"); got != tc.want {
			t.Errorf("OrderClause(%q) = %q, want %q", tc.ordering, got, tc.want)
		}
	}
}

func TestNewResponse(t *testing.T) {
	p := Params{Page: 2, Limit: 10}
	resp := NewResponse([]string{"a"}, 25, p)
	if resp.TotalPages != 3 {
		t.Errorf("totalPages = %d, want 3", resp.TotalPages)
	}
	if resp.Total != 25 || resp.Page != 2 || resp.Limit != 10 {
		t.Errorf("unexpected envelope %+v", resp)
	}

	empty := NewResponse([]string{}, 0, p)
	if empty.TotalPages != 0 {
		t.Errorf("totalPages = %d, want 0", empty.TotalPages)
	}
}
