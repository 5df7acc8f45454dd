package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"testing"

	xerrors "gymease-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ptr(s string) *string { return &s }

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Pagination
		want Pagination
	}{
		{"defaults", Pagination{}, Pagination{Page: 1, PageSize: DefaultPageSize}},
		{"negative", Pagination{Page: -3, PageSize: -1}, Pagination{Page: 1, PageSize: DefaultPageSize}},
		{"page size capped", Pagination{Page: 2, PageSize: 500}, Pagination{Page: 2, PageSize: MaxPageSize}},
		{"page capped", Pagination{Page: math.MaxInt, PageSize: MaxPageSize}, Pagination{Page: MaxPage, PageSize: MaxPageSize}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := tt.in
			p.Normalize()
			if p != tt.want {
				t.Fatalf("Normalize(%+v) = %+v, want %+v", tt.in, p, tt.want)
			}
			if p.Offset() < 0 {
				t.Fatalf("Offset() = %d, want >= 0", p.Offset())
			}
		})
	}
}

func TestPaginated(t *testing.T) {
	t.Parallel()

	items := []int{1, 2, 3, 4, 5}
	r := gin.New()
	r.GET("/items", func(c *gin.Context) {
		var p Pagination
		if err := c.ShouldBindQuery(&p); err != nil {
			BindError(c, err)
			return
		}
		Paginated(c, items, p)
	})

	tests := []struct {
		name     string
		query    string
		want     []int
		wantNext *string
		wantPrev *string
	}{
		{name: "default page", query: "", want: items},
		{name: "first page", query: "?page_size=2", want: []int{1, 2}, wantNext: ptr("/items?page=2&page_size=2")},
		{name: "middle page", query: "?page=2&page_size=2", want: []int{3, 4}, wantNext: ptr("/items?page=3&page_size=2"), wantPrev: ptr("/items?page=1&page_size=2")},
		{name: "last page", query: "?page=3&page_size=2", want: []int{5}, wantPrev: ptr("/items?page=2&page_size=2")},
		{name: "past the end", query: "?page=9&page_size=2", want: []int{}, wantPrev: ptr("/items?page=8&page_size=2")},
		{name: "huge page", query: "?page=9223372036854775807", want: []int{}, wantPrev: ptr("/items?page=" + strconv.Itoa(MaxPage-1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items"+tt.query, nil))
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
			}

			var page Page[int]
			if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if page.Count != len(items) {
				t.Errorf("count = %d, want %d", page.Count, len(items))
			}
			if !slices.Equal(page.Results, tt.want) {
				t.Errorf("results = %v, want %v", page.Results, tt.want)
			}
			if !sameLink(page.Next, tt.wantNext) {
				t.Errorf("next = %v, want %v", deref(page.Next), deref(tt.wantNext))
			}
			if !sameLink(page.Previous, tt.wantPrev) {
				t.Errorf("previous = %v, want %v", deref(page.Previous), deref(tt.wantPrev))
			}
		})
	}
}

func TestWritePageKnownTotal(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.GET("/members", func(c *gin.Context) {
		WritePage(c, []string{"a", "b"}, 45, Pagination{Page: 2, PageSize: 2})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/members?search=budi&page=2&page_size=2", nil))

	var page Page[string]
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Count != 45 || len(page.Results) != 2 {
		t.Fatalf("page = %+v", page)
	}
	if got, want := deref(page.Next), "/members?page=3&page_size=2&search=budi"; got != want {
		t.Errorf("next = %q, want %q", got, want)
	}
	if got, want := deref(page.Previous), "/members?page=1&page_size=2&search=budi"; got != want {
		t.Errorf("previous = %q, want %q", got, want)
	}
}

func TestWritePageNilResults(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.GET("/empty", func(c *gin.Context) {
		WritePage[int](c, nil, 0, Pagination{})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/empty", nil))

	want := `{"count":0,"next":null,"previous":null,"results":[]}`
	if got := w.Body.String(); got != want {
		t.Fatalf("body = %s, want %s", got, want)
	}
}

func TestFromError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{"not found", fmt.Errorf("promo 9: %w", xerrors.ErrNotFound), http.StatusNotFound, "Not found."},
		{"invalid input", xerrors.Invalid("bad date"), http.StatusBadRequest, "invalid input: bad date"},
		{"invalid state", xerrors.ErrInvalidState, http.StatusBadRequest, xerrors.ErrInvalidState.Error()},
		{"conflict", xerrors.ErrConflict, http.StatusConflict, xerrors.ErrConflict.Error()},
		{"unauthorized", xerrors.ErrUnauthorized, http.StatusUnauthorized, xerrors.ErrUnauthorized.Error()},
		{"session expired", xerrors.ErrSessionExpired, http.StatusUnauthorized, xerrors.ErrSessionExpired.Error()},
		{"forbidden", xerrors.ErrForbidden, http.StatusForbidden, "You do not have permission to perform this action."},
		{"rate limited", xerrors.ErrRateLimited, http.StatusTooManyRequests, "Request was throttled."},
		{"upstream", fmt.Errorf("register qr: %w", xerrors.ErrUpstream), http.StatusBadGateway, "Payment gateway is unavailable, try again later."},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "A server error occurred."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			FromError(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var body ErrorBody
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Detail != tt.wantDetail {
				t.Errorf("detail = %q, want %q", body.Detail, tt.wantDetail)
			}
			if !c.IsAborted() {
				t.Error("context not aborted")
			}
		})
	}
}

func TestFromErrorFieldErrors(t *testing.T) {
	t.Parallel()

	fields := xerrors.FieldErrors{}
	fields.Add("diskon_persen", "Ensure this value is less than or equal to 100.")
	err := fmt.Errorf("validate promo: %w", fields)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	FromError(c, err)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string][]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := body["diskon_persen"]; len(got) != 1 {
		t.Fatalf("body = %v", body)
	}
}

func TestIDParam(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw    string
		wantID int64
		wantOK bool
	}{
		{"42", 42, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
		{"99999999999999999999", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Params = gin.Params{{Key: "id", Value: tt.raw}}

			id, ok := IDParam(c, "id")
			if id != tt.wantID || ok != tt.wantOK {
				t.Fatalf("IDParam(%q) = %d, %v; want %d, %v", tt.raw, id, ok, tt.wantID, tt.wantOK)
			}
			if !ok && w.Code != http.StatusNotFound {
				t.Fatalf("status = %d, want 404", w.Code)
			}
		})
	}
}

func sameLink(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}
