// internal/pkg/response/response.go
package response

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	xerrors "gymease-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxPage keeps (page-1)*page_size inside an int.
	MaxPage = math.MaxInt / MaxPageSize
)

// ErrorBody is the error shape clients read the `detail` field from.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// Page is the paginated list envelope: {count, next, previous, results}.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// Pagination holds the page query parameters of a list request.
type Pagination struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// Normalize clamps the pagination values to sane bounds.
func (p *Pagination) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
}

// Offset is the number of rows skipped before the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Success sends a successful response with the payload as the body.
func Success(c *gin.Context, status int, data any) {
	if status == 0 {
		status = http.StatusOK
	}
	if data == nil {
		c.Status(status)
		return
	}
	c.JSON(status, data)
}

// Paginated slices items already in memory into one page and writes the envelope.
func Paginated[T any](c *gin.Context, items []T, p Pagination) {
	p.Normalize()

	total := len(items)
	start := min(max(p.Offset(), 0), total)
	end := start + p.PageSize
	if end > total {
		end = total
	}

	WritePage(c, items[start:end], total, p)
}

// WritePage writes one page whose total row count is already known.
func WritePage[T any](c *gin.Context, results []T, total int, p Pagination) {
	p.Normalize()
	if results == nil {
		results = []T{}
	}

	page := Page[T]{Count: total, Results: results}
	if p.Offset()+len(results) < total {
		next := pageURL(c.Request.URL, p.Page+1)
		page.Next = &next
	}
	if p.Page > 1 {
		prev := pageURL(c.Request.URL, p.Page-1)
		page.Previous = &prev
	}

	c.JSON(http.StatusOK, page)
}

func pageURL(u *url.URL, page int) string {
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	out := *u
	out.RawQuery = q.Encode()
	return out.RequestURI()
}

// Error sends a standardized error response.
func Error(c *gin.Context, code int, message string) {
	// Abort before writing so later handlers in the chain are skipped.
	c.Abort()
	c.JSON(code, ErrorBody{Detail: message})
}

// Fields sends a 400 with a field -> messages body.
func Fields(c *gin.Context, fields xerrors.FieldErrors) {
	c.Abort()
	c.JSON(http.StatusBadRequest, fields)
}

// BindError renders a gin binding failure. Validator failures become field maps,
// anything else (malformed JSON, wrong types) becomes a detail message.
func BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := xerrors.FieldErrors{}
		for _, fe := range verrs {
			fields.Add(jsonFieldName(fe), validationMessage(fe))
		}
		Fields(c, fields)
		return
	}
	Error(c, http.StatusBadRequest, "malformed request: "+err.Error())
}

// FromError maps a service error to a status code and writes it.
func FromError(c *gin.Context, err error) {
	var fields xerrors.FieldErrors
	switch {
	case errors.As(err, &fields):
		Fields(c, fields)
	case errors.Is(err, xerrors.ErrNotFound):
		Error(c, http.StatusNotFound, "Not found.")
	case errors.Is(err, xerrors.ErrInvalidInput), errors.Is(err, xerrors.ErrInvalidState):
		Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, xerrors.ErrConflict):
		Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, xerrors.ErrUnauthorized), errors.Is(err, xerrors.ErrSessionExpired):
		Unauthorized(c, err.Error())
	case errors.Is(err, xerrors.ErrForbidden):
		Forbidden(c, "You do not have permission to perform this action.")
	case errors.Is(err, xerrors.ErrRateLimited):
		Error(c, http.StatusTooManyRequests, "Request was throttled.")
	case errors.Is(err, xerrors.ErrUpstream):
		_ = c.Error(err)
		Error(c, http.StatusBadGateway, "Payment gateway is unavailable, try again later.")
	default:
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, "A server error occurred.")
	}
}

// Unauthorized sends a 401 Unauthorized response.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// Forbidden sends a 403 Forbidden response.
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// NotFound sends a 404 Not Found response.
func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Not found.")
}

func jsonFieldName(fe validator.FieldError) string {
	// The gin validator is configured to report json tag names (see app.registerValidators).
	if name := fe.Field(); name != "" {
		return name
	}
	return fe.StructField()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min", "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "oneof", "hari":
		return fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(fe.Value()))
	case "hhmm":
		return "Time has wrong format. Use HH:MM."
	case "datetime":
		return "Date has wrong format. Use YYYY-MM-DD."
	default:
		return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
	}
}

// IDParam parses a numeric path parameter. A malformed id is answered with 404,
// the same as an id that does not exist.
func IDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		NotFound(c)
		return 0, false
	}
	return id, true
}

// BoolQuery reads a true/false query flag; anything unparsable counts as false.
func BoolQuery(c *gin.Context, name string) bool {
	v, _ := strconv.ParseBool(c.Query(name))
	return v
}
