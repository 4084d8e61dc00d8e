// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides the shared list criteria, page envelope and
// filtering helpers used by every list endpoint and by the console fixtures.
//
// # Overview
//
// The same [Criteria] travels from a console screen to the API as query
// parameters and back into SQL or an in-memory filter. Keeping keyword and
// date-range semantics in one place guarantees that a fixture-backed screen
// filters exactly like the server does.
package pagination

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

const (
	// DefaultPageSize is the number of items per page if not specified.
	DefaultPageSize = 20
	// MaxPageSize is the upper bound for items per page.
	MaxPageSize = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1

	// DateLayout is the calendar-date format accepted for date ranges.
	DateLayout = "2006-01-02"
)

// Query parameter names.
const (
	ParamPage      = "page"
	ParamPageSize  = "pageSize"
	ParamKeyword   = "keyword"
	ParamStatus    = "status"
	ParamStartDate = "startDate"
	ParamEndDate   = "endDate"
)

var (
	// ErrInvalidPage is returned when page < 1.
	ErrInvalidPage = errors.New("pagination: page must be >= 1")
	// ErrInvalidPageSize is returned when pageSize < 1.
	ErrInvalidPageSize = errors.New("pagination: pageSize must be > 0")
	// ErrInvalidRange is returned when a range ends before it starts.
	ErrInvalidRange = errors.New("pagination: date range end precedes start")
)

// Params holds the page coordinates of a list request.
type Params struct {
	Page     int
	PageSize int
}

// Offset returns the SQL OFFSET value derived from [Page] and [PageSize]. It
// saturates at math.MaxInt instead of wrapping for very large pages.
func (p Params) Offset() int {
	if p.Page <= 1 || p.PageSize <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}

// # Date Ranges

// DateRange is an inclusive calendar range. The end bound covers the whole
// end day, so a record created at 23:59 on End is inside the range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Lower returns the first instant inside the range (start of the start day).
func (r DateRange) Lower() time.Time {
	return startOfDay(r.Start)
}

// UpperExclusive returns the first instant after the range (start of the day
// following End). SQL filters use `col < UpperExclusive()`.
func (r DateRange) UpperExclusive() time.Time {
	return startOfDay(r.End).AddDate(0, 0, 1)
}

// Contains reports whether t falls inside the inclusive range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Lower()) && t.Before(r.UpperExclusive())
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// # Criteria

// Criteria is the full set of list options a screen may send.
type Criteria struct {
	Params
	Keyword string
	Status  string
	Range   *DateRange
}

// Validate checks the page coordinates and the range ordering.
func (c Criteria) Validate() error {
	if c.Page < 1 {
		return ErrInvalidPage
	}
	if c.PageSize < 1 {
		return ErrInvalidPageSize
	}
	if c.Range != nil && c.Range.End.Before(c.Range.Start) && !sameDay(c.Range.Start, c.Range.End) {
		return ErrInvalidRange
	}
	return nil
}

// WithDefaults fills missing page coordinates and clamps PageSize.
func (c Criteria) WithDefaults() Criteria {
	if c.Page < 1 {
		c.Page = DefaultPage
	}
	if c.PageSize < 1 {
		c.PageSize = DefaultPageSize
	}
	if c.PageSize > MaxPageSize {
		c.PageSize = MaxPageSize
	}
	c.Keyword = strings.TrimSpace(c.Keyword)
	return c
}

// Values encodes the criteria as URL query parameters.
func (c Criteria) Values() url.Values {
	values := url.Values{}
	values.Set(ParamPage, strconv.Itoa(c.Page))
	values.Set(ParamPageSize, strconv.Itoa(c.PageSize))
	if c.Keyword != "" {
		values.Set(ParamKeyword, c.Keyword)
	}
	if c.Status != "" {
		values.Set(ParamStatus, c.Status)
	}
	if c.Range != nil {
		values.Set(ParamStartDate, c.Range.Start.Format(DateLayout))
		values.Set(ParamEndDate, c.Range.End.Format(DateLayout))
	}
	return values
}

// MatchesTime reports whether t satisfies the optional range.
func (c Criteria) MatchesTime(t time.Time) bool {
	return c.Range == nil || c.Range.Contains(t)
}

// MatchesStatus reports whether status satisfies the optional status filter.
func (c Criteria) MatchesStatus(status string) bool {
	return c.Status == "" || c.Status == status
}

// MatchesKeyword reports whether any of fields contains the keyword.
func (c Criteria) MatchesKeyword(fields ...string) bool {
	return MatchKeyword(c.Keyword, fields...)
}

// # Request Parsing

// FromRequest parses list criteria from an HTTP request's query string.
//
// # Clamping
//
// Missing or malformed page values fall back to [DefaultPage] and
// [DefaultPageSize]; an oversized pageSize is clamped to [MaxPageSize].
// Malformed dates are reported as an error because silently dropping a
// filter would return the wrong rows.
func FromRequest(r *http.Request) (Criteria, error) {
	query := r.URL.Query()

	criteria := Criteria{
		Params: Params{
			Page:     parseIntParam(query, ParamPage, DefaultPage),
			PageSize: parseIntParam(query, ParamPageSize, DefaultPageSize),
		},
		Keyword: query.Get(ParamKeyword),
		Status:  query.Get(ParamStatus),
	}

	rawStart, rawEnd := query.Get(ParamStartDate), query.Get(ParamEndDate)
	if rawStart != "" || rawEnd != "" {
		dateRange, err := ParseRange(rawStart, rawEnd)
		if err != nil {
			return Criteria{}, err
		}
		criteria.Range = dateRange
	}

	criteria = criteria.WithDefaults()
	return criteria, criteria.Validate()
}

// ParseRange builds a [DateRange] from two date strings. Either bound may be
// omitted; a missing start means "since the epoch" and a missing end means
// "through today".
func ParseRange(rawStart, rawEnd string) (*DateRange, error) {
	dateRange := &DateRange{Start: time.Unix(0, 0).UTC(), End: time.Now().UTC()}

	if rawStart != "" {
		start, err := ParseDate(rawStart)
		if err != nil {
			return nil, err
		}
		dateRange.Start = start
	}

	if rawEnd != "" {
		end, err := ParseDate(rawEnd)
		if err != nil {
			return nil, err
		}
		dateRange.End = end
	}

	return dateRange, nil
}

// ParseDate accepts YYYY-MM-DD or RFC 3339.
func ParseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("pagination: invalid date %q", raw)
	}
	return t, nil
}

// parseIntParam parses a single integer query parameter with a fallback default.
func parseIntParam(query url.Values, key string, defaultVal int) int {
	raw := query.Get(key)
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}

	return n
}

func sameDay(a, b time.Time) bool {
	return startOfDay(a).Equal(startOfDay(b))
}

// # Page Envelope

// Page is the list payload returned inside the response envelope.
type Page[T any] struct {
	List     []T `json:"list"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// NewPage wraps one page of items with its coordinates. A nil list is
// replaced by an empty one so the JSON payload is always an array.
func NewPage[T any](list []T, total int, params Params) Page[T] {
	if list == nil {
		list = []T{}
	}
	return Page[T]{List: list, Total: total, Page: params.Page, PageSize: params.PageSize}
}

// TotalPages is the number of pages needed for Total items.
func (p Page[T]) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	pages := p.Total / p.PageSize
	if p.Total%p.PageSize != 0 {
		pages++
	}
	return pages
}

// Slice returns one page of an already filtered, ordered slice.
func Slice[T any](items []T, params Params) Page[T] {
	start := min(params.Offset(), len(items))
	end := start + min(max(params.PageSize, 0), len(items)-start)

	page := make([]T, end-start)
	copy(page, items[start:end])
	return NewPage(page, len(items), params)
}

// # Keyword Matching

// MatchKeyword reports whether any field contains keyword, comparing with
// Unicode case folding. An empty keyword matches everything.
func MatchKeyword(keyword string, fields ...string) bool {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return true
	}

	folder := cases.Fold()
	needle := folder.String(keyword)
	for _, field := range fields {
		if strings.Contains(folder.String(field), needle) {
			return true
		}
	}
	return false
}

// LikePattern converts a keyword into an ILIKE pattern with escaped wildcards.
func LikePattern(keyword string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.TrimSpace(keyword)) + "%"
}
