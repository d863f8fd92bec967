package listutil

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// DefaultPerPage is the default number of rows per page.
const DefaultPerPage = 20

// PerPageOptions are the allowed rows-per-page values.
var PerPageOptions = []int{10, 20, 50, 100}

// Params are the table controls carried in a list page's query string.
type Params struct {
	Query   string // free-text search, matched case-insensitively
	Sort    string // column key; "" keeps backend order
	Desc    bool
	Page    int // 1-indexed
	PerPage int
}

// Parse reads q, sort, dir, page and per_page from a query string.
// PRE: sortable lists the column keys a table can sort by
// POST: Page >= 1, PerPage is one of PerPageOptions, Sort is sortable or ""
func Parse(q url.Values, sortable []string) Params {
	p := Params{
		Query:   strings.TrimSpace(q.Get("q")),
		Desc:    q.Get("dir") == "desc",
		Page:    1,
		PerPage: DefaultPerPage,
	}
	if s := q.Get("sort"); contains(sortable, s) {
		p.Sort = s
	}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 1 {
		p.Page = n
	}
	if n, err := strconv.Atoi(q.Get("per_page")); err == nil && containsInt(PerPageOptions, n) {
		p.PerPage = n
	}
	return p
}

// Compare orders two rows by one column; negative means a sorts first.
type Compare[T any] func(a, b T) int

// Apply filters, sorts and pages rows in memory.
// Rows are never mutated; the returned slice is a new page.
// PRE: match may be nil to disable search; columns maps sort keys to comparisons
// POST: the page respects p and PageInfo describes the filtered total
func Apply[T any](rows []T, p Params, match func(row T, query string) bool, columns map[string]Compare[T]) ([]T, PageInfo) {
	filtered := make([]T, 0, len(rows))
	needle := strings.ToLower(p.Query)
	for _, r := range rows {
		if needle == "" || match == nil || match(r, needle) {
			filtered = append(filtered, r)
		}
	}

	if cmp, ok := columns[p.Sort]; ok && cmp != nil {
		sort.SliceStable(filtered, func(i, j int) bool {
			c := cmp(filtered[i], filtered[j])
			if p.Desc {
				return c > 0
			}
			return c < 0
		})
	}

	info := NewPageInfo(p.Page, p.PerPage, len(filtered))
	end := info.Offset() + info.PerPage
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[info.Offset():end], info
}

// ContainsFold reports whether any field contains the lower-cased needle.
func ContainsFold(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

// NewPageInfo computes pagination metadata with Page clamped into range.
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	pages := (total + perPage - 1) / perPage
	if pages < 1 {
		pages = 1
	}
	page = min(max(page, 1), pages)
	return PageInfo{Page: page, PerPage: perPage, Total: total, TotalPages: pages}
}

// Offset is the index of the first row on the page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// StartRow is the 1-indexed first row shown, 0 for an empty table.
func (p PageInfo) StartRow() int {
	if p.Total == 0 {
		return 0
	}
	return p.Offset() + 1
}

// EndRow is the 1-indexed last row shown.
func (p PageInfo) EndRow() int {
	return min(p.Offset()+p.PerPage, p.Total)
}

// HasPrev reports whether a previous page exists.
func (p PageInfo) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p PageInfo) HasNext() bool { return p.Page < p.TotalPages }

// ShowPagination reports whether the controls are worth rendering.
func (p PageInfo) ShowPagination() bool {
	return p.Total > p.PerPage
}

// values encodes p back into a query string.
func (p Params) values() url.Values {
	v := url.Values{}
	if p.Query != "" {
		v.Set("q", p.Query)
	}
	if p.Sort != "" {
		v.Set("sort", p.Sort)
		if p.Desc {
			v.Set("dir", "desc")
		}
	}
	if p.Page > 1 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage != DefaultPerPage && p.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(p.PerPage))
	}
	return v
}

// SortURL links a column header: a second click on the active column flips direction.
func (p Params) SortURL(column string) string {
	next := p
	next.Page = 1
	next.Desc = p.Sort == column && !p.Desc
	next.Sort = column
	return "?" + next.values().Encode()
}

// Arrow marks the active sort column.
func (p Params) Arrow(column string) string {
	switch {
	case p.Sort != column:
		return ""
	case p.Desc:
		return " ▼"
	}
	return " ▲"
}

// PageURL links page n with the current search and sort.
func (p Params) PageURL(n int) string {
	next := p
	next.Page = n
	return "?" + next.values().Encode()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsInt(list []int, n int) bool {
	for _, v := range list {
		if v == n {
			return true
		}
	}
	return false
}
