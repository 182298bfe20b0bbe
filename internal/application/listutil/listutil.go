package listutil

import (
	"net/url"
	"strconv"
)

// PageParams carries pagination parameters parsed from a request.
type PageParams struct {
	Page    int // 1-indexed page number
	PerPage int // rows per page
}

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int // current page (1-indexed)
	PerPage    int // rows per page
	Total      int // total matching rows
	TotalPages int // ceil(Total / PerPage)
}

// DefaultPerPage is the default number of rows per page.
const DefaultPerPage = 20

// PerPageOptions are the allowed rows-per-page values.
var PerPageOptions = []int{10, 20, 50, 100, 200}

// ParsePageParams extracts page and per_page from URL query values.
// PRE: none
// POST: returns valid PageParams with defaults applied
func ParsePageParams(q url.Values) PageParams {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if !isValidPerPage(perPage) {
		perPage = DefaultPerPage
	}
	return PageParams{Page: page, PerPage: perPage}
}

// Window returns the [start, end) slice bounds for the requested page.
// PRE: p has been produced by ParsePageParams (Page >= 1, PerPage > 0)
// POST: 0 <= start <= end <= total
func Window(p PageParams, total int) (start, end int) {
	start = (p.Page - 1) * p.PerPage
	if start > total {
		start = total
	}
	end = start + p.PerPage
	if end > total {
		end = total
	}
	return start, end
}

// BuildPageInfo computes pagination metadata for a result set of size total.
// POST: TotalPages >= 1
func BuildPageInfo(p PageParams, total int) PageInfo {
	pages := (total + p.PerPage - 1) / p.PerPage
	if pages < 1 {
		pages = 1
	}
	return PageInfo{Page: p.Page, PerPage: p.PerPage, Total: total, TotalPages: pages}
}

func isValidPerPage(v int) bool {
	for _, opt := range PerPageOptions {
		if v == opt {
			return true
		}
	}
	return false
}
