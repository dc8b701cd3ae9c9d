package domain

import "math"

// PaginationParams carries page/limit values from the HTTP layer to the service layer.
// Page is 1-indexed. Limit is capped at 100 by NewPaginationParams.
type PaginationParams struct {
	// Page is the current page number, starting at 1.
	Page int
	// Limit is the maximum number of items to return.
	Limit int
}

// NewPaginationParams builds a PaginationParams from optional HTTP query params.
// Nil pointers fall back to sane defaults (page=1, limit=20).
// The limit is capped at 100 to prevent runaway listings.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: 20}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if limit != nil && *limit >= 1 {
		p.Limit = *limit
		if p.Limit > 100 {
			p.Limit = 100
		}
	}
	return p
}

// Offset returns the zero-based index of the first item on the page.
// Pages too far out to address saturate at math.MaxInt.
func (p PaginationParams) Offset() int {
	page, limit := max(p.Page, 1), max(p.Limit, 1)
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// Window returns the [start, end) bounds of the page within a slice of n
// items. Pages past the end yield the empty window [n, n).
func (p PaginationParams) Window(n int) (start, end int) {
	page, limit := max(p.Page, 1), max(p.Limit, 1)
	if page-1 > n/limit {
		return n, n
	}
	start = min((page-1)*limit, n)
	end = start + min(limit, n-start)
	return start, end
}
