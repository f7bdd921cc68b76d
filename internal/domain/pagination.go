package domain

import "math"

// PaginationParams holds page-number pagination parameters for list queries.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset returns the row offset for the current page: (Page - 1) * PageSize, never negative.
// A product too large for an int saturates at math.MaxInt.
func (p PaginationParams) Offset() int {
	if p.Page < 1 || p.PageSize < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}

// Limit returns the page size as a row limit.
func (p PaginationParams) Limit() int {
	return p.PageSize
}

// Window returns the [start, end) slice bounds of this page within total items.
func (p PaginationParams) Window(total int) (start, end int) {
	start = min(p.Offset(), total)
	end = min(start+p.PageSize, total)
	return start, end
}
