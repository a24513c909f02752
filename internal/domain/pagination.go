package domain

// PaginationParams carries offset pagination for registration list queries.
// Page is 1-based.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Limit returns the page size to use in a LIMIT clause, never below 1.
func (p PaginationParams) Limit() int {
	if p.PageSize < 1 {
		return 1
	}
	return p.PageSize
}

// Offset returns the 0-based row offset for the current page.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}
