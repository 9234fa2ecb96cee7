package domain

// Listing page sizes. The upcoming-event feed is paged; the past-event strip is capped by
// MaxPageSize too.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PaginationParams selects one page of the upcoming-event listing. Page is 1-based.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Normalize clamps p to a valid page: Page at least 1, PageSize in [1, MaxPageSize] with
// DefaultPageSize when unset.
func (p PaginationParams) Normalize() PaginationParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset is the number of rows before the page, for SQL OFFSET.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}
