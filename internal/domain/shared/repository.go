package shared

import (
	"time"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// Page holds paging options for list queries
type Page struct {
	Number int
	Size   int
}

// DefaultPage returns the first page with the default size
func DefaultPage() Page {
	return Page{Number: 1, Size: defaultPageSize}
}

// Normalize clamps the page number and size into their valid ranges
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	return p
}

// Offset returns the row offset for the page
func (p Page) Offset() int {
	n := p.Normalize()
	return (n.Number - 1) * n.Size
}

// DateRange bounds a listing by calendar day, both ends inclusive.
// A nil end means unbounded on that side.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// IsZero reports whether neither bound is set
func (r DateRange) IsZero() bool {
	return r.From == nil && r.To == nil
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page Page) Paginated[T] {
	page = page.Normalize()
	totalPages := int(total) / page.Size
	if int(total)%page.Size > 0 {
		totalPages++
	}
	if items == nil {
		items = []T{}
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page.Number,
		PageSize:   page.Size,
		TotalPages: totalPages,
	}
}
