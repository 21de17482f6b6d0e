package domain

import "time"

// SearchFilter narrows the payable search. Zero values mean "no restriction".
type SearchFilter struct {
	DueDate     *time.Time
	Description string
}

// SortField is a whitelisted ordering column for paginated searches.
type SortField string

const (
	SortByID          SortField = "id"
	SortByDescription SortField = "description"
	SortByAmount      SortField = "amount"
	SortByDueDate     SortField = "dueDate"
	SortByPaymentDate SortField = "paymentDate"
	SortByStatus      SortField = "status"
)

var sortFields = map[SortField]bool{
	SortByID:          true,
	SortByDescription: true,
	SortByAmount:      true,
	SortByDueDate:     true,
	SortByPaymentDate: true,
	SortByStatus:      true,
}

// IsValid reports whether f is a known sort field.
func (f SortField) IsValid() bool {
	return sortFields[f]
}

// PageRequest selects one page of a search.
type PageRequest struct {
	Page int
	Size int
	Sort SortField
	Desc bool
}

// Offset returns the number of rows to skip.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// Page is one page of accounts plus totals.
type Page struct {
	Content       []*Account
	Page          int
	Size          int
	TotalElements int64
}

// TotalPages derives the page count from the total and the page size.
func (p *Page) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.TotalElements + int64(p.Size) - 1) / int64(p.Size))
}
