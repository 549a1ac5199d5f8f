package product

import "strconv"

// Page is one window of the catalog listing. Pages are 1-indexed.
type Page struct {
	Items       []Product `json:"items"`
	Total       int       `json:"total"`
	Page        int       `json:"page"`
	PageSize    int       `json:"page_size"`
	HasNext     bool      `json:"has_next"`
	HasPrevious bool      `json:"has_previous"`
	LastPage    int       `json:"last_page"`
}

// NewPage assembles a Page from an already-sliced item window and the total
// catalog size.
func NewPage(items []Product, total, page, pageSize int) Page {
	lastPage := total / pageSize
	if total%pageSize > 0 {
		lastPage++
	}
	return Page{
		Items:       items,
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
		HasNext:     page*pageSize < total,
		HasPrevious: page > 1,
		LastPage:    lastPage,
	}
}

// ParsePageNumber interprets a raw page query parameter. Absent, non-numeric
// or non-positive values default to page 1.
func ParsePageNumber(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
