// Package paging provides the page envelope returned by paged list and
// search operations.
package paging

// Page holds one page of results together with totals computed against the
// same filter predicate as the items.
type Page[T any] struct {
	Items       []T `json:"items"`
	TotalItems  int `json:"totalItems"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
}

// New builds a Page for the given zero-based page number.
func New[T any](items []T, totalItems, currentPage, pageSize int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:       items,
		TotalItems:  totalItems,
		TotalPages:  totalPages(totalItems, pageSize),
		CurrentPage: currentPage,
		PageSize:    pageSize,
	}
}

func totalPages(totalItems, pageSize int) int {
	if pageSize <= 0 || totalItems <= 0 {
		return 0
	}
	return (totalItems + pageSize - 1) / pageSize
}
