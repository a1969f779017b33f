package offer

import (
	"strings"
	"time"

	"github.com/carsoffer/go-cars-offers/internal/errs"
)

// SearchCriteria is the validated filter/sort/pagination tuple for the
// free-form offer search.
type SearchCriteria struct {
	CustomerFirstName string
	CustomerLastName  string
	MinPrice          *float64
	MaxPrice          *float64
	StartDate         *time.Time
	EndDate           *time.Time
	SortField         string
	Ascending         bool
	Page              int
	PageSize          int
}

// NewSearchCriteria validates the pagination parameters eagerly and defaults
// a blank sort field to id.
func NewSearchCriteria(firstName, lastName string, minPrice, maxPrice *float64, startDate, endDate *time.Time, sortField string, ascending bool, page, pageSize int) (SearchCriteria, error) {
	if page < 0 || pageSize <= 0 {
		return SearchCriteria{}, errs.InvalidArgument("Page and size must be valid positive numbers.")
	}
	if strings.TrimSpace(sortField) == "" {
		sortField = "id"
	}
	return SearchCriteria{
		CustomerFirstName: firstName,
		CustomerLastName:  lastName,
		MinPrice:          minPrice,
		MaxPrice:          maxPrice,
		StartDate:         startDate,
		EndDate:           endDate,
		SortField:         sortField,
		Ascending:         ascending,
		Page:              page,
		PageSize:          pageSize,
	}, nil
}

func (c SearchCriteria) empty() bool {
	return strings.TrimSpace(c.CustomerFirstName) == "" &&
		strings.TrimSpace(c.CustomerLastName) == "" &&
		c.MinPrice == nil && c.MaxPrice == nil &&
		c.StartDate == nil && c.EndDate == nil
}
