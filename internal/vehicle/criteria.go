package vehicle

import (
	"strings"

	"github.com/carsoffer/go-cars-offers/internal/errs"
	"github.com/carsoffer/go-cars-offers/internal/model"
)

// SearchCriteria is the validated filter/sort/pagination tuple for the
// free-form vehicle search. Construct it through NewSearchCriteria; a zero
// value bypasses the pagination checks.
type SearchCriteria struct {
	Brand     string
	Model     string
	Year      *int
	Color     string
	FuelKind  *model.FuelKind
	SortField string
	Ascending bool
	Page      int
	PageSize  int
}

// NewSearchCriteria validates the pagination parameters eagerly and defaults
// a blank sort field to id.
func NewSearchCriteria(brand, mdl string, year *int, color string, fuelKind *model.FuelKind, sortField string, ascending bool, page, pageSize int) (SearchCriteria, error) {
	if page < 0 || pageSize <= 0 {
		return SearchCriteria{}, errs.InvalidArgument("Page and size must be valid positive numbers.")
	}
	if strings.TrimSpace(sortField) == "" {
		sortField = "id"
	}
	return SearchCriteria{
		Brand:     brand,
		Model:     mdl,
		Year:      year,
		Color:     color,
		FuelKind:  fuelKind,
		SortField: sortField,
		Ascending: ascending,
		Page:      page,
		PageSize:  pageSize,
	}, nil
}

func (c SearchCriteria) empty() bool {
	return strings.TrimSpace(c.Brand) == "" &&
		strings.TrimSpace(c.Model) == "" &&
		c.Year == nil &&
		strings.TrimSpace(c.Color) == "" &&
		c.FuelKind == nil
}
