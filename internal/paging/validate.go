package paging

import "github.com/carsoffer/go-cars-offers/internal/errs"

// MaxPageSize caps how many items a single page may request.
const MaxPageSize = 100

// Validate checks pagination parameters before any query runs.
func Validate(page, pageSize int) error {
	if page < 0 || pageSize <= 0 {
		return errs.InvalidArgument("Page and size must be valid positive numbers.")
	}
	if pageSize > MaxPageSize {
		return errs.InvalidArgument("Page size too large. Maximum is 100")
	}
	return nil
}
