package query

import (
	"strings"

	"github.com/carsoffer/go-cars-offers/internal/errs"
)

// SortFields is a closed mapping from allowed sort-field names (snake_case)
// to the columns they order by. Anything outside the map is rejected before a
// query runs; the underlying store never sees an unchecked field name.
type SortFields map[string]string

// Resolve maps a caller-supplied sort field to a column. A blank field
// defaults to id. Input is accepted in camelCase or snake_case.
func (s SortFields) Resolve(field string) (string, error) {
	if strings.TrimSpace(field) == "" {
		return "id", nil
	}
	column, ok := s[toSnake(field)]
	if !ok {
		return "", errs.InvalidSortField(field)
	}
	return column, nil
}

// VehicleSortFields lists the sortable vehicle attributes.
var VehicleSortFields = SortFields{
	"id":         "id",
	"brand":      "brand",
	"model":      "model",
	"year":       "year",
	"color":      "color",
	"color_name": "color",
	"fuel_kind":  "fuel_kind",
	"vin":        "vin",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// OfferSortFields lists the sortable offer attributes.
var OfferSortFields = SortFields{
	"id":                  "id",
	"customer_first_name": "customer_first_name",
	"customer_last_name":  "customer_last_name",
	"price":               "price",
	"offer_date":          "offer_date",
	"last_modified":       "last_modified",
	"vehicle_id":          "vehicle_id",
}
