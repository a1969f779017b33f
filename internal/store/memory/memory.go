// Package memory implements the vehicle and offer stores over in-process
// maps. It mirrors the SQL stores' semantics: versioned replaces, cascade
// deletes, VIN uniqueness, and plan evaluation with the same inclusive range
// and case-insensitive contains behavior.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carsoffer/go-cars-offers/internal/model"
	"github.com/carsoffer/go-cars-offers/internal/query"
)

// Store holds both entity maps under one lock so cascade deletes stay
// atomic.
type Store struct {
	mu       sync.RWMutex
	vehicles map[uuid.UUID]*model.Vehicle
	offers   map[uuid.UUID]*model.Offer
}

// New returns an empty store.
func New() *Store {
	return &Store{
		vehicles: make(map[uuid.UUID]*model.Vehicle),
		offers:   make(map[uuid.UUID]*model.Offer),
	}
}

// Vehicles returns the vehicle view of the store.
func (s *Store) Vehicles() *VehicleStore {
	return &VehicleStore{db: s}
}

// Offers returns the offer view of the store.
func (s *Store) Offers() *OfferStore {
	return &OfferStore{db: s}
}

func cloneVehicle(v *model.Vehicle) *model.Vehicle {
	c := *v
	c.Offers = nil
	return &c
}

func cloneOffer(o *model.Offer) *model.Offer {
	c := *o
	c.Vehicle = nil
	if o.LastModified != nil {
		lm := *o.LastModified
		c.LastModified = &lm
	}
	return &c
}

func vehicleField(v *model.Vehicle, column string) (any, bool) {
	switch column {
	case "id":
		return v.ID.String(), true
	case "brand":
		return v.Brand, true
	case "model":
		return v.Model, true
	case "year":
		return v.Year, true
	case "color":
		return v.Color, true
	case "fuel_kind":
		return string(v.FuelKind), true
	case "vin":
		return v.VIN, true
	case "created_at":
		return v.CreatedAt, true
	case "updated_at":
		return v.UpdatedAt, true
	}
	return nil, false
}

func offerField(o *model.Offer, column string) (any, bool) {
	switch column {
	case "id":
		return o.ID.String(), true
	case "customer_first_name":
		return o.CustomerFirstName, true
	case "customer_last_name":
		return o.CustomerLastName, true
	case "price":
		return o.Price, true
	case "offer_date":
		return o.OfferDate, true
	case "last_modified":
		if o.LastModified == nil {
			return time.Time{}, true
		}
		return *o.LastModified, true
	case "vehicle_id":
		return o.VehicleID.String(), true
	}
	return nil, false
}

// sortRecords orders recs by the plan's sort column, falling back to
// insertion order when the plan has no ordering.
func sortRecords[T any](recs []T, plan query.Plan, field query.FieldFn[T]) {
	if plan.SortColumn == "" {
		return
	}
	sort.SliceStable(recs, func(i, j int) bool {
		a, _ := field(recs[i], plan.SortColumn)
		b, _ := field(recs[j], plan.SortColumn)
		if plan.Asc {
			return query.Compare(a, b) < 0
		}
		return query.Compare(a, b) > 0
	})
}

// window applies the plan's offset and limit to recs.
func window[T any](recs []T, plan query.Plan) []T {
	if plan.Limit <= 0 {
		return recs
	}
	if plan.Offset >= len(recs) {
		return nil
	}
	end := plan.Offset + plan.Limit
	if end > len(recs) {
		end = len(recs)
	}
	return recs[plan.Offset:end]
}
