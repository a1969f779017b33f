// Package vehicle implements the vehicle service: validated CRUD, paged
// finders, criteria search, and the cached decorator that keeps the vehicle
// caches coherent with every mutation.
package vehicle

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/carsoffer/go-cars-offers/internal/model"
)

// Vehicle is the caller-facing projection of a stored vehicle.
type Vehicle struct {
	ID        uuid.UUID      `json:"id"`
	Brand     string         `json:"brand"`
	Model     string         `json:"model"`
	Year      int            `json:"year"`
	ColorName string         `json:"colorName"`
	FuelKind  model.FuelKind `json:"fuelKind"`
	VIN       string         `json:"vin"`
}

// OfferSummary is the nested offer projection inside VehicleWithOffers. It
// carries no vehicle reference; the parent is the vehicle it hangs off.
type OfferSummary struct {
	ID                uuid.UUID  `json:"id"`
	CustomerFirstName string     `json:"customerFirstName"`
	CustomerLastName  string     `json:"customerLastName"`
	Price             float64    `json:"price"`
	OfferDate         time.Time  `json:"offerDate"`
	LastModified      *time.Time `json:"lastModified,omitempty"`
}

// VehicleWithOffers is the projection of a vehicle plus all of its offers.
type VehicleWithOffers struct {
	Vehicle
	Offers []OfferSummary `json:"offers"`
}

// CreateInput carries the fields for a new vehicle.
type CreateInput struct {
	Brand     string         `json:"brand"`
	Model     string         `json:"model"`
	Year      int            `json:"year"`
	ColorName string         `json:"color"`
	FuelKind  model.FuelKind `json:"fuelType"`
	VIN       string         `json:"vin"`
}

// Validate checks the field-level constraints.
func (in CreateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Brand, validation.Required, validation.Length(1, 50)),
		validation.Field(&in.Model, validation.Required, validation.Length(1, 50)),
		validation.Field(&in.Year, validation.Min(1886)),
		validation.Field(&in.ColorName, validation.Required, validation.Length(1, 30)),
		validation.Field(&in.FuelKind, validation.Required, validation.By(validFuelKind)),
		validation.Field(&in.VIN, validation.Required, validation.Length(1, 50)),
	)
}

// UpdateInput carries the replacement fields for an existing vehicle. The VIN
// is immutable and absent here.
type UpdateInput struct {
	Brand     string         `json:"brand"`
	Model     string         `json:"model"`
	Year      int            `json:"year"`
	ColorName string         `json:"color"`
	FuelKind  model.FuelKind `json:"fuelType"`
}

// Validate checks the field-level constraints.
func (in UpdateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Brand, validation.Required, validation.Length(1, 50)),
		validation.Field(&in.Model, validation.Required, validation.Length(1, 50)),
		validation.Field(&in.Year, validation.Min(1886)),
		validation.Field(&in.ColorName, validation.Required, validation.Length(1, 30)),
		validation.Field(&in.FuelKind, validation.Required, validation.By(validFuelKind)),
	)
}

func validFuelKind(value any) error {
	kind, _ := value.(model.FuelKind)
	if !kind.Valid() {
		return validation.NewError("validation_fuel_kind", "must be one of PETROL, DIESEL, ELECTRIC, HYBRID")
	}
	return nil
}

func project(rec *model.Vehicle) Vehicle {
	return Vehicle{
		ID:        rec.ID,
		Brand:     rec.Brand,
		Model:     rec.Model,
		Year:      rec.Year,
		ColorName: rec.Color,
		FuelKind:  rec.FuelKind,
		VIN:       rec.VIN,
	}
}

func projectWithOffers(rec *model.Vehicle) VehicleWithOffers {
	out := VehicleWithOffers{
		Vehicle: project(rec),
		Offers:  make([]OfferSummary, 0, len(rec.Offers)),
	}
	for _, o := range rec.Offers {
		out.Offers = append(out.Offers, OfferSummary{
			ID:                o.ID,
			CustomerFirstName: o.CustomerFirstName,
			CustomerLastName:  o.CustomerLastName,
			Price:             o.Price,
			OfferDate:         o.OfferDate,
			LastModified:      o.LastModified,
		})
	}
	return out
}

func projectAll(recs []*model.Vehicle) []Vehicle {
	out := make([]Vehicle, 0, len(recs))
	for _, rec := range recs {
		out = append(out, project(rec))
	}
	return out
}
