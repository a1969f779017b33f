// Package offer implements the offer service: validated CRUD against a
// referenced vehicle, paged finders, criteria search, and the cached
// decorator coordinating the offer caches with the vehicle-side nested cache.
package offer

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"github.com/carsoffer/go-cars-offers/internal/model"
)

// Offer is the caller-facing projection of a stored offer.
type Offer struct {
	ID                uuid.UUID  `json:"id"`
	CustomerFirstName string     `json:"customerFirstName"`
	CustomerLastName  string     `json:"customerLastName"`
	Price             float64    `json:"price"`
	OfferDate         time.Time  `json:"offerDate"`
	LastModified      *time.Time `json:"lastModified,omitempty"`
	CarID             uuid.UUID  `json:"carId"`
}

// CreateInput carries the fields for a new offer.
type CreateInput struct {
	CustomerFirstName string    `json:"customerFirstName"`
	CustomerLastName  string    `json:"customerLastName"`
	Price             float64   `json:"price"`
	CarID             uuid.UUID `json:"carId"`
}

// Validate checks the field-level constraints. Customer names are letters
// only.
func (in CreateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.CustomerFirstName, validation.Required, is.Alpha),
		validation.Field(&in.CustomerLastName, validation.Required, is.Alpha),
		validation.Field(&in.Price, validation.Required, validation.Min(0.01)),
		validation.Field(&in.CarID, validation.By(requiredUUID)),
	)
}

// UpdateInput carries the replacement fields for an existing offer. CarID may
// repoint the offer at a different vehicle.
type UpdateInput struct {
	CustomerFirstName string    `json:"customerFirstName"`
	CustomerLastName  string    `json:"customerLastName"`
	Price             float64   `json:"price"`
	CarID             uuid.UUID `json:"carId"`
}

// Validate checks the field-level constraints.
func (in UpdateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.CustomerFirstName, validation.Required, is.Alpha),
		validation.Field(&in.CustomerLastName, validation.Required, is.Alpha),
		validation.Field(&in.Price, validation.Required, validation.Min(0.01)),
		validation.Field(&in.CarID, validation.By(requiredUUID)),
	)
}

func requiredUUID(value any) error {
	id, _ := value.(uuid.UUID)
	if id == uuid.Nil {
		return validation.NewError("validation_required", "cannot be blank")
	}
	return nil
}

func project(rec *model.Offer) Offer {
	return Offer{
		ID:                rec.ID,
		CustomerFirstName: rec.CustomerFirstName,
		CustomerLastName:  rec.CustomerLastName,
		Price:             rec.Price,
		OfferDate:         rec.OfferDate,
		LastModified:      rec.LastModified,
		CarID:             rec.VehicleID,
	}
}

func projectAll(recs []*model.Offer) []Offer {
	out := make([]Offer, 0, len(recs))
	for _, rec := range recs {
		out = append(out, project(rec))
	}
	return out
}
