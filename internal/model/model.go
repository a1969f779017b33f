// Package model holds the storage representation of the two entities and the
// schema bootstrap. Projections returned to callers live with the service
// facades; these records are what the Entity Store persists.
package model

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Vehicle is the stored form of a vehicle. It owns zero or more Offers;
// deleting a vehicle deletes its offers.
type Vehicle struct {
	bun.BaseModel `bun:"table:vehicles,alias:v"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	Brand     string    `bun:"brand,notnull"`
	Model     string    `bun:"model,notnull"`
	Year      int       `bun:"year,notnull"`
	Color     string    `bun:"color,notnull"`
	FuelKind  FuelKind  `bun:"fuel_kind,notnull"`
	VIN       string    `bun:"vin,notnull,unique"`
	Version   int64     `bun:"version,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,nullzero"`

	Offers []*Offer `bun:"rel:has-many,join:id=vehicle_id"`
}

// Offer is the stored form of a purchase offer against one vehicle.
type Offer struct {
	bun.BaseModel `bun:"table:offers,alias:o"`

	ID                uuid.UUID  `bun:"id,pk,type:uuid"`
	CustomerFirstName string     `bun:"customer_first_name,notnull"`
	CustomerLastName  string     `bun:"customer_last_name,notnull"`
	Price             float64    `bun:"price,notnull"`
	OfferDate         time.Time  `bun:"offer_date,notnull"`
	LastModified      *time.Time `bun:"last_modified,nullzero"`
	VehicleID         uuid.UUID  `bun:"vehicle_id,notnull,type:uuid"`
	Version           int64      `bun:"version,notnull"`

	Vehicle *Vehicle `bun:"rel:belongs-to,join:vehicle_id=id"`
}

// CreateSchema creates the tables and indexes for both entities. Intended for
// bootstrap and tests; production schema evolution is out of scope.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	models := []any{(*Vehicle)(nil), (*Offer)(nil)}
	for _, m := range models {
		if _, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}

	indexes := []struct {
		name    string
		model   any
		columns []string
	}{
		{"idx_vehicle_brand_model", (*Vehicle)(nil), []string{"brand", "model"}},
		{"idx_vehicle_year", (*Vehicle)(nil), []string{"year"}},
		{"idx_offer_price", (*Offer)(nil), []string{"price"}},
		{"idx_offer_vehicle_id", (*Offer)(nil), []string{"vehicle_id"}},
		{"idx_offer_customer_name", (*Offer)(nil), []string{"customer_first_name", "customer_last_name"}},
	}
	for _, idx := range indexes {
		q := db.NewCreateIndex().Model(idx.model).Index(idx.name).IfNotExists()
		for _, col := range idx.columns {
			q = q.Column(col)
		}
		if _, err := q.Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
