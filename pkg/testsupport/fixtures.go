// Package testsupport provides shared helpers for tests: an in-memory
// sqlite-backed bun database with the schema applied, and record builders for
// the two entities.
package testsupport

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/carsoffer/go-cars-offers/internal/model"
)

// NewBunDB opens an in-memory sqlite database with the schema created.
// Closing is registered as test cleanup. The connection pool is pinned to
// one connection so every query sees the same in-memory database.
func NewBunDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	if err := model.CreateSchema(context.Background(), db); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// NewVehicle builds an unsaved vehicle record with sane defaults; vin keeps
// records distinct across calls.
func NewVehicle(vin string) *model.Vehicle {
	return &model.Vehicle{
		ID:       uuid.New(),
		Brand:    "Audi",
		Model:    "A4",
		Year:     2020,
		Color:    "Blue",
		FuelKind: model.FuelDiesel,
		VIN:      vin,
	}
}

// NewOffer builds an unsaved offer record pointing at vehicleID.
func NewOffer(vehicleID uuid.UUID, price float64) *model.Offer {
	return &model.Offer{
		ID:                uuid.New(),
		CustomerFirstName: "Ana",
		CustomerLastName:  "Kovac",
		Price:             price,
		OfferDate:         time.Now().UTC(),
		VehicleID:         vehicleID,
	}
}
