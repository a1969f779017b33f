package testsupport

import (
	"context"
	"testing"

	"github.com/carsoffer/go-cars-offers/internal/model"
)

func TestNewBunDBHasSchema(t *testing.T) {
	db := NewBunDB(t)
	ctx := context.Background()

	veh := NewVehicle("V1")
	if _, err := db.NewInsert().Model(veh).Exec(ctx); err != nil {
		t.Fatalf("insert vehicle: %v", err)
	}

	off := NewOffer(veh.ID, 15000)
	if _, err := db.NewInsert().Model(off).Exec(ctx); err != nil {
		t.Fatalf("insert offer: %v", err)
	}

	count, err := db.NewSelect().Model((*model.Offer)(nil)).Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestBuildersAreDistinct(t *testing.T) {
	a, b := NewVehicle("V1"), NewVehicle("V2")
	if a.ID == b.ID {
		t.Error("builders must assign fresh ids")
	}
	if a.VIN == b.VIN {
		t.Error("vin must follow the argument")
	}
}
