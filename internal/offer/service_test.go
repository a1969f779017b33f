package offer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carsoffer/go-cars-offers/internal/errs"
	"github.com/carsoffer/go-cars-offers/internal/model"
	"github.com/carsoffer/go-cars-offers/internal/query"
	"github.com/carsoffer/go-cars-offers/internal/store/memory"
)

func newTestService(t *testing.T) (Service, *memory.Store, uuid.UUID) {
	t.Helper()

	db := memory.New()
	veh, err := db.Vehicles().Insert(context.Background(), &model.Vehicle{
		Brand: "Audi", Model: "A4", Year: 2020, Color: "Blue",
		FuelKind: model.FuelDiesel, VIN: "V1",
	})
	if err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}

	return NewService(db.Offers(), db.Vehicles(), zap.NewNop()), db, veh.ID
}

func validOffer(carID uuid.UUID) CreateInput {
	return CreateInput{
		CustomerFirstName: "Ana",
		CustomerLastName:  "Kovac",
		Price:             15000,
		CarID:             carID,
	}
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	svc, _, carID := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validOffer(carID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.OfferDate.IsZero() {
		t.Error("offer date must be stamped on create")
	}
	if created.LastModified != nil {
		t.Error("last modified must be unset on create")
	}

	got, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CarID != carID || got.Price != 15000 {
		t.Errorf("unexpected projection: %+v", got)
	}
}

func TestCreateMissingVehicle(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	missing := uuid.New()
	_, err := svc.Create(ctx, validOffer(missing))
	if !errs.IsNotFound(err) {
		t.Fatalf("got %v, want NotFound", err)
	}

	var nf *errs.NotFoundError
	if !errors.As(err, &nf) || nf.Entity != "Vehicle" || nf.ID != missing.String() {
		t.Errorf("NotFound must name the vehicle: %+v", nf)
	}

	// Nothing was persisted.
	plan := query.NewBuilder().Sort("id", true).Paginate(0, 10).Build()
	_, total, err := db.Offers().QueryPaged(ctx, plan)
	if err != nil {
		t.Fatal(err)
	}
	if total != 0 {
		t.Errorf("no offer may be persisted, found %d", total)
	}
}

func TestCreateValidatesNames(t *testing.T) {
	svc, _, carID := newTestService(t)

	in := validOffer(carID)
	in.CustomerFirstName = "Ana123"
	if _, err := svc.Create(context.Background(), in); !errs.IsInvalidArgument(err) {
		t.Errorf("non-letter first name: got %v, want InvalidArgument", err)
	}

	in = validOffer(carID)
	in.Price = -5
	if _, err := svc.Create(context.Background(), in); !errs.IsInvalidArgument(err) {
		t.Errorf("negative price: got %v, want InvalidArgument", err)
	}
}

func TestUpdateRepointsVehicle(t *testing.T) {
	svc, db, carID := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validOffer(carID))
	if err != nil {
		t.Fatal(err)
	}

	other, err := db.Vehicles().Insert(ctx, &model.Vehicle{
		Brand: "BMW", Model: "M3", Year: 2021, Color: "Red",
		FuelKind: model.FuelPetrol, VIN: "V2",
	})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := svc.Update(ctx, created.ID, UpdateInput{
		CustomerFirstName: "Ana",
		CustomerLastName:  "Kovac",
		Price:             16000,
		CarID:             other.ID,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.CarID != other.ID {
		t.Errorf("carId = %s, want %s", updated.CarID, other.ID)
	}
	if updated.LastModified == nil {
		t.Error("last modified must be stamped on update")
	}
}

func TestUpdateRejectsMissingNewVehicle(t *testing.T) {
	svc, _, carID := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validOffer(carID))
	if err != nil {
		t.Fatal(err)
	}

	in := UpdateInput{
		CustomerFirstName: "Ana",
		CustomerLastName:  "Kovac",
		Price:             16000,
		CarID:             uuid.New(),
	}
	_, err = svc.Update(ctx, created.ID, in)
	if !errs.IsNotFound(err) {
		t.Fatalf("got %v, want NotFound for the new vehicle", err)
	}
	var nf *errs.NotFoundError
	if !errors.As(err, &nf) || nf.Entity != "Vehicle" {
		t.Errorf("NotFound must name the vehicle, got %+v", nf)
	}
}

func TestUpdateMissingOffer(t *testing.T) {
	svc, _, carID := newTestService(t)

	_, err := svc.Update(context.Background(), uuid.New(), UpdateInput{
		CustomerFirstName: "Ana", CustomerLastName: "Kovac", Price: 100, CarID: carID,
	})
	if !errs.IsNotFound(err) {
		t.Fatalf("got %v, want NotFound", err)
	}
	var nf *errs.NotFoundError
	if !errors.As(err, &nf) || nf.Entity != "Offer" {
		t.Errorf("NotFound must name the offer, got %+v", nf)
	}
}

func TestFindByCustomerNameRequiresAFilter(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.FindByCustomerName(context.Background(), "", "  ", 0, 10)
	if !errs.IsInvalidArgument(err) {
		t.Fatalf("got %v, want InvalidArgument", err)
	}
	if err.Error() != "firstName or lastName must be provided." {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestFindByCustomerNameContains(t *testing.T) {
	svc, _, carID := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, validOffer(carID)); err != nil {
		t.Fatal(err)
	}

	page, err := svc.FindByCustomerName(ctx, "an", "", 0, 10)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if page.TotalItems != 1 {
		t.Errorf("case-insensitive substring must match, totalItems = %d", page.TotalItems)
	}
}

func TestFindByPriceRangeValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	min, max := 10.0, 20.0
	neg := -1.0

	if _, err := svc.FindByPriceRange(ctx, nil, &max, 0, 10); !errs.IsInvalidArgument(err) {
		t.Error("nil min must fail")
	} else if err.Error() != "Prices cannot be null." {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if _, err := svc.FindByPriceRange(ctx, &neg, &max, 0, 10); !errs.IsInvalidArgument(err) {
		t.Error("negative min must fail")
	}
	if _, err := svc.FindByPriceRange(ctx, &max, &min, 0, 10); !errs.IsInvalidArgument(err) {
		t.Error("inverted range must fail")
	}
}

func TestFindByPriceRangeBoundary(t *testing.T) {
	svc, _, carID := newTestService(t)
	ctx := context.Background()

	in := validOffer(carID)
	in.Price = 100
	if _, err := svc.Create(ctx, in); err != nil {
		t.Fatal(err)
	}

	bound := 100.0
	page, err := svc.FindByPriceRange(ctx, &bound, &bound, 0, 10)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if page.TotalItems != 1 {
		t.Errorf("offer priced exactly at both bounds must match, totalItems = %d", page.TotalItems)
	}
}

func TestSearchRequiresAFilter(t *testing.T) {
	svc, _, _ := newTestService(t)

	criteria, err := NewSearchCriteria("", "", nil, nil, nil, nil, "", true, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	_, err = svc.Search(context.Background(), criteria)
	if !errs.IsInvalidArgument(err) {
		t.Fatalf("got %v, want InvalidArgument", err)
	}
	if err.Error() != "At least one search parameter must be provided." {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestSearchSinglePriceBoundExtendsRange(t *testing.T) {
	svc, _, carID := newTestService(t)
	ctx := context.Background()

	cheap := validOffer(carID)
	cheap.Price = 50
	expensive := validOffer(carID)
	expensive.Price = 5000
	if _, err := svc.Create(ctx, cheap); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, expensive); err != nil {
		t.Fatal(err)
	}

	min := 100.0
	criteria, err := NewSearchCriteria("", "", &min, nil, nil, nil, "price", true, 0, 10)
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.Search(ctx, criteria)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].Price != 5000 {
		t.Errorf("missing max bound must extend to the type max, got %+v", got)
	}
}

func TestSearchDateBounds(t *testing.T) {
	svc, db, carID := newTestService(t)
	ctx := context.Background()

	old := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	for _, at := range []time.Time{old, recent} {
		if _, err := db.Offers().Insert(ctx, &model.Offer{
			CustomerFirstName: "Ana", CustomerLastName: "Kovac",
			Price: 100, OfferDate: at, VehicleID: carID,
		}); err != nil {
			t.Fatal(err)
		}
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	criteria, err := NewSearchCriteria("", "", nil, nil, &start, nil, "offerDate", true, 0, 10)
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.Search(ctx, criteria)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || !got[0].OfferDate.Equal(recent) {
		t.Errorf("start date must act as >=, got %+v", got)
	}
}
