package offer

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carsoffer/go-cars-offers/cache"
	"github.com/carsoffer/go-cars-offers/internal/errs"
	"github.com/carsoffer/go-cars-offers/internal/model"
	"github.com/carsoffer/go-cars-offers/internal/paging"
	"github.com/carsoffer/go-cars-offers/internal/store"
	"github.com/carsoffer/go-cars-offers/internal/store/memory"
)

// countingService wraps the real service and counts read calls so tests can
// tell cache hits from misses.
type countingService struct {
	Service
	getCalls  int
	listCalls int
}

func (c *countingService) GetByID(ctx context.Context, id uuid.UUID) (Offer, error) {
	c.getCalls++
	return c.Service.GetByID(ctx, id)
}

func (c *countingService) ListPaged(ctx context.Context, page, pageSize int) (paging.Page[Offer], error) {
	c.listCalls++
	return c.Service.ListPaged(ctx, page, pageSize)
}

type fakeVehicleInvalidator struct {
	withOffers    []uuid.UUID
	allWithOffers int
}

func (f *fakeVehicleInvalidator) InvalidateWithOffers(ctx context.Context, vehicleID uuid.UUID) error {
	f.withOffers = append(f.withOffers, vehicleID)
	return nil
}

func (f *fakeVehicleInvalidator) InvalidateAllWithOffers(ctx context.Context) error {
	f.allWithOffers++
	return nil
}

func newCachedFixture(t *testing.T) (*CachedService, *countingService, *fakeVehicleInvalidator, uuid.UUID) {
	t.Helper()

	db := memory.New()
	veh, err := db.Vehicles().Insert(context.Background(), &model.Vehicle{
		Brand: "Audi", Model: "A4", Year: 2020, Color: "Blue",
		FuelKind: model.FuelDiesel, VIN: "V1",
	})
	if err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}

	base := &countingService{Service: NewService(db.Offers(), db.Vehicles(), zap.NewNop())}

	cs, err := cache.NewCacheService(cache.Config{
		Capacity:           1000,
		NumShards:          4,
		TTL:                time.Minute,
		EvictionPercentage: 10,
	})
	if err != nil {
		t.Fatalf("cache service: %v", err)
	}

	cached := NewCachedService(base, cs, cache.NewKeyRegistry(), cache.NewDefaultKeySerializer(), zap.NewNop())
	inv := &fakeVehicleInvalidator{}
	cached.SetVehicleInvalidator(inv)
	return cached, base, inv, veh.ID
}

func TestCachedGetByIDIsIdempotent(t *testing.T) {
	cached, base, _, carID := newCachedFixture(t)
	ctx := context.Background()

	created, err := cached.Create(ctx, validOffer(carID))
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		got, err := cached.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
		if got.ID != created.ID {
			t.Fatalf("wrong offer: %+v", got)
		}
	}

	if base.getCalls != 1 {
		t.Errorf("base called %d times, want 1 (cache hit after first read)", base.getCalls)
	}
}

func TestCachedListPagedKeyedByPageCoordinates(t *testing.T) {
	cached, base, _, carID := newCachedFixture(t)
	ctx := context.Background()

	if _, err := cached.Create(ctx, validOffer(carID)); err != nil {
		t.Fatal(err)
	}
	base.listCalls = 0

	if _, err := cached.ListPaged(ctx, 0, 10); err != nil {
		t.Fatal(err)
	}
	if _, err := cached.ListPaged(ctx, 0, 10); err != nil {
		t.Fatal(err)
	}
	if base.listCalls != 1 {
		t.Errorf("same page: listCalls = %d, want 1", base.listCalls)
	}

	if _, err := cached.ListPaged(ctx, 1, 10); err != nil {
		t.Fatal(err)
	}
	if base.listCalls != 2 {
		t.Errorf("different page: listCalls = %d, want 2", base.listCalls)
	}
}

func TestCachedCreateClearsListCache(t *testing.T) {
	cached, base, _, carID := newCachedFixture(t)
	ctx := context.Background()

	if _, err := cached.Create(ctx, validOffer(carID)); err != nil {
		t.Fatal(err)
	}

	first, err := cached.ListPaged(ctx, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if first.TotalItems != 1 {
		t.Fatalf("totalItems = %d, want 1", first.TotalItems)
	}
	base.listCalls = 0

	if _, err := cached.Create(ctx, validOffer(carID)); err != nil {
		t.Fatal(err)
	}

	refreshed, err := cached.ListPaged(ctx, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if base.listCalls != 1 {
		t.Errorf("listCalls = %d, want 1 (create must clear the list cache)", base.listCalls)
	}
	if refreshed.TotalItems != 2 {
		t.Errorf("stale page served: totalItems = %d, want 2", refreshed.TotalItems)
	}
}

func TestCachedCreateNotifiesOwningVehicle(t *testing.T) {
	cached, _, inv, carID := newCachedFixture(t)

	if _, err := cached.Create(context.Background(), validOffer(carID)); err != nil {
		t.Fatal(err)
	}

	if len(inv.withOffers) != 1 || inv.withOffers[0] != carID {
		t.Errorf("vehicle invalidator calls = %v, want [%s]", inv.withOffers, carID)
	}
}

func TestCachedUpdateInvalidatesPointAndVehicleCaches(t *testing.T) {
	cached, base, inv, carID := newCachedFixture(t)
	ctx := context.Background()

	created, err := cached.Create(ctx, validOffer(carID))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := cached.GetByID(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	if base.getCalls != 1 {
		t.Fatalf("getCalls = %d, want 1", base.getCalls)
	}

	in := UpdateInput{
		CustomerFirstName: "Ana",
		CustomerLastName:  "Kovac",
		Price:             16000,
		CarID:             carID,
	}
	if _, err := cached.Update(ctx, created.ID, in); err != nil {
		t.Fatal(err)
	}

	got, err := cached.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if base.getCalls != 2 {
		t.Errorf("getCalls = %d, want 2 (update must invalidate)", base.getCalls)
	}
	if got.Price != 16000 {
		t.Errorf("read must observe the update, got %+v", got)
	}
	if inv.allWithOffers != 1 {
		t.Errorf("allWithOffers calls = %d, want 1", inv.allWithOffers)
	}
}

func TestCachedDeleteNotifiesOwningVehicle(t *testing.T) {
	cached, _, inv, carID := newCachedFixture(t)
	ctx := context.Background()

	created, err := cached.Create(ctx, validOffer(carID))
	if err != nil {
		t.Fatal(err)
	}
	inv.withOffers = nil

	if err := cached.Delete(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	if len(inv.withOffers) != 1 || inv.withOffers[0] != carID {
		t.Errorf("vehicle invalidator calls = %v, want [%s]", inv.withOffers, carID)
	}

	if _, err := cached.GetByID(ctx, created.ID); !errs.IsNotFound(err) {
		t.Errorf("got %v, want NotFound after delete", err)
	}
}

// raceCacheService delegates to the real cache service and runs a one-shot
// hook right after a fetched value is stored, before the caller can track
// the key in the registry.
type raceCacheService struct {
	cache.CacheService
	afterStore func()
}

func (r *raceCacheService) GetOrFetch(ctx context.Context, key string, fetch func(ctx context.Context) (any, error)) (any, error) {
	v, err := r.CacheService.GetOrFetch(ctx, key, fetch)
	if err == nil && r.afterStore != nil {
		hook := r.afterStore
		r.afterStore = nil
		hook()
	}
	return v, err
}

func TestCachedListPagedNotStaleWhenCreateRacesFirstRead(t *testing.T) {
	db := memory.New()
	veh, err := db.Vehicles().Insert(context.Background(), &model.Vehicle{
		Brand: "Audi", Model: "A4", Year: 2020, Color: "Blue",
		FuelKind: model.FuelDiesel, VIN: "V1",
	})
	if err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}

	base := NewService(db.Offers(), db.Vehicles(), zap.NewNop())
	cs, err := cache.NewCacheService(cache.Config{
		Capacity:           1000,
		NumShards:          4,
		TTL:                time.Minute,
		EvictionPercentage: 10,
	})
	if err != nil {
		t.Fatalf("cache service: %v", err)
	}
	race := &raceCacheService{CacheService: cs}
	cached := NewCachedService(base, race, cache.NewKeyRegistry(), cache.NewDefaultKeySerializer(), zap.NewNop())
	cached.SetVehicleInvalidator(&fakeVehicleInvalidator{})

	ctx := context.Background()
	race.afterStore = func() {
		// The create completes while the empty page sits in the cache but
		// is not yet registered, so the prefix clear cannot see it.
		if _, err := cached.Create(ctx, validOffer(veh.ID)); err != nil {
			t.Fatalf("create during read: %v", err)
		}
	}

	if _, err := cached.ListPaged(ctx, 0, 10); err != nil {
		t.Fatal(err)
	}

	page, err := cached.ListPaged(ctx, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalItems != 1 {
		t.Errorf("read after completed create: TotalItems = %d, want 1", page.TotalItems)
	}
}

// conflictOfferStore forces the versioned replace to lose its race.
type conflictOfferStore struct {
	*memory.OfferStore
	conflict bool
}

func (s *conflictOfferStore) Replace(ctx context.Context, rec *model.Offer) (*model.Offer, error) {
	if s.conflict {
		return nil, store.ErrConflict
	}
	return s.OfferStore.Replace(ctx, rec)
}

func TestCachedUpdateConflictStillInvalidates(t *testing.T) {
	db := memory.New()
	veh, err := db.Vehicles().Insert(context.Background(), &model.Vehicle{
		Brand: "Audi", Model: "A4", Year: 2020, Color: "Blue",
		FuelKind: model.FuelDiesel, VIN: "V1",
	})
	if err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}

	st := &conflictOfferStore{OfferStore: db.Offers()}
	base := &countingService{Service: NewService(st, db.Vehicles(), zap.NewNop())}
	cs, err := cache.NewCacheService(cache.Config{
		Capacity:           1000,
		NumShards:          4,
		TTL:                time.Minute,
		EvictionPercentage: 10,
	})
	if err != nil {
		t.Fatalf("cache service: %v", err)
	}
	cached := NewCachedService(base, cs, cache.NewKeyRegistry(), cache.NewDefaultKeySerializer(), zap.NewNop())
	inv := &fakeVehicleInvalidator{}
	cached.SetVehicleInvalidator(inv)
	ctx := context.Background()

	created, err := cached.Create(ctx, validOffer(veh.ID))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cached.GetByID(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	if base.getCalls != 1 {
		t.Fatalf("getCalls = %d, want 1", base.getCalls)
	}
	inv.allWithOffers = 0

	st.conflict = true
	_, err = cached.Update(ctx, created.ID, UpdateInput{
		CustomerFirstName: "Ana",
		CustomerLastName:  "Kovac",
		Price:             16000,
		CarID:             veh.ID,
	})
	if !errs.IsConflictingUpdate(err) {
		t.Fatalf("got %v, want ConflictingUpdate", err)
	}
	if inv.allWithOffers != 1 {
		t.Errorf("allWithOffers calls = %d, want 1 (conflict must still invalidate)", inv.allWithOffers)
	}

	if _, err := cached.GetByID(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	if base.getCalls != 2 {
		t.Errorf("getCalls = %d, want 2 (conflict must still drop the point entry)", base.getCalls)
	}
}

func TestInvalidateAllOffersClearsBothCaches(t *testing.T) {
	cached, base, _, carID := newCachedFixture(t)
	ctx := context.Background()

	created, err := cached.Create(ctx, validOffer(carID))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := cached.GetByID(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := cached.ListPaged(ctx, 0, 10); err != nil {
		t.Fatal(err)
	}
	base.getCalls, base.listCalls = 0, 0

	if err := cached.InvalidateAllOffers(ctx); err != nil {
		t.Fatal(err)
	}

	if _, err := cached.GetByID(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := cached.ListPaged(ctx, 0, 10); err != nil {
		t.Fatal(err)
	}
	if base.getCalls != 1 || base.listCalls != 1 {
		t.Errorf("getCalls = %d, listCalls = %d, want 1 and 1 after invalidation", base.getCalls, base.listCalls)
	}
}
