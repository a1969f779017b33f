package offer

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carsoffer/go-cars-offers/cache"
	"github.com/carsoffer/go-cars-offers/internal/errs"
	"github.com/carsoffer/go-cars-offers/internal/paging"
)

// Cache names, doubling as key prefixes in the registry.
const (
	CacheByID = "offer-by-id"
	CacheList = "offer-list"
)

// VehicleCacheInvalidator is implemented by the cached vehicle service. Every
// offer mutation changes what the owning vehicle's nested-offers projection
// should show, so that cache entry must drop too.
type VehicleCacheInvalidator interface {
	InvalidateWithOffers(ctx context.Context, vehicleID uuid.UUID) error
	InvalidateAllWithOffers(ctx context.Context) error
}

// CachedService decorates Service with read-through caching for point
// lookups and the plain paged list. Finders and the criteria search stay
// uncached; their tuples vary too much to be worth tracking.
type CachedService struct {
	base       Service
	cache      cache.CacheService
	keys       *cache.KeyRegistry
	serializer cache.KeySerializer
	vehicles   VehicleCacheInvalidator
	log        *zap.Logger
}

// NewCachedService builds the caching decorator over base.
func NewCachedService(base Service, cs cache.CacheService, keys *cache.KeyRegistry, serializer cache.KeySerializer, log *zap.Logger) *CachedService {
	return &CachedService{
		base:       base,
		cache:      cs,
		keys:       keys,
		serializer: serializer,
		log:        log,
	}
}

// SetVehicleInvalidator wires the vehicle-side invalidation hook during
// container assembly.
func (c *CachedService) SetVehicleInvalidator(inv VehicleCacheInvalidator) {
	c.vehicles = inv
}

func (c *CachedService) GetByID(ctx context.Context, id uuid.UUID) (Offer, error) {
	key := c.serializer.SerializeKey(CacheByID, id)
	return cache.GetOrFetchTracked(ctx, c.cache, c.keys, key, func(ctx context.Context) (Offer, error) {
		return c.base.GetByID(ctx, id)
	})
}

// ListPaged caches a page keyed by its (page, pageSize) coordinates.
func (c *CachedService) ListPaged(ctx context.Context, page, pageSize int) (paging.Page[Offer], error) {
	key := c.serializer.SerializeKey(CacheList, page, pageSize)
	return cache.GetOrFetchTracked(ctx, c.cache, c.keys, key, func(ctx context.Context) (paging.Page[Offer], error) {
		return c.base.ListPaged(ctx, page, pageSize)
	})
}

func (c *CachedService) FindByCustomerName(ctx context.Context, firstName, lastName string, page, pageSize int) (paging.Page[Offer], error) {
	return c.base.FindByCustomerName(ctx, firstName, lastName, page, pageSize)
}

func (c *CachedService) FindByPriceRange(ctx context.Context, minPrice, maxPrice *float64, page, pageSize int) (paging.Page[Offer], error) {
	return c.base.FindByPriceRange(ctx, minPrice, maxPrice, page, pageSize)
}

func (c *CachedService) Search(ctx context.Context, criteria SearchCriteria) ([]Offer, error) {
	return c.base.Search(ctx, criteria)
}

// Create clears both offer caches wholesale and drops the owning vehicle's
// nested-offers entry.
func (c *CachedService) Create(ctx context.Context, in CreateInput) (Offer, error) {
	o, err := c.base.Create(ctx, in)
	if err != nil {
		return Offer{}, err
	}

	c.invalidate(ctx,
		c.clearPrefix(CacheByID),
		c.clearPrefix(CacheList),
	)
	c.invalidateVehicle(ctx, o.CarID)
	return o, nil
}

// Update drops the offer's point entry and the whole list cache. The update
// may have repointed the offer at a different vehicle, so every nested-offers
// entry is cleared; a targeted pair (old and new vehicle) would need the
// pre-update state, which a conflicting update cannot reliably report. The
// invalidation also runs when the replace lost an optimistic-concurrency
// race.
func (c *CachedService) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (Offer, error) {
	o, err := c.base.Update(ctx, id, in)
	if err != nil && !errs.IsConflictingUpdate(err) {
		return Offer{}, err
	}

	c.invalidate(ctx,
		c.clearKey(CacheByID, id),
		c.clearPrefix(CacheList),
	)
	if c.vehicles != nil {
		if verr := c.vehicles.InvalidateAllWithOffers(ctx); verr != nil {
			c.log.Warn("vehicle cache invalidation failed", zap.Error(verr))
		}
	}
	if err != nil {
		return Offer{}, err
	}
	return o, nil
}

// Delete reads the offer first to learn which vehicle's nested-offers entry
// to drop, then deletes and invalidates.
func (c *CachedService) Delete(ctx context.Context, id uuid.UUID) error {
	current, err := c.base.GetByID(cache.WithBypass(ctx), id)
	if err != nil {
		return err
	}

	if err := c.base.Delete(ctx, id); err != nil {
		return err
	}

	c.invalidate(ctx,
		c.clearKey(CacheByID, id),
		c.clearPrefix(CacheList),
	)
	c.invalidateVehicle(ctx, current.CarID)
	return nil
}

// InvalidateAllOffers clears both offer caches. Called by the cached vehicle
// service after a vehicle deletion cascades over its offers.
func (c *CachedService) InvalidateAllOffers(ctx context.Context) error {
	if err := c.keys.InvalidatePrefix(ctx, c.cache, CacheByID+cache.KeySeparator); err != nil {
		return err
	}
	return c.keys.InvalidatePrefix(ctx, c.cache, CacheList+cache.KeySeparator)
}

func (c *CachedService) invalidateVehicle(ctx context.Context, vehicleID uuid.UUID) {
	if c.vehicles == nil {
		return
	}
	if err := c.vehicles.InvalidateWithOffers(ctx, vehicleID); err != nil {
		c.log.Warn("vehicle cache invalidation failed", zap.Error(err))
	}
}

func (c *CachedService) clearKey(name string, id uuid.UUID) func(context.Context) error {
	return func(ctx context.Context) error {
		return c.keys.InvalidateKey(ctx, c.cache, c.serializer.SerializeKey(name, id))
	}
}

func (c *CachedService) clearPrefix(name string) func(context.Context) error {
	return func(ctx context.Context) error {
		return c.keys.InvalidatePrefix(ctx, c.cache, name+cache.KeySeparator)
	}
}

func (c *CachedService) invalidate(ctx context.Context, steps ...func(context.Context) error) {
	for _, step := range steps {
		if err := step(ctx); err != nil {
			c.log.Warn("cache invalidation failed", zap.Error(err))
		}
	}
}
