package vehicle

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carsoffer/go-cars-offers/cache"
	"github.com/carsoffer/go-cars-offers/internal/errs"
	"github.com/carsoffer/go-cars-offers/internal/paging"
)

// Cache names. Each doubles as the key prefix selecting every entry of that
// cache in the key registry.
const (
	CacheByID       = "vehicle-by-id"
	CacheWithOffers = "vehicle-with-offers-by-id"
	CacheSearch     = "vehicle-search"
)

// OfferCacheInvalidator is implemented by the cached offer service. Deleting
// a vehicle cascades to its offers at the store level, so the offer caches
// must drop their entries too.
type OfferCacheInvalidator interface {
	InvalidateAllOffers(ctx context.Context) error
}

// CachedService decorates Service with read-through caching for the point
// lookups and the criteria search. List and finder pages are not cached;
// their result sets shift with every mutation and the criteria cache already
// covers the expensive path.
type CachedService struct {
	base       Service
	cache      cache.CacheService
	keys       *cache.KeyRegistry
	serializer cache.KeySerializer
	offers     OfferCacheInvalidator
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

// SetOfferInvalidator wires the offer-side invalidation hook. Called once
// during container assembly; the two cached services reference each other.
func (c *CachedService) SetOfferInvalidator(inv OfferCacheInvalidator) {
	c.offers = inv
}

func (c *CachedService) GetByID(ctx context.Context, id uuid.UUID) (Vehicle, error) {
	key := c.serializer.SerializeKey(CacheByID, id)
	return cache.GetOrFetchTracked(ctx, c.cache, c.keys, key, func(ctx context.Context) (Vehicle, error) {
		return c.base.GetByID(ctx, id)
	})
}

func (c *CachedService) GetWithOffers(ctx context.Context, id uuid.UUID) (VehicleWithOffers, error) {
	key := c.serializer.SerializeKey(CacheWithOffers, id)
	return cache.GetOrFetchTracked(ctx, c.cache, c.keys, key, func(ctx context.Context) (VehicleWithOffers, error) {
		return c.base.GetWithOffers(ctx, id)
	})
}

func (c *CachedService) ListPaged(ctx context.Context, page, pageSize int) (paging.Page[Vehicle], error) {
	return c.base.ListPaged(ctx, page, pageSize)
}

func (c *CachedService) FindByBrandAndModel(ctx context.Context, brand, mdl string, page, pageSize int) (paging.Page[Vehicle], error) {
	return c.base.FindByBrandAndModel(ctx, brand, mdl, page, pageSize)
}

func (c *CachedService) FindByYearRange(ctx context.Context, startYear, endYear, page, pageSize int) (paging.Page[Vehicle], error) {
	return c.base.FindByYearRange(ctx, startYear, endYear, page, pageSize)
}

// Search caches by the full criteria tuple. Any vehicle mutation clears the
// whole cache; there is no way to know which tuples a changed row affects.
func (c *CachedService) Search(ctx context.Context, criteria SearchCriteria) ([]Vehicle, error) {
	key := c.serializer.SerializeKey(CacheSearch, criteria)
	return cache.GetOrFetchTracked(ctx, c.cache, c.keys, key, func(ctx context.Context) ([]Vehicle, error) {
		return c.base.Search(ctx, criteria)
	})
}

// Create inserts and then clears the point cache wholesale. A negative entry
// for the new id may exist from a lookup before the insert; clearing the
// prefix removes it along with everything else.
func (c *CachedService) Create(ctx context.Context, in CreateInput) (Vehicle, error) {
	v, err := c.base.Create(ctx, in)
	if err != nil {
		return Vehicle{}, err
	}

	c.invalidate(ctx,
		c.clearPrefix(CacheByID),
		c.clearPrefix(CacheSearch),
	)
	return v, nil
}

// Update invalidates the id's point entries and clears the search cache. The
// invalidation also runs when the replace lost an optimistic-concurrency
// race: the cache must not keep serving the pre-conflict value.
func (c *CachedService) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (Vehicle, error) {
	v, err := c.base.Update(ctx, id, in)
	if err != nil && !errs.IsConflictingUpdate(err) {
		return Vehicle{}, err
	}

	c.invalidate(ctx,
		c.clearKey(CacheByID, id),
		c.clearKey(CacheWithOffers, id),
		c.clearPrefix(CacheSearch),
	)
	if err != nil {
		return Vehicle{}, err
	}
	return v, nil
}

// Delete removes the vehicle and, because the store cascades to its offers,
// also clears the offer caches through the injected hook.
func (c *CachedService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.base.Delete(ctx, id); err != nil {
		return err
	}

	c.invalidate(ctx,
		c.clearKey(CacheByID, id),
		c.clearKey(CacheWithOffers, id),
		c.clearPrefix(CacheSearch),
	)
	if c.offers != nil {
		if err := c.offers.InvalidateAllOffers(ctx); err != nil {
			c.log.Warn("offer cache invalidation failed", zap.Error(err))
		}
	}
	return nil
}

// InvalidateWithOffers drops the nested-offers entry for one vehicle. Called
// by the cached offer service when an offer mutation touches that vehicle.
func (c *CachedService) InvalidateWithOffers(ctx context.Context, vehicleID uuid.UUID) error {
	return c.keys.InvalidateKey(ctx, c.cache, c.serializer.SerializeKey(CacheWithOffers, vehicleID))
}

// InvalidateAllWithOffers clears every nested-offers entry. Used when the
// affected vehicle cannot be pinned down to one id.
func (c *CachedService) InvalidateAllWithOffers(ctx context.Context) error {
	return c.keys.InvalidatePrefix(ctx, c.cache, CacheWithOffers+cache.KeySeparator)
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
