// Package di assembles the application graph: cache service, key registry,
// stores, services, and the cached decorators with their mutual invalidation
// hooks.
package di

import (
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/carsoffer/go-cars-offers/cache"
	"github.com/carsoffer/go-cars-offers/internal/offer"
	"github.com/carsoffer/go-cars-offers/internal/store"
	"github.com/carsoffer/go-cars-offers/internal/vehicle"
)

// Interface satisfaction checks for the cross-service invalidation hooks.
var (
	_ offer.VehicleCacheInvalidator = (*vehicle.CachedService)(nil)
	_ vehicle.OfferCacheInvalidator = (*offer.CachedService)(nil)
	_ vehicle.Service               = (*vehicle.CachedService)(nil)
	_ offer.Service                 = (*offer.CachedService)(nil)
)

// Container holds singleton instances of every wired component.
type Container struct {
	cacheService  cache.CacheService
	keyRegistry   *cache.KeyRegistry
	keySerializer cache.KeySerializer

	vehicleStore *store.VehicleStore
	offerStore   *store.OfferStore

	vehicles *vehicle.CachedService
	offers   *offer.CachedService
}

// NewContainer wires the full graph over db using the given cache
// configuration. The two cached services are cross-linked so offer mutations
// invalidate the vehicle's nested-offers cache and vehicle deletions clear
// the offer caches.
func NewContainer(db *bun.DB, cfg cache.Config, log *zap.Logger) (*Container, error) {
	cacheService, err := cache.NewCacheService(cfg)
	if err != nil {
		return nil, err
	}

	registry := cache.NewKeyRegistry()
	serializer := cache.NewDefaultKeySerializer()

	vehicleStore := store.NewVehicleStore(db)
	offerStore := store.NewOfferStore(db)

	vehicles := vehicle.NewCachedService(
		vehicle.NewService(vehicleStore, log.Named("vehicle")),
		cacheService, registry, serializer, log.Named("vehicle-cache"),
	)
	offers := offer.NewCachedService(
		offer.NewService(offerStore, vehicleStore, log.Named("offer")),
		cacheService, registry, serializer, log.Named("offer-cache"),
	)

	vehicles.SetOfferInvalidator(offers)
	offers.SetVehicleInvalidator(vehicles)

	return &Container{
		cacheService:  cacheService,
		keyRegistry:   registry,
		keySerializer: serializer,
		vehicleStore:  vehicleStore,
		offerStore:    offerStore,
		vehicles:      vehicles,
		offers:        offers,
	}, nil
}

// NewContainerWithDefaults wires the graph with the default cache settings.
func NewContainerWithDefaults(db *bun.DB, log *zap.Logger) (*Container, error) {
	return NewContainer(db, cache.DefaultConfig(), log)
}

// Vehicles returns the cached vehicle service.
func (c *Container) Vehicles() vehicle.Service { return c.vehicles }

// Offers returns the cached offer service.
func (c *Container) Offers() offer.Service { return c.offers }

// CacheService returns the shared cache backend.
func (c *Container) CacheService() cache.CacheService { return c.cacheService }

// KeyRegistry returns the shared key registry.
func (c *Container) KeyRegistry() *cache.KeyRegistry { return c.keyRegistry }

// KeySerializer returns the shared key serializer.
func (c *Container) KeySerializer() cache.KeySerializer { return c.keySerializer }

// VehicleStore returns the bun-backed vehicle store.
func (c *Container) VehicleStore() *store.VehicleStore { return c.vehicleStore }

// OfferStore returns the bun-backed offer store.
func (c *Container) OfferStore() *store.OfferStore { return c.offerStore }
