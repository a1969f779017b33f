package offer

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carsoffer/go-cars-offers/internal/errs"
	"github.com/carsoffer/go-cars-offers/internal/model"
	"github.com/carsoffer/go-cars-offers/internal/paging"
	"github.com/carsoffer/go-cars-offers/internal/query"
	"github.com/carsoffer/go-cars-offers/internal/store"
)

// Store is what the service needs from the persistence layer.
type Store interface {
	ByID(ctx context.Context, id uuid.UUID) (*model.Offer, error)
	Insert(ctx context.Context, rec *model.Offer) (*model.Offer, error)
	Replace(ctx context.Context, rec *model.Offer) (*model.Offer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Query(ctx context.Context, plan query.Plan) ([]*model.Offer, error)
	QueryPaged(ctx context.Context, plan query.Plan) ([]*model.Offer, int, error)
}

// VehicleLookup resolves a vehicle id before an offer is attached to it. The
// vehicle store satisfies this.
type VehicleLookup interface {
	ByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error)
}

// Service is the offer facade consumed by the HTTP layer, normally through
// the cached decorator.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (Offer, error)
	ListPaged(ctx context.Context, page, pageSize int) (paging.Page[Offer], error)
	FindByCustomerName(ctx context.Context, firstName, lastName string, page, pageSize int) (paging.Page[Offer], error)
	FindByPriceRange(ctx context.Context, minPrice, maxPrice *float64, page, pageSize int) (paging.Page[Offer], error)
	Search(ctx context.Context, criteria SearchCriteria) ([]Offer, error)
	Create(ctx context.Context, in CreateInput) (Offer, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateInput) (Offer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	store    Store
	vehicles VehicleLookup
	log      *zap.Logger
}

// NewService builds the uncached offer service.
func NewService(st Store, vehicles VehicleLookup, log *zap.Logger) Service {
	return &service{store: st, vehicles: vehicles, log: log}
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (Offer, error) {
	rec, err := s.store.ByID(ctx, id)
	if err != nil {
		return Offer{}, translateOffer(err, id)
	}
	return project(rec), nil
}

func (s *service) ListPaged(ctx context.Context, page, pageSize int) (paging.Page[Offer], error) {
	if err := paging.Validate(page, pageSize); err != nil {
		return paging.Page[Offer]{}, err
	}

	plan := query.NewBuilder().
		Sort("id", true).
		Paginate(page, pageSize).
		Build()

	recs, total, err := s.store.QueryPaged(ctx, plan)
	if err != nil {
		return paging.Page[Offer]{}, err
	}
	return paging.New(projectAll(recs), total, page, pageSize), nil
}

func (s *service) FindByCustomerName(ctx context.Context, firstName, lastName string, page, pageSize int) (paging.Page[Offer], error) {
	if err := paging.Validate(page, pageSize); err != nil {
		return paging.Page[Offer]{}, err
	}
	if strings.TrimSpace(firstName) == "" && strings.TrimSpace(lastName) == "" {
		return paging.Page[Offer]{}, errs.InvalidArgument("firstName or lastName must be provided.")
	}

	plan := query.NewBuilder().
		Contains("customer_first_name", firstName).
		Contains("customer_last_name", lastName).
		Sort("id", true).
		Paginate(page, pageSize).
		Build()

	recs, total, err := s.store.QueryPaged(ctx, plan)
	if err != nil {
		return paging.Page[Offer]{}, err
	}
	return paging.New(projectAll(recs), total, page, pageSize), nil
}

func (s *service) FindByPriceRange(ctx context.Context, minPrice, maxPrice *float64, page, pageSize int) (paging.Page[Offer], error) {
	if err := paging.Validate(page, pageSize); err != nil {
		return paging.Page[Offer]{}, err
	}
	if err := validatePrices(minPrice, maxPrice); err != nil {
		return paging.Page[Offer]{}, err
	}

	s.log.Info("finding offers by price range",
		zap.Float64("minPrice", *minPrice), zap.Float64("maxPrice", *maxPrice))

	plan := query.NewBuilder().
		Between("price", *minPrice, *maxPrice).
		Sort("id", true).
		Paginate(page, pageSize).
		Build()

	recs, total, err := s.store.QueryPaged(ctx, plan)
	if err != nil {
		return paging.Page[Offer]{}, err
	}
	return paging.New(projectAll(recs), total, page, pageSize), nil
}

func (s *service) Search(ctx context.Context, criteria SearchCriteria) ([]Offer, error) {
	if err := paging.Validate(criteria.Page, criteria.PageSize); err != nil {
		return nil, err
	}
	if criteria.empty() {
		return nil, errs.InvalidArgument("At least one search parameter must be provided.")
	}

	column, err := query.OfferSortFields.Resolve(criteria.SortField)
	if err != nil {
		return nil, err
	}

	b := query.NewBuilder().
		Contains("customer_first_name", criteria.CustomerFirstName).
		Contains("customer_last_name", criteria.CustomerLastName)

	// A single supplied price bound still yields an inclusive range; the
	// missing side extends to the type's extreme so boundary values match.
	if criteria.MinPrice != nil || criteria.MaxPrice != nil {
		lower, upper := 0.0, math.MaxFloat64
		if criteria.MinPrice != nil {
			lower = *criteria.MinPrice
		}
		if criteria.MaxPrice != nil {
			upper = *criteria.MaxPrice
		}
		if lower > upper {
			return nil, errs.InvalidArgument("minPrice must be less than or equal to maxPrice.")
		}
		b.Between("price", lower, upper)
	}

	if criteria.StartDate != nil {
		b.GTE("offer_date", *criteria.StartDate)
	}
	if criteria.EndDate != nil {
		b.LTE("offer_date", *criteria.EndDate)
	}
	if criteria.StartDate != nil && criteria.EndDate != nil && criteria.StartDate.After(*criteria.EndDate) {
		return nil, errs.InvalidArgument("startDate must be before or equal to endDate.")
	}

	plan := b.Sort(column, criteria.Ascending).
		Paginate(criteria.Page, criteria.PageSize).
		Build()

	recs, err := s.store.Query(ctx, plan)
	if err != nil {
		return nil, err
	}

	s.log.Info("offer search completed", zap.Int("results", len(recs)))
	return projectAll(recs), nil
}

// Create verifies the referenced vehicle before anything is written. A
// missing vehicle reports NotFound for the vehicle, and no offer row exists
// afterwards.
func (s *service) Create(ctx context.Context, in CreateInput) (Offer, error) {
	if err := in.Validate(); err != nil {
		return Offer{}, errs.InvalidArgument(err.Error())
	}

	if _, err := s.vehicles.ByID(ctx, in.CarID); err != nil {
		return Offer{}, translateVehicle(err, in.CarID)
	}

	s.log.Info("creating offer", zap.Stringer("carId", in.CarID))

	rec, err := s.store.Insert(ctx, &model.Offer{
		CustomerFirstName: in.CustomerFirstName,
		CustomerLastName:  in.CustomerLastName,
		Price:             in.Price,
		OfferDate:         time.Now().UTC(),
		VehicleID:         in.CarID,
	})
	if err != nil {
		return Offer{}, err
	}
	return project(rec), nil
}

// Update replaces the scalar fields and, when the vehicle reference changed,
// re-validates the new vehicle exists before repointing.
func (s *service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (Offer, error) {
	if err := in.Validate(); err != nil {
		return Offer{}, errs.InvalidArgument(err.Error())
	}

	current, err := s.store.ByID(ctx, id)
	if err != nil {
		return Offer{}, translateOffer(err, id)
	}

	if current.VehicleID != in.CarID {
		if _, err := s.vehicles.ByID(ctx, in.CarID); err != nil {
			return Offer{}, translateVehicle(err, in.CarID)
		}
	}

	current.CustomerFirstName = in.CustomerFirstName
	current.CustomerLastName = in.CustomerLastName
	current.Price = in.Price
	current.VehicleID = in.CarID

	updated, err := s.store.Replace(ctx, current)
	if err != nil {
		return Offer{}, translateOffer(err, id)
	}

	s.log.Info("updated offer", zap.Stringer("id", id))
	return project(updated), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return translateOffer(err, id)
	}
	s.log.Info("deleted offer", zap.Stringer("id", id))
	return nil
}

func validatePrices(minPrice, maxPrice *float64) error {
	if minPrice == nil || maxPrice == nil {
		return errs.InvalidArgument("Prices cannot be null.")
	}
	if *minPrice <= 0 || *maxPrice <= 0 {
		return errs.InvalidArgument("Both minPrice and maxPrice must be positive numbers.")
	}
	if *minPrice > *maxPrice {
		return errs.InvalidArgument("minPrice must be less than or equal to maxPrice.")
	}
	return nil
}

func translateOffer(err error, id uuid.UUID) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return errs.NotFound("Offer", id.String())
	case errors.Is(err, store.ErrConflict):
		return errs.ConflictingUpdate("Offer", id.String())
	}
	return err
}

func translateVehicle(err error, id uuid.UUID) error {
	if errors.Is(err, store.ErrNotFound) {
		return errs.NotFound("Vehicle", id.String())
	}
	return err
}
