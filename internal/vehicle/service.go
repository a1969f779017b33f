package vehicle

import (
	"context"
	"errors"
	"strings"

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
	ByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error)
	ByIDWithOffers(ctx context.Context, id uuid.UUID) (*model.Vehicle, error)
	Insert(ctx context.Context, rec *model.Vehicle) (*model.Vehicle, error)
	Replace(ctx context.Context, rec *model.Vehicle) (*model.Vehicle, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Query(ctx context.Context, plan query.Plan) ([]*model.Vehicle, error)
	QueryPaged(ctx context.Context, plan query.Plan) ([]*model.Vehicle, int, error)
	ExistsByVIN(ctx context.Context, vin string) (bool, error)
}

// Service is the vehicle facade consumed by the HTTP layer, normally through
// the cached decorator.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (Vehicle, error)
	GetWithOffers(ctx context.Context, id uuid.UUID) (VehicleWithOffers, error)
	ListPaged(ctx context.Context, page, pageSize int) (paging.Page[Vehicle], error)
	FindByBrandAndModel(ctx context.Context, brand, mdl string, page, pageSize int) (paging.Page[Vehicle], error)
	FindByYearRange(ctx context.Context, startYear, endYear, page, pageSize int) (paging.Page[Vehicle], error)
	Search(ctx context.Context, criteria SearchCriteria) ([]Vehicle, error)
	Create(ctx context.Context, in CreateInput) (Vehicle, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateInput) (Vehicle, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	store Store
	log   *zap.Logger
}

// NewService builds the uncached vehicle service.
func NewService(st Store, log *zap.Logger) Service {
	return &service{store: st, log: log}
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (Vehicle, error) {
	rec, err := s.store.ByID(ctx, id)
	if err != nil {
		return Vehicle{}, s.translate(err, id)
	}
	return project(rec), nil
}

func (s *service) GetWithOffers(ctx context.Context, id uuid.UUID) (VehicleWithOffers, error) {
	rec, err := s.store.ByIDWithOffers(ctx, id)
	if err != nil {
		return VehicleWithOffers{}, s.translate(err, id)
	}
	return projectWithOffers(rec), nil
}

func (s *service) ListPaged(ctx context.Context, page, pageSize int) (paging.Page[Vehicle], error) {
	if err := paging.Validate(page, pageSize); err != nil {
		return paging.Page[Vehicle]{}, err
	}

	plan := query.NewBuilder().
		Sort("id", true).
		Paginate(page, pageSize).
		Build()

	recs, total, err := s.store.QueryPaged(ctx, plan)
	if err != nil {
		return paging.Page[Vehicle]{}, err
	}
	return paging.New(projectAll(recs), total, page, pageSize), nil
}

func (s *service) FindByBrandAndModel(ctx context.Context, brand, mdl string, page, pageSize int) (paging.Page[Vehicle], error) {
	if err := paging.Validate(page, pageSize); err != nil {
		return paging.Page[Vehicle]{}, err
	}
	if strings.TrimSpace(brand) == "" && strings.TrimSpace(mdl) == "" {
		return paging.Page[Vehicle]{}, errs.InvalidArgument("Brand or model must be provided.")
	}

	s.log.Info("finding vehicles by brand and model",
		zap.String("brand", brand), zap.String("model", mdl))

	plan := query.NewBuilder().
		Contains("brand", brand).
		Contains("model", mdl).
		Sort("id", true).
		Paginate(page, pageSize).
		Build()

	recs, total, err := s.store.QueryPaged(ctx, plan)
	if err != nil {
		return paging.Page[Vehicle]{}, err
	}
	return paging.New(projectAll(recs), total, page, pageSize), nil
}

func (s *service) FindByYearRange(ctx context.Context, startYear, endYear, page, pageSize int) (paging.Page[Vehicle], error) {
	if err := paging.Validate(page, pageSize); err != nil {
		return paging.Page[Vehicle]{}, err
	}
	if startYear <= 0 || endYear <= 0 {
		return paging.Page[Vehicle]{}, errs.InvalidArgument("At least one of the years (startYear or endYear) must be a valid positive number.")
	}
	if startYear > endYear {
		return paging.Page[Vehicle]{}, errs.InvalidArgument("Start year must be less than or equal to end year")
	}

	s.log.Info("finding vehicles by year range",
		zap.Int("startYear", startYear), zap.Int("endYear", endYear))

	plan := query.NewBuilder().
		Between("year", startYear, endYear).
		Sort("id", true).
		Paginate(page, pageSize).
		Build()

	recs, total, err := s.store.QueryPaged(ctx, plan)
	if err != nil {
		return paging.Page[Vehicle]{}, err
	}
	return paging.New(projectAll(recs), total, page, pageSize), nil
}

func (s *service) Search(ctx context.Context, criteria SearchCriteria) ([]Vehicle, error) {
	if err := paging.Validate(criteria.Page, criteria.PageSize); err != nil {
		return nil, err
	}
	if criteria.empty() {
		return nil, errs.InvalidArgument("At least one search parameter must be provided.")
	}

	column, err := query.VehicleSortFields.Resolve(criteria.SortField)
	if err != nil {
		return nil, err
	}

	b := query.NewBuilder().
		Contains("brand", criteria.Brand).
		Contains("model", criteria.Model).
		Contains("color", criteria.Color)
	if criteria.Year != nil {
		b.GTE("year", *criteria.Year)
	}
	if criteria.FuelKind != nil {
		b.Eq("fuel_kind", string(*criteria.FuelKind))
	}
	plan := b.Sort(column, criteria.Ascending).
		Paginate(criteria.Page, criteria.PageSize).
		Build()

	recs, err := s.store.Query(ctx, plan)
	if err != nil {
		return nil, err
	}
	return projectAll(recs), nil
}

func (s *service) Create(ctx context.Context, in CreateInput) (Vehicle, error) {
	if err := in.Validate(); err != nil {
		return Vehicle{}, errs.InvalidArgument(err.Error())
	}

	exists, err := s.store.ExistsByVIN(ctx, in.VIN)
	if err != nil {
		return Vehicle{}, err
	}
	if exists {
		return Vehicle{}, errs.DuplicateKey(in.VIN)
	}

	s.log.Info("creating vehicle", zap.String("vin", in.VIN))

	rec, err := s.store.Insert(ctx, &model.Vehicle{
		Brand:    in.Brand,
		Model:    in.Model,
		Year:     in.Year,
		Color:    in.ColorName,
		FuelKind: in.FuelKind,
		VIN:      in.VIN,
	})
	if err != nil {
		// The existence check above can lose to a concurrent insert; the
		// store's uniqueness rule is the backstop.
		if errors.Is(err, store.ErrDuplicate) {
			return Vehicle{}, errs.DuplicateKey(in.VIN)
		}
		return Vehicle{}, err
	}
	return project(rec), nil
}

// Update replaces every scalar field with the provided values. The VIN stays
// as stored; the version read here guards the replace.
func (s *service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (Vehicle, error) {
	if err := in.Validate(); err != nil {
		return Vehicle{}, errs.InvalidArgument(err.Error())
	}

	current, err := s.store.ByID(ctx, id)
	if err != nil {
		return Vehicle{}, s.translate(err, id)
	}

	current.Brand = in.Brand
	current.Model = in.Model
	current.Year = in.Year
	current.Color = in.ColorName
	current.FuelKind = in.FuelKind

	updated, err := s.store.Replace(ctx, current)
	if err != nil {
		return Vehicle{}, s.translate(err, id)
	}

	s.log.Info("updated vehicle", zap.Stringer("id", id))
	return project(updated), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return s.translate(err, id)
	}
	s.log.Info("deleted vehicle", zap.Stringer("id", id))
	return nil
}

func (s *service) translate(err error, id uuid.UUID) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return errs.NotFound("Vehicle", id.String())
	case errors.Is(err, store.ErrConflict):
		return errs.ConflictingUpdate("Vehicle", id.String())
	}
	return err
}
