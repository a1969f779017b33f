package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/carsoffer/go-cars-offers/internal/model"
	"github.com/carsoffer/go-cars-offers/internal/query"
)

// VehicleStore persists vehicles. Point reads and the versioned replace go
// through bun directly so row-count outcomes map cleanly onto the sentinels;
// list and count operations ride the generic repository.
type VehicleStore struct {
	db   *bun.DB
	repo repository.Repository[*model.Vehicle]
}

// NewVehicleStore builds a vehicle store over db.
func NewVehicleStore(db *bun.DB) *VehicleStore {
	handlers := repository.ModelHandlers[*model.Vehicle]{
		NewRecord: func() *model.Vehicle { return &model.Vehicle{} },
		GetID: func(v *model.Vehicle) uuid.UUID {
			if v == nil {
				return uuid.Nil
			}
			return v.ID
		},
		SetID: func(v *model.Vehicle, id uuid.UUID) {
			v.ID = id
		},
		GetIdentifier: func() string { return "vin" },
	}
	return &VehicleStore{
		db:   db,
		repo: repository.NewRepository[*model.Vehicle](db, handlers),
	}
}

// ByID fetches one vehicle without its offers.
func (s *VehicleStore) ByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	rec := new(model.Vehicle)
	err := s.db.NewSelect().Model(rec).Where("v.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapInternal(err, "select vehicle by id")
	}
	return rec, nil
}

// ByIDWithOffers fetches one vehicle together with all of its offers.
func (s *VehicleStore) ByIDWithOffers(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	rec := new(model.Vehicle)
	err := s.db.NewSelect().
		Model(rec).
		Relation("Offers").
		Where("v.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapInternal(err, "select vehicle with offers")
	}
	return rec, nil
}

// Insert stores a new vehicle. A zero ID gets a fresh one; the version
// counter starts at 1.
func (s *VehicleStore) Insert(ctx context.Context, rec *model.Vehicle) (*model.Vehicle, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.Version = 1
	rec.CreatedAt = time.Now().UTC()

	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		return nil, wrapInternal(err, "insert vehicle")
	}
	return created, nil
}

// Replace overwrites every mutable column of the row whose id and version
// match rec. On zero rows it distinguishes a missing row from a stale
// version.
func (s *VehicleStore) Replace(ctx context.Context, rec *model.Vehicle) (*model.Vehicle, error) {
	rec.UpdatedAt = time.Now().UTC()

	res, err := s.db.NewUpdate().
		Model(rec).
		Set("brand = ?", rec.Brand).
		Set("model = ?", rec.Model).
		Set("year = ?", rec.Year).
		Set("color = ?", rec.Color).
		Set("fuel_kind = ?", rec.FuelKind).
		Set("vin = ?", rec.VIN).
		Set("updated_at = ?", rec.UpdatedAt).
		Set("version = ?", rec.Version+1).
		Where("v.id = ?", rec.ID).
		Where("v.version = ?", rec.Version).
		Exec(ctx)
	if err != nil {
		return nil, wrapInternal(err, "update vehicle")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, wrapInternal(err, "update vehicle rows affected")
	}
	if affected == 0 {
		exists, err := s.db.NewSelect().
			Model((*model.Vehicle)(nil)).
			Where("v.id = ?", rec.ID).
			Exists(ctx)
		if err != nil {
			return nil, wrapInternal(err, "check vehicle existence")
		}
		if !exists {
			return nil, ErrNotFound
		}
		return nil, ErrConflict
	}

	rec.Version++
	return rec, nil
}

// Delete removes a vehicle and all of its offers in one transaction.
func (s *VehicleStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*model.Offer)(nil)).
			Where("o.vehicle_id = ?", id).
			Exec(ctx); err != nil {
			return wrapInternal(err, "delete offers of vehicle")
		}

		res, err := tx.NewDelete().
			Model((*model.Vehicle)(nil)).
			Where("v.id = ?", id).
			Exec(ctx)
		if err != nil {
			return wrapInternal(err, "delete vehicle")
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return wrapInternal(err, "delete vehicle rows affected")
		}
		if affected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Query runs a plan without pagination metadata.
func (s *VehicleStore) Query(ctx context.Context, plan query.Plan) ([]*model.Vehicle, error) {
	var recs []*model.Vehicle
	err := plan.Apply(s.db.NewSelect().Model(&recs)).Scan(ctx)
	if err != nil {
		return nil, wrapInternal(err, "query vehicles")
	}
	return recs, nil
}

// QueryPaged runs a plan and also returns the total row count with the
// plan's pagination stripped.
func (s *VehicleStore) QueryPaged(ctx context.Context, plan query.Plan) ([]*model.Vehicle, int, error) {
	recs, total, err := s.repo.List(ctx, repository.SelectCriteria(plan.Apply))
	if err != nil {
		return nil, 0, wrapInternal(err, "list vehicles")
	}
	return recs, total, nil
}

// ExistsByVIN reports whether any vehicle carries the given VIN.
func (s *VehicleStore) ExistsByVIN(ctx context.Context, vin string) (bool, error) {
	count, err := s.repo.Count(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("vin = ?", vin)
	})
	if err != nil {
		return false, wrapInternal(err, "count vehicles by vin")
	}
	return count > 0, nil
}
