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

// OfferStore persists offers, mirroring the VehicleStore split between
// direct bun access and the generic repository.
type OfferStore struct {
	db   *bun.DB
	repo repository.Repository[*model.Offer]
}

// NewOfferStore builds an offer store over db.
func NewOfferStore(db *bun.DB) *OfferStore {
	handlers := repository.ModelHandlers[*model.Offer]{
		NewRecord: func() *model.Offer { return &model.Offer{} },
		GetID: func(o *model.Offer) uuid.UUID {
			if o == nil {
				return uuid.Nil
			}
			return o.ID
		},
		SetID: func(o *model.Offer, id uuid.UUID) {
			o.ID = id
		},
		GetIdentifier: func() string { return "id" },
	}
	return &OfferStore{
		db:   db,
		repo: repository.NewRepository[*model.Offer](db, handlers),
	}
}

// ByID fetches one offer.
func (s *OfferStore) ByID(ctx context.Context, id uuid.UUID) (*model.Offer, error) {
	rec := new(model.Offer)
	err := s.db.NewSelect().Model(rec).Where("o.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapInternal(err, "select offer by id")
	}
	return rec, nil
}

// Insert stores a new offer. A zero ID gets a fresh one; the version counter
// starts at 1.
func (s *OfferStore) Insert(ctx context.Context, rec *model.Offer) (*model.Offer, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.Version = 1

	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		return nil, wrapInternal(err, "insert offer")
	}
	return created, nil
}

// Replace overwrites the row whose id and version match rec, stamping
// last_modified.
func (s *OfferStore) Replace(ctx context.Context, rec *model.Offer) (*model.Offer, error) {
	now := time.Now().UTC()
	rec.LastModified = &now

	res, err := s.db.NewUpdate().
		Model(rec).
		Set("customer_first_name = ?", rec.CustomerFirstName).
		Set("customer_last_name = ?", rec.CustomerLastName).
		Set("price = ?", rec.Price).
		Set("offer_date = ?", rec.OfferDate).
		Set("last_modified = ?", rec.LastModified).
		Set("vehicle_id = ?", rec.VehicleID).
		Set("version = ?", rec.Version+1).
		Where("o.id = ?", rec.ID).
		Where("o.version = ?", rec.Version).
		Exec(ctx)
	if err != nil {
		return nil, wrapInternal(err, "update offer")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, wrapInternal(err, "update offer rows affected")
	}
	if affected == 0 {
		exists, err := s.db.NewSelect().
			Model((*model.Offer)(nil)).
			Where("o.id = ?", rec.ID).
			Exists(ctx)
		if err != nil {
			return nil, wrapInternal(err, "check offer existence")
		}
		if !exists {
			return nil, ErrNotFound
		}
		return nil, ErrConflict
	}

	rec.Version++
	return rec, nil
}

// Delete removes one offer.
func (s *OfferStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.NewDelete().
		Model((*model.Offer)(nil)).
		Where("o.id = ?", id).
		Exec(ctx)
	if err != nil {
		return wrapInternal(err, "delete offer")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return wrapInternal(err, "delete offer rows affected")
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Query runs a plan without pagination metadata.
func (s *OfferStore) Query(ctx context.Context, plan query.Plan) ([]*model.Offer, error) {
	var recs []*model.Offer
	err := plan.Apply(s.db.NewSelect().Model(&recs)).Scan(ctx)
	if err != nil {
		return nil, wrapInternal(err, "query offers")
	}
	return recs, nil
}

// QueryPaged runs a plan and also returns the total row count with the
// plan's pagination stripped.
func (s *OfferStore) QueryPaged(ctx context.Context, plan query.Plan) ([]*model.Offer, int, error) {
	recs, total, err := s.repo.List(ctx, repository.SelectCriteria(plan.Apply))
	if err != nil {
		return nil, 0, wrapInternal(err, "list offers")
	}
	return recs, total, nil
}
