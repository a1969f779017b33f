package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/carsoffer/go-cars-offers/internal/model"
	"github.com/carsoffer/go-cars-offers/internal/query"
	"github.com/carsoffer/go-cars-offers/internal/store"
)

// OfferStore is the in-memory offer store.
type OfferStore struct {
	db *Store
}

// ByID fetches one offer.
func (s *OfferStore) ByID(ctx context.Context, id uuid.UUID) (*model.Offer, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	rec, ok := s.db.offers[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneOffer(rec), nil
}

// Insert stores a new offer.
func (s *OfferStore) Insert(ctx context.Context, rec *model.Offer) (*model.Offer, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	stored := cloneOffer(rec)
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	stored.Version = 1

	s.db.offers[stored.ID] = stored
	return cloneOffer(stored), nil
}

// Replace overwrites the offer whose id and version match rec.
func (s *OfferStore) Replace(ctx context.Context, rec *model.Offer) (*model.Offer, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	current, ok := s.db.offers[rec.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if current.Version != rec.Version {
		return nil, store.ErrConflict
	}

	stored := cloneOffer(rec)
	now := time.Now().UTC()
	stored.LastModified = &now
	stored.Version = current.Version + 1

	s.db.offers[stored.ID] = stored
	return cloneOffer(stored), nil
}

// Delete removes one offer.
func (s *OfferStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.offers[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.db.offers, id)
	return nil
}

// Query evaluates the plan over every stored offer.
func (s *OfferStore) Query(ctx context.Context, plan query.Plan) ([]*model.Offer, error) {
	recs, _ := s.match(plan)
	return window(recs, plan), nil
}

// QueryPaged evaluates the plan and reports the pre-pagination total.
func (s *OfferStore) QueryPaged(ctx context.Context, plan query.Plan) ([]*model.Offer, int, error) {
	recs, total := s.match(plan)
	return window(recs, plan), total, nil
}

func (s *OfferStore) match(plan query.Plan) ([]*model.Offer, int) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var recs []*model.Offer
	for _, o := range s.db.offers {
		if query.MatchPlan(plan, o, offerField) {
			recs = append(recs, cloneOffer(o))
		}
	}
	sortRecords(recs, plan, offerField)
	return recs, len(recs)
}
