package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carsoffer/go-cars-offers/internal/model"
	"github.com/carsoffer/go-cars-offers/internal/query"
	"github.com/carsoffer/go-cars-offers/internal/store"
)

// VehicleStore is the in-memory vehicle store.
type VehicleStore struct {
	db *Store
}

// ByID fetches one vehicle without its offers.
func (s *VehicleStore) ByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	rec, ok := s.db.vehicles[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneVehicle(rec), nil
}

// ByIDWithOffers fetches one vehicle together with its offers.
func (s *VehicleStore) ByIDWithOffers(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	rec, ok := s.db.vehicles[id]
	if !ok {
		return nil, store.ErrNotFound
	}

	out := cloneVehicle(rec)
	out.Offers = []*model.Offer{}
	for _, o := range s.db.offers {
		if o.VehicleID == id {
			out.Offers = append(out.Offers, cloneOffer(o))
		}
	}
	return out, nil
}

// Insert stores a new vehicle, enforcing VIN uniqueness.
func (s *VehicleStore) Insert(ctx context.Context, rec *model.Vehicle) (*model.Vehicle, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, v := range s.db.vehicles {
		if v.VIN == rec.VIN {
			return nil, fmt.Errorf("memory: vin %q already stored: %w", rec.VIN, store.ErrDuplicate)
		}
	}

	stored := cloneVehicle(rec)
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	stored.Version = 1
	stored.CreatedAt = time.Now().UTC()

	s.db.vehicles[stored.ID] = stored
	return cloneVehicle(stored), nil
}

// Replace overwrites the vehicle whose id and version match rec.
func (s *VehicleStore) Replace(ctx context.Context, rec *model.Vehicle) (*model.Vehicle, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	current, ok := s.db.vehicles[rec.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if current.Version != rec.Version {
		return nil, store.ErrConflict
	}

	stored := cloneVehicle(rec)
	stored.CreatedAt = current.CreatedAt
	stored.UpdatedAt = time.Now().UTC()
	stored.Version = current.Version + 1

	s.db.vehicles[stored.ID] = stored
	return cloneVehicle(stored), nil
}

// Delete removes a vehicle and all of its offers.
func (s *VehicleStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.vehicles[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.db.vehicles, id)
	for oid, o := range s.db.offers {
		if o.VehicleID == id {
			delete(s.db.offers, oid)
		}
	}
	return nil
}

// Query evaluates the plan over every stored vehicle.
func (s *VehicleStore) Query(ctx context.Context, plan query.Plan) ([]*model.Vehicle, error) {
	recs, _ := s.match(plan)
	return window(recs, plan), nil
}

// QueryPaged evaluates the plan and reports the pre-pagination total.
func (s *VehicleStore) QueryPaged(ctx context.Context, plan query.Plan) ([]*model.Vehicle, int, error) {
	recs, total := s.match(plan)
	return window(recs, plan), total, nil
}

// ExistsByVIN reports whether any vehicle carries the given VIN.
func (s *VehicleStore) ExistsByVIN(ctx context.Context, vin string) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, v := range s.db.vehicles {
		if v.VIN == vin {
			return true, nil
		}
	}
	return false, nil
}

func (s *VehicleStore) match(plan query.Plan) ([]*model.Vehicle, int) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var recs []*model.Vehicle
	for _, v := range s.db.vehicles {
		if query.MatchPlan(plan, v, vehicleField) {
			recs = append(recs, cloneVehicle(v))
		}
	}
	sortRecords(recs, plan, vehicleField)
	return recs, len(recs)
}
