package store

import (
	"context"
	"log"
	"sync"
	"time"

	"chair-status-backend/internal/model"
)

// Store is the authoritative occupancy state: one record per chair,
// last write wins, no deletion path.
type Store interface {
	Get() model.StateSnapshot
	Put(ctx context.Context, chairID string, occupied bool) (prev *model.OccupancyRecord, cur model.OccupancyRecord)
}

// memStore keeps the map in memory and mirrors every accepted write through
// the persister. Writes are serialized globally; write volume is a handful of
// sensors, so per-key locking is not worth the bookkeeping.
type memStore struct {
	mu      sync.RWMutex
	chairs  map[string]model.OccupancyRecord
	persist Persister
	// persistMu serializes Save calls in write order without holding mu
	// across the I/O, so reads stay available during a persist.
	persistMu sync.Mutex
	now       func() time.Time
}

// New creates a store backed by the given persister and loads the previously
// persisted snapshot so state survives restarts. A persister that has nothing
// yet must return an empty map, not an error.
func New(ctx context.Context, p Persister) (Store, error) {
	chairs, err := p.Load(ctx)
	if err != nil {
		return nil, err
	}
	if chairs == nil {
		chairs = make(map[string]model.OccupancyRecord)
	}
	return &memStore{
		chairs:  chairs,
		persist: p,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

// Get returns a deep copy of the current map. A read concurrent with a write
// observes either the pre- or post-write snapshot, never a torn record.
func (s *memStore) Get() model.StateSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chairs := make(map[string]model.OccupancyRecord, len(s.chairs))
	for id, rec := range s.chairs {
		chairs[id] = rec
	}
	return model.StateSnapshot{Chairs: chairs}
}

// Put applies one occupancy report and synchronously persists the full
// snapshot before returning. UpdatedAt strictly increases per chair: two
// writes landing in the same wall-clock instant are ordered by bumping the
// later one a nanosecond past its predecessor.
//
// A persistence failure is logged for the operator but does not fail the
// write and does not roll back memory; the in-memory map stays authoritative
// for live dashboards.
func (s *memStore) Put(ctx context.Context, chairID string, occupied bool) (*model.OccupancyRecord, model.OccupancyRecord) {
	// persistMu is taken first so writes persist in the order they applied;
	// mu is held only for the map update, keeping reads available during the
	// persist I/O.
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()

	var prev *model.OccupancyRecord
	if old, ok := s.chairs[chairID]; ok {
		p := old
		prev = &p
	}

	updatedAt := s.now()
	if prev != nil && !updatedAt.After(prev.UpdatedAt) {
		updatedAt = prev.UpdatedAt.Add(time.Nanosecond)
	}

	cur := model.OccupancyRecord{
		ChairID:    chairID,
		IsOccupied: occupied,
		UpdatedAt:  updatedAt,
	}
	s.chairs[chairID] = cur

	// Snapshot copied under the lock so the persister never sees a map that
	// a later writer is mutating.
	mirror := make(map[string]model.OccupancyRecord, len(s.chairs))
	for id, rec := range s.chairs {
		mirror[id] = rec
	}
	s.mu.Unlock()

	if err := s.persist.Save(ctx, mirror); err != nil {
		log.Printf("ERROR: failed to persist chair state after update of %s: %v", chairID, err)
	}

	return prev, cur
}
