package store

import (
	"context"

	"chair-status-backend/internal/model"
)

// Persister is the durable mirror of the occupancy map. Save receives the
// full snapshot, not a delta, and must commit it before returning.
// Implementations can be file-based, database, etc.
type Persister interface {
	Load(ctx context.Context) (map[string]model.OccupancyRecord, error)
	Save(ctx context.Context, chairs map[string]model.OccupancyRecord) error
}
