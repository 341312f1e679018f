package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"chair-status-backend/internal/model"
)

// DatabasePersister mirrors the snapshot into the chair_states table. Each
// Save upserts every record in one transaction, matching the full-snapshot
// contract of the persistence port. Records are never deleted in normal
// operation, so upserts are sufficient to keep the mirror complete.
type DatabasePersister struct {
	db *gorm.DB
}

// NewDatabasePersister creates a gorm-backed persister.
func NewDatabasePersister(db *gorm.DB) *DatabasePersister {
	return &DatabasePersister{db: db}
}

// Load reads all persisted chair rows.
func (p *DatabasePersister) Load(ctx context.Context) (map[string]model.OccupancyRecord, error) {
	var rows []model.ChairState
	if err := p.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load chair states: %w", err)
	}

	chairs := make(map[string]model.OccupancyRecord, len(rows))
	for _, row := range rows {
		chairs[row.ChairID] = row.Record()
	}
	return chairs, nil
}

// Save upserts the full snapshot transactionally.
func (p *DatabasePersister) Save(ctx context.Context, chairs map[string]model.OccupancyRecord) error {
	if len(chairs) == 0 {
		return nil
	}

	rows := make([]model.ChairState, 0, len(chairs))
	for _, rec := range chairs {
		rows = append(rows, model.ChairState{
			ChairID:    rec.ChairID,
			IsOccupied: rec.IsOccupied,
			UpdatedAt:  rec.UpdatedAt,
		})
	}

	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chair_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_occupied", "updated_at"}),
		}).Create(&rows).Error; err != nil {
			return fmt.Errorf("batch upsert chair states failed: %w", err)
		}
		return nil
	})
}
