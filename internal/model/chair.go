package model

import "time"

// OccupancyRecord is the current occupancy state of a single chair sensor.
// UpdatedAt is stamped by the store on every accepted write and strictly
// increases per chair.
type OccupancyRecord struct {
	ChairID    string    `json:"chairId"`
	IsOccupied bool      `json:"is_occupied"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// StateSnapshot is the full known sensor fleet at a point in time. A chair
// absent from the map has never reported, which is distinct from reporting
// is_occupied = false.
type StateSnapshot struct {
	Chairs map[string]OccupancyRecord `json:"chairs"`
}

// ChairState is the database row mirroring one OccupancyRecord, used by the
// gorm-backed persistence mode.
type ChairState struct {
	ChairID    string    `gorm:"primaryKey;size:128"`
	IsOccupied bool      `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// Record converts a row back to its wire representation.
func (c ChairState) Record() OccupancyRecord {
	return OccupancyRecord{
		ChairID:    c.ChairID,
		IsOccupied: c.IsOccupied,
		UpdatedAt:  c.UpdatedAt,
	}
}
