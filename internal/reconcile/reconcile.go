// Package reconcile bridges the two ID namespaces of the system: raw sensor
// chair IDs (what the hardware reports) and seating-chart seat IDs (what a
// dashboard lays out). The mapping is static per deployment and loaded once.
package reconcile

import (
	"fmt"

	"chair-status-backend/internal/model"
	"chair-status-backend/internal/parse"
)

// Mapping is a typed bidirectional association between sensor chair IDs and
// seating-chart seat IDs. Injective in the chair->seat direction.
type Mapping struct {
	chairToSeat map[string]string
	seatToChair map[string]string
}

// NewMapping builds a Mapping from the configured chair->seat table. It
// rejects duplicate seat targets (the reverse lookup would be ambiguous) and
// malformed seat IDs.
func NewMapping(chairToSeat map[string]string) (*Mapping, error) {
	m := &Mapping{
		chairToSeat: make(map[string]string, len(chairToSeat)),
		seatToChair: make(map[string]string, len(chairToSeat)),
	}
	for chairID, seatID := range chairToSeat {
		if chairID == "" {
			return nil, fmt.Errorf("mapping has an empty chair ID for seat %q", seatID)
		}
		if _, err := parse.ParseSeatID(seatID); err != nil {
			return nil, fmt.Errorf("mapping for chair %q: %w", chairID, err)
		}
		if other, ok := m.seatToChair[seatID]; ok {
			return nil, fmt.Errorf("seat %q is mapped from both chair %q and chair %q", seatID, other, chairID)
		}
		m.chairToSeat[chairID] = seatID
		m.seatToChair[seatID] = chairID
	}
	return m, nil
}

// SeatFor returns the seat mapped to a sensor chair ID.
func (m *Mapping) SeatFor(chairID string) (string, bool) {
	seatID, ok := m.chairToSeat[chairID]
	return seatID, ok
}

// ChairFor returns the sensor chair mapped to a seat ID.
func (m *Mapping) ChairFor(seatID string) (string, bool) {
	chairID, ok := m.seatToChair[seatID]
	return chairID, ok
}

// Len reports how many chair->seat pairs are configured.
func (m *Mapping) Len() int {
	return len(m.chairToSeat)
}

// Reconcile applies sensor-namespace truth onto seating-chart display state.
// For each seat whose reverse-mapped chair is present in the snapshot, only
// IsOccupied is overwritten; every other field, and every seat that is
// unmapped or whose chair has never reported, passes through unchanged.
// A total transform: never fails, never drops a seat.
func (m *Mapping) Reconcile(snapshot model.StateSnapshot, localView []model.Seat) []model.Seat {
	out := make([]model.Seat, len(localView))
	for i, seat := range localView {
		out[i] = seat
		chairID, ok := m.seatToChair[seat.ID]
		if !ok {
			continue
		}
		rec, ok := snapshot.Chairs[chairID]
		if !ok {
			continue
		}
		out[i].IsOccupied = rec.IsOccupied
	}
	return out
}
