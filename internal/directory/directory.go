// Package directory is the in-memory stand-in for the external seating-chart
// service. It owns the table/seat layout and local click overrides; it never
// writes back through the sensor protocol. Sensor-reported occupancy is
// authoritative for mapped seats, so a click survives only until the next
// reconcile overwrites that seat.
package directory

import (
	"fmt"
	"sync"

	"chair-status-backend/internal/model"
	"chair-status-backend/internal/parse"
)

const (
	tableCount   = 24 // 6 rows x 4 tables
	seatsPerSide = 4
	tablesPerRow = 4
)

// Directory holds the mutable local seating chart.
type Directory struct {
	mu     sync.RWMutex
	tables []model.DiningTable
}

// New creates a directory populated with the deterministic mock layout:
// 24 tables of 8 seats (4 top, 4 bottom), all initially free.
func New() *Directory {
	tables := make([]model.DiningTable, 0, tableCount)
	for i := 0; i < tableCount; i++ {
		tableNumber := i + 1
		tableID := fmt.Sprintf("table-%d", tableNumber)

		seats := make([]model.Seat, 0, 2*seatsPerSide)
		for _, side := range []string{"top", "bottom"} {
			for p := 0; p < seatsPerSide; p++ {
				seats = append(seats, model.Seat{
					ID:       parse.SeatID(tableNumber, side, p),
					TableID:  tableID,
					Position: p,
					Side:     side,
				})
			}
		}

		tables = append(tables, model.DiningTable{
			ID:            tableID,
			TableNumber:   tableNumber,
			RowPosition:   i / tablesPerRow,
			PairPosition:  i % 2,
			PositionInRow: i % tablesPerRow,
			Seats:         seats,
		})
	}
	return &Directory{tables: tables}
}

// Tables returns a deep copy of the current layout.
func (d *Directory) Tables() []model.DiningTable {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]model.DiningTable, len(d.tables))
	for i, t := range d.tables {
		out[i] = t
		out[i].Seats = append([]model.Seat(nil), t.Seats...)
	}
	return out
}

// Seats returns a deep copy of every seat, flattened.
func (d *Directory) Seats() []model.Seat {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []model.Seat
	for _, t := range d.tables {
		out = append(out, t.Seats...)
	}
	return out
}

// SetOccupied records a local override for one seat (a dashboard click).
// Mutates only the directory's copy, never the sensor state store.
func (d *Directory) SetOccupied(seatID string, occupied bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for ti := range d.tables {
		for si := range d.tables[ti].Seats {
			if d.tables[ti].Seats[si].ID == seatID {
				d.tables[ti].Seats[si].IsOccupied = occupied
				return nil
			}
		}
	}
	return fmt.Errorf("seat with id %s not found", seatID)
}

// ApplySeats writes a reconciled seat slice back into the layout. Seats not
// present in the slice are left untouched.
func (d *Directory) ApplySeats(seats []model.Seat) {
	byID := make(map[string]model.Seat, len(seats))
	for _, s := range seats {
		byID[s.ID] = s
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for ti := range d.tables {
		for si := range d.tables[ti].Seats {
			if s, ok := byID[d.tables[ti].Seats[si].ID]; ok {
				d.tables[ti].Seats[si].IsOccupied = s.IsOccupied
			}
		}
	}
}

// Counts returns occupied and total seat counts for availability stats.
func (d *Directory) Counts() (occupied, total int) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, t := range d.tables {
		for _, s := range t.Seats {
			total++
			if s.IsOccupied {
				occupied++
			}
		}
	}
	return occupied, total
}
