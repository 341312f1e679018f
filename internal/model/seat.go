package model

// Seat is one position in the seating-chart namespace. Its ID is unrelated to
// sensor wiring; the reconciliation layer bridges the two.
type Seat struct {
	ID         string `json:"id"`
	TableID    string `json:"table_id"`
	Position   int    `json:"position"`
	Side       string `json:"side"`
	IsOccupied bool   `json:"is_occupied"`
}

// DiningTable is one table in the seating chart.
type DiningTable struct {
	ID            string `json:"id"`
	TableNumber   int    `json:"table_number"`
	RowPosition   int    `json:"row_position"`
	PairPosition  int    `json:"pair_position"`
	PositionInRow int    `json:"position_in_row"`
	Seats         []Seat `json:"chairs"`
}
