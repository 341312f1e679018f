package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var seatIDRe = regexp.MustCompile(`^table-(\d+)-(top|bottom)-(\d+)$`)

// ParsedSeatID holds the structured data parsed from a seating-chart seat ID.
type ParsedSeatID struct {
	Table    int
	Side     string
	Position int
}

// ParseSeatID extracts table number, side, and position from a seat ID of the
// form "table-<n>-<side>-<pos>". Used to validate mapping targets at startup
// so a typo in the configured chair mapping fails loudly instead of silently
// never reconciling.
func ParseSeatID(raw string) (ParsedSeatID, error) {
	s := strings.TrimSpace(raw)

	m := seatIDRe.FindStringSubmatch(s)
	if m == nil {
		return ParsedSeatID{}, fmt.Errorf("unable to parse seat ID: %q", raw)
	}

	table, err := strconv.Atoi(m[1])
	if err != nil || table < 1 {
		return ParsedSeatID{}, fmt.Errorf("invalid table number in seat ID: %q", raw)
	}

	pos, err := strconv.Atoi(m[3])
	if err != nil {
		return ParsedSeatID{}, fmt.Errorf("invalid position in seat ID: %q", raw)
	}

	return ParsedSeatID{Table: table, Side: m[2], Position: pos}, nil
}

// SeatID builds the canonical seat ID for a table, side, and position.
func SeatID(table int, side string, position int) string {
	return fmt.Sprintf("table-%d-%s-%d", table, side, position)
}
