package query

import "strings"

// Direction is the sort order.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// IsValid checks if the direction is one of the supported values.
func (d Direction) IsValid() bool { return d == Asc || d == Desc }

// ParseDirection parses a direction case-insensitively. Empty means asc.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(s) {
	case "", "asc", "ascending":
		return Asc, true
	case "desc", "descending":
		return Desc, true
	default:
		return Direction(s), false
	}
}

// Sort is a sort key and direction. An empty key keeps input order.
type Sort struct {
	Key       string
	Direction Direction
}

// By is shorthand for Sort{Key: key, Direction: dir}.
func By(key string, dir Direction) Sort { return Sort{Key: key, Direction: dir} }
