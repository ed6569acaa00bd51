package query

import (
	"fmt"
	"strings"
)

type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// InvalidOrderDirectionError is returned for a direction outside asc/desc.
type InvalidOrderDirectionError struct {
	Direction string
}

func (e InvalidOrderDirectionError) Error() string {
	return fmt.Sprintf("invalid order direction %q", e.Direction)
}

// ParseDirection normalizes a direction string, case-insensitively.
func ParseDirection(value string) (Direction, error) {
	switch strings.ToUpper(value) {
	case "ASC":
		return Asc, nil
	case "DESC":
		return Desc, nil
	}
	return "", InvalidOrderDirectionError{Direction: value}
}

// Order is one ORDER BY term.
type Order struct {
	Column    string
	Direction Direction
}

// OrderSpec is an ordered sequence of ORDER BY terms. Insertion order is
// significant: later entries are secondary sort keys, never replacements.
type OrderSpec []Order

// By starts an OrderSpec with a single term.
func By(column string, direction Direction) OrderSpec {
	return OrderSpec{{Column: column, Direction: direction}}
}

// ThenBy appends a secondary term.
func (s OrderSpec) ThenBy(column string, direction Direction) OrderSpec {
	return append(s, Order{Column: column, Direction: direction})
}
