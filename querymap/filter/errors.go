package filter

import "fmt"

// ColumnNotAllowedError is returned when a payload references a column
// outside the model's allow-list. Column names are identifiers and are only
// ever embedded in SQL after passing the allow-list.
type ColumnNotAllowedError struct {
	Column string
}

func (e ColumnNotAllowedError) Error() string {
	return fmt.Sprintf("column %q is not allowed", e.Column)
}

// MalformedConditionError is returned when a reserved condition key carries a
// value of the wrong shape. Malformed payloads fail at decode instead of
// degrading to "no predicate added".
type MalformedConditionError struct {
	Key    string
	Reason string
}

func (e MalformedConditionError) Error() string {
	return fmt.Sprintf("malformed %q condition: %s", e.Key, e.Reason)
}

// UnknownOperatorError is returned for a comparison operator outside the
// closed set accepted by the where kind.
type UnknownOperatorError struct {
	Operator string
}

func (e UnknownOperatorError) Error() string {
	return fmt.Sprintf("unknown comparison operator %q", e.Operator)
}
