package filter

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/krew-solutions/querymap-go/querymap/option"
	"github.com/krew-solutions/querymap-go/querymap/registry"
)

// comparisonOperators is the closed set accepted by the where kind.
var comparisonOperators = map[string]struct{}{
	"=": {}, "!=": {}, "<>": {}, ">": {}, ">=": {}, "<": {}, "<=": {},
}

// Decode translates a Payload into typed conditions against a model.
//
// The implicit equality pass runs first, over every top-level key that is
// neither a reserved condition kind nor a pagination control, in sorted
// column order. The reserved kinds follow in their fixed order (where,
// whereIn, whereLike, whereBetween, whereJsonContains, whereInSet). Every
// predicate combines with AND; later kinds add to, never override, earlier
// ones.
//
// Null and empty-string values contribute no predicate anywhere. Columns are
// checked against the model allow-list. A reserved key whose value is not an
// object fails with MalformedConditionError.
func Decode(model *registry.Model, payload Payload) (*Conditions, error) {
	conds := &Conditions{
		page:     intControl(payload[KeyPage]),
		pageSize: intControl(payload[KeyPageSize]),
	}

	if err := decodeImplicit(model, payload, conds); err != nil {
		return nil, err
	}

	for _, kind := range conditionKeys {
		raw, present := payload[kind]
		if !present || raw == nil {
			continue
		}

		fields, ok := toFieldMap(raw)
		if !ok {
			return nil, MalformedConditionError{Key: kind, Reason: "expected an object of column to value"}
		}

		if err := decodeKind(model, kind, fields, conds); err != nil {
			return nil, err
		}
	}

	return conds, nil
}

func decodeImplicit(model *registry.Model, payload Payload, conds *Conditions) error {
	for _, column := range sortedKeys(payload) {
		if IsConditionKey(column) || IsControlKey(column) {
			continue
		}

		value := payload[column]
		if isAbsent(value) {
			continue
		}
		if !model.AllowsColumn(column) {
			return ColumnNotAllowedError{Column: column}
		}

		if list, ok := toList(value); ok {
			if list = presentValues(list); len(list) > 0 {
				conds.clauses = append(conds.clauses, In{Col: column, Values: list})
			}
			continue
		}

		conds.clauses = append(conds.clauses, Equals{Col: column, Operator: "=", Value: value})
	}
	return nil
}

func decodeKind(model *registry.Model, kind string, fields map[string]any, conds *Conditions) error {
	for _, column := range sortedKeys(fields) {
		value := fields[column]
		if isAbsent(value) {
			continue
		}
		if !model.AllowsColumn(column) {
			return ColumnNotAllowedError{Column: column}
		}

		clauses, err := decodeClause(kind, column, value)
		if err != nil {
			return err
		}
		conds.clauses = append(conds.clauses, clauses...)
	}
	return nil
}

func decodeClause(kind, column string, value any) ([]Condition, error) {
	switch kind {
	case KeyWhere:
		return decodeWhere(column, value)

	case KeyWhereIn:
		list, ok := toList(value)
		if !ok {
			return nil, MalformedConditionError{Key: kind, Reason: fmt.Sprintf("column %q expects a list value", column)}
		}
		// an empty list means "no predicate", never an impossible match
		if list = presentValues(list); len(list) == 0 {
			return nil, nil
		}
		return []Condition{In{Col: column, Values: list}}, nil

	case KeyWhereLike:
		text, ok := toText(value)
		if !ok {
			return nil, MalformedConditionError{Key: kind, Reason: fmt.Sprintf("column %q expects a scalar value", column)}
		}
		return []Condition{Like{Col: column, Value: text}}, nil

	case KeyWhereBetween:
		// anything but a recognizable "from,to" pair produces no bound
		text, ok := value.(string)
		if !ok {
			return nil, nil
		}
		lower, upper, ok := parseDayRange(text)
		if !ok {
			return nil, nil
		}
		return []Condition{Between{Col: column, Lower: lower, Upper: upper}}, nil

	case KeyWhereJsonContains:
		doc, err := json.Marshal(value)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to encode json containment value for column %q", column)
		}
		return []Condition{JsonContains{Col: column, Doc: string(doc)}}, nil

	case KeyWhereInSet:
		text, ok := toText(value)
		if !ok {
			return nil, MalformedConditionError{Key: kind, Reason: fmt.Sprintf("column %q expects a scalar value", column)}
		}
		return []Condition{InSet{Col: column, Value: text}}, nil
	}

	return nil, MalformedConditionError{Key: kind, Reason: "unknown condition kind"}
}

// decodeWhere accepts a plain scalar (equality), a list (membership) or an
// operator object like {">=": 18} drawn from the closed comparison set.
func decodeWhere(column string, value any) ([]Condition, error) {
	if operators, ok := toFieldMap(value); ok {
		var clauses []Condition
		for _, op := range sortedKeys(operators) {
			if _, known := comparisonOperators[op]; !known {
				return nil, UnknownOperatorError{Operator: op}
			}
			opValue := operators[op]
			if isAbsent(opValue) {
				continue
			}
			clauses = append(clauses, Equals{Col: column, Operator: op, Value: opValue})
		}
		return clauses, nil
	}

	if list, ok := toList(value); ok {
		if list = presentValues(list); len(list) == 0 {
			return nil, nil
		}
		return []Condition{In{Col: column, Values: list}}, nil
	}

	return []Condition{Equals{Col: column, Operator: "=", Value: value}}, nil
}

// isAbsent implements the universal "omit absent filters" rule.
func isAbsent(value any) bool {
	return value == nil || value == ""
}

func presentValues(list []any) []any {
	present := make([]any, 0, len(list))
	for _, v := range list {
		if !isAbsent(v) {
			present = append(present, v)
		}
	}
	return present
}

func toList(value any) ([]any, bool) {
	if list, ok := value.([]any); ok {
		return list, true
	}

	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	if _, isBytes := value.([]byte); isBytes {
		return nil, false
	}

	list := make([]any, rv.Len())
	for i := range list {
		list[i] = rv.Index(i).Interface()
	}
	return list, true
}

func toFieldMap(value any) (map[string]any, bool) {
	switch m := value.(type) {
	case map[string]any:
		return m, true
	case Payload:
		return m, true
	}
	return nil, false
}

func toText(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return fmt.Sprint(v), true
	}
	return "", false
}

func intControl(value any) option.Option[int] {
	switch v := value.(type) {
	case int:
		return option.Some(v)
	case int32:
		return option.Some(int(v))
	case int64:
		return option.Some(int(v))
	case float64:
		return option.Some(int(v))
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return option.Some(int(n))
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return option.Some(n)
		}
	}
	return option.Nothing[int]()
}

func sortedKeys[M ~map[string]any](m M) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
