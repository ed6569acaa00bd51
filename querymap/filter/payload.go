package filter

import (
	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Payload is the untyped filter map supplied by callers. Top-level keys are
// either plain column names (implicit equality), reserved condition-kind keys
// holding a nested column→value map, or pagination controls.
type Payload map[string]any

// Reserved condition-kind keys. conditionKeys fixes their application order;
// every kind combines with the implicit equality pass using AND.
const (
	KeyWhere             = "where"
	KeyWhereIn           = "whereIn"
	KeyWhereLike         = "whereLike"
	KeyWhereBetween      = "whereBetween"
	KeyWhereJsonContains = "whereJsonContains"
	KeyWhereInSet        = "whereInSet"
)

// Pagination controls. They ride inside the payload but are excluded from
// predicate building by key, never stripped from the map.
const (
	KeyPage     = "page"
	KeyPageSize = "page_size"
)

var conditionKeys = []string{
	KeyWhere,
	KeyWhereIn,
	KeyWhereLike,
	KeyWhereBetween,
	KeyWhereJsonContains,
	KeyWhereInSet,
}

// IsConditionKey reports whether key is one of the reserved condition kinds.
func IsConditionKey(key string) bool {
	for _, k := range conditionKeys {
		if k == key {
			return true
		}
	}
	return false
}

// IsControlKey reports whether key is a pagination control.
func IsControlKey(key string) bool {
	return key == KeyPage || key == KeyPageSize
}

// DecodeJSON unmarshals a raw JSON document into a Payload.
func DecodeJSON(data []byte) (Payload, error) {
	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, errors.Wrap(err, "unable to decode filter payload")
	}
	return payload, nil
}
