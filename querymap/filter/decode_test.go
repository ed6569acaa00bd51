package filter

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krew-solutions/querymap-go/querymap/registry"
)

func todoModel() *registry.Model {
	return registry.NewModel("todos", "todos").
		WithColumns("title", "status", "tags", "meta", "created_at")
}

func buildSQL(t *testing.T, conds *Conditions) (string, []any) {
	t.Helper()
	sqlText, args, err := conds.Apply(
		sq.Select("id").From("todos").PlaceholderFormat(sq.Dollar),
	).ToSql()
	require.NoError(t, err)
	return sqlText, args
}

func TestDecode_ImplicitEquality(t *testing.T) {
	conds, err := Decode(todoModel(), Payload{"status": "open"})
	require.NoError(t, err)

	sqlText, args := buildSQL(t, conds)
	assert.Equal(t, "SELECT id FROM todos WHERE status = $1", sqlText)
	assert.Equal(t, []any{"open"}, args)
}

func TestDecode_ImplicitListBecomesIn(t *testing.T) {
	conds, err := Decode(todoModel(), Payload{"status": []any{"open", "done"}})
	require.NoError(t, err)

	sqlText, args := buildSQL(t, conds)
	assert.Equal(t, "SELECT id FROM todos WHERE status IN ($1,$2)", sqlText)
	assert.Equal(t, []any{"open", "done"}, args)
}

func TestDecode_SkipsAbsentValues(t *testing.T) {
	// nil and empty string contribute no predicate, for every kind
	payload := Payload{
		"status":            nil,
		"title":             "",
		"where":             map[string]any{"status": nil},
		"whereIn":           map[string]any{"status": []any{nil, ""}},
		"whereLike":         map[string]any{"title": ""},
		"whereBetween":      map[string]any{"created_at": nil},
		"whereJsonContains": map[string]any{"meta": ""},
		"whereInSet":        map[string]any{"tags": nil},
	}

	conds, err := Decode(todoModel(), payload)
	require.NoError(t, err)
	assert.Empty(t, conds.Clauses())
}

func TestDecode_EmptyInListAddsNoPredicate(t *testing.T) {
	with, err := Decode(todoModel(), Payload{
		"status":  "open",
		"whereIn": map[string]any{"title": []any{}},
	})
	require.NoError(t, err)

	without, err := Decode(todoModel(), Payload{"status": "open"})
	require.NoError(t, err)

	withSQL, _ := buildSQL(t, with)
	withoutSQL, _ := buildSQL(t, without)
	assert.Equal(t, withoutSQL, withSQL)
}

func TestDecode_ControlKeysAreNeverFilters(t *testing.T) {
	conds, err := Decode(todoModel(), Payload{
		"page":      2,
		"page_size": 5,
	})
	require.NoError(t, err)

	assert.Empty(t, conds.Clauses())
	assert.Equal(t, 2, conds.Page().Unwrap())
	assert.Equal(t, 5, conds.PageSize().Unwrap())
}

func TestDecode_ControlKeysParsedFromStrings(t *testing.T) {
	conds, err := Decode(todoModel(), Payload{
		"page":      "3",
		"page_size": float64(25), // JSON numbers decode as float64
	})
	require.NoError(t, err)

	assert.Equal(t, 3, conds.Page().Unwrap())
	assert.Equal(t, 25, conds.PageSize().Unwrap())
}

func TestDecode_FixedKindOrderAfterImplicitPass(t *testing.T) {
	conds, err := Decode(todoModel(), Payload{
		"whereInSet": map[string]any{"tags": "a"},
		"whereLike":  map[string]any{"title": "b"},
		"status":     "open",
		"whereIn":    map[string]any{"status": []any{"open"}},
	})
	require.NoError(t, err)

	clauses := conds.Clauses()
	require.Len(t, clauses, 4)
	assert.IsType(t, Equals{}, clauses[0]) // implicit pass first
	assert.IsType(t, In{}, clauses[1])     // whereIn before whereLike
	assert.IsType(t, Like{}, clauses[2])
	assert.IsType(t, InSet{}, clauses[3])
}

func TestDecode_ConditionsCombineWithAnd(t *testing.T) {
	conds, err := Decode(todoModel(), Payload{
		"status": "open",
		"where":  map[string]any{"status": "done"},
	})
	require.NoError(t, err)

	sqlText, args := buildSQL(t, conds)
	assert.Equal(t, "SELECT id FROM todos WHERE status = $1 AND status = $2", sqlText)
	assert.Equal(t, []any{"open", "done"}, args)
}

func TestDecode_WhereOperatorMap(t *testing.T) {
	conds, err := Decode(todoModel(), Payload{
		"where": map[string]any{
			"created_at": map[string]any{">=": "2024-01-01", "<": "2025-01-01"},
		},
	})
	require.NoError(t, err)

	sqlText, args := buildSQL(t, conds)
	assert.Equal(t, "SELECT id FROM todos WHERE created_at < $1 AND created_at >= $2", sqlText)
	assert.Equal(t, []any{"2025-01-01", "2024-01-01"}, args)
}

func TestDecode_WhereUnknownOperator(t *testing.T) {
	_, err := Decode(todoModel(), Payload{
		"where": map[string]any{"status": map[string]any{"LIKE": "x"}},
	})

	var opErr UnknownOperatorError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "LIKE", opErr.Operator)
}

func TestDecode_MalformedConditionFailsLoudly(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
	}{
		{"scalar where", Payload{"where": "status"}},
		{"list whereIn", Payload{"whereIn": []any{"a"}}},
		{"whereIn scalar value", Payload{"whereIn": map[string]any{"status": "open"}}},
		{"whereLike list value", Payload{"whereLike": map[string]any{"title": []any{"a"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(todoModel(), tt.payload)
			var malformed MalformedConditionError
			assert.ErrorAs(t, err, &malformed)
		})
	}
}

func TestDecode_ColumnOutsideAllowList(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
	}{
		{"implicit", Payload{"password": "x"}},
		{"where", Payload{"where": map[string]any{"password": "x"}}},
		{"whereInSet", Payload{"whereInSet": map[string]any{"password": "x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(todoModel(), tt.payload)
			var notAllowed ColumnNotAllowedError
			require.ErrorAs(t, err, &notAllowed)
			assert.Equal(t, "password", notAllowed.Column)
		})
	}
}

func TestDecode_BetweenFailsSoft(t *testing.T) {
	conds, err := Decode(todoModel(), Payload{
		"whereBetween": map[string]any{"created_at": "2024-01-01"}, // no comma
	})
	require.NoError(t, err)
	assert.Empty(t, conds.Clauses())
}

func TestDecode_TypedSlicesAreLists(t *testing.T) {
	conds, err := Decode(todoModel(), Payload{"status": []string{"open", "done"}})
	require.NoError(t, err)

	require.Len(t, conds.Clauses(), 1)
	in, ok := conds.Clauses()[0].(In)
	require.True(t, ok)
	assert.Equal(t, []any{"open", "done"}, in.Values)
}

func TestDecodeJSON(t *testing.T) {
	payload, err := DecodeJSON([]byte(`{"status":"open","page_size":5}`))
	require.NoError(t, err)
	assert.Equal(t, "open", payload["status"])

	_, err = DecodeJSON([]byte(`{`))
	assert.Error(t, err)
}
