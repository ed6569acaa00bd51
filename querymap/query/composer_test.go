package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krew-solutions/querymap-go/querymap/filter"
	"github.com/krew-solutions/querymap-go/querymap/registry"
	"github.com/krew-solutions/querymap-go/querymap/utils/testutils"
)

func todoModel() *registry.Model {
	return registry.NewModel("todos", "todos").
		WithColumns("title", "status", "created_at")
}

func decode(t *testing.T, payload filter.Payload) *filter.Conditions {
	t.Helper()
	conds, err := filter.Decode(todoModel(), payload)
	require.NoError(t, err)
	return conds
}

func TestCompose_DefaultOrderIsKeyDescending(t *testing.T) {
	b, err := NewComposer(todoModel()).Compose(decode(t, filter.Payload{}), nil)
	require.NoError(t, err)

	sqlText, _, err := b.ToSql()
	require.NoError(t, err)

	expected := "SELECT created_at, id, status, title FROM todos ORDER BY id DESC"
	assert.Equal(t, expected, sqlText, testutils.SQLDiff(expected, sqlText))
}

func TestCompose_OrderPreservesInsertionOrder(t *testing.T) {
	order := By("status", Asc).ThenBy("created_at", Desc)

	b, err := NewComposer(todoModel()).Compose(decode(t, filter.Payload{}), order)
	require.NoError(t, err)

	sqlText, _, err := b.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sqlText, "ORDER BY status ASC, created_at DESC")
}

func TestCompose_NormalizesDirectionCase(t *testing.T) {
	order := OrderSpec{{Column: "status", Direction: "asc"}}

	b, err := NewComposer(todoModel()).Compose(decode(t, filter.Payload{}), order)
	require.NoError(t, err)

	sqlText, _, err := b.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sqlText, "ORDER BY status ASC")
}

func TestCompose_InvalidDirection(t *testing.T) {
	order := OrderSpec{{Column: "status", Direction: "sideways"}}

	_, err := NewComposer(todoModel()).Compose(decode(t, filter.Payload{}), order)
	var dirErr InvalidOrderDirectionError
	require.ErrorAs(t, err, &dirErr)
	assert.Equal(t, "sideways", dirErr.Direction)
}

func TestCompose_OrderColumnMustBeAllowed(t *testing.T) {
	order := By("password", Asc)

	_, err := NewComposer(todoModel()).Compose(decode(t, filter.Payload{}), order)
	var notAllowed filter.ColumnNotAllowedError
	assert.ErrorAs(t, err, &notAllowed)
}

func TestCompose_ConditionsApplied(t *testing.T) {
	b, err := NewComposer(todoModel()).Compose(
		decode(t, filter.Payload{"status": "open"}),
		By("created_at", Desc),
	)
	require.NoError(t, err)

	sqlText, args, err := b.ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT created_at, id, status, title FROM todos WHERE status = $1 ORDER BY created_at DESC",
		sqlText)
	assert.Equal(t, []any{"open"}, args)
}

func TestComposeCount_NoOrdering(t *testing.T) {
	sqlText, args, err := NewComposer(todoModel()).
		ComposeCount(decode(t, filter.Payload{"status": "open"})).
		ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT COUNT(*) FROM todos WHERE status = $1", sqlText)
	assert.Equal(t, []any{"open"}, args)
}

func TestComposeByKey(t *testing.T) {
	sqlText, args, err := NewComposer(todoModel()).ComposeByKey(42).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT created_at, id, status, title FROM todos WHERE id = $1", sqlText)
	assert.Equal(t, []any{42}, args)
}

func TestParseDirection(t *testing.T) {
	for raw, expected := range map[string]Direction{
		"asc": Asc, "ASC": Asc, "Desc": Desc, "desc": Desc,
	} {
		direction, err := ParseDirection(raw)
		require.NoError(t, err)
		assert.Equal(t, expected, direction)
	}

	_, err := ParseDirection("up")
	assert.Error(t, err)
}

func TestPage_LastPage(t *testing.T) {
	assert.Equal(t, 1, (&Page{Total: 0, PageSize: 15}).LastPage())
	assert.Equal(t, 1, (&Page{Total: 15, PageSize: 15}).LastPage())
	assert.Equal(t, 2, (&Page{Total: 16, PageSize: 15}).LastPage())
	assert.Equal(t, 17, (&Page{Total: 250, PageSize: 15}).LastPage())
}
