package registry

import (
	"testing"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Resolve(t *testing.T) {
	reg := New().Register(NewModel("todos", "todos"))

	model, err := reg.Resolve("todos")
	require.NoError(t, err)
	assert.Equal(t, "todos", model.Table)

	_, err = reg.Resolve("users")
	var unknown UnknownEntityError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "users", unknown.Entity)
}

func TestModel_KeyIsAlwaysAllowed(t *testing.T) {
	model := NewModel("todos", "todos")
	assert.True(t, model.AllowsColumn("id"))

	model.WithKey("uid")
	assert.True(t, model.AllowsColumn("uid"))
	assert.False(t, model.AllowsColumn("id"))
}

func TestModel_ColumnsSorted(t *testing.T) {
	model := NewModel("todos", "todos").WithColumns("title", "created_at", "status")
	assert.Equal(t, []string{"created_at", "id", "status", "title"}, model.Columns())
}

func TestModel_AllowsColumn(t *testing.T) {
	model := NewModel("todos", "todos").WithColumns("title")
	assert.True(t, model.AllowsColumn("title"))
	assert.False(t, model.AllowsColumn("password"))
	assert.False(t, model.AllowsColumn("title; DROP TABLE todos"))
}

func TestModel_Relations(t *testing.T) {
	model := NewModel("todos", "todos").
		WithRelation("comments", "todo_comments", "todo_id", "id")

	relation, ok := model.Relation("comments")
	require.True(t, ok)
	assert.Equal(t, "todo_comments", relation.Table)
	assert.Equal(t, "todo_id", relation.ChildColumn)
	assert.Equal(t, "id", relation.ParentColumn)

	_, ok = model.Relation("attachments")
	assert.False(t, ok)
}

func TestModel_KeyFactories(t *testing.T) {
	plain := NewModel("todos", "todos")
	assert.False(t, plain.HasKeyFactory())
	assert.Nil(t, plain.NewKey())

	withULID := NewModel("todos", "todos").WithKeyFactory(ULIDKeys)
	require.True(t, withULID.HasKeyFactory())
	_, err := ulid.ParseStrict(withULID.NewKey().(string))
	assert.NoError(t, err)

	withUUID := NewModel("todos", "todos").WithKeyFactory(UUIDKeys)
	_, err = uuid.Parse(withUUID.NewKey().(string))
	assert.NoError(t, err)
}
