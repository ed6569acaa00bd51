package registry

import (
	"sort"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// KeyFactory produces a new primary key value client-side. Models without a
// factory leave key generation to the database.
type KeyFactory func() any

// ULIDKeys generates lexicographically sortable string keys.
func ULIDKeys() any {
	return ulid.Make().String()
}

// UUIDKeys generates random v4 string keys.
func UUIDKeys() any {
	return uuid.NewString()
}

// Relation defines how child rows attach to a parent row for eager loading.
type Relation struct {
	// Table is the name of the child table
	Table string
	// ChildColumn is the FK column in the child table (e.g., "todo_id")
	ChildColumn string
	// ParentColumn is the referenced column in the parent table (e.g., "id")
	ParentColumn string
}

// Model describes one queryable entity: its table, key, the closed set of
// filterable columns and its eager-loadable relations. The column set doubles
// as the identifier allow-list; no column name reaches SQL text without
// passing through it.
type Model struct {
	Entity string
	Table  string
	Key    string

	columns    map[string]struct{}
	relations  map[string]Relation
	keyFactory KeyFactory
}

// NewModel creates a Model for an entity backed by a table. The key column
// defaults to "id" and is always part of the column allow-list.
func NewModel(entity, table string) *Model {
	m := &Model{
		Entity:    entity,
		Table:     table,
		Key:       "id",
		columns:   make(map[string]struct{}),
		relations: make(map[string]Relation),
	}
	m.columns[m.Key] = struct{}{}
	return m
}

// WithKey overrides the key column.
func (m *Model) WithKey(key string) *Model {
	delete(m.columns, m.Key)
	m.Key = key
	m.columns[key] = struct{}{}
	return m
}

// WithColumns adds columns to the allow-list.
func (m *Model) WithColumns(columns ...string) *Model {
	for _, column := range columns {
		m.columns[column] = struct{}{}
	}
	return m
}

// WithRelation registers an eager-loadable relation.
func (m *Model) WithRelation(name, table, childColumn, parentColumn string) *Model {
	m.relations[name] = Relation{
		Table:        table,
		ChildColumn:  childColumn,
		ParentColumn: parentColumn,
	}
	return m
}

// WithKeyFactory enables client-side key generation on store.
func (m *Model) WithKeyFactory(factory KeyFactory) *Model {
	m.keyFactory = factory
	return m
}

// AllowsColumn reports whether column is in the allow-list.
func (m *Model) AllowsColumn(column string) bool {
	_, ok := m.columns[column]
	return ok
}

// Columns returns the allow-listed columns in sorted order.
func (m *Model) Columns() []string {
	columns := make([]string, 0, len(m.columns))
	for column := range m.columns {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	return columns
}

// Relation returns the named relation mapping.
func (m *Model) Relation(name string) (Relation, bool) {
	relation, ok := m.relations[name]
	return relation, ok
}

// NewKey produces a fresh key value, or nil when the model has no factory.
func (m *Model) NewKey() any {
	if m.keyFactory == nil {
		return nil
	}
	return m.keyFactory()
}

// HasKeyFactory reports whether the model generates keys client-side.
func (m *Model) HasKeyFactory() bool {
	return m.keyFactory != nil
}
