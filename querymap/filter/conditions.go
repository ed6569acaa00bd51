package filter

import (
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/krew-solutions/querymap-go/querymap/option"
)

// Condition is one decoded predicate. The decode step guarantees the column
// passed the model allow-list and the value has the shape the kind requires,
// so Apply never fails.
type Condition interface {
	Column() string
	Apply(b sq.SelectBuilder) sq.SelectBuilder
}

// Equals compares a column with a single value using a comparison operator
// from the closed set accepted by the where kind ("=" by default).
type Equals struct {
	Col      string
	Operator string
	Value    any
}

func (c Equals) Column() string { return c.Col }

// In matches rows whose column value is one of Values. Decode never produces
// an In with an empty value list: an empty list means "no predicate", not an
// impossible match.
type In struct {
	Col    string
	Values []any
}

func (c In) Column() string { return c.Col }

// Like matches rows whose column contains Value as a substring. The value is
// bound as a parameter with LIKE wildcards escaped.
type Like struct {
	Col   string
	Value string
}

func (c Like) Column() string { return c.Col }

// Between bounds a column inclusively between two day-boundary timestamps.
type Between struct {
	Col   string
	Lower time.Time
	Upper time.Time
}

func (c Between) Column() string { return c.Col }

// JsonContains tests JSONB containment of Doc (an encoded JSON document)
// in the column.
type JsonContains struct {
	Col string
	Doc string
}

func (c JsonContains) Column() string { return c.Col }

// InSet tests membership of Value inside a comma-separated list stored in the
// column.
type InSet struct {
	Col   string
	Value any
}

func (c InSet) Column() string { return c.Col }

// Conditions is the decoded form of a Payload: an ordered clause list plus
// the pagination controls found alongside the filters.
type Conditions struct {
	clauses  []Condition
	page     option.Option[int]
	pageSize option.Option[int]
}

// Clauses returns the decoded predicates in application order.
func (c *Conditions) Clauses() []Condition {
	return c.clauses
}

// Page returns the "page" control when present.
func (c *Conditions) Page() option.Option[int] {
	return c.page
}

// PageSize returns the "page_size" control when present.
func (c *Conditions) PageSize() option.Option[int] {
	return c.pageSize
}

// Apply extends the builder with every decoded clause, in order, combined
// with AND.
func (c *Conditions) Apply(b sq.SelectBuilder) sq.SelectBuilder {
	for _, clause := range c.clauses {
		b = clause.Apply(b)
	}
	return b
}
