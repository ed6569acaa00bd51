package query

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/krew-solutions/querymap-go/querymap/filter"
	"github.com/krew-solutions/querymap-go/querymap/registry"
)

// Composer builds SELECT statements for one model. The builder value is owned
// by the composer for the duration of one Compose call and finalized exactly
// once by the execution step.
type Composer struct {
	model *registry.Model
}

func NewComposer(model *registry.Model) *Composer {
	return &Composer{model: model}
}

// Compose starts a builder over the model's columns, extends it with the
// decoded conditions and applies the order spec in insertion order. An empty
// spec defaults to the key column descending.
func (c *Composer) Compose(conds *filter.Conditions, order OrderSpec) (sq.SelectBuilder, error) {
	b := c.base(sq.Select(c.model.Columns()...))
	b = conds.Apply(b)

	if len(order) == 0 {
		order = By(c.model.Key, Desc)
	}

	for _, term := range order {
		if !c.model.AllowsColumn(term.Column) {
			return b, filter.ColumnNotAllowedError{Column: term.Column}
		}
		direction, err := ParseDirection(string(term.Direction))
		if err != nil {
			return b, err
		}
		b = b.OrderBy(term.Column + " " + string(direction))
	}

	return b, nil
}

// ComposeCount builds the matching COUNT(*) statement: same conditions, no
// ordering, no pagination.
func (c *Composer) ComposeCount(conds *filter.Conditions) sq.SelectBuilder {
	return conds.Apply(c.base(sq.Select("COUNT(*)")))
}

// ComposeByKey builds a lookup of a single row by key value.
func (c *Composer) ComposeByKey(key any) sq.SelectBuilder {
	return c.base(sq.Select(c.model.Columns()...)).Where(sq.Eq{c.model.Key: key})
}

func (c *Composer) base(b sq.SelectBuilder) sq.SelectBuilder {
	return b.From(c.model.Table).PlaceholderFormat(sq.Dollar)
}
