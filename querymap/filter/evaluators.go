package filter

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
)

func (c Equals) Apply(b sq.SelectBuilder) sq.SelectBuilder {
	switch c.Operator {
	case "", "=":
		return b.Where(sq.Eq{c.Col: c.Value})
	case "!=", "<>":
		return b.Where(sq.NotEq{c.Col: c.Value})
	case ">":
		return b.Where(sq.Gt{c.Col: c.Value})
	case ">=":
		return b.Where(sq.GtOrEq{c.Col: c.Value})
	case "<":
		return b.Where(sq.Lt{c.Col: c.Value})
	case "<=":
		return b.Where(sq.LtOrEq{c.Col: c.Value})
	default:
		// decodeWhere rejects everything else
		return b.Where(sq.Eq{c.Col: c.Value})
	}
}

func (c In) Apply(b sq.SelectBuilder) sq.SelectBuilder {
	return b.Where(sq.Eq{c.Col: c.Values})
}

func (c Like) Apply(b sq.SelectBuilder) sq.SelectBuilder {
	return b.Where(sq.Like{c.Col: "%" + escapeLike(c.Value) + "%"})
}

func (c Between) Apply(b sq.SelectBuilder) sq.SelectBuilder {
	return b.Where(c.Col+" BETWEEN ? AND ?", c.Lower, c.Upper)
}

func (c JsonContains) Apply(b sq.SelectBuilder) sq.SelectBuilder {
	return b.Where(c.Col+" @> ?::jsonb", c.Doc)
}

func (c InSet) Apply(b sq.SelectBuilder) sq.SelectBuilder {
	// c.Col passed the allow-list at decode time; the value is bound.
	return b.Where("? = ANY (string_to_array("+c.Col+", ','))", c.Value)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE wildcards in a user-supplied value so it only
// ever matches literally.
func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}
