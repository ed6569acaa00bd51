package repository

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/krew-solutions/querymap-go/querymap/registry"
	"github.com/krew-solutions/querymap-go/querymap/session"
)

// loadRelations attaches child rows to each record under the relation name,
// one query per relation over the collected parent keys.
func (r *Repository) loadRelations(db session.DbSession, records []Record, eager []string) error {
	if len(records) == 0 {
		return nil
	}

	for _, name := range eager {
		relation, ok := r.model.Relation(name)
		if !ok {
			return registry.UnknownRelationError{Entity: r.model.Entity, Relation: name}
		}
		if err := r.loadRelation(db, records, name, relation); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) loadRelation(db session.DbSession, records []Record, name string, relation registry.Relation) error {
	parents := make([]any, 0, len(records))
	seen := make(map[string]struct{})
	for _, record := range records {
		value, ok := record[relation.ParentColumn]
		if !ok || value == nil {
			continue
		}
		key := fmt.Sprint(value)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		parents = append(parents, value)
	}

	for _, record := range records {
		record[name] = []Record{}
	}
	if len(parents) == 0 {
		return nil
	}

	b := sq.Select("*").
		From(relation.Table).
		Where(sq.Eq{relation.ChildColumn: parents}).
		PlaceholderFormat(sq.Dollar)

	children, err := r.collect(db, b)
	if err != nil {
		return err
	}

	byParent := make(map[string][]Record)
	for _, child := range children {
		key := fmt.Sprint(child[relation.ChildColumn])
		byParent[key] = append(byParent[key], child)
	}

	for _, record := range records {
		value, ok := record[relation.ParentColumn]
		if !ok || value == nil {
			continue
		}
		if group, found := byParent[fmt.Sprint(value)]; found {
			record[name] = group
		}
	}
	return nil
}
