package repository

import (
	"context"
	"sort"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/krew-solutions/querymap-go/querymap/session"
)

// InsertMany splits items into consecutive chunks of at most chunkSize rows
// and issues one multi-row insert per chunk, in order. An empty items slice
// is a normal outcome reported as (false, nil) without contacting the
// backend. A failing chunk aborts the batch; chunks inserted before it stay
// committed — there is no compensating rollback.
//
// The column set is the sorted union of the items' allow-listed keys; rows
// missing a column insert NULL for it. chunkSize values below 1 fall back to
// the repository default.
func (r *Repository) InsertMany(ctx context.Context, items []Record, chunkSize int) (bool, error) {
	if len(items) == 0 {
		return false, nil
	}
	if chunkSize < 1 {
		chunkSize = r.chunkSize
	}

	columns := r.batchColumns(items)
	if len(columns) == 0 {
		return false, errors.Errorf("no insertable columns for %s batch", r.model.Entity)
	}

	err := r.pool.Session(ctx, func(s session.Session) error {
		db := s.(session.DbSession)
		for offset := 0; offset < len(items); offset += chunkSize {
			end := offset + chunkSize
			if end > len(items) {
				end = len(items)
			}

			if err := r.insertChunk(db, columns, items[offset:end]); err != nil {
				return errors.Wrapf(err, "chunk starting at item %d failed", offset)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	r.logOp("insertMany", map[string]any{"items": len(items)})
	return true, nil
}

func (r *Repository) insertChunk(db session.DbSession, columns []string, chunk []Record) error {
	b := sq.Insert(r.model.Table).
		Columns(columns...).
		PlaceholderFormat(sq.Dollar)

	for _, item := range chunk {
		values := make([]any, len(columns))
		for i, column := range columns {
			values[i] = item[column]
		}
		b = b.Values(values...)
	}

	sqlText, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "unable to build chunk insert")
	}

	_, err = db.Connection().Exec(sqlText, args...)
	return err
}

func (r *Repository) batchColumns(items []Record) []string {
	seen := make(map[string]struct{})
	for _, item := range items {
		for column := range item {
			if r.model.AllowsColumn(column) {
				seen[column] = struct{}{}
			}
		}
	}

	columns := make([]string, 0, len(seen))
	for column := range seen {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	return columns
}
