package repository

import (
	"context"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/krew-solutions/querymap-go/querymap/fault"
	"github.com/krew-solutions/querymap-go/querymap/option"
	"github.com/krew-solutions/querymap-go/querymap/session"
)

// Store inserts one record and returns the stored row. When the model
// declares a key factory and the payload carries no key, a key is generated
// client-side before the insert.
func (r *Repository) Store(ctx context.Context, data Record) (Record, error) {
	data = r.withGeneratedKey(data)

	columns, values := r.insertable(data)
	if len(columns) == 0 {
		return nil, fault.WriteFailed("unable to create " + r.model.Entity + ": no insertable columns")
	}

	b := sq.Insert(r.model.Table).
		Columns(columns...).
		Values(values...).
		Suffix("RETURNING " + strings.Join(r.model.Columns(), ", ")).
		PlaceholderFormat(sq.Dollar)

	record, err := r.returning(ctx, b.ToSql)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fault.WriteFailed("unable to create " + r.model.Entity)
	}

	r.logOp("store", map[string]any{"key": record[r.model.Key]})
	return record, nil
}

// StoreValidated runs the validation hook, then Store.
func (r *Repository) StoreValidated(ctx context.Context, data Record) (Record, error) {
	if err := r.validate(data, option.Nothing[any]()); err != nil {
		return nil, err
	}
	return r.Store(ctx, data)
}

// Update modifies the record with the given key and returns the updated row.
// An update affecting no row surfaces a WriteFailed fault.
func (r *Repository) Update(ctx context.Context, id any, data Record) (Record, error) {
	columns, values := r.insertable(data)
	if len(columns) == 0 {
		return nil, fault.WriteFailed("unable to update " + r.model.Entity + ": no updatable columns")
	}

	b := sq.Update(r.model.Table).
		Where(sq.Eq{r.model.Key: id}).
		Suffix("RETURNING " + strings.Join(r.model.Columns(), ", ")).
		PlaceholderFormat(sq.Dollar)
	for i, column := range columns {
		b = b.Set(column, values[i])
	}

	record, err := r.returning(ctx, b.ToSql)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fault.WriteFailed("unable to update " + r.model.Entity)
	}

	r.logOp("update", map[string]any{"key": id})
	return record, nil
}

// UpdateValidated runs the validation hook with the target key, then Update.
func (r *Repository) UpdateValidated(ctx context.Context, id any, data Record) (Record, error) {
	if err := r.validate(data, option.Some(id)); err != nil {
		return nil, err
	}
	return r.Update(ctx, id, data)
}

// Destroy deletes the record with the given key. A delete affecting no row
// surfaces a WriteFailed fault.
func (r *Repository) Destroy(ctx context.Context, id any) error {
	sqlText, args, err := sq.Delete(r.model.Table).
		Where(sq.Eq{r.model.Key: id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "unable to build delete")
	}

	return r.pool.Session(ctx, func(s session.Session) error {
		res, err := s.(session.DbSession).Connection().Exec(sqlText, args...)
		if err != nil {
			return errors.Wrapf(err, "unable to delete from %s", r.model.Table)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fault.WriteFailed("unable to delete " + r.model.Entity)
		}
		r.logOp("destroy", map[string]any{"key": id})
		return nil
	})
}

// returning executes a statement with a RETURNING clause and materializes
// the single returned row, or nil when nothing came back.
func (r *Repository) returning(ctx context.Context, toSql func() (string, []any, error)) (Record, error) {
	sqlText, args, err := toSql()
	if err != nil {
		return nil, errors.Wrap(err, "unable to build statement")
	}

	var record Record
	err = r.pool.Session(ctx, func(s session.Session) error {
		rows, err := s.(session.DbSession).Connection().Query(sqlText, args...)
		if err != nil {
			return errors.Wrapf(err, "unable to write to %s", r.model.Table)
		}
		records, err := scanRecords(rows)
		if err != nil {
			return err
		}
		if len(records) > 0 {
			record = records[0]
		}
		return nil
	})
	return record, err
}

// insertable restricts a record to the model's allow-listed columns, in
// sorted column order.
func (r *Repository) insertable(data Record) ([]string, []any) {
	columns := make([]string, 0, len(data))
	for column := range data {
		if r.model.AllowsColumn(column) {
			columns = append(columns, column)
		}
	}
	sort.Strings(columns)

	values := make([]any, len(columns))
	for i, column := range columns {
		values[i] = data[column]
	}
	return columns, values
}

func (r *Repository) withGeneratedKey(data Record) Record {
	if !r.model.HasKeyFactory() {
		return data
	}
	if value, ok := data[r.model.Key]; ok && value != nil && value != "" {
		return data
	}

	withKey := make(Record, len(data)+1)
	for column, value := range data {
		withKey[column] = value
	}
	withKey[r.model.Key] = r.model.NewKey()
	return withKey
}
