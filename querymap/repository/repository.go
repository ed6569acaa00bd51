package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/krew-solutions/querymap-go/querymap/fault"
	"github.com/krew-solutions/querymap-go/querymap/filter"
	"github.com/krew-solutions/querymap-go/querymap/query"
	"github.com/krew-solutions/querymap-go/querymap/registry"
	"github.com/krew-solutions/querymap-go/querymap/session"
)

// Record is a generic row: column name to scanned value.
type Record = map[string]any

const (
	defaultPageSize  = 15
	defaultChunkSize = 100
)

// Repository exposes the filter engine over one model: reads, paginated
// reads, writes, validated writes and chunked batch insert. One payload and
// one builder exist per call; nothing is shared across calls.
type Repository struct {
	model    *registry.Model
	pool     session.SessionPool
	composer *query.Composer
	validate ValidateFunc
	logger   zerolog.Logger

	pageSize  int
	chunkSize int
}

type Option func(*Repository)

// WithValidator installs the hook invoked by the validated entry points.
func WithValidator(validate ValidateFunc) Option {
	return func(r *Repository) {
		r.validate = validate
	}
}

// WithLogger enables debug logging of repository operations.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Repository) {
		r.logger = logger
	}
}

// WithDefaultPageSize overrides the page size used when the payload carries
// no page_size control.
func WithDefaultPageSize(size int) Option {
	return func(r *Repository) {
		r.pageSize = size
	}
}

// WithDefaultChunkSize overrides the batch insert chunk size.
func WithDefaultChunkSize(size int) Option {
	return func(r *Repository) {
		r.chunkSize = size
	}
}

func NewRepository(model *registry.Model, pool session.SessionPool, options ...Option) *Repository {
	r := &Repository{
		model:     model,
		pool:      pool,
		composer:  query.NewComposer(model),
		validate:  NoValidation,
		logger:    zerolog.Nop(),
		pageSize:  defaultPageSize,
		chunkSize: defaultChunkSize,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *Repository) Model() *registry.Model {
	return r.model
}

// All returns every record matching the payload, eager loading the named
// relations, ordered by the spec (key column descending when empty).
func (r *Repository) All(ctx context.Context, payload filter.Payload, eager []string, order query.OrderSpec) ([]Record, error) {
	conds, err := filter.Decode(r.model, payload)
	if err != nil {
		return nil, err
	}

	b, err := r.composer.Compose(conds, order)
	if err != nil {
		return nil, err
	}

	var records []Record
	err = r.pool.Session(ctx, func(s session.Session) error {
		db := s.(session.DbSession)
		var err error
		if records, err = r.collect(db, b); err != nil {
			return err
		}
		return r.loadRelations(db, records, eager)
	})
	if err != nil {
		return nil, err
	}

	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// First returns the first record matching the payload, or a NotFound fault.
func (r *Repository) First(ctx context.Context, payload filter.Payload, eager []string, order query.OrderSpec) (Record, error) {
	conds, err := filter.Decode(r.model, payload)
	if err != nil {
		return nil, err
	}

	b, err := r.composer.Compose(conds, order)
	if err != nil {
		return nil, err
	}

	record, err := r.one(ctx, b.Limit(1), eager)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fault.NotFound()
	}
	return record, nil
}

// Find returns the record with the given key, or a NotFound fault.
func (r *Repository) Find(ctx context.Context, id any) (Record, error) {
	return r.Show(ctx, id)
}

// Show returns the record with the given key. A missing row surfaces a
// NotFound fault carrying the default message, or the caller's message when
// one is given.
func (r *Repository) Show(ctx context.Context, id any, message ...string) (Record, error) {
	record, err := r.one(ctx, r.composer.ComposeByKey(id), nil)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fault.NotFound(message...)
	}
	return record, nil
}

// Count returns the size of the full filtered set.
func (r *Repository) Count(ctx context.Context, payload filter.Payload) (int64, error) {
	conds, err := filter.Decode(r.model, payload)
	if err != nil {
		return 0, err
	}
	var total int64
	err = r.pool.Session(ctx, func(s session.Session) error {
		return r.count(s.(session.DbSession), conds, &total)
	})
	return total, err
}

// Paginate slices the filtered set into one page. Page and page size come
// from the payload's control keys (defaults: page 1, page size 15); the
// controls never become column predicates. Total is computed over the full
// filtered set.
func (r *Repository) Paginate(ctx context.Context, payload filter.Payload, eager []string, order query.OrderSpec) (*query.Page, error) {
	conds, err := filter.Decode(r.model, payload)
	if err != nil {
		return nil, err
	}

	pageSize := conds.PageSize().UnwrapOr(r.pageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	page := conds.Page().UnwrapOr(1)
	if page < 1 {
		page = 1
	}

	b, err := r.composer.Compose(conds, order)
	if err != nil {
		return nil, err
	}
	b = b.Limit(uint64(pageSize)).Offset(uint64(page-1) * uint64(pageSize))

	result := &query.Page{Page: page, PageSize: pageSize, Items: []Record{}}
	err = r.pool.Session(ctx, func(s session.Session) error {
		db := s.(session.DbSession)

		items, err := r.collect(db, b)
		if err != nil {
			return err
		}
		if err := r.loadRelations(db, items, eager); err != nil {
			return err
		}
		if items != nil {
			result.Items = items
		}

		return r.count(db, conds, &result.Total)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Repository) count(db session.DbSession, conds *filter.Conditions, total *int64) error {
	sqlText, args, err := r.composer.ComposeCount(conds).ToSql()
	if err != nil {
		return errors.Wrap(err, "unable to build count query")
	}
	return db.Connection().QueryRow(sqlText, args...).Scan(total)
}

// one materializes at most one record from the builder.
func (r *Repository) one(ctx context.Context, b sq.SelectBuilder, eager []string) (Record, error) {
	var record Record
	err := r.pool.Session(ctx, func(s session.Session) error {
		db := s.(session.DbSession)

		records, err := r.collect(db, b)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		if err := r.loadRelations(db, records[:1], eager); err != nil {
			return err
		}
		record = records[0]
		return nil
	})
	return record, err
}

func (r *Repository) collect(db session.DbSession, b sq.SelectBuilder) ([]Record, error) {
	sqlText, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "unable to build query")
	}

	rows, err := db.Connection().Query(sqlText, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to query %s", r.model.Table)
	}
	return scanRecords(rows)
}

func (r *Repository) logOp(op string, fields map[string]any) {
	event := r.logger.Debug().Str("entity", r.model.Entity).Str("op", op)
	for key, value := range fields {
		event = event.Str(key, fmt.Sprint(value))
	}
	event.Msg("repository operation")
}
