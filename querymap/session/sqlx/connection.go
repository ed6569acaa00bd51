package sqlx

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/krew-solutions/querymap-go/querymap/session"
	"github.com/krew-solutions/querymap-go/querymap/session/result"
)

type connection struct {
	session *Session
}

func (c *connection) Exec(query string, args ...any) (session.Result, error) {
	started := c.started(query, args)

	res, err := c.session.exec.ExecContext(c.session.ctx, query, args...)
	c.ended(started, query, args, err)
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	return result.NewResult(affected), nil
}

func (c *connection) Query(query string, args ...any) (session.Rows, error) {
	started := c.started(query, args)

	rows, err := c.session.exec.QueryxContext(c.session.ctx, query, args...)
	c.ended(started, query, args, err)
	if err != nil {
		return nil, err
	}
	return &rowsAdapter{rows: rows}, nil
}

func (c *connection) QueryRow(query string, args ...any) session.Row {
	started := c.started(query, args)
	row := c.session.exec.QueryRowxContext(c.session.ctx, query, args...)
	c.ended(started, query, args, nil)
	return &rowAdapter{row: row}
}

func (c *connection) started(query string, args []any) time.Time {
	c.session.onQueryStarted.Notify(session.QueryStartedEvent{
		Query:   query,
		Params:  args,
		Session: c.session,
	})
	return time.Now()
}

func (c *connection) ended(started time.Time, query string, args []any, err error) {
	c.session.onQueryEnded.Notify(session.QueryEndedEvent{
		Query:        query,
		Params:       args,
		Session:      c.session,
		Err:          err,
		ResponseTime: time.Since(started),
	})
}

// rowsAdapter adapts *sqlx.Rows to session.Rows
type rowsAdapter struct {
	rows *sqlx.Rows
}

func (r *rowsAdapter) Close() error {
	return r.rows.Close()
}

func (r *rowsAdapter) Err() error {
	return r.rows.Err()
}

func (r *rowsAdapter) Next() bool {
	return r.rows.Next()
}

func (r *rowsAdapter) Columns() ([]string, error) {
	return r.rows.Columns()
}

func (r *rowsAdapter) Scan(dest ...any) error {
	return r.rows.Scan(dest...)
}

// rowAdapter adapts *sqlx.Row to session.Row
type rowAdapter struct {
	row *sqlx.Row
	err error
}

func (r *rowAdapter) Err() error {
	return r.err
}

func (r *rowAdapter) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	if r.err == nil {
		r.err = err
	}
	return err
}
