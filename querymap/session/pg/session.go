package pg

import (
	"context"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/krew-solutions/querymap-go/querymap/session"
	"github.com/krew-solutions/querymap-go/querymap/session/result"
	"github.com/krew-solutions/querymap-go/querymap/signals"
)

// Session represents a database session without transaction
type Session struct {
	ctx            context.Context
	conn           *pgxpool.Conn
	onQueryStarted signals.Signal[session.QueryStartedEvent]
	onQueryEnded   signals.Signal[session.QueryEndedEvent]
}

func NewSession(ctx context.Context, conn *pgxpool.Conn) *Session {
	return &Session{
		ctx:            ctx,
		conn:           conn,
		onQueryStarted: signals.NewSignal[session.QueryStartedEvent](),
		onQueryEnded:   signals.NewSignal[session.QueryEndedEvent](),
	}
}

func (s *Session) Context() context.Context {
	return s.ctx
}

func (s *Session) Connection() session.DbConnection {
	return &connection{session: s, exec: s.conn}
}

func (s *Session) OnQueryStarted() signals.Signal[session.QueryStartedEvent] {
	return s.onQueryStarted
}

func (s *Session) OnQueryEnded() signals.Signal[session.QueryEndedEvent] {
	return s.onQueryEnded
}

func (s *Session) Atomic(callback session.SessionCallback) error {
	tx, err := s.conn.Begin(s.ctx)
	if err != nil {
		return errors.Wrap(err, "unable to start transaction")
	}

	atomicSession := NewAtomicSession(s.ctx, tx, s)

	err = callback(atomicSession)
	if err != nil {
		if txErr := tx.Rollback(s.ctx); txErr != nil {
			return multierror.Append(err, txErr)
		}
		return err
	}

	if txErr := tx.Commit(s.ctx); txErr != nil {
		return errors.Wrap(txErr, "failed to commit transaction")
	}

	return nil
}

// AtomicSession represents a session inside transaction
type AtomicSession struct {
	ctx            context.Context
	tx             pgx.Tx
	parent         *Session
	onQueryStarted signals.Signal[session.QueryStartedEvent]
	onQueryEnded   signals.Signal[session.QueryEndedEvent]
}

func NewAtomicSession(ctx context.Context, tx pgx.Tx, parent *Session) *AtomicSession {
	return &AtomicSession{
		ctx:            ctx,
		tx:             tx,
		parent:         parent,
		onQueryStarted: parent.onQueryStarted,
		onQueryEnded:   parent.onQueryEnded,
	}
}

func (s *AtomicSession) Context() context.Context {
	return s.ctx
}

func (s *AtomicSession) Connection() session.DbConnection {
	return &connection{session: s, exec: s.tx}
}

func (s *AtomicSession) OnQueryStarted() signals.Signal[session.QueryStartedEvent] {
	return s.onQueryStarted
}

func (s *AtomicSession) OnQueryEnded() signals.Signal[session.QueryEndedEvent] {
	return s.onQueryEnded
}

func (s *AtomicSession) Atomic(callback session.SessionCallback) error {
	nestedTx, err := s.tx.Begin(s.ctx)
	if err != nil {
		return errors.Wrap(err, "unable to start savepoint")
	}

	atomicSession := &AtomicSession{
		ctx:            s.ctx,
		tx:             nestedTx,
		parent:         s.parent,
		onQueryStarted: s.onQueryStarted,
		onQueryEnded:   s.onQueryEnded,
	}

	err = callback(atomicSession)
	if err != nil {
		if txErr := nestedTx.Rollback(s.ctx); txErr != nil {
			return multierror.Append(err, txErr)
		}
		return err
	}

	if txErr := nestedTx.Commit(s.ctx); txErr != nil {
		return errors.Wrap(txErr, "failed to commit savepoint")
	}

	return nil
}

// observableDbSession is implemented by both Session and AtomicSession.
type observableDbSession interface {
	session.DbSession
	session.ObservableSession
}

// executor interface for both *pgxpool.Conn and pgx.Tx
type executor interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
}

// connection implements session.DbConnection
type connection struct {
	session observableDbSession
	exec    executor
}

func (c *connection) Exec(query string, args ...any) (session.Result, error) {
	started := c.started(query, args)

	tag, err := c.exec.Exec(c.session.Context(), query, args...)
	c.ended(started, query, args, err)
	if err != nil {
		return nil, err
	}

	return result.NewResult(tag.RowsAffected()), nil
}

func (c *connection) Query(query string, args ...any) (session.Rows, error) {
	started := c.started(query, args)

	rows, err := c.exec.Query(c.session.Context(), query, args...)
	c.ended(started, query, args, err)
	if err != nil {
		return nil, err
	}
	return &rowsAdapter{rows: rows}, nil
}

func (c *connection) QueryRow(query string, args ...any) session.Row {
	started := c.started(query, args)
	row := c.exec.QueryRow(c.session.Context(), query, args...)
	c.ended(started, query, args, nil)
	return &rowAdapter{row: row}
}

func (c *connection) started(query string, args []any) time.Time {
	c.session.OnQueryStarted().Notify(session.QueryStartedEvent{
		Query:   query,
		Params:  args,
		Session: c.session,
	})
	return time.Now()
}

func (c *connection) ended(started time.Time, query string, args []any, err error) {
	c.session.OnQueryEnded().Notify(session.QueryEndedEvent{
		Query:        query,
		Params:       args,
		Session:      c.session,
		Err:          err,
		ResponseTime: time.Since(started),
	})
}
