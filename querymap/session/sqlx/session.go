package sqlx

import (
	"context"
	"database/sql"

	"github.com/hashicorp/go-multierror"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/krew-solutions/querymap-go/querymap/session"
	"github.com/krew-solutions/querymap-go/querymap/signals"
)

// executor covers *sqlx.DB and *sqlx.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error)
	QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row
}

// Session is a database/sql backed session. Unlike the pgx session it does not
// support savepoint nesting; a nested Atomic fails.
type Session struct {
	ctx            context.Context
	db             *sqlx.DB
	exec           executor
	onQueryStarted signals.Signal[session.QueryStartedEvent]
	onQueryEnded   signals.Signal[session.QueryEndedEvent]
}

func NewSession(ctx context.Context, db *sqlx.DB) *Session {
	return &Session{
		ctx:            ctx,
		db:             db,
		exec:           db,
		onQueryStarted: signals.NewSignal[session.QueryStartedEvent](),
		onQueryEnded:   signals.NewSignal[session.QueryEndedEvent](),
	}
}

func (s *Session) Context() context.Context {
	return s.ctx
}

func (s *Session) Connection() session.DbConnection {
	return &connection{session: s}
}

func (s *Session) OnQueryStarted() signals.Signal[session.QueryStartedEvent] {
	return s.onQueryStarted
}

func (s *Session) OnQueryEnded() signals.Signal[session.QueryEndedEvent] {
	return s.onQueryEnded
}

func (s *Session) Atomic(callback session.SessionCallback) error {
	// TODO: savepoint support for nested transactions, see
	// https://github.com/golang/go/issues/7898
	if s.db == nil {
		return errors.New("savepoints are not supported by the sqlx session")
	}
	tx, err := s.db.BeginTxx(s.ctx, nil)
	if err != nil {
		return errors.Wrap(err, "unable to start transaction")
	}

	txSession := &Session{
		ctx:            s.ctx,
		exec:           tx,
		onQueryStarted: s.onQueryStarted,
		onQueryEnded:   s.onQueryEnded,
	}

	err = callback(txSession)
	if err != nil {
		if txErr := tx.Rollback(); txErr != nil {
			return multierror.Append(err, txErr)
		}
		return err
	}

	if txErr := tx.Commit(); txErr != nil {
		return errors.Wrap(txErr, "failed to commit transaction")
	}
	return nil
}
