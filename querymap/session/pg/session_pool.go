package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/krew-solutions/querymap-go/querymap/session"
	"github.com/krew-solutions/querymap-go/querymap/signals"
)

type SessionPool struct {
	pool             *pgxpool.Pool
	logger           zerolog.Logger
	onSessionStarted signals.Signal[session.SessionScopeStartedEvent]
	onSessionEnded   signals.Signal[session.SessionScopeEndedEvent]
}

type SessionPoolOption func(*SessionPool)

// WithLogger enables query logging: every query executed through sessions of
// this pool is logged at debug level with its SQL, arg count and duration.
func WithLogger(logger zerolog.Logger) SessionPoolOption {
	return func(p *SessionPool) {
		p.logger = logger
	}
}

func NewSessionPool(pool *pgxpool.Pool, options ...SessionPoolOption) *SessionPool {
	p := &SessionPool{
		pool:             pool,
		logger:           zerolog.Nop(),
		onSessionStarted: signals.NewSignal[session.SessionScopeStartedEvent](),
		onSessionEnded:   signals.NewSignal[session.SessionScopeEndedEvent](),
	}
	for _, option := range options {
		option(p)
	}
	return p
}

func (p *SessionPool) OnSessionStarted() signals.Signal[session.SessionScopeStartedEvent] {
	return p.onSessionStarted
}

func (p *SessionPool) OnSessionEnded() signals.Signal[session.SessionScopeEndedEvent] {
	return p.onSessionEnded
}

func (p *SessionPool) Session(ctx context.Context, callback session.SessionPoolCallback) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	sess := NewSession(ctx, conn)
	sess.OnQueryEnded().Attach(p.logQuery, "pool-query-log")

	p.onSessionStarted.Notify(session.SessionScopeStartedEvent{Session: sess})

	err = callback(sess)

	p.onSessionEnded.Notify(session.SessionScopeEndedEvent{Session: sess})

	return err
}

func (p *SessionPool) logQuery(e session.QueryEndedEvent) {
	event := p.logger.Debug()
	if e.Err != nil {
		event = p.logger.Warn().Err(e.Err)
	}
	event.
		Str("sql", e.Query).
		Int("args", len(e.Params)).
		Dur("duration", e.ResponseTime).
		Msg("query executed")
}
