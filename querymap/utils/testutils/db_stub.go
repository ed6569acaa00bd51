package testutils

import (
	"context"
	"errors"

	"github.com/krew-solutions/querymap-go/querymap/session"
	"github.com/krew-solutions/querymap-go/querymap/session/result"
	"github.com/krew-solutions/querymap-go/querymap/signals"
)

// ExecutedQuery is one statement recorded by the stub.
type ExecutedQuery struct {
	Query  string
	Params []any
}

// NewDbSessionStub creates a session double that records every statement and
// serves results from a FIFO queue of RowsStub values, one per Query or
// QueryRow call.
func NewDbSessionStub(results ...*RowsStub) *DbSessionStub {
	stub := &DbSessionStub{
		results:        results,
		onQueryStarted: signals.NewSignal[session.QueryStartedEvent](),
		onQueryEnded:   signals.NewSignal[session.QueryEndedEvent](),
	}
	stub.conn = &connectionStub{session: stub}
	return stub
}

type DbSessionStub struct {
	// Executed collects every statement in execution order.
	Executed []ExecutedQuery
	// ExecErr, when set, fails the n-th Exec call (zero-based) counted by
	// FailOnExec; -1 fails every Exec.
	ExecErr    error
	FailOnExec int
	// RowsAffected is returned by Exec calls.
	RowsAffected int64

	results        []*RowsStub
	execCount      int
	conn           *connectionStub
	onQueryStarted signals.Signal[session.QueryStartedEvent]
	onQueryEnded   signals.Signal[session.QueryEndedEvent]
}

func (s *DbSessionStub) Context() context.Context {
	return context.Background()
}

func (s *DbSessionStub) Atomic(callback session.SessionCallback) error {
	return callback(s)
}

func (s *DbSessionStub) Connection() session.DbConnection {
	return s.conn
}

func (s *DbSessionStub) OnQueryStarted() signals.Signal[session.QueryStartedEvent] {
	return s.onQueryStarted
}

func (s *DbSessionStub) OnQueryEnded() signals.Signal[session.QueryEndedEvent] {
	return s.onQueryEnded
}

// LastQuery returns the most recent statement, or an empty query.
func (s *DbSessionStub) LastQuery() ExecutedQuery {
	if len(s.Executed) == 0 {
		return ExecutedQuery{}
	}
	return s.Executed[len(s.Executed)-1]
}

// Queries returns just the SQL texts, in execution order.
func (s *DbSessionStub) Queries() []string {
	queries := make([]string, len(s.Executed))
	for i, q := range s.Executed {
		queries[i] = q.Query
	}
	return queries
}

func (s *DbSessionStub) nextRows() *RowsStub {
	if len(s.results) == 0 {
		return NewRowsStub(nil)
	}
	rows := s.results[0]
	s.results = s.results[1:]
	return rows
}

type connectionStub struct {
	session *DbSessionStub
}

func (c *connectionStub) Exec(query string, args ...any) (session.Result, error) {
	s := c.session
	s.Executed = append(s.Executed, ExecutedQuery{Query: query, Params: args})

	n := s.execCount
	s.execCount++
	if s.ExecErr != nil && (s.FailOnExec == -1 || s.FailOnExec == n) {
		return nil, s.ExecErr
	}
	return result.NewResult(s.RowsAffected), nil
}

func (c *connectionStub) Query(query string, args ...any) (session.Rows, error) {
	c.session.Executed = append(c.session.Executed, ExecutedQuery{Query: query, Params: args})
	return c.session.nextRows(), nil
}

func (c *connectionStub) QueryRow(query string, args ...any) session.Row {
	c.session.Executed = append(c.session.Executed, ExecutedQuery{Query: query, Params: args})
	return &RowStub{rows: c.session.nextRows()}
}

// NewRowsStub creates result rows over the given columns; each call to rows
// yields the values in order.
func NewRowsStub(columns []string, rows ...[]any) *RowsStub {
	return &RowsStub{
		columns: columns,
		rows:    rows,
		idx:     -1,
	}
}

type RowsStub struct {
	columns []string
	rows    [][]any
	idx     int
	Closed  bool
}

func (r *RowsStub) Close() error {
	r.Closed = true
	return nil
}

func (r *RowsStub) Err() error {
	return nil
}

func (r *RowsStub) Next() bool {
	r.idx++
	return r.idx < len(r.rows)
}

func (r *RowsStub) Columns() ([]string, error) {
	return r.columns, nil
}

func (r *RowsStub) Scan(dest ...any) error {
	if r.idx < 0 || r.idx >= len(r.rows) {
		return errors.New("no current row")
	}

	row := r.rows[r.idx]
	for i, val := range row {
		if i >= len(dest) {
			break
		}

		switch d := dest[i].(type) {
		case *any:
			*d = val
		case *int:
			*d = val.(int)
		case *int64:
			*d = toInt64(val)
		case *string:
			*d = val.(string)
		case *bool:
			*d = val.(bool)
		default:
			return errors.New("unsupported scan type")
		}
	}
	return nil
}

func toInt64(val any) int64 {
	switch v := val.(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case int32:
		return int64(v)
	default:
		panic("cannot convert to int64")
	}
}

type RowStub struct {
	rows *RowsStub
}

func (r *RowStub) Err() error {
	return r.rows.Err()
}

func (r *RowStub) Scan(dest ...any) error {
	if !r.rows.Next() {
		return errors.New("no rows in result set")
	}
	return r.rows.Scan(dest...)
}
