package testutils

import (
	"context"

	"github.com/krew-solutions/querymap-go/querymap/session"
)

// SessionPoolStub hands the same stub session to every callback.
type SessionPoolStub struct {
	Stub *DbSessionStub
	// SessionCount tracks how many sessions were opened.
	SessionCount int
}

func NewSessionPoolStub(stub *DbSessionStub) *SessionPoolStub {
	return &SessionPoolStub{Stub: stub}
}

func (p *SessionPoolStub) Session(ctx context.Context, callback session.SessionPoolCallback) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.SessionCount++
	return callback(p.Stub)
}
