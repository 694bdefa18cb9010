// Package mutation serialises writes per record: at most one change to a
// given record is in flight, and every attempt carries a fresh request id
// the backend can use to drop duplicates.
package mutation

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrInFlight = errors.New("a change to this record is already in progress")

type Guard struct {
	mu       sync.Mutex
	inflight map[string]struct{}
	newID    func() string
}

func NewGuard() *Guard {
	return &Guard{inflight: make(map[string]struct{}), newID: uuid.NewString}
}

// Do runs fn unless a mutation of recordID is already running, in which case
// it returns ErrInFlight without calling fn.
func (g *Guard) Do(ctx context.Context, recordID string, fn func(ctx context.Context, requestID string) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g.mu.Lock()
	if _, busy := g.inflight[recordID]; busy {
		g.mu.Unlock()
		return ErrInFlight
	}
	g.inflight[recordID] = struct{}{}
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		delete(g.inflight, recordID)
		g.mu.Unlock()
	}()

	return fn(ctx, g.newID())
}

func (g *Guard) inFlight(recordID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.inflight[recordID]
	return ok
}
