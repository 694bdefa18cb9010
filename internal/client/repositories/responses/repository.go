// Package responses keeps the last successful payload of each read so a
// screen can still show something when the API is unreachable.
package responses

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("no cached response")

// Entry is one cached payload.
type Entry struct {
	Key       string
	Action    string
	Body      []byte
	FetchedAt time.Time
}

type Repository interface {
	// Put stores or replaces the payload for key.
	Put(ctx context.Context, e Entry) error
	// Get returns ErrNotFound when nothing is cached under key.
	Get(ctx context.Context, key string) (Entry, error)
	// Prune drops entries fetched before cutoff and returns how many went.
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}
