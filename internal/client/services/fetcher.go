package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dpsmushkipur/bine/internal/client/cache"
	"github.com/dpsmushkipur/bine/internal/client/client"
	"github.com/dpsmushkipur/bine/internal/client/repositories/responses"
	"github.com/dpsmushkipur/bine/internal/logging"
)

// Fetched is one read, from the network or the cache.
type Fetched struct {
	Payload   []byte
	Stale     bool
	FetchedAt time.Time
}

// Fetcher reads from the API and keeps the last good payload per request.
type Fetcher struct {
	client    client.Client
	responses responses.Repository
	log       logging.Logger
	now       func() time.Time
}

func NewFetcher(d Deps) *Fetcher {
	d = d.withDefaults()
	return &Fetcher{client: d.Client, responses: d.Responses, log: d.Logger, now: d.Now}
}

// Load fetches action. On success the payload is cached; when the API is
// unavailable the cached payload is returned with Stale set. With nothing
// cached the original error is returned.
func (f *Fetcher) Load(ctx context.Context, action string, params url.Values) (Fetched, error) {
	key := cache.Key(action, params)

	payload, err := f.client.Fetch(ctx, action, params)
	if err == nil {
		now := f.now()
		if f.responses != nil {
			if perr := f.responses.Put(ctx, responses.Entry{Key: key, Action: action, Body: payload, FetchedAt: now}); perr != nil {
				f.log.Warn(ctx, "cache write failed", "key", key, "error", perr)
			}
		}
		return Fetched{Payload: payload, FetchedAt: now}, nil
	}

	if !errors.Is(err, client.ErrUnavailable) || f.responses == nil {
		return Fetched{}, err
	}

	e, cerr := f.responses.Get(ctx, key)
	if errors.Is(cerr, responses.ErrNotFound) {
		return Fetched{}, err
	}
	if cerr != nil {
		return Fetched{}, fmt.Errorf("%w (cache: %v)", err, cerr)
	}

	f.log.Info(ctx, "serving cached response", "key", key, "fetched_at", e.FetchedAt)
	return Fetched{Payload: e.Body, Stale: true, FetchedAt: e.FetchedAt}, nil
}

// fetchAs loads action and decodes the payload into T.
func fetchAs[T any](ctx context.Context, f *Fetcher, action string, params url.Values) (T, Fetched, error) {
	res, err := f.Load(ctx, action, params)
	if err != nil {
		var zero T
		return zero, Fetched{}, err
	}
	v, err := client.Decode[T](action, res.Payload)
	if err != nil {
		var zero T
		return zero, Fetched{}, err
	}
	return v, res, nil
}
