package services

import (
	"context"
	"net/url"

	"github.com/dpsmushkipur/bine/internal/client/session"
)

// screen is what every screen service shares.
type screen struct {
	deps  Deps
	fetch *Fetcher
}

func newScreen(d Deps) screen {
	d = d.withDefaults()
	return screen{deps: d, fetch: NewFetcher(d)}
}

func signedIn(s session.Session) error {
	if s.UserID == "" {
		return session.ErrNoSession
	}
	return nil
}

func staffOnly(s session.Session) error {
	if err := signedIn(s); err != nil {
		return err
	}
	if !s.IsStaff() {
		return ErrForbidden
	}
	return nil
}

// write sends one guarded mutation of recordID.
func (sc screen) write(ctx context.Context, recordID, action string, params url.Values) ([]byte, error) {
	var out []byte
	err := sc.deps.Guard.Do(ctx, recordID, func(ctx context.Context, requestID string) error {
		params.Set("request_id", requestID)
		b, err := sc.deps.Client.Do(ctx, action, params)
		out = b
		return err
	})
	return out, err
}

// reconcile re-fetches after a write. The write already succeeded, so a
// failure here is only logged.
func (sc screen) reconcile(ctx context.Context, what string, load func(ctx context.Context) error) {
	if err := load(ctx); err != nil {
		sc.deps.Logger.Warn(ctx, "reconcile failed", "screen", what, "error", err)
	}
}
