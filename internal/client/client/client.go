package client

import (
	"context"
	"net/url"

	"github.com/dpsmushkipur/bine/internal/client/models"
)

// Client is the contract the services use to reach the school API.
//
// Fetch is for reads: it returns the decoded payload of a successful
// response so the caller can both parse and cache it. Do is for writes and
// returns whatever payload the backend sent back (often empty).
type Client interface {
	Ping(ctx context.Context) error
	Login(ctx context.Context, username, password string) (models.LoginResponse, error)
	Fetch(ctx context.Context, action string, params url.Values) ([]byte, error)
	Do(ctx context.Context, action string, params url.Values) ([]byte, error)
}
