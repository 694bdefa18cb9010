// Package metadata stores small key/value facts the client needs across
// runs, such as the last signed-in session.
package metadata

import (
	"context"
)

// Repository is a string-keyed blob store. Get returns (nil, nil) for a
// missing key and a non-nil empty slice for an empty value.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
