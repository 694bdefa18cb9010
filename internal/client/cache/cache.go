// Package cache opens the local SQLite database that backs the offline
// fallback and the saved session.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/dpsmushkipur/bine/internal/client/migrations"
	"github.com/dpsmushkipur/bine/internal/client/repositories/metadata"
	"github.com/dpsmushkipur/bine/internal/client/repositories/responses"
	"github.com/dpsmushkipur/bine/internal/client/repositories/uploads"
	"github.com/dpsmushkipur/bine/internal/dbx"

	_ "modernc.org/sqlite"
)

// Store bundles the database and its repositories.
type Store struct {
	DB        *sql.DB
	Responses responses.Repository
	Metadata  metadata.Repository
	Uploads   uploads.Repository
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Open opens (creating if needed) the database at dsn and migrates it.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", dsn, err)
	}
	// One connection: SQLite serialises writers anyway and ":memory:" is
	// per-connection.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		DB:        db,
		Responses: responses.NewSQLiteRepository(db),
		Metadata:  metadata.NewSQLiteRepository(db),
		Uploads:   uploads.NewSQLiteRepository(db),
	}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// Reset wipes cached responses, metadata and the upload history in one
// transaction.
func (s *Store) Reset(ctx context.Context) error {
	return dbx.WithTx(ctx, s.DB, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM responses`); err != nil {
			return fmt.Errorf("clear responses: %w", err)
		}
		if err := uploads.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		return metadata.NewSQLiteRepository(tx).Clear(ctx)
	})
}

// ignoredParams never take part in a cache key.
var ignoredParams = map[string]bool{"token": true, "request_id": true}

// Key builds a stable cache key from an action and its parameters. Params
// are sorted; the session token and request ids are left out so a fresh
// login still finds earlier responses.
func Key(action string, params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if !ignoredParams[k] {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return action
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(action)
	b.WriteByte('?')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		vs := append([]string(nil), params[k]...)
		sort.Strings(vs)
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(strings.Join(vs, ",")))
	}
	return b.String()
}
