package responses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dpsmushkipur/bine/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Put(ctx context.Context, e Entry) error {
	if e.Body == nil {
		e.Body = []byte{}
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO responses (key, action, body, fetched_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			action = excluded.action,
			body = excluded.body,
			fetched_at = excluded.fetched_at
	`, e.Key, e.Action, e.Body, e.FetchedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to put response[%s]: %w", e.Key, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (Entry, error) {
	var (
		e  = Entry{Key: key}
		ms int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT action, body, fetched_at FROM responses WHERE key = ?`, key).
		Scan(&e.Action, &e.Body, &ms)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("failed to get response[%s]: %w", key, err)
	}
	e.FetchedAt = time.UnixMilli(ms)
	return e, nil
}

func (r *SQLiteRepository) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM responses WHERE fetched_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to prune responses: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to prune responses: %w", err)
	}
	return n, nil
}
