package uploads

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dpsmushkipur/bine/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Add(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.UploadedAt.IsZero() {
		rec.UploadedAt = time.Now()
	}

	query := `INSERT INTO uploads (id, user_id, source, file_name, file_path, file_type, size_label, uploaded_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, rec.ID, rec.UserID, rec.Source, rec.FileName, rec.FilePath,
		rec.FileType, rec.SizeLabel, rec.UploadedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert upload: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, userID string, limit int) ([]Record, error) {
	query := `SELECT id, user_id, source, file_name, file_path, file_type, size_label, uploaded_at
			FROM uploads WHERE user_id = ? ORDER BY uploaded_at DESC, rowid DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error selecting uploads: %w", err)
	}
	defer rows.Close()

	var result []Record
	for rows.Next() {
		var (
			rec Record
			ms  int64
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Source, &rec.FileName, &rec.FilePath,
			&rec.FileType, &rec.SizeLabel, &ms); err != nil {
			return nil, err
		}
		rec.UploadedAt = time.UnixMilli(ms)
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM uploads`); err != nil {
		return fmt.Errorf("failed to clear uploads: %w", err)
	}
	return nil
}
