package uploads

import (
	"context"
	"time"
)

// Record is one successful upload.
type Record struct {
	ID         string
	UserID     string
	Source     string
	FileName   string
	FilePath   string
	FileType   string
	SizeLabel  string
	UploadedAt time.Time
}

// Repository describes the operations on the upload history.
type Repository interface {
	// Add stores r. An empty ID is filled in.
	Add(ctx context.Context, r *Record) error

	// ListByUser returns the newest uploads of userID first, at most limit
	// (all when limit <= 0).
	ListByUser(ctx context.Context, userID string, limit int) ([]Record, error)

	// Clear removes the whole history.
	Clear(ctx context.Context) error
}
