package media

import (
	"context"
	"io"
)

// Repository abstracts media row persistence.
type Repository interface {
	Create(ctx context.Context, file MediaFile) (MediaFile, error)
	GetByID(ctx context.Context, id int64) (MediaFile, bool, error)
	Update(ctx context.Context, file MediaFile) error
	Delete(ctx context.Context, id int64) error

	FindByUser(ctx context.Context, userID int64, keyword string, offset, limit int) ([]MediaFile, error)
	CountByUser(ctx context.Context, userID int64, keyword string) (int, error)
	FindPublic(ctx context.Context, keyword string, offset, limit int) ([]MediaFile, error)
	CountPublic(ctx context.Context, keyword string) (int, error)
	FindRecent(ctx context.Context, offset, limit int) ([]MediaFile, error)
	CountRecent(ctx context.Context) (int, error)
}

// ObjectStorage holds the uploaded bytes, keyed by the row's FilePath.
type ObjectStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
