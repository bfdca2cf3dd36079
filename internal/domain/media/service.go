package media

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/yanqian/media-album/internal/domain/tag"
	apperrors "github.com/yanqian/media-album/pkg/errors"
)

// UploadInput carries one multipart upload into the service.
type UploadInput struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
	Title       string
	Description string
	Tags        string
}

// Service exposes the media file workflows.
type Service interface {
	Upload(ctx context.Context, userID int64, in UploadInput) (UploadResult, error)
	MyMedia(ctx context.Context, userID int64, keyword string, page, size int) ([]MediaFile, int, error)
	PublicMedia(ctx context.Context, keyword string, page, size int) ([]MediaFile, int, error)
	Recent(ctx context.Context, page, limit int) ([]MediaFile, int, error)
	Detail(ctx context.Context, fileID int64) (MediaFile, error)
	Delete(ctx context.Context, fileID, userID int64) error
	BatchDelete(ctx context.Context, fileIDs []int64) error
	AdminDelete(ctx context.Context, fileID int64) error
	AdminUpdate(ctx context.Context, fileID int64, title, description string) error
	Download(ctx context.Context, fileID int64) (MediaFile, io.ReadCloser, error)
}

type service struct {
	repo    Repository
	tags    tag.Service
	storage ObjectStorage
	logger  *slog.Logger
}

// NewService constructs a Service instance.
func NewService(repo Repository, tags tag.Service, storage ObjectStorage, logger *slog.Logger) Service {
	return &service{
		repo:    repo,
		tags:    tags,
		storage: storage,
		logger:  logger.With("component", "media.service"),
	}
}

// Upload stores the object under a fresh uuid key and records the row.
func (s *service) Upload(ctx context.Context, userID int64, in UploadInput) (UploadResult, error) {
	if in.Reader == nil || in.Size == 0 {
		return UploadResult{}, apperrors.Wrap("invalid_input", "file cannot be empty", nil)
	}
	key := uuid.NewString()
	if ext := filepath.Ext(in.FileName); ext != "" {
		key += ext
	}
	contentType := in.ContentType
	if contentType == "" {
		contentType = "text/plain"
	}
	if err := s.storage.Put(ctx, key, in.Reader, in.Size, contentType); err != nil {
		return UploadResult{}, apperrors.Wrap("media_error", "failed to store file", err)
	}

	file, err := s.repo.Create(ctx, MediaFile{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		FilePath:    key,
		FileType:    contentType,
		FileSize:    in.Size,
		ViewCount:   0,
		Status:      1,
	})
	if err != nil {
		// Do not leave an orphaned object behind.
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.logger.Warn("failed to remove orphaned object", "key", key, "error", delErr)
		}
		return UploadResult{}, apperrors.Wrap("media_error", "failed to record file", err)
	}

	if strings.TrimSpace(in.Tags) != "" {
		if err := s.tags.AttachToMedia(ctx, file.ID, in.Tags); err != nil {
			return UploadResult{}, apperrors.Wrap("media_error", "failed to save tags", err)
		}
	}

	s.logger.Info("media uploaded", "file_id", file.ID, "user_id", userID, "size", in.Size)
	return UploadResult{
		FileID:     file.ID,
		FilePath:   file.FilePath,
		FileType:   file.FileType,
		CreateTime: file.CreateTime,
		UserID:     userID,
	}, nil
}

func (s *service) MyMedia(ctx context.Context, userID int64, keyword string, page, size int) ([]MediaFile, int, error) {
	offset, limit := pageWindow(page, size, 12)
	files, err := s.repo.FindByUser(ctx, userID, keyword, offset, limit)
	if err != nil {
		return nil, 0, apperrors.Wrap("media_error", "failed to list media", err)
	}
	total, err := s.repo.CountByUser(ctx, userID, keyword)
	if err != nil {
		return nil, 0, apperrors.Wrap("media_error", "failed to count media", err)
	}
	return files, total, nil
}

func (s *service) PublicMedia(ctx context.Context, keyword string, page, size int) ([]MediaFile, int, error) {
	offset, limit := pageWindow(page, size, 20)
	files, err := s.repo.FindPublic(ctx, keyword, offset, limit)
	if err != nil {
		return nil, 0, apperrors.Wrap("media_error", "failed to list media", err)
	}
	total, err := s.repo.CountPublic(ctx, keyword)
	if err != nil {
		return nil, 0, apperrors.Wrap("media_error", "failed to count media", err)
	}
	return files, total, nil
}

func (s *service) Recent(ctx context.Context, page, limit int) ([]MediaFile, int, error) {
	offset, window := pageWindow(page, limit, 8)
	files, err := s.repo.FindRecent(ctx, offset, window)
	if err != nil {
		return nil, 0, apperrors.Wrap("media_error", "failed to list media", err)
	}
	total, err := s.repo.CountRecent(ctx)
	if err != nil {
		return nil, 0, apperrors.Wrap("media_error", "failed to count media", err)
	}
	return files, total, nil
}

// Detail returns the row with its tag names joined into a single string.
func (s *service) Detail(ctx context.Context, fileID int64) (MediaFile, error) {
	file, found, err := s.repo.GetByID(ctx, fileID)
	if err != nil {
		return MediaFile{}, apperrors.Wrap("media_error", "failed to load media", err)
	}
	if !found {
		return MediaFile{}, apperrors.Wrap("media_not_found", "file not found", nil)
	}
	names, err := s.tags.NamesByMedia(ctx, fileID)
	if err != nil {
		s.logger.Warn("failed to load tags for media", "file_id", fileID, "error", err)
	} else if len(names) > 0 {
		file.Tags = strings.Join(names, ", ")
	}
	return file, nil
}

// Delete removes a file the caller owns.
func (s *service) Delete(ctx context.Context, fileID, userID int64) error {
	file, found, err := s.repo.GetByID(ctx, fileID)
	if err != nil {
		return apperrors.Wrap("media_error", "failed to load media", err)
	}
	if !found || file.UserID != userID {
		return apperrors.Wrap("delete_failed", "file not found or not owned by you", nil)
	}
	return s.removeFile(ctx, file)
}

// BatchDelete removes files without an ownership check, best effort on the
// stored objects.
func (s *service) BatchDelete(ctx context.Context, fileIDs []int64) error {
	for _, id := range fileIDs {
		file, found, err := s.repo.GetByID(ctx, id)
		if err != nil || !found {
			continue
		}
		if err := s.removeFile(ctx, file); err != nil {
			return err
		}
	}
	return nil
}

// AdminDelete removes any file regardless of owner.
func (s *service) AdminDelete(ctx context.Context, fileID int64) error {
	file, found, err := s.repo.GetByID(ctx, fileID)
	if err != nil {
		return apperrors.Wrap("media_error", "failed to load media", err)
	}
	if !found {
		return apperrors.Wrap("media_not_found", "file not found", nil)
	}
	return s.removeFile(ctx, file)
}

func (s *service) removeFile(ctx context.Context, file MediaFile) error {
	if err := s.storage.Delete(ctx, file.FilePath); err != nil {
		s.logger.Warn("failed to delete stored object", "key", file.FilePath, "error", err)
	}
	if err := s.tags.DetachFromMedia(ctx, file.ID); err != nil {
		s.logger.Warn("failed to detach tags", "file_id", file.ID, "error", err)
	}
	if err := s.repo.Delete(ctx, file.ID); err != nil {
		return apperrors.Wrap("media_error", "failed to delete media", err)
	}
	return nil
}

// AdminUpdate rewrites title and description only.
func (s *service) AdminUpdate(ctx context.Context, fileID int64, title, description string) error {
	file, found, err := s.repo.GetByID(ctx, fileID)
	if err != nil {
		return apperrors.Wrap("media_error", "failed to load media", err)
	}
	if !found {
		return apperrors.Wrap("media_not_found", "file not found", nil)
	}
	file.Title = title
	file.Description = description
	if err := s.repo.Update(ctx, file); err != nil {
		return apperrors.Wrap("media_error", "failed to update media", err)
	}
	return nil
}

// Download opens the stored object for streaming.
func (s *service) Download(ctx context.Context, fileID int64) (MediaFile, io.ReadCloser, error) {
	file, found, err := s.repo.GetByID(ctx, fileID)
	if err != nil {
		return MediaFile{}, nil, apperrors.Wrap("media_error", "failed to load media", err)
	}
	if !found {
		return MediaFile{}, nil, apperrors.Wrap("media_not_found", "file not found", nil)
	}
	reader, err := s.storage.Get(ctx, file.FilePath)
	if err != nil {
		return MediaFile{}, nil, apperrors.Wrap("media_error", "failed to open stored object", err)
	}
	return file, reader, nil
}

func pageWindow(page, size, defaultSize int) (offset, limit int) {
	if size < 1 {
		size = defaultSize
	}
	if page < 1 {
		page = 1
	}
	return (page - 1) * size, size
}
