package tag

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/yanqian/media-album/pkg/errors"
)

// Service manages tags and their links to media files.
type Service interface {
	List(ctx context.Context) ([]Tag, error)
	Add(ctx context.Context, name string) error
	Delete(ctx context.Context, id int64) error
	AttachToMedia(ctx context.Context, mediaID int64, tagsStr string) error
	DetachFromMedia(ctx context.Context, mediaID int64) error
	NamesByMedia(ctx context.Context, mediaID int64) ([]string, error)
}

type service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a Service instance.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{repo: repo, logger: logger.With("component", "tag.service")}
}

func (s *service) List(ctx context.Context) ([]Tag, error) {
	tags, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap("tag_error", "failed to list tags", err)
	}
	return tags, nil
}

func (s *service) Add(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.Wrap("invalid_input", "tag name cannot be empty", nil)
	}
	_, exists, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return apperrors.Wrap("tag_error", "failed to check tag", err)
	}
	if exists {
		return apperrors.Wrap("tag_exists", "tag already exists", nil)
	}
	if _, err := s.repo.Create(ctx, Tag{TagName: name}); err != nil {
		return apperrors.Wrap("tag_error", "failed to create tag", err)
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.Wrap("tag_error", "failed to delete tag", err)
	}
	return nil
}

// AttachToMedia replaces the file's tag links with the comma-separated
// names, creating missing tags and bumping use counts.
func (s *service) AttachToMedia(ctx context.Context, mediaID int64, tagsStr string) error {
	if mediaID == 0 || strings.TrimSpace(tagsStr) == "" {
		return apperrors.Wrap("invalid_input", "media id and tags are required", nil)
	}
	if _, err := s.repo.UnlinkMedia(ctx, mediaID); err != nil {
		return apperrors.Wrap("tag_error", "failed to clear existing tags", err)
	}

	var tagIDs []int64
	for _, name := range strings.Split(tagsStr, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		t, exists, err := s.repo.FindByName(ctx, name)
		if err != nil {
			return apperrors.Wrap("tag_error", "failed to look up tag", err)
		}
		if !exists {
			t, err = s.repo.Create(ctx, Tag{TagName: name, Count: 1})
			if err != nil {
				return apperrors.Wrap("tag_error", "failed to create tag", err)
			}
		} else {
			t.Count++
			if err := s.repo.Update(ctx, t); err != nil {
				return apperrors.Wrap("tag_error", "failed to update tag count", err)
			}
		}
		tagIDs = append(tagIDs, t.ID)
	}
	if len(tagIDs) == 0 {
		return nil
	}
	if err := s.repo.LinkMedia(ctx, mediaID, tagIDs); err != nil {
		return apperrors.Wrap("tag_error", "failed to link tags", err)
	}
	return nil
}

// DetachFromMedia drops the file's tag links and decrements use counts.
func (s *service) DetachFromMedia(ctx context.Context, mediaID int64) error {
	tagIDs, err := s.repo.UnlinkMedia(ctx, mediaID)
	if err != nil {
		return apperrors.Wrap("tag_error", "failed to unlink tags", err)
	}
	for _, id := range tagIDs {
		t, found, err := s.repo.GetByID(ctx, id)
		if err != nil || !found {
			continue
		}
		if t.Count > 0 {
			t.Count--
			if err := s.repo.Update(ctx, t); err != nil {
				s.logger.Warn("failed to decrement tag count", "tag_id", id, "error", err)
			}
		}
	}
	return nil
}

func (s *service) NamesByMedia(ctx context.Context, mediaID int64) ([]string, error) {
	names, err := s.repo.TagNamesByMedia(ctx, mediaID)
	if err != nil {
		return nil, apperrors.Wrap("tag_error", "failed to load tag names", err)
	}
	return names, nil
}
