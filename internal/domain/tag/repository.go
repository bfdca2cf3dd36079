package tag

import "context"

// Repository abstracts tag and media-tag link persistence.
type Repository interface {
	Create(ctx context.Context, t Tag) (Tag, error)
	FindByName(ctx context.Context, name string) (Tag, bool, error)
	GetByID(ctx context.Context, id int64) (Tag, bool, error)
	Update(ctx context.Context, t Tag) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]Tag, error)

	// LinkMedia attaches tags to a media file; UnlinkMedia removes every
	// link for the file and returns the tag ids that were linked.
	LinkMedia(ctx context.Context, mediaID int64, tagIDs []int64) error
	UnlinkMedia(ctx context.Context, mediaID int64) ([]int64, error)
	TagNamesByMedia(ctx context.Context, mediaID int64) ([]string, error)
}
