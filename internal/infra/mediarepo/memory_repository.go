package mediarepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yanqian/media-album/internal/domain/media"
)

// MemoryRepository provides an in-memory media store for tests/dev.
type MemoryRepository struct {
	mu    sync.RWMutex
	files map[int64]media.MediaFile
	seq   int64

	// uploaderName lets FindRecent fill the join column without a user table.
	uploaderName func(userID int64) string
}

// NewMemoryRepository constructs a new in-memory repository. The lookup may
// be nil, in which case uploader names stay empty.
func NewMemoryRepository(uploaderName func(userID int64) string) *MemoryRepository {
	return &MemoryRepository{
		files:        make(map[int64]media.MediaFile),
		uploaderName: uploaderName,
	}
}

// Create stores the media record.
func (r *MemoryRepository) Create(_ context.Context, file media.MediaFile) (media.MediaFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	file.ID = r.seq
	now := time.Now().UTC()
	file.CreateTime = now
	file.UpdateTime = now
	r.files[file.ID] = file
	return file, nil
}

// GetByID fetches by ID.
func (r *MemoryRepository) GetByID(_ context.Context, id int64) (media.MediaFile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	file, ok := r.files[id]
	return file, ok, nil
}

// Update rewrites the stored record.
func (r *MemoryRepository) Update(_ context.Context, file media.MediaFile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.files[file.ID]
	if !ok {
		return nil
	}
	file.CreateTime = stored.CreateTime
	file.UpdateTime = time.Now().UTC()
	r.files[file.ID] = file
	return nil
}

// Delete removes the record.
func (r *MemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.files, id)
	return nil
}

// FindByUser lists a user's files, newest first.
func (r *MemoryRepository) FindByUser(_ context.Context, userID int64, keyword string, offset, limit int) ([]media.MediaFile, error) {
	return r.window(r.matching(func(f media.MediaFile) bool {
		return f.UserID == userID && matchesKeyword(f, keyword)
	}), offset, limit), nil
}

// CountByUser counts a user's files under the keyword filter.
func (r *MemoryRepository) CountByUser(_ context.Context, userID int64, keyword string) (int, error) {
	return len(r.matching(func(f media.MediaFile) bool {
		return f.UserID == userID && matchesKeyword(f, keyword)
	})), nil
}

// FindPublic lists public files, newest first.
func (r *MemoryRepository) FindPublic(_ context.Context, keyword string, offset, limit int) ([]media.MediaFile, error) {
	return r.window(r.matching(func(f media.MediaFile) bool {
		return f.Status == 1 && matchesKeyword(f, keyword)
	}), offset, limit), nil
}

// CountPublic counts public files under the keyword filter.
func (r *MemoryRepository) CountPublic(_ context.Context, keyword string) (int, error) {
	return len(r.matching(func(f media.MediaFile) bool {
		return f.Status == 1 && matchesKeyword(f, keyword)
	})), nil
}

// FindRecent lists the newest public files with uploader names filled in.
func (r *MemoryRepository) FindRecent(_ context.Context, offset, limit int) ([]media.MediaFile, error) {
	files := r.window(r.matching(func(f media.MediaFile) bool {
		return f.Status == 1
	}), offset, limit)
	if r.uploaderName != nil {
		for i := range files {
			files[i].UploaderName = r.uploaderName(files[i].UserID)
		}
	}
	return files, nil
}

// CountRecent counts the public files.
func (r *MemoryRepository) CountRecent(_ context.Context) (int, error) {
	return len(r.matching(func(f media.MediaFile) bool {
		return f.Status == 1
	})), nil
}

func (r *MemoryRepository) matching(keep func(media.MediaFile) bool) []media.MediaFile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var files []media.MediaFile
	for _, file := range r.files {
		if keep(file) {
			files = append(files, file)
		}
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].CreateTime.Equal(files[j].CreateTime) {
			return files[i].ID > files[j].ID
		}
		return files[i].CreateTime.After(files[j].CreateTime)
	})
	return files
}

func (r *MemoryRepository) window(files []media.MediaFile, offset, limit int) []media.MediaFile {
	if offset >= len(files) {
		return []media.MediaFile{}
	}
	end := offset + limit
	if end > len(files) {
		end = len(files)
	}
	return files[offset:end]
}

func matchesKeyword(f media.MediaFile, keyword string) bool {
	if keyword == "" {
		return true
	}
	return strings.Contains(strings.ToLower(f.Title), strings.ToLower(keyword))
}

var _ media.Repository = (*MemoryRepository)(nil)
