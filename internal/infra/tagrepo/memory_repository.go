package tagrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/yanqian/media-album/internal/domain/tag"
)

// MemoryRepository provides an in-memory tag store for tests/dev.
type MemoryRepository struct {
	mu        sync.RWMutex
	tags      map[int64]tag.Tag
	nameIndex map[string]int64
	links     map[int64][]int64 // mediaID -> tagIDs
	seq       int64
}

// NewMemoryRepository constructs a new in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		tags:      make(map[int64]tag.Tag),
		nameIndex: make(map[string]int64),
		links:     make(map[int64][]int64),
	}
}

// Create stores the tag record.
func (r *MemoryRepository) Create(_ context.Context, t tag.Tag) (tag.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	t.ID = r.seq
	r.tags[t.ID] = t
	r.nameIndex[t.TagName] = t.ID
	return t, nil
}

// FindByName returns a tag by name.
func (r *MemoryRepository) FindByName(_ context.Context, name string) (tag.Tag, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id, ok := r.nameIndex[name]; ok {
		return r.tags[id], true, nil
	}
	return tag.Tag{}, false, nil
}

// GetByID fetches by ID.
func (r *MemoryRepository) GetByID(_ context.Context, id int64) (tag.Tag, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tags[id]
	return t, ok, nil
}

// Update rewrites the stored record.
func (r *MemoryRepository) Update(_ context.Context, t tag.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tags[t.ID]
	if !ok {
		return nil
	}
	delete(r.nameIndex, stored.TagName)
	r.tags[t.ID] = t
	r.nameIndex[t.TagName] = t.ID
	return nil
}

// Delete removes the tag and its links.
func (r *MemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tags[id]; ok {
		delete(r.nameIndex, t.TagName)
		delete(r.tags, id)
	}
	for mediaID, tagIDs := range r.links {
		kept := tagIDs[:0]
		for _, tagID := range tagIDs {
			if tagID != id {
				kept = append(kept, tagID)
			}
		}
		r.links[mediaID] = kept
	}
	return nil
}

// List returns every tag ordered by name.
func (r *MemoryRepository) List(_ context.Context) ([]tag.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]tag.Tag, 0, len(r.tags))
	for _, t := range r.tags {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].TagName < tags[j].TagName })
	return tags, nil
}

// LinkMedia attaches tags to a media file.
func (r *MemoryRepository) LinkMedia(_ context.Context, mediaID int64, tagIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.links[mediaID] = append(r.links[mediaID], tagIDs...)
	return nil
}

// UnlinkMedia removes every link for the file.
func (r *MemoryRepository) UnlinkMedia(_ context.Context, mediaID int64) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tagIDs := r.links[mediaID]
	delete(r.links, mediaID)
	return tagIDs, nil
}

// TagNamesByMedia returns the names linked to a file.
func (r *MemoryRepository) TagNamesByMedia(_ context.Context, mediaID int64) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	for _, tagID := range r.links[mediaID] {
		if t, ok := r.tags[tagID]; ok {
			names = append(names, t.TagName)
		}
	}
	sort.Strings(names)
	return names, nil
}

var _ tag.Repository = (*MemoryRepository)(nil)
