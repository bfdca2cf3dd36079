package userrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yanqian/media-album/internal/domain/auth"
)

// MemoryRepository provides an in-memory user store for tests/dev.
type MemoryRepository struct {
	mu        sync.RWMutex
	users     map[int64]auth.User
	nameIndex map[string]int64
	seq       int64
}

// NewMemoryRepository constructs a new in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:     make(map[int64]auth.User),
		nameIndex: make(map[string]int64),
	}
}

// Create stores the user record.
func (r *MemoryRepository) Create(_ context.Context, user auth.User) (auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.nameIndex[user.UserName]; exists {
		return auth.User{}, auth.ErrUsernameExists
	}
	r.seq++
	user.ID = r.seq
	now := time.Now().UTC()
	user.CreateTime = now
	user.UpdateTime = now
	r.users[user.ID] = user
	r.nameIndex[user.UserName] = user.ID
	return user, nil
}

// FindByUserName returns a user by username.
func (r *MemoryRepository) FindByUserName(_ context.Context, userName string) (auth.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id, ok := r.nameIndex[userName]; ok {
		return r.users[id], true, nil
	}
	return auth.User{}, false, nil
}

// GetByID fetches by ID.
func (r *MemoryRepository) GetByID(_ context.Context, id int64) (auth.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	return user, ok, nil
}

// Update rewrites the stored record.
func (r *MemoryRepository) Update(_ context.Context, user auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return auth.ErrUserNotFound
	}
	user.UserName = stored.UserName
	user.CreateTime = stored.CreateTime
	user.UpdateTime = time.Now().UTC()
	r.users[user.ID] = user
	return nil
}

// List returns every user ordered by id.
func (r *MemoryRepository) List(_ context.Context) ([]auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]auth.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// Delete removes the record.
func (r *MemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return auth.ErrUserNotFound
	}
	delete(r.nameIndex, user.UserName)
	delete(r.users, id)
	return nil
}

var _ auth.Repository = (*MemoryRepository)(nil)
