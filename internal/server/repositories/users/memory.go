package users

import (
	"context"
	"sync"

	"github.com/gmpi-project/gmpi/internal/server/models"

	"github.com/gmpi-project/gmpi/internal/common"
)

// MemoryRepository is the in-process Repository used by tests and demo mode.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*models.User
	order []string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]*models.User)}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Permissions = append([]models.Permission(nil), u.Permissions...)
	return &c
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, common.ErrAlreadyExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	r.order = append(r.order, user.ID)
	return user, nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if u := r.users[id]; u != nil && u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.User, 0, len(r.users))
	for _, id := range r.order {
		if u := r.users[id]; u != nil {
			result = append(result, cloneUser(u))
		}
	}
	return result, nil
}

func (r *MemoryRepository) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return common.ErrNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.users, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
