package facilities

import (
	"context"
	"sync"

	"github.com/gmpi-project/gmpi/internal/common"
	"github.com/gmpi-project/gmpi/internal/server/models"
)

type MemoryRepository struct {
	mu         sync.RWMutex
	facilities map[string]*models.Facility
	order      []string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{facilities: make(map[string]*models.Facility)}
}

func clone(f *models.Facility) *models.Facility {
	c := *f
	return &c
}

func (r *MemoryRepository) Create(ctx context.Context, f *models.Facility) (*models.Facility, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.facilities[f.ID] = clone(f)
	r.order = append(r.order, f.ID)
	return f, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Facility, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.facilities[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return clone(f), nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.Facility, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Facility, 0, len(r.facilities))
	for _, id := range r.order {
		if f := r.facilities[id]; f != nil {
			result = append(result, clone(f))
		}
	}
	return result, nil
}

func (r *MemoryRepository) Update(ctx context.Context, f *models.Facility) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.facilities[f.ID]; !ok {
		return common.ErrNotFound
	}
	r.facilities[f.ID] = clone(f)
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.facilities[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.facilities, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
