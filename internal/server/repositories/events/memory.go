package events

import (
	"context"
	"sync"

	"github.com/gmpi-project/gmpi/internal/common"
	"github.com/gmpi-project/gmpi/internal/server/models"
)

type MemoryRepository struct {
	mu     sync.RWMutex
	events map[string]*models.CalendarEvent
	order  []string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{events: make(map[string]*models.CalendarEvent)}
}

func clone(e *models.CalendarEvent) *models.CalendarEvent {
	c := *e
	return &c
}

func (r *MemoryRepository) Create(ctx context.Context, e *models.CalendarEvent) (*models.CalendarEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events[e.ID] = clone(e)
	r.order = append(r.order, e.ID)
	return e, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.CalendarEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.events[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return clone(e), nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.CalendarEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.CalendarEvent, 0, len(r.events))
	for _, id := range r.order {
		if e := r.events[id]; e != nil {
			result = append(result, clone(e))
		}
	}
	return result, nil
}

func (r *MemoryRepository) Update(ctx context.Context, e *models.CalendarEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.events[e.ID]; !ok {
		return common.ErrNotFound
	}
	r.events[e.ID] = clone(e)
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.events[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.events, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
