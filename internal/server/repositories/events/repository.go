package events

import (
	"context"

	"github.com/gmpi-project/gmpi/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, e *models.CalendarEvent) (*models.CalendarEvent, error)
	GetByID(ctx context.Context, id string) (*models.CalendarEvent, error)
	List(ctx context.Context) ([]*models.CalendarEvent, error)
	Update(ctx context.Context, e *models.CalendarEvent) error
	Delete(ctx context.Context, id string) error
}
