package facilities

import (
	"context"

	"github.com/gmpi-project/gmpi/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, f *models.Facility) (*models.Facility, error)
	GetByID(ctx context.Context, id string) (*models.Facility, error)
	List(ctx context.Context) ([]*models.Facility, error)
	Update(ctx context.Context, f *models.Facility) error
	Delete(ctx context.Context, id string) error
}
