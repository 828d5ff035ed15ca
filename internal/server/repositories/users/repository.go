package users

import (
	"context"

	"github.com/gmpi-project/gmpi/internal/server/models"
)

// Repository stores identity records. GetByEmail is a case-sensitive
// exact match; email uniqueness is the store's invariant.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}
