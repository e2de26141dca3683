package users

import (
	"context"

	"github.com/dmitrijs2005/notespal/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetForUpdate(ctx context.Context, id string) (*models.User, error)
	GetForShare(ctx context.Context, id string) (*models.User, error)
	UpdateSalt(ctx context.Context, id string, salt string) error
	Delete(ctx context.Context, id string) error
}
