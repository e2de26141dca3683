package notes

import (
	"context"

	"github.com/dmitrijs2005/notespal/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, note *models.Note) (*models.Note, error)
	GetByUser(ctx context.Context, userID, noteID string) (*models.Note, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Note, error)
	UpdateContent(ctx context.Context, note *models.Note) (*models.Note, error)
	UpdateKey(ctx context.Context, userID, noteID, encryptionKey string) error
	Delete(ctx context.Context, userID, noteID string) error
}
