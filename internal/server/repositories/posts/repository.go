package posts

import (
	"context"

	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

type Repository interface {
	Insert(ctx context.Context, userID int64, text string) (*models.Post, error)
	FindByIDAndOwner(ctx context.Context, id, userID int64) (*models.Post, error)
	Delete(ctx context.Context, id int64) error
	ListByOwner(ctx context.Context, userID int64) ([]models.Post, error)
}
