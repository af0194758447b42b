package profiles

import (
	"context"

	"github.com/dmitrijs2005/gophtasks/internal/server/models"
)

type Repository interface {
	CreateEmpty(ctx context.Context, userID int64) error
	Get(ctx context.Context, userID int64) (*models.Profile, error)
	Update(ctx context.Context, userID int64, f models.ProfileFields) (*models.Profile, error)
}
