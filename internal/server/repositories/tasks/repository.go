package tasks

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/gophtasks/internal/server/models"
)

type Repository interface {
	// Get returns the user's document or common.ErrNotFound.
	Get(ctx context.Context, userID int64) (*models.TaskDocument, error)
	// Save upserts the user's whole document.
	Save(ctx context.Context, userID int64, data json.RawMessage) error
}
