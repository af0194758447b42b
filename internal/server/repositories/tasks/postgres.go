package tasks

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID int64) (*models.TaskDocument, error) {
	query :=
		`SELECT user_id, client_data, last_sync FROM tasks
		 WHERE user_id = $1
		 `

	doc := &models.TaskDocument{}
	var data []byte
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&doc.UserID, &data, &doc.LastSync)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	doc.Data = json.RawMessage(data)

	return doc, nil
}

func (r *PostgresRepository) Save(ctx context.Context, userID int64, data json.RawMessage) error {
	query :=
		`INSERT INTO tasks (user_id, client_data, last_sync)
		 VALUES ($1, $2, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id) DO UPDATE
		 SET client_data = EXCLUDED.client_data, last_sync = CURRENT_TIMESTAMP
		 `

	if _, err := r.db.ExecContext(ctx, query, userID, string(data)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
