package profiles

import (
	"context"
	"database/sql"
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

func (r *PostgresRepository) CreateEmpty(ctx context.Context, userID int64) error {
	query :=
		`INSERT INTO profiles (user_id, bio, company, position, phone, avatar_url)
		 VALUES ($1, '', '', '', '', '')
		 `

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID int64) (*models.Profile, error) {
	query :=
		`SELECT id, user_id, bio, company, position, phone, avatar_url, updated_at FROM profiles
		 WHERE user_id = $1
		 `

	p := &models.Profile{}
	var updated sql.NullTime
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&p.ID, &p.UserID, &p.Bio, &p.Company, &p.Position, &p.Phone, &p.AvatarURL, &updated)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if updated.Valid {
		p.UpdatedAt = &updated.Time
	}

	return p, nil
}

// Update overwrites every editable field and returns the stored row.
// A user without a profile row yields common.ErrNotFound.
func (r *PostgresRepository) Update(ctx context.Context, userID int64, f models.ProfileFields) (*models.Profile, error) {
	query :=
		`UPDATE profiles
		 SET bio = $1, company = $2, position = $3, phone = $4, avatar_url = $5, updated_at = CURRENT_TIMESTAMP
		 WHERE user_id = $6
		 `

	res, err := r.db.ExecContext(ctx, query, f.Bio, f.Company, f.Position, f.Phone, f.AvatarURL, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, common.ErrNotFound
	}

	return r.Get(ctx, userID)
}
