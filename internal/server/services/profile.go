package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/repomanager"
)

// UserProfile is the account with its profile details.
type UserProfile struct {
	User    *models.User
	Profile *models.Profile
}

type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager) *ProfileService {
	return &ProfileService{db: db, repomanager: m}
}

// Get returns the user and profile. A missing user is common.ErrNotFound;
// a missing profile row reads as an empty profile.
func (s *ProfileService) Get(ctx context.Context, userID int64) (*UserProfile, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.repomanager.Profiles(s.db).Get(ctx, userID)
	if errors.Is(err, common.ErrNotFound) {
		profile, err = &models.Profile{}, nil
	}
	if err != nil {
		return nil, err
	}

	return &UserProfile{User: user, Profile: profile}, nil
}

// Update replaces the editable fields, creating the row if it is missing.
func (s *ProfileService) Update(ctx context.Context, userID int64, f models.ProfileFields) (*models.Profile, error) {
	var out *models.Profile
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Profiles(tx)
		p, err := repo.Update(ctx, userID, f)
		if errors.Is(err, common.ErrNotFound) {
			if err := repo.CreateEmpty(ctx, userID); err != nil {
				return err
			}
			p, err = repo.Update(ctx, userID, f)
		}
		out = p
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	return out, nil
}
