// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and bearer token checks.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/server/auth"
	"github.com/dmitrijs2005/gophtasks/internal/server/config"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

var ErrEmailTaken = fmt.Errorf("email %w", common.ErrAlreadyExists)

// Session is a signed-in user with the token issued for them.
type Session struct {
	User  *models.User
	Token string
}

// UserService provides authentication-related operations:
// - Register: create the user and an empty profile in one transaction
// - Login: verify credentials and mint a token
// - Authenticate: verify a bearer token
type UserService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	jwtSecret     []byte
	tokenValidity time.Duration
	dummyHash     []byte
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("gophtasks-dummy"), bcryptCost)
	return &UserService{
		db:            db,
		repomanager:   m,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidity,
		dummyHash:     dummy,
	}
}

// Register creates the account and its empty profile. A taken e-mail
// yields ErrEmailTaken.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*Session, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %v", common.ErrInternal, err)
	}

	user := &models.User{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email), PasswordHash: string(hash)}
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Users(tx).Create(ctx, user); err != nil {
			return err
		}
		return s.repomanager.Profiles(tx).CreateEmpty(ctx, user.ID)
	})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.session(user)
}

// Login verifies the password. Unknown e-mails and wrong passwords both
// yield common.ErrUnauthorized after a full bcrypt comparison.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, common.ErrUnauthorized
	}
	return s.session(user)
}

// Authenticate returns the claims of a valid token.
func (s *UserService) Authenticate(token string) (*auth.Claims, error) {
	return auth.ParseToken(token, s.jwtSecret)
}

func (s *UserService) session(user *models.User) (*Session, error) {
	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}
	return &Session{User: user, Token: token}, nil
}
