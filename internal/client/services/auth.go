// Package services contains application services for the gophtasks client.
// This file defines the session service: register, login, restoring a saved
// session and logging out.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophtasks/internal/client/client"
	"github.com/dmitrijs2005/gophtasks/internal/client/models"
	"github.com/dmitrijs2005/gophtasks/internal/client/repositories/kv"
	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/go-playground/validator/v10"
)

// User-facing validation messages, matching the server's language.
const (
	MsgFillAllFields    = "Por favor, preencha todos os campos"
	MsgPasswordTooShort = "A senha deve ter pelo menos 6 caracteres"
	MsgPasswordMismatch = "As senhas não coincidem"
)

// AuthService manages the remote session.
//
// Contract:
//   - Login/Register: validate input locally, call the server, persist the
//     user and token and hand the token to the remote client.
//   - Restore: reload a persisted session; both user and token must exist.
//   - Logout: forget the session locally and run the logout hooks.
type AuthService interface {
	Login(ctx context.Context, in LoginInput) (*models.User, error)
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Restore(ctx context.Context) bool
	Logout(ctx context.Context) error
	User() *models.User
	IsAuthenticated() bool
	OnLogout(fn func())
}

type LoginInput struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

type RegisterInput struct {
	Name            string `validate:"required"`
	Email           string `validate:"required"`
	Password        string `validate:"required,min=6"`
	PasswordConfirm string `validate:"required,eqfield=Password"`
}

type authService struct {
	client   client.Client
	repo     kv.Repository
	logger   logging.Logger
	validate *validator.Validate

	mu       sync.RWMutex
	user     *models.User
	onLogout []func()
}

func NewAuthService(c client.Client, repo kv.Repository, logger logging.Logger) AuthService {
	return &authService{
		client:   c,
		repo:     repo,
		logger:   logger.With("module", "auth"),
		validate: validator.New(),
	}
}

func (a *authService) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := a.check(in); err != nil {
		return nil, err
	}

	res, err := a.client.Login(ctx, in.Email, in.Password)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	if err := a.persist(ctx, res); err != nil {
		return nil, err
	}
	return a.User(), nil
}

func (a *authService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := a.check(in); err != nil {
		return nil, err
	}

	res, err := a.client.Register(ctx, in.Name, in.Email, in.Password)
	if err != nil {
		return nil, fmt.Errorf("register error: %w", err)
	}
	if err := a.persist(ctx, res); err != nil {
		return nil, err
	}
	return a.User(), nil
}

// check turns the first failing rule into a user-facing validation error.
func (a *authService) check(in any) error {
	err := a.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	failed := make(map[string]bool, len(verrs))
	for _, fe := range verrs {
		failed[fe.Tag()] = true
	}
	msg := MsgFillAllFields
	switch {
	case failed["required"]:
	case failed["min"]:
		msg = MsgPasswordTooShort
	case failed["eqfield"]:
		msg = MsgPasswordMismatch
	}
	return fmt.Errorf("%w: %s", common.ErrValidation, msg)
}

func (a *authService) persist(ctx context.Context, res *models.AuthResult) error {
	if res == nil || res.Token == "" {
		return fmt.Errorf("%w: empty auth response", client.ErrServer)
	}
	userJSON, err := json.Marshal(res.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := a.repo.Set(ctx, kv.KeyAuthUser, userJSON); err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}
	if err := a.repo.Set(ctx, kv.KeyAuthToken, []byte(res.Token)); err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}

	user := res.User
	a.mu.Lock()
	a.user = &user
	a.mu.Unlock()
	a.client.SetToken(res.Token)

	a.logger.Info(ctx, "session started", "user_id", user.ID)
	return nil
}

func (a *authService) Restore(ctx context.Context) bool {
	token, err := a.repo.Get(ctx, kv.KeyAuthToken)
	if err != nil {
		a.logger.Warn(ctx, "failed to read saved token", "error", err)
		return false
	}
	raw, err := a.repo.Get(ctx, kv.KeyAuthUser)
	if err != nil {
		a.logger.Warn(ctx, "failed to read saved user", "error", err)
		return false
	}
	if len(token) == 0 || len(raw) == 0 {
		return false
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		a.logger.Warn(ctx, "malformed saved user, ignoring session", "error", err)
		return false
	}

	a.mu.Lock()
	a.user = &user
	a.mu.Unlock()
	a.client.SetToken(string(token))
	return true
}

func (a *authService) Logout(ctx context.Context) error {
	a.mu.Lock()
	a.user = nil
	hooks := append([]func(){}, a.onLogout...)
	a.mu.Unlock()
	a.client.SetToken("")

	var errs []error
	for _, key := range []string{kv.KeyAuthUser, kv.KeyAuthToken} {
		if err := a.repo.Delete(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}

	for _, fn := range hooks {
		fn()
	}
	a.logger.Info(ctx, "session ended")
	return errors.Join(errs...)
}

func (a *authService) User() *models.User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.user == nil {
		return nil
	}
	u := *a.user
	return &u
}

func (a *authService) IsAuthenticated() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.user != nil && a.client.Token() != ""
}

// OnLogout registers fn to run after every Logout.
func (a *authService) OnLogout(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onLogout = append(a.onLogout, fn)
}
