package client

import (
	"context"

	"github.com/dmitrijs2005/gophtasks/internal/client/models"
)

type Client interface {
	Register(ctx context.Context, name, email, password string) (*models.AuthResult, error)
	Login(ctx context.Context, email, password string) (*models.AuthResult, error)
	FetchAll(ctx context.Context) ([]models.Client, error)
	PushAll(ctx context.Context, clients []models.Client) ([]models.Client, error)
	ReplaceAll(ctx context.Context, clients []models.Client) ([]models.Client, error)
	GetProfile(ctx context.Context) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, p models.Profile) (*models.Profile, error)
	Health(ctx context.Context) error
	SetToken(token string)
	Token() string
}
