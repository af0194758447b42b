package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophtasks/internal/client/client"
	"github.com/dmitrijs2005/gophtasks/internal/client/models"
	"github.com/dmitrijs2005/gophtasks/internal/logging"
)

// Source tells which side won a reconciliation.
type Source string

const (
	SourceServer Source = "server"
	SourceLocal  Source = "local"
)

// LocalState is the part of the local store reconciliation needs.
type LocalState interface {
	Load(ctx context.Context)
	Replace(ctx context.Context, clients []models.Client)
	Clients() []models.Client
}

// Session is the part of AuthService the sync service needs.
type Session interface {
	IsAuthenticated() bool
	Logout(ctx context.Context) error
}

// SyncService reconciles local state with the server. The policy is
// whole-document last-write-wins: a non-empty server copy replaces local data
// on start, and every push overwrites the server copy.
type SyncService struct {
	client  client.Client
	local   LocalState
	session Session
	logger  logging.Logger
}

func NewSyncService(c client.Client, local LocalState, session Session, logger logging.Logger) *SyncService {
	return &SyncService{client: c, local: local, session: session, logger: logger.With("module", "sync")}
}

// Reconcile picks the session's starting state. Authenticated sessions take
// the server document when it is non-empty; an empty document or a failed
// fetch keeps local data. Unauthenticated sessions never touch the network.
func (s *SyncService) Reconcile(ctx context.Context) Source {
	if !s.session.IsAuthenticated() {
		s.local.Load(ctx)
		return SourceLocal
	}

	remote, err := s.client.FetchAll(ctx)
	if err != nil {
		s.logger.Warn(ctx, "failed to fetch server tasks, keeping local data", "error", err)
		if client.IsAuthError(err) {
			s.logout(ctx)
		}
		s.local.Load(ctx)
		return SourceLocal
	}

	if len(remote) == 0 {
		s.logger.Info(ctx, "server has no tasks, keeping local data")
		s.local.Load(ctx)
		return SourceLocal
	}

	s.local.Replace(ctx, remote)
	s.logger.Info(ctx, "loaded tasks from server", "clients", len(remote))
	return SourceServer
}

// Push sends the whole local document. It is the scheduler's sync function.
// A rejected token ends the session.
func (s *SyncService) Push(ctx context.Context) error {
	if !s.session.IsAuthenticated() {
		return nil
	}

	snapshot := s.local.Clients()
	if _, err := s.client.PushAll(ctx, snapshot); err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			s.logout(ctx)
		}
		return fmt.Errorf("push error: %w", err)
	}
	s.logger.Debug(ctx, "pushed tasks", "clients", len(snapshot))
	return nil
}

// Replace overwrites the server copy with local state using PUT. It has the
// same session handling as Push.
func (s *SyncService) Replace(ctx context.Context) error {
	if !s.session.IsAuthenticated() {
		return nil
	}

	snapshot := s.local.Clients()
	if _, err := s.client.ReplaceAll(ctx, snapshot); err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			s.logout(ctx)
		}
		return fmt.Errorf("replace error: %w", err)
	}
	s.logger.Info(ctx, "replaced server tasks", "clients", len(snapshot))
	return nil
}

func (s *SyncService) logout(ctx context.Context) {
	if err := s.session.Logout(ctx); err != nil {
		s.logger.Warn(ctx, "failed to clear session", "error", err)
	}
}
