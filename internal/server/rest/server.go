// Package rest exposes the gophtasks HTTP API on top of echo.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/auth"
	"github.com/dmitrijs2005/gophtasks/internal/server/config"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/services"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	shutdownTimeout = 5 * time.Second
	bodyLimit       = "10M"
)

type UserService interface {
	Register(ctx context.Context, name, email, password string) (*services.Session, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Authenticate(token string) (*auth.Claims, error)
}

type ProfileService interface {
	Get(ctx context.Context, userID int64) (*services.UserProfile, error)
	Update(ctx context.Context, userID int64, f models.ProfileFields) (*models.Profile, error)
}

type TaskService interface {
	Get(ctx context.Context, userID int64) (json.RawMessage, error)
	Save(ctx context.Context, userID int64, data json.RawMessage) (json.RawMessage, error)
}

type Server struct {
	echo     *echo.Echo
	address  string
	logger   logging.Logger
	users    UserService
	profiles ProfileService
	tasks    TaskService
	metrics  *Metrics
	now      func() time.Time
}

func NewServer(cfg *config.Config, l logging.Logger, us UserService, ps ProfileService, ts TaskService) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:     e,
		address:  cfg.ListenAddr,
		logger:   l.With("module", "rest_server"),
		users:    us,
		profiles: ps,
		tasks:    ts,
		now:      time.Now,
	}

	e.Validator = newValidator()
	e.HTTPErrorHandler = s.errorHandler

	s.setupMiddleware()
	if cfg.MetricsPath != "" {
		s.metrics = NewMetrics()
		e.Use(s.metrics.Middleware)
		e.GET(cfg.MetricsPath, echo.WrapHandler(s.metrics.Handler()))
	}
	s.setupRoutes(cfg.AuthRatePerMinute)

	return s
}

func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())
	s.echo.Use(middleware.CORS())
	s.echo.Use(middleware.BodyLimit(bodyLimit))
	s.echo.Use(s.requestLogger())
}

func (s *Server) setupRoutes(authRate int) {
	api := s.echo.Group("/api")

	api.GET("/health", s.health)

	limit := newAuthRateLimiter(authRate)
	api.POST("/register", s.register, limit)
	api.POST("/login", s.login, limit)

	api.GET("/tasks", s.getTasks, s.authenticate)
	api.POST("/tasks/sync", s.syncTasks, s.authenticate)
	api.PUT("/tasks", s.replaceTasks, s.authenticate)
	api.GET("/profile", s.getProfile, s.authenticate)
	api.PUT("/profile", s.updateProfile, s.authenticate)
}

// Handler returns the routed echo instance.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.echo.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
