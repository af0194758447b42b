package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/services"
	"github.com/labstack/echo/v4"
)

const (
	msgRegistered       = "Usuário cadastrado com sucesso"
	msgLoggedIn         = "Login realizado com sucesso"
	msgTasksSynced      = "Tarefas sincronizadas com sucesso"
	msgTasksReplaced    = "Tarefas atualizadas com sucesso"
	msgProfileUpdated   = "Perfil atualizado com sucesso"
	msgRegisterRequired = "Todos os campos são obrigatórios"
	msgPasswordTooShort = "A senha deve ter pelo menos 6 caracteres"
	msgLoginRequired    = "E-mail e senha são obrigatórios"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tasksRequest struct {
	Tasks json.RawMessage `json:"tasks"`
}

type userResponse struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type authResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
	Token   string       `json:"token"`
}

type tasksResponse struct {
	Message string          `json:"message,omitempty"`
	Tasks   json.RawMessage `json:"tasks"`
}

type profileResponse struct {
	User    userResponse    `json:"user"`
	Profile *models.Profile `json:"profile"`
}

type profileUpdateResponse struct {
	Message string          `json:"message"`
	Profile *models.Profile `json:"profile"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func newAuthResponse(msg string, sess *services.Session) authResponse {
	return authResponse{
		Message: msg,
		User:    userResponse{ID: sess.User.ID, Name: sess.User.Name, Email: sess.User.Email},
		Token:   sess.Token,
	}
}

func (s *Server) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}

	if err := c.Validate(&req); err != nil {
		if failedTag(err) == "min" {
			return echo.NewHTTPError(http.StatusBadRequest, msgPasswordTooShort)
		}
		return echo.NewHTTPError(http.StatusBadRequest, msgRegisterRequired)
	}

	sess, err := s.users.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return mapError(err)
	}

	s.logger.Info(c.Request().Context(), "user registered", "user_id", sess.User.ID)
	return c.JSON(http.StatusCreated, newAuthResponse(msgRegistered, sess))
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgLoginRequired)
	}

	sess, err := s.users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusOK, newAuthResponse(msgLoggedIn, sess))
}

func (s *Server) getTasks(c echo.Context) error {
	tasks, err := s.tasks.Get(c.Request().Context(), currentUserID(c))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, tasksResponse{Tasks: tasks})
}

func (s *Server) syncTasks(c echo.Context) error {
	return s.saveTasks(c, msgTasksSynced)
}

func (s *Server) replaceTasks(c echo.Context) error {
	return s.saveTasks(c, msgTasksReplaced)
}

func (s *Server) saveTasks(c echo.Context, msg string) error {
	var req tasksRequest
	if err := c.Bind(&req); err != nil {
		s.metrics.ObserveSync("invalid")
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidTasks)
	}

	tasks, err := s.tasks.Save(c.Request().Context(), currentUserID(c), req.Tasks)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTasks) {
			s.metrics.ObserveSync("invalid")
		} else {
			s.metrics.ObserveSync("error")
		}
		return mapError(err)
	}

	s.metrics.ObserveSync("ok")
	return c.JSON(http.StatusOK, tasksResponse{Message: msg, Tasks: tasks})
}

func (s *Server) getProfile(c echo.Context) error {
	up, err := s.profiles.Get(c.Request().Context(), currentUserID(c))
	if err != nil {
		return mapError(err)
	}

	created := up.User.CreatedAt
	return c.JSON(http.StatusOK, profileResponse{
		User:    userResponse{ID: up.User.ID, Name: up.User.Name, Email: up.User.Email, CreatedAt: &created},
		Profile: up.Profile,
	})
}

func (s *Server) updateProfile(c echo.Context) error {
	var req models.ProfileFields
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}

	p, err := s.profiles.Update(c.Request().Context(), currentUserID(c), req)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusOK, profileUpdateResponse{Message: msgProfileUpdated, Profile: p})
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:    "ok",
		Message:   "Servidor rodando",
		Timestamp: s.now().UTC().Format(time.RFC3339),
	})
}
