package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/server/services"
	"github.com/labstack/echo/v4"
)

const (
	msgInternal        = "Erro interno do servidor"
	msgEmailTaken      = "E-mail já cadastrado"
	msgBadCredentials  = "E-mail ou senha incorretos"
	msgInvalidTasks    = "Formato de tarefas inválido"
	msgUserNotFound    = "Usuário não encontrado"
	msgMissingToken    = "Token não fornecido"
	msgInvalidToken    = "Token inválido"
	msgInvalidBody     = "Requisição inválida"
	msgTooManyRequests = "Muitas tentativas, tente novamente mais tarde"
)

type errorResponse struct {
	Error string `json:"error"`
}

// mapError turns a service error into the HTTP error sent to the caller.
// Unknown errors become a 500 that keeps the cause for the log.
func mapError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusBadRequest, msgEmailTaken)
	case errors.Is(err, common.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, msgBadCredentials)
	case errors.Is(err, services.ErrInvalidTasks):
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidTasks)
	case errors.Is(err, common.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, msgUserNotFound)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, msgInternal).SetInternal(err)
	}
}

func statusOf(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return mapError(err).Code
}

func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		he = mapError(err)
	}

	msg, ok := he.Message.(string)
	if !ok {
		msg = http.StatusText(he.Code)
	}

	if he.Code >= http.StatusInternalServerError {
		s.logger.Error(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
		msg = msgInternal
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(he.Code)
	} else {
		err = c.JSON(he.Code, errorResponse{Error: msg})
	}
	if err != nil {
		s.logger.Error(c.Request().Context(), "error sending response", "error", err)
	}
}
