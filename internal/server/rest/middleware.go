package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

const userIDKey = "user_id"

// authenticate requires a valid bearer token and stores the user id
// in the echo context.
func (s *Server) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(common.AuthorizationHeader)
		token := strings.TrimSpace(strings.TrimPrefix(header, common.BearerPrefix))
		if header == "" || token == "" || token == header {
			return echo.NewHTTPError(http.StatusUnauthorized, msgMissingToken)
		}

		claims, err := s.users.Authenticate(token)
		if err != nil {
			s.logger.Debug(c.Request().Context(), "token rejected", "error", err, "ip", c.RealIP())
			return echo.NewHTTPError(http.StatusForbidden, msgInvalidToken)
		}

		c.Set(userIDKey, claims.UserID)
		return next(c)
	}
}

func currentUserID(c echo.Context) int64 {
	id, _ := c.Get(userIDKey).(int64)
	return id
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			args := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", float64(v.Latency.Microseconds()) / 1000,
				"remote_ip", v.RemoteIP,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				args = append(args, "error", v.Error.Error())
			}
			s.logger.Info(c.Request().Context(), "HTTP request", args...)
			return nil
		},
	})
}

// newAuthRateLimiter limits login and register per client IP. A
// non-positive perMinute disables the limit.
func newAuthRateLimiter(perMinute int) echo.MiddlewareFunc {
	if perMinute <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(perMinute) / 60),
		Burst:     perMinute,
		ExpiresIn: 3 * time.Minute,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, msgTooManyRequests)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, msgTooManyRequests)
		},
	})
}
