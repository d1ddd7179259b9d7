package apitest

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/food_storefront/internal/logging"
)

// Call is one request seen by the fake backend.
type Call struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	Status        int
}

func (s *Server) requestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(echo.HeaderXRequestID)

			l := base.With(
				"method", c.Request().Method,
				"path", c.Path(),
			)
			if rid != "" {
				l = l.With("request_id", rid)
				c.Response().Header().Set(echo.HeaderXRequestID, rid)
			}
			c.SetRequest(c.Request().WithContext(logging.IntoContext(c.Request().Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Echo().HTTPErrorHandler(err, c)
			}
			status := c.Response().Status

			s.record(Call{
				Method:        c.Request().Method,
				Path:          c.Request().URL.Path,
				Authorization: c.Request().Header.Get(echo.HeaderAuthorization),
				RequestID:     rid,
				Status:        status,
			})

			l.Debug("request completed", "status", status, "duration_ms", time.Since(start).Milliseconds())
			return nil
		}
	}
}
