package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// RouteLogger logs each request on entry and exit. The exit line carries the
// matched route pattern and, once the session has loaded, the caller's id and
// role.
func RouteLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		logger := zerolog.Ctx(c.UserContext())
		start := time.Now()
		logger.Debug().Str("method", c.Method()).Str("path", c.Path()).Msg("Entering request")

		err := c.Next()

		ev := logger.Info()
		if status := c.Response().StatusCode(); status >= fiber.StatusInternalServerError {
			ev = logger.Warn()
		}
		ev = ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Str("route", c.Route().Path).
			Int("status", c.Response().StatusCode()).
			Str("ip", c.IP()).
			Int64("ms", time.Since(start).Milliseconds())
		if actor, ok := CurrentActor(c); ok {
			ev = ev.Str("user_id", actor.UserID.String()).Str("role", actor.Role)
		}
		ev.Msg("Exiting request")
		return err
	}
}
