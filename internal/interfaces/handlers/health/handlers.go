package health

import (
	healthsvc "farmconnect-backend/internal/application/health"
	"farmconnect-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const serviceName = "farmconnect-api"

// Handlers holds dependencies for health endpoints.
type Handlers struct {
	Rdb            *redis.Client
	DB             healthsvc.DBPinger
	HealthAdminKey string
}

// JSON GET /health/json
func (h *Handlers) JSON(c *fiber.Ctx) error {
	r := healthsvc.Collect(c.UserContext(), h.Rdb, h.DB)
	status := fiber.StatusOK
	if r.Status != "ok" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"service":      serviceName,
		"status":       r.Status,
		"runtime":      r.Runtime,
		"traffic":      r.Traffic,
		"dependencies": r.Dependencies,
	})
}

// Errors GET /health/errors returns the most recent 5xx entries.
func (h *Handlers) Errors(c *fiber.Ctx) error {
	entries, err := healthsvc.RecentErrors(c.UserContext(), h.Rdb)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON([]interface{}{})
	}
	return c.JSON(entries)
}

// Reset GET /reset?key= clears health stats. Requires HEALTH_ADMIN_KEY.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" || key != h.HealthAdminKey {
		return response.Forbidden(c, "Unauthorized")
	}
	if err := healthsvc.Reset(c.UserContext(), h.Rdb); err != nil {
		log.Error().Err(err).Msg("health reset failed")
		return response.Internal(c)
	}
	return response.Success(c, "Stats reset successfully", fiber.Map{"success": true}, nil)
}
