package dashboard

import (
	"errors"

	dashsvc "farmconnect-backend/internal/application/dashboard"
	"farmconnect-backend/internal/middleware"
	"farmconnect-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *dashsvc.Service
}

// Get GET /api/v1/dashboard
func (h *Handlers) Get(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	view, err := h.Service.Build(c.UserContext(), actor.UserID, actor.Role)
	if err != nil {
		if errors.Is(err, dashsvc.ErrUnknownRole) {
			return response.Forbidden(c, err.Error())
		}
		log.Error().Err(err).Str("user_id", actor.UserID.String()).Msg("dashboard failed")
		return response.Internal(c)
	}
	return response.Success(c, "Dashboard fetched", view, nil)
}
