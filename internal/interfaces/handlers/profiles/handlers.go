package profiles

import (
	"errors"

	profilesvc "farmconnect-backend/internal/application/profiles"
	"farmconnect-backend/internal/middleware"
	"farmconnect-backend/internal/pkg/response"
	"farmconnect-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *profilesvc.Service
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, profilesvc.ErrProfileNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, profilesvc.ErrNothingToUpdate), errors.Is(err, profilesvc.ErrInvalidFullName):
		return response.BadRequest(c, err.Error())
	}
	log.Error().Err(err).Msg("profile request failed")
	return response.Internal(c)
}

// Me GET /api/v1/profiles/me
func (h *Handlers) Me(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	p, err := h.Service.Get(c.UserContext(), actor.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "Profile fetched", p, nil)
}

// Update PUT /api/v1/profiles/me. The session copy of full_name is
// refreshed so /auth/me stays in step.
func (h *Handlers) Update(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var in profilesvc.UpdateInput
	if fields := validation.ParseBody(c, &in); fields != nil {
		return response.ValidationError(c, fields)
	}
	p, err := h.Service.Update(c.UserContext(), actor.UserID, in)
	if err != nil {
		return writeError(c, err)
	}
	if middleware.GetSessionID(c) != "" {
		middleware.SetSessionUser(c, middleware.SessionUser{
			UserID: p.ID.String(), FullName: p.FullName, Email: p.Email, Role: p.Role,
		})
	}
	return response.Success(c, "Profile updated successfully", p, nil)
}
