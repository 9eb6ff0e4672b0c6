package lands

import (
	"errors"

	landsvc "farmconnect-backend/internal/application/lands"
	"farmconnect-backend/internal/middleware"
	"farmconnect-backend/internal/pkg/response"
	"farmconnect-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *landsvc.Service
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, landsvc.ErrLandNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, landsvc.ErrNotOwner):
		return response.Forbidden(c, err.Error())
	case errors.Is(err, landsvc.ErrNothingToUpdate):
		return response.BadRequest(c, err.Error())
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("lands request failed")
	return response.Internal(c)
}

// Create POST /api/v1/lands
func (h *Handlers) Create(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var in landsvc.CreateInput
	if fields := validation.ParseBody(c, &in); fields != nil {
		return response.ValidationError(c, fields)
	}
	land, err := h.Service.Create(c.UserContext(), actor.UserID, in)
	if err != nil {
		return writeError(c, err)
	}
	return response.SuccessCreated(c, "Land listed successfully", land, nil)
}

// List GET /api/v1/lands
func (h *Handlers) List(c *fiber.Ctx) error {
	out, err := h.Service.Available(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return response.List(c, "Lands fetched", out)
}

// Mine GET /api/v1/lands/mine
func (h *Handlers) Mine(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	out, err := h.Service.Owned(c.UserContext(), actor.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return response.List(c, "Lands fetched", out)
}

// Update PUT /api/v1/lands/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid land id")
	}
	var in landsvc.UpdateInput
	if fields := validation.ParseBody(c, &in); fields != nil {
		return response.ValidationError(c, fields)
	}
	land, err := h.Service.Update(c.UserContext(), actor.UserID, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "Land updated successfully", land, nil)
}
