package inquiries

import (
	"errors"

	inqsvc "farmconnect-backend/internal/application/inquiries"
	"farmconnect-backend/internal/middleware"
	"farmconnect-backend/internal/pkg/response"
	"farmconnect-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *inqsvc.Service
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, inqsvc.ErrInquiryNotFound), errors.Is(err, inqsvc.ErrListingNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, inqsvc.ErrNotParticipant), errors.Is(err, inqsvc.ErrNotSeller):
		return response.Forbidden(c, err.Error())
	case errors.Is(err, inqsvc.ErrInvalidType), errors.Is(err, inqsvc.ErrOwnListing):
		return response.BadRequest(c, err.Error())
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("inquiries request failed")
	return response.Internal(c)
}

// withInquiry resolves the caller and the :id param before running fn.
func withInquiry(c *fiber.Ctx, fn func(actor middleware.Actor, id uuid.UUID) error) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid inquiry id")
	}
	return fn(actor, id)
}

// Create POST /api/v1/inquiries
func (h *Handlers) Create(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var in inqsvc.CreateInput
	if fields := validation.ParseBody(c, &in); fields != nil {
		return response.ValidationError(c, fields)
	}
	inq, err := h.Service.Create(c.UserContext(), actor.UserID, in)
	if err != nil {
		return writeError(c, err)
	}
	return response.SuccessCreated(c, "Inquiry sent successfully", inq, nil)
}

// Received GET /api/v1/inquiries/received
func (h *Handlers) Received(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	out, err := h.Service.Received(c.UserContext(), actor.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return response.List(c, "Inquiries fetched", out)
}

// Sent GET /api/v1/inquiries/sent
func (h *Handlers) Sent(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	out, err := h.Service.Sent(c.UserContext(), actor.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return response.List(c, "Inquiries fetched", out)
}

// MarkRead PATCH /api/v1/inquiries/:id/read
func (h *Handlers) MarkRead(c *fiber.Ctx) error {
	return withInquiry(c, func(actor middleware.Actor, id uuid.UUID) error {
		inq, err := h.Service.MarkRead(c.UserContext(), actor.UserID, id)
		if err != nil {
			return writeError(c, err)
		}
		return response.Success(c, "Inquiry marked as read", inq, nil)
	})
}

// AddMessage POST /api/v1/inquiries/:id/messages
func (h *Handlers) AddMessage(c *fiber.Ctx) error {
	return withInquiry(c, func(actor middleware.Actor, id uuid.UUID) error {
		var in inqsvc.MessageInput
		if fields := validation.ParseBody(c, &in); fields != nil {
			return response.ValidationError(c, fields)
		}
		msg, err := h.Service.AddMessage(c.UserContext(), actor.UserID, id, in)
		if err != nil {
			return writeError(c, err)
		}
		return response.SuccessCreated(c, "Message sent", msg, nil)
	})
}

// Messages GET /api/v1/inquiries/:id/messages
func (h *Handlers) Messages(c *fiber.Ctx) error {
	return withInquiry(c, func(actor middleware.Actor, id uuid.UUID) error {
		out, err := h.Service.Messages(c.UserContext(), actor.UserID, id)
		if err != nil {
			return writeError(c, err)
		}
		return response.List(c, "Messages fetched", out)
	})
}
