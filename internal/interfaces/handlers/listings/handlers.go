package listings

import (
	"errors"

	"farmconnect-backend/internal/application/marketplace"
	"farmconnect-backend/internal/engine"
	"farmconnect-backend/internal/middleware"
	"farmconnect-backend/internal/pkg/response"
	"farmconnect-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *marketplace.Service
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, marketplace.ErrListingNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, marketplace.ErrNotOwner):
		return response.Forbidden(c, err.Error())
	case errors.Is(err, marketplace.ErrNothingToUpdate), errors.Is(err, engine.ErrInvalidQuantity):
		return response.BadRequest(c, err.Error())
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("listings request failed")
	return response.Internal(c)
}

func listingID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

// Create POST /api/v1/listings
func (h *Handlers) Create(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var in marketplace.CreateListingInput
	if fields := validation.ParseBody(c, &in); fields != nil {
		return response.ValidationError(c, fields)
	}
	l, err := h.Service.CreateListing(c.UserContext(), actor.UserID, in)
	if err != nil {
		return writeError(c, err)
	}
	return response.SuccessCreated(c, "Listing created successfully", l, nil)
}

// List GET /api/v1/listings?category=
func (h *Handlers) List(c *fiber.Ctx) error {
	var category *engine.Category
	if raw := c.Query("category"); raw != "" && raw != "all" {
		cat, ok := engine.ParseCategory(raw)
		if !ok {
			return response.ValidationError(c, map[string]string{"category": "Must be one of vegetables, fruits, grains, other"})
		}
		category = &cat
	}
	out, err := h.Service.AvailableListings(c.UserContext(), category)
	if err != nil {
		return writeError(c, err)
	}
	return response.List(c, "Listings fetched", out)
}

// Categories GET /api/v1/listings/categories
func (h *Handlers) Categories(c *fiber.Ctx) error {
	counts, err := h.Service.CategoryCounts(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "Category counts fetched", counts, nil)
}

// Mine GET /api/v1/listings/mine
func (h *Handlers) Mine(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	out, err := h.Service.SellerListings(c.UserContext(), actor.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return response.List(c, "Listings fetched", out)
}

// Get GET /api/v1/listings/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid listing id")
	}
	l, err := h.Service.GetListing(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "Listing fetched", l, nil)
}

// Update PUT /api/v1/listings/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, err := listingID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid listing id")
	}
	var in marketplace.UpdateListingInput
	if fields := validation.ParseBody(c, &in); fields != nil {
		return response.ValidationError(c, fields)
	}
	l, err := h.Service.UpdateListing(c.UserContext(), actor.UserID, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "Listing updated successfully", l, nil)
}

// Events GET /api/v1/listings/:id/events
func (h *Handlers) Events(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid listing id")
	}
	events, err := h.Service.ListingEvents(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return response.List(c, "Listing events fetched", events)
}
