package orders

import (
	"errors"

	"farmconnect-backend/internal/application/marketplace"
	"farmconnect-backend/internal/engine"
	"farmconnect-backend/internal/middleware"
	"farmconnect-backend/internal/pkg/response"
	"farmconnect-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *marketplace.Service
}

// Place POST /api/v1/orders. Insufficient stock is a 409 so clients can
// refresh the listing and retry with a smaller quantity.
func (h *Handlers) Place(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var in marketplace.PlaceOrderInput
	if fields := validation.ParseBody(c, &in); fields != nil {
		return response.ValidationError(c, fields)
	}

	res, err := h.Service.PlaceOrder(c.UserContext(), actor.UserID, in)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrInsufficientStock):
			return response.Conflict(c, "Insufficient stock for this order")
		case errors.Is(err, engine.ErrInvalidQuantity):
			return response.BadRequest(c, "Quantity must be greater than zero")
		case errors.Is(err, marketplace.ErrOwnListing):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, marketplace.ErrListingNotFound):
			return response.NotFound(c, err.Error())
		}
		log.Error().Err(err).Msg("place order failed")
		return response.Internal(c)
	}
	return response.SuccessCreated(c, "Order placed successfully", res, nil)
}

// Mine GET /api/v1/orders/mine
func (h *Handlers) Mine(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	out, err := h.Service.BuyerOrders(c.UserContext(), actor.UserID)
	if err != nil {
		log.Error().Err(err).Msg("buyer orders failed")
		return response.Internal(c)
	}
	return response.List(c, "Orders fetched", out)
}

// Sales GET /api/v1/orders/sales
func (h *Handlers) Sales(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	out, err := h.Service.SellerOrders(c.UserContext(), actor.UserID)
	if err != nil {
		log.Error().Err(err).Msg("seller orders failed")
		return response.Internal(c)
	}
	return response.List(c, "Sales fetched", out)
}
