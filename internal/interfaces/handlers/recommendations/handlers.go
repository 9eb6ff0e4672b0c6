package recommendations

import (
	"strings"

	recsvc "farmconnect-backend/internal/application/recommendations"
	"farmconnect-backend/internal/engine"
	"farmconnect-backend/internal/middleware"
	"farmconnect-backend/internal/pkg/response"
	"farmconnect-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *recsvc.Service
}

// Pointers distinguish a missing measurement from a zero reading.
type CropRequest struct {
	Nitrogen    *float64 `json:"nitrogen" validate:"required,gte=0,lte=1000"`
	Phosphorus  *float64 `json:"phosphorus" validate:"required,gte=0,lte=1000"`
	Potassium   *float64 `json:"potassium" validate:"required,gte=0,lte=1000"`
	PHLevel     *float64 `json:"ph_level" validate:"required,gte=0,lte=14"`
	Season      string   `json:"season" validate:"required,oneof=monsoon winter summer"`
	Temperature *float64 `json:"temperature" validate:"omitempty,gte=-50,lte=60"`
	Humidity    *float64 `json:"humidity" validate:"omitempty,gte=0,lte=100"`
	Rainfall    *float64 `json:"rainfall" validate:"omitempty,gte=0"`
}

type FertilizerRequest struct {
	Crop     string   `json:"crop" validate:"required,max=50"`
	CurrentN *float64 `json:"current_n" validate:"required,gte=0,lte=1000"`
	CurrentP *float64 `json:"current_p" validate:"required,gte=0,lte=1000"`
	CurrentK *float64 `json:"current_k" validate:"required,gte=0,lte=1000"`
}

type DiseaseRequest struct {
	CropType string  `json:"crop_type" validate:"required,max=50"`
	ImageURL *string `json:"image_url" validate:"omitempty,url"`
}

type IrrigationRequest struct {
	MoisturePercent *float64 `json:"moisture_percent" validate:"required,gte=0,lte=100"`
}

func internalError(c *fiber.Ctx, err error) error {
	log.Error().Err(err).Str("path", c.Path()).Msg("recommendation failed")
	return response.Internal(c)
}

// Crop POST /api/v1/recommendations/crop
func (h *Handlers) Crop(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var req CropRequest
	if fields := validation.ParseBody(c, &req); fields != nil {
		return response.ValidationError(c, fields)
	}
	res, err := h.Service.RecommendCrop(c.UserContext(), actor.UserID, engine.SoilSample{
		Nitrogen:    *req.Nitrogen,
		Phosphorus:  *req.Phosphorus,
		Potassium:   *req.Potassium,
		PHLevel:     *req.PHLevel,
		Season:      engine.Season(strings.ToLower(req.Season)),
		Temperature: req.Temperature,
		Humidity:    req.Humidity,
		Rainfall:    req.Rainfall,
	})
	if err != nil {
		return internalError(c, err)
	}
	return response.SuccessCreated(c, "Crop recommendation generated", res, nil)
}

// Fertilizer POST /api/v1/recommendations/fertilizer
func (h *Handlers) Fertilizer(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var req FertilizerRequest
	if fields := validation.ParseBody(c, &req); fields != nil {
		return response.ValidationError(c, fields)
	}
	res, err := h.Service.RecommendFertilizer(c.UserContext(), actor.UserID, engine.FertilizerInput{
		Crop:     req.Crop,
		CurrentN: *req.CurrentN,
		CurrentP: *req.CurrentP,
		CurrentK: *req.CurrentK,
	})
	if err != nil {
		return internalError(c, err)
	}
	return response.SuccessCreated(c, "Fertilizer recommendation generated", res, nil)
}

// Disease POST /api/v1/recommendations/disease
func (h *Handlers) Disease(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var req DiseaseRequest
	if fields := validation.ParseBody(c, &req); fields != nil {
		return response.ValidationError(c, fields)
	}
	res, err := h.Service.DetectDisease(c.UserContext(), actor.UserID, req.CropType, req.ImageURL)
	if err != nil {
		return internalError(c, err)
	}
	return response.SuccessCreated(c, "Disease detection complete", res, nil)
}

// Irrigation POST /api/v1/recommendations/irrigation
func (h *Handlers) Irrigation(c *fiber.Ctx) error {
	var req IrrigationRequest
	if fields := validation.ParseBody(c, &req); fields != nil {
		return response.ValidationError(c, fields)
	}
	return response.Success(c, "Irrigation advice", h.Service.AdviseIrrigation(*req.MoisturePercent), nil)
}

// History GET /api/v1/recommendations/:kind/history?limit=
func (h *Handlers) History(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	ctx, limit := c.UserContext(), c.QueryInt("limit", recsvc.DefaultHistoryLimit)

	var (
		out   interface{}
		count int
		err   error
	)
	switch c.Params("kind") {
	case "crop":
		rows, e := h.Service.CropHistory(ctx, actor.UserID, limit)
		out, count, err = rows, len(rows), e
	case "fertilizer":
		rows, e := h.Service.FertilizerHistory(ctx, actor.UserID, limit)
		out, count, err = rows, len(rows), e
	case "disease":
		rows, e := h.Service.DiseaseHistory(ctx, actor.UserID, limit)
		out, count, err = rows, len(rows), e
	default:
		return response.NotFound(c, "Unknown recommendation type")
	}
	if err != nil {
		return internalError(c, err)
	}
	return response.Success(c, "History fetched", out, fiber.Map{"count": count, "limit": recsvc.ClampLimit(limit)})
}
