// Package lands manages plots that landowners offer for lease.
package lands

import (
	"context"
	"errors"
	"strings"

	"farmconnect-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrLandNotFound    = errors.New("Land not found")
	ErrNotOwner        = errors.New("Only the owner can modify this land")
	ErrNothingToUpdate = errors.New("No fields to update")
)

type CreateInput struct {
	Title             string          `json:"title" validate:"required,max=200"`
	Location          string          `json:"location" validate:"required,max=200"`
	AreaAcres         decimal.Decimal `json:"area_acres" validate:"gt=0"`
	PricePerMonth     decimal.Decimal `json:"price_per_month" validate:"gt=0"`
	SoilType          *string         `json:"soil_type" validate:"omitempty,max=50"`
	WaterAvailability *string         `json:"water_availability" validate:"omitempty,max=50"`
	Description       *string         `json:"description" validate:"omitempty,max=2000"`
}

type UpdateInput struct {
	Title             *string          `json:"title" validate:"omitempty,min=1,max=200"`
	Location          *string          `json:"location" validate:"omitempty,min=1,max=200"`
	AreaAcres         *decimal.Decimal `json:"area_acres" validate:"omitempty,gt=0"`
	PricePerMonth     *decimal.Decimal `json:"price_per_month" validate:"omitempty,gt=0"`
	SoilType          *string          `json:"soil_type" validate:"omitempty,max=50"`
	WaterAvailability *string          `json:"water_availability" validate:"omitempty,max=50"`
	Description       *string          `json:"description" validate:"omitempty,max=2000"`
	IsAvailable       *bool            `json:"is_available"`
}

func (in UpdateInput) empty() bool {
	return in.Title == nil && in.Location == nil && in.AreaAcres == nil && in.PricePerMonth == nil &&
		in.SoilType == nil && in.WaterAvailability == nil && in.Description == nil && in.IsAvailable == nil
}

type Service struct {
	DB *gorm.DB
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, in CreateInput) (*domain.Land, error) {
	land := domain.Land{
		OwnerID:           ownerID,
		Title:             strings.TrimSpace(in.Title),
		Location:          strings.TrimSpace(in.Location),
		AreaAcres:         in.AreaAcres,
		PricePerMonth:     in.PricePerMonth,
		SoilType:          in.SoilType,
		WaterAvailability: in.WaterAvailability,
		Description:       in.Description,
		IsAvailable:       true,
	}
	if err := s.DB.WithContext(ctx).Create(&land).Error; err != nil {
		return nil, err
	}
	return &land, nil
}

// Available returns lands open for lease, newest first.
func (s *Service) Available(ctx context.Context) ([]domain.Land, error) {
	out := []domain.Land{}
	err := s.DB.WithContext(ctx).Where("is_available = ?", true).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (s *Service) Owned(ctx context.Context, ownerID uuid.UUID) ([]domain.Land, error) {
	out := []domain.Land{}
	err := s.DB.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Land, error) {
	var land domain.Land
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&land).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLandNotFound
		}
		return nil, err
	}
	return &land, nil
}

func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, in UpdateInput) (*domain.Land, error) {
	if in.empty() {
		return nil, ErrNothingToUpdate
	}
	land, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if land.OwnerID != ownerID {
		return nil, ErrNotOwner
	}

	if in.Title != nil {
		land.Title = strings.TrimSpace(*in.Title)
	}
	if in.Location != nil {
		land.Location = strings.TrimSpace(*in.Location)
	}
	if in.AreaAcres != nil {
		land.AreaAcres = *in.AreaAcres
	}
	if in.PricePerMonth != nil {
		land.PricePerMonth = *in.PricePerMonth
	}
	if in.SoilType != nil {
		land.SoilType = in.SoilType
	}
	if in.WaterAvailability != nil {
		land.WaterAvailability = in.WaterAvailability
	}
	if in.Description != nil {
		land.Description = in.Description
	}
	if in.IsAvailable != nil {
		land.IsAvailable = *in.IsAvailable
	}
	if err := s.DB.WithContext(ctx).Model(land).Select("*").Omit("id", "owner_id", "created_at").Updates(land).Error; err != nil {
		return nil, err
	}
	return land, nil
}
