package marketplace

import (
	"context"
	"fmt"
	"strings"

	"farmconnect-backend/internal/domain"
	"farmconnect-backend/internal/engine"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

type CreateListingInput struct {
	CropName     string          `json:"crop_name" validate:"required,max=100"`
	Quantity     decimal.Decimal `json:"quantity" validate:"gt=0"`
	Unit         string          `json:"unit" validate:"required,max=20"`
	PricePerUnit decimal.Decimal `json:"price_per_unit" validate:"gt=0"`
	Description  *string         `json:"description" validate:"omitempty,max=2000"`
	Location     *string         `json:"location" validate:"omitempty,max=200"`
}

// UpdateListingInput carries optional fields; nil means unchanged.
type UpdateListingInput struct {
	Quantity     *decimal.Decimal `json:"quantity" validate:"omitempty,gte=0"`
	PricePerUnit *decimal.Decimal `json:"price_per_unit" validate:"omitempty,gt=0"`
	Description  *string          `json:"description" validate:"omitempty,max=2000"`
	Location     *string          `json:"location" validate:"omitempty,max=200"`
}

// ListingView is a listing with its browse category.
type ListingView struct {
	domain.Listing
	Category engine.Category `json:"category"`
}

// DisplayCropName trims and title-cases a crop name ("  red tomato" -> "Red Tomato").
func DisplayCropName(name string) string {
	return cases.Title(language.Und).String(strings.ToLower(strings.Join(strings.Fields(name), " ")))
}

func viewOf(l domain.Listing) ListingView {
	return ListingView{Listing: l, Category: engine.Classify(l.CropName)}
}

func (s *Service) CreateListing(ctx context.Context, sellerID uuid.UUID, in CreateListingInput) (*ListingView, error) {
	listing := domain.Listing{
		SellerID:     sellerID,
		CropName:     DisplayCropName(in.CropName),
		Quantity:     in.Quantity,
		Unit:         strings.TrimSpace(in.Unit),
		PricePerUnit: in.PricePerUnit,
		Description:  in.Description,
		Location:     in.Location,
		IsAvailable:  in.Quantity.IsPositive(),
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&listing).Error; err != nil {
			return fmt.Errorf("create listing: %w", err)
		}
		return recordEvent(tx, listing.ID, domain.ListingEventCreated, &sellerID, map[string]interface{}{
			"crop_name":      listing.CropName,
			"quantity":       listing.Quantity,
			"unit":           listing.Unit,
			"price_per_unit": listing.PricePerUnit,
		})
	})
	if err != nil {
		return nil, err
	}
	v := viewOf(listing)
	return &v, nil
}

// AvailableListings returns listings with stock, newest first. A nil
// category returns every category.
func (s *Service) AvailableListings(ctx context.Context, category *engine.Category) ([]ListingView, error) {
	var rows []domain.Listing
	if err := s.DB.WithContext(ctx).Where("is_available = ?", true).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ListingView, 0, len(rows))
	for _, l := range rows {
		v := viewOf(l)
		if category != nil && v.Category != *category {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// CategoryCounts counts available listings per category. Every category is
// present in the result.
func (s *Service) CategoryCounts(ctx context.Context) (map[engine.Category]int, error) {
	var names []string
	if err := s.DB.WithContext(ctx).Model(&domain.Listing{}).Where("is_available = ?", true).Pluck("crop_name", &names).Error; err != nil {
		return nil, err
	}
	counts := make(map[engine.Category]int, len(engine.Categories))
	for _, c := range engine.Categories {
		counts[c] = 0
	}
	for _, n := range names {
		counts[engine.Classify(n)]++
	}
	return counts, nil
}

func (s *Service) SellerListings(ctx context.Context, sellerID uuid.UUID) ([]ListingView, error) {
	var rows []domain.Listing
	if err := s.DB.WithContext(ctx).Where("seller_id = ?", sellerID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ListingView, 0, len(rows))
	for _, l := range rows {
		out = append(out, viewOf(l))
	}
	return out, nil
}

func (s *Service) GetListing(ctx context.Context, id uuid.UUID) (*ListingView, error) {
	l, err := findListing(s.DB.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	v := viewOf(*l)
	return &v, nil
}

// UpdateListing lets the seller change stock, price or text fields.
// Availability follows the resulting quantity.
func (s *Service) UpdateListing(ctx context.Context, sellerID, id uuid.UUID, in UpdateListingInput) (*ListingView, error) {
	if in.Quantity == nil && in.PricePerUnit == nil && in.Description == nil && in.Location == nil {
		return nil, ErrNothingToUpdate
	}
	if in.Quantity != nil && in.Quantity.IsNegative() {
		return nil, engine.ErrInvalidQuantity
	}

	var updated *domain.Listing
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		l, err := findListing(tx, id)
		if err != nil {
			return err
		}
		if l.SellerID != sellerID {
			return ErrNotOwner
		}

		changes := map[string]interface{}{}
		if in.Quantity != nil {
			l.Quantity = *in.Quantity
			l.IsAvailable = in.Quantity.IsPositive()
			changes["quantity"] = l.Quantity
			changes["is_available"] = l.IsAvailable
		}
		if in.PricePerUnit != nil {
			l.PricePerUnit = *in.PricePerUnit
			changes["price_per_unit"] = l.PricePerUnit
		}
		if in.Description != nil {
			l.Description = in.Description
			changes["description"] = *in.Description
		}
		if in.Location != nil {
			l.Location = in.Location
			changes["location"] = *in.Location
		}

		// Select keeps false/zero values in the update.
		if err := tx.Model(l).Select("quantity", "is_available", "price_per_unit", "description", "location", "updated_at").Updates(l).Error; err != nil {
			return err
		}
		if err := recordEvent(tx, l.ID, domain.ListingEventUpdated, &sellerID, changes); err != nil {
			return err
		}
		updated = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	v := viewOf(*updated)
	return &v, nil
}

// ListingEvents returns a listing's audit trail, oldest first.
func (s *Service) ListingEvents(ctx context.Context, id uuid.UUID) ([]domain.ListingEvent, error) {
	if _, err := findListing(s.DB.WithContext(ctx), id); err != nil {
		return nil, err
	}
	events := []domain.ListingEvent{}
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", id).Order("created_at ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
