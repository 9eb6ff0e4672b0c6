// Package marketplace manages crop listings and settles buyer orders against
// listing stock.
package marketplace

import (
	"encoding/json"
	"errors"

	"farmconnect-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrListingNotFound = errors.New("Listing not found")
	ErrNotOwner        = errors.New("Only the seller can modify this listing")
	ErrOwnListing      = errors.New("You cannot order your own listing")
	ErrNothingToUpdate = errors.New("No fields to update")
)

type Service struct {
	DB *gorm.DB
}

func findListing(tx *gorm.DB, id uuid.UUID) (*domain.Listing, error) {
	var l domain.Listing
	if err := tx.Where("id = ?", id).First(&l).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return &l, nil
}

func recordEvent(tx *gorm.DB, listingID uuid.UUID, eventType string, actor *uuid.UUID, data map[string]interface{}) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return tx.Create(&domain.ListingEvent{
		ListingID: listingID,
		EventType: eventType,
		ActorID:   actor,
		EventData: datatypes.JSON(b),
	}).Error
}
