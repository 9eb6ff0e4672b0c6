package domain

import (
	"time"

	"farmconnect-backend/internal/engine"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Listing event types.
const (
	ListingEventCreated = "CREATED"
	ListingEventUpdated = "UPDATED"
	ListingEventOrdered = "ORDERED"
	ListingEventSoldOut = "SOLD_OUT"
)

// Listing is a farmer's produce offer. IsAvailable tracks Quantity > 0.
type Listing struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SellerID     uuid.UUID       `gorm:"column:seller_id;type:uuid;not null;index" json:"seller_id"`
	CropName     string          `gorm:"column:crop_name;not null" json:"crop_name"`
	Quantity     decimal.Decimal `gorm:"column:quantity;type:decimal(18,3);not null" json:"quantity"`
	Unit         string          `gorm:"column:unit;type:varchar(20);not null" json:"unit"`
	PricePerUnit decimal.Decimal `gorm:"column:price_per_unit;type:decimal(18,2);not null" json:"price_per_unit"`
	Description  *string         `gorm:"column:description" json:"description"`
	Location     *string         `gorm:"column:location" json:"location"`
	IsAvailable  bool            `gorm:"column:is_available;not null" json:"is_available"`
	CreatedAt    time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (Listing) TableName() string {
	return "marketplace_listings"
}

func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Stock returns the settlement view of the listing.
func (l Listing) Stock() engine.Listing {
	return engine.Listing{
		ID:           l.ID.String(),
		SellerID:     l.SellerID.String(),
		CropName:     l.CropName,
		Quantity:     l.Quantity,
		Unit:         l.Unit,
		PricePerUnit: l.PricePerUnit,
		IsAvailable:  l.IsAvailable,
	}
}

// ListingEvent is an append-only audit entry for a listing.
type ListingEvent struct {
	EventID   uuid.UUID      `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	ListingID uuid.UUID      `gorm:"column:listing_id;type:uuid;not null;index" json:"listing_id"`
	EventType string         `gorm:"column:event_type;type:varchar(30);not null" json:"event_type"`
	EventData datatypes.JSON `gorm:"column:event_data;not null" json:"event_data"`
	ActorID   *uuid.UUID     `gorm:"column:actor_id;type:uuid" json:"actor_id"`
	CreatedAt time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (ListingEvent) TableName() string {
	return "listing_events"
}

func (le *ListingEvent) BeforeCreate(tx *gorm.DB) error {
	if le.EventID == uuid.Nil {
		le.EventID = uuid.New()
	}
	return nil
}
