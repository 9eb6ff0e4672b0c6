package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Land is a plot a landowner offers for lease.
type Land struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OwnerID           uuid.UUID       `gorm:"column:owner_id;type:uuid;not null;index" json:"owner_id"`
	Title             string          `gorm:"column:title;not null" json:"title"`
	Location          string          `gorm:"column:location;not null" json:"location"`
	AreaAcres         decimal.Decimal `gorm:"column:area_acres;type:decimal(12,2);not null" json:"area_acres"`
	PricePerMonth     decimal.Decimal `gorm:"column:price_per_month;type:decimal(18,2);not null" json:"price_per_month"`
	SoilType          *string         `gorm:"column:soil_type" json:"soil_type"`
	WaterAvailability *string         `gorm:"column:water_availability" json:"water_availability"`
	Description       *string         `gorm:"column:description" json:"description"`
	IsAvailable       bool            `gorm:"column:is_available;not null" json:"is_available"`
	CreatedAt         time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (Land) TableName() string {
	return "lands"
}

func (l *Land) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
