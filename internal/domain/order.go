package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Order struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ListingID     uuid.UUID       `gorm:"column:listing_id;type:uuid;not null;index" json:"listing_id"`
	BuyerID       uuid.UUID       `gorm:"column:buyer_id;type:uuid;not null;index" json:"buyer_id"`
	SellerID      uuid.UUID       `gorm:"column:seller_id;type:uuid;not null;index" json:"seller_id"`
	CropName      string          `gorm:"column:crop_name;not null" json:"crop_name"`
	Quantity      decimal.Decimal `gorm:"column:quantity;type:decimal(18,3);not null" json:"quantity"`
	Unit          string          `gorm:"column:unit;type:varchar(20);not null" json:"unit"`
	TotalAmount   decimal.Decimal `gorm:"column:total_amount;type:decimal(18,2);not null" json:"total_amount"`
	Status        string          `gorm:"column:status;type:varchar(20);not null" json:"status"`
	PaymentStatus string          `gorm:"column:payment_status;type:varchar(20);not null" json:"payment_status"`
	CreatedAt     time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
