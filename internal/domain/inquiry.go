package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Inquiry listing types.
const (
	InquiryListingLand = "land"
	InquiryListingCrop = "crop"
)

// Inquiry is a buyer's question about a land or crop listing. SellerID is
// resolved from the referenced listing when the inquiry is created.
type Inquiry struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	BuyerID     uuid.UUID `gorm:"column:buyer_id;type:uuid;not null;index" json:"buyer_id"`
	SellerID    uuid.UUID `gorm:"column:seller_id;type:uuid;not null;index" json:"seller_id"`
	ListingID   uuid.UUID `gorm:"column:listing_id;type:uuid;not null" json:"listing_id"`
	ListingType string    `gorm:"column:listing_type;type:varchar(10);not null" json:"listing_type"`
	Message     *string   `gorm:"column:message" json:"message"`
	IsRead      bool      `gorm:"column:is_read;not null" json:"is_read"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Inquiry) TableName() string {
	return "buyer_inquiries"
}

func (i *Inquiry) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type InquiryMessage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	InquiryID uuid.UUID `gorm:"column:inquiry_id;type:uuid;not null;index" json:"inquiry_id"`
	SenderID  uuid.UUID `gorm:"column:sender_id;type:uuid;not null" json:"sender_id"`
	Message   string    `gorm:"column:message;not null" json:"message"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (InquiryMessage) TableName() string {
	return "inquiry_messages"
}

func (m *InquiryMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
