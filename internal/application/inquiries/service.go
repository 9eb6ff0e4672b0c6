// Package inquiries handles buyer questions about land and crop listings and
// the message threads that follow.
package inquiries

import (
	"context"
	"errors"
	"strings"

	"farmconnect-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInquiryNotFound = errors.New("Inquiry not found")
	ErrListingNotFound = errors.New("Listing not found")
	ErrInvalidType     = errors.New("listing_type must be land or crop")
	ErrOwnListing      = errors.New("You cannot inquire about your own listing")
	ErrNotParticipant  = errors.New("Not a participant in this inquiry")
	ErrNotSeller       = errors.New("Only the seller can mark an inquiry as read")
)

type CreateInput struct {
	ListingID   uuid.UUID `json:"listing_id" validate:"required"`
	ListingType string    `json:"listing_type" validate:"required,oneof=land crop"`
	Message     *string   `json:"message" validate:"omitempty,max=2000"`
}

type MessageInput struct {
	Message string `json:"message" validate:"required,max=2000"`
}

type Service struct {
	DB *gorm.DB
}

// sellerOf resolves the owner of the referenced land or crop listing.
func (s *Service) sellerOf(ctx context.Context, listingType string, id uuid.UUID) (uuid.UUID, error) {
	var (
		owner []uuid.UUID
		q     *gorm.DB
	)
	switch listingType {
	case domain.InquiryListingLand:
		q = s.DB.WithContext(ctx).Model(&domain.Land{}).Where("id = ?", id).Limit(1).Pluck("owner_id", &owner)
	case domain.InquiryListingCrop:
		q = s.DB.WithContext(ctx).Model(&domain.Listing{}).Where("id = ?", id).Limit(1).Pluck("seller_id", &owner)
	default:
		return uuid.Nil, ErrInvalidType
	}
	if q.Error != nil {
		return uuid.Nil, q.Error
	}
	if len(owner) == 0 {
		return uuid.Nil, ErrListingNotFound
	}
	return owner[0], nil
}

func (s *Service) Create(ctx context.Context, buyerID uuid.UUID, in CreateInput) (*domain.Inquiry, error) {
	listingType := strings.ToLower(strings.TrimSpace(in.ListingType))
	sellerID, err := s.sellerOf(ctx, listingType, in.ListingID)
	if err != nil {
		return nil, err
	}
	if sellerID == buyerID {
		return nil, ErrOwnListing
	}
	inq := domain.Inquiry{
		BuyerID:     buyerID,
		SellerID:    sellerID,
		ListingID:   in.ListingID,
		ListingType: listingType,
		Message:     in.Message,
		IsRead:      false,
	}
	if err := s.DB.WithContext(ctx).Create(&inq).Error; err != nil {
		return nil, err
	}
	return &inq, nil
}

// Received lists inquiries addressed to the seller, newest first.
func (s *Service) Received(ctx context.Context, sellerID uuid.UUID) ([]domain.Inquiry, error) {
	out := []domain.Inquiry{}
	err := s.DB.WithContext(ctx).Where("seller_id = ?", sellerID).Order("created_at DESC").Find(&out).Error
	return out, err
}

// Sent lists inquiries the buyer has made, newest first.
func (s *Service) Sent(ctx context.Context, buyerID uuid.UUID) ([]domain.Inquiry, error) {
	out := []domain.Inquiry{}
	err := s.DB.WithContext(ctx).Where("buyer_id = ?", buyerID).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (s *Service) UnreadCount(ctx context.Context, sellerID uuid.UUID) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&domain.Inquiry{}).Where("seller_id = ? AND is_read = ?", sellerID, false).Count(&n).Error
	return n, err
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (*domain.Inquiry, error) {
	var inq domain.Inquiry
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&inq).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInquiryNotFound
		}
		return nil, err
	}
	return &inq, nil
}

func (s *Service) MarkRead(ctx context.Context, sellerID, id uuid.UUID) (*domain.Inquiry, error) {
	inq, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if inq.SellerID != sellerID {
		return nil, ErrNotSeller
	}
	if err := s.DB.WithContext(ctx).Model(inq).Update("is_read", true).Error; err != nil {
		return nil, err
	}
	inq.IsRead = true
	return inq, nil
}

func (s *Service) participant(ctx context.Context, userID, id uuid.UUID) error {
	inq, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if inq.BuyerID != userID && inq.SellerID != userID {
		return ErrNotParticipant
	}
	return nil
}

// AddMessage appends to the inquiry thread. Only the buyer and seller may post.
func (s *Service) AddMessage(ctx context.Context, senderID, id uuid.UUID, in MessageInput) (*domain.InquiryMessage, error) {
	if err := s.participant(ctx, senderID, id); err != nil {
		return nil, err
	}
	msg := domain.InquiryMessage{InquiryID: id, SenderID: senderID, Message: strings.TrimSpace(in.Message)}
	if err := s.DB.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// Messages returns the thread oldest first.
func (s *Service) Messages(ctx context.Context, userID, id uuid.UUID) ([]domain.InquiryMessage, error) {
	if err := s.participant(ctx, userID, id); err != nil {
		return nil, err
	}
	out := []domain.InquiryMessage{}
	err := s.DB.WithContext(ctx).Where("inquiry_id = ?", id).Order("created_at ASC").Find(&out).Error
	return out, err
}
