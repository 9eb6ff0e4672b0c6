// Package dashboard assembles the landing view for each role.
package dashboard

import (
	"context"
	"errors"

	"farmconnect-backend/internal/application/inquiries"
	"farmconnect-backend/internal/application/lands"
	"farmconnect-backend/internal/application/marketplace"
	"farmconnect-backend/internal/application/recommendations"
	"farmconnect-backend/internal/domain"
	roles "farmconnect-backend/internal/pkg/constants"

	"github.com/google/uuid"
)

var ErrUnknownRole = errors.New("Unknown role")

const recentLimit = 5

type FarmerView struct {
	RecentPredictions []domain.CropPrediction   `json:"recent_predictions"`
	Listings          []marketplace.ListingView `json:"listings"`
	Sales             []domain.Order            `json:"sales"`
}

type LandownerView struct {
	Lands             []domain.Land `json:"lands"`
	UnreadInquiries   int64         `json:"unread_inquiries"`
	ReceivedInquiries int           `json:"received_inquiries"`
}

type BuyerView struct {
	Listings []marketplace.ListingView `json:"listings"`
	Lands    []domain.Land             `json:"lands"`
	Orders   []domain.Order            `json:"orders"`
}

// View is the role-tagged dashboard. Exactly one of the role sections is set.
type View struct {
	Role      string         `json:"role"`
	Farmer    *FarmerView    `json:"farmer,omitempty"`
	Landowner *LandownerView `json:"landowner,omitempty"`
	Buyer     *BuyerView     `json:"buyer,omitempty"`
}

type Service struct {
	Recommendations *recommendations.Service
	Marketplace     *marketplace.Service
	Lands           *lands.Service
	Inquiries       *inquiries.Service
}

func (s *Service) Build(ctx context.Context, userID uuid.UUID, role string) (*View, error) {
	switch role {
	case roles.RoleFarmer:
		v, err := s.farmer(ctx, userID)
		return &View{Role: role, Farmer: v}, err
	case roles.RoleLandowner:
		v, err := s.landowner(ctx, userID)
		return &View{Role: role, Landowner: v}, err
	case roles.RoleBuyer:
		v, err := s.buyer(ctx, userID)
		return &View{Role: role, Buyer: v}, err
	}
	return nil, ErrUnknownRole
}

func (s *Service) farmer(ctx context.Context, userID uuid.UUID) (*FarmerView, error) {
	preds, err := s.Recommendations.CropHistory(ctx, userID, recentLimit)
	if err != nil {
		return nil, err
	}
	listings, err := s.Marketplace.SellerListings(ctx, userID)
	if err != nil {
		return nil, err
	}
	sales, err := s.Marketplace.SellerOrders(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &FarmerView{RecentPredictions: preds, Listings: listings, Sales: sales}, nil
}

func (s *Service) landowner(ctx context.Context, userID uuid.UUID) (*LandownerView, error) {
	owned, err := s.Lands.Owned(ctx, userID)
	if err != nil {
		return nil, err
	}
	unread, err := s.Inquiries.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	received, err := s.Inquiries.Received(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &LandownerView{Lands: owned, UnreadInquiries: unread, ReceivedInquiries: len(received)}, nil
}

func (s *Service) buyer(ctx context.Context, userID uuid.UUID) (*BuyerView, error) {
	listings, err := s.Marketplace.AvailableListings(ctx, nil)
	if err != nil {
		return nil, err
	}
	available, err := s.Lands.Available(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.Marketplace.BuyerOrders(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &BuyerView{Listings: listings, Lands: available, Orders: orders}, nil
}
