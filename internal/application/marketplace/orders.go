package marketplace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"farmconnect-backend/internal/domain"
	"farmconnect-backend/internal/engine"
	"farmconnect-backend/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PlaceOrderInput struct {
	ListingID uuid.UUID       `json:"listing_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"gt=0"`
}

// OrderResult is the created order and the listing after the sale.
type OrderResult struct {
	Order   domain.Order `json:"order"`
	Listing ListingView  `json:"listing"`
}

// PlaceOrder settles an order in one transaction: the engine checks the
// request against the listing, then the stock decrement is applied as a
// conditional update so two concurrent buyers cannot oversell.
func (s *Service) PlaceOrder(ctx context.Context, buyerID uuid.UUID, in PlaceOrderInput) (*OrderResult, error) {
	var result *OrderResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		listing, err := findListing(tx, in.ListingID)
		if err != nil {
			return err
		}
		if listing.SellerID == buyerID {
			return ErrOwnListing
		}
		if !in.Quantity.Equal(in.Quantity.Round(stockScale)) {
			return engine.ErrInvalidQuantity
		}

		settled, _, err := engine.PlaceOrder(listing.Stock(), engine.OrderRequest{
			ListingID:         listing.ID.String(),
			BuyerID:           buyerID.String(),
			RequestedQuantity: in.Quantity,
		})
		if err != nil {
			return err
		}

		ok, err := decrementStock(tx, listing.ID, in.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return engine.ErrInsufficientStock
		}

		order := domain.Order{
			ListingID:     listing.ID,
			BuyerID:       buyerID,
			SellerID:      listing.SellerID,
			CropName:      listing.CropName,
			Quantity:      settled.Quantity,
			Unit:          settled.Unit,
			TotalAmount:   settled.TotalAmount,
			Status:        settled.Status,
			PaymentStatus: settled.PaymentStatus,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		after, err := findListing(tx, listing.ID)
		if err != nil {
			return err
		}
		if err := recordEvent(tx, listing.ID, domain.ListingEventOrdered, &buyerID, map[string]interface{}{
			"order_id":           order.ID,
			"quantity":           order.Quantity,
			"total_amount":       order.TotalAmount,
			"remaining_quantity": after.Quantity,
		}); err != nil {
			return err
		}
		if !after.IsAvailable {
			if err := recordEvent(tx, listing.ID, domain.ListingEventSoldOut, &buyerID, map[string]interface{}{
				"order_id": order.ID,
			}); err != nil {
				return err
			}
		}
		result = &OrderResult{Order: order, Listing: viewOf(*after)}
		return nil
	})
	if err != nil {
		metrics.OrdersRejected.WithLabelValues(rejectReason(err)).Inc()
		if errors.Is(err, engine.ErrInsufficientStock) {
			zerolog.Ctx(ctx).Warn().Str("listing_id", in.ListingID.String()).Str("buyer_id", buyerID.String()).
				Str("quantity", in.Quantity.String()).Msg("order rejected: insufficient stock")
		}
		return nil, err
	}

	metrics.OrdersPlaced.Inc()
	if !result.Listing.IsAvailable {
		metrics.ListingsSoldOut.Inc()
	}
	zerolog.Ctx(ctx).Info().Str("order_id", result.Order.ID.String()).Str("listing_id", in.ListingID.String()).
		Str("quantity", result.Order.Quantity.String()).Str("total", result.Order.TotalAmount.String()).Msg("order placed")
	return result, nil
}

// stockScale is the number of decimal places stored for listing quantities.
const stockScale = 3

// decrementStock subtracts qty only if the row still holds at least qty.
// It reports false when the guard fails. The difference is rounded to
// stockScale in SQL because SQLite keeps DECIMAL columns as REAL.
func decrementStock(tx *gorm.DB, listingID uuid.UUID, qty decimal.Decimal) (bool, error) {
	remaining := fmt.Sprintf("ROUND(quantity - ?, %d)", stockScale)
	res := tx.Model(&domain.Listing{}).
		Where("id = ? AND quantity >= ?", listingID, qty).
		Updates(map[string]interface{}{
			"quantity":     gorm.Expr(remaining, qty),
			"is_available": gorm.Expr(remaining+" > 0", qty),
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, engine.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, engine.ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, ErrListingNotFound):
		return "listing_not_found"
	case errors.Is(err, ErrOwnListing):
		return "own_listing"
	}
	return "error"
}

// BuyerOrders returns the buyer's orders, newest first.
func (s *Service) BuyerOrders(ctx context.Context, buyerID uuid.UUID) ([]domain.Order, error) {
	orders := []domain.Order{}
	err := s.DB.WithContext(ctx).Where("buyer_id = ?", buyerID).Order("created_at DESC").Find(&orders).Error
	return orders, err
}

// SellerOrders returns orders placed against the seller's listings, newest first.
func (s *Service) SellerOrders(ctx context.Context, sellerID uuid.UUID) ([]domain.Order, error) {
	orders := []domain.Order{}
	err := s.DB.WithContext(ctx).Where("seller_id = ?", sellerID).Order("created_at DESC").Find(&orders).Error
	return orders, err
}
