package engine

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrInsufficientStock is returned when an order asks for more than the listing holds.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidQuantity is returned for zero or negative order quantities.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	// ErrListingMismatch is returned when the request targets a different listing.
	ErrListingMismatch = errors.New("order request does not match listing")
)

const (
	OrderStatusPending   = "pending"
	PaymentStatusPending = "pending"
)

// Listing is the stock-bearing part of a marketplace listing.
type Listing struct {
	ID           string          `json:"id"`
	SellerID     string          `json:"seller_id"`
	CropName     string          `json:"crop_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	IsAvailable  bool            `json:"is_available"`
}

// OrderRequest is a buyer's request against a listing.
type OrderRequest struct {
	ListingID         string          `json:"listing_id"`
	BuyerID           string          `json:"buyer_id"`
	RequestedQuantity decimal.Decimal `json:"requested_quantity"`
}

// Order is the settled result of an OrderRequest.
type Order struct {
	ListingID     string          `json:"listing_id"`
	BuyerID       string          `json:"buyer_id"`
	SellerID      string          `json:"seller_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	Unit          string          `json:"unit"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
}

// PlaceOrder checks the request against the listing's stock and returns the
// order and the listing as it looks after the sale. The input listing is not
// modified; on error the caller's state is unchanged.
//
// PlaceOrder assumes a single-writer view of the listing. Callers persisting
// the result must apply the decrement as one conditional update.
func PlaceOrder(l Listing, req OrderRequest) (Order, Listing, error) {
	if req.ListingID != "" && l.ID != "" && req.ListingID != l.ID {
		return Order{}, l, ErrListingMismatch
	}
	if !req.RequestedQuantity.IsPositive() {
		return Order{}, l, ErrInvalidQuantity
	}
	if req.RequestedQuantity.GreaterThan(l.Quantity) {
		return Order{}, l, ErrInsufficientStock
	}

	after := l
	after.Quantity = l.Quantity.Sub(req.RequestedQuantity)
	after.IsAvailable = after.Quantity.IsPositive()

	return Order{
		ListingID:     l.ID,
		BuyerID:       req.BuyerID,
		SellerID:      l.SellerID,
		Quantity:      req.RequestedQuantity,
		Unit:          l.Unit,
		TotalAmount:   req.RequestedQuantity.Mul(l.PricePerUnit),
		Status:        OrderStatusPending,
		PaymentStatus: PaymentStatusPending,
	}, after, nil
}
