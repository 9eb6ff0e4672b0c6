package marketplace

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"farmconnect-backend/internal/domain"
	"farmconnect-backend/internal/engine"
	"farmconnect-backend/internal/infrastructure/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc    *Service
	seller uuid.UUID
	buyer  uuid.UUID
}

func setupMarketplace(t *testing.T) fixture {
	db, err := database.Open(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	seller := &domain.Profile{Email: "farmer@example.com", PasswordHash: "x", FullName: "Farmer", Role: "farmer"}
	buyer := &domain.Profile{Email: "buyer@example.com", PasswordHash: "x", FullName: "Buyer", Role: "buyer"}
	require.NoError(t, db.Create(seller).Error)
	require.NoError(t, db.Create(buyer).Error)
	return fixture{svc: &Service{DB: db}, seller: seller.ID, buyer: buyer.ID}
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func (f fixture) listing(t *testing.T, crop string, qty, price int64) *ListingView {
	l, err := f.svc.CreateListing(context.Background(), f.seller, CreateListingInput{
		CropName: crop, Quantity: dec(qty), Unit: "kg", PricePerUnit: dec(price),
	})
	require.NoError(t, err)
	return l
}

func eventTypes(events []domain.ListingEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.EventType
	}
	return out
}

func TestCreateListing_RecordsEvent(t *testing.T) {
	f := setupMarketplace(t)
	l := f.listing(t, " red  TOMATO ", 10, 50)

	assert.Equal(t, "Red Tomato", l.CropName)
	assert.True(t, l.IsAvailable)
	assert.Equal(t, engine.CategoryVegetable, l.Category)

	events, err := f.svc.ListingEvents(context.Background(), l.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.ListingEventCreated, events[0].EventType)
	require.NotNil(t, events[0].ActorID)
	assert.Equal(t, f.seller, *events[0].ActorID)
}

func TestAvailableListings_CategoryFilter(t *testing.T) {
	f := setupMarketplace(t)
	ctx := context.Background()
	f.listing(t, "Tomato", 10, 20)
	f.listing(t, "Alphonso Mango", 5, 200)
	f.listing(t, "Basmati Rice", 100, 80)
	f.listing(t, "Turmeric", 3, 150)

	all, err := f.svc.AvailableListings(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	fruit := engine.CategoryFruit
	fruits, err := f.svc.AvailableListings(ctx, &fruit)
	require.NoError(t, err)
	require.Len(t, fruits, 1)
	assert.Equal(t, "Alphonso Mango", fruits[0].CropName)

	counts, err := f.svc.CategoryCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[engine.Category]int{
		engine.CategoryVegetable: 1,
		engine.CategoryFruit:     1,
		engine.CategoryGrain:     1,
		engine.CategoryOther:     1,
	}, counts)
}

func TestUpdateListing(t *testing.T) {
	f := setupMarketplace(t)
	ctx := context.Background()
	l := f.listing(t, "Wheat", 10, 30)

	_, err := f.svc.UpdateListing(ctx, f.buyer, l.ID, UpdateListingInput{Quantity: ptr(dec(5))})
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = f.svc.UpdateListing(ctx, f.seller, l.ID, UpdateListingInput{})
	assert.ErrorIs(t, err, ErrNothingToUpdate)

	_, err = f.svc.UpdateListing(ctx, f.seller, uuid.New(), UpdateListingInput{Quantity: ptr(dec(5))})
	assert.ErrorIs(t, err, ErrListingNotFound)

	got, err := f.svc.UpdateListing(ctx, f.seller, l.ID, UpdateListingInput{Quantity: ptr(dec(0))})
	require.NoError(t, err)
	assert.False(t, got.IsAvailable)
	assert.True(t, got.Quantity.IsZero())

	got, err = f.svc.UpdateListing(ctx, f.seller, l.ID, UpdateListingInput{Quantity: ptr(dec(7)), PricePerUnit: ptr(dec(35))})
	require.NoError(t, err)
	assert.True(t, got.IsAvailable)

	stored, err := f.svc.GetListing(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, stored.Quantity.Equal(dec(7)))
	assert.True(t, stored.PricePerUnit.Equal(dec(35)))

	events, err := f.svc.ListingEvents(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"CREATED", "UPDATED", "UPDATED"}, eventTypes(events))
}

func ptr[T any](v T) *T { return &v }

func TestPlaceOrder_DecrementsStock(t *testing.T) {
	f := setupMarketplace(t)
	ctx := context.Background()
	l := f.listing(t, "Onion", 10, 50)

	res, err := f.svc.PlaceOrder(ctx, f.buyer, PlaceOrderInput{ListingID: l.ID, Quantity: dec(8)})
	require.NoError(t, err)
	assert.True(t, res.Order.TotalAmount.Equal(dec(400)), res.Order.TotalAmount.String())
	assert.Equal(t, f.seller, res.Order.SellerID)
	assert.Equal(t, engine.OrderStatusPending, res.Order.Status)
	assert.True(t, res.Listing.Quantity.Equal(dec(2)))
	assert.True(t, res.Listing.IsAvailable)

	_, err = f.svc.PlaceOrder(ctx, f.buyer, PlaceOrderInput{ListingID: l.ID, Quantity: dec(3)})
	assert.ErrorIs(t, err, engine.ErrInsufficientStock)

	stored, err := f.svc.GetListing(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, stored.Quantity.Equal(dec(2)))

	res, err = f.svc.PlaceOrder(ctx, f.buyer, PlaceOrderInput{ListingID: l.ID, Quantity: dec(2)})
	require.NoError(t, err)
	assert.True(t, res.Listing.Quantity.IsZero())
	assert.False(t, res.Listing.IsAvailable)

	events, err := f.svc.ListingEvents(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"CREATED", "ORDERED", "ORDERED", "SOLD_OUT"}, eventTypes(events))

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(events[1].EventData, &data))
	assert.Equal(t, res.Order.ListingID.String(), l.ID.String())
	assert.Contains(t, data, "order_id")

	avail, err := f.svc.AvailableListings(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, avail)

	bought, err := f.svc.BuyerOrders(ctx, f.buyer)
	require.NoError(t, err)
	assert.Len(t, bought, 2)
	sold, err := f.svc.SellerOrders(ctx, f.seller)
	require.NoError(t, err)
	assert.Len(t, sold, 2)
}

func TestPlaceOrder_Rejections(t *testing.T) {
	f := setupMarketplace(t)
	ctx := context.Background()
	l := f.listing(t, "Maize", 10, 20)

	_, err := f.svc.PlaceOrder(ctx, f.seller, PlaceOrderInput{ListingID: l.ID, Quantity: dec(1)})
	assert.ErrorIs(t, err, ErrOwnListing)

	_, err = f.svc.PlaceOrder(ctx, f.buyer, PlaceOrderInput{ListingID: l.ID, Quantity: dec(0)})
	assert.ErrorIs(t, err, engine.ErrInvalidQuantity)

	_, err = f.svc.PlaceOrder(ctx, f.buyer, PlaceOrderInput{ListingID: uuid.New(), Quantity: dec(1)})
	assert.ErrorIs(t, err, ErrListingNotFound)

	_, err = f.svc.PlaceOrder(ctx, f.buyer, PlaceOrderInput{ListingID: l.ID, Quantity: dec(11)})
	assert.ErrorIs(t, err, engine.ErrInsufficientStock)

	orders, err := f.svc.BuyerOrders(ctx, f.buyer)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestPlaceOrder_ConcurrentBuyersNeverOversell(t *testing.T) {
	f := setupMarketplace(t)
	ctx := context.Background()
	l := f.listing(t, "Potato", 10, 15)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		rejected int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.PlaceOrder(ctx, f.buyer, PlaceOrderInput{ListingID: l.ID, Quantity: dec(3)})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				accepted++
			} else {
				assert.ErrorIs(t, err, engine.ErrInsufficientStock)
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, accepted)
	assert.Equal(t, 5, rejected)
	stored, err := f.svc.GetListing(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, stored.Quantity.Equal(dec(1)), stored.Quantity.String())
}

func TestDecrementStock_GuardsRemainingQuantity(t *testing.T) {
	f := setupMarketplace(t)
	l := f.listing(t, "Rice", 5, 40)

	ok, err := decrementStock(f.svc.DB, l.ID, dec(6))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = decrementStock(f.svc.DB, l.ID, dec(5))
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := f.svc.GetListing(context.Background(), l.ID)
	require.NoError(t, err)
	assert.True(t, stored.Quantity.IsZero())
	assert.False(t, stored.IsAvailable)
}

func TestPlaceOrder_FractionalOrdersSellOutExactly(t *testing.T) {
	f := setupMarketplace(t)
	ctx := context.Background()
	l := f.listing(t, "Basmati Rice", 1, 80)
	tenth := decimal.RequireFromString("0.1")

	var last *OrderResult
	for i := 0; i < 10; i++ {
		res, err := f.svc.PlaceOrder(ctx, f.buyer, PlaceOrderInput{ListingID: l.ID, Quantity: tenth})
		require.NoError(t, err, "order %d", i+1)
		want := decimal.NewFromInt(1).Sub(tenth.Mul(decimal.NewFromInt(int64(i + 1))))
		assert.True(t, want.Equal(res.Listing.Quantity), "after order %d: want %s got %s", i+1, want, res.Listing.Quantity)
		last = res
	}
	assert.True(t, last.Listing.Quantity.IsZero())
	assert.False(t, last.Listing.IsAvailable)
	assert.True(t, dec(8).Equal(last.Order.TotalAmount), last.Order.TotalAmount.String())

	got, err := f.svc.GetListing(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, got.Quantity.IsZero())
	assert.False(t, got.IsAvailable)

	events, err := f.svc.ListingEvents(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ListingEventSoldOut, events[len(events)-1].EventType)

	_, err = f.svc.PlaceOrder(ctx, f.buyer, PlaceOrderInput{ListingID: l.ID, Quantity: decimal.RequireFromString("0.001")})
	assert.ErrorIs(t, err, engine.ErrInsufficientStock)
}

func TestPlaceOrder_RejectsQuantityFinerThanStockScale(t *testing.T) {
	f := setupMarketplace(t)
	l := f.listing(t, "Wheat", 5, 20)

	_, err := f.svc.PlaceOrder(context.Background(), f.buyer, PlaceOrderInput{
		ListingID: l.ID, Quantity: decimal.RequireFromString("0.0005"),
	})
	assert.ErrorIs(t, err, engine.ErrInvalidQuantity)

	got, err := f.svc.GetListing(context.Background(), l.ID)
	require.NoError(t, err)
	assert.True(t, dec(5).Equal(got.Quantity))
}
