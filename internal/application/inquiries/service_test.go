package inquiries

import (
	"context"
	"testing"

	"farmconnect-backend/internal/domain"
	"farmconnect-backend/internal/infrastructure/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc     *Service
	buyer   uuid.UUID
	seller  uuid.UUID
	land    uuid.UUID
	listing uuid.UUID
}

func setupInquiries(t *testing.T) fixture {
	db, err := database.Open(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	seller := &domain.Profile{Email: "seller@example.com", PasswordHash: "x", FullName: "Seller", Role: "landowner"}
	buyer := &domain.Profile{Email: "buyer@example.com", PasswordHash: "x", FullName: "Buyer", Role: "buyer"}
	require.NoError(t, db.Create(seller).Error)
	require.NoError(t, db.Create(buyer).Error)

	land := &domain.Land{OwnerID: seller.ID, Title: "Plot", Location: "Pune",
		AreaAcres: decimal.NewFromInt(2), PricePerMonth: decimal.NewFromInt(5000), IsAvailable: true}
	require.NoError(t, db.Create(land).Error)
	listing := &domain.Listing{SellerID: seller.ID, CropName: "Grapes", Quantity: decimal.NewFromInt(5),
		Unit: "kg", PricePerUnit: decimal.NewFromInt(90), IsAvailable: true}
	require.NoError(t, db.Create(listing).Error)

	return fixture{svc: &Service{DB: db}, buyer: buyer.ID, seller: seller.ID, land: land.ID, listing: listing.ID}
}

func TestCreate_ResolvesSeller(t *testing.T) {
	f := setupInquiries(t)
	ctx := context.Background()
	msg := "Is water available year round?"

	inq, err := f.svc.Create(ctx, f.buyer, CreateInput{ListingID: f.land, ListingType: "land", Message: &msg})
	require.NoError(t, err)
	assert.Equal(t, f.seller, inq.SellerID)
	assert.False(t, inq.IsRead)

	inq, err = f.svc.Create(ctx, f.buyer, CreateInput{ListingID: f.listing, ListingType: "crop"})
	require.NoError(t, err)
	assert.Equal(t, f.seller, inq.SellerID)

	received, err := f.svc.Received(ctx, f.seller)
	require.NoError(t, err)
	assert.Len(t, received, 2)
	sent, err := f.svc.Sent(ctx, f.buyer)
	require.NoError(t, err)
	assert.Len(t, sent, 2)
}

func TestCreate_Errors(t *testing.T) {
	f := setupInquiries(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.buyer, CreateInput{ListingID: f.land, ListingType: "barn"})
	assert.ErrorIs(t, err, ErrInvalidType)

	_, err = f.svc.Create(ctx, f.buyer, CreateInput{ListingID: f.land, ListingType: "crop"})
	assert.ErrorIs(t, err, ErrListingNotFound)

	_, err = f.svc.Create(ctx, f.seller, CreateInput{ListingID: f.land, ListingType: "land"})
	assert.ErrorIs(t, err, ErrOwnListing)
}

func TestMarkRead(t *testing.T) {
	f := setupInquiries(t)
	ctx := context.Background()
	inq, err := f.svc.Create(ctx, f.buyer, CreateInput{ListingID: f.land, ListingType: "land"})
	require.NoError(t, err)

	n, err := f.svc.UnreadCount(ctx, f.seller)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = f.svc.MarkRead(ctx, f.buyer, inq.ID)
	assert.ErrorIs(t, err, ErrNotSeller)

	got, err := f.svc.MarkRead(ctx, f.seller, inq.ID)
	require.NoError(t, err)
	assert.True(t, got.IsRead)

	n, err = f.svc.UnreadCount(ctx, f.seller)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = f.svc.MarkRead(ctx, f.seller, uuid.New())
	assert.ErrorIs(t, err, ErrInquiryNotFound)
}

func TestMessages_ParticipantsOnly(t *testing.T) {
	f := setupInquiries(t)
	ctx := context.Background()
	inq, err := f.svc.Create(ctx, f.buyer, CreateInput{ListingID: f.listing, ListingType: "crop"})
	require.NoError(t, err)

	_, err = f.svc.AddMessage(ctx, f.buyer, inq.ID, MessageInput{Message: "Can you deliver?"})
	require.NoError(t, err)
	_, err = f.svc.AddMessage(ctx, f.seller, inq.ID, MessageInput{Message: " Yes, within 20 km "})
	require.NoError(t, err)

	_, err = f.svc.AddMessage(ctx, uuid.New(), inq.ID, MessageInput{Message: "hi"})
	assert.ErrorIs(t, err, ErrNotParticipant)
	_, err = f.svc.Messages(ctx, uuid.New(), inq.ID)
	assert.ErrorIs(t, err, ErrNotParticipant)

	thread, err := f.svc.Messages(ctx, f.seller, inq.ID)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, "Yes, within 20 km", thread[1].Message)
}
