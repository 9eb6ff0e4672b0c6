package profiles

import (
	"context"
	"testing"

	"farmconnect-backend/internal/domain"
	"farmconnect-backend/internal/infrastructure/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProfiles(t *testing.T) (*Service, *domain.Profile) {
	db, err := database.Open(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	p := &domain.Profile{Email: "ravi@example.com", PasswordHash: "x", FullName: "Ravi Kumar", Role: "farmer"}
	require.NoError(t, db.Create(p).Error)
	return &Service{DB: db}, p
}

func strp(s string) *string { return &s }

func TestNormalizeFullName(t *testing.T) {
	assert.Equal(t, "Ravi Kumar", NormalizeFullName("  rAVI   kumar "))
	assert.Equal(t, "Anne-Marie", NormalizeFullName("anne-marie"))
	assert.Equal(t, "", NormalizeFullName("   "))
}

func TestUpdate(t *testing.T) {
	svc, p := setupProfiles(t)
	ctx := context.Background()

	got, err := svc.Update(ctx, p.ID, UpdateInput{FullName: strp("sita devi"), Phone: strp(" 98765 ")})
	require.NoError(t, err)
	assert.Equal(t, "Sita Devi", got.FullName)
	require.NotNil(t, got.Phone)
	assert.Equal(t, "98765", *got.Phone)

	got, err = svc.Update(ctx, p.ID, UpdateInput{Phone: strp("")})
	require.NoError(t, err)
	assert.Nil(t, got.Phone)
	assert.Equal(t, "Sita Devi", got.FullName)
}

func TestUpdate_Errors(t *testing.T) {
	svc, p := setupProfiles(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, p.ID, UpdateInput{})
	assert.ErrorIs(t, err, ErrNothingToUpdate)

	_, err = svc.Update(ctx, p.ID, UpdateInput{FullName: strp("   ")})
	assert.ErrorIs(t, err, ErrInvalidFullName)

	_, err = svc.Update(ctx, uuid.New(), UpdateInput{Phone: strp("1")})
	assert.ErrorIs(t, err, ErrProfileNotFound)

	_, err = svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrProfileNotFound)
}
