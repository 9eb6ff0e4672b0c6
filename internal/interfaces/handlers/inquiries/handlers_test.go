package inquiries

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	inqsvc "farmconnect-backend/internal/application/inquiries"
	"farmconnect-backend/internal/domain"
	"farmconnect-backend/internal/infrastructure/database"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupInquiriesApp(t *testing.T) (*fiber.App, uuid.UUID, uuid.UUID) {
	db, err := database.Open(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	seller := uuid.New()
	listing := &domain.Listing{SellerID: seller, CropName: "Mango", Quantity: decimal.NewFromInt(50),
		Unit: "kg", PricePerUnit: decimal.NewFromInt(120), IsAvailable: true}
	require.NoError(t, db.Create(listing).Error)

	h := &Handlers{Service: &inqsvc.Service{DB: db}}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if id := c.Get("X-Test-User"); id != "" {
			c.Locals("user", map[string]interface{}{"user_id": id})
		}
		return c.Next()
	})
	app.Post("/inquiries", h.Create)
	app.Get("/inquiries/received", h.Received)
	app.Get("/inquiries/sent", h.Sent)
	app.Patch("/inquiries/:id/read", h.MarkRead)
	app.Post("/inquiries/:id/messages", h.AddMessage)
	app.Get("/inquiries/:id/messages", h.Messages)
	return app, seller, listing.ID
}

func hit(t *testing.T, app *fiber.App, method, path string, user uuid.UUID, body string) *http.Response {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if user != uuid.Nil {
		req.Header.Set("X-Test-User", user.String())
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestInquiryThread(t *testing.T) {
	app, seller, listing := setupInquiriesApp(t)
	buyer, stranger := uuid.New(), uuid.New()

	resp := hit(t, app, "POST", "/inquiries", buyer,
		fmt.Sprintf(`{"listing_id":%q,"listing_type":"crop","message":"Bulk price?"}`, listing))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created struct {
		Data domain.Inquiry `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, seller, created.Data.SellerID)
	base := "/inquiries/" + created.Data.ID.String()

	assert.Equal(t, fiber.StatusBadRequest, hit(t, app, "POST", "/inquiries", buyer,
		fmt.Sprintf(`{"listing_id":%q,"listing_type":"barn"}`, listing)).StatusCode)
	assert.Equal(t, fiber.StatusNotFound, hit(t, app, "POST", "/inquiries", buyer,
		fmt.Sprintf(`{"listing_id":%q,"listing_type":"land"}`, listing)).StatusCode)

	assert.Equal(t, fiber.StatusForbidden, hit(t, app, "PATCH", base+"/read", buyer, "").StatusCode)
	assert.Equal(t, fiber.StatusOK, hit(t, app, "PATCH", base+"/read", seller, "").StatusCode)
	assert.Equal(t, fiber.StatusBadRequest, hit(t, app, "PATCH", "/inquiries/nope/read", seller, "").StatusCode)

	assert.Equal(t, fiber.StatusCreated, hit(t, app, "POST", base+"/messages", seller, `{"message":"200/kg for 50kg"}`).StatusCode)
	assert.Equal(t, fiber.StatusForbidden, hit(t, app, "POST", base+"/messages", stranger, `{"message":"hi"}`).StatusCode)
	assert.Equal(t, fiber.StatusBadRequest, hit(t, app, "POST", base+"/messages", buyer, `{"message":""}`).StatusCode)

	var thread struct {
		Data []domain.InquiryMessage `json:"data"`
	}
	resp = hit(t, app, "GET", base+"/messages", buyer, "")
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&thread))
	require.Len(t, thread.Data, 1)
	assert.Equal(t, seller, thread.Data[0].SenderID)

	var list struct {
		Data []domain.Inquiry `json:"data"`
	}
	resp = hit(t, app, "GET", "/inquiries/received", seller, "")
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list.Data, 1)
	assert.True(t, list.Data[0].IsRead)

	resp = hit(t, app, "GET", "/inquiries/sent", buyer, "")
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Len(t, list.Data, 1)
}
