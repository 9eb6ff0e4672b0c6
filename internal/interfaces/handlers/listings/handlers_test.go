package listings

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"farmconnect-backend/internal/application/marketplace"
	"farmconnect-backend/internal/infrastructure/database"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupListingsApp(t *testing.T) *fiber.App {
	db, err := database.Open(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	h := &Handlers{Service: &marketplace.Service{DB: db}}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if id := c.Get("X-Test-User"); id != "" {
			c.Locals("user", map[string]interface{}{"user_id": id, "role": "farmer"})
		}
		return c.Next()
	})
	app.Post("/listings", h.Create)
	app.Get("/listings", h.List)
	app.Get("/listings/categories", h.Categories)
	app.Get("/listings/mine", h.Mine)
	app.Get("/listings/:id", h.Get)
	app.Put("/listings/:id", h.Update)
	app.Get("/listings/:id/events", h.Events)
	return app
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  struct {
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func do(t *testing.T, app *fiber.App, method, path string, user uuid.UUID, body interface{}) (*http.Response, envelope) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != uuid.Nil {
		req.Header.Set("X-Test-User", user.String())
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var env envelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return resp, env
}

func TestCreateAndBrowse(t *testing.T) {
	farmer := uuid.New()
	app := setupListingsApp(t)

	resp, env := do(t, app, "POST", "/listings", farmer, map[string]interface{}{
		"crop_name": "Tomato", "quantity": 25, "unit": "kg", "price_per_unit": "32.50",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created marketplace.ListingView
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "vegetable", string(created.Category))
	assert.Equal(t, "32.5", created.PricePerUnit.String())

	_, _ = do(t, app, "POST", "/listings", farmer, map[string]interface{}{
		"crop_name": "Banana", "quantity": 40, "unit": "dozen", "price_per_unit": 45,
	})

	resp, env = do(t, app, "GET", "/listings?category=fruits", uuid.Nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var fruits []marketplace.ListingView
	require.NoError(t, json.Unmarshal(env.Data, &fruits))
	require.Len(t, fruits, 1)
	assert.Equal(t, "Banana", fruits[0].CropName)

	resp, _ = do(t, app, "GET", "/listings?category=spices", uuid.Nil, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	_, env = do(t, app, "GET", "/listings/categories", uuid.Nil, nil)
	var counts map[string]int
	require.NoError(t, json.Unmarshal(env.Data, &counts))
	assert.Equal(t, 1, counts["vegetable"])
	assert.Equal(t, 1, counts["fruit"])
	assert.Equal(t, 0, counts["grain"])

	_, env = do(t, app, "GET", "/listings/mine", farmer, nil)
	var mine []marketplace.ListingView
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	assert.Len(t, mine, 2)

	resp, _ = do(t, app, "GET", "/listings/"+created.ID.String(), uuid.Nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = do(t, app, "GET", "/listings/"+uuid.NewString(), uuid.Nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp, _ = do(t, app, "GET", "/listings/not-a-uuid", uuid.Nil, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreate_Validation(t *testing.T) {
	farmer := uuid.New()
	app := setupListingsApp(t)

	resp, env := do(t, app, "POST", "/listings", farmer, map[string]interface{}{
		"crop_name": "", "quantity": -1, "unit": "kg", "price_per_unit": 0,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, env.Error.Details, "crop_name")
	assert.Contains(t, env.Error.Details, "quantity")
	assert.Contains(t, env.Error.Details, "price_per_unit")

	resp, _ = do(t, app, "POST", "/listings", uuid.Nil, map[string]interface{}{"crop_name": "Rice"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestUpdate_OwnerOnlyAndEvents(t *testing.T) {
	farmer := uuid.New()
	app := setupListingsApp(t)
	_, env := do(t, app, "POST", "/listings", farmer, map[string]interface{}{
		"crop_name": "Wheat", "quantity": 10, "unit": "quintal", "price_per_unit": 2100,
	})
	var created marketplace.ListingView
	require.NoError(t, json.Unmarshal(env.Data, &created))
	path := "/listings/" + created.ID.String()

	resp, _ := do(t, app, "PUT", path, uuid.New(), map[string]interface{}{"quantity": 5})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = do(t, app, "PUT", path, farmer, map[string]interface{}{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, env = do(t, app, "PUT", path, farmer, map[string]interface{}{"quantity": 0})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var updated marketplace.ListingView
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.False(t, updated.IsAvailable)

	_, env = do(t, app, "GET", path+"/events", uuid.Nil, nil)
	var events []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &events))
	require.Len(t, events, 2)
	assert.Equal(t, "CREATED", events[0]["event_type"])
	assert.Equal(t, "UPDATED", events[1]["event_type"])
}
