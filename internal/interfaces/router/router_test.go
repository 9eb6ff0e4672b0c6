package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"farmconnect-backend/internal/config"
	"farmconnect-backend/internal/infrastructure/database"
	"farmconnect-backend/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T, cfg *config.Config) *fiber.App {
	db, err := database.Open(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	if cfg == nil {
		cfg = &config.Config{Env: "test", HealthAdminKey: "k"}
	}
	return New(Deps{Config: cfg, DB: db, Rdb: rdb})
}

type client struct {
	t      *testing.T
	app    *fiber.App
	cookie *http.Cookie
}

func (c *client) do(method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	for _, ck := range resp.Cookies() {
		if ck.Name == middleware.SessionCookieName && ck.Value != "" {
			c.cookie = ck
		}
	}
	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func signup(t *testing.T, app *fiber.App, email, role string) *client {
	c := &client{t: t, app: app}
	resp, _ := c.do("POST", "/api/v1/auth/signup", map[string]string{
		"email": email, "password": "harvest2024", "full_name": "Test User", "role": role,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.NotNil(t, c.cookie)
	return c
}

func TestMarketplaceFlow(t *testing.T) {
	app := setupApp(t, nil)
	farmer := signup(t, app, "farmer@example.com", "farmer")
	buyer := signup(t, app, "buyer@example.com", "buyer")

	resp, out := farmer.do("POST", "/api/v1/listings", map[string]interface{}{
		"crop_name": "Onion", "quantity": 10, "unit": "kg", "price_per_unit": 50,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	listingID := out["data"].(map[string]interface{})["id"].(string)

	resp, _ = buyer.do("POST", "/api/v1/listings", map[string]interface{}{
		"crop_name": "Rice", "quantity": 1, "unit": "kg", "price_per_unit": 1,
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, out = buyer.do("POST", "/api/v1/orders", map[string]interface{}{"listing_id": listingID, "quantity": 8})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	order := out["data"].(map[string]interface{})["order"].(map[string]interface{})
	assert.Equal(t, "400", order["total_amount"])

	resp, _ = buyer.do("POST", "/api/v1/orders", map[string]interface{}{"listing_id": listingID, "quantity": 11})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, _ = farmer.do("POST", "/api/v1/orders", map[string]interface{}{"listing_id": listingID, "quantity": 1})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, out = farmer.do("GET", "/api/v1/orders/sales", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, out["data"], 1)

	resp, out = buyer.do("GET", fmt.Sprintf("/api/v1/listings/%s/events", listingID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, out["data"], 2)

	resp, out = farmer.do("GET", "/api/v1/dashboard", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "farmer", out["data"].(map[string]interface{})["role"])
}

func TestUnauthenticated(t *testing.T) {
	app := setupApp(t, nil)
	anon := &client{t: t, app: app}

	resp, _ := anon.do("GET", "/api/v1/listings", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	resp, _ = anon.do("GET", "/api/v1/auth/me", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRecommendationsRateLimited(t *testing.T) {
	app := setupApp(t, &config.Config{RateLimitRPS: 0.001, RateLimitBurst: 2})
	farmer := signup(t, app, "farmer@example.com", "farmer")
	body := map[string]interface{}{"moisture_percent": 40}

	for i := 0; i < 2; i++ {
		resp, _ := farmer.do("POST", "/api/v1/recommendations/irrigation", body)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	resp, _ := farmer.do("POST", "/api/v1/recommendations/irrigation", body)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestOperationalEndpoints(t *testing.T) {
	app := setupApp(t, nil)
	anon := &client{t: t, app: app}

	resp, out := anon.do("GET", "/health/json", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", out["status"])

	req := httptest.NewRequest("GET", "/metrics", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	b, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(b), "farmconnect_http_requests_total")
}
