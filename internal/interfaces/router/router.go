package router

import (
	"fmt"
	"net/http"
	"time"

	authsvc "farmconnect-backend/internal/application/auth"
	dashsvc "farmconnect-backend/internal/application/dashboard"
	inqsvc "farmconnect-backend/internal/application/inquiries"
	landsvc "farmconnect-backend/internal/application/lands"
	"farmconnect-backend/internal/application/marketplace"
	profilesvc "farmconnect-backend/internal/application/profiles"
	recsvc "farmconnect-backend/internal/application/recommendations"
	"farmconnect-backend/internal/config"
	"farmconnect-backend/internal/constants"
	"farmconnect-backend/internal/infrastructure/database"
	authhandler "farmconnect-backend/internal/interfaces/handlers/auth"
	dashhandler "farmconnect-backend/internal/interfaces/handlers/dashboard"
	healthhandler "farmconnect-backend/internal/interfaces/handlers/health"
	inqhandler "farmconnect-backend/internal/interfaces/handlers/inquiries"
	landhandler "farmconnect-backend/internal/interfaces/handlers/lands"
	listhandler "farmconnect-backend/internal/interfaces/handlers/listings"
	orderhandler "farmconnect-backend/internal/interfaces/handlers/orders"
	profilehandler "farmconnect-backend/internal/interfaces/handlers/profiles"
	rechandler "farmconnect-backend/internal/interfaces/handlers/recommendations"
	"farmconnect-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Deps are the connections the app is built on.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Rdb    *redis.Client
}

// CreateApp opens the database and Redis from cfg and builds the app.
// SQLite databases are auto-migrated; Postgres is migrated by cmd/migrate.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil, nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if cfg.DatabaseDriver == database.DriverSQLite {
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, fmt.Errorf("auto-migrate: %w", err)
		}
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("redis url: %w", err)
	}
	rdb := redis.NewClient(opt)

	return New(Deps{Config: cfg, DB: db, Rdb: rdb}), db, rdb, nil
}

// New wires middleware, services and routes.
func New(d Deps) *fiber.App {
	cfg := d.Config
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.AllowedOriginSuffix,
		DevPassword:   cfg.DevPassword,
	}))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())
	app.Use(middleware.HTTPMetrics())
	app.Use(middleware.HealthMarker(d.Rdb))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	hh := &healthhandler.Handlers{Rdb: d.Rdb, HealthAdminKey: cfg.HealthAdminKey}
	if sqlDB, err := d.DB.DB(); err == nil {
		hh.DB = sqlDB
	} else {
		log.Warn().Err(err).Msg("health: database handle unavailable")
	}
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	app.Use(middleware.Session(d.Rdb))

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.IsProduction(),
	}

	recs := recsvc.NewService(d.DB)
	market := &marketplace.Service{DB: d.DB}
	landSvc := &landsvc.Service{DB: d.DB}
	inqSvc := &inqsvc.Service{DB: d.DB}

	users := &authsvc.Service{DB: d.DB}
	ah := &authhandler.Handlers{UserFinder: users, Registrar: users, Rdb: d.Rdb, Config: sessionCfg}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/signup", ah.Signup)
	authGroup.Post("/login", ah.Login)
	authGroup.Get("/me", ah.Me)
	authGroup.Delete("/logout", ah.Logout)

	api := app.Group("/api/v1", middleware.RequireAuth())
	allow := middleware.AuthorizePermission

	ph := &profilehandler.Handlers{Service: &profilesvc.Service{DB: d.DB}}
	api.Get("/profiles/me", ph.Me)
	api.Put("/profiles/me", ph.Update)

	rh := &rechandler.Handlers{Service: recs}
	rg := api.Group("/recommendations", middleware.RateLimit(middleware.RateLimitConfig{
		RPS:   cfg.RateLimitRPS,
		Burst: cfg.RateLimitBurst,
		TTL:   10 * time.Minute,
	}))
	rg.Post("/crop", allow(constants.RunPrediction), rh.Crop)
	rg.Post("/fertilizer", allow(constants.RunPrediction), rh.Fertilizer)
	rg.Post("/disease", allow(constants.RunPrediction), rh.Disease)
	rg.Post("/irrigation", allow(constants.ViewData), rh.Irrigation)
	rg.Get("/:kind/history", allow(constants.RunPrediction), rh.History)

	lh := &listhandler.Handlers{Service: market}
	lg := api.Group("/listings")
	lg.Post("/", allow(constants.CreateListing), lh.Create)
	lg.Get("/", allow(constants.ViewData), lh.List)
	lg.Get("/categories", allow(constants.ViewData), lh.Categories)
	lg.Get("/mine", allow(constants.CreateListing), lh.Mine)
	lg.Get("/:id", allow(constants.ViewData), lh.Get)
	lg.Put("/:id", allow(constants.EditListing), lh.Update)
	lg.Get("/:id/events", allow(constants.ViewData), lh.Events)

	oh := &orderhandler.Handlers{Service: market}
	og := api.Group("/orders")
	og.Post("/", allow(constants.PlaceOrder), oh.Place)
	og.Get("/mine", allow(constants.PlaceOrder), oh.Mine)
	og.Get("/sales", allow(constants.CreateListing), oh.Sales)

	landH := &landhandler.Handlers{Service: landSvc}
	landG := api.Group("/lands")
	landG.Post("/", allow(constants.CreateLand), landH.Create)
	landG.Get("/", allow(constants.ViewData), landH.List)
	landG.Get("/mine", allow(constants.CreateLand), landH.Mine)
	landG.Put("/:id", allow(constants.EditLand), landH.Update)

	ih := &inqhandler.Handlers{Service: inqSvc}
	ig := api.Group("/inquiries")
	ig.Post("/", allow(constants.SendInquiry), ih.Create)
	ig.Get("/sent", allow(constants.SendInquiry), ih.Sent)
	ig.Get("/received", allow(constants.ViewData), ih.Received)
	ig.Patch("/:id/read", allow(constants.ViewData), ih.MarkRead)
	ig.Post("/:id/messages", allow(constants.ViewData), ih.AddMessage)
	ig.Get("/:id/messages", allow(constants.ViewData), ih.Messages)

	dh := &dashhandler.Handlers{Service: &dashsvc.Service{
		Recommendations: recs,
		Marketplace:     market,
		Lands:           landSvc,
		Inquiries:       inqSvc,
	}}
	api.Get("/dashboard", allow(constants.ViewData), dh.Get)

	return app
}

// Handler adapts the app to net/http for the serverless entry point.
func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
