package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"farmconnect-backend/internal/metrics"
	"farmconnect-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// RateLimitConfig configures a token bucket per client.
type RateLimitConfig struct {
	RPS   float64
	Burst int
	// MaxClients bounds the limiter cache; idle clients expire after TTL.
	MaxClients int
	TTL        time.Duration
}

// RateLimit rejects requests with 429 once a client exceeds its bucket.
// Clients are keyed by session user id, falling back to IP.
// A non-positive RPS disables limiting.
func RateLimit(cfg RateLimitConfig) fiber.Handler {
	if cfg.RPS <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	if cfg.Burst <= 0 {
		cfg.Burst = int(math.Ceil(cfg.RPS))
	}
	if cfg.MaxClients <= 0 {
		cfg.MaxClients = 10000
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Minute
	}
	limiters := newLimiterStore(cfg)

	return func(c *fiber.Ctx) error {
		key := "ip:" + c.IP()
		if actor, ok := CurrentActor(c); ok {
			key = "user:" + actor.UserID.String()
		}
		if !limiters.get(key).Allow() {
			metrics.RateLimited.WithLabelValues(routeLabel(c)).Inc()
			retry := int(math.Ceil(1 / cfg.RPS))
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retry))
			return response.Error(c, "Too many requests", fiber.StatusTooManyRequests, nil)
		}
		return c.Next()
	}
}

// limiterStore hands out one bucket per client key. The lookup and insert
// happen under one lock so concurrent first requests share a bucket.
type limiterStore struct {
	mu    sync.Mutex
	lru   *expirable.LRU[string, *rate.Limiter]
	limit rate.Limit
	burst int
}

func newLimiterStore(cfg RateLimitConfig) *limiterStore {
	return &limiterStore{
		lru:   expirable.NewLRU[string, *rate.Limiter](cfg.MaxClients, nil, cfg.TTL),
		limit: rate.Limit(cfg.RPS),
		burst: cfg.Burst,
	}
}

func (s *limiterStore) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lim, ok := s.lru.Get(key); ok {
		return lim
	}
	lim := rate.NewLimiter(s.limit, s.burst)
	s.lru.Add(key, lim)
	return lim
}
