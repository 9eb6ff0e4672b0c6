package auth

import (
	"errors"

	authsvc "farmconnect-backend/internal/application/auth"
	"farmconnect-backend/internal/domain"
	"farmconnect-backend/internal/middleware"
	"farmconnect-backend/internal/pkg/response"
	"farmconnect-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const userSessionsPrefix = "user_sessions:"

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	UserFinder authsvc.UserFinder
	Registrar  authsvc.Registrar
	Rdb        *redis.Client
	Config     middleware.SessionConfig
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// startSession regenerates the session id, stores the user, tracks the
// session under user_sessions:<id> and sets the cookie.
func (h *Handlers) startSession(c *fiber.Ctx, p *domain.Profile) (fiber.Map, error) {
	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:   p.ID.String(),
		FullName: p.FullName,
		Email:    p.Email,
		Role:     p.Role,
	})
	if err := h.Rdb.SAdd(c.UserContext(), userSessionsPrefix+p.ID.String(), sessionID).Err(); err != nil {
		return nil, err
	}
	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sessionID
	c.Cookie(&cookie)

	return fiber.Map{
		"user": fiber.Map{
			"user_id":   p.ID.String(),
			"full_name": p.FullName,
			"email":     p.Email,
			"role":      p.Role,
		},
	}, nil
}

// Signup POST /api/v1/auth/signup creates a profile and logs it in.
func (h *Handlers) Signup(c *fiber.Ctx) error {
	if h.Registrar == nil {
		return response.Internal(c)
	}
	var req authsvc.SignupInput
	if fields := validation.ParseBody(c, &req); fields != nil {
		return response.ValidationError(c, fields)
	}

	p, err := h.Registrar.Signup(c.UserContext(), req)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrEmailTaken):
			return response.Conflict(c, err.Error())
		case errors.Is(err, authsvc.ErrInvalidRole), errors.Is(err, authsvc.ErrEmailPasswordRequired):
			return response.BadRequest(c, err.Error())
		}
		log.Error().Err(err).Msg("signup failed")
		return response.Internal(c)
	}

	data, err := h.startSession(c, p)
	if err != nil {
		log.Error().Err(err).Msg("session tracking failed")
		return response.Internal(c)
	}
	log.Info().Str("user_id", p.ID.String()).Str("role", p.Role).Msg("signup")
	return response.SuccessCreated(c, "Signup successful", data, nil)
}

// Login POST /api/v1/auth/login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	if h.UserFinder == nil {
		return response.Internal(c)
	}
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
		return response.BadRequest(c, authsvc.ErrEmailPasswordRequired.Error())
	}

	p, err := h.UserFinder.FindByEmailAndPassword(c.UserContext(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrEmailPasswordRequired):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, authsvc.ErrInvalidEmail), errors.Is(err, authsvc.ErrIncorrectPassword):
			return response.Error(c, err.Error(), fiber.StatusUnauthorized, nil)
		}
		log.Error().Err(err).Msg("login failed")
		return response.Internal(c)
	}

	data, err := h.startSession(c, p)
	if err != nil {
		log.Error().Err(err).Msg("session tracking failed")
		return response.Internal(c)
	}
	return response.Success(c, "Login successful", data, nil)
}

// Me GET /api/v1/auth/me returns the session user.
func (h *Handlers) Me(c *fiber.Ctx) error {
	user, err := authsvc.VerifyUser(middleware.GetUser(c))
	if err != nil {
		log.Debug().Bool("session_present", middleware.GetSessionID(c) != "").Msg("auth/me: not authenticated")
		return response.Unauthorized(c, "Not authenticated")
	}
	return response.Success(c, "Authenticated", fiber.Map{"user": user}, nil)
}

// Logout DELETE /api/v1/auth/logout drops the session from Redis and clears the cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	ctx := c.UserContext()

	if actor, ok := middleware.CurrentActor(c); ok && sessionID != "" {
		_ = h.Rdb.SRem(ctx, userSessionsPrefix+actor.UserID.String(), sessionID).Err()
	}
	if sessionID != "" {
		_ = h.Rdb.Del(ctx, middleware.SessionRedisPrefix+sessionID).Err()
	}
	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = ""
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.Success(c, "Logged out successfully", nil, nil)
}
