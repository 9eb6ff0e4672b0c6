package middleware

import (
	"farmconnect-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userLocal = "user"

// Actor is the authenticated caller.
type Actor struct {
	UserID   uuid.UUID
	Email    string
	FullName string
	Role     string
}

// RequireAuth ensures a user is in the session. Returns 401 with standard error format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := CurrentActor(c); !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// GetUser returns the raw session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// CurrentActor decodes the session user. ok is false when there is no
// session user or its user_id is not a UUID.
func CurrentActor(c *fiber.Ctx) (Actor, bool) {
	m, ok := GetUser(c).(map[string]interface{})
	if !ok {
		return Actor{}, false
	}
	idStr, _ := m["user_id"].(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return Actor{}, false
	}
	a := Actor{UserID: id}
	a.Email, _ = m["email"].(string)
	a.FullName, _ = m["full_name"].(string)
	a.Role, _ = m["role"].(string)
	return a, true
}
