package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clinicdesk/clinic-auth/internal/auth"
	"github.com/clinicdesk/clinic-auth/internal/models"
)

// UserKey is the fiber.Ctx locals key the resolved user is stored under.
const UserKey = "user"

type AuthMiddleware struct {
	sessions *auth.SessionManager
}

func NewAuthMiddleware(sessions *auth.SessionManager) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// Authenticate gates protected routes. It resolves the session token (cookie
// or bearer header) to a live, active user on every request; a stale token
// for a deactivated user is rejected here regardless of expiry.
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := m.sessions.RequireAuth(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "not authenticated",
			})
		}
		c.Locals(UserKey, user)
		return c.Next()
	}
}

// RequireRole restricts a route to the given roles. Must run after
// Authenticate.
func (m *AuthMiddleware) RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals(UserKey).(*models.User)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "not authenticated",
			})
		}
		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "insufficient permissions",
		})
	}
}

// CurrentUser returns the user placed in locals by Authenticate.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(UserKey).(*models.User)
	return user, ok
}
