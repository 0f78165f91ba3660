package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clinicdesk/clinic-auth/internal/audit"
	"github.com/clinicdesk/clinic-auth/internal/auth"
	"github.com/clinicdesk/clinic-auth/internal/metrics"
	"github.com/clinicdesk/clinic-auth/internal/middleware"
	"github.com/clinicdesk/clinic-auth/internal/models"
	"github.com/clinicdesk/clinic-auth/internal/validation"
)

type AuthHandler struct {
	sessions *auth.SessionManager
	auditor  *audit.Recorder
}

func NewAuthHandler(sessions *auth.SessionManager, auditor *audit.Recorder) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		auditor:  auditor,
	}
}

// Login authenticates a username/password pair, issues a session cookie, and
// returns the token for bearer clients. All authentication failures get the
// same 401 body. Successful logins are audited; failed attempts are not.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if err := validation.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": validation.Message(err),
		})
	}

	user, err := h.sessions.Authenticate(c.Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Invalid username or password",
		})
	}

	token, err := h.sessions.CreateSession(c, user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}

	h.auditor.Record(c.Context(), user.ClinicID, &user.ID, "login", "user", &user.ID,
		nil, map[string]any{"username": user.Username}, clientIP(c), c.Get(fiber.HeaderUserAgent))
	metrics.LoginAttempts.WithLabelValues("success").Inc()

	return c.JSON(models.LoginResponse{
		Success: true,
		Message: "Login successful",
		User:    *user,
		Token:   token,
	})
}

// Logout clears the session cookie and always succeeds. The current user is
// resolved first so the logout can be attributed in the audit trail; if no
// user resolves, the cookie is still cleared and nothing is audited.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	user, err := h.sessions.CurrentUser(c)

	h.sessions.ClearSession(c)

	if err == nil {
		h.auditor.Record(c.Context(), user.ClinicID, &user.ID, "logout", "user", &user.ID,
			nil, map[string]any{"username": user.Username}, clientIP(c), c.Get(fiber.HeaderUserAgent))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logout successful",
	})
}

// Me returns the authenticated user resolved by the auth middleware.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "not authenticated",
		})
	}
	return c.JSON(user)
}

func clientIP(c *fiber.Ctx) string {
	if ip := c.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := c.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return c.IP()
}
