package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/clinicdesk/clinic-auth/internal/models"
)

var (
	// ErrInvalidCredentials covers unknown username, wrong password, and
	// deactivated user alike. Callers must not be able to tell which.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

// UserStore is the slice of storage the session manager needs.
type UserStore interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

// SessionManager issues and resolves sessions. Sessions are stateless signed
// tokens carried in an HttpOnly cookie or an Authorization: Bearer header.
// Resolution always re-fetches the user row: a deactivated user fails
// immediately even while holding an unexpired token. That re-fetch is the
// only revocation mechanism, so it must never be cached away.
type SessionManager struct {
	store      UserStore
	tokens     *TokenService
	cookieName string
	secure     bool
}

func NewSessionManager(store UserStore, tokens *TokenService, cookieName string, secure bool) *SessionManager {
	return &SessionManager{
		store:      store,
		tokens:     tokens,
		cookieName: cookieName,
		secure:     secure,
	}
}

// Authenticate verifies a username/password pair against the store. Missing
// user, inactive user, and password mismatch are indistinguishable: all
// return ErrInvalidCredentials.
func (m *SessionManager) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := m.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// CreateSession signs a token for user and sets it as the session cookie.
// The raw token is also returned for bearer-token API clients.
func (m *SessionManager) CreateSession(c *fiber.Ctx, user *models.User) (string, error) {
	token, err := m.tokens.Sign(user)
	if err != nil {
		return "", err
	}

	c.Cookie(&fiber.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.tokens.TTL().Seconds()),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return token, nil
}

// CurrentUser resolves the request's session to a live user, or
// ErrNotAuthenticated. Token validity alone is not enough: the user row is
// re-fetched and must still be active.
func (m *SessionManager) CurrentUser(c *fiber.Ctx) (*models.User, error) {
	token := m.extractToken(c)
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	claims, err := m.tokens.Verify(token)
	if err != nil {
		return nil, ErrNotAuthenticated
	}

	user, err := m.store.GetUserByID(c.Context(), claims.UserID)
	if err != nil || !user.IsActive {
		return nil, ErrNotAuthenticated
	}
	return user, nil
}

// RequireAuth is CurrentUser as a mandatory gate for protected operations.
func (m *SessionManager) RequireAuth(c *fiber.Ctx) (*models.User, error) {
	return m.CurrentUser(c)
}

// ClearSession tells the client to discard the session cookie. Idempotent:
// clearing with no active session is a no-op.
func (m *SessionManager) ClearSession(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// extractToken prefers the session cookie and falls back to a bearer header
// for non-browser callers.
func (m *SessionManager) extractToken(c *fiber.Ctx) string {
	if token := c.Cookies(m.cookieName); token != "" {
		return token
	}
	authHeader := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
