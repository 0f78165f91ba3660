package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-auth/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenService signs and verifies stateless session tokens. Forgery without
// the secret and use past expiry are the only things it defends against;
// revocation of live users happens at session resolution, not here.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Sign issues an HS256 token for user expiring at now + TTL.
func (s *TokenService) Sign(user *models.User) (string, error) {
	now := time.Now()
	claims := models.Claims{
		UserID:   user.ID,
		ClinicID: user.ClinicID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			// Unique ID so concurrent sign calls for the same user in the
			// same second still produce distinct tokens.
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature and expiry. Structural corruption, a forged
// signature, a non-HMAC signing method, and expiry all come back as
// ErrInvalidToken; callers treat that as "not authenticated".
func (s *TokenService) Verify(tokenString string) (*models.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*models.Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
