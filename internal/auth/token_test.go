package auth

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/clinicdesk/clinic-auth/internal/models"
)

const testSecret = "test-secret-key-at-least-32-chars-long"

func testUser() *models.User {
	return &models.User{
		ID:       7,
		ClinicID: 1,
		Username: "admin",
		Role:     models.RoleOwner,
		IsActive: true,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService(testSecret, 7*24*time.Hour)

	token, err := svc.Sign(testUser())
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	if token == "" {
		t.Fatal("Sign() returned empty token")
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("claims.UserID = %d, want 7", claims.UserID)
	}
	if claims.ClinicID != 1 {
		t.Errorf("claims.ClinicID = %d, want 1", claims.ClinicID)
	}
	if claims.Username != "admin" {
		t.Errorf("claims.Username = %q, want %q", claims.Username, "admin")
	}
	if claims.Role != models.RoleOwner {
		t.Errorf("claims.Role = %q, want %q", claims.Role, models.RoleOwner)
	}
}

func TestVerify_ExpiredToken(t *testing.T) {
	svc := NewTokenService(testSecret, -time.Minute)

	token, err := svc.Sign(testUser())
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	if _, err := svc.Verify(token); err == nil {
		t.Error("Verify() accepted an expired token")
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	signer := NewTokenService(testSecret, time.Hour)
	verifier := NewTokenService("a-completely-different-secret-value!!", time.Hour)

	token, err := signer.Sign(testUser())
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	if _, err := verifier.Verify(token); err == nil {
		t.Error("Verify() accepted a token signed with another secret")
	}
}

func TestVerify_Garbage(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJIUzI1NiJ9"} {
		if _, err := svc.Verify(token); err == nil {
			t.Errorf("Verify(%q) accepted a malformed token", token)
		}
	}
}

// Flipping any single byte of a valid token must make it unverifiable.
func TestVerify_TamperedToken(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)

	token, err := svc.Sign(testUser())
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		pos := rng.Intn(len(token))
		mutated := []byte(token)
		old := mutated[pos]
		for mutated[pos] == old {
			mutated[pos] = byte(rng.Intn(256))
		}
		if _, err := svc.Verify(string(mutated)); err == nil {
			t.Fatalf("Verify() accepted token with byte %d changed from %q to %q", pos, old, mutated[pos])
		}
	}
}

func TestSign_ConcurrentTokensDistinct(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	user := testUser()

	const n = 16
	tokens := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token, err := svc.Sign(user)
			if err != nil {
				t.Errorf("Sign() error = %v", err)
				return
			}
			tokens[i] = token
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, token := range tokens {
		if seen[token] {
			t.Fatal("two concurrent Sign() calls produced identical tokens")
		}
		seen[token] = true
		if _, err := svc.Verify(token); err != nil {
			t.Fatalf("Verify() error = %v for concurrently signed token", err)
		}
	}
}
