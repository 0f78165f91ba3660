package auth

import (
	"testing"
)

func TestHashPassword_NonDeterministic(t *testing.T) {
	h1, err := HashPassword("password")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	h2, err := HashPassword("password")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if h1 == h2 {
		t.Error("two hashes of the same password should differ (fresh salt per call)")
	}

	if !VerifyPassword("password", h1) {
		t.Error("VerifyPassword() = false for matching password")
	}
	if !VerifyPassword("password", h2) {
		t.Error("VerifyPassword() = false for matching password")
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{"matching password", "correct horse battery staple", hash, true},
		{"wrong password", "wrong", hash, false},
		{"empty password", "", hash, false},
		{"empty hash", "correct horse battery staple", "", false},
		{"malformed hash", "correct horse battery staple", "not-a-bcrypt-hash", false},
		{"truncated hash", "correct horse battery staple", hash[:20], false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifyPassword(tt.password, tt.hash); got != tt.want {
				t.Errorf("VerifyPassword() = %v, want %v", got, tt.want)
			}
		})
	}
}
