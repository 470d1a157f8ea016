package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func TestExpiresAt(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	tok := signed(t, jwt.MapClaims{"sub": "u1", "exp": exp.Unix()})

	got, err := ExpiresAt(tok)
	if err != nil {
		t.Fatalf("ExpiresAt: %v", err)
	}
	if !got.Equal(exp) {
		t.Fatalf("want=%v got=%v", exp, got)
	}
}

func TestExpiresAtErrors(t *testing.T) {
	if _, err := ExpiresAt(""); !errors.Is(err, ErrMalformedToken) {
		t.Fatalf("empty: want ErrMalformedToken got=%v", err)
	}
	if _, err := ExpiresAt("not.a.jwt"); !errors.Is(err, ErrMalformedToken) {
		t.Fatalf("garbage: want ErrMalformedToken got=%v", err)
	}
	if _, err := ExpiresAt(signed(t, jwt.MapClaims{"sub": "u1"})); !errors.Is(err, ErrNoExpiry) {
		t.Fatalf("no exp: want ErrNoExpiry got=%v", err)
	}
}

func TestIsAuthenticated(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"empty", "", false},
		{"malformed", "abc", false},
		{"expired", signed(t, jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()}), false},
		{"valid", signed(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()}), true},
		{"no exp", signed(t, jwt.MapClaims{"sub": "guest"}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAuthenticated(tt.token, now); got != tt.want {
				t.Fatalf("want=%v got=%v", tt.want, got)
			}
		})
	}
}
