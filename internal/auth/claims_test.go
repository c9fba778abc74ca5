package auth

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateAndParseToken(t *testing.T) {
	user := &User{
		ID:       "usr-001",
		Username: "operator",
	}
	secret := "test-secret-key-for-jwt-signing"

	token, err := GenerateToken(user, secret, 60)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("GenerateToken() returned empty token")
	}

	claims, err := ParseToken(token, secret)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}

	if claims.Subject != "usr-001" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "usr-001")
	}
	if claims.Username != "operator" {
		t.Errorf("Username = %q, want %q", claims.Username, "operator")
	}
	if claims.ID == "" {
		t.Error("JTI (ID) should not be empty")
	}
}

func TestGenerateToken_DefaultTTL(t *testing.T) {
	user := &User{ID: "usr-001", Username: "operator"}

	token, err := GenerateToken(user, "secret", 0)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := ParseToken(token, "secret")
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}

	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if ttl != 24*time.Hour {
		t.Errorf("default TTL = %v, want 24h", ttl)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	user := &User{ID: "usr-001", Username: "operator"}

	token, err := GenerateToken(user, "correct-secret", 60)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	_, err = ParseToken(token, "wrong-secret")
	if err == nil {
		t.Error("ParseToken() should fail with wrong secret")
	}
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("not-a-valid-jwt", "secret")
	if err == nil {
		t.Error("ParseToken() should fail with invalid token string")
	}
}

func TestParseToken_AlgorithmConfusion(t *testing.T) {
	// Unsigned token (alg=none) must be rejected.
	unsigned := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0." +
		"eyJzdWIiOiJ1c3ItMDAxIiwidXNlcm5hbWUiOiJvcGVyYXRvciJ9."

	_, err := ParseToken(unsigned, "secret")
	if err == nil {
		t.Error("ParseToken() should reject alg=none tokens")
	}
	if err != nil && !strings.Contains(err.Error(), "invalid token") {
		t.Errorf("error = %v, want wrapped ErrTokenInvalid", err)
	}
}
