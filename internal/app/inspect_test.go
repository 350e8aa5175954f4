package app

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
)

func TestDecodeTokenInfoJWT(t *testing.T) {
	issued := time.Unix(1700000000, 0).UTC()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
		"iat": issued.Unix(),
		"exp": issued.Add(30 * time.Minute).Unix(),
	})
	signed, err := tok.SignedString([]byte("irrelevant"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	info := decodeTokenInfo("work", signed)
	if info.Opaque {
		t.Fatalf("expected JWT to decode")
	}
	if info.Profile != "work" || info.Subject != "alice" {
		t.Fatalf("unexpected info %+v", info)
	}
	if info.IssuedAt == nil || !info.IssuedAt.Equal(issued) {
		t.Fatalf("unexpected issued_at %v", info.IssuedAt)
	}
	if info.ExpiresAt == nil || !info.ExpiresAt.Equal(issued.Add(30*time.Minute)) {
		t.Fatalf("unexpected expires_at %v", info.ExpiresAt)
	}
}

func TestDecodeTokenInfoOpaque(t *testing.T) {
	info := decodeTokenInfo("default", "fake_token_for_demo")
	if !info.Opaque || info.Subject != "" || info.Claims != nil {
		t.Fatalf("expected opaque token info, got %+v", info)
	}
}
