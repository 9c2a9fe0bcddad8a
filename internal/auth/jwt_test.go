package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"hondana/internal/core"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestJWTVerifier_ResolveUser(t *testing.T) {
	v, err := NewJWTVerifier("test-secret")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	good := signToken(t, "test-secret", jwt.MapClaims{
		"sub": "user-abc",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	userID, err := v.ResolveUser(context.Background(), good)
	if err != nil {
		t.Fatalf("valid token rejected: %v", err)
	}
	if userID != "user-abc" {
		t.Fatalf("expected user-abc, got %q", userID)
	}
}

func TestJWTVerifier_Rejections(t *testing.T) {
	v, err := NewJWTVerifier("test-secret")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	expired := signToken(t, "test-secret", jwt.MapClaims{
		"sub": "user-abc",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	wrongKey := signToken(t, "other-secret", jwt.MapClaims{
		"sub": "user-abc",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	noSubject := signToken(t, "test-secret", jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	for name, token := range map[string]string{
		"expired":    expired,
		"wrong key":  wrongKey,
		"no subject": noSubject,
		"garbage":    "not.a.jwt",
		"empty":      "",
	} {
		_, err := v.ResolveUser(context.Background(), token)
		if !errors.Is(err, core.ErrUnauthorized) {
			t.Fatalf("%s: expected ErrUnauthorized, got %v", name, err)
		}
	}
}

func TestNewJWTVerifier_EmptySecret(t *testing.T) {
	if _, err := NewJWTVerifier(""); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
