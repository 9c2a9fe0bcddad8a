// Package auth resolves opaque bearer tokens to stable user ids.
//
// Every failure mode collapses to core.ErrUnauthorized: a missing or
// malformed token, a provider rejection and a provider transport error
// are indistinguishable to callers.
package auth

import (
	"context"
	"fmt"

	"hondana/internal/config"
)

// Verifier maps a bearer token to the owning user id.
type Verifier interface {
	ResolveUser(ctx context.Context, token string) (string, error)
}

// NewVerifier builds the verifier selected by AUTH_BACKEND.
func NewVerifier(cfg *config.Config) (Verifier, error) {
	switch cfg.AuthBackend {
	case config.AuthBackendProvider:
		return NewProviderVerifier(cfg.AuthProviderURL, cfg.AuthProviderKey, cfg.AuthTimeout), nil
	case config.AuthBackendJWT:
		return NewJWTVerifier(cfg.JWTSecret)
	default:
		return nil, fmt.Errorf("unsupported auth backend: %s", cfg.AuthBackend)
	}
}
