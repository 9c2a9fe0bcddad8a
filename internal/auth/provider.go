package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"hondana/internal/core"
)

// ProviderVerifier resolves tokens against an external identity
// provider over HTTP (Supabase-style GET /auth/v1/user).
type ProviderVerifier struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewProviderVerifier(baseURL, apiKey string, timeout time.Duration) *ProviderVerifier {
	return &ProviderVerifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// ResolveUser calls the provider's user endpoint with the bearer token.
// Any failure, including transport errors, yields core.ErrUnauthorized.
func (v *ProviderVerifier) ResolveUser(ctx context.Context, token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", core.ErrUnauthorized
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return "", core.ErrUnauthorized
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if v.apiKey != "" {
		req.Header.Set("apikey", v.apiKey)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "Identity provider call failed", "error", err)
		return "", core.ErrUnauthorized
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", core.ErrUnauthorized
	}

	var user struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil || user.ID == "" {
		slog.WarnContext(ctx, "Identity provider returned unusable body", "error", err)
		return "", core.ErrUnauthorized
	}
	return user.ID, nil
}
