package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"hondana/internal/core"
)

// JWTVerifier validates HS256 tokens locally. Useful when the identity
// provider issues symmetric JWTs and sharing the secret avoids a
// network round trip per request.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) (*JWTVerifier, error) {
	if secret == "" {
		return nil, errors.New("jwt verifier requires a non-empty secret")
	}
	return &JWTVerifier{secret: []byte(secret)}, nil
}

// ResolveUser validates the token and returns its subject claim.
func (v *JWTVerifier) ResolveUser(ctx context.Context, token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", core.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", core.ErrUnauthorized
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", core.ErrUnauthorized
	}
	return sub, nil
}
