package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"canine-registry/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenEmpty       = errors.New("token is empty")
	ErrKeyNotConfigured = errors.New("jwt signing key not configured")
)

type tokenClaims struct {
	Role         string `json:"role"`
	EmployeeCode string `json:"employee_code"`
	jwt.RegisteredClaims
}

// Verifier implementa auth.AuthVerifier con tokens HS256 emitidos
// por el servicio de sesiones municipal. El subject es el user ID.
type Verifier struct {
	signingKey []byte
}

func NewVerifier(signingKey string) (*Verifier, error) {
	if strings.TrimSpace(signingKey) == "" {
		return nil, ErrKeyNotConfigured
	}
	return &Verifier{signingKey: []byte(signingKey)}, nil
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || len(v.signingKey) == 0 {
		return auth.Claims{}, ErrKeyNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.signingKey, nil
	})
	if err != nil {
		return auth.Claims{}, fmt.Errorf("jwt verify failed: %w", err)
	}

	tc, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return auth.Claims{}, errors.New("invalid token")
	}

	userID := strings.TrimSpace(tc.Subject)
	if userID == "" {
		return auth.Claims{}, errors.New("token claims missing subject")
	}

	return auth.Claims{
		UserID:       userID,
		Role:         strings.TrimSpace(tc.Role),
		EmployeeCode: strings.TrimSpace(tc.EmployeeCode),
	}, nil
}
