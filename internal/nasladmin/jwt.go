// Package nasladmin exposes a small HTTP server for operating the feed
// updater and rewriter remotely: a status endpoint, trigger endpoints
// for update/transpile runs, and a websocket stream of per-script
// progress. It is the ambient operational surface around the core
// engine, not a new scripting-language feature.
package nasladmin

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService issues and validates the bearer tokens that gate the
// admin server's mutating endpoints.
type AuthService struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewAuthService builds an AuthService signing with secretKey (spec's
// naslconfig.AdminConfig.JWTSignKey) and issuing tokens valid for ttl.
func NewAuthService(secretKey string, ttl time.Duration) *AuthService {
	return &AuthService{secretKey: secretKey, tokenTTL: ttl}
}

// IssueToken mints a token identifying the operator by subject.
func (s *AuthService) IssueToken(subject string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": now.Add(s.tokenTTL).Unix(),
		"iat": now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

// ValidateToken parses and verifies tokenString, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != "HS256" {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
