// Package auth issues and verifies the signed identity tokens presented
// by API clients as bearer credentials.
package auth

import (
	"time"
)

// TokenService is the stateless issuer/verifier used by the HTTP layer.
// It is safe for concurrent use.
type TokenService struct {
	secret    []byte
	expiresAt time.Time
}

// NewTokenService returns a service signing with secret. Every token gets
// the same exp claim, expiresAt.
func NewTokenService(secret []byte, expiresAt time.Time) *TokenService {
	return &TokenService{secret: secret, expiresAt: expiresAt}
}

func (s *TokenService) Issue(userID int) (string, error) {
	return GenerateToken(userID, s.secret, s.expiresAt)
}

func (s *TokenService) Verify(token string) (int, error) {
	return GetUserIDFromToken(token, s.secret)
}
