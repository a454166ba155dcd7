package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bxiit/selmag/internal/auth"
)

// refreshMargin is how long before expiry a cached token is replaced
const refreshMargin = time.Minute

// TokenSource supplies bearer tokens for catalogue calls
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// SignedTokenSource mints HS256 service tokens with the shared catalogue
// secret and caches each one until shortly before it expires.
type SignedTokenSource struct {
	secret   []byte
	clientID string
	scopes   []string
	ttl      time.Duration
	now      func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewSignedTokenSource creates a token source for clientID granting scopes
func NewSignedTokenSource(secret, clientID string, scopes []string, ttl time.Duration) *SignedTokenSource {
	return &SignedTokenSource{
		secret:   []byte(secret),
		clientID: clientID,
		scopes:   scopes,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Token returns the cached token or mints a new one
func (s *SignedTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.now().Before(s.expiresAt.Add(-refreshMargin)) {
		return s.token, nil
	}

	token, expiresAt, err := auth.GenerateToken(s.clientID, s.scopes, s.secret, s.ttl)
	if err != nil {
		return "", fmt.Errorf("failed to sign service token: %w", err)
	}

	s.token = token
	s.expiresAt = expiresAt
	return token, nil
}

// StaticTokenSource always returns the same token
type StaticTokenSource string

func (s StaticTokenSource) Token(context.Context) (string, error) {
	return string(s), nil
}
