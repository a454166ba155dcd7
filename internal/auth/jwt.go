// Package auth issues and verifies the HS256 bearer tokens exchanged between
// the manager app and the catalogue API.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Scopes is the "scope" claim. It is issued as a space-separated string
// and accepted either in that form or as a JSON array.
type Scopes []string

func (s Scopes) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.Join(s, " "))
}

func (s *Scopes) UnmarshalJSON(data []byte) error {
	var joined string
	if err := json.Unmarshal(data, &joined); err == nil {
		*s = strings.Fields(joined)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("scope claim must be a string or an array of strings: %w", err)
	}
	*s = list
	return nil
}

// Has reports whether scope was granted
func (s Scopes) Has(scope string) bool {
	return slices.Contains(s, scope)
}

// Claims carries the granted scopes alongside the registered claims
type Claims struct {
	Scope Scopes `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken signs a token for subject granting scopes for validity.
func GenerateToken(subject string, scopes []string, secretKey []byte, validity time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(validity)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Scope: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ParseToken verifies signature and expiry and returns the claims
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
