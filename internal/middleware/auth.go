package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/bxiit/selmag/internal/auth"
	"github.com/bxiit/selmag/internal/i18n"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const (
	SubjectKey contextKey = "subject"
	ScopesKey  contextKey = "scopes"
)

// AuthMiddleware validates bearer JWTs and stores subject and scopes in the
// request context. Missing or invalid tokens are rejected with 401.
func AuthMiddleware(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	secret := []byte(jwtSecret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug("Missing authorization header")
				unauthorized(w, r)
				return
			}

			scheme, tokenString, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
				logger.Debug("Invalid authorization header format")
				unauthorized(w, r)
				return
			}

			claims, err := auth.ParseToken(tokenString, secret)
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					logger.Debug("Token expired")
				} else {
					logger.Debug("Token validation failed", zap.Error(err))
				}
				unauthorized(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), SubjectKey, claims.Subject)
			ctx = context.WithValue(ctx, ScopesKey, claims.Scope)

			logger.Debug("Caller authenticated",
				zap.String("subject", claims.Subject),
				zap.Strings("scopes", claims.Scope),
			)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="catalogue-api"`)
	RespondWithError(w, r, http.StatusUnauthorized, i18n.Unauthorized)
}

// GetSubject extracts the token subject from request context
func GetSubject(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(SubjectKey).(string)
	return subject, ok
}

// GetScopes extracts the granted scopes from request context
func GetScopes(ctx context.Context) (auth.Scopes, bool) {
	scopes, ok := ctx.Value(ScopesKey).(auth.Scopes)
	return scopes, ok
}
