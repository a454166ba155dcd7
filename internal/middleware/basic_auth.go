package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bxiit/selmag/internal/domain"

	"go.uber.org/zap"
)

const ManagerUsernameKey contextKey = "manager_username"

// ManagerAuthenticator checks manager credentials, returning
// domain.ErrInvalidCredentials on mismatch
type ManagerAuthenticator interface {
	Authenticate(ctx context.Context, username, password string) (*domain.ManagerUser, error)
}

// BasicAuthMiddleware guards the manager UI with HTTP Basic authentication
func BasicAuthMiddleware(authenticator ManagerAuthenticator, realm string, logger *zap.Logger) func(http.Handler) http.Handler {
	challenge := fmt.Sprintf("Basic realm=%q, charset=\"UTF-8\"", realm)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok {
				w.Header().Set("WWW-Authenticate", challenge)
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			user, err := authenticator.Authenticate(r.Context(), username, password)
			if err != nil {
				if !errors.Is(err, domain.ErrInvalidCredentials) {
					logger.Error("Failed to authenticate manager", zap.String("username", username), zap.Error(err))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				logger.Info("Rejected manager credentials", zap.String("username", username))
				w.Header().Set("WWW-Authenticate", challenge)
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			annotateAccessLog(r.Context(), user.Username)
			ctx := context.WithValue(r.Context(), ManagerUsernameKey, user.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetManagerUsername extracts the authenticated manager from request context
func GetManagerUsername(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(ManagerUsernameKey).(string)
	return username, ok
}
