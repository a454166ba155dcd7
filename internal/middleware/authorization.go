package middleware

import (
	"net/http"

	"github.com/bxiit/selmag/internal/i18n"

	"go.uber.org/zap"
)

// RequireScope rejects with 403 any request whose token lacks scope. It runs
// before the handler reads the body, so authorization dominates validation.
func RequireScope(scope string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scopes, ok := GetScopes(r.Context())
			if !ok || !scopes.Has(scope) {
				subject, _ := GetSubject(r.Context())
				logger.Warn("Caller lacks required scope",
					zap.String("subject", subject),
					zap.String("required_scope", scope),
					zap.Strings("scopes", scopes),
				)
				RespondWithError(w, r, http.StatusForbidden, i18n.Forbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
