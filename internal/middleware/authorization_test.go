package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bxiit/selmag/internal/auth"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

func withScopes(r *http.Request, subject string, scopes ...string) *http.Request {
	ctx := context.WithValue(r.Context(), SubjectKey, subject)
	ctx = context.WithValue(ctx, ScopesKey, auth.Scopes(scopes))
	return r.WithContext(ctx)
}

func TestProperty_RequireScopeMatchesGrantedScopes(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("handler runs iff the required scope was granted", prop.ForAll(
		func(granted []string, required string) bool {
			handlerCalled := false
			handler := RequireScope(required, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			}))

			req := withScopes(httptest.NewRequest("POST", "/catalogue-api/products", nil), "manager-app", granted...)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if auth.Scopes(granted).Has(required) {
				return handlerCalled && w.Code == http.StatusOK
			}
			return !handlerCalled && w.Code == http.StatusForbidden
		},
		gen.SliceOf(gen.OneConstOf("view_catalogue", "edit_catalogue", "openid")),
		gen.OneConstOf("view_catalogue", "edit_catalogue"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRequireScope_WithoutAuthenticationIsForbidden(t *testing.T) {
	handler := RequireScope("view_catalogue", zap.NewNop())(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/catalogue-api/products", nil))

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}
