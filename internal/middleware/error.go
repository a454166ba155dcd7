package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/bxiit/selmag/internal/i18n"

	"go.uber.org/zap"
)

// ProblemContentType is the media type of RFC 7807 error bodies
const ProblemContentType = "application/problem+json"

// ProblemDetail is the error body returned by every failing catalogue endpoint
type ProblemDetail struct {
	Type      string   `json:"type"`
	Title     string   `json:"title"`
	Status    int      `json:"status"`
	Detail    string   `json:"detail,omitempty"`
	Instance  string   `json:"instance,omitempty"`
	Errors    []string `json:"errors,omitempty"`
	Timestamp string   `json:"timestamp"`
}

// RespondWithProblem writes a problem detail with an already localized detail text
func RespondWithProblem(w http.ResponseWriter, r *http.Request, statusCode int, detail string, errors []string) {
	w.Header().Set("Content-Type", ProblemContentType)
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(ProblemDetail{
		Type:      "about:blank",
		Title:     http.StatusText(statusCode),
		Status:    statusCode,
		Detail:    detail,
		Instance:  r.URL.Path,
		Errors:    errors,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// RespondWithError writes a problem detail whose detail is the message key
// rendered in the caller's negotiated language
func RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, messageKey string) {
	RespondWithProblem(w, r, statusCode, i18n.FromRequest(r).Message(messageKey), nil)
}

// RespondWithValidationErrors sends a 400 listing one localized message per violation
func RespondWithValidationErrors(w http.ResponseWriter, r *http.Request, errors []string) {
	RespondWithProblem(w, r, http.StatusBadRequest, i18n.FromRequest(r).Message(i18n.ValidationFailed), errors)
}

// ErrorHandlingMiddleware catches panics and converts them to 500 problems
func ErrorHandlingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					logger.Error("Panic recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)

					RespondWithError(w, r, http.StatusInternalServerError, i18n.InternalError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// RespondWithJSON sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}
