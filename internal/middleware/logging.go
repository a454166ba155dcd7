package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type accessLogKey struct{}

// accessLogEntry collects fields set by handlers further down the chain
type accessLogEntry struct {
	username string
}

// annotateAccessLog records the authenticated manager on the pending access log entry
func annotateAccessLog(ctx context.Context, username string) {
	if entry, ok := ctx.Value(accessLogKey{}).(*accessLogEntry); ok {
		entry.username = username
	}
}

// LoggingMiddleware writes one access log entry per request. Server errors
// are logged at error level, client errors at warn.
func LoggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			entry := &accessLogEntry{}

			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), accessLogKey{}, entry)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			fields := []zap.Field{
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			}
			if entry.username != "" {
				fields = append(fields, zap.String("username", entry.username))
			}

			logger.Log(levelFor(status), "Request completed", fields...)
		})
	}
}

func levelFor(status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}
