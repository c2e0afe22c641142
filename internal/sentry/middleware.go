package sentry

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getsentry/sentry-go"

	apperrors "github.com/socialchef/snapchef/internal/errors"
)

// HTTPMiddleware gives each request its own hub and turns handler panics into
// a SYSTEM_FAILURE response.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub := sentry.GetHubFromContext(r.Context())
		if hub == nil {
			hub = sentry.CurrentHub().Clone()
		}
		hub.Scope().SetRequest(r)

		wrapped := &responseWriter{ResponseWriter: w}
		ctx := sentry.SetHubOnContext(r.Context(), hub)

		defer func() {
			if rec := recover(); rec != nil {
				hub.RecoverWithContext(ctx, rec)
				slog.ErrorContext(ctx, "Handler panicked", "panic", rec, "path", r.URL.Path)
				if !wrapped.wroteHeader {
					apperrors.WriteJSON(wrapped, apperrors.NewSystemFailureError(fmt.Errorf("panic: %v", rec)))
				}
			}
		}()

		next.ServeHTTP(wrapped, r.WithContext(ctx))
	})
}

type responseWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(statusCode int) {
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}
