package router

import (
	"log/slog"
	"net/http"

	"github.com/migorithm/authotp/internal/pkg/stacktrace"
)

// middlewareRecoverer turns a handler panic into a 500 JSON response and logs
// the application frames that led to it.
func middlewareRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			//nolint:err113,errorlint // sentinel must pass through untouched
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			slog.ErrorContext(r.Context(), "panic recovered", "because", rvr, "stack", stacktrace.Internal(0))
			writeJSON(w, errorResponse{Message: "Internal server error"}, http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}
