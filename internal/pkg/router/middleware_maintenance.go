package router

import (
	"net/http"

	"github.com/migorithm/authotp/internal/pkg/config"
)

// middlewareMaintenance answers 503 for every route pattern listed in
// app.maintenance.endpoints, e.g. "/auth/otp/generate".
func middlewareMaintenance(cfg config.Config) Middleware {
	var closed []string
	if cfg != nil {
		closed = cfg.GetArray("app.maintenance.endpoints")
	}

	return func(next http.Handler) http.Handler {
		if len(closed) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := matchedRoutePath(r)
			for _, c := range closed {
				if c == route {
					writeJSON(w, errorResponse{Message: "service is under maintenance"}, http.StatusServiceUnavailable)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
