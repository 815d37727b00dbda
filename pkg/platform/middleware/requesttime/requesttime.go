// Package requesttime pins one "now" per request so every event stamped while
// serving it carries the same occurrence time.
package requesttime

import (
	"net/http"
	"time"

	"bizsuite/pkg/requestcontext"
)

// Middleware stores the request start time in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now().UTC())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
