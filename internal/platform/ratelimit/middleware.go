package ratelimit

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"bizsuite/internal/platform/logger"
	"bizsuite/pkg/platform/httputil"
	"bizsuite/pkg/requestcontext"
)

// PerTenant limits requests per authenticated tenant. It must run after the
// service token middleware. Limiter errors fail open.
func PerTenant(limiter Limiter, limit int, window time.Duration, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			tenantID := requestcontext.TenantID(ctx)
			result, err := limiter.Allow(ctx, "tenant:"+tenantID.String(), limit, window)
			if err != nil {
				logger.From(ctx, log).WarnContext(ctx, "rate limit check failed, allowing request",
					"tenant_id", tenantID,
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
			if !result.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
				httputil.WriteError(w, httputil.CodeRateLimited, "tenant event rate exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
