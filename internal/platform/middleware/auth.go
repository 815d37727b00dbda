package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"bizsuite/internal/platform/servicetoken"
	"bizsuite/pkg/platform/httputil"
	"bizsuite/pkg/platform/middleware/metadata"
	"bizsuite/pkg/requestcontext"
)

// TokenValidator validates a bearer service token.
type TokenValidator interface {
	Validate(tokenString string) (*servicetoken.Claims, error)
}

// RequireServiceToken authenticates the calling service and scopes the
// request to the tenant named in its token.
func RequireServiceToken(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
					"client_ip", metadata.GetClientIP(ctx),
				)
				httputil.WriteError(w, httputil.CodeUnauthorized, "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.Validate(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"request_id", requestcontext.RequestID(ctx),
					"client_ip", metadata.GetClientIP(ctx),
					"error", err,
				)
				httputil.WriteError(w, httputil.CodeUnauthorized, "Invalid or expired token")
				return
			}
			tenantID, err := claims.Tenant()
			if err != nil {
				httputil.WriteError(w, httputil.CodeUnauthorized, "Invalid or expired token")
				return
			}

			ctx = requestcontext.WithTenantID(ctx, tenantID)
			ctx = requestcontext.WithActorID(ctx, claims.Service)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithServiceClaims scopes ctx the way RequireServiceToken does. Useful for
// handler tests that skip the middleware chain.
func WithServiceClaims(ctx context.Context, claims *servicetoken.Claims) context.Context {
	if tenantID, err := claims.Tenant(); err == nil {
		ctx = requestcontext.WithTenantID(ctx, tenantID)
	}
	return requestcontext.WithActorID(ctx, claims.Service)
}
