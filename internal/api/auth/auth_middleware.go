package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/akbarkhoja/portfolio-api/internal/api"
	"github.com/akbarkhoja/portfolio-api/internal/types"
)

type contextKey string

const principalKey contextKey = "principal"

// GetPrincipal returns the authenticated principal from the request
// context, if any.
func GetPrincipal(ctx context.Context) (*types.Principal, bool) {
	p, ok := ctx.Value(principalKey).(*types.Principal)
	return p, ok
}

// Authenticate resolves the session cookie into a principal. Absence or
// an invalid/expired token means the request proceeds anonymously; this
// middleware never rejects.
func Authenticate(service AuthService, cookieName string, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			principal, err := service.ValidateToken(r.Context(), cookie.Value)
			if err != nil {
				logger.DebugContext(r.Context(), "Session token rejected, continuing as anonymous", slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin is the authorization gate: it allows the request through
// only when a valid session is present and its role is admin. Deny
// short-circuits before any store access.
func RequireAdmin(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := GetPrincipal(r.Context())
			if !ok || principal.Role != types.RoleAdmin {
				logger.WarnContext(r.Context(), "Admin gate denied request",
					slog.String("path", r.URL.Path),
					slog.Bool("has_session", ok),
				)
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
