package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/chandan-mishra846/ecommerce-backend/internal/model"

	"github.com/rs/zerolog"
)

// Headers carrying the caller identity resolved by the upstream auth layer.
const (
	UserIDHeader   = "X-User-ID"
	UserRoleHeader = "X-User-Role"
)

type principalKey struct{}

// WithPrincipal returns a context carrying the caller.
func WithPrincipal(ctx context.Context, p model.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the caller attached to ctx, if any.
func PrincipalFrom(ctx context.Context) (model.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(model.Principal)
	return p, ok
}

// Principal attaches the caller identity from the request headers. Requests
// without a user id pass through anonymously; RequireAuth rejects them
// where an identity is needed.
func Principal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}

		role := strings.ToLower(strings.TrimSpace(r.Header.Get(UserRoleHeader)))
		if role == "" {
			role = model.RoleUser
		}
		ctx := WithPrincipal(r.Context(), model.Principal{ID: id, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects requests that carry no caller identity.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFrom(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, model.ErrUnauthorised.Message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects callers holding none of the given roles.
func RequireRole(logger zerolog.Logger, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, model.ErrUnauthorised.Message)
				return
			}
			if !p.HasRole(roles...) {
				logger.Warn().
					Str("user_id", p.ID).
					Str("role", p.Role).
					Str("path", r.URL.Path).
					Msg("role not allowed")
				writeError(w, http.StatusForbidden, model.ErrCodeForbidden,
					"Role: "+p.Role+" is not allowed to access this resource")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
