package auth

import (
	"net/http"
	"strings"

	"github.com/obatqu/obatqu-backend/internal/auth/jwt"
	"github.com/obatqu/obatqu-backend/pkg/errors"
	"github.com/obatqu/obatqu-backend/pkg/httputil"
)

// Middleware verifies the bearer token and attaches the user identity
// to the request context.
func Middleware(tokens *jwt.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				httputil.Error(w, errors.Unauthorized("missing bearer token"))
				return
			}

			claims, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				httputil.Error(w, err)
				return
			}

			ctx := httputil.WithUserContext(r.Context(), claims.UserID, claims.Username, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole guards a route group behind a single role.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if httputil.GetUserRole(r.Context()) != role {
				httputil.Error(w, errors.Forbidden("insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
