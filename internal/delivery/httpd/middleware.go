package httpd

import (
	"context"
	"net/http"
	"strings"

	"github.com/edustage/backend/internal/identity"
	"github.com/edustage/backend/internal/models"
)

type contextKey string

const principalKey contextKey = "principal"

// Authenticate resolves the calling principal from the Authorization header.
// There is no fallback identity: requests without a valid token are rejected.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		principal, err := h.idm.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := principalFromContext(r.Context())
			if principal == nil || !principal.HasRole(role.String()) {
				writeError(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func principalFromContext(ctx context.Context) *identity.Principal {
	principal, _ := ctx.Value(principalKey).(*identity.Principal)
	return principal
}
