package middleware

import (
	"net/http"

	"github.com/avrentops/rentalctl/internal/domain"
	"github.com/avrentops/rentalctl/internal/http/response"
)

// RequireRole allows the request through only when the access token's
// role claim is one of the given roles. It must run after AuthMiddleware.
func RequireRole(roles ...domain.UserRole) func(http.Handler) http.Handler {
	allowed := make(map[domain.UserRole]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
				return
			}
			if !allowed[claims.Role] {
				response.Error(w, r, http.StatusForbidden, "FORBIDDEN", "insufficient role",
					map[string]string{"role": string(claims.Role)})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
