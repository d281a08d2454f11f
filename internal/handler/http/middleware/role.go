package middleware

import (
	"fmt"
	"net/http"

	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/auth"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/user"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/handler/http/response"
)

// RequirePermission checks if user has specific permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if !user.HasPermission(actor.Role, permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, actor.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
