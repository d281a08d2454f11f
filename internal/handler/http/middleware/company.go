package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/auth"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/user"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/handler/http/response"
)

// CompanyScope confines every route under {companyId} to callers allowed to
// act on that company.
func CompanyScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		companyID := chi.URLParam(r, "companyId")
		if companyID == "" {
			response.HandleError(w, user.ErrCompanyIDRequired)
			return
		}

		if !user.CanAccessCompany(actor.Role, companyID, actor.CompanyID) {
			response.HandleError(w, user.ErrCompanyAccessDenied)
			return
		}

		next.ServeHTTP(w, r)
	})
}
