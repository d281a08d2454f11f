package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/auth"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/user"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/handler/http/response"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/jwt"
)

type actorKey struct{}

// AuthRequired rejects requests without a verified access token and stores
// the caller as a user.Actor in the request context. It must run after
// jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		tokenType, ok := claims[jwt.ClaimType].(string)
		if !ok || tokenType != jwt.TokenTypeAccess {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		actor, ok := actorFromClaims(claims)
		if !ok {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

func actorFromClaims(claims map[string]interface{}) (user.Actor, bool) {
	id, _ := claims[jwt.ClaimUserID].(string)
	role, _ := claims[jwt.ClaimRole].(string)
	if id == "" || !user.Role(role).IsValid() {
		return user.Actor{}, false
	}

	actor := user.Actor{ID: id, Role: user.Role(role)}
	if companyID, ok := claims[jwt.ClaimCompanyID].(string); ok && companyID != "" {
		actor.CompanyID = &companyID
	}
	return actor, true
}

func WithActor(ctx context.Context, actor user.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the caller stored by AuthRequired.
func ActorFromContext(ctx context.Context) (user.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(user.Actor)
	return actor, ok
}
