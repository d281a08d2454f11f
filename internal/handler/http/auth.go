package http

import (
	"net/http"

	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/auth"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/handler/http/response"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

type authHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &authHandlerImpl{authService: authService}
}

// Login implements AuthHandler.
func (h *authHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.authService.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Login successful", result)
}

// Me implements AuthHandler.
func (h *authHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	result, err := h.authService.Me(r.Context(), actor.ID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
