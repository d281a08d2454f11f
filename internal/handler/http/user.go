package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/user"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/handler/http/response"
)

type UserHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
}

type userHandlerImpl struct {
	userService user.UserService
}

func NewUserHandler(userService user.UserService) UserHandler {
	return &userHandlerImpl{userService: userService}
}

// List implements UserHandler.
func (h *userHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListByCompany(r.Context(), chi.URLParam(r, "companyId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, users)
}

// Create implements UserHandler.
func (h *userHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req user.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.userService.Create(r.Context(), actor, chi.URLParam(r, "companyId"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "User created successfully", result)
}
