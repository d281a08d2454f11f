package auth

import (
	"strings"

	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/user"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/validator"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	// Email
	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email must be a valid email address")
	}

	// Password
	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	}

	return errs.Err()
}

type TokenResponse struct {
	AccessToken          string            `json:"accessToken"`
	AccessTokenExpiresAt int64             `json:"accessTokenExpiresAt"`
	User                 user.UserResponse `json:"user"`
}
