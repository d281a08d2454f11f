package auth

import (
	"context"

	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/user"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Me(ctx context.Context, userID string) (user.UserResponse, error)
}
