package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/auth"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/company"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/user"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	user.UserRepository
	company.CompanyRepository
	jwt.Service
}

func NewAuthService(userRepository user.UserRepository, companyRepository company.CompanyRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository:    userRepository,
		CompanyRepository: companyRepository,
		Service:           jwtService,
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest) (auth.TokenResponse, error) {
	if err := loginReq.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, loginReq.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if userData.PasswordHash == "" {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(loginReq.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	if !userData.IsActive {
		return auth.TokenResponse{}, auth.ErrAccountDisabled
	}

	// Users of a disabled company cannot sign in. SUPER_ADMIN has no company.
	if userData.CompanyID != nil {
		companyData, err := a.CompanyRepository.GetByID(ctx, *userData.CompanyID)
		if err != nil {
			if errors.Is(err, company.ErrCompanyNotFound) {
				return auth.TokenResponse{}, auth.ErrCompanyDisabled
			}
			return auth.TokenResponse{}, fmt.Errorf("failed to get company by ID: %w", err)
		}
		if !companyData.IsActive {
			return auth.TokenResponse{}, auth.ErrCompanyDisabled
		}
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(userData)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	slog.InfoContext(ctx, "User logged in", "user_id", userData.ID, "role", userData.Role)
	return auth.TokenResponse{
		AccessToken:          token,
		AccessTokenExpiresAt: expiresAt.Unix(),
		User:                 user.NewUserResponse(userData),
	}, nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, userID string) (user.UserResponse, error) {
	userData, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.UserResponse{}, auth.ErrInvalidToken
		}
		return user.UserResponse{}, fmt.Errorf("failed to get user by ID: %w", err)
	}
	if !userData.IsActive {
		return user.UserResponse{}, auth.ErrAccountDisabled
	}
	return user.NewUserResponse(userData), nil
}
