package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/company"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/user"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceImpl struct {
	userRepo    user.UserRepository
	companyRepo company.CompanyRepository
	cost        int
}

func NewUserService(userRepo user.UserRepository, companyRepo company.CompanyRepository) user.UserService {
	return &UserServiceImpl{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		cost:        bcrypt.DefaultCost,
	}
}

func (s *UserServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (s *UserServiceImpl) Create(ctx context.Context, actor user.Actor, companyID string, req user.CreateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	if !user.CanAccessCompany(actor.Role, companyID, actor.CompanyID) {
		return user.UserResponse{}, user.ErrCompanyAccessDenied
	}
	if !user.CanAssignRole(actor.Role, req.Role) {
		return user.UserResponse{}, fmt.Errorf("%w: %s cannot create %s", user.ErrRoleNotAssignable, actor.Role, req.Role)
	}

	if _, err := s.companyRepo.GetByID(ctx, companyID); err != nil {
		return user.UserResponse{}, err
	}

	hashed, err := s.hashPassword(req.Password)
	if err != nil {
		return user.UserResponse{}, err
	}

	created, err := s.userRepo.Create(ctx, user.User{
		ID:           utils.NewID(),
		CompanyID:    &companyID,
		Email:        req.Email,
		PasswordHash: hashed,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		IsActive:     true,
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	slog.InfoContext(ctx, "User created", "user_id", created.ID, "company_id", companyID, "role", created.Role, "created_by", actor.ID)
	return user.NewUserResponse(created), nil
}

func (s *UserServiceImpl) ListByCompany(ctx context.Context, companyID string) ([]user.UserResponse, error) {
	users, err := s.userRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, user.NewUserResponse(u))
	}
	return responses, nil
}

func (s *UserServiceImpl) EnsureSuperAdmin(ctx context.Context, email, password string) (user.UserResponse, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 8 {
		return user.UserResponse{}, false, errors.New("super admin email and a password of at least 8 characters are required")
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return user.NewUserResponse(existing), false, nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return user.UserResponse{}, false, fmt.Errorf("failed to get user by email: %w", err)
	}

	hashed, err := s.hashPassword(password)
	if err != nil {
		return user.UserResponse{}, false, err
	}
	created, err := s.userRepo.Create(ctx, user.User{
		ID:           utils.NewID(),
		Email:        email,
		PasswordHash: hashed,
		FirstName:    "Super",
		LastName:     "Admin",
		Role:         user.RoleSuperAdmin,
		IsActive:     true,
	})
	if err != nil {
		return user.UserResponse{}, false, err
	}

	slog.InfoContext(ctx, "Super admin created", "user_id", created.ID)
	return user.NewUserResponse(created), true, nil
}
