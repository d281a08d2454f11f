package user

import "context"

// Actor is the authenticated caller as seen by services.
type Actor struct {
	ID        string
	Role      Role
	CompanyID *string
}

type UserService interface {
	Create(ctx context.Context, actor Actor, companyID string, req CreateUserRequest) (UserResponse, error)
	ListByCompany(ctx context.Context, companyID string) ([]UserResponse, error)
	// EnsureSuperAdmin creates the platform operator account when no user
	// holds the email yet.
	EnsureSuperAdmin(ctx context.Context, email, password string) (UserResponse, bool, error)
}
