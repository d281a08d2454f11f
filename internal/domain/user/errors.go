package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrCompanyAccessDenied     = errors.New("access to this company is not allowed")
	ErrRoleNotAssignable       = errors.New("role cannot be assigned by this user")
	ErrCompanyIDRequired       = errors.New("company ID is required")
)
