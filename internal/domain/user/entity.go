package user

import "time"

type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN" // Platform operator, any company
	RoleAdmin      Role = "ADMIN"       // Manages one company
	RoleCashier    Role = "CASHIER"     // Records payments for one company
)

func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleCashier:
		return true
	}
	return false
}

type User struct {
	ID           string
	CompanyID    *string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsSuperAdmin checks if user operates the platform
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
