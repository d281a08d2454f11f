package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestCanAccessCompany(t *testing.T) {
	tests := []struct {
		name      string
		role      Role
		requested string
		own       *string
		want      bool
	}{
		{"super admin any company", RoleSuperAdmin, "c-2", nil, true},
		{"super admin with home company", RoleSuperAdmin, "c-2", strPtr("c-1"), true},
		{"admin own company", RoleAdmin, "c-1", strPtr("c-1"), true},
		{"admin other company", RoleAdmin, "c-2", strPtr("c-1"), false},
		{"admin without company", RoleAdmin, "c-1", nil, false},
		{"cashier own company", RoleCashier, "c-1", strPtr("c-1"), true},
		{"cashier other company", RoleCashier, "c-2", strPtr("c-1"), false},
		{"unknown role", Role("EMPLOYEE"), "c-1", strPtr("c-1"), false},
		{"empty requested company", RoleSuperAdmin, "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccessCompany(tt.role, tt.requested, tt.own))
		})
	}
}

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleCashier, PermissionPaymentRecord))
	assert.True(t, HasPermission(RoleCashier, PermissionPayslipView))
	assert.False(t, HasPermission(RoleCashier, PermissionPayRunManage))
	assert.False(t, HasPermission(RoleCashier, PermissionEmployeeManage))

	assert.True(t, HasPermission(RoleAdmin, PermissionPayRunManage))
	assert.False(t, HasPermission(RoleAdmin, PermissionCompanyManage))
	assert.True(t, HasPermission(RoleAdmin, PermissionCompanySettings))
	assert.False(t, HasPermission(RoleCashier, PermissionCompanySettings))

	assert.True(t, HasPermission(RoleSuperAdmin, PermissionCompanyManage))
	assert.False(t, HasPermission(Role("GUEST"), PermissionPayslipView))
}

func TestCanAssignRole(t *testing.T) {
	assert.True(t, CanAssignRole(RoleSuperAdmin, RoleAdmin))
	assert.True(t, CanAssignRole(RoleSuperAdmin, RoleCashier))
	assert.False(t, CanAssignRole(RoleSuperAdmin, RoleSuperAdmin))
	assert.True(t, CanAssignRole(RoleAdmin, RoleCashier))
	assert.False(t, CanAssignRole(RoleAdmin, RoleAdmin))
	assert.False(t, CanAssignRole(RoleCashier, RoleCashier))
}
