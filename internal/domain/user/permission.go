package user

type Permission string

const (
	// Company Management
	PermissionCompanyManage   Permission = "company.manage"
	PermissionCompanySettings Permission = "company.settings"

	// User Management
	PermissionUserManage Permission = "user.manage"

	// Employee Management
	PermissionEmployeeView   Permission = "employee.view"
	PermissionEmployeeManage Permission = "employee.manage"

	// Work schedule
	PermissionScheduleManage Permission = "schedule.manage"

	// Attendance Management
	PermissionAttendanceView   Permission = "attendance.view"
	PermissionAttendanceManage Permission = "attendance.manage"

	// Payroll
	PermissionPayRunView    Permission = "payrun.view"
	PermissionPayRunManage  Permission = "payrun.manage"
	PermissionPayslipView   Permission = "payslip.view"
	PermissionPayslipManage Permission = "payslip.manage"

	// Payments
	PermissionPaymentView   Permission = "payment.view"
	PermissionPaymentRecord Permission = "payment.record"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleSuperAdmin: {
		PermissionCompanyManage,
		PermissionCompanySettings,
		PermissionUserManage,
		PermissionEmployeeView,
		PermissionEmployeeManage,
		PermissionScheduleManage,
		PermissionAttendanceView,
		PermissionAttendanceManage,
		PermissionPayRunView,
		PermissionPayRunManage,
		PermissionPayslipView,
		PermissionPayslipManage,
		PermissionPaymentView,
		PermissionPaymentRecord,
	},
	RoleAdmin: {
		PermissionCompanySettings,
		PermissionUserManage,
		PermissionEmployeeView,
		PermissionEmployeeManage,
		PermissionScheduleManage,
		PermissionAttendanceView,
		PermissionAttendanceManage,
		PermissionPayRunView,
		PermissionPayRunManage,
		PermissionPayslipView,
		PermissionPayslipManage,
		PermissionPaymentView,
		PermissionPaymentRecord,
	},
	RoleCashier: {
		// Cashier pays out approved payslips
		PermissionEmployeeView,
		PermissionPayRunView,
		PermissionPayslipView,
		PermissionPaymentView,
		PermissionPaymentRecord,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}

// CanAccessCompany decides whether a caller with role and home company
// userCompanyID may act on requestedCompanyID. SUPER_ADMIN may target any
// company; everyone else is confined to their own.
func CanAccessCompany(role Role, requestedCompanyID string, userCompanyID *string) bool {
	if requestedCompanyID == "" {
		return false
	}
	switch role {
	case RoleSuperAdmin:
		return true
	case RoleAdmin, RoleCashier:
		return userCompanyID != nil && *userCompanyID == requestedCompanyID
	default:
		return false
	}
}

// CanAssignRole reports whether actor may create a user with target role.
func CanAssignRole(actor, target Role) bool {
	switch actor {
	case RoleSuperAdmin:
		return target == RoleAdmin || target == RoleCashier
	case RoleAdmin:
		return target == RoleCashier
	default:
		return false
	}
}
