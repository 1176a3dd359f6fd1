package user

type Permission string

const (
	// Self Management
	PermissionViewOwnProfile Permission = "profile.view_own"

	// Leave Management
	PermissionLeaveViewOwn       Permission = "leave.view_own"
	PermissionLeaveCreate        Permission = "leave.create"
	PermissionLeaveViewAll       Permission = "leave.view_all"
	PermissionLeaveApprove       Permission = "leave.approve"
	PermissionLeaveManageTypes   Permission = "leave.manage_types"
	PermissionLeaveInitBalances  Permission = "leave.initialize_balances"
	PermissionLeaveRunAccrual    Permission = "leave.run_accrual"
	PermissionLeaveBalanceReport Permission = "leave.balance_report"

	// Employee Management
	PermissionEmployeeViewAll       Permission = "employee.view_all"
	PermissionEmployeeManage        Permission = "employee.manage"
	PermissionEmployeeResetPassword Permission = "employee.reset_password"

	// Company Management
	PermissionCompanyView   Permission = "company.view"
	PermissionCompanyManage Permission = "company.manage"

	// Dashboard
	PermissionDashboardView Permission = "dashboard.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionViewOwnProfile,
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionLeaveManageTypes,
		PermissionLeaveInitBalances,
		PermissionLeaveRunAccrual,
		PermissionLeaveBalanceReport,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
		PermissionEmployeeResetPassword,
		PermissionCompanyView,
		PermissionCompanyManage,
		PermissionDashboardView,
	},
	RoleHR: {
		PermissionViewOwnProfile,
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionLeaveManageTypes,
		PermissionLeaveInitBalances,
		PermissionLeaveBalanceReport,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
		PermissionEmployeeResetPassword,
		PermissionCompanyView,
		PermissionDashboardView,
	},
	RoleManager: {
		PermissionViewOwnProfile,
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionLeaveBalanceReport,
		PermissionEmployeeViewAll,
		PermissionCompanyView,
		PermissionDashboardView,
	},
	RoleEmployee: {
		PermissionViewOwnProfile,
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionCompanyView,
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
