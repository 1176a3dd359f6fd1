package user

type Role string

const (
	RoleAdmin    Role = "admin"    // Full access, including company settings
	RoleHR       Role = "rh"       // Human resources: employees, balances, approvals
	RoleManager  Role = "manager"  // Can approve leave and read reports
	RoleEmployee Role = "employee" // Regular employee
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleHR, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// Actor is the authenticated caller as established by the session layer.
type Actor struct {
	EmployeeID string
	CompanyID  string
	Role       Role
}

// CanApprove checks if the actor can decide on leave requests
func (a Actor) CanApprove() bool {
	return HasPermission(a.Role, PermissionLeaveApprove)
}

// CanViewAllBalances checks if the actor may read balances of other employees
func (a Actor) CanViewAllBalances() bool {
	return HasPermission(a.Role, PermissionLeaveViewAll)
}
