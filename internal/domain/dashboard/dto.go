package dashboard

// DashboardResponse is the combined response for the main dashboard endpoint
type DashboardResponse struct {
	EmployeeSummary EmployeeSummaryResponse `json:"employee_summary"`
	LeaveSummary    LeaveSummaryResponse    `json:"leave_summary"`
	Departments     []DepartmentCount       `json:"departments"`
}

// EmployeeSummaryResponse contains total, active and inactive employee counts
type EmployeeSummaryResponse struct {
	TotalEmployee    int64 `json:"total_employee"`
	ActiveEmployee   int64 `json:"active_employee"`
	InactiveEmployee int64 `json:"inactive_employee"`
	NewThisMonth     int64 `json:"new_this_month"`
}

// LeaveSummaryResponse counts leave requests per status
type LeaveSummaryResponse struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Approved  int64 `json:"approved"`
	Rejected  int64 `json:"rejected"`
	Cancelled int64 `json:"cancelled"`
}

type DepartmentCount struct {
	Department string `json:"department"`
	Employees  int64  `json:"employees"`
}
