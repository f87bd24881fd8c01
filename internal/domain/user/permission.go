package user

type Permission string

const (
	// Time tracking
	PermissionTimeClock   Permission = "time.clock"
	PermissionTimeApprove Permission = "time.approve"
	PermissionTimeViewAll Permission = "time.view_all"

	// Pay codes
	PermissionPayCodeView   Permission = "paycode.view"
	PermissionPayCodeManage Permission = "paycode.manage"

	// Payroll
	PermissionPayRuleManage    Permission = "payrule.manage"
	PermissionPayrollCalculate Permission = "payroll.calculate"
	PermissionPayCalcView      Permission = "paycalc.view"

	// Leave
	PermissionLeaveApply          Permission = "leave.apply"
	PermissionLeaveApprove        Permission = "leave.approve"
	PermissionLeavePrivileged     Permission = "leave.privileged"
	PermissionLeaveManageTypes    Permission = "leave.manage_types"
	PermissionLeaveManageBalances Permission = "leave.manage_balances"
	PermissionLeaveRunAccrual     Permission = "leave.run_accrual"

	// Notifications
	PermissionNotificationView Permission = "notification.view"
)

var selfService = []Permission{
	PermissionTimeClock,
	PermissionPayCodeView,
	PermissionLeaveApply,
	PermissionNotificationView,
}

var payrollOffice = []Permission{
	PermissionTimeViewAll,
	PermissionPayCodeManage,
	PermissionPayRuleManage,
	PermissionPayrollCalculate,
	PermissionPayCalcView,
}

var hrAdministration = []Permission{
	PermissionTimeApprove,
	PermissionLeaveApprove,
	PermissionLeavePrivileged,
	PermissionLeaveManageTypes,
	PermissionLeaveManageBalances,
	PermissionLeaveRunAccrual,
}

func merge(sets ...[]Permission) []Permission {
	var out []Permission
	for _, s := range sets {
		out = append(out, s...)
	}
	return out
}

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleSystemSuperAdmin: merge(selfService, payrollOffice, hrAdministration),
	RoleSuperUser:        merge(selfService, payrollOffice, hrAdministration),
	RoleAdmin:            merge(selfService, payrollOffice, hrAdministration),
	RolePayroll:          merge(selfService, payrollOffice),
	RoleManager: merge(selfService, []Permission{
		PermissionTimeApprove,
		PermissionLeaveApprove,
	}),
	RoleEmployee: selfService,
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
