package models

const (
	RoleSuperuser = "superuser"
	RoleUser      = "user"
)

// PermissionAll grants every capability when present in a permission set.
const PermissionAll = "all"

const (
	CapDashboardView     = "dashboard:view"
	CapAnalyticsView     = "analytics:view"
	CapOpportunitiesView = "opportunities:view"
	CapLabourView        = "labour:view"
	CapNotificationsView = "notifications:view"
	CapMessagesSend      = "messages:send"
	CapCompaniesManage   = "companies:manage"
	CapBillingManage     = "billing:manage"
	CapUsersManage       = "users:manage"
	CapModulesManage     = "modules:manage"
)

// ValidRole reports whether name is one of the known identity roles.
func ValidRole(name string) bool {
	return name == RoleSuperuser || name == RoleUser
}
