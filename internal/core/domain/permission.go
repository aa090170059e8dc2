package domain

// Operation names a class of protected admin operations.
type Operation string

const (
	OpDashboardView  Operation = "dashboard.view"
	OpContentManage  Operation = "content.manage"
	OpUsersManage    Operation = "users.manage"
	OpSettingsManage Operation = "settings.manage"
)

// PermissionTable maps each protected operation class to the roles allowed
// to invoke it. It is built once at startup and only read afterwards.
type PermissionTable map[Operation][]Role

// DefaultPermissions is the newsroom permission table.
func DefaultPermissions() PermissionTable {
	return PermissionTable{
		OpDashboardView:  {RoleManager, RoleEditor, RoleViewer},
		OpContentManage:  {RoleManager, RoleEditor},
		OpUsersManage:    {RoleManager},
		OpSettingsManage: {RoleManager},
	}
}

// Allows reports whether role may invoke op. Unknown operations allow no one.
func (t PermissionTable) Allows(op Operation, role Role) bool {
	for _, r := range t[op] {
		if r == role {
			return true
		}
	}
	return false
}
