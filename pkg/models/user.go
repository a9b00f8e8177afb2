package models

import "time"

// Permission constants for the role permission checklist.
const (
	PermSysAdmin         = "sys_admin"
	PermManageSchemas    = "manage_schemas"
	PermManageDashboards = "manage_dashboards"
	PermManageCalendars  = "manage_calendars"
	PermManageUsers      = "manage_users"
	PermEditData         = "edit_data"
	PermViewData         = "view_data"
	PermExportData       = "export_data"
)

// ValidPermissions contains all valid permission values.
var ValidPermissions = []string{
	PermSysAdmin,
	PermManageSchemas,
	PermManageDashboards,
	PermManageCalendars,
	PermManageUsers,
	PermEditData,
	PermViewData,
	PermExportData,
}

// IsValidPermission checks if the given permission is valid.
func IsValidPermission(permission string) bool {
	for _, p := range ValidPermissions {
		if p == permission {
			return true
		}
	}
	return false
}

// UserRole groups a set of permissions. System roles (IsSystem) cannot be
// edited or deleted.
type UserRole struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	IsSystem    bool     `json:"is_system"`
	Permissions []string `json:"permissions"`
}

// HasPermission reports whether the role carries the given permission.
func (r *UserRole) HasPermission(permission string) bool {
	for _, p := range r.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the role.
func (r *UserRole) Clone() *UserRole {
	out := *r
	out.Permissions = append([]string(nil), r.Permissions...)
	return &out
}

// User is a console account. Password is stored and compared in plaintext:
// the login flow is a demo stub, not a security boundary.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	RoleID    string    `json:"role_id"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
