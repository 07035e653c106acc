package models

// Role is the access level assigned to an account by the box office.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleStaff     Role = "staff"
	RoleAuditor   Role = "auditor"
	RoleMember    Role = "member"
	RoleVolunteer Role = "volunteer"
	RoleUser      Role = "user"
)

// Principal is the authenticated account as returned by the upstream API.
type Principal struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Role          Role   `json:"role"`
	EmailVerified bool   `json:"email_verified"`
}

// dashboardPaths maps each role to its landing page after login.
var dashboardPaths = map[Role]string{
	RoleAdmin:     "/admin",
	RoleManager:   "/manager",
	RoleStaff:     "/staff",
	RoleAuditor:   "/auditor",
	RoleVolunteer: "/volunteer",
	RoleMember:    "/dashboard",
	RoleUser:      "/dashboard",
}

// DashboardPath returns the landing page for a role. Unknown roles land on
// the member dashboard.
func DashboardPath(r Role) string {
	if path, ok := dashboardPaths[r]; ok {
		return path
	}
	return "/dashboard"
}

// HasAdminAccess reports whether the role may enter the back office.
func (r Role) HasAdminAccess() bool {
	return r == RoleAdmin || r == RoleManager
}
