package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDashboardPath(t *testing.T) {
	cases := []struct {
		role Role
		want string
	}{
		{RoleAdmin, "/admin"},
		{RoleManager, "/manager"},
		{RoleStaff, "/staff"},
		{RoleAuditor, "/auditor"},
		{RoleVolunteer, "/volunteer"},
		{RoleMember, "/dashboard"},
		{RoleUser, "/dashboard"},
		{Role("intern"), "/dashboard"},
		{Role(""), "/dashboard"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, DashboardPath(tc.role), "role=%q", tc.role)
	}
}

func TestHasAdminAccess(t *testing.T) {
	assert.True(t, RoleAdmin.HasAdminAccess())
	assert.True(t, RoleManager.HasAdminAccess())

	for _, r := range []Role{RoleStaff, RoleAuditor, RoleMember, RoleVolunteer, RoleUser, Role("")} {
		assert.False(t, r.HasAdminAccess(), "role=%q", r)
	}
}
