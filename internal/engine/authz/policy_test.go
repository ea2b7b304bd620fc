package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func admin(tenant string) Actor {
	return Actor{TenantId: tenant, UserId: "admin-1", Role: RoleAdmin, Active: true}
}

func TestAuthorize_TenantIsolationCheckedFirst(t *testing.T) {
	// even a disabled actor with no privileges gets the isolation error first
	actor := Actor{TenantId: "t1", UserId: "u1", Role: RoleEmployee, Active: false}

	err := Authorize(actor, "t2", CapInviteUser)
	assert.ErrorIs(t, err, ErrTenantIsolation)
	assert.NotErrorIs(t, err, ErrInactiveActor)
	assert.NotErrorIs(t, err, ErrAuthorization)
}

func TestAuthorize_EmptyTenantNeverMatches(t *testing.T) {
	actor := Actor{TenantId: "", UserId: "u1", Role: RoleAdmin, Active: true}
	err := Authorize(actor, "", CapReadTenant)
	assert.ErrorIs(t, err, ErrTenantIsolation)
}

func TestAuthorize_InactiveActor(t *testing.T) {
	actor := Actor{TenantId: "t1", UserId: "u1", Role: RoleAdmin, Active: false}
	err := Authorize(actor, "t1", CapInviteUser)
	assert.ErrorIs(t, err, ErrInactiveActor)
}

func TestAuthorize_RoleThresholds(t *testing.T) {
	tests := []struct {
		name    string
		role    Role
		cap     Capability
		allowed bool
	}{
		{"employee cannot invite", RoleEmployee, CapInviteUser, false},
		{"manager cannot invite", RoleManager, CapInviteUser, false},
		{"admin can invite", RoleAdmin, CapInviteUser, true},
		{"superadmin can invite", RoleSuperAdmin, CapInviteUser, true},
		{"manager passes member management threshold", RoleManager, CapManageTeamMembers, true},
		{"employee fails member management threshold", RoleEmployee, CapManageTeamMembers, false},
		{"employee can read tenant", RoleEmployee, CapReadTenant, true},
		{"manager cannot create team", RoleManager, CapCreateTeam, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor := Actor{TenantId: "t1", UserId: "u1", Role: tt.role, Active: true}
			err := Authorize(actor, "t1", tt.cap)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrAuthorization)
			}
		})
	}
}

func TestRoleAssignable(t *testing.T) {
	actor := admin("t1")

	assert.NoError(t, RoleAssignable(actor, RoleManager)())
	assert.NoError(t, RoleAssignable(actor, RoleEmployee)())

	// superadmin is never assignable, regardless of actor rank
	err := RoleAssignable(Actor{TenantId: "t1", Role: RoleSuperAdmin, Active: true}, RoleSuperAdmin)()
	assert.ErrorIs(t, err, ErrValidation)

	// peer rank is not assignable
	err = RoleAssignable(actor, RoleAdmin)()
	assert.ErrorIs(t, err, ErrValidation)

	err = RoleAssignable(actor, Role("intern"))()
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAdminOrTeamAdmin(t *testing.T) {
	teamAdmin := Actor{TenantId: "t1", UserId: "mgr-1", Role: RoleManager, Active: true}
	otherManager := Actor{TenantId: "t1", UserId: "mgr-2", Role: RoleManager, Active: true}

	assert.NoError(t, Authorize(admin("t1"), "t1", CapManageTeamMembers, AdminOrTeamAdmin(admin("t1"), "mgr-1")))
	assert.NoError(t, Authorize(teamAdmin, "t1", CapManageTeamMembers, AdminOrTeamAdmin(teamAdmin, "mgr-1")))

	err := Authorize(otherManager, "t1", CapManageTeamMembers, AdminOrTeamAdmin(otherManager, "mgr-1"))
	assert.ErrorIs(t, err, ErrAuthorization)

	// a team without an admin only accepts admins
	err = Authorize(teamAdmin, "t1", CapManageTeamMembers, AdminOrTeamAdmin(teamAdmin, ""))
	assert.ErrorIs(t, err, ErrAuthorization)
}

func TestAdminOrScopedManager(t *testing.T) {
	manager := Actor{TenantId: "t1", UserId: "mgr-1", Role: RoleManager, Active: true}

	assert.NoError(t, Authorize(admin("t1"), "t1", CapGrantPermission, AdminOrScopedManager(admin("t1"), false)))
	assert.NoError(t, Authorize(manager, "t1", CapGrantPermission, AdminOrScopedManager(manager, true)))

	err := Authorize(manager, "t1", CapGrantPermission, AdminOrScopedManager(manager, false))
	assert.ErrorIs(t, err, ErrAuthorization)
}

func TestKind(t *testing.T) {
	err := Authorize(admin("t1"), "t2", CapInviteUser)
	assert.Equal(t, ErrTenantIsolation, Kind(err))
	assert.Nil(t, Kind(nil))
}
