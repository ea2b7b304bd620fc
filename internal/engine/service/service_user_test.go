package service

import (
	"testing"

	"github.com/observabil/steward/internal/engine/authz"
	"github.com/observabil/steward/internal/engine/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddUser_HappyPath(t *testing.T) {
	repos, users, _, _, _, _ := newFakeRepos()
	admin := seedUser(users, "t1", "admin-1", "admin@t1.io", "admin", 1)
	svc := NewUserService(repos)

	info, err := svc.AddUser(actorFor(admin), &model.AddUserReq{
		Email:    "Emp@t1.io",
		FullName: "Em Ploy",
		Password: "s3cret-pass",
		Role:     "employee",
	})
	require.NoError(t, err)
	assert.Equal(t, "emp@t1.io", info.Email)
	assert.Equal(t, "t1", info.TenantId)
	assert.True(t, info.Active)
}

func TestAddUser_Validation(t *testing.T) {
	repos, users, _, _, _, _ := newFakeRepos()
	admin := seedUser(users, "t1", "admin-1", "admin@t1.io", "admin", 1)
	svc := NewUserService(repos)

	_, err := svc.AddUser(actorFor(admin), &model.AddUserReq{Email: "not-an-email", Password: "s3cret-pass", Role: "employee"})
	assert.ErrorIs(t, err, authz.ErrValidation)

	_, err = svc.AddUser(actorFor(admin), &model.AddUserReq{Email: "e@t1.io", Password: "short", Role: "employee"})
	assert.ErrorIs(t, err, authz.ErrValidation)

	_, err = svc.AddUser(actorFor(admin), &model.AddUserReq{Email: "e@t1.io", Password: "s3cret-pass", Role: "wizard"})
	assert.ErrorIs(t, err, authz.ErrValidation)
}

func TestAddUser_DuplicateEmail(t *testing.T) {
	repos, users, _, _, _, _ := newFakeRepos()
	admin := seedUser(users, "t1", "admin-1", "admin@t1.io", "admin", 1)
	seedUser(users, "t1", "emp-1", "e@t1.io", "employee", 1)
	svc := NewUserService(repos)

	_, err := svc.AddUser(actorFor(admin), &model.AddUserReq{Email: "e@t1.io", Password: "s3cret-pass", Role: "employee"})
	assert.ErrorIs(t, err, authz.ErrConflict)
}

func TestAddUser_SameEmailDifferentTenants(t *testing.T) {
	repos, users, _, _, _, _ := newFakeRepos()
	admin2 := seedUser(users, "t2", "admin-2", "admin@t2.io", "admin", 1)
	seedUser(users, "t1", "emp-1", "shared@corp.io", "employee", 1)
	svc := NewUserService(repos)

	_, err := svc.AddUser(actorFor(admin2), &model.AddUserReq{Email: "shared@corp.io", Password: "s3cret-pass", Role: "employee"})
	assert.NoError(t, err)
}

func TestUpdateUserRole_AdminPromotesEmployee(t *testing.T) {
	repos, users, _, _, _, _ := newFakeRepos()
	admin := seedUser(users, "t1", "admin-1", "admin@t1.io", "admin", 1)
	emp := seedUser(users, "t1", "emp-1", "e@t1.io", "employee", 1)
	svc := NewUserService(repos)

	require.NoError(t, svc.UpdateUserRole(actorFor(admin), emp.UserId, &model.UpdateUserRoleReq{Role: "manager"}))
	assert.Equal(t, "manager", emp.Role)
}

func TestUpdateUserRole_EscalationDenied(t *testing.T) {
	repos, users, _, _, _, _ := newFakeRepos()
	admin := seedUser(users, "t1", "admin-1", "admin@t1.io", "admin", 1)
	emp := seedUser(users, "t1", "emp-1", "e@t1.io", "employee", 1)
	peer := seedUser(users, "t1", "admin-2", "a2@t1.io", "admin", 1)
	svc := NewUserService(repos)

	// cannot raise anyone to the actor's own rank
	err := svc.UpdateUserRole(actorFor(admin), emp.UserId, &model.UpdateUserRoleReq{Role: "admin"})
	assert.ErrorIs(t, err, authz.ErrValidation)

	// cannot touch a peer at all
	err = svc.UpdateUserRole(actorFor(admin), peer.UserId, &model.UpdateUserRoleReq{Role: "employee"})
	assert.ErrorIs(t, err, authz.ErrAuthorization)
}

func TestUpdateUserRole_CrossTenantTarget(t *testing.T) {
	repos, users, _, _, _, _ := newFakeRepos()
	admin := seedUser(users, "t1", "admin-1", "admin@t1.io", "admin", 1)
	other := seedUser(users, "t2", "emp-2", "e@t2.io", "employee", 1)
	svc := NewUserService(repos)

	err := svc.UpdateUserRole(actorFor(admin), other.UserId, &model.UpdateUserRoleReq{Role: "manager"})
	assert.ErrorIs(t, err, authz.ErrTenantIsolation)
	assert.NotErrorIs(t, err, authz.ErrNotFound)
}

func TestDisableUser(t *testing.T) {
	repos, users, _, _, _, _ := newFakeRepos()
	admin := seedUser(users, "t1", "admin-1", "admin@t1.io", "admin", 1)
	emp := seedUser(users, "t1", "emp-1", "e@t1.io", "employee", 1)
	svc := NewUserService(repos)

	require.NoError(t, svc.DisableUser(actorFor(admin), emp.UserId))
	assert.Equal(t, 0, emp.IsEnabled)

	require.NoError(t, svc.EnableUser(actorFor(admin), emp.UserId))
	assert.Equal(t, 1, emp.IsEnabled)
}

func TestDisableUser_SelfDenied(t *testing.T) {
	repos, users, _, _, _, _ := newFakeRepos()
	admin := seedUser(users, "t1", "admin-1", "admin@t1.io", "admin", 1)
	svc := NewUserService(repos)

	err := svc.DisableUser(actorFor(admin), admin.UserId)
	assert.ErrorIs(t, err, authz.ErrValidation)
	assert.Equal(t, 1, admin.IsEnabled)
}

func TestDisabledActorDeniedEverywhere(t *testing.T) {
	repos, users, _, _, _, _ := newFakeRepos()
	disabled := seedUser(users, "t1", "admin-1", "admin@t1.io", "admin", 0)
	svc := NewUserService(repos)

	_, err := svc.GetTenantUsers(actorFor(disabled))
	assert.ErrorIs(t, err, authz.ErrInactiveActor)

	_, err = svc.AddUser(actorFor(disabled), &model.AddUserReq{Email: "e@t1.io", Password: "s3cret-pass", Role: "employee"})
	assert.ErrorIs(t, err, authz.ErrInactiveActor)
}

func TestGetTenantUsers_ScopedToTenant(t *testing.T) {
	repos, users, _, _, _, _ := newFakeRepos()
	emp := seedUser(users, "t1", "emp-1", "e@t1.io", "employee", 1)
	seedUser(users, "t1", "emp-2", "e2@t1.io", "employee", 1)
	seedUser(users, "t2", "emp-3", "e3@t2.io", "employee", 1)
	svc := NewUserService(repos)

	infos, err := svc.GetTenantUsers(actorFor(emp))
	require.NoError(t, err)
	assert.Len(t, infos, 2)
}

func TestUpdateUserRole_DemotionBeforeTxBites(t *testing.T) {
	repos, users, _, _, _, _ := newFakeRepos()
	admin := seedUser(users, "t1", "admin-1", "admin@t1.io", "admin", 1)
	emp := seedUser(users, "t1", "emp-1", "e@t1.io", "employee", 1)
	svc := NewUserService(repos)

	// The snapshot still says admin; the user row no longer does. The
	// transaction re-reads the row, so the stale snapshot must not win.
	stale := actorFor(admin)
	admin.Role = "employee"

	err := svc.UpdateUserRole(stale, emp.UserId, &model.UpdateUserRoleReq{Role: "manager"})
	assert.ErrorIs(t, err, authz.ErrAuthorization)
	assert.Equal(t, "employee", emp.Role)
}

func TestDisableUser_DisableBeforeTxBites(t *testing.T) {
	repos, users, _, _, _, _ := newFakeRepos()
	admin := seedUser(users, "t1", "admin-1", "admin@t1.io", "admin", 1)
	emp := seedUser(users, "t1", "emp-1", "e@t1.io", "employee", 1)
	svc := NewUserService(repos)

	stale := actorFor(admin)
	admin.IsEnabled = 0

	err := svc.DisableUser(stale, emp.UserId)
	assert.ErrorIs(t, err, authz.ErrInactiveActor)
	assert.Equal(t, 1, emp.IsEnabled)
}
