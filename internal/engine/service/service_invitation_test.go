package service

import (
	"context"
	"testing"
	"time"

	"github.com/observabil/steward/internal/engine/authz"
	"github.com/observabil/steward/internal/engine/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInviteUser_HappyPath(t *testing.T) {
	repos, users, _, _, invitations, _ := newFakeRepos()
	admin := seedUser(users, "t1", "admin-1", "admin@t1.io", "admin", 1)
	svc := NewInvitationService(repos, nil, 0)

	resp, err := svc.InviteUser(context.Background(), actorFor(admin), &model.InviteUserReq{
		Email:        "New.Hire@t1.io",
		ProposedRole: "employee",
	})
	require.NoError(t, err)
	assert.Equal(t, "new.hire@t1.io", resp.Email)
	assert.Equal(t, "employee", resp.ProposedRole)
	assert.Equal(t, model.InvitationStatusPending, resp.Status)

	inv, err := invitations.GetById(resp.InvitationId)
	require.NoError(t, err)
	assert.Len(t, inv.Token, 64)
	assert.WithinDuration(t, time.Now().Add(DefaultInviteTTL), inv.ExpiresAt, time.Minute)
}

func TestInviteUser_ManagerDenied(t *testing.T) {
	repos, users, _, _, _, _ := newFakeRepos()
	manager := seedUser(users, "t1", "mgr-1", "mgr@t1.io", "manager", 1)
	svc := NewInvitationService(repos, nil, 0)

	_, err := svc.InviteUser(context.Background(), actorFor(manager), &model.InviteUserReq{
		Email: "x@t1.io", ProposedRole: "employee",
	})
	assert.ErrorIs(t, err, authz.ErrAuthorization)
}

func TestInviteUser_CannotProposeOwnRankOrAbove(t *testing.T) {
	repos, users, _, _, _, _ := newFakeRepos()
	admin := seedUser(users, "t1", "admin-1", "admin@t1.io", "admin", 1)
	svc := NewInvitationService(repos, nil, 0)

	for _, role := range []string{"admin", "superadmin"} {
		_, err := svc.InviteUser(context.Background(), actorFor(admin), &model.InviteUserReq{
			Email: "x@t1.io", ProposedRole: role,
		})
		assert.ErrorIs(t, err, authz.ErrValidation, role)
	}
}

func TestInviteUser_DuplicatePendingConflict(t *testing.T) {
	repos, users, _, _, _, _ := newFakeRepos()
	admin := seedUser(users, "t1", "admin-1", "admin@t1.io", "admin", 1)
	svc := NewInvitationService(repos, nil, 0)
	ctx := context.Background()

	_, err := svc.InviteUser(ctx, actorFor(admin), &model.InviteUserReq{Email: "x@t1.io", ProposedRole: "employee"})
	require.NoError(t, err)
	_, err = svc.InviteUser(ctx, actorFor(admin), &model.InviteUserReq{Email: "x@t1.io", ProposedRole: "employee"})
	assert.ErrorIs(t, err, authz.ErrConflict)
}

func TestInviteUser_RegisteredEmailConflict(t *testing.T) {
	repos, users, _, _, _, _ := newFakeRepos()
	admin := seedUser(users, "t1", "admin-1", "admin@t1.io", "admin", 1)
	seedUser(users, "t1", "emp-1", "x@t1.io", "employee", 1)
	svc := NewInvitationService(repos, nil, 0)

	_, err := svc.InviteUser(context.Background(), actorFor(admin), &model.InviteUserReq{
		Email: "x@t1.io", ProposedRole: "employee",
	})
	assert.ErrorIs(t, err, authz.ErrConflict)
}

func TestAcceptInvitation_CreatesUserWithProposedRole(t *testing.T) {
	repos, users, _, _, invitations, _ := newFakeRepos()
	admin := seedUser(users, "t1", "admin-1", "admin@t1.io", "admin", 1)
	svc := NewInvitationService(repos, nil, 0)
	ctx := context.Background()

	resp, err := svc.InviteUser(ctx, actorFor(admin), &model.InviteUserReq{Email: "x@t1.io", ProposedRole: "manager"})
	require.NoError(t, err)
	inv, _ := invitations.GetById(resp.InvitationId)

	info, err := svc.AcceptInvitation(&model.AcceptInvitationReq{
		Token: inv.Token, FullName: "New Hire", Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "t1", info.TenantId)
	assert.Equal(t, "manager", info.Role)
	assert.True(t, info.Active)

	created, err := users.GetUserById(info.UserId)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", created.Password)
}

func TestAcceptInvitation_SingleUse(t *testing.T) {
	repos, users, _, _, invitations, _ := newFakeRepos()
	admin := seedUser(users, "t1", "admin-1", "admin@t1.io", "admin", 1)
	svc := NewInvitationService(repos, nil, 0)

	resp, err := svc.InviteUser(context.Background(), actorFor(admin),
		&model.InviteUserReq{Email: "x@t1.io", ProposedRole: "employee"})
	require.NoError(t, err)
	inv, _ := invitations.GetById(resp.InvitationId)

	_, err = svc.AcceptInvitation(&model.AcceptInvitationReq{Token: inv.Token, Password: "s3cret-pass"})
	require.NoError(t, err)
	_, err = svc.AcceptInvitation(&model.AcceptInvitationReq{Token: inv.Token, Password: "s3cret-pass"})
	assert.ErrorIs(t, err, authz.ErrInvalidToken)

	all, err := users.ListUsers("t1")
	require.NoError(t, err)
	assert.Len(t, all, 2) // admin + one created user
}

func TestVerifyToken_ExpiredIsMarkedAndDistinct(t *testing.T) {
	repos, users, _, _, invitations, _ := newFakeRepos()
	admin := seedUser(users, "t1", "admin-1", "admin@t1.io", "admin", 1)
	svc := NewInvitationService(repos, nil, 0)

	resp, err := svc.InviteUser(context.Background(), actorFor(admin),
		&model.InviteUserReq{Email: "x@t1.io", ProposedRole: "employee"})
	require.NoError(t, err)
	inv, _ := invitations.GetById(resp.InvitationId)
	inv.ExpiresAt = time.Now().Add(-time.Hour)

	_, err = svc.VerifyToken(inv.Token)
	assert.ErrorIs(t, err, authz.ErrExpired)
	assert.NotErrorIs(t, err, authz.ErrInvalidToken)
	assert.Equal(t, model.InvitationStatusExpired, inv.Status)
}

func TestVerifyToken_UnknownToken(t *testing.T) {
	repos, _, _, _, _, _ := newFakeRepos()
	svc := NewInvitationService(repos, nil, 0)

	_, err := svc.VerifyToken("no-such-token")
	assert.ErrorIs(t, err, authz.ErrInvalidToken)
}

func TestRevokeInvitation(t *testing.T) {
	repos, users, _, _, invitations, _ := newFakeRepos()
	admin := seedUser(users, "t1", "admin-1", "admin@t1.io", "admin", 1)
	svc := NewInvitationService(repos, nil, 0)

	resp, err := svc.InviteUser(context.Background(), actorFor(admin),
		&model.InviteUserReq{Email: "x@t1.io", ProposedRole: "employee"})
	require.NoError(t, err)

	require.NoError(t, svc.RevokeInvitation(actorFor(admin), resp.InvitationId))
	inv, _ := invitations.GetById(resp.InvitationId)
	assert.Equal(t, model.InvitationStatusRevoked, inv.Status)

	// revoked tokens look consumed, not expired
	_, err = svc.VerifyToken(inv.Token)
	assert.ErrorIs(t, err, authz.ErrInvalidToken)

	// revoking twice is a conflict
	err = svc.RevokeInvitation(actorFor(admin), resp.InvitationId)
	assert.ErrorIs(t, err, authz.ErrConflict)
}

func TestRevokeInvitation_CrossTenantIsolation(t *testing.T) {
	repos, users, _, _, _, _ := newFakeRepos()
	admin1 := seedUser(users, "t1", "admin-1", "admin@t1.io", "admin", 1)
	admin2 := seedUser(users, "t2", "admin-2", "admin@t2.io", "admin", 1)
	svc := NewInvitationService(repos, nil, 0)

	resp, err := svc.InviteUser(context.Background(), actorFor(admin1),
		&model.InviteUserReq{Email: "x@t1.io", ProposedRole: "employee"})
	require.NoError(t, err)

	err = svc.RevokeInvitation(actorFor(admin2), resp.InvitationId)
	assert.ErrorIs(t, err, authz.ErrTenantIsolation)
}

func TestGetPendingInvitations(t *testing.T) {
	repos, users, _, _, _, _ := newFakeRepos()
	admin := seedUser(users, "t1", "admin-1", "admin@t1.io", "admin", 1)
	svc := NewInvitationService(repos, nil, 0)
	ctx := context.Background()

	_, err := svc.InviteUser(ctx, actorFor(admin), &model.InviteUserReq{Email: "a@t1.io", ProposedRole: "employee"})
	require.NoError(t, err)
	resp, err := svc.InviteUser(ctx, actorFor(admin), &model.InviteUserReq{Email: "b@t1.io", ProposedRole: "employee"})
	require.NoError(t, err)
	require.NoError(t, svc.RevokeInvitation(actorFor(admin), resp.InvitationId))

	pending, err := svc.GetPendingInvitations(actorFor(admin))
	require.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Equal(t, "a@t1.io", pending[0].Email)
}

func TestInviteUser_DemotionBeforeTxBites(t *testing.T) {
	repos, users, _, _, _, _ := newFakeRepos()
	admin := seedUser(users, "t1", "admin-1", "admin@t1.io", "admin", 1)
	svc := NewInvitationService(repos, nil, 0)

	stale := actorFor(admin)
	admin.Role = "manager"

	_, err := svc.InviteUser(context.Background(), stale, &model.InviteUserReq{
		Email:        "hire@t1.io",
		ProposedRole: "employee",
	})
	assert.ErrorIs(t, err, authz.ErrAuthorization)
}
