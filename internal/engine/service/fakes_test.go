package service

import (
	"time"

	"github.com/observabil/steward/internal/engine/authz"
	"github.com/observabil/steward/internal/engine/model"
	"github.com/observabil/steward/internal/engine/repo"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// In-memory repository fakes. Repositories built without a database run
// InTx callbacks directly, so the services under test hit these maps.

type fakeUserRepo struct {
	users map[string]*model.User // by userId
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) CreateUser(u *model.User) error {
	f.users[u.UserId] = u
	return nil
}

func (f *fakeUserRepo) GetUserById(userId string) (*model.User, error) {
	u, ok := f.users[userId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetUserByEmail(tenantId, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.TenantId == tenantId && u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) ListUsers(tenantId string) ([]*model.User, error) {
	var out []*model.User
	for _, u := range f.users {
		if u.TenantId == tenantId {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) CheckEmailExists(tenantId, email string) (bool, error) {
	_, err := f.GetUserByEmail(tenantId, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (f *fakeUserRepo) UpdateUserRole(tenantId, userId, role string) (int64, error) {
	u, ok := f.users[userId]
	if !ok || u.TenantId != tenantId {
		return 0, nil
	}
	u.Role = role
	return 1, nil
}

func (f *fakeUserRepo) SetUserEnabled(tenantId, userId string, enabled int) (int64, error) {
	u, ok := f.users[userId]
	if !ok || u.TenantId != tenantId {
		return 0, nil
	}
	u.IsEnabled = enabled
	return 1, nil
}

func (f *fakeUserRepo) UpdateUserPassword(tenantId, userId, hashed string) error {
	if u, ok := f.users[userId]; ok && u.TenantId == tenantId {
		u.Password = hashed
	}
	return nil
}

type fakeTeamRepo struct {
	teams map[string]*model.Team
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[string]*model.Team)}
}

func (f *fakeTeamRepo) CreateTeam(t *model.Team) error {
	f.teams[t.TeamId] = t
	return nil
}

func (f *fakeTeamRepo) GetTeamById(teamId string) (*model.Team, error) {
	t, ok := f.teams[teamId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (f *fakeTeamRepo) ListTeams(tenantId string) ([]*model.Team, error) {
	var out []*model.Team
	for _, t := range f.teams {
		if t.TenantId == tenantId {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTeamRepo) CheckTeamNameExists(tenantId, name string) (bool, error) {
	for _, t := range f.teams {
		if t.TenantId == tenantId && t.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTeamRepo) DeleteTeam(tenantId, teamId string) error {
	if t, ok := f.teams[teamId]; ok && t.TenantId == tenantId {
		delete(f.teams, teamId)
	}
	return nil
}

func (f *fakeTeamRepo) SetTeamAdmin(tenantId, teamId, userId string) error {
	if t, ok := f.teams[teamId]; ok && t.TenantId == tenantId {
		t.TeamAdminId = userId
	}
	return nil
}

func (f *fakeTeamRepo) ClearTeamAdmin(tenantId, teamId string) error {
	if t, ok := f.teams[teamId]; ok && t.TenantId == tenantId {
		t.TeamAdminId = ""
	}
	return nil
}

type fakeTeamMemberRepo struct {
	members map[string]*model.TeamMember
}

func newFakeTeamMemberRepo() *fakeTeamMemberRepo {
	return &fakeTeamMemberRepo{members: make(map[string]*model.TeamMember)}
}

func (f *fakeTeamMemberRepo) AddTeamMember(m *model.TeamMember) error {
	f.members[m.MemberId] = m
	return nil
}

func (f *fakeTeamMemberRepo) GetMemberById(memberId string) (*model.TeamMember, error) {
	m, ok := f.members[memberId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (f *fakeTeamMemberRepo) HasMember(teamId, userId string) (bool, error) {
	for _, m := range f.members {
		if m.TeamId == teamId && m.UserId == userId {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTeamMemberRepo) ListTeamMembers(teamId string) ([]*model.TeamMember, error) {
	var out []*model.TeamMember
	for _, m := range f.members {
		if m.TeamId == teamId {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeTeamMemberRepo) RemoveMember(memberId string) error {
	delete(f.members, memberId)
	return nil
}

type fakeInvitationRepo struct {
	invitations map[string]*model.Invitation
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{invitations: make(map[string]*model.Invitation)}
}

func (f *fakeInvitationRepo) CreateInvitation(inv *model.Invitation) error {
	f.invitations[inv.InvitationId] = inv
	return nil
}

func (f *fakeInvitationRepo) GetByToken(token string) (*model.Invitation, error) {
	for _, inv := range f.invitations {
		if inv.Token == token {
			return inv, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeInvitationRepo) GetById(invitationId string) (*model.Invitation, error) {
	inv, ok := f.invitations[invitationId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return inv, nil
}

func (f *fakeInvitationRepo) HasPendingInvitation(tenantId, email string) (bool, error) {
	for _, inv := range f.invitations {
		if inv.TenantId == tenantId && inv.Email == email && inv.Status == model.InvitationStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeInvitationRepo) ListPending(tenantId string) ([]*model.Invitation, error) {
	var out []*model.Invitation
	for _, inv := range f.invitations {
		if inv.TenantId == tenantId && inv.Status == model.InvitationStatusPending {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeInvitationRepo) markFrom(invitationId string, from, to int) (int64, error) {
	inv, ok := f.invitations[invitationId]
	if !ok || inv.Status != from {
		return 0, nil
	}
	inv.Status = to
	return 1, nil
}

func (f *fakeInvitationRepo) MarkAccepted(invitationId string) (int64, error) {
	return f.markFrom(invitationId, model.InvitationStatusPending, model.InvitationStatusAccepted)
}

func (f *fakeInvitationRepo) MarkExpired(invitationId string) (int64, error) {
	return f.markFrom(invitationId, model.InvitationStatusPending, model.InvitationStatusExpired)
}

func (f *fakeInvitationRepo) MarkRevoked(tenantId, invitationId string) (int64, error) {
	inv, ok := f.invitations[invitationId]
	if !ok || inv.TenantId != tenantId {
		return 0, nil
	}
	return f.markFrom(invitationId, model.InvitationStatusPending, model.InvitationStatusRevoked)
}

type fakePermissionRepo struct {
	grants map[string]*model.ResourcePermission
}

func newFakePermissionRepo() *fakePermissionRepo {
	return &fakePermissionRepo{grants: make(map[string]*model.ResourcePermission)}
}

func (f *fakePermissionRepo) CreateGrant(p *model.ResourcePermission) error {
	f.grants[p.PermissionId] = p
	return nil
}

func (f *fakePermissionRepo) GetById(permissionId string) (*model.ResourcePermission, error) {
	p, ok := f.grants[permissionId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakePermissionRepo) GetActiveGrantForUpdate(tenantId, userId, resourceType, resourceId string) (*model.ResourcePermission, error) {
	for _, p := range f.grants {
		if p.TenantId == tenantId && p.UserId == userId &&
			p.ResourceType == resourceType && p.ResourceId == resourceId && p.IsActive == 1 {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePermissionRepo) UpdateGrantActions(permissionId string, actions datatypes.JSON, expiresAt *time.Time) error {
	if p, ok := f.grants[permissionId]; ok {
		p.Actions = actions
		p.ExpiresAt = expiresAt
	}
	return nil
}

func (f *fakePermissionRepo) Revoke(tenantId, permissionId string) error {
	if p, ok := f.grants[permissionId]; ok && p.TenantId == tenantId {
		p.IsActive = 0
	}
	return nil
}

func (f *fakePermissionRepo) ListActiveByUser(tenantId, userId string) ([]*model.ResourcePermission, error) {
	var out []*model.ResourcePermission
	for _, p := range f.grants {
		if p.TenantId == tenantId && p.UserId == userId && p.IsActive == 1 {
			out = append(out, p)
		}
	}
	return out, nil
}

// newFakeRepos assembles repositories over the fakes. The zero db makes InTx
// run callbacks in place.
func newFakeRepos() (*repo.Repositories, *fakeUserRepo, *fakeTeamRepo, *fakeTeamMemberRepo, *fakeInvitationRepo, *fakePermissionRepo) {
	users := newFakeUserRepo()
	teams := newFakeTeamRepo()
	members := newFakeTeamMemberRepo()
	invitations := newFakeInvitationRepo()
	permissions := newFakePermissionRepo()
	repos := &repo.Repositories{
		User:       users,
		Team:       teams,
		TeamMember: members,
		Invitation: invitations,
		Permission: permissions,
	}
	return repos, users, teams, members, invitations, permissions
}

func seedUser(users *fakeUserRepo, tenantId, userId, email, role string, enabled int) *model.User {
	u := &model.User{
		UserId:    userId,
		TenantId:  tenantId,
		Email:     email,
		Role:      role,
		IsEnabled: enabled,
	}
	users.users[userId] = u
	return u
}

func actorFor(u *model.User) authz.Actor {
	return authz.Actor{
		TenantId: u.TenantId,
		UserId:   u.UserId,
		Role:     authz.Role(u.Role),
		Active:   u.IsEnabled == 1,
	}
}
