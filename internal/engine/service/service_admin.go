// Copyright 2025 Steward Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"context"

	"github.com/observabil/steward/internal/engine/authz"
	"github.com/observabil/steward/internal/engine/model"
	"github.com/observabil/steward/pkg/metrics"
)

/**
 * @file: service_admin.go
 * @description: delegated administration facade
 */

// DelegatedAdminService is the single entry point the transport layer talks
// to. It forwards to the per-concern services and records every decision,
// leaving error kinds untouched so the router can map them to status codes.
type DelegatedAdminService struct {
	Users       *UserService
	Teams       *TeamService
	Invitations *InvitationService
	Permissions *PermissionService
}

func NewDelegatedAdminService(users *UserService, teams *TeamService, invitations *InvitationService, permissions *PermissionService) *DelegatedAdminService {
	return &DelegatedAdminService{
		Users:       users,
		Teams:       teams,
		Invitations: invitations,
		Permissions: permissions,
	}
}

// observe records one decision outcome for a capability.
func observe(cap authz.Capability, err error) {
	outcome := "allow"
	if err != nil {
		outcome = "error"
		if kind := authz.Kind(err); kind != nil {
			outcome = kind.Error()
		}
	}
	metrics.ObserveDecision(string(cap), outcome)
}

func (s *DelegatedAdminService) InviteUser(ctx context.Context, actor authz.Actor, req *model.InviteUserReq) (*model.InvitationResp, error) {
	resp, err := s.Invitations.InviteUser(ctx, actor, req)
	observe(authz.CapInviteUser, err)
	return resp, err
}

func (s *DelegatedAdminService) VerifyInvitationToken(token string) (*model.InvitationResp, error) {
	return s.Invitations.VerifyToken(token)
}

func (s *DelegatedAdminService) AcceptInvitation(req *model.AcceptInvitationReq) (*model.UserInfo, error) {
	return s.Invitations.AcceptInvitation(req)
}

func (s *DelegatedAdminService) RevokeInvitation(actor authz.Actor, invitationId string) error {
	err := s.Invitations.RevokeInvitation(actor, invitationId)
	observe(authz.CapRevokeInvitation, err)
	return err
}

func (s *DelegatedAdminService) GetPendingInvitations(actor authz.Actor) ([]*model.InvitationResp, error) {
	resps, err := s.Invitations.GetPendingInvitations(actor)
	observe(authz.CapInviteUser, err)
	return resps, err
}

func (s *DelegatedAdminService) AddUser(actor authz.Actor, req *model.AddUserReq) (*model.UserInfo, error) {
	info, err := s.Users.AddUser(actor, req)
	observe(authz.CapAddUser, err)
	return info, err
}

func (s *DelegatedAdminService) UpdateUserRole(actor authz.Actor, userId string, req *model.UpdateUserRoleReq) error {
	err := s.Users.UpdateUserRole(actor, userId, req)
	observe(authz.CapUpdateUserRole, err)
	return err
}

func (s *DelegatedAdminService) EnableUser(actor authz.Actor, userId string) error {
	err := s.Users.EnableUser(actor, userId)
	observe(authz.CapSetUserStatus, err)
	return err
}

func (s *DelegatedAdminService) DisableUser(actor authz.Actor, userId string) error {
	err := s.Users.DisableUser(actor, userId)
	observe(authz.CapSetUserStatus, err)
	return err
}

func (s *DelegatedAdminService) GetTenantUsers(actor authz.Actor) ([]*model.UserInfo, error) {
	infos, err := s.Users.GetTenantUsers(actor)
	observe(authz.CapReadTenant, err)
	return infos, err
}

func (s *DelegatedAdminService) CreateTeam(actor authz.Actor, req *model.CreateTeamReq) (*model.TeamResp, error) {
	resp, err := s.Teams.CreateTeam(actor, req)
	observe(authz.CapCreateTeam, err)
	return resp, err
}

func (s *DelegatedAdminService) DeleteTeam(actor authz.Actor, teamId string) error {
	err := s.Teams.DeleteTeam(actor, teamId)
	observe(authz.CapDeleteTeam, err)
	return err
}

func (s *DelegatedAdminService) AddUserToTeam(actor authz.Actor, teamId string, req *model.AddTeamMemberReq) (*model.TeamMemberResp, error) {
	resp, err := s.Teams.AddUserToTeam(actor, teamId, req)
	observe(authz.CapManageTeamMembers, err)
	return resp, err
}

func (s *DelegatedAdminService) RemoveUserFromTeam(actor authz.Actor, memberId string) error {
	err := s.Teams.RemoveUserFromTeam(actor, memberId)
	observe(authz.CapManageTeamMembers, err)
	return err
}

func (s *DelegatedAdminService) AssignTeamAdmin(actor authz.Actor, teamId, userId string) error {
	err := s.Teams.AssignTeamAdmin(actor, teamId, userId)
	observe(authz.CapAssignTeamAdmin, err)
	return err
}

func (s *DelegatedAdminService) GetTeams(actor authz.Actor) ([]*model.TeamResp, error) {
	resps, err := s.Teams.GetTeams(actor)
	observe(authz.CapReadTenant, err)
	return resps, err
}

func (s *DelegatedAdminService) GetTeamMembers(actor authz.Actor, teamId string) ([]*model.TeamMemberResp, error) {
	resps, err := s.Teams.GetTeamMembers(actor, teamId)
	observe(authz.CapReadTenant, err)
	return resps, err
}

func (s *DelegatedAdminService) GrantPermission(ctx context.Context, actor authz.Actor, req *model.GrantPermissionReq) (*model.PermissionResp, error) {
	resp, err := s.Permissions.Grant(ctx, actor, req)
	observe(authz.CapGrantPermission, err)
	return resp, err
}

func (s *DelegatedAdminService) RevokePermission(ctx context.Context, actor authz.Actor, permissionId string) error {
	err := s.Permissions.Revoke(ctx, actor, permissionId)
	observe(authz.CapRevokePermission, err)
	return err
}

func (s *DelegatedAdminService) ListEffectivePermissions(actor authz.Actor, userId string) ([]*model.PermissionResp, error) {
	resps, err := s.Permissions.ListEffective(actor, userId)
	observe(authz.CapReadGrants, err)
	return resps, err
}
