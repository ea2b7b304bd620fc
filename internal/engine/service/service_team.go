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
	"errors"
	"fmt"
	"strings"

	"github.com/observabil/steward/internal/engine/authz"
	"github.com/observabil/steward/internal/engine/model"
	"github.com/observabil/steward/internal/engine/repo"
	"github.com/observabil/steward/pkg/id"
	"github.com/observabil/steward/pkg/log"
	"gorm.io/gorm"
)

/**
 * @file: service_team.go
 * @description: team lifecycle, membership and team admin assignment
 */

type TeamService struct {
	repos *repo.Repositories
}

func NewTeamService(repos *repo.Repositories) *TeamService {
	return &TeamService{repos: repos}
}

// CreateTeam creates an empty team in the actor's tenant.
func (s *TeamService) CreateTeam(actor authz.Actor, req *model.CreateTeamReq) (*model.TeamResp, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("team name cannot be empty: %w", authz.ErrValidation)
	}

	var teamEntity *model.Team
	err := s.repos.InTx(func(tx *repo.Repositories) error {
		actor, err := refreshActor(tx, actor)
		if err != nil {
			return err
		}
		if err := authz.Authorize(actor, actor.TenantId, authz.CapCreateTeam); err != nil {
			return err
		}

		exists, err := tx.Team.CheckTeamNameExists(actor.TenantId, name)
		if err != nil {
			return fmt.Errorf("check team name failed: %w", err)
		}
		if exists {
			return fmt.Errorf("team name %q already exists: %w", name, authz.ErrConflict)
		}

		teamEntity = &model.Team{
			TeamId:      id.GetUUID(),
			TenantId:    actor.TenantId,
			Name:        name,
			Description: req.Description,
			IsEnabled:   1,
		}
		return tx.Team.CreateTeam(teamEntity)
	})
	if err != nil {
		return nil, err
	}

	log.Infow("team created", "teamId", teamEntity.TeamId, "name", name, "actor", actor.UserId)
	return model.ToTeamResp(teamEntity), nil
}

// DeleteTeam removes a team and its memberships.
func (s *TeamService) DeleteTeam(actor authz.Actor, teamId string) error {
	err := s.repos.InTx(func(tx *repo.Repositories) error {
		actor, err := refreshActor(tx, actor)
		if err != nil {
			return err
		}
		teamEntity, err := s.loadTeam(tx, teamId)
		if err != nil {
			return err
		}
		if err := authz.Authorize(actor, teamEntity.TenantId, authz.CapDeleteTeam); err != nil {
			return err
		}

		members, err := tx.TeamMember.ListTeamMembers(teamId)
		if err != nil {
			return fmt.Errorf("list team members failed: %w", err)
		}
		for _, m := range members {
			if err := tx.TeamMember.RemoveMember(m.MemberId); err != nil {
				return fmt.Errorf("remove team member failed: %w", err)
			}
		}
		return tx.Team.DeleteTeam(teamEntity.TenantId, teamId)
	})
	if err != nil {
		return err
	}

	log.Infow("team deleted", "teamId", teamId, "actor", actor.UserId)
	return nil
}

// AddUserToTeam adds a user of the same tenant to a team. Allowed for admins
// and for the team's current team admin.
func (s *TeamService) AddUserToTeam(actor authz.Actor, teamId string, req *model.AddTeamMemberReq) (*model.TeamMemberResp, error) {
	teamRole := req.TeamRole
	if teamRole == "" {
		teamRole = model.TeamRoleMember
	}
	if !model.ValidTeamRole(teamRole) {
		return nil, fmt.Errorf("unknown team role %q: %w", teamRole, authz.ErrValidation)
	}

	var member *model.TeamMember
	err := s.repos.InTx(func(tx *repo.Repositories) error {
		actor, err := refreshActor(tx, actor)
		if err != nil {
			return err
		}
		teamEntity, err := s.loadTeam(tx, teamId)
		if err != nil {
			return err
		}
		if err := authz.Authorize(actor, teamEntity.TenantId, authz.CapManageTeamMembers,
			authz.AdminOrTeamAdmin(actor, teamEntity.TeamAdminId)); err != nil {
			return err
		}

		userEntity, err := loadUser(tx, req.UserId)
		if err != nil {
			return err
		}
		if userEntity.TenantId != teamEntity.TenantId {
			return fmt.Errorf("user %s is outside the team's tenant: %w", req.UserId, authz.ErrTenantIsolation)
		}

		dup, err := tx.TeamMember.HasMember(teamId, req.UserId)
		if err != nil {
			return fmt.Errorf("check membership failed: %w", err)
		}
		if dup {
			return fmt.Errorf("user %s is already a member: %w", req.UserId, authz.ErrConflict)
		}

		member = &model.TeamMember{
			MemberId: id.GetUUID(),
			TeamId:   teamId,
			UserId:   req.UserId,
			TeamRole: teamRole,
		}
		return tx.TeamMember.AddTeamMember(member)
	})
	if err != nil {
		return nil, err
	}

	log.Infow("team member added", "teamId", teamId, "userId", req.UserId, "actor", actor.UserId)
	return model.ToTeamMemberResp(member), nil
}

// RemoveUserFromTeam removes a membership; if the removed user is the team
// admin the reference is cleared as well.
func (s *TeamService) RemoveUserFromTeam(actor authz.Actor, memberId string) error {
	err := s.repos.InTx(func(tx *repo.Repositories) error {
		actor, err := refreshActor(tx, actor)
		if err != nil {
			return err
		}
		member, err := tx.TeamMember.GetMemberById(memberId)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("membership %s: %w", memberId, authz.ErrNotFound)
			}
			return fmt.Errorf("get membership failed: %w", err)
		}

		teamEntity, err := s.loadTeam(tx, member.TeamId)
		if err != nil {
			return err
		}
		if err := authz.Authorize(actor, teamEntity.TenantId, authz.CapManageTeamMembers,
			authz.AdminOrTeamAdmin(actor, teamEntity.TeamAdminId)); err != nil {
			return err
		}

		if err := tx.TeamMember.RemoveMember(memberId); err != nil {
			return fmt.Errorf("remove member failed: %w", err)
		}
		if teamEntity.TeamAdminId == member.UserId {
			if err := tx.Team.ClearTeamAdmin(teamEntity.TenantId, teamEntity.TeamId); err != nil {
				return fmt.Errorf("clear team admin failed: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Infow("team member removed", "memberId", memberId, "actor", actor.UserId)
	return nil
}

// AssignTeamAdmin points the team admin reference at a user holding the
// manager role. Idempotent when the user already is the team admin.
func (s *TeamService) AssignTeamAdmin(actor authz.Actor, teamId, userId string) error {
	err := s.repos.InTx(func(tx *repo.Repositories) error {
		actor, err := refreshActor(tx, actor)
		if err != nil {
			return err
		}
		teamEntity, err := s.loadTeam(tx, teamId)
		if err != nil {
			return err
		}
		if err := authz.Authorize(actor, teamEntity.TenantId, authz.CapAssignTeamAdmin); err != nil {
			return err
		}

		userEntity, err := loadUser(tx, userId)
		if err != nil {
			return err
		}
		if userEntity.TenantId != teamEntity.TenantId {
			return fmt.Errorf("user %s is outside the team's tenant: %w", userId, authz.ErrTenantIsolation)
		}
		if authz.Role(userEntity.Role) != authz.RoleManager {
			return fmt.Errorf("team admin must hold manager role: %w", authz.ErrValidation)
		}

		if teamEntity.TeamAdminId == userId {
			return nil
		}
		return tx.Team.SetTeamAdmin(teamEntity.TenantId, teamId, userId)
	})
	if err != nil {
		return err
	}

	log.Infow("team admin assigned", "teamId", teamId, "userId", userId, "actor", actor.UserId)
	return nil
}

// GetTeams lists the teams of the actor's tenant.
func (s *TeamService) GetTeams(actor authz.Actor) ([]*model.TeamResp, error) {
	if err := authz.Authorize(actor, actor.TenantId, authz.CapReadTenant); err != nil {
		return nil, err
	}

	teams, err := s.repos.Team.ListTeams(actor.TenantId)
	if err != nil {
		return nil, fmt.Errorf("list teams failed: %w", err)
	}

	resps := make([]*model.TeamResp, 0, len(teams))
	for _, t := range teams {
		resps = append(resps, model.ToTeamResp(t))
	}
	return resps, nil
}

// GetTeamMembers lists the members of a team in the actor's tenant.
func (s *TeamService) GetTeamMembers(actor authz.Actor, teamId string) ([]*model.TeamMemberResp, error) {
	teamEntity, err := s.loadTeam(s.repos, teamId)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, teamEntity.TenantId, authz.CapReadTenant); err != nil {
		return nil, err
	}

	members, err := s.repos.TeamMember.ListTeamMembers(teamId)
	if err != nil {
		return nil, fmt.Errorf("list team members failed: %w", err)
	}

	resps := make([]*model.TeamMemberResp, 0, len(members))
	for _, m := range members {
		resps = append(resps, model.ToTeamMemberResp(m))
	}
	return resps, nil
}

func (s *TeamService) loadTeam(tx *repo.Repositories, teamId string) (*model.Team, error) {
	teamEntity, err := tx.Team.GetTeamById(teamId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("team %s: %w", teamId, authz.ErrNotFound)
		}
		return nil, fmt.Errorf("get team failed: %w", err)
	}
	return teamEntity, nil
}
