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

package repo

import (
	"github.com/observabil/steward/internal/engine/model"
	"github.com/observabil/steward/pkg/database"
)

type ITeamRepository interface {
	CreateTeam(t *model.Team) error
	// GetTeamById is not tenant-scoped; the policy engine compares the
	// row's tenant against the actor.
	GetTeamById(teamId string) (*model.Team, error)
	ListTeams(tenantId string) ([]*model.Team, error)
	CheckTeamNameExists(tenantId, name string) (bool, error)
	DeleteTeam(tenantId, teamId string) error
	SetTeamAdmin(tenantId, teamId, userId string) error
	ClearTeamAdmin(tenantId, teamId string) error
}

type TeamRepo struct {
	database.IDatabase
}

func NewTeamRepo(db database.IDatabase) ITeamRepository {
	return &TeamRepo{IDatabase: db}
}

// CreateTeam inserts a team row.
func (r *TeamRepo) CreateTeam(t *model.Team) error {
	return r.Database().Create(t).Error
}

// GetTeamById fetches a team by id.
func (r *TeamRepo) GetTeamById(teamId string) (*model.Team, error) {
	var t model.Team
	err := r.Database().
		Where("team_id = ?", teamId).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTeams returns all teams of a tenant.
func (r *TeamRepo) ListTeams(tenantId string) ([]*model.Team, error) {
	var teams []*model.Team
	err := r.Database().
		Where("tenant_id = ?", tenantId).
		Order("name").
		Find(&teams).Error
	return teams, err
}

// CheckTeamNameExists reports whether the name is taken within the tenant.
func (r *TeamRepo) CheckTeamNameExists(tenantId, name string) (bool, error) {
	var count int64
	err := r.Database().Model(&model.Team{}).
		Where("tenant_id = ? AND name = ?", tenantId, name).
		Count(&count).Error
	return count > 0, err
}

// DeleteTeam removes a team row.
func (r *TeamRepo) DeleteTeam(tenantId, teamId string) error {
	return r.Database().
		Where("tenant_id = ? AND team_id = ?", tenantId, teamId).
		Delete(&model.Team{}).Error
}

// SetTeamAdmin points the team admin reference at userId.
func (r *TeamRepo) SetTeamAdmin(tenantId, teamId, userId string) error {
	return r.Database().Model(&model.Team{}).
		Where("tenant_id = ? AND team_id = ?", tenantId, teamId).
		Update("team_admin_id", userId).Error
}

// ClearTeamAdmin drops the team admin reference.
func (r *TeamRepo) ClearTeamAdmin(tenantId, teamId string) error {
	return r.Database().Model(&model.Team{}).
		Where("tenant_id = ? AND team_id = ?", tenantId, teamId).
		Update("team_admin_id", "").Error
}
