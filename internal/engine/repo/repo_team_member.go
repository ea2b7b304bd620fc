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

type ITeamMemberRepository interface {
	AddTeamMember(member *model.TeamMember) error
	GetMemberById(memberId string) (*model.TeamMember, error)
	HasMember(teamId, userId string) (bool, error)
	ListTeamMembers(teamId string) ([]*model.TeamMember, error)
	RemoveMember(memberId string) error
}

type TeamMemberRepo struct {
	database.IDatabase
}

func NewTeamMemberRepo(db database.IDatabase) ITeamMemberRepository {
	return &TeamMemberRepo{IDatabase: db}
}

// AddTeamMember inserts a membership row.
func (r *TeamMemberRepo) AddTeamMember(member *model.TeamMember) error {
	return r.Database().Create(member).Error
}

// GetMemberById fetches a membership row.
func (r *TeamMemberRepo) GetMemberById(memberId string) (*model.TeamMember, error) {
	var m model.TeamMember
	err := r.Database().Where("member_id = ?", memberId).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// HasMember reports whether the user is already in the team.
func (r *TeamMemberRepo) HasMember(teamId, userId string) (bool, error) {
	var count int64
	err := r.Database().Model(&model.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamId, userId).
		Count(&count).Error
	return count > 0, err
}

// ListTeamMembers returns members of a team.
func (r *TeamMemberRepo) ListTeamMembers(teamId string) ([]*model.TeamMember, error) {
	var members []*model.TeamMember
	err := r.Database().
		Where("team_id = ?", teamId).
		Order("joined_at").
		Find(&members).Error
	return members, err
}

// RemoveMember deletes a membership row.
func (r *TeamMemberRepo) RemoveMember(memberId string) error {
	return r.Database().
		Where("member_id = ?", memberId).
		Delete(&model.TeamMember{}).Error
}
