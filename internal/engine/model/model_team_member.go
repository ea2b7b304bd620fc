package model

import "time"

// Team member roles. A team role is a per-team label and grants no global
// privilege on its own.
const (
	TeamRoleMember = "member"
	TeamRoleLead   = "lead"
)

// TeamMember links a user to a team, unique on (team, user).
type TeamMember struct {
	BaseModel
	MemberId string    `gorm:"column:member_id;not null;uniqueIndex" json:"memberId"`
	TeamId   string    `gorm:"column:team_id;not null;index:idx_team_user,unique" json:"teamId"`
	UserId   string    `gorm:"column:user_id;not null;index:idx_team_user,unique;index:idx_user" json:"userId"`
	TeamRole string    `gorm:"column:team_role;not null;default:member" json:"teamRole"`
	JoinedAt time.Time `gorm:"column:joined_at;autoCreateTime" json:"joinedAt"`
}

func (TeamMember) TableName() string {
	return "t_team_member"
}

// ValidTeamRole reports whether s is a defined team role.
func ValidTeamRole(s string) bool {
	return s == TeamRoleMember || s == TeamRoleLead
}

type AddTeamMemberReq struct {
	UserId   string `json:"userId"`
	TeamRole string `json:"teamRole"`
}

type TeamMemberResp struct {
	MemberId string    `json:"memberId"`
	TeamId   string    `json:"teamId"`
	UserId   string    `json:"userId"`
	TeamRole string    `json:"teamRole"`
	JoinedAt time.Time `json:"joinedAt"`
}

func ToTeamMemberResp(m *TeamMember) *TeamMemberResp {
	return &TeamMemberResp{
		MemberId: m.MemberId,
		TeamId:   m.TeamId,
		UserId:   m.UserId,
		TeamRole: m.TeamRole,
		JoinedAt: m.JoinedAt,
	}
}
