package model

/**
 * @file: model_team.go
 * @description: team model
 */

// Team groups users within one tenant. TeamAdminId is a weak reference to a
// user holding the manager role in the same tenant, or empty.
type Team struct {
	BaseModel
	TeamId      string `gorm:"column:team_id;not null;uniqueIndex" json:"teamId"`
	TenantId    string `gorm:"column:tenant_id;not null;index" json:"tenantId"`
	Name        string `gorm:"column:name;not null;index:idx_tenant_name,unique,composite:tenant_name" json:"name"`
	Description string `gorm:"column:description" json:"description"`
	TeamAdminId string `gorm:"column:team_admin_id" json:"teamAdminId"`
	IsEnabled   int    `gorm:"column:is_enabled;not null;default:1" json:"isEnabled"` // 0: disabled, 1: enabled
}

func (Team) TableName() string {
	return "t_team"
}

type CreateTeamReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type TeamResp struct {
	TeamId      string `json:"teamId"`
	TenantId    string `json:"tenantId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TeamAdminId string `json:"teamAdminId,omitempty"`
}

func ToTeamResp(t *Team) *TeamResp {
	return &TeamResp{
		TeamId:      t.TeamId,
		TenantId:    t.TenantId,
		Name:        t.Name,
		Description: t.Description,
		TeamAdminId: t.TeamAdminId,
	}
}
