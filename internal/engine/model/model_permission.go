package model

import (
	"encoding/json"
	"sort"
	"time"

	"gorm.io/datatypes"
)

/**
 * @file: model_permission.go
 * @description: resource scoped permission grant
 */

// ResourcePermission grants a user specific actions on one identified
// resource instance. A grant is effective iff active and not expired; expiry
// is evaluated at read time, never swept eagerly.
type ResourcePermission struct {
	BaseModel
	PermissionId string         `gorm:"column:permission_id;not null;uniqueIndex" json:"permissionId"`
	TenantId     string         `gorm:"column:tenant_id;not null;index" json:"tenantId"`
	UserId       string         `gorm:"column:user_id;not null;index" json:"userId"`
	ResourceType string         `gorm:"column:resource_type;not null;index:idx_user_resource" json:"resourceType"`
	ResourceId   string         `gorm:"column:resource_id;not null;index:idx_user_resource" json:"resourceId"`
	Actions      datatypes.JSON `gorm:"column:actions;type:json" json:"actions"`
	GrantedAt    time.Time      `gorm:"column:granted_at;autoCreateTime" json:"grantedAt"`
	ExpiresAt    *time.Time     `gorm:"column:expires_at" json:"expiresAt,omitempty"`
	IsActive     int            `gorm:"column:is_active;not null;default:1" json:"isActive"` // 0: revoked, 1: active
}

func (ResourcePermission) TableName() string {
	return "t_resource_permission"
}

// Effective reports whether the grant is active and not expired at now.
func (p *ResourcePermission) Effective(now time.Time) bool {
	if p.IsActive != 1 {
		return false
	}
	if p.ExpiresAt != nil && !p.ExpiresAt.After(now) {
		return false
	}
	return true
}

// ActionSet returns the decoded action set.
func (p *ResourcePermission) ActionSet() ([]string, error) {
	return DecodeActions(p.Actions)
}

// Well known actions. The set is open; unknown actions are stored as-is.
const (
	ActionView    = "view"
	ActionEdit    = "edit"
	ActionApprove = "approve"
	ActionComment = "comment"
	ActionDelete  = "delete"
)

// NormalizeActions deduplicates and sorts an action list.
func NormalizeActions(actions []string) []string {
	seen := make(map[string]struct{}, len(actions))
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// UnionActions merges two action lists. Union is associative and commutative
// so concurrent grant merges commute at the action-set level.
func UnionActions(a, b []string) []string {
	return NormalizeActions(append(append([]string{}, a...), b...))
}

// EncodeActions serializes an action list to the JSON column format.
func EncodeActions(actions []string) (datatypes.JSON, error) {
	data, err := json.Marshal(NormalizeActions(actions))
	if err != nil {
		return nil, err
	}
	return data, nil
}

// DecodeActions deserializes the JSON column format.
func DecodeActions(raw datatypes.JSON) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var actions []string
	if err := json.Unmarshal(raw, &actions); err != nil {
		return nil, err
	}
	return actions, nil
}

type GrantPermissionReq struct {
	UserId       string     `json:"userId"`
	ResourceType string     `json:"resourceType"`
	ResourceId   string     `json:"resourceId"`
	Actions      []string   `json:"actions"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
}

type PermissionResp struct {
	PermissionId string     `json:"permissionId"`
	UserId       string     `json:"userId"`
	ResourceType string     `json:"resourceType"`
	ResourceId   string     `json:"resourceId"`
	Actions      []string   `json:"actions"`
	GrantedAt    time.Time  `json:"grantedAt"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
}

func ToPermissionResp(p *ResourcePermission) (*PermissionResp, error) {
	actions, err := p.ActionSet()
	if err != nil {
		return nil, err
	}
	return &PermissionResp{
		PermissionId: p.PermissionId,
		UserId:       p.UserId,
		ResourceType: p.ResourceType,
		ResourceId:   p.ResourceId,
		Actions:      actions,
		GrantedAt:    p.GrantedAt,
		ExpiresAt:    p.ExpiresAt,
	}, nil
}
