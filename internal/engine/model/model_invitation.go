package model

import "time"

/**
 * @file: model_invitation.go
 * @description: invitation model
 */

// Invitation is a token-based onboarding proposal. Pending is the only
// non-terminal state; accept flips it exactly once.
type Invitation struct {
	BaseModel
	InvitationId string    `gorm:"column:invitation_id;not null;uniqueIndex" json:"invitationId"`
	TenantId     string    `gorm:"column:tenant_id;not null;index" json:"tenantId"`
	Email        string    `gorm:"column:email;not null;index" json:"email"`
	ProposedRole string    `gorm:"column:proposed_role;not null" json:"proposedRole"`
	InvitedBy    string    `gorm:"column:invited_by;not null" json:"invitedBy"`
	Token        string    `gorm:"column:token;not null;uniqueIndex" json:"-"`
	ExpiresAt    time.Time `gorm:"column:expires_at;not null" json:"expiresAt"`
	Status       int       `gorm:"column:status;not null;default:0" json:"status"`
}

func (Invitation) TableName() string {
	return "t_invitation"
}

// Invitation status
const (
	InvitationStatusPending  = 0
	InvitationStatusAccepted = 1
	InvitationStatusRevoked  = 2
	InvitationStatusExpired  = 3
)

type InviteUserReq struct {
	Email        string `json:"email"`
	ProposedRole string `json:"proposedRole"`
}

type AcceptInvitationReq struct {
	Token    string `json:"token"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

type InvitationResp struct {
	InvitationId string    `json:"invitationId"`
	TenantId     string    `json:"tenantId"`
	Email        string    `json:"email"`
	ProposedRole string    `json:"proposedRole"`
	InvitedBy    string    `json:"invitedBy"`
	ExpiresAt    time.Time `json:"expiresAt"`
	Status       int       `json:"status"`
}

func ToInvitationResp(inv *Invitation) *InvitationResp {
	return &InvitationResp{
		InvitationId: inv.InvitationId,
		TenantId:     inv.TenantId,
		Email:        inv.Email,
		ProposedRole: inv.ProposedRole,
		InvitedBy:    inv.InvitedBy,
		ExpiresAt:    inv.ExpiresAt,
		Status:       inv.Status,
	}
}
