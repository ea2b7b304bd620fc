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

type IInvitationRepository interface {
	CreateInvitation(inv *model.Invitation) error
	GetByToken(token string) (*model.Invitation, error)
	// GetById is not tenant-scoped; the policy engine compares the row's
	// tenant against the actor.
	GetById(invitationId string) (*model.Invitation, error)
	HasPendingInvitation(tenantId, email string) (bool, error)
	ListPending(tenantId string) ([]*model.Invitation, error)
	// MarkAccepted flips pending to accepted; the affected row count is the
	// single-use guarantee under concurrent accepts.
	MarkAccepted(invitationId string) (int64, error)
	MarkExpired(invitationId string) (int64, error)
	MarkRevoked(tenantId, invitationId string) (int64, error)
}

type InvitationRepo struct {
	database.IDatabase
}

func NewInvitationRepo(db database.IDatabase) IInvitationRepository {
	return &InvitationRepo{IDatabase: db}
}

// CreateInvitation inserts an invitation row.
func (r *InvitationRepo) CreateInvitation(inv *model.Invitation) error {
	return r.Database().Create(inv).Error
}

// GetByToken fetches an invitation by its opaque token.
func (r *InvitationRepo) GetByToken(token string) (*model.Invitation, error) {
	var inv model.Invitation
	err := r.Database().Where("token = ?", token).First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetById fetches an invitation by id.
func (r *InvitationRepo) GetById(invitationId string) (*model.Invitation, error) {
	var inv model.Invitation
	err := r.Database().
		Where("invitation_id = ?", invitationId).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// HasPendingInvitation reports whether a pending invitation exists for the
// email within the tenant.
func (r *InvitationRepo) HasPendingInvitation(tenantId, email string) (bool, error) {
	var count int64
	err := r.Database().Model(&model.Invitation{}).
		Where("tenant_id = ? AND email = ? AND status = ?",
			tenantId, email, model.InvitationStatusPending).
		Count(&count).Error
	return count > 0, err
}

// ListPending returns pending invitations of a tenant.
func (r *InvitationRepo) ListPending(tenantId string) ([]*model.Invitation, error) {
	var invs []*model.Invitation
	err := r.Database().
		Where("tenant_id = ? AND status = ?", tenantId, model.InvitationStatusPending).
		Order("created_at DESC").
		Find(&invs).Error
	return invs, err
}

// MarkAccepted conditionally transitions pending to accepted. Zero rows means
// another accept (or a revoke) won the race.
func (r *InvitationRepo) MarkAccepted(invitationId string) (int64, error) {
	res := r.Database().Model(&model.Invitation{}).
		Where("invitation_id = ? AND status = ?", invitationId, model.InvitationStatusPending).
		Update("status", model.InvitationStatusAccepted)
	return res.RowsAffected, res.Error
}

// MarkExpired records the lazy pending-to-expired transition.
func (r *InvitationRepo) MarkExpired(invitationId string) (int64, error) {
	res := r.Database().Model(&model.Invitation{}).
		Where("invitation_id = ? AND status = ?", invitationId, model.InvitationStatusPending).
		Update("status", model.InvitationStatusExpired)
	return res.RowsAffected, res.Error
}

// MarkRevoked transitions pending to revoked.
func (r *InvitationRepo) MarkRevoked(tenantId, invitationId string) (int64, error) {
	res := r.Database().Model(&model.Invitation{}).
		Where("tenant_id = ? AND invitation_id = ? AND status = ?",
			tenantId, invitationId, model.InvitationStatusPending).
		Update("status", model.InvitationStatusRevoked)
	return res.RowsAffected, res.Error
}
