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
	"time"

	"github.com/observabil/steward/internal/engine/model"
	"github.com/observabil/steward/pkg/database"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

type IPermissionRepository interface {
	CreateGrant(p *model.ResourcePermission) error
	// GetById is not tenant-scoped; the policy engine compares the row's
	// tenant against the actor.
	GetById(permissionId string) (*model.ResourcePermission, error)
	// GetActiveGrantForUpdate locks the active grant row for the merge,
	// serializing concurrent grants on the same (user, type, id).
	GetActiveGrantForUpdate(tenantId, userId, resourceType, resourceId string) (*model.ResourcePermission, error)
	UpdateGrantActions(permissionId string, actions datatypes.JSON, expiresAt *time.Time) error
	Revoke(tenantId, permissionId string) error
	ListActiveByUser(tenantId, userId string) ([]*model.ResourcePermission, error)
}

type PermissionRepo struct {
	database.IDatabase
}

func NewPermissionRepo(db database.IDatabase) IPermissionRepository {
	return &PermissionRepo{IDatabase: db}
}

// CreateGrant inserts a grant row.
func (r *PermissionRepo) CreateGrant(p *model.ResourcePermission) error {
	return r.Database().Create(p).Error
}

// GetById fetches a grant by id.
func (r *PermissionRepo) GetById(permissionId string) (*model.ResourcePermission, error) {
	var p model.ResourcePermission
	err := r.Database().
		Where("permission_id = ?", permissionId).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetActiveGrantForUpdate fetches the active grant for the key with a row
// lock. Must run inside a transaction.
func (r *PermissionRepo) GetActiveGrantForUpdate(tenantId, userId, resourceType, resourceId string) (*model.ResourcePermission, error) {
	var p model.ResourcePermission
	err := r.Database().
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND user_id = ? AND resource_type = ? AND resource_id = ? AND is_active = ?",
			tenantId, userId, resourceType, resourceId, 1).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateGrantActions replaces the action set and expiry of a grant.
func (r *PermissionRepo) UpdateGrantActions(permissionId string, actions datatypes.JSON, expiresAt *time.Time) error {
	return r.Database().Model(&model.ResourcePermission{}).
		Where("permission_id = ?", permissionId).
		Updates(map[string]interface{}{
			"actions":    actions,
			"expires_at": expiresAt,
		}).Error
}

// Revoke deactivates a grant. Revoking an already revoked grant is a no-op.
func (r *PermissionRepo) Revoke(tenantId, permissionId string) error {
	return r.Database().Model(&model.ResourcePermission{}).
		Where("tenant_id = ? AND permission_id = ?", tenantId, permissionId).
		Update("is_active", 0).Error
}

// ListActiveByUser returns active grants; expiry is filtered at read time by
// the service so no sweeper is needed.
func (r *PermissionRepo) ListActiveByUser(tenantId, userId string) ([]*model.ResourcePermission, error) {
	var perms []*model.ResourcePermission
	err := r.Database().
		Where("tenant_id = ? AND user_id = ? AND is_active = ?", tenantId, userId, 1).
		Order("granted_at DESC").
		Find(&perms).Error
	return perms, err
}
