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
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/observabil/steward/internal/engine/authz"
	"github.com/observabil/steward/internal/engine/model"
	"github.com/observabil/steward/internal/engine/repo"
	"github.com/observabil/steward/pkg/id"
	"github.com/observabil/steward/pkg/log"
	"gorm.io/gorm"
)

/**
 * @file: service_permission.go
 * @description: resource scoped permission grants
 */

type PermissionService struct {
	repos *repo.Repositories
	scope ResourceScope
}

func NewPermissionService(repos *repo.Repositories, scope ResourceScope) *PermissionService {
	if scope == nil {
		scope = &StaticResourceScope{}
	}
	return &PermissionService{repos: repos, scope: scope}
}

// Grant gives a user actions on one resource instance. A second grant for the
// same (user, resource) key merges by action-set union; the merged expiry is
// the wider of the two windows, so regranting never shrinks an existing grant.
func (s *PermissionService) Grant(ctx context.Context, actor authz.Actor, req *model.GrantPermissionReq) (*model.PermissionResp, error) {
	actions := model.NormalizeActions(req.Actions)
	if len(actions) == 0 {
		return nil, fmt.Errorf("action set cannot be empty: %w", authz.ErrValidation)
	}
	if strings.TrimSpace(req.ResourceType) == "" || strings.TrimSpace(req.ResourceId) == "" {
		return nil, fmt.Errorf("resource type and id are required: %w", authz.ErrValidation)
	}
	if req.ExpiresAt != nil && !req.ExpiresAt.After(time.Now()) {
		return nil, fmt.Errorf("expiry must be in the future: %w", authz.ErrValidation)
	}

	inScope, err := s.scope.ManagerScopeIncludes(ctx, actor.UserId, req.ResourceType, req.ResourceId)
	if err != nil {
		return nil, fmt.Errorf("resolve manager scope failed: %w", err)
	}

	var grant *model.ResourcePermission
	err = s.repos.InTx(func(tx *repo.Repositories) error {
		actor, err := refreshActor(tx, actor)
		if err != nil {
			return err
		}
		userEntity, err := loadUser(tx, req.UserId)
		if err != nil {
			return err
		}
		if err := authz.Authorize(actor, userEntity.TenantId, authz.CapGrantPermission,
			authz.AdminOrScopedManager(actor, inScope)); err != nil {
			return err
		}

		// The resource itself must live in the actor's tenant too.
		owner, err := s.scope.ResourceOwnerTenant(ctx, req.ResourceType, req.ResourceId)
		if err != nil {
			return fmt.Errorf("resolve resource owner failed: %w", err)
		}
		if owner != "" && owner != actor.TenantId {
			return fmt.Errorf("resource %s/%s belongs to another tenant: %w",
				req.ResourceType, req.ResourceId, authz.ErrTenantIsolation)
		}

		existing, err := tx.Permission.GetActiveGrantForUpdate(actor.TenantId, req.UserId, req.ResourceType, req.ResourceId)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("load existing grant failed: %w", err)
		}

		if existing != nil {
			current, err := existing.ActionSet()
			if err != nil {
				return fmt.Errorf("decode existing actions failed: %w", err)
			}
			merged, err := model.EncodeActions(model.UnionActions(current, actions))
			if err != nil {
				return fmt.Errorf("encode merged actions failed: %w", err)
			}
			expiry := mergeExpiry(existing.ExpiresAt, req.ExpiresAt)
			if err := tx.Permission.UpdateGrantActions(existing.PermissionId, merged, expiry); err != nil {
				return fmt.Errorf("merge grant failed: %w", err)
			}
			existing.Actions = merged
			existing.ExpiresAt = expiry
			grant = existing
			return nil
		}

		encoded, err := model.EncodeActions(actions)
		if err != nil {
			return fmt.Errorf("encode actions failed: %w", err)
		}
		grant = &model.ResourcePermission{
			PermissionId: id.GetUUID(),
			TenantId:     actor.TenantId,
			UserId:       req.UserId,
			ResourceType: req.ResourceType,
			ResourceId:   req.ResourceId,
			Actions:      encoded,
			GrantedAt:    time.Now(),
			ExpiresAt:    req.ExpiresAt,
			IsActive:     1,
		}
		return tx.Permission.CreateGrant(grant)
	})
	if err != nil {
		return nil, err
	}

	log.Infow("permission granted", "permissionId", grant.PermissionId,
		"userId", req.UserId, "resource", req.ResourceType+"/"+req.ResourceId, "actor", actor.UserId)
	return model.ToPermissionResp(grant)
}

// mergeExpiry keeps the later of two expiries; nil means unbounded and wins
// over any bound. Like the action-set union, the result is independent of
// grant order.
func mergeExpiry(a, b *time.Time) *time.Time {
	if a == nil || b == nil {
		return nil
	}
	if a.After(*b) {
		return a
	}
	return b
}

// Revoke deactivates a grant. Revoking an already revoked grant succeeds
// without effect.
func (s *PermissionService) Revoke(ctx context.Context, actor authz.Actor, permissionId string) error {
	err := s.repos.InTx(func(tx *repo.Repositories) error {
		actor, err := refreshActor(tx, actor)
		if err != nil {
			return err
		}
		grant, err := tx.Permission.GetById(permissionId)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("permission %s: %w", permissionId, authz.ErrNotFound)
			}
			return fmt.Errorf("get permission failed: %w", err)
		}

		inScope, err := s.scope.ManagerScopeIncludes(ctx, actor.UserId, grant.ResourceType, grant.ResourceId)
		if err != nil {
			return fmt.Errorf("resolve manager scope failed: %w", err)
		}
		if err := authz.Authorize(actor, grant.TenantId, authz.CapRevokePermission,
			authz.AdminOrScopedManager(actor, inScope)); err != nil {
			return err
		}

		return tx.Permission.Revoke(grant.TenantId, permissionId)
	})
	if err != nil {
		return err
	}

	log.Infow("permission revoked", "permissionId", permissionId, "actor", actor.UserId)
	return nil
}

// ListEffective returns the grants effective for a user right now. Users may
// read their own grants; reading another user's requires at least the manager
// role in the same tenant.
func (s *PermissionService) ListEffective(actor authz.Actor, userId string) ([]*model.PermissionResp, error) {
	userEntity, err := loadUser(s.repos, userId)
	if err != nil {
		return nil, err
	}

	if actor.UserId == userId {
		if err := authz.Authorize(actor, userEntity.TenantId, authz.CapReadTenant); err != nil {
			return nil, err
		}
	} else {
		if err := authz.Authorize(actor, userEntity.TenantId, authz.CapReadGrants); err != nil {
			return nil, err
		}
	}

	grants, err := s.repos.Permission.ListActiveByUser(userEntity.TenantId, userId)
	if err != nil {
		return nil, fmt.Errorf("list grants failed: %w", err)
	}

	now := time.Now()
	resps := make([]*model.PermissionResp, 0, len(grants))
	for _, g := range grants {
		if !g.Effective(now) {
			continue
		}
		resp, err := model.ToPermissionResp(g)
		if err != nil {
			return nil, fmt.Errorf("decode grant %s failed: %w", g.PermissionId, err)
		}
		resps = append(resps, resp)
	}
	return resps, nil
}
