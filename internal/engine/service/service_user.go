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
	"net/mail"
	"strings"

	"github.com/observabil/steward/internal/engine/authz"
	"github.com/observabil/steward/internal/engine/model"
	"github.com/observabil/steward/internal/engine/repo"
	"github.com/observabil/steward/pkg/id"
	"github.com/observabil/steward/pkg/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

/**
 * @file: service_user.go
 * @description: tenant user management
 */

type UserService struct {
	repos *repo.Repositories
}

func NewUserService(repos *repo.Repositories) *UserService {
	return &UserService{repos: repos}
}

// AddUser creates a user directly, bypassing the invitation flow. The role
// assignment rules are the same as for invitations.
func (s *UserService) AddUser(actor authz.Actor, req *model.AddUserReq) (*model.UserInfo, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	role, err := authz.ParseRole(req.Role)
	if err != nil {
		return nil, fmt.Errorf("role %q: %w", req.Role, authz.ErrValidation)
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters: %w", authz.ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	var userEntity *model.User
	err = s.repos.InTx(func(tx *repo.Repositories) error {
		actor, err := refreshActor(tx, actor)
		if err != nil {
			return err
		}
		if err := authz.Authorize(actor, actor.TenantId, authz.CapAddUser,
			authz.RoleAssignable(actor, role)); err != nil {
			return err
		}

		exists, err := tx.User.CheckEmailExists(actor.TenantId, email)
		if err != nil {
			return fmt.Errorf("check email failed: %w", err)
		}
		if exists {
			return fmt.Errorf("email %s already registered in tenant: %w", email, authz.ErrConflict)
		}

		userEntity = &model.User{
			UserId:    id.GetUUID(),
			TenantId:  actor.TenantId,
			Email:     email,
			FullName:  strings.TrimSpace(req.FullName),
			Password:  string(hashed),
			Role:      string(role),
			IsEnabled: 1,
		}
		return tx.User.CreateUser(userEntity)
	})
	if err != nil {
		return nil, err
	}

	log.Infow("user added", "userId", userEntity.UserId, "role", role, "actor", actor.UserId)
	return model.ToUserInfo(userEntity), nil
}

// UpdateUserRole changes a user's global role. The actor must outrank both the
// target's current role and the proposed role.
func (s *UserService) UpdateUserRole(actor authz.Actor, userId string, req *model.UpdateUserRoleReq) error {
	role, err := authz.ParseRole(req.Role)
	if err != nil {
		return fmt.Errorf("role %q: %w", req.Role, authz.ErrValidation)
	}

	err = s.repos.InTx(func(tx *repo.Repositories) error {
		actor, err := refreshActor(tx, actor)
		if err != nil {
			return err
		}
		userEntity, err := loadUser(tx, userId)
		if err != nil {
			return err
		}
		if err := authz.Authorize(actor, userEntity.TenantId, authz.CapUpdateUserRole,
			authz.RoleAssignable(actor, role)); err != nil {
			return err
		}
		// Demoting or touching a peer is also an escalation: the current
		// role must be below the actor's too.
		if !authz.CanAssign(actor.Role, authz.Role(userEntity.Role)) {
			return fmt.Errorf("cannot change role of a peer or superior: %w", authz.ErrAuthorization)
		}

		n, err := tx.User.UpdateUserRole(userEntity.TenantId, userId, string(role))
		if err != nil {
			return fmt.Errorf("update role failed: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("user %s: %w", userId, authz.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Infow("user role updated", "userId", userId, "role", role, "actor", actor.UserId)
	return nil
}

// EnableUser reactivates a disabled user.
func (s *UserService) EnableUser(actor authz.Actor, userId string) error {
	return s.setUserEnabled(actor, userId, 1)
}

// DisableUser deactivates a user. Disabled users fail every authorization
// check until re-enabled. Actors cannot disable themselves.
func (s *UserService) DisableUser(actor authz.Actor, userId string) error {
	if actor.UserId == userId {
		return fmt.Errorf("cannot disable own account: %w", authz.ErrValidation)
	}
	return s.setUserEnabled(actor, userId, 0)
}

func (s *UserService) setUserEnabled(actor authz.Actor, userId string, enabled int) error {
	err := s.repos.InTx(func(tx *repo.Repositories) error {
		actor, err := refreshActor(tx, actor)
		if err != nil {
			return err
		}
		userEntity, err := loadUser(tx, userId)
		if err != nil {
			return err
		}
		if err := authz.Authorize(actor, userEntity.TenantId, authz.CapSetUserStatus); err != nil {
			return err
		}
		if !authz.CanAssign(actor.Role, authz.Role(userEntity.Role)) {
			return fmt.Errorf("cannot change status of a peer or superior: %w", authz.ErrAuthorization)
		}

		n, err := tx.User.SetUserEnabled(userEntity.TenantId, userId, enabled)
		if err != nil {
			return fmt.Errorf("set user status failed: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("user %s: %w", userId, authz.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Infow("user status changed", "userId", userId, "enabled", enabled, "actor", actor.UserId)
	return nil
}

// GetTenantUsers lists the users of the actor's tenant.
func (s *UserService) GetTenantUsers(actor authz.Actor) ([]*model.UserInfo, error) {
	if err := authz.Authorize(actor, actor.TenantId, authz.CapReadTenant); err != nil {
		return nil, err
	}

	users, err := s.repos.User.ListUsers(actor.TenantId)
	if err != nil {
		return nil, fmt.Errorf("list users failed: %w", err)
	}

	infos := make([]*model.UserInfo, 0, len(users))
	for _, u := range users {
		infos = append(infos, model.ToUserInfo(u))
	}
	return infos, nil
}

func loadUser(tx *repo.Repositories, userId string) (*model.User, error) {
	userEntity, err := tx.User.GetUserById(userId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", userId, authz.ErrNotFound)
		}
		return nil, fmt.Errorf("get user failed: %w", err)
	}
	return userEntity, nil
}

// refreshActor re-reads the actor's own user row so a demotion or disable
// landing before the transaction is honored by the checks inside it. The
// caller's snapshot is only trusted for the user id.
func refreshActor(tx *repo.Repositories, actor authz.Actor) (authz.Actor, error) {
	userEntity, err := loadUser(tx, actor.UserId)
	if err != nil {
		return authz.Actor{}, err
	}
	return authz.Actor{
		TenantId: userEntity.TenantId,
		UserId:   userEntity.UserId,
		Role:     authz.Role(userEntity.Role),
		Active:   userEntity.IsEnabled == 1,
	}, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("email %q is malformed: %w", email, authz.ErrValidation)
	}
	return email, nil
}
