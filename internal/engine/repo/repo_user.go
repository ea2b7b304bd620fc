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

type IUserRepository interface {
	CreateUser(u *model.User) error
	// GetUserById is deliberately not tenant-scoped: the policy engine
	// compares the row's tenant against the actor so cross-tenant targets
	// surface as isolation violations, not misses.
	GetUserById(userId string) (*model.User, error)
	GetUserByEmail(tenantId, email string) (*model.User, error)
	// FindByEmail looks up a user across tenants; login path only.
	FindByEmail(email string) (*model.User, error)
	ListUsers(tenantId string) ([]*model.User, error)
	CheckEmailExists(tenantId, email string) (bool, error)
	UpdateUserRole(tenantId, userId, role string) (int64, error)
	SetUserEnabled(tenantId, userId string, enabled int) (int64, error)
	UpdateUserPassword(tenantId, userId, hashed string) error
}

type UserRepo struct {
	database.IDatabase
}

func NewUserRepo(db database.IDatabase) IUserRepository {
	return &UserRepo{IDatabase: db}
}

// CreateUser inserts a user row.
func (r *UserRepo) CreateUser(u *model.User) error {
	return r.Database().Create(u).Error
}

// GetUserById fetches a user by id.
func (r *UserRepo) GetUserById(userId string) (*model.User, error) {
	var u model.User
	err := r.Database().
		Where("user_id = ?", userId).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail fetches a user by email within a tenant.
func (r *UserRepo) GetUserByEmail(tenantId, email string) (*model.User, error) {
	var u model.User
	err := r.Database().
		Where("tenant_id = ? AND email = ?", tenantId, email).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByEmail fetches a user by email regardless of tenant.
func (r *UserRepo) FindByEmail(email string) (*model.User, error) {
	var u model.User
	err := r.Database().Where("email = ?", email).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns all users of a tenant.
func (r *UserRepo) ListUsers(tenantId string) ([]*model.User, error) {
	var users []*model.User
	err := r.Database().
		Where("tenant_id = ?", tenantId).
		Order("user_id").
		Find(&users).Error
	return users, err
}

// CheckEmailExists reports whether the email is taken within the tenant.
func (r *UserRepo) CheckEmailExists(tenantId, email string) (bool, error) {
	var count int64
	err := r.Database().Model(&model.User{}).
		Where("tenant_id = ? AND email = ?", tenantId, email).
		Count(&count).Error
	return count > 0, err
}

// UpdateUserRole sets the global role; returns the affected row count so the
// caller can detect a concurrent delete.
func (r *UserRepo) UpdateUserRole(tenantId, userId, role string) (int64, error) {
	res := r.Database().Model(&model.User{}).
		Where("tenant_id = ? AND user_id = ?", tenantId, userId).
		Update("role", role)
	return res.RowsAffected, res.Error
}

// SetUserEnabled soft-enables or soft-disables a user.
func (r *UserRepo) SetUserEnabled(tenantId, userId string, enabled int) (int64, error) {
	res := r.Database().Model(&model.User{}).
		Where("tenant_id = ? AND user_id = ?", tenantId, userId).
		Update("is_enabled", enabled)
	return res.RowsAffected, res.Error
}

// UpdateUserPassword replaces the stored credential hash.
func (r *UserRepo) UpdateUserPassword(tenantId, userId, hashed string) error {
	return r.Database().Model(&model.User{}).
		Where("tenant_id = ? AND user_id = ?", tenantId, userId).
		Update("password", hashed).Error
}
