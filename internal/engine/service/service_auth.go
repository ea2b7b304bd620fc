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
	"time"

	"github.com/observabil/steward/internal/engine/authz"
	"github.com/observabil/steward/internal/engine/model"
	"github.com/observabil/steward/internal/engine/repo"
	"github.com/observabil/steward/pkg/http"
	"github.com/observabil/steward/pkg/http/jwt"
	"github.com/observabil/steward/pkg/log"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

/**
 * @file: service_auth.go
 * @description: login, logout and session handling
 */

type AuthService struct {
	repos *repo.Repositories
	rdb   *redis.Client
	auth  http.Auth
}

func NewAuthService(repos *repo.Repositories, rdb *redis.Client, auth http.Auth) *AuthService {
	return &AuthService{repos: repos, rdb: rdb, auth: auth}
}

// Login verifies credentials and issues a token pair. The session is recorded
// in redis so a logout can invalidate tokens before their JWT expiry.
func (s *AuthService) Login(ctx context.Context, req *model.Login) (*model.LoginResp, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}

	userEntity, err := s.repos.User.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("email %s: %w", email, authz.ErrNotFound)
		}
		return nil, fmt.Errorf("find user failed: %w", err)
	}
	if userEntity.IsEnabled != 1 {
		return nil, fmt.Errorf("user %s is disabled: %w", userEntity.UserId, authz.ErrInactiveActor)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(userEntity.Password), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("password mismatch: %w", authz.ErrAuthorization)
	}

	aToken, rToken, err := jwt.GenToken(userEntity.UserId, userEntity.TenantId, userEntity.Role,
		[]byte(s.auth.SecretKey), s.auth.AccessExpire, s.auth.RefreshExpire)
	if err != nil {
		return nil, fmt.Errorf("issue token failed: %w", err)
	}

	sessionKey := s.auth.RedisKeyPrefix + userEntity.UserId
	sessionTTL := s.auth.RefreshExpire * time.Minute
	if err := s.rdb.Set(ctx, sessionKey, aToken, sessionTTL).Err(); err != nil {
		return nil, fmt.Errorf("store session failed: %w", err)
	}

	log.Infow("user logged in", "userId", userEntity.UserId, "tenantId", userEntity.TenantId)
	return &model.LoginResp{
		UserInfo: *model.ToUserInfo(userEntity),
		Token: map[string]string{
			"accessToken":  aToken,
			"refreshToken": rToken,
		},
	}, nil
}

// Logout drops the redis session, invalidating outstanding tokens.
func (s *AuthService) Logout(ctx context.Context, userId string) error {
	sessionKey := s.auth.RedisKeyPrefix + userId
	if err := s.rdb.Del(ctx, sessionKey).Err(); err != nil {
		return fmt.Errorf("drop session failed: %w", err)
	}
	log.Infow("user logged out", "userId", userId)
	return nil
}

// ActorFromClaims resolves the live actor for a request. The user row is
// re-read so role and status changes take effect on the next request, not at
// token refresh.
func (s *AuthService) ActorFromClaims(claims *jwt.AuthClaims) (authz.Actor, error) {
	userEntity, err := s.repos.User.GetUserById(claims.UserId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return authz.Actor{}, fmt.Errorf("user %s: %w", claims.UserId, authz.ErrNotFound)
		}
		return authz.Actor{}, fmt.Errorf("get user failed: %w", err)
	}
	return authz.Actor{
		TenantId: userEntity.TenantId,
		UserId:   userEntity.UserId,
		Role:     authz.Role(userEntity.Role),
		Active:   userEntity.IsEnabled == 1,
	}, nil
}
