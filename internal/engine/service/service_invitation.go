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
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/observabil/steward/internal/engine/authz"
	"github.com/observabil/steward/internal/engine/model"
	"github.com/observabil/steward/internal/engine/repo"
	"github.com/observabil/steward/pkg/id"
	"github.com/observabil/steward/pkg/log"
	"github.com/observabil/steward/pkg/retry"
	"github.com/observabil/steward/pkg/safe"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

/**
 * @file: service_invitation.go
 * @description: token-based user onboarding
 */

// DefaultInviteTTL is the validity window of an invitation when the config
// does not override it.
const DefaultInviteTTL = 7 * 24 * time.Hour

type InvitationService struct {
	repos    *repo.Repositories
	notifier InvitationNotifier
	ttl      time.Duration
}

func NewInvitationService(repos *repo.Repositories, notifier InvitationNotifier, ttl time.Duration) *InvitationService {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	if ttl <= 0 {
		ttl = DefaultInviteTTL
	}
	return &InvitationService{repos: repos, notifier: notifier, ttl: ttl}
}

// InviteUser issues a single-use invitation token for an email address that
// is not yet registered in the actor's tenant.
func (s *InvitationService) InviteUser(ctx context.Context, actor authz.Actor, req *model.InviteUserReq) (*model.InvitationResp, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	role, err := authz.ParseRole(req.ProposedRole)
	if err != nil {
		return nil, fmt.Errorf("role %q: %w", req.ProposedRole, authz.ErrValidation)
	}

	token, err := newInviteToken()
	if err != nil {
		return nil, err
	}

	var inv *model.Invitation
	err = s.repos.InTx(func(tx *repo.Repositories) error {
		actor, err := refreshActor(tx, actor)
		if err != nil {
			return err
		}
		if err := authz.Authorize(actor, actor.TenantId, authz.CapInviteUser,
			authz.RoleAssignable(actor, role)); err != nil {
			return err
		}

		registered, err := tx.User.CheckEmailExists(actor.TenantId, email)
		if err != nil {
			return fmt.Errorf("check email failed: %w", err)
		}
		if registered {
			return fmt.Errorf("email %s already registered in tenant: %w", email, authz.ErrConflict)
		}
		pending, err := tx.Invitation.HasPendingInvitation(actor.TenantId, email)
		if err != nil {
			return fmt.Errorf("check pending invitation failed: %w", err)
		}
		if pending {
			return fmt.Errorf("email %s already has a pending invitation: %w", email, authz.ErrConflict)
		}

		// ULIDs sort by issue time, which keeps pending listings ordered.
		inv = &model.Invitation{
			InvitationId: id.GetULID(),
			TenantId:     actor.TenantId,
			Email:        email,
			ProposedRole: string(role),
			InvitedBy:    actor.UserId,
			Token:        token,
			ExpiresAt:    time.Now().Add(s.ttl),
			Status:       model.InvitationStatusPending,
		}
		return tx.Invitation.CreateInvitation(inv)
	})
	if err != nil {
		return nil, err
	}

	// Delivery happens after commit and off the request path; a send that
	// fails every attempt leaves a pending invitation an admin can revoke.
	expiresAt := inv.ExpiresAt
	invitationId := inv.InvitationId
	safe.Go(func() {
		err := retry.Do(context.Background(), func(ctx context.Context) error {
			return s.notifier.SendInvitation(ctx, email, token, expiresAt)
		}, retry.WithMaxAttempts(3), retry.WithBackoff(retry.Exponential(time.Second)), retry.WithJitter(retry.FullJitter))
		if err != nil {
			log.Errorw("invitation delivery failed", "invitationId", invitationId, "err", err)
		}
	})

	log.Infow("invitation created", "invitationId", inv.InvitationId, "email", email, "actor", actor.UserId)
	return model.ToInvitationResp(inv), nil
}

// VerifyToken reports whether a token is currently redeemable. Unknown and
// consumed tokens are indistinguishable to the caller; expired pending
// invitations are marked expired on the way out.
func (s *InvitationService) VerifyToken(token string) (*model.InvitationResp, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("empty token: %w", authz.ErrInvalidToken)
	}

	inv, err := s.repos.Invitation.GetByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("token not redeemable: %w", authz.ErrInvalidToken)
		}
		return nil, fmt.Errorf("get invitation failed: %w", err)
	}
	if inv.Status != model.InvitationStatusPending {
		return nil, fmt.Errorf("token not redeemable: %w", authz.ErrInvalidToken)
	}
	if time.Now().After(inv.ExpiresAt) {
		if _, err := s.repos.Invitation.MarkExpired(inv.InvitationId); err != nil {
			log.Errorw("mark invitation expired failed", "invitationId", inv.InvitationId, "err", err)
		}
		return nil, fmt.Errorf("invitation expired at %s: %w", inv.ExpiresAt.Format(time.RFC3339), authz.ErrExpired)
	}
	return model.ToInvitationResp(inv), nil
}

// AcceptInvitation redeems a pending token and creates the user it proposed.
// The pending->accepted flip is a conditional update, so two concurrent
// accepts of the same token produce exactly one user.
func (s *InvitationService) AcceptInvitation(req *model.AcceptInvitationReq) (*model.UserInfo, error) {
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters: %w", authz.ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	var userEntity *model.User
	err = s.repos.InTx(func(tx *repo.Repositories) error {
		inv, err := tx.Invitation.GetByToken(req.Token)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("token not redeemable: %w", authz.ErrInvalidToken)
			}
			return fmt.Errorf("get invitation failed: %w", err)
		}
		if inv.Status != model.InvitationStatusPending {
			return fmt.Errorf("token not redeemable: %w", authz.ErrInvalidToken)
		}
		if time.Now().After(inv.ExpiresAt) {
			if _, err := tx.Invitation.MarkExpired(inv.InvitationId); err != nil {
				return fmt.Errorf("mark invitation expired failed: %w", err)
			}
			return fmt.Errorf("invitation expired at %s: %w", inv.ExpiresAt.Format(time.RFC3339), authz.ErrExpired)
		}

		n, err := tx.Invitation.MarkAccepted(inv.InvitationId)
		if err != nil {
			return fmt.Errorf("mark invitation accepted failed: %w", err)
		}
		if n == 0 {
			// Lost the race to another accept.
			return fmt.Errorf("token not redeemable: %w", authz.ErrInvalidToken)
		}

		registered, err := tx.User.CheckEmailExists(inv.TenantId, inv.Email)
		if err != nil {
			return fmt.Errorf("check email failed: %w", err)
		}
		if registered {
			return fmt.Errorf("email %s already registered in tenant: %w", inv.Email, authz.ErrConflict)
		}

		userEntity = &model.User{
			UserId:    id.GetUUID(),
			TenantId:  inv.TenantId,
			Email:     inv.Email,
			FullName:  strings.TrimSpace(req.FullName),
			Password:  string(hashed),
			Role:      inv.ProposedRole,
			IsEnabled: 1,
		}
		return tx.User.CreateUser(userEntity)
	})
	if err != nil {
		return nil, err
	}

	log.Infow("invitation accepted", "userId", userEntity.UserId, "tenantId", userEntity.TenantId)
	return model.ToUserInfo(userEntity), nil
}

// RevokeInvitation cancels a pending invitation. Revoking a non-pending
// invitation is a conflict, not an error of the token kind.
func (s *InvitationService) RevokeInvitation(actor authz.Actor, invitationId string) error {
	err := s.repos.InTx(func(tx *repo.Repositories) error {
		actor, err := refreshActor(tx, actor)
		if err != nil {
			return err
		}
		inv, err := tx.Invitation.GetById(invitationId)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("invitation %s: %w", invitationId, authz.ErrNotFound)
			}
			return fmt.Errorf("get invitation failed: %w", err)
		}
		if err := authz.Authorize(actor, inv.TenantId, authz.CapRevokeInvitation); err != nil {
			return err
		}

		n, err := tx.Invitation.MarkRevoked(inv.TenantId, invitationId)
		if err != nil {
			return fmt.Errorf("mark invitation revoked failed: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("invitation %s is not pending: %w", invitationId, authz.ErrConflict)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Infow("invitation revoked", "invitationId", invitationId, "actor", actor.UserId)
	return nil
}

// GetPendingInvitations lists the pending invitations of the actor's tenant.
func (s *InvitationService) GetPendingInvitations(actor authz.Actor) ([]*model.InvitationResp, error) {
	if err := authz.Authorize(actor, actor.TenantId, authz.CapInviteUser); err != nil {
		return nil, err
	}

	invs, err := s.repos.Invitation.ListPending(actor.TenantId)
	if err != nil {
		return nil, fmt.Errorf("list pending invitations failed: %w", err)
	}

	resps := make([]*model.InvitationResp, 0, len(invs))
	for _, inv := range invs {
		resps = append(resps, model.ToInvitationResp(inv))
	}
	return resps, nil
}

// newInviteToken draws a 256-bit token from the system CSPRNG.
func newInviteToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate invitation token failed: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
