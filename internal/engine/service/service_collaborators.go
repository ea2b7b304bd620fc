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
	"time"

	"github.com/observabil/steward/pkg/log"
)

// InvitationNotifier delivers invitation tokens out-of-band. The engine only
// generates the token and expiry.
type InvitationNotifier interface {
	SendInvitation(ctx context.Context, email, token string, expiresAt time.Time) error
}

// LogNotifier is the default notifier; deployments plug a mail gateway in.
type LogNotifier struct{}

func (LogNotifier) SendInvitation(ctx context.Context, email, token string, expiresAt time.Time) error {
	log.Infow("invitation issued", "email", email, "expiresAt", expiresAt)
	return nil
}

// ResourceScope is supplied by the business-entity layer owning the actual
// resources (projects and the like). It answers which tenant owns a resource
// and whether a manager's span of control covers it.
type ResourceScope interface {
	ResourceOwnerTenant(ctx context.Context, resourceType, resourceId string) (string, error)
	ManagerScopeIncludes(ctx context.Context, managerId, resourceType, resourceId string) (bool, error)
}

// StaticResourceScope is a table-backed ResourceScope for deployments where
// the business layer is not wired yet, and for tests. Owners maps
// "resourceType/resourceId" to a tenant id; ManagerTypes maps a manager's
// user id to the resource types they control.
type StaticResourceScope struct {
	Owners       map[string]string
	ManagerTypes map[string][]string
}

func (s *StaticResourceScope) ResourceOwnerTenant(ctx context.Context, resourceType, resourceId string) (string, error) {
	if s == nil || s.Owners == nil {
		return "", nil
	}
	return s.Owners[resourceType+"/"+resourceId], nil
}

func (s *StaticResourceScope) ManagerScopeIncludes(ctx context.Context, managerId, resourceType, resourceId string) (bool, error) {
	if s == nil || s.ManagerTypes == nil {
		return false, nil
	}
	for _, t := range s.ManagerTypes[managerId] {
		if t == resourceType {
			return true, nil
		}
	}
	return false, nil
}
