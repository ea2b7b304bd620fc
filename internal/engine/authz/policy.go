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

package authz

import "fmt"

// Capability names one guarded operation class.
type Capability string

const (
	CapInviteUser        Capability = "invite_user"
	CapRevokeInvitation  Capability = "revoke_invitation"
	CapAddUser           Capability = "add_user"
	CapUpdateUserRole    Capability = "update_user_role"
	CapSetUserStatus     Capability = "set_user_status"
	CapCreateTeam        Capability = "create_team"
	CapDeleteTeam        Capability = "delete_team"
	CapManageTeamMembers Capability = "manage_team_members"
	CapAssignTeamAdmin   Capability = "assign_team_admin"
	CapGrantPermission   Capability = "grant_permission"
	CapRevokePermission  Capability = "revoke_permission"
	CapReadGrants        Capability = "read_grants"
	CapReadTenant        Capability = "read_tenant"
)

// capabilityThreshold is the fixed decision table mapping each capability to
// the minimum actor role. Capabilities with alternate qualification paths
// (team admin, scoped manager) set the lower threshold here and carry the
// rest of the rule as a predicate.
var capabilityThreshold = map[Capability]Role{
	CapInviteUser:        RoleAdmin,
	CapRevokeInvitation:  RoleAdmin,
	CapAddUser:           RoleAdmin,
	CapUpdateUserRole:    RoleAdmin,
	CapSetUserStatus:     RoleAdmin,
	CapCreateTeam:        RoleAdmin,
	CapDeleteTeam:        RoleAdmin,
	CapManageTeamMembers: RoleManager,
	CapAssignTeamAdmin:   RoleAdmin,
	CapGrantPermission:   RoleManager,
	CapRevokePermission:  RoleManager,
	CapReadGrants:        RoleManager,
	CapReadTenant:        RoleEmployee,
}

// MinimumRole returns the threshold for a capability.
func MinimumRole(cap Capability) Role {
	if r, ok := capabilityThreshold[cap]; ok {
		return r
	}
	return RoleSuperAdmin
}

// Predicate is a capability specific check evaluated after the common gates.
// It must return a taxonomy-wrapped error on denial.
type Predicate func() error

// Authorize runs the fixed decision order: tenant match, actor active, role
// threshold, then capability predicates. It is pure and must be re-evaluated
// inside the same transaction as the mutation it guards.
func Authorize(actor Actor, targetTenantId string, cap Capability, preds ...Predicate) error {
	if !actor.SameTenant(targetTenantId) {
		return fmt.Errorf("actor tenant %q does not match target tenant %q: %w",
			actor.TenantId, targetTenantId, ErrTenantIsolation)
	}
	if !actor.Active {
		return fmt.Errorf("user %s: %w", actor.UserId, ErrInactiveActor)
	}
	if Rank(actor.Role) < Rank(MinimumRole(cap)) {
		return fmt.Errorf("capability %s requires at least role %s: %w",
			cap, MinimumRole(cap), ErrAuthorization)
	}
	for _, pred := range preds {
		if pred == nil {
			continue
		}
		if err := pred(); err != nil {
			return err
		}
	}
	return nil
}

// RoleAssignable is the predicate guarding role proposals: the proposed role
// must be valid, never superadmin, and strictly below the actor's own rank.
func RoleAssignable(actor Actor, target Role) Predicate {
	return func() error {
		if !target.Valid() {
			return fmt.Errorf("unknown role %q: %w", target, ErrValidation)
		}
		if target == RoleSuperAdmin {
			return fmt.Errorf("superadmin is not assignable: %w", ErrValidation)
		}
		if !CanAssign(actor.Role, target) {
			return fmt.Errorf("role %s cannot assign role %s: %w", actor.Role, target, ErrValidation)
		}
		return nil
	}
}

// AdminOrTeamAdmin qualifies the actor for membership changes: either an
// admin, or the current team admin of the team being modified.
func AdminOrTeamAdmin(actor Actor, teamAdminId string) Predicate {
	return func() error {
		if Rank(actor.Role) >= Rank(RoleAdmin) {
			return nil
		}
		if teamAdminId != "" && actor.UserId == teamAdminId {
			return nil
		}
		return fmt.Errorf("membership changes require admin or the team admin: %w", ErrAuthorization)
	}
}

// AdminOrScopedManager qualifies the actor for permission grants on a
// resource type: admins always qualify, managers only when the scope lookup
// includes the resource.
func AdminOrScopedManager(actor Actor, inScope bool) Predicate {
	return func() error {
		if Rank(actor.Role) >= Rank(RoleAdmin) {
			return nil
		}
		if actor.Role == RoleManager && inScope {
			return nil
		}
		return fmt.Errorf("no authority over the resource type: %w", ErrAuthorization)
	}
}
