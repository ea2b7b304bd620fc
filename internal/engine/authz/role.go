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

// Role is the global role of a user, totally ordered by privilege.
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleEmployee   Role = "employee"
)

// rank table. Higher means more privilege.
var roleRank = map[Role]int{
	RoleSuperAdmin: 3,
	RoleAdmin:      2,
	RoleManager:    1,
	RoleEmployee:   0,
}

// Rank returns the privilege rank of a role (superadmin=3 ... employee=0).
// An unknown role ranks below employee so it never passes a threshold.
func Rank(r Role) int {
	if rank, ok := roleRank[r]; ok {
		return rank
	}
	return -1
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// ParseRole converts a string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q: %w", s, ErrValidation)
	}
	return r, nil
}

// CanAssign reports whether actorRole may assign targetRole. A role can only
// be handed out by someone strictly above it in the hierarchy, which forbids
// any actor from ever producing a peer or a superadmin. Superadmins are
// seeded out-of-band, never assigned through the engine.
func CanAssign(actorRole, targetRole Role) bool {
	if !actorRole.Valid() || !targetRole.Valid() {
		return false
	}
	return Rank(actorRole) > Rank(targetRole)
}
