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

import "errors"

// Error kinds surfaced by the engine. Every denial is one of these, wrapped
// with context via fmt.Errorf("...: %w", kind), so callers branch with
// errors.Is and never on message text. Kinds are never coalesced.
var (
	// ErrTenantIsolation actor and target belong to different tenants.
	// Checked before any role based check on every operation.
	ErrTenantIsolation = errors.New("tenant isolation violation")
	// ErrInactiveActor the acting account has been disabled.
	ErrInactiveActor = errors.New("actor account is disabled")
	// ErrAuthorization actor role is below the capability threshold.
	ErrAuthorization = errors.New("authorization denied")
	// ErrValidation structurally valid request violating a domain rule.
	ErrValidation = errors.New("validation failed")
	// ErrConflict uniqueness violation.
	ErrConflict = errors.New("conflict")
	// ErrExpired invitation or grant past its expiry.
	ErrExpired = errors.New("expired")
	// ErrInvalidToken unrecognized or already consumed invitation token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrNotFound referenced entity does not exist within the actor's tenant.
	ErrNotFound = errors.New("not found")
)

// Kind reduces err to the taxonomy sentinel it wraps, or nil.
func Kind(err error) error {
	for _, kind := range []error{
		ErrTenantIsolation,
		ErrInactiveActor,
		ErrAuthorization,
		ErrValidation,
		ErrConflict,
		ErrExpired,
		ErrInvalidToken,
		ErrNotFound,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
