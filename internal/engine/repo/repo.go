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
	"github.com/observabil/steward/pkg/database"
	"gorm.io/gorm"
)

// Repositories aggregates all repositories over one database handle.
type Repositories struct {
	db database.IDatabase

	User       IUserRepository
	Team       ITeamRepository
	TeamMember ITeamMemberRepository
	Invitation IInvitationRepository
	Permission IPermissionRepository
}

// NewRepositories wires all repositories to db.
func NewRepositories(db database.IDatabase) *Repositories {
	return &Repositories{
		db:         db,
		User:       NewUserRepo(db),
		Team:       NewTeamRepo(db),
		TeamMember: NewTeamMemberRepo(db),
		Invitation: NewInvitationRepo(db),
		Permission: NewPermissionRepo(db),
	}
}

// InTx runs fn against transaction-scoped repositories. Authorization checks
// re-read their inputs through these repositories so check-then-act sequences
// stay atomic. Repositories assembled without a database (tests) run fn
// directly against themselves.
func (r *Repositories) InTx(fn func(tx *Repositories) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.Database().Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(database.NewGormDB(tx)))
	})
}
