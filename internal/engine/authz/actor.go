package authz

/**
 * @file: actor.go
 * @description: authenticated tenant context
 */

// Actor is the authenticated identity every operation receives explicitly.
// It is produced by the session boundary and re-read from the user row inside
// the mutating transaction, never cached across requests.
type Actor struct {
	TenantId string
	UserId   string
	Role     Role
	Active   bool
}

// SameTenant reports whether the actor and the target tenant match.
// Empty tenant ids never match anything.
func (a Actor) SameTenant(tenantId string) bool {
	return a.TenantId != "" && a.TenantId == tenantId
}
