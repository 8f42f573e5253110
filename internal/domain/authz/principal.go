package authz

import (
	"github.com/google/uuid"

	"github.com/pmo/backend/internal/domain/identity"
)

// Principal is the authenticated caller, built from verified JWT
// claims. It is passed explicitly into every decision; there is no
// ambient per-request principal state.
type Principal struct {
	ID   uuid.UUID
	Role identity.UserRole
}

// IsAdmin reports whether the principal carries the admin role
func (p Principal) IsAdmin() bool {
	return p.Role == identity.RoleAdmin
}
