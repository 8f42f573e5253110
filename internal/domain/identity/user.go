package identity

import (
	"strings"

	"github.com/pmo/backend/internal/domain/shared"
	"github.com/pmo/backend/internal/domain/shared/valueobject"
)

// UserRole represents the system-wide role of a user
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleMember  UserRole = "member"
)

// ParseUserRole parses a role string. An empty string yields the default
// member role.
func ParseUserRole(s string) (UserRole, error) {
	switch UserRole(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleManager:
		return RoleManager, nil
	case RoleMember:
		return RoleMember, nil
	case "":
		return RoleMember, nil
	}
	return "", shared.NewDomainError("VALIDATION_ERROR", "Invalid user role")
}

// IsValid reports whether the role is one of the known values
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleMember:
		return true
	}
	return false
}

// String returns the lowercase wire representation
func (r UserRole) String() string {
	return string(r)
}

// User represents an account in the system.
// The password hash stays internal and is never serialized.
type User struct {
	shared.BaseEntity
	Email        valueobject.Email
	PasswordHash string
	Name         string
	Role         UserRole
	AvatarURL    *string
}

// NewUser creates a new user with a pre-hashed password
func NewUser(email valueobject.Email, passwordHash, name string, role UserRole) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Name cannot be empty")
	}
	if role == "" {
		role = RoleMember
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid user role")
	}

	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         role,
	}, nil
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
