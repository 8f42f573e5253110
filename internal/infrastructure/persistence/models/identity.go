package models

import (
	"github.com/pmo/backend/internal/domain/identity"
	"github.com/pmo/backend/internal/domain/shared/valueobject"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	BaseModel
	Email        string  `gorm:"type:varchar(320);not null;uniqueIndex"`
	PasswordHash string  `gorm:"type:varchar(255);not null"`
	Name         string  `gorm:"type:varchar(200);not null"`
	Role         string  `gorm:"type:varchar(20);not null;default:'member'"`
	AvatarURL    *string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
// The stored email is already normalized, so it is adopted as-is.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:   m.BaseModel.ToDomain(),
		Email:        valueobject.EmailFromStored(m.Email),
		PasswordHash: m.PasswordHash,
		Name:         m.Name,
		Role:         identity.UserRole(m.Role),
		AvatarURL:    m.AvatarURL,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Email = u.Email.String()
	m.PasswordHash = u.PasswordHash
	m.Name = u.Name
	m.Role = u.Role.String()
	m.AvatarURL = u.AvatarURL
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
