package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pmo/backend/internal/domain/team"
)

// TeamModel is the persistence model for the Team domain entity.
type TeamModel struct {
	BaseModel
	Name        string     `gorm:"type:varchar(200);not null"`
	Description *string    `gorm:"type:text"`
	LeadID      *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (TeamModel) TableName() string {
	return "teams"
}

// ToDomain converts the persistence model to a domain Team entity.
func (m *TeamModel) ToDomain() *team.Team {
	return &team.Team{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Description: m.Description,
		LeadID:      m.LeadID,
	}
}

// FromDomain populates the persistence model from a domain Team entity.
func (m *TeamModel) FromDomain(t *team.Team) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.Name = t.Name
	m.Description = t.Description
	m.LeadID = t.LeadID
}

// TeamModelFromDomain creates a new persistence model from a domain Team.
func TeamModelFromDomain(t *team.Team) *TeamModel {
	m := &TeamModel{}
	m.FromDomain(t)
	return m
}

// TeamMemberModel is the persistence model for team membership rows.
type TeamMemberModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	TeamID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_team_members_team_user"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_team_members_team_user"`
	Role     string    `gorm:"type:varchar(20);not null;default:'member'"`
	JoinedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TeamMemberModel) TableName() string {
	return "team_members"
}

// ToDomain converts the persistence model to a domain TeamMember.
func (m *TeamMemberModel) ToDomain() *team.TeamMember {
	return &team.TeamMember{
		ID:       m.ID,
		TeamID:   m.TeamID,
		UserID:   m.UserID,
		Role:     team.TeamMemberRole(m.Role),
		JoinedAt: m.JoinedAt,
	}
}

// TeamMemberModelFromDomain creates a new persistence model from a
// domain TeamMember.
func TeamMemberModelFromDomain(tm *team.TeamMember) *TeamMemberModel {
	return &TeamMemberModel{
		ID:       tm.ID,
		TeamID:   tm.TeamID,
		UserID:   tm.UserID,
		Role:     tm.Role.String(),
		JoinedAt: tm.JoinedAt,
	}
}
