package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pmo/backend/internal/domain/project"
)

// ProjectModel is the persistence model for the Project aggregate.
type ProjectModel struct {
	BaseModel
	Name        string           `gorm:"type:varchar(200);not null"`
	Description *string          `gorm:"type:text"`
	Status      string           `gorm:"type:varchar(20);not null;default:'planning'"`
	Priority    string           `gorm:"type:varchar(20);not null;default:'medium'"`
	StartDate   *time.Time       `gorm:"type:date"`
	EndDate     *time.Time       `gorm:"type:date"`
	Budget      *decimal.Decimal `gorm:"type:numeric(14,2)"`
	OwnerID     uuid.UUID        `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (ProjectModel) TableName() string {
	return "projects"
}

// ToDomain converts the persistence model to a domain Project entity.
func (m *ProjectModel) ToDomain() *project.Project {
	return &project.Project{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Description: m.Description,
		Status:      project.ProjectStatus(m.Status),
		Priority:    project.Priority(m.Priority),
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		Budget:      m.Budget,
		OwnerID:     m.OwnerID,
	}
}

// FromDomain populates the persistence model from a domain Project entity.
func (m *ProjectModel) FromDomain(p *project.Project) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.Description = p.Description
	m.Status = p.Status.String()
	m.Priority = p.Priority.String()
	m.StartDate = p.StartDate
	m.EndDate = p.EndDate
	m.Budget = p.Budget
	m.OwnerID = p.OwnerID
}

// ProjectModelFromDomain creates a new persistence model from a domain Project.
func ProjectModelFromDomain(p *project.Project) *ProjectModel {
	m := &ProjectModel{}
	m.FromDomain(p)
	return m
}

// ProjectMemberModel is the persistence model for project membership rows.
type ProjectMemberModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_project_members_project_user"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_project_members_project_user"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProjectMemberModel) TableName() string {
	return "project_members"
}

// ToDomain converts the persistence model to a domain ProjectMember.
func (m *ProjectMemberModel) ToDomain() *project.ProjectMember {
	return &project.ProjectMember{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
	}
}

// ProjectMemberModelFromDomain creates a new persistence model from a
// domain ProjectMember.
func ProjectMemberModelFromDomain(pm *project.ProjectMember) *ProjectMemberModel {
	return &ProjectMemberModel{
		ID:        pm.ID,
		ProjectID: pm.ProjectID,
		UserID:    pm.UserID,
		CreatedAt: pm.CreatedAt,
	}
}

// MilestoneModel is the persistence model for project milestones.
type MilestoneModel struct {
	BaseModel
	ProjectID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Name        string     `gorm:"type:varchar(200);not null"`
	Description *string    `gorm:"type:text"`
	DueDate     *time.Time `gorm:"type:date"`
	Completed   bool       `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (MilestoneModel) TableName() string {
	return "milestones"
}

// ToDomain converts the persistence model to a domain Milestone.
func (m *MilestoneModel) ToDomain() *project.Milestone {
	return &project.Milestone{
		BaseEntity:  m.BaseModel.ToDomain(),
		ProjectID:   m.ProjectID,
		Name:        m.Name,
		Description: m.Description,
		DueDate:     m.DueDate,
		Completed:   m.Completed,
	}
}

// FromDomain populates the persistence model from a domain Milestone.
func (m *MilestoneModel) FromDomain(ms *project.Milestone) {
	m.FromDomainBaseEntity(ms.BaseEntity)
	m.ProjectID = ms.ProjectID
	m.Name = ms.Name
	m.Description = ms.Description
	m.DueDate = ms.DueDate
	m.Completed = ms.Completed
}

// MilestoneModelFromDomain creates a new persistence model from a domain
// Milestone.
func MilestoneModelFromDomain(ms *project.Milestone) *MilestoneModel {
	m := &MilestoneModel{}
	m.FromDomain(ms)
	return m
}
