package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pmo/backend/internal/domain/project"
	"github.com/pmo/backend/internal/domain/task"
)

// TaskModel is the persistence model for the Task domain entity.
type TaskModel struct {
	BaseModel
	ProjectID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	MilestoneID    *uuid.UUID `gorm:"type:uuid;index"`
	Title          string     `gorm:"type:varchar(200);not null"`
	Description    *string    `gorm:"type:text"`
	Status         string     `gorm:"type:varchar(20);not null;default:'todo'"`
	Priority       string     `gorm:"type:varchar(20);not null;default:'medium'"`
	AssigneeID     *uuid.UUID `gorm:"type:uuid;index"`
	DueDate        *time.Time
	EstimatedHours *float32 `gorm:"type:real"`
	ActualHours    *float32 `gorm:"type:real"`
}

// TableName returns the table name for GORM
func (TaskModel) TableName() string {
	return "tasks"
}

// ToDomain converts the persistence model to a domain Task entity.
func (m *TaskModel) ToDomain() *task.Task {
	return &task.Task{
		BaseEntity:     m.BaseModel.ToDomain(),
		ProjectID:      m.ProjectID,
		MilestoneID:    m.MilestoneID,
		Title:          m.Title,
		Description:    m.Description,
		Status:         task.TaskStatus(m.Status),
		Priority:       project.Priority(m.Priority),
		AssigneeID:     m.AssigneeID,
		DueDate:        m.DueDate,
		EstimatedHours: m.EstimatedHours,
		ActualHours:    m.ActualHours,
	}
}

// FromDomain populates the persistence model from a domain Task entity.
func (m *TaskModel) FromDomain(t *task.Task) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.ProjectID = t.ProjectID
	m.MilestoneID = t.MilestoneID
	m.Title = t.Title
	m.Description = t.Description
	m.Status = t.Status.String()
	m.Priority = t.Priority.String()
	m.AssigneeID = t.AssigneeID
	m.DueDate = t.DueDate
	m.EstimatedHours = t.EstimatedHours
	m.ActualHours = t.ActualHours
}

// TaskModelFromDomain creates a new persistence model from a domain Task.
func TaskModelFromDomain(t *task.Task) *TaskModel {
	m := &TaskModel{}
	m.FromDomain(t)
	return m
}
