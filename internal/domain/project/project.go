package project

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pmo/backend/internal/domain/shared"
)

// ProjectStatus represents the lifecycle state of a project
type ProjectStatus string

const (
	StatusPlanning  ProjectStatus = "planning"
	StatusActive    ProjectStatus = "active"
	StatusOnHold    ProjectStatus = "onhold"
	StatusCompleted ProjectStatus = "completed"
	StatusCancelled ProjectStatus = "cancelled"
)

// ParseProjectStatus parses a status string. An empty string yields the
// default planning status.
func ParseProjectStatus(s string) (ProjectStatus, error) {
	switch ProjectStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPlanning:
		return StatusPlanning, nil
	case StatusActive:
		return StatusActive, nil
	case StatusOnHold:
		return StatusOnHold, nil
	case StatusCompleted:
		return StatusCompleted, nil
	case StatusCancelled:
		return StatusCancelled, nil
	case "":
		return StatusPlanning, nil
	}
	return "", shared.NewDomainError("VALIDATION_ERROR", "Invalid project status")
}

// IsValid reports whether the status is one of the known values
func (s ProjectStatus) IsValid() bool {
	switch s {
	case StatusPlanning, StatusActive, StatusOnHold, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// String returns the lowercase wire representation
func (s ProjectStatus) String() string {
	return string(s)
}

// Priority ranks projects and tasks. Tasks reuse this type.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// ParsePriority parses a priority string. An empty string yields the
// default medium priority.
func ParsePriority(s string) (Priority, error) {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityLow:
		return PriorityLow, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityHigh:
		return PriorityHigh, nil
	case PriorityCritical:
		return PriorityCritical, nil
	case "":
		return PriorityMedium, nil
	}
	return "", shared.NewDomainError("VALIDATION_ERROR", "Invalid priority")
}

// IsValid reports whether the priority is one of the known values
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// String returns the lowercase wire representation
func (p Priority) String() string {
	return string(p)
}

// Project is the aggregate root for project-scoped access control.
// OwnerID is set at creation and never changes afterwards.
type Project struct {
	shared.BaseEntity
	Name        string
	Description *string
	Status      ProjectStatus
	Priority    Priority
	StartDate   *time.Time
	EndDate     *time.Time
	Budget      *decimal.Decimal
	OwnerID     uuid.UUID
}

// ProjectOption configures optional fields at creation time
type ProjectOption func(*Project)

// WithDescription sets the project description
func WithDescription(description string) ProjectOption {
	return func(p *Project) {
		p.Description = &description
	}
}

// WithStatus sets the initial status
func WithStatus(status ProjectStatus) ProjectOption {
	return func(p *Project) {
		p.Status = status
	}
}

// WithPriority sets the initial priority
func WithPriority(priority Priority) ProjectOption {
	return func(p *Project) {
		p.Priority = priority
	}
}

// WithStartDate sets the planned start date
func WithStartDate(t time.Time) ProjectOption {
	return func(p *Project) {
		p.StartDate = &t
	}
}

// WithEndDate sets the planned end date
func WithEndDate(t time.Time) ProjectOption {
	return func(p *Project) {
		p.EndDate = &t
	}
}

// WithBudget sets the project budget
func WithBudget(budget decimal.Decimal) ProjectOption {
	return func(p *Project) {
		p.Budget = &budget
	}
}

// NewProject creates a new project owned by ownerID
func NewProject(name string, ownerID uuid.UUID, opts ...ProjectOption) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Project name cannot be empty")
	}

	p := &Project{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Status:     StatusPlanning,
		Priority:   PriorityMedium,
		OwnerID:    ownerID,
	}

	for _, opt := range opts {
		opt(p)
	}

	if !p.Status.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid project status")
	}
	if !p.Priority.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid priority")
	}

	return p, nil
}

// Rename changes the project name
func (p *Project) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Project name cannot be empty")
	}
	p.Name = name
	p.Touch()
	return nil
}

// ChangeStatus moves the project to a new lifecycle state
func (p *Project) ChangeStatus(status ProjectStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", "Invalid project status")
	}
	p.Status = status
	p.Touch()
	return nil
}

// IsOwnedBy reports whether userID owns the project
func (p *Project) IsOwnedBy(userID uuid.UUID) bool {
	return p.OwnerID == userID
}
