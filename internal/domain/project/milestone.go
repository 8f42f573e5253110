package project

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pmo/backend/internal/domain/shared"
)

// Milestone is a dated checkpoint inside a project
type Milestone struct {
	shared.BaseEntity
	ProjectID   uuid.UUID
	Name        string
	Description *string
	DueDate     *time.Time
	Completed   bool
}

// NewMilestone creates a milestone for a project
func NewMilestone(projectID uuid.UUID, name string) (*Milestone, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Milestone name cannot be empty")
	}
	return &Milestone{
		BaseEntity: shared.NewBaseEntity(),
		ProjectID:  projectID,
		Name:       name,
	}, nil
}

// Complete marks the milestone as done
func (m *Milestone) Complete() {
	m.Completed = true
	m.Touch()
}
