package project

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pmo/backend/internal/domain/project"
)

// CreateProjectRequest represents a request to create a new project
type CreateProjectRequest struct {
	Name        string           `json:"name" binding:"required,min=1,max=200"`
	Description *string          `json:"description"`
	Status      string           `json:"status" binding:"omitempty,oneof=planning active onhold completed cancelled"`
	Priority    string           `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	StartDate   *time.Time       `json:"start_date"`
	EndDate     *time.Time       `json:"end_date"`
	Budget      *decimal.Decimal `json:"budget"`
}

// UpdateProjectRequest represents a request to update a project.
// Nil fields leave the stored value unchanged.
type UpdateProjectRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	Status      *string          `json:"status" binding:"omitempty,oneof=planning active onhold completed cancelled"`
	Priority    *string          `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	StartDate   *time.Time       `json:"start_date"`
	EndDate     *time.Time       `json:"end_date"`
	Budget      *decimal.Decimal `json:"budget"`
}

// AddProjectMemberRequest represents a request to grant a user access
// to a project
type AddProjectMemberRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Status      string           `json:"status"`
	Priority    string           `json:"priority"`
	StartDate   *time.Time       `json:"start_date"`
	EndDate     *time.Time       `json:"end_date"`
	Budget      *decimal.Decimal `json:"budget"`
	OwnerID     uuid.UUID        `json:"owner_id"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// MilestoneResponse represents a milestone in API responses
type MilestoneResponse struct {
	ID          uuid.UUID  `json:"id"`
	ProjectID   uuid.UUID  `json:"project_id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ProjectMemberResponse represents a project membership row in API
// responses
type ProjectMemberResponse struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ToProjectResponse converts a domain Project to ProjectResponse
func ToProjectResponse(p *project.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status.String(),
		Priority:    p.Priority.String(),
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Budget:      p.Budget,
		OwnerID:     p.OwnerID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToProjectResponses converts a slice of projects
func ToProjectResponses(projects []*project.Project) []ProjectResponse {
	responses := make([]ProjectResponse, len(projects))
	for i, p := range projects {
		responses[i] = ToProjectResponse(p)
	}
	return responses
}

// ToMilestoneResponse converts a domain Milestone to MilestoneResponse
func ToMilestoneResponse(m *project.Milestone) MilestoneResponse {
	return MilestoneResponse{
		ID:          m.ID,
		ProjectID:   m.ProjectID,
		Name:        m.Name,
		Description: m.Description,
		DueDate:     m.DueDate,
		Completed:   m.Completed,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ToMilestoneResponses converts a slice of milestones
func ToMilestoneResponses(milestones []*project.Milestone) []MilestoneResponse {
	responses := make([]MilestoneResponse, len(milestones))
	for i, m := range milestones {
		responses[i] = ToMilestoneResponse(m)
	}
	return responses
}

// ToProjectMemberResponse converts a membership row to its response
func ToProjectMemberResponse(m *project.ProjectMember) ProjectMemberResponse {
	return ProjectMemberResponse{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
	}
}

// ToProjectMemberResponses converts a slice of membership rows
func ToProjectMemberResponses(members []*project.ProjectMember) []ProjectMemberResponse {
	responses := make([]ProjectMemberResponse, len(members))
	for i, m := range members {
		responses[i] = ToProjectMemberResponse(m)
	}
	return responses
}
