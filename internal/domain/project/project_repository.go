package project

import (
	"context"

	"github.com/google/uuid"
)

// ProjectRepository defines the interface for project persistence and the
// access predicates the authorization layer evaluates.
type ProjectRepository interface {
	// Create creates a new project
	Create(ctx context.Context, p *Project) error

	// Update updates an existing project
	Update(ctx context.Context, p *Project) error

	// Delete deletes a project by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a project by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)

	// FindAll returns all projects, newest first
	FindAll(ctx context.Context) ([]*Project, error)

	// FindAccessibleByUser returns the projects the user owns or is a
	// member of, deduplicated, newest first
	FindAccessibleByUser(ctx context.Context, userID uuid.UUID) ([]*Project, error)

	// CanUserAccess reports whether the user owns or is a member of the project
	CanUserAccess(ctx context.Context, projectID, userID uuid.UUID) (bool, error)

	// IsOwner reports whether the user owns the project
	IsOwner(ctx context.Context, projectID, userID uuid.UUID) (bool, error)

	// Exists reports whether a project with the given ID exists
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// FindMilestones returns the project's milestones ordered by due date
	FindMilestones(ctx context.Context, projectID uuid.UUID) ([]*Milestone, error)

	// AddMember grants a user access to the project
	AddMember(ctx context.Context, member *ProjectMember) error

	// RemoveMember revokes a user's access to the project
	RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error

	// FindMembers returns the project's member rows
	FindMembers(ctx context.Context, projectID uuid.UUID) ([]*ProjectMember, error)
}
