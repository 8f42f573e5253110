package team

import (
	"context"

	"github.com/google/uuid"
)

// TeamRepository defines the persistence port for teams and their
// membership lists.
type TeamRepository interface {
	// Create persists a new team
	Create(ctx context.Context, t *Team) error

	// Update persists changes to an existing team
	Update(ctx context.Context, t *Team) error

	// Delete removes a team and its membership rows
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID retrieves a team by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Team, error)

	// FindAll retrieves all teams ordered by creation time, newest first
	FindAll(ctx context.Context) ([]*Team, error)

	// FindAccessibleByUser retrieves teams the user leads or belongs to,
	// newest first
	FindAccessibleByUser(ctx context.Context, userID uuid.UUID) ([]*Team, error)

	// Exists reports whether a team with the given ID exists
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// CanUserAccess reports whether the user leads or belongs to the team
	CanUserAccess(ctx context.Context, teamID, userID uuid.UUID) (bool, error)

	// IsLead reports whether the user is the team lead
	IsLead(ctx context.Context, teamID, userID uuid.UUID) (bool, error)

	// AddMember inserts a membership row
	AddMember(ctx context.Context, member *TeamMember) error

	// RemoveMember deletes a membership row
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error

	// FindMembers retrieves the membership list ordered by join time,
	// newest first
	FindMembers(ctx context.Context, teamID uuid.UUID) ([]*TeamMember, error)
}
