package activity

import (
	"context"

	"github.com/google/uuid"
)

// ActivityLogRepository defines the persistence port for the audit
// trail. Reads return the detailed view with user and project names
// joined in, newest first.
type ActivityLogRepository interface {
	// Create persists a new activity row
	Create(ctx context.Context, log *ActivityLog) error

	// FindAll retrieves a page of the global activity feed
	FindAll(ctx context.Context, limit, offset int) ([]*ActivityLogWithDetails, error)

	// FindByProject retrieves a project's recent activity
	FindByProject(ctx context.Context, projectID uuid.UUID, limit int) ([]*ActivityLogWithDetails, error)

	// FindByUser retrieves a user's recent activity
	FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*ActivityLogWithDetails, error)

	// Count returns the total number of activity rows
	Count(ctx context.Context) (int64, error)
}
