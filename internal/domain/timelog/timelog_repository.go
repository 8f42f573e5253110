package timelog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TimeLogRepository defines the persistence port for time logs. Read
// methods return the detailed view with task, project and user names
// joined in; rows are ordered by date, newest first, then by creation
// time.
type TimeLogRepository interface {
	// Create persists a new time log
	Create(ctx context.Context, l *TimeLog) error

	// Update persists changes to an existing time log
	Update(ctx context.Context, l *TimeLog) error

	// Delete removes a time log by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID retrieves a time log by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*TimeLogWithDetails, error)

	// FindByUser retrieves a user's time logs, optionally restricted to
	// an inclusive date window
	FindByUser(ctx context.Context, userID uuid.UUID, start, end *time.Time) ([]*TimeLogWithDetails, error)

	// FindByTask retrieves all time logs recorded against a task
	FindByTask(ctx context.Context, taskID uuid.UUID) ([]*TimeLogWithDetails, error)
}
