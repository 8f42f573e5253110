package task

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TaskRepository defines the persistence port for tasks.
//
// Access checks join through the owning project: a user can reach a
// task when they own the project or appear in its member list.
type TaskRepository interface {
	// Create persists a new task
	Create(ctx context.Context, t *Task) error

	// Update persists changes to an existing task
	Update(ctx context.Context, t *Task) error

	// Delete removes a task by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID retrieves a task by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)

	// FindAll retrieves all tasks ordered by creation time, newest first
	FindAll(ctx context.Context) ([]*Task, error)

	// FindByProject retrieves all tasks of a project, newest first
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]*Task, error)

	// FindByAssignee retrieves all tasks assigned to a user, newest first
	FindByAssignee(ctx context.Context, userID uuid.UUID) ([]*Task, error)

	// FindAccessibleByUser retrieves tasks in projects the user owns or
	// is a member of, newest first
	FindAccessibleByUser(ctx context.Context, userID uuid.UUID) ([]*Task, error)

	// FindDueBetween retrieves unfinished assigned tasks whose due date
	// falls inside the window
	FindDueBetween(ctx context.Context, from, to time.Time) ([]*Task, error)

	// Exists reports whether a task with the given ID exists
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// CanUserAccess reports whether the user owns or is a member of the
	// task's project
	CanUserAccess(ctx context.Context, taskID, userID uuid.UUID) (bool, error)

	// IsProjectOwner reports whether the user owns the task's project
	IsProjectOwner(ctx context.Context, taskID, userID uuid.UUID) (bool, error)

	// CanAccessProject reports whether the user owns or is a member of
	// the given project
	CanAccessProject(ctx context.Context, projectID, userID uuid.UUID) (bool, error)
}
