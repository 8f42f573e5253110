package tag

import (
	"context"

	"github.com/google/uuid"
)

// TagRepository defines the persistence port for tags and the
// task-tag join table.
type TagRepository interface {
	// Create persists a new tag
	Create(ctx context.Context, t *Tag) error

	// Update persists changes to an existing tag
	Update(ctx context.Context, t *Tag) error

	// Delete removes a tag and its task links
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID retrieves a tag by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Tag, error)

	// FindByName retrieves a tag by exact, case-sensitive name
	FindByName(ctx context.Context, name string) (*Tag, error)

	// FindAll retrieves all tags ordered by name
	FindAll(ctx context.Context) ([]*Tag, error)

	// FindTagsByTask retrieves a task's tags ordered by name
	FindTagsByTask(ctx context.Context, taskID uuid.UUID) ([]*Tag, error)

	// AddTagToTask links a tag to a task; linking twice is a no-op
	AddTagToTask(ctx context.Context, tt *TaskTag) error

	// RemoveTagFromTask unlinks a tag from a task
	RemoveTagFromTask(ctx context.Context, taskID, tagID uuid.UUID) error

	// SetTaskTags replaces a task's tag set with the given tag IDs
	SetTaskTags(ctx context.Context, taskID uuid.UUID, tagIDs []uuid.UUID) error
}
