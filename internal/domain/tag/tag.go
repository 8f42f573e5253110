package tag

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pmo/backend/internal/domain/shared"
)

// DefaultColor is the color assigned when none is supplied
const DefaultColor = "#6b7280"

// Tag is a label attachable to any number of tasks. Names are unique
// across the system; matching is exact and case-sensitive.
type Tag struct {
	shared.BaseEntity
	Name        string
	Color       string
	Description *string
}

// NewTag creates a tag, falling back to the default color when none is
// given
func NewTag(name string, color, description *string) (*Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Tag name cannot be empty")
	}

	t := &Tag{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Color:      DefaultColor,
	}
	if color != nil && *color != "" {
		t.Color = *color
	}
	if description != nil {
		t.Description = description
	}
	return t, nil
}

// Apply overwrites the fields present in the arguments; nil leaves the
// stored value unchanged.
func (t *Tag) Apply(name, color, description *string) error {
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return shared.NewDomainError("VALIDATION_ERROR", "Tag name cannot be empty")
		}
		t.Name = trimmed
	}
	if color != nil {
		t.Color = *color
	}
	if description != nil {
		t.Description = description
	}
	t.Touch()
	return nil
}

// TaskTag is a row in the task/tag join table
type TaskTag struct {
	ID        uuid.UUID
	TaskID    uuid.UUID
	TagID     uuid.UUID
	CreatedAt time.Time
}

// NewTaskTag links a tag to a task
func NewTaskTag(taskID, tagID uuid.UUID) *TaskTag {
	return &TaskTag{
		ID:        uuid.New(),
		TaskID:    taskID,
		TagID:     tagID,
		CreatedAt: time.Now(),
	}
}
