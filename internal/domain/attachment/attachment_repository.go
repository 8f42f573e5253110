package attachment

import (
	"context"

	"github.com/google/uuid"
)

// AttachmentRepository defines the persistence port for attachment
// metadata rows. Blob content is handled by the storage layer, not
// here.
type AttachmentRepository interface {
	// Create persists a new attachment record
	Create(ctx context.Context, a *Attachment) error

	// Delete removes an attachment record by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByTask removes all attachment records of a task
	DeleteByTask(ctx context.Context, taskID uuid.UUID) error

	// FindByID retrieves an attachment record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Attachment, error)

	// FindByTask retrieves a task's attachments, newest first
	FindByTask(ctx context.Context, taskID uuid.UUID) ([]*Attachment, error)
}
