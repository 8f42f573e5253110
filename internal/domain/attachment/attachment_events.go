package attachment

import (
	"github.com/google/uuid"

	"github.com/pmo/backend/internal/domain/shared"
)

const AggregateTypeAttachment = "Attachment"

const EventTypeAttachmentUploaded = "attachment.uploaded"

// AttachmentUploadedEvent is published when a file is attached to a task
type AttachmentUploadedEvent struct {
	shared.BaseDomainEvent
	AttachmentID     uuid.UUID `json:"attachment_id"`
	TaskID           uuid.UUID `json:"task_id"`
	OriginalFilename string    `json:"original_filename"`
	ActorID          uuid.UUID `json:"actor_id"`
}

func NewAttachmentUploadedEvent(a *Attachment, actorID uuid.UUID) *AttachmentUploadedEvent {
	return &AttachmentUploadedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeAttachmentUploaded, AggregateTypeAttachment, a.ID),
		AttachmentID:     a.ID,
		TaskID:           a.TaskID,
		OriginalFilename: a.OriginalFilename,
		ActorID:          actorID,
	}
}
