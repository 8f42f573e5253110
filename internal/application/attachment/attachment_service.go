package attachment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pmo/backend/internal/domain/attachment"
	"github.com/pmo/backend/internal/domain/authz"
	"github.com/pmo/backend/internal/domain/shared"
	"github.com/pmo/backend/internal/infrastructure/storage"
)

// TaskChecker reports task existence for upload validation
type TaskChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// AttachmentService handles file attachment use cases. Metadata rows
// go through the repository; content bytes go through the blob store.
type AttachmentService struct {
	attachmentRepo attachment.AttachmentRepository
	tasks          TaskChecker
	blobs          storage.BlobStore
	events         shared.EventPublisher
	logger         *zap.Logger
}

// NewAttachmentService creates a new attachment service
func NewAttachmentService(
	attachmentRepo attachment.AttachmentRepository,
	tasks TaskChecker,
	blobs storage.BlobStore,
	events shared.EventPublisher,
	logger *zap.Logger,
) *AttachmentService {
	return &AttachmentService{
		attachmentRepo: attachmentRepo,
		tasks:          tasks,
		blobs:          blobs,
		events:         events,
		logger:         logger,
	}
}

// Upload validates and stores one file against a task. The blob is
// written first; if the metadata insert then fails, the blob is
// removed again.
func (s *AttachmentService) Upload(ctx context.Context, p authz.Principal, taskID uuid.UUID, in UploadInput) (*AttachmentResponse, error) {
	exists, err := s.tasks.Exists(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDomainError("NOT_FOUND", "Task not found")
	}

	a, err := attachment.NewAttachment(taskID, p.ID, in.Filename, in.ContentType, in.Size)
	if err != nil {
		return nil, err
	}

	if err := s.blobs.Put(ctx, a.StoragePath, in.Data, in.ContentType); err != nil {
		s.logger.Error("failed to store attachment content",
			zap.String("storage_path", a.StoragePath), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to store file")
	}

	if err := s.attachmentRepo.Create(ctx, a); err != nil {
		if cleanupErr := s.blobs.Delete(ctx, a.StoragePath); cleanupErr != nil {
			s.logger.Warn("failed to clean up orphaned blob",
				zap.String("storage_path", a.StoragePath), zap.Error(cleanupErr))
		}
		return nil, err
	}

	s.publish(ctx, attachment.NewAttachmentUploadedEvent(a, p.ID))

	response := ToAttachmentResponse(a)
	return &response, nil
}

// ListByTask returns a task's attachments, newest first
func (s *AttachmentService) ListByTask(ctx context.Context, taskID uuid.UUID) ([]AttachmentResponse, error) {
	attachments, err := s.attachmentRepo.FindByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return ToAttachmentResponses(attachments), nil
}

// Open returns an attachment's metadata together with its content
// stream. The caller closes the stream.
func (s *AttachmentService) Open(ctx context.Context, id uuid.UUID) (*Download, error) {
	a, err := s.findAttachment(ctx, id)
	if err != nil {
		return nil, err
	}

	content, err := s.blobs.Get(ctx, a.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Attachment not found")
		}
		return nil, err
	}

	return &Download{Meta: ToAttachmentResponse(a), Content: content}, nil
}

// Delete removes the blob, then the metadata row. A blob that cannot
// be removed is logged and the row is deleted anyway so the attachment
// disappears from the API.
func (s *AttachmentService) Delete(ctx context.Context, id uuid.UUID) error {
	a, err := s.findAttachment(ctx, id)
	if err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, a.StoragePath); err != nil {
		s.logger.Warn("failed to delete attachment content",
			zap.String("storage_path", a.StoragePath), zap.Error(err))
	}

	return s.attachmentRepo.Delete(ctx, id)
}

func (s *AttachmentService) findAttachment(ctx context.Context, id uuid.UUID) (*attachment.Attachment, error) {
	a, err := s.attachmentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Attachment not found")
		}
		return nil, err
	}
	return a, nil
}

func (s *AttachmentService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if err := s.events.Publish(ctx, events...); err != nil {
		for _, e := range events {
			s.logger.Warn("failed to publish event", zap.String("event_type", e.EventType()), zap.Error(err))
		}
	}
}
