package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pmo/backend/internal/domain/attachment"
	"github.com/pmo/backend/internal/domain/shared"
	"github.com/pmo/backend/internal/infrastructure/persistence/models"
)

// GormAttachmentRepository implements attachment.AttachmentRepository
// using GORM. Only metadata lives here; the blob content is handled by
// the storage layer.
type GormAttachmentRepository struct {
	db *gorm.DB
}

// NewGormAttachmentRepository creates a new GormAttachmentRepository
func NewGormAttachmentRepository(db *gorm.DB) *GormAttachmentRepository {
	return &GormAttachmentRepository{db: db}
}

// Create persists a new attachment record
func (r *GormAttachmentRepository) Create(ctx context.Context, a *attachment.Attachment) error {
	model := models.AttachmentModelFromDomain(a)
	return translateError(r.db.WithContext(ctx).Create(model).Error)
}

// Delete removes an attachment record by ID
func (r *GormAttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AttachmentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByTask removes all attachment records of a task
func (r *GormAttachmentRepository) DeleteByTask(ctx context.Context, taskID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Delete(&models.AttachmentModel{}).Error
}

// FindByID retrieves an attachment record by its ID
func (r *GormAttachmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*attachment.Attachment, error) {
	var model models.AttachmentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByTask retrieves a task's attachments, newest first
func (r *GormAttachmentRepository) FindByTask(ctx context.Context, taskID uuid.UUID) ([]*attachment.Attachment, error) {
	var attachmentModels []*models.AttachmentModel
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&attachmentModels).Error; err != nil {
		return nil, err
	}

	attachments := make([]*attachment.Attachment, len(attachmentModels))
	for i, model := range attachmentModels {
		attachments[i] = model.ToDomain()
	}
	return attachments, nil
}

// Ensure GormAttachmentRepository implements AttachmentRepository
var _ attachment.AttachmentRepository = (*GormAttachmentRepository)(nil)
