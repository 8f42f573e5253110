package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pmo/backend/internal/domain/attachment"
)

// AttachmentModel is the persistence model for attachment metadata.
// Attachments are immutable once written, so there is no UpdatedAt.
type AttachmentModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key"`
	TaskID           uuid.UUID `gorm:"type:uuid;not null;index"`
	UploadedBy       uuid.UUID `gorm:"type:uuid;not null"`
	Filename         string    `gorm:"type:varchar(300);not null"`
	OriginalFilename string    `gorm:"type:varchar(300);not null"`
	ContentType      string    `gorm:"type:varchar(100);not null"`
	SizeBytes        int64     `gorm:"not null"`
	StoragePath      string    `gorm:"type:varchar(600);not null"`
	CreatedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AttachmentModel) TableName() string {
	return "attachments"
}

// ToDomain converts the persistence model to a domain Attachment.
func (m *AttachmentModel) ToDomain() *attachment.Attachment {
	return &attachment.Attachment{
		ID:               m.ID,
		TaskID:           m.TaskID,
		UploadedBy:       m.UploadedBy,
		Filename:         m.Filename,
		OriginalFilename: m.OriginalFilename,
		ContentType:      m.ContentType,
		SizeBytes:        m.SizeBytes,
		StoragePath:      m.StoragePath,
		CreatedAt:        m.CreatedAt,
	}
}

// AttachmentModelFromDomain creates a new persistence model from a
// domain Attachment.
func AttachmentModelFromDomain(a *attachment.Attachment) *AttachmentModel {
	return &AttachmentModel{
		ID:               a.ID,
		TaskID:           a.TaskID,
		UploadedBy:       a.UploadedBy,
		Filename:         a.Filename,
		OriginalFilename: a.OriginalFilename,
		ContentType:      a.ContentType,
		SizeBytes:        a.SizeBytes,
		StoragePath:      a.StoragePath,
		CreatedAt:        a.CreatedAt,
	}
}
