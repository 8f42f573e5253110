package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/pmo/backend/internal/domain/activity"
)

// ActivityLogModel is the persistence model for audit rows. Details is
// stored as JSONB so feed queries can render structured payloads.
type ActivityLogModel struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key"`
	UserID     *uuid.UUID     `gorm:"type:uuid;index"`
	ProjectID  *uuid.UUID     `gorm:"type:uuid;index"`
	Action     string         `gorm:"type:varchar(100);not null"`
	EntityType string         `gorm:"type:varchar(50);not null"`
	EntityID   uuid.UUID      `gorm:"type:uuid;not null"`
	Details    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time      `gorm:"not null;index:,sort:desc"`
}

// TableName returns the table name for GORM
func (ActivityLogModel) TableName() string {
	return "activity_logs"
}

// ToDomain converts the persistence model to a domain ActivityLog.
func (m *ActivityLogModel) ToDomain() *activity.ActivityLog {
	return &activity.ActivityLog{
		ID:         m.ID,
		UserID:     m.UserID,
		ProjectID:  m.ProjectID,
		Action:     m.Action,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Details:    []byte(m.Details),
		CreatedAt:  m.CreatedAt,
	}
}

// ActivityLogModelFromDomain creates a new persistence model from a
// domain ActivityLog.
func ActivityLogModelFromDomain(l *activity.ActivityLog) *ActivityLogModel {
	return &ActivityLogModel{
		ID:         l.ID,
		UserID:     l.UserID,
		ProjectID:  l.ProjectID,
		Action:     l.Action,
		EntityType: l.EntityType,
		EntityID:   l.EntityID,
		Details:    datatypes.JSON(l.Details),
		CreatedAt:  l.CreatedAt,
	}
}
