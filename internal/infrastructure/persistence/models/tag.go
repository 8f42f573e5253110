package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pmo/backend/internal/domain/tag"
)

// TagModel is the persistence model for the Tag domain entity. The
// unique index on name backs the application-level duplicate check.
type TagModel struct {
	BaseModel
	Name        string  `gorm:"type:varchar(100);not null;uniqueIndex"`
	Color       string  `gorm:"type:varchar(20);not null;default:'#6b7280'"`
	Description *string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (TagModel) TableName() string {
	return "tags"
}

// ToDomain converts the persistence model to a domain Tag entity.
func (m *TagModel) ToDomain() *tag.Tag {
	return &tag.Tag{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Color:       m.Color,
		Description: m.Description,
	}
}

// FromDomain populates the persistence model from a domain Tag entity.
func (m *TagModel) FromDomain(t *tag.Tag) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.Name = t.Name
	m.Color = t.Color
	m.Description = t.Description
}

// TagModelFromDomain creates a new persistence model from a domain Tag.
func TagModelFromDomain(t *tag.Tag) *TagModel {
	m := &TagModel{}
	m.FromDomain(t)
	return m
}

// TaskTagModel is the persistence model for the task/tag join table.
type TaskTagModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	TaskID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_task_tags_task_tag"`
	TagID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_task_tags_task_tag"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TaskTagModel) TableName() string {
	return "task_tags"
}

// ToDomain converts the persistence model to a domain TaskTag.
func (m *TaskTagModel) ToDomain() *tag.TaskTag {
	return &tag.TaskTag{
		ID:        m.ID,
		TaskID:    m.TaskID,
		TagID:     m.TagID,
		CreatedAt: m.CreatedAt,
	}
}

// TaskTagModelFromDomain creates a new persistence model from a domain
// TaskTag.
func TaskTagModelFromDomain(tt *tag.TaskTag) *TaskTagModel {
	return &TaskTagModel{
		ID:        tt.ID,
		TaskID:    tt.TaskID,
		TagID:     tt.TagID,
		CreatedAt: tt.CreatedAt,
	}
}
