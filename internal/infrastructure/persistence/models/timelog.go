package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pmo/backend/internal/domain/timelog"
)

// TimeLogModel is the persistence model for the TimeLog domain entity.
type TimeLogModel struct {
	BaseModel
	TaskID      uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Hours       float32   `gorm:"type:real;not null"`
	Date        time.Time `gorm:"type:date;not null"`
	Description *string   `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (TimeLogModel) TableName() string {
	return "time_logs"
}

// ToDomain converts the persistence model to a domain TimeLog entity.
func (m *TimeLogModel) ToDomain() *timelog.TimeLog {
	return &timelog.TimeLog{
		BaseEntity:  m.BaseModel.ToDomain(),
		TaskID:      m.TaskID,
		UserID:      m.UserID,
		Hours:       m.Hours,
		Date:        m.Date,
		Description: m.Description,
	}
}

// FromDomain populates the persistence model from a domain TimeLog entity.
func (m *TimeLogModel) FromDomain(l *timelog.TimeLog) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.TaskID = l.TaskID
	m.UserID = l.UserID
	m.Hours = l.Hours
	m.Date = l.Date
	m.Description = l.Description
}

// TimeLogModelFromDomain creates a new persistence model from a domain
// TimeLog.
func TimeLogModelFromDomain(l *timelog.TimeLog) *TimeLogModel {
	m := &TimeLogModel{}
	m.FromDomain(l)
	return m
}
