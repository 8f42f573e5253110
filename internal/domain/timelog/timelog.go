package timelog

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pmo/backend/internal/domain/shared"
)

// TimeLog records hours a user spent on a task on a given day. The
// date carries day precision only; the time of day is ignored.
type TimeLog struct {
	shared.BaseEntity
	TaskID      uuid.UUID
	UserID      uuid.UUID
	Hours       float32
	Date        time.Time
	Description *string
}

// TimeLogWithDetails is the read representation of a time log with the
// task, project and user names joined in.
type TimeLogWithDetails struct {
	TimeLog
	TaskName    *string
	ProjectName *string
	UserName    *string
}

// NewTimeLog creates a time log entry for a user on a task
func NewTimeLog(taskID, userID uuid.UUID, hours float32, date time.Time, description *string) (*TimeLog, error) {
	if hours <= 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Hours must be greater than 0")
	}
	if description != nil {
		trimmed := strings.TrimSpace(*description)
		description = &trimmed
	}

	return &TimeLog{
		BaseEntity:  shared.NewBaseEntity(),
		TaskID:      taskID,
		UserID:      userID,
		Hours:       hours,
		Date:        truncateToDay(date),
		Description: description,
	}, nil
}

// SetHours replaces the logged hours
func (l *TimeLog) SetHours(hours float32) error {
	if hours <= 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Hours must be greater than 0")
	}
	l.Hours = hours
	l.Touch()
	return nil
}

// SetDate moves the entry to another day
func (l *TimeLog) SetDate(date time.Time) {
	l.Date = truncateToDay(date)
	l.Touch()
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
