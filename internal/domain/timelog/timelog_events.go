package timelog

import (
	"github.com/google/uuid"

	"github.com/pmo/backend/internal/domain/shared"
)

const AggregateTypeTimeLog = "TimeLog"

const EventTypeTimeLogCreated = "timelog.created"

// TimeLogCreatedEvent is published when hours are logged against a task
type TimeLogCreatedEvent struct {
	shared.BaseDomainEvent
	TimeLogID uuid.UUID `json:"time_log_id"`
	TaskID    uuid.UUID `json:"task_id"`
	UserID    uuid.UUID `json:"user_id"`
	Hours     float32   `json:"hours"`
	ActorID   uuid.UUID `json:"actor_id"`
}

func NewTimeLogCreatedEvent(l *TimeLog, actorID uuid.UUID) *TimeLogCreatedEvent {
	return &TimeLogCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTimeLogCreated, AggregateTypeTimeLog, l.ID),
		TimeLogID:       l.ID,
		TaskID:          l.TaskID,
		UserID:          l.UserID,
		Hours:           l.Hours,
		ActorID:         actorID,
	}
}
