package activity

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pmo/backend/internal/domain/activity"
	"github.com/pmo/backend/internal/domain/attachment"
	"github.com/pmo/backend/internal/domain/project"
	"github.com/pmo/backend/internal/domain/shared"
	"github.com/pmo/backend/internal/domain/tag"
	"github.com/pmo/backend/internal/domain/task"
	"github.com/pmo/backend/internal/domain/team"
	"github.com/pmo/backend/internal/domain/timelog"
)

// Recorder appends one audit row per domain event. It subscribes as a
// wildcard handler, so events gaining new types are recorded without
// changes here; only the actor and project extraction below needs to
// know the concrete event structs.
type Recorder struct {
	activityRepo activity.ActivityLogRepository
	logger       *zap.Logger
}

// NewRecorder creates the audit-trail subscriber
func NewRecorder(activityRepo activity.ActivityLogRepository, logger *zap.Logger) *Recorder {
	return &Recorder{
		activityRepo: activityRepo,
		logger:       logger,
	}
}

// EventTypes returns nil so the bus delivers every event
func (r *Recorder) EventTypes() []string {
	return nil
}

// Handle records one event as an activity row
func (r *Recorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	userID, projectID := eventContext(event)

	details, err := json.Marshal(event)
	if err != nil {
		r.logger.Error("failed to encode event details",
			zap.String("event_type", event.EventType()), zap.Error(err))
		details = nil
	}

	log := activity.NewActivityLog(userID, projectID,
		event.EventType(), event.AggregateType(), event.AggregateID(), details)
	if err := r.activityRepo.Create(ctx, log); err != nil {
		r.logger.Error("failed to record activity",
			zap.String("event_type", event.EventType()),
			zap.String("aggregate_id", event.AggregateID().String()),
			zap.Error(err))
		return err
	}
	return nil
}

// eventContext extracts the acting user and, where the aggregate lives
// inside a project, the project id. Audit rows carry no foreign keys,
// so ids of already-deleted aggregates are kept as-is.
func eventContext(event shared.DomainEvent) (userID, projectID *uuid.UUID) {
	switch e := event.(type) {
	case *project.ProjectCreatedEvent:
		return &e.ActorID, &e.ProjectID
	case *project.ProjectUpdatedEvent:
		return &e.ActorID, &e.ProjectID
	case *project.ProjectDeletedEvent:
		return &e.ActorID, &e.ProjectID
	case *task.TaskCreatedEvent:
		return &e.ActorID, &e.ProjectID
	case *task.TaskAssignedEvent:
		return &e.ActorID, &e.ProjectID
	case *task.TaskUpdatedEvent:
		return &e.ActorID, &e.ProjectID
	case *task.TaskCompletedEvent:
		return &e.ActorID, &e.ProjectID
	case *task.TaskDeletedEvent:
		return &e.ActorID, &e.ProjectID
	case *team.TeamCreatedEvent:
		return &e.ActorID, nil
	case *team.TeamUpdatedEvent:
		return &e.ActorID, nil
	case *team.TeamDeletedEvent:
		return &e.ActorID, nil
	case *team.TeamMemberAddedEvent:
		return &e.ActorID, nil
	case *tag.TagCreatedEvent:
		return &e.ActorID, nil
	case *timelog.TimeLogCreatedEvent:
		return &e.ActorID, nil
	case *attachment.AttachmentUploadedEvent:
		return &e.ActorID, nil
	}
	return nil, nil
}

var _ shared.EventHandler = (*Recorder)(nil)
