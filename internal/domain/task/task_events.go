package task

import (
	"github.com/google/uuid"

	"github.com/pmo/backend/internal/domain/shared"
)

const AggregateTypeTask = "Task"

const (
	EventTypeTaskCreated   = "task.created"
	EventTypeTaskAssigned  = "task.assigned"
	EventTypeTaskUpdated   = "task.updated"
	EventTypeTaskCompleted = "task.completed"
	EventTypeTaskDeleted   = "task.deleted"
)

// TaskCreatedEvent is published when a new task is created
type TaskCreatedEvent struct {
	shared.BaseDomainEvent
	TaskID     uuid.UUID  `json:"task_id"`
	ProjectID  uuid.UUID  `json:"project_id"`
	Title      string     `json:"title"`
	AssigneeID *uuid.UUID `json:"assignee_id,omitempty"`
	ActorID    uuid.UUID  `json:"actor_id"`
}

func NewTaskCreatedEvent(t *Task, actorID uuid.UUID) *TaskCreatedEvent {
	return &TaskCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskCreated, AggregateTypeTask, t.ID),
		TaskID:          t.ID,
		ProjectID:       t.ProjectID,
		Title:           t.Title,
		AssigneeID:      t.AssigneeID,
		ActorID:         actorID,
	}
}

// TaskAssignedEvent is published when a task gains a new assignee
type TaskAssignedEvent struct {
	shared.BaseDomainEvent
	TaskID     uuid.UUID `json:"task_id"`
	ProjectID  uuid.UUID `json:"project_id"`
	Title      string    `json:"title"`
	AssigneeID uuid.UUID `json:"assignee_id"`
	ActorID    uuid.UUID `json:"actor_id"`
}

func NewTaskAssignedEvent(t *Task, assigneeID, actorID uuid.UUID) *TaskAssignedEvent {
	return &TaskAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskAssigned, AggregateTypeTask, t.ID),
		TaskID:          t.ID,
		ProjectID:       t.ProjectID,
		Title:           t.Title,
		AssigneeID:      assigneeID,
		ActorID:         actorID,
	}
}

// TaskUpdatedEvent is published when task fields change
type TaskUpdatedEvent struct {
	shared.BaseDomainEvent
	TaskID     uuid.UUID  `json:"task_id"`
	ProjectID  uuid.UUID  `json:"project_id"`
	Title      string     `json:"title"`
	AssigneeID *uuid.UUID `json:"assignee_id,omitempty"`
	ActorID    uuid.UUID  `json:"actor_id"`
}

func NewTaskUpdatedEvent(t *Task, actorID uuid.UUID) *TaskUpdatedEvent {
	return &TaskUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskUpdated, AggregateTypeTask, t.ID),
		TaskID:          t.ID,
		ProjectID:       t.ProjectID,
		Title:           t.Title,
		AssigneeID:      t.AssigneeID,
		ActorID:         actorID,
	}
}

// TaskCompletedEvent is published when a task moves to the done state
type TaskCompletedEvent struct {
	shared.BaseDomainEvent
	TaskID     uuid.UUID  `json:"task_id"`
	ProjectID  uuid.UUID  `json:"project_id"`
	Title      string     `json:"title"`
	AssigneeID *uuid.UUID `json:"assignee_id,omitempty"`
	ActorID    uuid.UUID  `json:"actor_id"`
}

func NewTaskCompletedEvent(t *Task, actorID uuid.UUID) *TaskCompletedEvent {
	return &TaskCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskCompleted, AggregateTypeTask, t.ID),
		TaskID:          t.ID,
		ProjectID:       t.ProjectID,
		Title:           t.Title,
		AssigneeID:      t.AssigneeID,
		ActorID:         actorID,
	}
}

// TaskDeletedEvent is published when a task is removed
type TaskDeletedEvent struct {
	shared.BaseDomainEvent
	TaskID    uuid.UUID `json:"task_id"`
	ProjectID uuid.UUID `json:"project_id"`
	Title     string    `json:"title"`
	ActorID   uuid.UUID `json:"actor_id"`
}

func NewTaskDeletedEvent(t *Task, actorID uuid.UUID) *TaskDeletedEvent {
	return &TaskDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskDeleted, AggregateTypeTask, t.ID),
		TaskID:          t.ID,
		ProjectID:       t.ProjectID,
		Title:           t.Title,
		ActorID:         actorID,
	}
}
