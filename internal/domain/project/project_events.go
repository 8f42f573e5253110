package project

import (
	"github.com/google/uuid"

	"github.com/pmo/backend/internal/domain/shared"
)

// Aggregate type constant for Project
const AggregateTypeProject = "Project"

// Project domain event types
const (
	EventTypeProjectCreated = "project.created"
	EventTypeProjectUpdated = "project.updated"
	EventTypeProjectDeleted = "project.deleted"
)

// ProjectCreatedEvent is published when a project is created
type ProjectCreatedEvent struct {
	shared.BaseDomainEvent
	ProjectID uuid.UUID `json:"project_id"`
	Name      string    `json:"name"`
	OwnerID   uuid.UUID `json:"owner_id"`
	ActorID   uuid.UUID `json:"actor_id"`
}

// NewProjectCreatedEvent creates a new ProjectCreatedEvent
func NewProjectCreatedEvent(p *Project, actorID uuid.UUID) *ProjectCreatedEvent {
	return &ProjectCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProjectCreated, AggregateTypeProject, p.ID),
		ProjectID:       p.ID,
		Name:            p.Name,
		OwnerID:         p.OwnerID,
		ActorID:         actorID,
	}
}

// ProjectUpdatedEvent is published when a project is updated
type ProjectUpdatedEvent struct {
	shared.BaseDomainEvent
	ProjectID uuid.UUID `json:"project_id"`
	Name      string    `json:"name"`
	OwnerID   uuid.UUID `json:"owner_id"`
	ActorID   uuid.UUID `json:"actor_id"`
}

// NewProjectUpdatedEvent creates a new ProjectUpdatedEvent
func NewProjectUpdatedEvent(p *Project, actorID uuid.UUID) *ProjectUpdatedEvent {
	return &ProjectUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProjectUpdated, AggregateTypeProject, p.ID),
		ProjectID:       p.ID,
		Name:            p.Name,
		OwnerID:         p.OwnerID,
		ActorID:         actorID,
	}
}

// ProjectDeletedEvent is published when a project is deleted
type ProjectDeletedEvent struct {
	shared.BaseDomainEvent
	ProjectID uuid.UUID `json:"project_id"`
	Name      string    `json:"name"`
	ActorID   uuid.UUID `json:"actor_id"`
}

// NewProjectDeletedEvent creates a new ProjectDeletedEvent
func NewProjectDeletedEvent(p *Project, actorID uuid.UUID) *ProjectDeletedEvent {
	return &ProjectDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProjectDeleted, AggregateTypeProject, p.ID),
		ProjectID:       p.ID,
		Name:            p.Name,
		ActorID:         actorID,
	}
}
