package team

import (
	"github.com/google/uuid"

	"github.com/pmo/backend/internal/domain/shared"
)

const AggregateTypeTeam = "Team"

const (
	EventTypeTeamCreated     = "team.created"
	EventTypeTeamUpdated     = "team.updated"
	EventTypeTeamDeleted     = "team.deleted"
	EventTypeTeamMemberAdded = "team.member_added"
)

// TeamCreatedEvent is published when a new team is created
type TeamCreatedEvent struct {
	shared.BaseDomainEvent
	TeamID  uuid.UUID `json:"team_id"`
	Name    string    `json:"name"`
	ActorID uuid.UUID `json:"actor_id"`
}

func NewTeamCreatedEvent(t *Team, actorID uuid.UUID) *TeamCreatedEvent {
	return &TeamCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTeamCreated, AggregateTypeTeam, t.ID),
		TeamID:          t.ID,
		Name:            t.Name,
		ActorID:         actorID,
	}
}

// TeamUpdatedEvent is published when team fields change
type TeamUpdatedEvent struct {
	shared.BaseDomainEvent
	TeamID  uuid.UUID `json:"team_id"`
	Name    string    `json:"name"`
	ActorID uuid.UUID `json:"actor_id"`
}

func NewTeamUpdatedEvent(t *Team, actorID uuid.UUID) *TeamUpdatedEvent {
	return &TeamUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTeamUpdated, AggregateTypeTeam, t.ID),
		TeamID:          t.ID,
		Name:            t.Name,
		ActorID:         actorID,
	}
}

// TeamDeletedEvent is published when a team is removed
type TeamDeletedEvent struct {
	shared.BaseDomainEvent
	TeamID  uuid.UUID `json:"team_id"`
	Name    string    `json:"name"`
	ActorID uuid.UUID `json:"actor_id"`
}

func NewTeamDeletedEvent(t *Team, actorID uuid.UUID) *TeamDeletedEvent {
	return &TeamDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTeamDeleted, AggregateTypeTeam, t.ID),
		TeamID:          t.ID,
		Name:            t.Name,
		ActorID:         actorID,
	}
}

// TeamMemberAddedEvent is published when a user joins a team
type TeamMemberAddedEvent struct {
	shared.BaseDomainEvent
	TeamID   uuid.UUID      `json:"team_id"`
	TeamName string         `json:"team_name"`
	UserID   uuid.UUID      `json:"user_id"`
	Role     TeamMemberRole `json:"role"`
	ActorID  uuid.UUID      `json:"actor_id"`
}

func NewTeamMemberAddedEvent(t *Team, member *TeamMember, actorID uuid.UUID) *TeamMemberAddedEvent {
	return &TeamMemberAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTeamMemberAdded, AggregateTypeTeam, t.ID),
		TeamID:          t.ID,
		TeamName:        t.Name,
		UserID:          member.UserID,
		Role:            member.Role,
		ActorID:         actorID,
	}
}
