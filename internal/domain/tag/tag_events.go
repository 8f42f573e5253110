package tag

import (
	"github.com/google/uuid"

	"github.com/pmo/backend/internal/domain/shared"
)

const AggregateTypeTag = "Tag"

const EventTypeTagCreated = "tag.created"

// TagCreatedEvent is published when a new tag is created
type TagCreatedEvent struct {
	shared.BaseDomainEvent
	TagID   uuid.UUID `json:"tag_id"`
	Name    string    `json:"name"`
	ActorID uuid.UUID `json:"actor_id"`
}

func NewTagCreatedEvent(t *Tag, actorID uuid.UUID) *TagCreatedEvent {
	return &TagCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTagCreated, AggregateTypeTag, t.ID),
		TagID:           t.ID,
		Name:            t.Name,
		ActorID:         actorID,
	}
}
