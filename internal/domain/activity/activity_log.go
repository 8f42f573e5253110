package activity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ActivityLog is an append-only audit row. Both user and project are
// optional so system actions and cross-project events can be recorded.
type ActivityLog struct {
	ID         uuid.UUID
	UserID     *uuid.UUID
	ProjectID  *uuid.UUID
	Action     string
	EntityType string
	EntityID   uuid.UUID
	Details    json.RawMessage
	CreatedAt  time.Time
}

// ActivityLogWithDetails is the read representation with the acting
// user's name and the project name joined in.
type ActivityLogWithDetails struct {
	ID          uuid.UUID
	UserID      *uuid.UUID
	UserName    *string
	ProjectID   *uuid.UUID
	ProjectName *string
	Action      string
	EntityType  string
	EntityID    uuid.UUID
	Details     json.RawMessage
	CreatedAt   time.Time
}

// NewActivityLog records an action against an entity
func NewActivityLog(userID, projectID *uuid.UUID, action, entityType string, entityID uuid.UUID, details json.RawMessage) *ActivityLog {
	return &ActivityLog{
		ID:         uuid.New(),
		UserID:     userID,
		ProjectID:  projectID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		CreatedAt:  time.Now(),
	}
}
