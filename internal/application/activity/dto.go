package activity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/pmo/backend/internal/domain/activity"
)

// ActivityFilter narrows the feed. A project filter wins over a user
// filter when both are present.
type ActivityFilter struct {
	Limit     int        `form:"limit"`
	Offset    int        `form:"offset"`
	ProjectID *uuid.UUID `form:"project_id"`
	UserID    *uuid.UUID `form:"user_id"`
}

// ActivityLogResponse is the audit row representation returned to
// clients, with the acting user's name and the project name joined in
type ActivityLogResponse struct {
	ID          uuid.UUID       `json:"id"`
	UserID      *uuid.UUID      `json:"user_id"`
	UserName    *string         `json:"user_name"`
	ProjectID   *uuid.UUID      `json:"project_id"`
	ProjectName *string         `json:"project_name"`
	Action      string          `json:"action"`
	EntityType  string          `json:"entity_type"`
	EntityID    uuid.UUID       `json:"entity_id"`
	Details     json.RawMessage `json:"details"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToActivityLogResponse converts a detailed audit row to a response DTO
func ToActivityLogResponse(l *activity.ActivityLogWithDetails) ActivityLogResponse {
	return ActivityLogResponse{
		ID:          l.ID,
		UserID:      l.UserID,
		UserName:    l.UserName,
		ProjectID:   l.ProjectID,
		ProjectName: l.ProjectName,
		Action:      l.Action,
		EntityType:  l.EntityType,
		EntityID:    l.EntityID,
		Details:     l.Details,
		CreatedAt:   l.CreatedAt,
	}
}

// ToActivityLogResponses converts a slice of detailed audit rows to
// response DTOs
func ToActivityLogResponses(logs []*activity.ActivityLogWithDetails) []ActivityLogResponse {
	responses := make([]ActivityLogResponse, len(logs))
	for i, l := range logs {
		responses[i] = ToActivityLogResponse(l)
	}
	return responses
}
