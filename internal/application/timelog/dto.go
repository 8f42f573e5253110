package timelog

import (
	"time"

	"github.com/google/uuid"

	"github.com/pmo/backend/internal/domain/timelog"
)

// CreateTimeLogRequest is the request to log hours against a task.
// The owner is always the authenticated caller; a user id in the body
// is ignored.
type CreateTimeLogRequest struct {
	TaskID      uuid.UUID `json:"task_id" binding:"required"`
	Hours       float32   `json:"hours" binding:"required,gt=0"`
	Date        string    `json:"date" binding:"required"`
	Description *string   `json:"description"`
}

// UpdateTimeLogRequest is the request to update a time log. Nil fields
// are left unchanged.
type UpdateTimeLogRequest struct {
	Hours       *float32 `json:"hours" binding:"omitempty,gt=0"`
	Date        *string  `json:"date"`
	Description *string  `json:"description"`
}

// TimeLogFilter restricts a listing to an inclusive date window
type TimeLogFilter struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// TimeLogResponse is the time log representation returned to clients,
// with the task, project and user names joined in
type TimeLogResponse struct {
	ID          uuid.UUID `json:"id"`
	TaskID      uuid.UUID `json:"task_id"`
	UserID      uuid.UUID `json:"user_id"`
	Hours       float32   `json:"hours"`
	Date        time.Time `json:"date"`
	Description *string   `json:"description"`
	TaskName    *string   `json:"task_name"`
	ProjectName *string   `json:"project_name"`
	UserName    *string   `json:"user_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToTimeLogResponse converts a detailed time log to a response DTO
func ToTimeLogResponse(l *timelog.TimeLogWithDetails) TimeLogResponse {
	return TimeLogResponse{
		ID:          l.ID,
		TaskID:      l.TaskID,
		UserID:      l.UserID,
		Hours:       l.Hours,
		Date:        l.Date,
		Description: l.Description,
		TaskName:    l.TaskName,
		ProjectName: l.ProjectName,
		UserName:    l.UserName,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

// ToTimeLogResponses converts a slice of detailed time logs to
// response DTOs
func ToTimeLogResponses(logs []*timelog.TimeLogWithDetails) []TimeLogResponse {
	responses := make([]TimeLogResponse, len(logs))
	for i, l := range logs {
		responses[i] = ToTimeLogResponse(l)
	}
	return responses
}
