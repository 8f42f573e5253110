package task

import (
	"time"

	"github.com/google/uuid"

	"github.com/pmo/backend/internal/domain/task"
)

// CreateTaskRequest is the request to create a task
type CreateTaskRequest struct {
	ProjectID      uuid.UUID  `json:"project_id" binding:"required"`
	Title          string     `json:"title" binding:"required,min=1,max=200"`
	Description    *string    `json:"description"`
	Status         string     `json:"status" binding:"omitempty,oneof=todo inprogress review done blocked"`
	Priority       string     `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	AssigneeID     *uuid.UUID `json:"assignee_id"`
	MilestoneID    *uuid.UUID `json:"milestone_id"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours *float32   `json:"estimated_hours" binding:"omitempty,gt=0"`
}

// UpdateTaskRequest is the request to update a task. Nil fields are
// left unchanged.
type UpdateTaskRequest struct {
	Title          *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Description    *string    `json:"description"`
	Status         *string    `json:"status" binding:"omitempty,oneof=todo inprogress review done blocked"`
	Priority       *string    `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	AssigneeID     *uuid.UUID `json:"assignee_id"`
	MilestoneID    *uuid.UUID `json:"milestone_id"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours *float32   `json:"estimated_hours" binding:"omitempty,gt=0"`
	ActualHours    *float32   `json:"actual_hours" binding:"omitempty,gt=0"`
}

// TaskResponse is the task representation returned to clients
type TaskResponse struct {
	ID             uuid.UUID  `json:"id"`
	ProjectID      uuid.UUID  `json:"project_id"`
	MilestoneID    *uuid.UUID `json:"milestone_id"`
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	AssigneeID     *uuid.UUID `json:"assignee_id"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours *float32   `json:"estimated_hours"`
	ActualHours    *float32   `json:"actual_hours"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ToTaskResponse converts a domain task to a response DTO
func ToTaskResponse(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:             t.ID,
		ProjectID:      t.ProjectID,
		MilestoneID:    t.MilestoneID,
		Title:          t.Title,
		Description:    t.Description,
		Status:         t.Status.String(),
		Priority:       t.Priority.String(),
		AssigneeID:     t.AssigneeID,
		DueDate:        t.DueDate,
		EstimatedHours: t.EstimatedHours,
		ActualHours:    t.ActualHours,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

// ToTaskResponses converts a slice of domain tasks to response DTOs
func ToTaskResponses(tasks []*task.Task) []TaskResponse {
	responses := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		responses[i] = ToTaskResponse(t)
	}
	return responses
}
