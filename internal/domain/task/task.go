package task

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pmo/backend/internal/domain/project"
	"github.com/pmo/backend/internal/domain/shared"
)

// TaskStatus represents the workflow state of a task
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "inprogress"
	StatusReview     TaskStatus = "review"
	StatusDone       TaskStatus = "done"
	StatusBlocked    TaskStatus = "blocked"
)

// ParseTaskStatus parses a status string. An empty string yields the
// default todo status.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusTodo:
		return StatusTodo, nil
	case StatusInProgress:
		return StatusInProgress, nil
	case StatusReview:
		return StatusReview, nil
	case StatusDone:
		return StatusDone, nil
	case StatusBlocked:
		return StatusBlocked, nil
	case "":
		return StatusTodo, nil
	}
	return "", shared.NewDomainError("VALIDATION_ERROR", "Invalid task status")
}

// IsValid reports whether the status is one of the known values
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusDone, StatusBlocked:
		return true
	}
	return false
}

// String returns the lowercase wire representation
func (s TaskStatus) String() string {
	return string(s)
}

// Task belongs to exactly one project and inherits its access control
// from that project; tasks carry no ACL of their own.
type Task struct {
	shared.BaseEntity
	ProjectID      uuid.UUID
	MilestoneID    *uuid.UUID
	Title          string
	Description    *string
	Status         TaskStatus
	Priority       project.Priority
	AssigneeID     *uuid.UUID
	DueDate        *time.Time
	EstimatedHours *float32
	ActualHours    *float32
}

// TaskOption configures optional fields at creation time
type TaskOption func(*Task)

// WithDescription sets the task description
func WithDescription(description string) TaskOption {
	return func(t *Task) {
		t.Description = &description
	}
}

// WithPriority sets the initial priority
func WithPriority(priority project.Priority) TaskOption {
	return func(t *Task) {
		t.Priority = priority
	}
}

// WithAssignee assigns the task at creation time
func WithAssignee(userID uuid.UUID) TaskOption {
	return func(t *Task) {
		t.AssigneeID = &userID
	}
}

// WithMilestone attaches the task to a milestone
func WithMilestone(milestoneID uuid.UUID) TaskOption {
	return func(t *Task) {
		t.MilestoneID = &milestoneID
	}
}

// WithDueDate sets the due date
func WithDueDate(due time.Time) TaskOption {
	return func(t *Task) {
		t.DueDate = &due
	}
}

// WithEstimatedHours sets the estimated effort
func WithEstimatedHours(hours float32) TaskOption {
	return func(t *Task) {
		t.EstimatedHours = &hours
	}
}

// NewTask creates a new task in a project
func NewTask(projectID uuid.UUID, title string, opts ...TaskOption) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Task title cannot be empty")
	}

	t := &Task{
		BaseEntity: shared.NewBaseEntity(),
		ProjectID:  projectID,
		Title:      title,
		Status:     StatusTodo,
		Priority:   project.PriorityMedium,
	}

	for _, opt := range opts {
		opt(t)
	}

	if !t.Priority.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid priority")
	}

	return t, nil
}

// Retitle changes the task title
func (t *Task) Retitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Task title cannot be empty")
	}
	t.Title = title
	t.Touch()
	return nil
}

// ChangeStatus moves the task to a new workflow state
func (t *Task) ChangeStatus(status TaskStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", "Invalid task status")
	}
	t.Status = status
	t.Touch()
	return nil
}

// AssignTo sets or clears the assignee
func (t *Task) AssignTo(userID *uuid.UUID) {
	t.AssigneeID = userID
	t.Touch()
}

// IsDone reports whether the task reached the done state
func (t *Task) IsDone() bool {
	return t.Status == StatusDone
}
