package task

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pmo/backend/internal/domain/authz"
	"github.com/pmo/backend/internal/domain/project"
	"github.com/pmo/backend/internal/domain/shared"
	"github.com/pmo/backend/internal/domain/task"
)

// TaskService handles task-related use cases
type TaskService struct {
	taskRepo  task.TaskRepository
	evaluator *authz.Evaluator
	events    shared.EventPublisher
	logger    *zap.Logger
}

// NewTaskService creates a new task service
func NewTaskService(
	taskRepo task.TaskRepository,
	evaluator *authz.Evaluator,
	events shared.EventPublisher,
	logger *zap.Logger,
) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		evaluator: evaluator,
		events:    events,
		logger:    logger,
	}
}

// Create creates a task in a project the caller has access to
func (s *TaskService) Create(ctx context.Context, p authz.Principal, req CreateTaskRequest) (*TaskResponse, error) {
	if err := s.evaluator.CanCreateTask(ctx, p, req.ProjectID); err != nil {
		return nil, err
	}

	status, err := task.ParseTaskStatus(req.Status)
	if err != nil {
		return nil, err
	}
	priority, err := project.ParsePriority(req.Priority)
	if err != nil {
		return nil, err
	}

	opts := []task.TaskOption{task.WithPriority(priority)}
	if req.Description != nil {
		opts = append(opts, task.WithDescription(*req.Description))
	}
	if req.AssigneeID != nil {
		opts = append(opts, task.WithAssignee(*req.AssigneeID))
	}
	if req.MilestoneID != nil {
		opts = append(opts, task.WithMilestone(*req.MilestoneID))
	}
	if req.DueDate != nil {
		opts = append(opts, task.WithDueDate(*req.DueDate))
	}
	if req.EstimatedHours != nil {
		opts = append(opts, task.WithEstimatedHours(*req.EstimatedHours))
	}

	t, err := task.NewTask(req.ProjectID, req.Title, opts...)
	if err != nil {
		return nil, err
	}
	if status != task.StatusTodo {
		if err := t.ChangeStatus(status); err != nil {
			return nil, err
		}
	}

	if err := s.taskRepo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.publish(ctx, task.NewTaskCreatedEvent(t, p.ID))

	response := ToTaskResponse(t)
	return &response, nil
}

// List returns all tasks for admins, otherwise tasks in projects the
// caller owns or is a member of
func (s *TaskService) List(ctx context.Context, p authz.Principal) ([]TaskResponse, error) {
	var (
		tasks []*task.Task
		err   error
	)
	if p.IsAdmin() {
		tasks, err = s.taskRepo.FindAll(ctx)
	} else {
		tasks, err = s.taskRepo.FindAccessibleByUser(ctx, p.ID)
	}
	if err != nil {
		return nil, err
	}
	return ToTaskResponses(tasks), nil
}

// ListByProject returns the tasks of a project the caller has access to
func (s *TaskService) ListByProject(ctx context.Context, p authz.Principal, projectID uuid.UUID) ([]TaskResponse, error) {
	if err := s.evaluator.Evaluate(ctx, p, authz.ResourceProject, authz.OpRead, projectID); err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return ToTaskResponses(tasks), nil
}

// GetByID returns a single task
func (s *TaskService) GetByID(ctx context.Context, p authz.Principal, id uuid.UUID) (*TaskResponse, error) {
	if err := s.evaluator.Evaluate(ctx, p, authz.ResourceTask, authz.OpRead, id); err != nil {
		return nil, err
	}

	t, err := s.findTask(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToTaskResponse(t)
	return &response, nil
}

// Update applies a partial update to a task
func (s *TaskService) Update(ctx context.Context, p authz.Principal, id uuid.UUID, req UpdateTaskRequest) (*TaskResponse, error) {
	if err := s.evaluator.Evaluate(ctx, p, authz.ResourceTask, authz.OpUpdate, id); err != nil {
		return nil, err
	}

	t, err := s.findTask(ctx, id)
	if err != nil {
		return nil, err
	}

	prevAssignee := t.AssigneeID
	wasDone := t.IsDone()

	if req.Title != nil {
		if err := t.Retitle(*req.Title); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		t.Description = req.Description
	}
	if req.Status != nil {
		status, err := task.ParseTaskStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		if err := t.ChangeStatus(status); err != nil {
			return nil, err
		}
	}
	if req.Priority != nil {
		priority, err := project.ParsePriority(*req.Priority)
		if err != nil {
			return nil, err
		}
		t.Priority = priority
	}
	if req.AssigneeID != nil {
		t.AssignTo(req.AssigneeID)
	}
	if req.MilestoneID != nil {
		t.MilestoneID = req.MilestoneID
	}
	if req.DueDate != nil {
		t.DueDate = req.DueDate
	}
	if req.EstimatedHours != nil {
		t.EstimatedHours = req.EstimatedHours
	}
	if req.ActualHours != nil {
		t.ActualHours = req.ActualHours
	}
	t.Touch()

	if err := s.taskRepo.Update(ctx, t); err != nil {
		return nil, err
	}

	// A reassignment and a completion each get their own event; a
	// plain field change falls back to the generic update event.
	var events []shared.DomainEvent
	if t.AssigneeID != nil && (prevAssignee == nil || *prevAssignee != *t.AssigneeID) {
		events = append(events, task.NewTaskAssignedEvent(t, *t.AssigneeID, p.ID))
	}
	if t.IsDone() && !wasDone {
		events = append(events, task.NewTaskCompletedEvent(t, p.ID))
	}
	if len(events) == 0 {
		events = append(events, task.NewTaskUpdatedEvent(t, p.ID))
	}
	s.publish(ctx, events...)

	response := ToTaskResponse(t)
	return &response, nil
}

// Delete removes a task. Only the owner of the task's project (or an
// admin) may delete it.
func (s *TaskService) Delete(ctx context.Context, p authz.Principal, id uuid.UUID) error {
	if err := s.evaluator.Evaluate(ctx, p, authz.ResourceTask, authz.OpDelete, id); err != nil {
		return err
	}

	t, err := s.findTask(ctx, id)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, task.NewTaskDeletedEvent(t, p.ID))
	return nil
}

func (s *TaskService) findTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	t, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Task not found")
		}
		return nil, err
	}
	return t, nil
}

func (s *TaskService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if err := s.events.Publish(ctx, events...); err != nil {
		for _, e := range events {
			s.logger.Warn("failed to publish event", zap.String("event_type", e.EventType()), zap.Error(err))
		}
	}
}
