package notification

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pmo/backend/internal/domain/notification"
	"github.com/pmo/backend/internal/domain/shared"
	"github.com/pmo/backend/internal/domain/task"
)

// DueSoonScanner periodically finds unfinished assigned tasks whose due
// date falls inside the lookahead window and notifies their assignees.
// The counter's Acquire guard keeps it to one notification per task per
// window, including across restarts when the counter is Redis-backed.
type DueSoonScanner struct {
	taskRepo task.TaskRepository
	service  *NotificationService
	counter  shared.UnreadCounter
	window   time.Duration
	logger   *zap.Logger
}

// NewDueSoonScanner creates the due-soon background job
func NewDueSoonScanner(
	taskRepo task.TaskRepository,
	service *NotificationService,
	counter shared.UnreadCounter,
	window time.Duration,
	logger *zap.Logger,
) *DueSoonScanner {
	return &DueSoonScanner{
		taskRepo: taskRepo,
		service:  service,
		counter:  counter,
		window:   window,
		logger:   logger,
	}
}

// Name identifies the job in scheduler logs
func (s *DueSoonScanner) Name() string {
	return "due-soon-scan"
}

// Run performs one scan pass
func (s *DueSoonScanner) Run(ctx context.Context) error {
	now := time.Now()
	tasks, err := s.taskRepo.FindDueBetween(ctx, now, now.Add(s.window))
	if err != nil {
		return err
	}

	notified := 0
	for _, t := range tasks {
		if t.AssigneeID == nil || t.DueDate == nil {
			continue
		}

		acquired, err := s.counter.Acquire(ctx, "due-soon:"+t.ID.String(), s.window)
		if err != nil {
			// Without the guard a flapping cache would re-notify on
			// every pass; skip until it recovers.
			s.logger.Warn("due-soon guard unavailable", zap.String("task_id", t.ID.String()), zap.Error(err))
			continue
		}
		if !acquired {
			continue
		}

		link := "/tasks/" + t.ID.String()
		message := fmt.Sprintf("Task %q is due on %s", t.Title, t.DueDate.Format("Jan 2, 2006"))
		if err := s.service.Notify(ctx, *t.AssigneeID, notification.TypeTaskDueSoon,
			humanize(notification.TypeTaskDueSoon.String()), message, &link); err != nil {
			s.logger.Error("failed to notify assignee",
				zap.String("task_id", t.ID.String()), zap.Error(err))
			continue
		}
		notified++
	}

	if notified > 0 {
		s.logger.Info("due-soon scan complete",
			zap.Int("candidates", len(tasks)), zap.Int("notified", notified))
	}
	return nil
}
