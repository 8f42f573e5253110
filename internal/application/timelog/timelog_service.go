package timelog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pmo/backend/internal/domain/authz"
	"github.com/pmo/backend/internal/domain/shared"
	"github.com/pmo/backend/internal/domain/timelog"
)

const dateLayout = "2006-01-02"

// TimeLogService handles time tracking use cases. Reads are open to
// any authenticated user; mutations are restricted to the owning user
// with no admin override.
type TimeLogService struct {
	timeLogRepo timelog.TimeLogRepository
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewTimeLogService creates a new time log service
func NewTimeLogService(timeLogRepo timelog.TimeLogRepository, events shared.EventPublisher, logger *zap.Logger) *TimeLogService {
	return &TimeLogService{
		timeLogRepo: timeLogRepo,
		events:      events,
		logger:      logger,
	}
}

// Create logs hours for the authenticated caller
func (s *TimeLogService) Create(ctx context.Context, p authz.Principal, req CreateTimeLogRequest) (*TimeLogResponse, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	l, err := timelog.NewTimeLog(req.TaskID, p.ID, req.Hours, date, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.timeLogRepo.Create(ctx, l); err != nil {
		return nil, err
	}

	s.publish(ctx, timelog.NewTimeLogCreatedEvent(l, p.ID))

	// Read back for the joined task, project and user names
	return s.GetByID(ctx, l.ID)
}

// ListMine returns the caller's time logs, optionally restricted to an
// inclusive date window
func (s *TimeLogService) ListMine(ctx context.Context, p authz.Principal, filter TimeLogFilter) ([]TimeLogResponse, error) {
	return s.ListByUser(ctx, p.ID, filter)
}

// ListByUser returns a user's time logs, optionally restricted to an
// inclusive date window
func (s *TimeLogService) ListByUser(ctx context.Context, userID uuid.UUID, filter TimeLogFilter) ([]TimeLogResponse, error) {
	start, end, err := parseWindow(filter)
	if err != nil {
		return nil, err
	}
	logs, err := s.timeLogRepo.FindByUser(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	return ToTimeLogResponses(logs), nil
}

// ListByTask returns all time logs recorded against a task
func (s *TimeLogService) ListByTask(ctx context.Context, taskID uuid.UUID) ([]TimeLogResponse, error) {
	logs, err := s.timeLogRepo.FindByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return ToTimeLogResponses(logs), nil
}

// GetByID returns a single time log
func (s *TimeLogService) GetByID(ctx context.Context, id uuid.UUID) (*TimeLogResponse, error) {
	l, err := s.findTimeLog(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToTimeLogResponse(l)
	return &response, nil
}

// Update applies a partial update to a time log owned by the caller
func (s *TimeLogService) Update(ctx context.Context, p authz.Principal, id uuid.UUID, req UpdateTimeLogRequest) (*TimeLogResponse, error) {
	l, err := s.findTimeLog(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.UserID != p.ID {
		return nil, shared.NewDomainError("FORBIDDEN", "Not authorized to modify this time log")
	}

	if req.Hours != nil {
		if err := l.SetHours(*req.Hours); err != nil {
			return nil, err
		}
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		l.SetDate(date)
	}
	if req.Description != nil {
		l.Description = req.Description
		l.Touch()
	}

	if err := s.timeLogRepo.Update(ctx, &l.TimeLog); err != nil {
		return nil, err
	}

	response := ToTimeLogResponse(l)
	return &response, nil
}

// Delete removes a time log owned by the caller
func (s *TimeLogService) Delete(ctx context.Context, p authz.Principal, id uuid.UUID) error {
	l, err := s.findTimeLog(ctx, id)
	if err != nil {
		return err
	}
	if l.UserID != p.ID {
		return shared.NewDomainError("FORBIDDEN", "Not authorized to delete this time log")
	}
	return s.timeLogRepo.Delete(ctx, id)
}

func (s *TimeLogService) findTimeLog(ctx context.Context, id uuid.UUID) (*timelog.TimeLogWithDetails, error) {
	l, err := s.timeLogRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Time log not found")
		}
		return nil, err
	}
	return l, nil
}

func (s *TimeLogService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if err := s.events.Publish(ctx, events...); err != nil {
		for _, e := range events {
			s.logger.Warn("failed to publish event", zap.String("event_type", e.EventType()), zap.Error(err))
		}
	}
}

func parseDate(s string) (time.Time, error) {
	date, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, shared.NewDomainError("VALIDATION_ERROR", "Invalid date format, expected YYYY-MM-DD")
	}
	return date, nil
}

func parseWindow(filter TimeLogFilter) (start, end *time.Time, err error) {
	if filter.StartDate != "" {
		s, err := parseDate(filter.StartDate)
		if err != nil {
			return nil, nil, err
		}
		start = &s
	}
	if filter.EndDate != "" {
		e, err := parseDate(filter.EndDate)
		if err != nil {
			return nil, nil, err
		}
		end = &e
	}
	return start, end, nil
}
