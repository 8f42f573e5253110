package activity

import (
	"context"

	"go.uber.org/zap"

	"github.com/pmo/backend/internal/domain/activity"
)

const (
	defaultLimit = 50
	maxLimit     = 100
)

// ActivityService serves the read side of the audit trail. The feed is
// visible to every authenticated user; rows are only ever written by
// the event recorder.
type ActivityService struct {
	activityRepo activity.ActivityLogRepository
	logger       *zap.Logger
}

// NewActivityService creates a new activity service
func NewActivityService(activityRepo activity.ActivityLogRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		logger:       logger,
	}
}

// List returns a page of the activity feed, newest first
func (s *ActivityService) List(ctx context.Context, filter ActivityFilter) ([]ActivityLogResponse, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var (
		logs []*activity.ActivityLogWithDetails
		err  error
	)
	switch {
	case filter.ProjectID != nil:
		logs, err = s.activityRepo.FindByProject(ctx, *filter.ProjectID, limit)
	case filter.UserID != nil:
		logs, err = s.activityRepo.FindByUser(ctx, *filter.UserID, limit)
	default:
		logs, err = s.activityRepo.FindAll(ctx, limit, offset)
	}
	if err != nil {
		return nil, err
	}

	return ToActivityLogResponses(logs), nil
}

// Count returns the total number of recorded activities
func (s *ActivityService) Count(ctx context.Context) (int64, error) {
	return s.activityRepo.Count(ctx)
}
