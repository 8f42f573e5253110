package notification

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pmo/backend/internal/domain/authz"
	"github.com/pmo/backend/internal/domain/notification"
	"github.com/pmo/backend/internal/domain/shared"
)

// NotificationService handles notification use cases. Ownership is
// strict: every mutation verifies the caller owns the notification,
// with no admin override. The unread badge count is served through the
// counter cache; cache failures degrade to the database and never fail
// a request.
type NotificationService struct {
	notificationRepo notification.NotificationRepository
	counter          shared.UnreadCounter
	evaluator        *authz.Evaluator
	logger           *zap.Logger
	cacheTTL         time.Duration
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	notificationRepo notification.NotificationRepository,
	counter shared.UnreadCounter,
	evaluator *authz.Evaluator,
	logger *zap.Logger,
	cacheTTL time.Duration,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		counter:          counter,
		evaluator:        evaluator,
		logger:           logger,
		cacheTTL:         cacheTTL,
	}
}

// List returns the caller's notifications, newest first
func (s *NotificationService) List(ctx context.Context, p authz.Principal) ([]NotificationResponse, error) {
	notifications, err := s.notificationRepo.FindByUser(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return ToNotificationResponses(notifications), nil
}

// UnreadCount returns the caller's unread count, served from the cache
// when a fresh value is present
func (s *NotificationService) UnreadCount(ctx context.Context, p authz.Principal) (*UnreadCountResponse, error) {
	if count, ok, err := s.counter.Get(ctx, p.ID); err != nil {
		s.logger.Warn("unread counter read failed", zap.Error(err))
	} else if ok {
		return &UnreadCountResponse{Count: count}, nil
	}

	count, err := s.notificationRepo.CountUnread(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	if err := s.counter.Set(ctx, p.ID, count, s.cacheTTL); err != nil {
		s.logger.Warn("unread counter write failed", zap.Error(err))
	}

	return &UnreadCountResponse{Count: count}, nil
}

// MarkRead flags one of the caller's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, p authz.Principal, id uuid.UUID) (*NotificationResponse, error) {
	n, err := s.findNotification(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.evaluator.CanModifyNotification(p, n); err != nil {
		return nil, err
	}

	if err := s.notificationRepo.MarkAsRead(ctx, id); err != nil {
		return nil, err
	}
	n.MarkRead()
	s.invalidate(ctx, p.ID)

	response := ToNotificationResponse(n)
	return &response, nil
}

// MarkAllRead flags all of the caller's notifications as read
func (s *NotificationService) MarkAllRead(ctx context.Context, p authz.Principal) error {
	if err := s.notificationRepo.MarkAllAsRead(ctx, p.ID); err != nil {
		return err
	}
	s.invalidate(ctx, p.ID)
	return nil
}

// Delete removes one of the caller's notifications
func (s *NotificationService) Delete(ctx context.Context, p authz.Principal, id uuid.UUID) error {
	n, err := s.findNotification(ctx, id)
	if err != nil {
		return err
	}
	if err := s.evaluator.CanDeleteNotification(p, n); err != nil {
		return err
	}

	if err := s.notificationRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, p.ID)
	return nil
}

// Notify materializes a notification for a user. The event subscribers
// and the due-soon scanner call this; it is not exposed over HTTP.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, typ notification.NotificationType, title, message string, link *string) error {
	n, err := notification.NewNotification(userID, typ, title, message, link)
	if err != nil {
		return err
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *NotificationService) findNotification(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	n, err := s.notificationRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Notification not found")
		}
		return nil, err
	}
	return n, nil
}

func (s *NotificationService) invalidate(ctx context.Context, userID uuid.UUID) {
	if err := s.counter.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("unread counter invalidation failed",
			zap.String("user_id", userID.String()), zap.Error(err))
	}
}
