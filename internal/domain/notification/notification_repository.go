package notification

import (
	"context"

	"github.com/google/uuid"
)

// NotificationRepository defines the persistence port for notifications
type NotificationRepository interface {
	// Create persists a new notification
	Create(ctx context.Context, n *Notification) error

	// Delete removes a notification by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID retrieves a notification by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)

	// FindByUser retrieves a user's notifications, newest first
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Notification, error)

	// CountUnread counts a user's unread notifications
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)

	// MarkAsRead flags a single notification as read
	MarkAsRead(ctx context.Context, id uuid.UUID) error

	// MarkAllAsRead flags all of a user's notifications as read
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
}
